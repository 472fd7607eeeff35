package autoscaler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"autoscaler/internal/pool"
)

// StartLoop launches the per-pool background scaling task from §4.G's
// periodic loop: sample metrics, update status, evaluate scale-up/down,
// persist on mutation. The loop runs until ctx is cancelled, finishing
// its current tick before exiting, per §5's cancellation rules.
func (a *Autoscaler) StartLoop(ctx context.Context, functionKey string, fnSpec FunctionSpec) {
	loopCtx, cancel := context.WithCancel(ctx)

	a.loopsMu.Lock()
	if existing, ok := a.cancel[functionKey]; ok {
		existing()
	}
	a.cancel[functionKey] = cancel
	a.loopsMu.Unlock()

	go a.runLoop(loopCtx, functionKey, fnSpec)
}

// StopLoop cancels a single pool's background loop, used during targeted
// teardown (tests, or an explicit function deletion outside this spec's
// scope).
func (a *Autoscaler) StopLoop(functionKey string) {
	a.loopsMu.Lock()
	defer a.loopsMu.Unlock()

	if cancel, ok := a.cancel[functionKey]; ok {
		cancel()
		delete(a.cancel, functionKey)
	}
}

// Shutdown cancels every running pool loop and returns without waiting
// for them. Each loop finishes a tick already in progress, then saves its
// pool's snapshot and exits on its own goroutine.
func (a *Autoscaler) Shutdown() {
	a.loopsMu.Lock()
	defer a.loopsMu.Unlock()

	for key, cancel := range a.cancel {
		cancel()
		delete(a.cancel, key)
	}
}

// runLoop waits one poll_interval, ticks, then repeats, until ctx is
// cancelled. Waiting before the first tick (rather than ticking
// immediately on start) means a pool created moments ago, with nothing
// yet to reconcile, doesn't have its loop racing the goroutine that just
// created it.
func (a *Autoscaler) runLoop(ctx context.Context, functionKey string, fnSpec FunctionSpec) {
	p := a.GetOrCreatePool(functionKey, fnSpec)
	interval := p.Config.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		select {
		case <-ctx.Done():
			a.persistPool(backgroundCtx(), p)
			return
		case <-time.After(interval):
			a.tick(ctx, functionKey, p, fnSpec)
		}
	}
}

func (a *Autoscaler) tick(ctx context.Context, functionKey string, p *pool.Pool, fnSpec FunctionSpec) {
	mutated := false
	now := a.clock.MonotonicNow()

	for _, c := range p.Snapshot() {
		cpu, err := a.metrics.CPUPercent(ctx, c.ID)
		if err != nil {
			logrus.Warnf("autoscaler: skipping metrics update for container %s: %v", c.ID, err)
			continue
		}

		mem, err := a.metrics.MemoryPercent(ctx, c.ID)
		if err != nil {
			logrus.Warnf("autoscaler: skipping metrics update for container %s: %v", c.ID, err)
			continue
		}

		p.UpdateMetrics(now, c.ID, cpu, mem)
		mutated = true
	}

	if p.NeedsScaleUp() {
		if _, err := a.ScaleUp(ctx, functionKey, fnSpec); err == nil {
			mutated = true
		}
	}

	if len(p.ScaledownCandidates(now)) > 0 {
		a.ScaleDown(ctx, functionKey)
		mutated = true
	}

	if mutated {
		a.persistPool(ctx, p)
	}
}
