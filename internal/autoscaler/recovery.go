package autoscaler

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
	"autoscaler/internal/persistence"
)

// Recover implements §4.G's startup recovery: load every persisted
// snapshot, reconstruct its pool, validate each container against the
// live runtime, drop dead containers and empty scale-to-zero pools, then
// refresh metadata. Individual snapshot failures are logged and skipped;
// the process starts regardless, per the recovery contract's best-effort
// guarantee.
func (a *Autoscaler) Recover(ctx context.Context, specsByFunction map[string]FunctionSpec) {
	if a.persistence == nil {
		return
	}

	snapshots, err := a.persistence.LoadAll(ctx)
	if err != nil {
		logrus.Warnf("autoscaler: recovery load_all failed: %v", err)
		return
	}

	for _, snapshot := range snapshots {
		a.recoverSnapshot(ctx, snapshot, specsByFunction)
	}

	a.poolsMu.RLock()
	totalPools := len(a.pools)
	a.poolsMu.RUnlock()

	meta := persistence.SystemMetadata{
		Version:     "1",
		LastCleanup: a.clock.UnixNow(),
		TotalPools:  totalPools,
	}
	a.persistence.SaveMetadata(ctx, meta)
}

func (a *Autoscaler) recoverSnapshot(ctx context.Context, snapshot persistence.PoolSnapshot, specsByFunction map[string]FunctionSpec) {
	p := persistence.FromSnapshot(snapshot, fromUnix)

	live := p.Containers[:0]
	for _, c := range p.Containers {
		state, err := a.runtime.Inspect(ctx, c.ID)
		if errors.Is(err, errs.ErrNotFound) {
			logrus.Infof("autoscaler: recovery dropping missing container %s from pool %s", c.ID, p.FunctionKey)
			continue
		}
		if err != nil {
			logrus.Warnf("autoscaler: recovery failed to inspect container %s: %v", c.ID, err)
			continue
		}
		if !state.Running {
			logrus.Infof("autoscaler: recovery dropping stopped container %s from pool %s", c.ID, p.FunctionKey)
			continue
		}

		live = append(live, c)
	}
	p.Containers = live

	fnSpec, ok := specsByFunction[p.FunctionKey]
	if !ok {
		fnSpec = FunctionSpec{MinContainers: p.MinContainers, MaxContainers: p.MaxContainers, Monitoring: p.Config}
	}

	a.poolsMu.Lock()
	a.pools[p.FunctionKey] = p
	if ok {
		a.specsByKey[p.FunctionKey] = specEntry{image: fnSpec.Image, port: fnSpec.Port, env: fnSpec.Env}
	}
	a.poolsMu.Unlock()

	if p.Empty() && p.MinContainers == 0 {
		a.persistence.DeletePool(ctx, p.FunctionKey)
		a.poolsMu.Lock()
		delete(a.pools, p.FunctionKey)
		a.poolsMu.Unlock()
		return
	}

	a.persistPool(ctx, p)

	// Recovery step 6: every reconstructed pool gets its background
	// scaling loop restarted, using the app-lifetime background context
	// since the loop must outlive Recover's own ctx.
	a.StartLoop(backgroundCtx(), p.FunctionKey, fnSpec)
}
