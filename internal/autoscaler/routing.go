package autoscaler

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
	"autoscaler/internal/persistence"
	"autoscaler/internal/pool"
)

func toUnix(t time.Time) int64 { return t.Unix() }
func fromUnix(sec int64) time.Time { return time.Unix(sec, 0) }

// Route implements §4.G's invocation routing: prefer a healthy/idle
// container, fall back to the least-loaded overloaded one, and only
// synchronously scale up when the pool has nothing to offer at all.
func (a *Autoscaler) Route(ctx context.Context, functionKey string, spec FunctionSpec) (ContainerDetails, error) {
	p := a.GetOrCreatePool(functionKey, spec)
	now := a.clock.MonotonicNow()

	if c, ok := p.PickHealthiest(); ok {
		p.MarkActive(now, c.ID)
		a.persistPool(ctx, p)
		return toDetails(c), nil
	}

	if !p.Empty() {
		if c, ok := p.LeastLoadedOverloaded(); ok {
			p.MarkActive(now, c.ID)
			a.persistPool(ctx, p)
			return toDetails(c), nil
		}
	}

	c, err := a.ScaleUp(ctx, functionKey, spec)
	if err != nil {
		return ContainerDetails{}, err
	}

	return toDetails(c), nil
}

func toDetails(c pool.ContainerInfo) ContainerDetails {
	return ContainerDetails{ID: c.ID, Name: c.Name, Port: c.ContainerPort}
}

func (a *Autoscaler) persistPool(ctx context.Context, p *pool.Pool) {
	if a.persistence == nil {
		return
	}

	snapshot := persistence.ToSnapshot(p, toUnix, a.clock.UnixNow())
	a.persistence.SavePool(ctx, p.FunctionKey, snapshot)
}

// logScaleError logs a transient failure from the runtime adapter at the
// warn level the error handling design assigns TransientRuntimeError, and
// calls out ErrNotFound cases distinctly since those are not transient.
func logScaleError(action, functionKey string, err error) {
	if errors.Is(err, errs.ErrNotFound) {
		logrus.Warnf("autoscaler: %s for pool %s found no such container: %v", action, functionKey, err)
		return
	}
	logrus.Warnf("autoscaler: %s for pool %s failed: %v", action, functionKey, err)
}
