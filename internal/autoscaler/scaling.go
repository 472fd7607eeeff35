package autoscaler

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
	"autoscaler/internal/pool"
	"autoscaler/internal/runtimeadapter"
)

// ScaleUp implements §4.G's scale-up: start one container via the runtime
// adapter and register it into the pool. The runtime call happens without
// the pool's own lock or the registry lock held, per §5; the whole
// function, runtime call included, is serialized by the pool-specific
// scaling mutex, and only the registration step below touches pool state.
func (a *Autoscaler) ScaleUp(ctx context.Context, functionKey string, fnSpec FunctionSpec) (pool.ContainerInfo, error) {
	lock := a.scalingLockFor(functionKey)
	lock.Lock()
	defer lock.Unlock()

	p := a.GetOrCreatePool(functionKey, fnSpec)

	if p.AtCapacity() {
		return pool.ContainerInfo{}, fmt.Errorf("%w: pool %s already at max_containers", errs.ErrInvariantViolation, functionKey)
	}

	spec, ok := a.lookupSpec(functionKey)
	if !ok {
		spec = specEntry{image: fnSpec.Image, port: fnSpec.Port, env: fnSpec.Env}
	}

	startSpec := runtimeadapter.StartSpec{
		Image:   spec.image,
		Label:   newContainerLabel(functionKey),
		Port:    spec.port,
		Network: a.networkName,
		Env:     spec.env,
	}

	id, err := a.runtime.Start(ctx, startSpec)
	if err != nil {
		logScaleError("scale-up", functionKey, err)
		return pool.ContainerInfo{}, err
	}

	now := a.clock.MonotonicNow()
	info := pool.ContainerInfo{
		ID:            id,
		Name:          startSpec.Label,
		ContainerPort: startSpec.Port,
	}

	if err := p.AddContainer(now, info); err != nil {
		return pool.ContainerInfo{}, err
	}

	info.Status = pool.Healthy
	info.LastActive = now
	a.persistPool(ctx, p)

	return info, nil
}

// ScaleDown implements §4.G's scale-down: stop every scaledown candidate
// in order and remove it from the pool, persisting after each removal so
// a crash mid-sweep never loses track of which containers are already
// gone from the runtime.
func (a *Autoscaler) ScaleDown(ctx context.Context, functionKey string) {
	lock := a.scalingLockFor(functionKey)
	lock.Lock()
	defer lock.Unlock()

	p, ok := a.lookupPool(functionKey)
	if !ok {
		return
	}

	now := a.clock.MonotonicNow()
	candidates := p.ScaledownCandidates(now)

	for _, id := range candidates {
		if err := a.runtime.Stop(ctx, id); err != nil && !errors.Is(err, errs.ErrNotFound) {
			logScaleError("scale-down", functionKey, err)
		}

		p.RemoveContainer(id)
		a.persistPool(ctx, p)
	}

	if len(candidates) > 0 {
		logrus.Debugf("autoscaler: scaled down %d container(s) for pool %s", len(candidates), functionKey)
	}

	a.deletePoolIfEmpty(functionKey)
}
