package autoscaler

import (
	"context"
	"sync"

	"autoscaler/internal/pool"
)

// specEntry holds the per-function image/port/env the scale loop needs to
// start new containers; it is looked up alongside the pool but lives in
// its own map (Autoscaler.specsByKey) since pool.Pool's data model (§3)
// carries no image field.
type specEntry struct {
	image string
	port  uint32
	env   []string
}

// GetOrCreatePool returns the pool for functionKey, creating it on first
// reference under the double-check pattern from §4.G: read-lock lookup,
// then upgrade to write-lock, re-check, insert. A freshly created pool
// also gets its background scaling loop started here, per §4.G's
// recovery step 6 generalized to every pool-creation path: routing's
// cold-start and explicit scale-up both go through this function, so
// starting the loop here is what makes it true for "pools created
// thereafter" too, not just the ones recovery reconstructs at startup.
func (a *Autoscaler) GetOrCreatePool(functionKey string, spec FunctionSpec) *pool.Pool {
	a.poolsMu.RLock()
	if p, ok := a.pools[functionKey]; ok {
		a.poolsMu.RUnlock()
		return p
	}
	a.poolsMu.RUnlock()

	a.poolsMu.Lock()
	if p, ok := a.pools[functionKey]; ok {
		a.poolsMu.Unlock()
		return p
	}

	p := pool.New(functionKey, spec.MinContainers, spec.MaxContainers, spec.Monitoring)
	a.pools[functionKey] = p
	a.specsByKey[functionKey] = specEntry{image: spec.Image, port: spec.Port, env: spec.Env}
	a.poolsMu.Unlock()

	a.StartLoop(context.Background(), functionKey, spec)

	return p
}

func (a *Autoscaler) lookupPool(functionKey string) (*pool.Pool, bool) {
	a.poolsMu.RLock()
	defer a.poolsMu.RUnlock()

	p, ok := a.pools[functionKey]
	return p, ok
}

func (a *Autoscaler) lookupSpec(functionKey string) (specEntry, bool) {
	a.poolsMu.RLock()
	defer a.poolsMu.RUnlock()

	s, ok := a.specsByKey[functionKey]
	return s, ok
}

// deletePoolIfEmpty removes a pool and its persisted key once it has
// scaled to zero with min_containers == 0, per §3's pool lifecycle and
// §9's scale-to-zero correctness note.
func (a *Autoscaler) deletePoolIfEmpty(functionKey string) {
	a.poolsMu.Lock()
	p, ok := a.pools[functionKey]
	if !ok || !p.Empty() || p.MinContainers != 0 {
		a.poolsMu.Unlock()
		return
	}

	delete(a.pools, functionKey)
	delete(a.specsByKey, functionKey)
	a.poolsMu.Unlock()

	if a.persistence != nil {
		a.persistence.DeletePool(backgroundCtx(), functionKey)
	}
}

// scalingLockFor returns the per-pool mutex that serializes scale-up/down
// for one function key, distinct from poolsMu per §5's ordering rules.
func (a *Autoscaler) scalingLockFor(functionKey string) *sync.Mutex {
	a.scaleMuMu.Lock()
	defer a.scaleMuMu.Unlock()

	m, ok := a.scaleMu[functionKey]
	if !ok {
		m = &sync.Mutex{}
		a.scaleMu[functionKey] = m
	}
	return m
}
