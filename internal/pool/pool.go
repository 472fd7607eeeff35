package pool

import (
	"fmt"
	"sort"
	"time"

	"github.com/cznic/mathutil"

	"autoscaler/internal/errs"
)

// AddContainer appends a container in Healthy status, per §4.F. Adding an
// id already present in the pool is a caller bug (InvariantViolation);
// the pool is left unchanged.
func (p *Pool) AddContainer(now time.Time, info ContainerInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.indexOf(info.ID) >= 0 {
		return fmt.Errorf("%w: container %s already present in pool %s", errs.ErrInvariantViolation, info.ID, p.FunctionKey)
	}

	info.Status = Healthy
	info.LastActive = now
	info.IdleSince = nil

	p.Containers = append(p.Containers, info)
	return nil
}

// RemoveContainer is idempotent: removing an id not present is a no-op.
func (p *Pool) RemoveContainer(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(id)
	if idx < 0 {
		return
	}

	p.Containers = append(p.Containers[:idx], p.Containers[idx+1:]...)
}

// UpdateMetrics records the latest CPU/memory sample for a container and
// runs the status transition rules from §4.F. Overload takes precedence
// over idle; idle-entry stamps idle_since only on the transition edge,
// and any sample above the cooldown threshold clears idle_since.
func (p *Pool) UpdateMetrics(now time.Time, id string, cpuPercent, memPercent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(id)
	if idx < 0 {
		return
	}

	c := &p.Containers[idx]
	c.CPUUsage = cpuPercent
	c.MemoryUsage = memPercent

	switch {
	case cpuPercent > p.Config.CPUOverloadThreshold || memPercent > p.Config.MemoryOverloadThreshold:
		c.Status = Overloaded
		c.IdleSince = nil
	case cpuPercent <= p.Config.CooldownCPUThreshold:
		if c.Status != Idle {
			t := now
			c.IdleSince = &t
		}
		c.Status = Idle
	default:
		c.Status = Healthy
		c.IdleSince = nil
	}
}

// MarkActive stamps last_active and, if the container was Idle, returns
// it to Healthy and clears idle_since.
func (p *Pool) MarkActive(now time.Time, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(id)
	if idx < 0 {
		return
	}

	c := &p.Containers[idx]
	c.LastActive = now

	if c.Status == Idle {
		c.Status = Healthy
		c.IdleSince = nil
	}
}

// NeedsScaleUp is true iff the pool is below max, non-empty, and every
// container is Overloaded.
func (p *Pool) NeedsScaleUp() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.Containers) == 0 || uint(len(p.Containers)) >= p.MaxContainers {
		return false
	}

	for _, c := range p.Containers {
		if c.Status != Overloaded {
			return false
		}
	}

	return true
}

// ScaledownCandidates returns the ids eligible for scale-down: Idle for
// at least cooldown_duration, never dipping the pool below min_containers.
// min_containers is a target, not a hard invariant during transients (§3),
// so the remaining-removable count is clamped rather than subtracted
// directly: a transient where min temporarily exceeds the live count must
// not underflow into "remove everything".
func (p *Pool) ScaledownCandidates(now time.Time) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	maxRemovable := mathutil.Clamp(len(p.Containers)-int(p.MinContainers), 0, len(p.Containers))
	if maxRemovable == 0 {
		return nil
	}

	var candidates []string
	for _, c := range p.Containers {
		if c.Status != Idle || c.IdleSince == nil {
			continue
		}
		if now.Sub(*c.IdleSince) < p.Config.CooldownDuration {
			continue
		}

		candidates = append(candidates, c.ID)
		if len(candidates) >= maxRemovable {
			break
		}
	}

	return candidates
}

// PickHealthiest returns the Healthy-or-Idle container with the lowest
// CPU usage, breaking ties by least-recently-active, per §4.F. Returns
// (ContainerInfo{}, false) if no such container exists.
func (p *Pool) PickHealthiest() (ContainerInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var candidates []ContainerInfo
	for _, c := range p.Containers {
		if c.Status == Healthy || c.Status == Idle {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return ContainerInfo{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CPUUsage != candidates[j].CPUUsage {
			return candidates[i].CPUUsage < candidates[j].CPUUsage
		}
		return candidates[i].LastActive.Before(candidates[j].LastActive)
	})

	return candidates[0], true
}

// LeastLoadedOverloaded returns the Overloaded container with the lowest
// CPU usage, used as the routing fallback when every container is
// Overloaded (§4.G step 2).
func (p *Pool) LeastLoadedOverloaded() (ContainerInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var candidates []ContainerInfo
	for _, c := range p.Containers {
		if c.Status == Overloaded {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return ContainerInfo{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CPUUsage < candidates[j].CPUUsage
	})

	return candidates[0], true
}

// Empty reports whether the pool currently holds no containers.
func (p *Pool) Empty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.Containers) == 0
}

// Size reports the current container count.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.Containers)
}

// AtCapacity reports whether the pool already holds max_containers.
func (p *Pool) AtCapacity() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return uint(len(p.Containers)) >= p.MaxContainers
}

// Snapshot returns a shallow copy of the current containers, safe to
// iterate while the pool continues to mutate underneath the caller (used
// by the scaling loop, which queries metrics per container across a span
// of I/O that must not hold the pool lock).
func (p *Pool) Snapshot() []ContainerInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]ContainerInfo, len(p.Containers))
	copy(out, p.Containers)
	return out
}
