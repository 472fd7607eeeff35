// Package pool implements the per-function container pool: the fleet of
// worker containers for one function key, their derived health status,
// and the scale-up/scale-down/routing predicates described in §4.F.
package pool

import (
	"sync"
	"time"

	"autoscaler/internal/config"
)

// Status is the health status of a container, per §3.
type Status int

const (
	Healthy Status = iota
	Overloaded
	Idle
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Overloaded:
		return "overloaded"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// ContainerInfo is one worker container in a pool.
type ContainerInfo struct {
	ID            string
	Name          string
	ContainerPort uint32
	Status        Status

	CPUUsage    float64
	MemoryUsage float64

	LastActive time.Time
	IdleSince  *time.Time
}

// Pool is the fleet of containers serving one function key, plus the
// scaling policy that governs it. Pool IS safe for concurrent use: every
// mutator takes the write share of mu, every query the read share, per
// §5's "read-share/write-exclusive" rule. Routing (a reader) and the
// scaling loop (a writer) run on different goroutines and hold no other
// lock in common, so this is the only thing preventing their races.
type Pool struct {
	mu sync.RWMutex

	// FunctionKey, MinContainers, MaxContainers, Config are fixed at New
	// and never reassigned, so callers may read them directly without mu.
	// Containers is the only field mutated after construction, and every
	// read or write of it must go through a locking method or mu itself.
	FunctionKey   string
	MinContainers uint
	MaxContainers uint
	Config        config.MonitoringConfig

	Containers []ContainerInfo
}

func New(functionKey string, min, max uint, cfg config.MonitoringConfig) *Pool {
	return &Pool{
		FunctionKey:   functionKey,
		Containers:    make([]ContainerInfo, 0),
		MinContainers: min,
		MaxContainers: max,
		Config:        cfg,
	}
}

// RLock/RUnlock expose the read share of the pool's lock for the one
// cross-package caller that needs a consistent multi-field read: the
// persistence layer's ToSnapshot, which walks FunctionKey, Containers,
// MinContainers/MaxContainers and Config together and must not observe
// them mid-mutation. Every other read goes through a Pool method below
// that already locks internally.
func (p *Pool) RLock()   { p.mu.RLock() }
func (p *Pool) RUnlock() { p.mu.RUnlock() }

// indexOf must only be called with mu already held.
func (p *Pool) indexOf(id string) int {
	for i := range p.Containers {
		if p.Containers[i].ID == id {
			return i
		}
	}
	return -1
}
