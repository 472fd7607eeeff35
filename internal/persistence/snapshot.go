// Package persistence implements the pool snapshot schema and save/load
// operations from §4.E, on top of the statestore seam. Persistence is
// best-effort throughout: callers log and continue on failure, per the
// error handling design.
package persistence

import (
	"time"

	"autoscaler/internal/config"
	"autoscaler/internal/pool"
)

// ContainerSnapshot is the wire form of pool.ContainerInfo: monotonic
// Instant fields become unix seconds.
type ContainerSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContainerPort uint32 `json:"container_port"`
	Status        string `json:"status"`
	LastActiveUnix int64 `json:"last_active_unix"`
	IdleSinceUnix  *int64 `json:"idle_since_unix,omitempty"`
}

// PoolSnapshot is the wire-stable JSON schema from §4.E.
type PoolSnapshot struct {
	FunctionName string              `json:"function_name"`
	Containers   []ContainerSnapshot `json:"containers"`
	MinContainers uint               `json:"min_containers"`
	MaxContainers uint               `json:"max_containers"`
	Config       config.MonitoringConfig `json:"config"`
	LastUpdated  int64               `json:"last_updated"`
}

// SystemMetadata tracks recovery bookkeeping across the whole process.
type SystemMetadata struct {
	Version     string `json:"version"`
	LastCleanup int64  `json:"last_cleanup"`
	TotalPools  int    `json:"total_pools"`
}

func statusToString(s pool.Status) string {
	return s.String()
}

func statusFromString(s string) pool.Status {
	switch s {
	case "overloaded":
		return pool.Overloaded
	case "idle":
		return pool.Idle
	default:
		return pool.Healthy
	}
}

// ToSnapshot converts a live pool into its wire form. toUnix maps a
// monotonic Instant to a unix second count; since pool.ContainerInfo only
// stores monotonic times, the caller supplies the conversion (the real
// clock keeps both in lockstep; the fake clock in tests does the same).
// ToSnapshot holds the pool's read lock for its whole walk: it reads
// FunctionKey, Containers, MinContainers/MaxContainers and Config
// together and must not observe them mid-mutation from a concurrent
// scale action or metrics update.
func ToSnapshot(p *pool.Pool, toUnix func(time.Time) int64, now int64) PoolSnapshot {
	p.RLock()
	defer p.RUnlock()

	containers := make([]ContainerSnapshot, 0, len(p.Containers))
	for _, c := range p.Containers {
		cs := ContainerSnapshot{
			ID:             c.ID,
			Name:           c.Name,
			ContainerPort:  c.ContainerPort,
			Status:         statusToString(c.Status),
			LastActiveUnix: toUnix(c.LastActive),
		}
		if c.IdleSince != nil {
			v := toUnix(*c.IdleSince)
			cs.IdleSinceUnix = &v
		}
		containers = append(containers, cs)
	}

	return PoolSnapshot{
		FunctionName:  p.FunctionKey,
		Containers:    containers,
		MinContainers: p.MinContainers,
		MaxContainers: p.MaxContainers,
		Config:        p.Config,
		LastUpdated:   now,
	}
}

// FromSnapshot reconstructs a pool from its wire form. fromUnix is the
// inverse of ToSnapshot's toUnix, mapping a persisted unix second count
// back onto the process's monotonic clock at recovery time.
func FromSnapshot(s PoolSnapshot, fromUnix func(int64) time.Time) *pool.Pool {
	p := pool.New(s.FunctionName, s.MinContainers, s.MaxContainers, s.Config)

	for _, cs := range s.Containers {
		info := pool.ContainerInfo{
			ID:            cs.ID,
			Name:          cs.Name,
			ContainerPort: cs.ContainerPort,
			Status:        statusFromString(cs.Status),
			LastActive:    fromUnix(cs.LastActiveUnix),
		}
		if cs.IdleSinceUnix != nil {
			t := fromUnix(*cs.IdleSinceUnix)
			info.IdleSince = &t
		}
		p.Containers = append(p.Containers, info)
	}

	return p
}
