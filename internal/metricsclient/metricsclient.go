// Package metricsclient is the caching, retrying query layer over the
// external metrics backend described in §4.C. It exposes CPU% and
// memory% per container, expressed in the same percent units as the
// configured thresholds (80.0 meaning 80%).
package metricsclient

import "context"

// Client is the contract the container pool's scaling loop queries on
// every tick.
type Client interface {
	CPUPercent(ctx context.Context, containerID string) (float64, error)
	MemoryPercent(ctx context.Context, containerID string) (float64, error)
}
