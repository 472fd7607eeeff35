// Package runtimeadapter is the opaque "start/inspect/stop" seam over the
// container runtime, as specified in §4.B. It performs no retries of its
// own; retry policy belongs entirely to callers (the autoscaler's scale
// loop).
package runtimeadapter

import "context"

// StartSpec describes a container to be started. Label is a
// human-readable identifier (the autoscaler uses "<function>-<uuid>"),
// Port is the single port the worker listens on, Network is the runtime
// network to attach to, and Env carries KEY=VALUE entries.
type StartSpec struct {
	Image   string
	Label   string
	Port    uint32
	Network string
	Env     []string
}

// RuntimeState is the result of Inspect.
type RuntimeState struct {
	ID      string
	Running bool
}

// Adapter is the contract the autoscaler uses to manage worker
// containers. Implementations must be safe for concurrent use.
type Adapter interface {
	// Start creates and starts a container from spec, returning the
	// runtime's opaque container id. Returns errs.ErrRuntimeUnavailable
	// if the runtime could not be reached, or errs.ErrStartFailed if the
	// runtime rejected the request.
	Start(ctx context.Context, spec StartSpec) (id string, err error)

	// Inspect reports whether id is currently running. Returns
	// errs.ErrNotFound if the runtime has no record of id.
	Inspect(ctx context.Context, id string) (RuntimeState, error)

	// Stop removes the container identified by id. It is idempotent:
	// the runtime having no record of id is not an error.
	Stop(ctx context.Context, id string) error
}
