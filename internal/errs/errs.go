// Package errs defines the error taxonomy shared by every component of
// the autoscaler control plane, as laid out in the error handling design:
// transient errors are logged and swallowed by background loops, not-found
// errors collapse into removal, and configuration errors are fatal at
// startup.
package errs

import "errors"

var (
	// ErrRuntimeUnavailable means the container runtime could not be
	// reached over the network.
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")

	// ErrStartFailed means the runtime rejected the start request (bad
	// image, non-zero exit, etc.) rather than being unreachable.
	ErrStartFailed = errors.New("container start failed")

	// ErrNotFound means the runtime, state store, or pool has no record
	// of the requested id/key. Callers treat this as "already gone".
	ErrNotFound = errors.New("not found")

	// ErrMetricsUnavailable means a metrics query failed after
	// exhausting retries. Callers must not treat this as a zero sample.
	ErrMetricsUnavailable = errors.New("metrics unavailable")

	// ErrPersistence wraps state-store failures. Persistence is
	// best-effort: callers log and continue, never failing the mutation
	// that triggered the save.
	ErrPersistence = errors.New("persistence error")

	// ErrConfiguration marks an invalid configuration value. Fatal at
	// startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvariantViolation marks a caller bug, such as adding a
	// container id that is already present in a pool.
	ErrInvariantViolation = errors.New("invariant violation")
)
