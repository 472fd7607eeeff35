package autoscaler

import "context"

// backgroundCtx is used for fire-and-forget persistence calls made outside
// the caller's own request context (e.g. a deferred delete after a pool
// empties).
func backgroundCtx() context.Context {
	return context.Background()
}
