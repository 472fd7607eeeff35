// Package clock provides the single timing seam the rest of the
// autoscaler is built against, so that scaling and cooldown decisions can
// be driven deterministically in tests instead of against wall time.
package clock

import "time"

// Clock is implemented by a real-time clock in production and by a fake
// clock in tests. All timing decisions inside a pool use MonotonicNow;
// all persisted timestamps use UnixNow.
type Clock interface {
	MonotonicNow() time.Time
	UnixNow() int64
	Sleep(d time.Duration)
}

// Real is the production Clock backed by the operating system.
type Real struct{}

func NewReal() Real { return Real{} }

func (Real) MonotonicNow() time.Time { return time.Now() }
func (Real) UnixNow() int64          { return time.Now().Unix() }
func (Real) Sleep(d time.Duration)   { time.Sleep(d) }
