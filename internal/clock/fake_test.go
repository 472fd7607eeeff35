package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceMovesBothMonotonicAndUnix(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	assert.Equal(t, start, f.MonotonicNow())
	assert.Equal(t, start.Unix(), f.UnixNow())

	f.Advance(10 * time.Second)

	assert.Equal(t, start.Add(10*time.Second), f.MonotonicNow())
	assert.Equal(t, start.Unix()+10, f.UnixNow())
}

func TestFake_SleepAdvancesInsteadOfBlocking(t *testing.T) {
	start := time.Now()
	f := NewFake(start)

	f.Sleep(time.Minute)

	assert.Equal(t, start.Add(time.Minute), f.MonotonicNow())
}
