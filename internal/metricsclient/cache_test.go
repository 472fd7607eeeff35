package metricsclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_HitWithinTTL(t *testing.T) {
	now := time.Now()
	clockFn := func() time.Time { return now }

	cache := newTTLCache(2*time.Second, clockFn)
	cache.set("c1", 42.0)

	v, ok := cache.get("c1")
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
}

func TestTTLCache_MissAfterExpiry(t *testing.T) {
	now := time.Now()
	clockFn := func() time.Time { return now }

	cache := newTTLCache(2*time.Second, clockFn)
	cache.set("c1", 42.0)

	now = now.Add(3 * time.Second)
	_, ok := cache.get("c1")
	assert.False(t, ok)
}

func TestTTLCache_MissForUnknownKey(t *testing.T) {
	cache := newTTLCache(time.Second, time.Now)
	_, ok := cache.get("missing")
	assert.False(t, ok)
}
