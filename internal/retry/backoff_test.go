package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_GrowsExponentially(t *testing.T) {
	b := New(0.1, 2.0)

	assert.InDelta(t, 0.1, b.Next(), 1e-9)
	assert.InDelta(t, 0.2, b.Next(), 1e-9)
	assert.InDelta(t, 0.4, b.Next(), 1e-9)
}
