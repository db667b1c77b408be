package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowDrainsAndRefills(t *testing.T) {
	now := time.Now()
	l := New()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k", 2, 1))
	assert.True(t, l.Allow("k", 2, 1))
	assert.False(t, l.Allow("k", 2, 1))

	now = now.Add(1 * time.Second)
	assert.True(t, l.Allow("k", 2, 1))
	assert.False(t, l.Allow("k", 2, 1))
}

func TestAllowCapsAtCapacity(t *testing.T) {
	now := time.Now()
	l := New()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k", 1, 1))
	now = now.Add(time.Hour)
	assert.True(t, l.Allow("k", 1, 1))
	assert.False(t, l.Allow("k", 1, 1))
}

func TestBucketsIndependentPerKey(t *testing.T) {
	now := time.Now()
	l := New()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a", 1, 1))
	assert.False(t, l.Allow("a", 1, 1))
	assert.True(t, l.Allow("b", 1, 1))
}
