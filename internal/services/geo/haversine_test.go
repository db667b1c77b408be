package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineSamePointIsZero(t *testing.T) {
	assert.Zero(t, Haversine(47.6062, -122.3321, 47.6062, -122.3321))
}

func TestHaversineSymmetry(t *testing.T) {
	ab := Haversine(47.6062, -122.3321, 40.7128, -74.0060)
	ba := Haversine(40.7128, -74.0060, 47.6062, -122.3321)
	assert.InDelta(t, ab, ba, 1e-6)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Seattle to Portland is roughly 233 km.
	d := Haversine(47.6062, -122.3321, 45.5152, -122.6784)
	assert.InDelta(t, 233000, d, 3000)
}
