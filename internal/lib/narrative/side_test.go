package narrative

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

func TestSideDeterminer_SideOf(t *testing.T) {
	d := NewSideDeterminer()

	// Northbound segment along a fixed longitude
	northbound := []geo.Point{
		{Latitude: 38.00, Longitude: -120.45},
		{Latitude: 38.10, Longitude: -120.45},
	}

	t.Run("west of northbound travel is left", func(t *testing.T) {
		target := geo.Point{Latitude: 38.05, Longitude: -120.46}
		assert.Equal(t, SideLeft, d.SideOf(northbound, target))
	})

	t.Run("east of northbound travel is right", func(t *testing.T) {
		target := geo.Point{Latitude: 38.05, Longitude: -120.44}
		assert.Equal(t, SideRight, d.SideOf(northbound, target))
	})

	t.Run("point on the segment resolves to right", func(t *testing.T) {
		target := geo.Point{Latitude: 38.05, Longitude: -120.45}
		assert.Equal(t, SideRight, d.SideOf(northbound, target))
	})

	t.Run("degenerate polyline falls back to right", func(t *testing.T) {
		target := geo.Point{Latitude: 38.05, Longitude: -120.46}
		assert.Equal(t, SideRight, d.SideOf(nil, target))
		assert.Equal(t, SideRight, d.SideOf(northbound[:1], target))
	})
}

// Reversing the polyline negates the tangent vector, so the answer must flip
// for any target that is strictly off the line.
func TestSideDeterminer_ReversalSymmetry(t *testing.T) {
	d := NewSideDeterminer()
	rng := rand.New(rand.NewSource(7))

	flipped := map[Side]Side{SideLeft: SideRight, SideRight: SideLeft}

	for trial := 0; trial < 100; trial++ {
		a := geo.Point{Latitude: 37.5 + rng.Float64(), Longitude: -121.0 + rng.Float64()}
		b := geo.Point{Latitude: 37.5 + rng.Float64(), Longitude: -121.0 + rng.Float64()}
		if a == b {
			continue
		}
		target := geo.Point{Latitude: 37.5 + rng.Float64(), Longitude: -121.0 + rng.Float64()}

		forward := d.SideOf([]geo.Point{a, b}, target)
		backward := d.SideOf([]geo.Point{b, a}, target)

		assert.Equal(t, flipped[forward], backward,
			"Reversed polyline must flip the side for a=%v b=%v target=%v", a, b, target)
	}
}
