package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

var testStart = StartContext{
	Intersection: "Main St & Washington St",
	Town:         "Sonora",
	State:        "California",
}

const testPreamble = "From the intersection of Main St & Washington St in Sonora, California, travel as follows:"

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder(StyleSteps)

	// North one block, then east; the dig site sits north of the final
	// eastbound segment, which is the driver's left.
	route := Route{
		Steps: []RouteStep{
			{Maneuver: ManeuverDepart, DistanceMeters: 1609.34, BearingAfter: 0},
			{Maneuver: ManeuverTurn, DistanceMeters: 804.67, BearingAfter: 90, Instruction: "Turn right onto Elm St"},
			{Maneuver: ManeuverArrive, DistanceMeters: 0, BearingAfter: 90},
		},
		Polyline: []geo.Point{
			{Latitude: 38.000, Longitude: -120.450},
			{Latitude: 38.010, Longitude: -120.450},
			{Latitude: 38.010, Longitude: -120.440},
		},
	}
	target := geo.Point{Latitude: 38.012, Longitude: -120.441}

	lines := builder.Build(testStart, route, target)

	require.Len(t, lines, 4)
	assert.Equal(t, testPreamble, lines[0])
	assert.Equal(t, "- Drive for 1.00 miles", lines[1])
	assert.Equal(t, "- Turn right onto Elm St for 0.50 miles", lines[2])
	assert.Equal(t, "- The dig site will be located on your left.", lines[3])
}

func TestBuilder_Build_TargetRightOfTravel(t *testing.T) {
	builder := NewBuilder(StyleSteps)

	route := Route{
		Steps: []RouteStep{
			{Maneuver: ManeuverDepart, DistanceMeters: 1000, BearingAfter: 90},
			{Maneuver: ManeuverArrive},
		},
		Polyline: []geo.Point{
			{Latitude: 38.010, Longitude: -120.450},
			{Latitude: 38.010, Longitude: -120.440},
		},
	}
	// South of eastbound travel
	target := geo.Point{Latitude: 38.008, Longitude: -120.441}

	lines := builder.Build(testStart, route, target)
	require.NotEmpty(t, lines)
	assert.Equal(t, "- The dig site will be located on your right.", lines[len(lines)-1])
}

// A zero-step route is valid input and yields the preamble alone.
func TestBuilder_Build_EmptyRoute(t *testing.T) {
	builder := NewBuilder(StyleSteps)

	lines := builder.Build(testStart, Route{}, geo.Point{Latitude: 38, Longitude: -120.45})

	require.Len(t, lines, 1)
	assert.Equal(t, testPreamble, lines[0])
}

// The final step's own distance and instruction are never rendered; only the
// side line represents the arrival.
func TestBuilder_Build_FinalStepDiscarded(t *testing.T) {
	builder := NewBuilder(StyleSteps)

	route := Route{
		Steps: []RouteStep{
			{Maneuver: ManeuverDepart, DistanceMeters: 1609.34},
			{Maneuver: ManeuverArrive, DistanceMeters: 5000, Instruction: "You have arrived"},
		},
		Polyline: []geo.Point{
			{Latitude: 38.000, Longitude: -120.450},
			{Latitude: 38.010, Longitude: -120.450},
		},
	}

	lines := builder.Build(testStart, route, geo.Point{Latitude: 38.005, Longitude: -120.46})

	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.NotContains(t, line, "You have arrived")
		assert.NotContains(t, line, "3.11", "Final step distance must not be rendered")
	}
}

func TestBuilder_Build_CardinalStyle(t *testing.T) {
	builder := NewBuilder(StyleCardinal)

	// Two northish steps share a bucket and merge; the east step starts a new
	// run; the arrive step is excluded from consolidation.
	route := Route{
		Steps: []RouteStep{
			{Maneuver: ManeuverDepart, DistanceMeters: 1000, BearingAfter: 10},
			{Maneuver: ManeuverTurn, DistanceMeters: 609.34, BearingAfter: 20},
			{Maneuver: ManeuverTurn, DistanceMeters: 804.67, BearingAfter: 90},
			{Maneuver: ManeuverArrive, DistanceMeters: 0, BearingAfter: 90},
		},
		Polyline: []geo.Point{
			{Latitude: 38.000, Longitude: -120.450},
			{Latitude: 38.015, Longitude: -120.448},
			{Latitude: 38.015, Longitude: -120.440},
		},
	}
	target := geo.Point{Latitude: 38.017, Longitude: -120.441}

	lines := builder.Build(testStart, route, target)

	require.Len(t, lines, 4)
	assert.Equal(t, testPreamble, lines[0])
	assert.Equal(t, "- Drive north for 1.00 miles", lines[1])
	assert.Equal(t, "- Drive east for 0.50 miles", lines[2])
	assert.Equal(t, "- The dig site will be located on your left.", lines[3])
}

func TestCardinalBucket(t *testing.T) {
	tests := []struct {
		bearing float64
		want    int
	}{
		{0, 0},
		{10, 0},
		{44, 1},
		{45, 1},
		{90, 2},
		{180, 4},
		{270, 6},
		{337.5, 0},
		{359, 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, cardinalBucket(tc.bearing), "bearing %v", tc.bearing)
	}
}
