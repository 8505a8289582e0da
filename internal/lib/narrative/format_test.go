package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMiles(t *testing.T) {
	assert.Equal(t, "1.00", FormatMiles(1609.34))
	assert.Equal(t, "0.50", FormatMiles(804.67))
	assert.Equal(t, "0.00", FormatMiles(0))
	assert.Equal(t, "1.24", FormatMiles(2000))
}

func TestFormatStep(t *testing.T) {
	tests := []struct {
		name string
		step RouteStep
		want string
	}{
		{
			name: "depart without road name",
			step: RouteStep{Maneuver: ManeuverDepart, DistanceMeters: 2000},
			want: "- Drive for 1.24 miles",
		},
		{
			name: "depart with road name",
			step: RouteStep{Maneuver: ManeuverDepart, RoadName: "Main St", DistanceMeters: 1609.34},
			want: "- Drive on Main St for 1.00 miles",
		},
		{
			name: "turn instruction already names the road",
			step: RouteStep{
				Maneuver:       ManeuverTurn,
				Instruction:    "Turn right onto Elm St",
				RoadName:       "Elm St",
				DistanceMeters: 804.67,
			},
			want: "- Turn right onto Elm St for 0.50 miles",
		},
		{
			name: "turn instruction without the road gets a continue clause",
			step: RouteStep{
				Maneuver:       ManeuverTurn,
				Instruction:    "Turn right",
				RoadName:       "Elm St",
				DistanceMeters: 804.67,
			},
			want: "- Turn right; continue on Elm St for 0.50 miles",
		},
		{
			name: "merge keeps router instruction verbatim",
			step: RouteStep{
				Maneuver:       ManeuverMerge,
				Instruction:    "Merge left onto CA 49",
				DistanceMeters: 1609.34,
			},
			want: "- Merge left onto CA 49 for 1.00 miles",
		},
		{
			name: "turn with empty instruction falls back to continue phrasing",
			step: RouteStep{Maneuver: ManeuverTurn, RoadName: "Oak Ave", DistanceMeters: 1609.34},
			want: "- Continue on Oak Ave for 1.00 miles",
		},
		{
			name: "continuation with road name",
			step: RouteStep{Maneuver: ManeuverContinue, RoadName: "Oak Ave", DistanceMeters: 1609.34},
			want: "- Continue on Oak Ave for 1.00 miles",
		},
		{
			name: "continuation without road name",
			step: RouteStep{Maneuver: "new name", DistanceMeters: 804.67},
			want: "- Continue for 0.50 miles",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatStep(tc.step))
		})
	}
}

func TestRoadFromInstruction(t *testing.T) {
	tests := []struct {
		instruction string
		want        string
	}{
		{"Turn right onto Elm St", "Elm St"},
		{"Turn left onto Oak Ave, then continue north", "Oak Ave"},
		{"Merge onto Highway 49 and keep right", "Highway 49"},
		{"Continue on Parrotts Ferry Rd", "Parrotts Ferry Rd"},
		{"Turn right", ""},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, roadFromInstruction(tc.instruction), "instruction: %q", tc.instruction)
	}
}

// A road name recovered from the instruction is used by continuation phrasing
// when the structured field is absent.
func TestResolveRoadName_InstructionFallback(t *testing.T) {
	step := RouteStep{
		Maneuver:       ManeuverContinue,
		Instruction:    "Continue straight on Washington St, passing the school",
		DistanceMeters: 1609.34,
	}
	assert.Equal(t, "- Continue on Washington St for 1.00 miles", FormatStep(step))
}
