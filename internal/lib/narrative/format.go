package narrative

import (
	"fmt"
	"strconv"
	"strings"
)

// metersPerMile is the conversion factor used everywhere a distance is
// rendered. The factor and the two-decimal precision are a cross-cutting
// formatting contract; do not change either independently.
const metersPerMile = 1609.34

// FormatMiles renders a distance in meters as miles with exactly two decimals
func FormatMiles(meters float64) string {
	return strconv.FormatFloat(meters/metersPerMile, 'f', 2, 64)
}

// FormatStep converts a single routing maneuver into one narrative line.
//
// Road names are resolved from the step's own field first, then recovered from
// the instruction text, and otherwise treated as unknown; an unknown road is
// phrased without a road clause, never fabricated.
func FormatStep(step RouteStep) string {
	road := resolveRoadName(step)
	miles := FormatMiles(step.DistanceMeters)

	switch {
	case step.Maneuver == ManeuverDepart:
		if road == "" {
			return fmt.Sprintf("- Drive for %s miles", miles)
		}
		return fmt.Sprintf("- Drive on %s for %s miles", road, miles)

	case turnManeuvers[step.Maneuver] && strings.TrimSpace(step.Instruction) != "":
		instruction := strings.TrimSpace(step.Instruction)
		if road != "" && !mentionsRoad(instruction) {
			return fmt.Sprintf("- %s; continue on %s for %s miles", instruction, road, miles)
		}
		return fmt.Sprintf("- %s for %s miles", instruction, miles)

	default:
		if road == "" {
			return fmt.Sprintf("- Continue for %s miles", miles)
		}
		return fmt.Sprintf("- Continue on %s for %s miles", road, miles)
	}
}

// mentionsRoad reports whether an instruction already names the road it moves
// onto, in which case no continue clause is appended
func mentionsRoad(instruction string) bool {
	return strings.Contains(instruction, " onto ") || strings.Contains(instruction, " on ")
}

// resolveRoadName prefers the structured road name, falling back to parsing the
// free-text instruction. The string-splitting fallback is inherently fragile
// and is kept isolated here so it can be dropped once the router supplies a
// structured field for every step.
func resolveRoadName(step RouteStep) string {
	if name := strings.TrimSpace(step.RoadName); name != "" {
		return name
	}
	return roadFromInstruction(step.Instruction)
}

// roadFromInstruction extracts a road name from instruction text by taking the
// words after " onto " or " on ", up to the next comma or " and"
func roadFromInstruction(instruction string) string {
	for _, marker := range []string{" onto ", " on "} {
		idx := strings.Index(instruction, marker)
		if idx < 0 {
			continue
		}
		rest := instruction[idx+len(marker):]
		if j := strings.Index(rest, ","); j >= 0 {
			rest = rest[:j]
		}
		if j := strings.Index(rest, " and"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return ""
}
