package narrative

import (
	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// Side indicates which side of the road the dig site sits on. The
// determination is forced to a binary answer; degenerate geometry resolves to
// SideRight (see SideDeterminer).
type Side int

const (
	SideRight Side = iota
	SideLeft
)

// String returns the lowercase side name used in narrative output
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Maneuver types as reported by the routing service
const (
	ManeuverDepart     = "depart"
	ManeuverTurn       = "turn"
	ManeuverFork       = "fork"
	ManeuverMerge      = "merge"
	ManeuverExit       = "exit"
	ManeuverRoundabout = "roundabout"
	ManeuverOnRamp     = "on ramp"
	ManeuverOffRamp    = "off ramp"
	ManeuverContinue   = "continue"
	ManeuverArrive     = "arrive"
)

// turnManeuvers are the maneuver types whose router-supplied instruction text
// is preferred verbatim when formatting
var turnManeuvers = map[string]bool{
	ManeuverTurn:       true,
	ManeuverFork:       true,
	ManeuverMerge:      true,
	ManeuverExit:       true,
	ManeuverRoundabout: true,
	"exit roundabout":  true,
	"roundabout turn":  true,
	ManeuverOnRamp:     true,
	ManeuverOffRamp:    true,
	"end of road":      true,
}

// RouteStep is one maneuver produced by the routing service. Read-only to this
// package.
type RouteStep struct {
	DistanceMeters float64     `json:"distance_meters"`
	Maneuver       string      `json:"maneuver"`
	BearingAfter   float64     `json:"bearing_after"`
	Instruction    string      `json:"instruction"`
	RoadName       string      `json:"road_name,omitempty"`
	Geometry       []geo.Point `json:"geometry,omitempty"`
}

// Route is an ordered sequence of steps plus the decoded path polyline
type Route struct {
	Steps           []RouteStep `json:"steps"`
	Polyline        []geo.Point `json:"polyline"`
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
}

// StartContext holds the facts for the narrative preamble line
type StartContext struct {
	Intersection string `json:"intersection"`
	Town         string `json:"town"`
	State        string `json:"state"`
}

// Road is a named road near a point, with its classification, ordered by the
// tile query's own proximity ranking
type Road struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Style selects how non-final steps are rendered. The two styles are mutually
// exclusive within a single narrative.
type Style int

const (
	// StyleSteps formats every non-final step individually
	StyleSteps Style = iota
	// StyleCardinal merges consecutive steps sharing a cardinal bucket
	StyleCardinal
)
