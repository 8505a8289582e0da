package narrative

import (
	"fmt"
	"math"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// cardinalNames are the 8 compass buckets, clockwise from north
var cardinalNames = [8]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// Builder assembles the full driving narrative for one dig site
type Builder struct {
	style Style
	sides SideDeterminer
}

// NewBuilder creates a Builder using the given formatting style
func NewBuilder(style Style) *Builder {
	return &Builder{
		style: style,
		sides: NewSideDeterminer(),
	}
}

// Build produces the ordered narrative lines for a route ending at the dig
// site target.
//
// The first line is always the preamble naming the intersection, town and
// state. Every step except the last is rendered per the configured style. The
// final step is never rendered as a driving instruction; its arrival is
// represented by the side determination line. A route with zero steps is valid
// input and yields the preamble alone.
func (b *Builder) Build(start StartContext, route Route, target geo.Point) []string {
	lines := []string{
		fmt.Sprintf("From the intersection of %s in %s, %s, travel as follows:",
			start.Intersection, start.Town, start.State),
	}

	if len(route.Steps) == 0 {
		return lines
	}

	body := route.Steps[:len(route.Steps)-1]
	switch b.style {
	case StyleCardinal:
		lines = append(lines, b.cardinalLines(body)...)
	default:
		for _, step := range body {
			lines = append(lines, FormatStep(step))
		}
	}

	side := b.sides.SideOf(route.Polyline, target)
	lines = append(lines, fmt.Sprintf("- The dig site will be located on your %s.", side))

	return lines
}

// cardinalLines merges consecutive steps that share a cardinal bucket, summing
// their distances, and emits one line per run
func (b *Builder) cardinalLines(steps []RouteStep) []string {
	var lines []string

	i := 0
	for i < len(steps) {
		bucket := cardinalBucket(steps[i].BearingAfter)
		distance := steps[i].DistanceMeters
		j := i + 1
		for j < len(steps) && cardinalBucket(steps[j].BearingAfter) == bucket {
			distance += steps[j].DistanceMeters
			j++
		}
		lines = append(lines, fmt.Sprintf("- Drive %s for %s miles", cardinalNames[bucket], FormatMiles(distance)))
		i = j
	}

	return lines
}

// cardinalBucket maps a bearing in degrees to one of 8 compass buckets
func cardinalBucket(bearing float64) int {
	return int(math.Round(bearing/45)) % 8
}
