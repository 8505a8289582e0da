package narrative

import (
	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// sideDeterminer implements the SideDeterminer interface
type sideDeterminer struct {
	geometry geo.Geometry
}

// SideDeterminer reports whether a target point lies left or right of the
// direction of travel along a route polyline
type SideDeterminer interface {
	SideOf(polyline []geo.Point, target geo.Point) Side
}

// NewSideDeterminer creates a new SideDeterminer implementation
func NewSideDeterminer() SideDeterminer {
	return &sideDeterminer{geometry: geo.NewGeometry()}
}

// SideOf finds the route segment nearest the target and returns which side of
// that segment's direction of travel the target lies on.
//
// The offset vector is taken from the projection point on the segment, not from
// either endpoint, which keeps the reading locally correct on curved routes
// where the nearest segment is short. A polyline with fewer than 2 points
// returns SideRight: a documented fallback, not a computed answer. A cross
// product of exactly zero (target on the line) also resolves to SideRight.
func (d *sideDeterminer) SideOf(polyline []geo.Point, target geo.Point) Side {
	match, err := d.geometry.NearestSegment(polyline, target)
	if err != nil {
		return SideRight
	}

	a := d.geometry.Project(match.Start)
	b := d.geometry.Project(match.End)
	p := d.geometry.Project(target)

	// Tangent along the direction of travel, offset from the projection point
	tx := b.X - a.X
	ty := b.Y - a.Y
	wx := p.X - match.Projected.X
	wy := p.Y - match.Projected.Y

	if cross := tx*wy - ty*wx; cross > 0 {
		return SideLeft
	}
	return SideRight
}
