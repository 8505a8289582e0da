package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// ProjectedPoint is a point in the spherical Web Mercator plane, in meters.
// Valid only for local comparisons; never persisted.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SegmentMatch describes the polyline segment nearest to a query point
type SegmentMatch struct {
	Index     int            `json:"index"`
	Start     Point          `json:"start"`
	End       Point          `json:"end"`
	T         float64        `json:"t"`
	Projected ProjectedPoint `json:"projected"`
}

// Geometry interface defines geographic calculation utilities
type Geometry interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Project a coordinate into the spherical Web Mercator plane
	Project(p Point) ProjectedPoint

	// Project p onto the segment a->b, clamped so the result stays on the segment
	ProjectOntoSegment(a, b, p Point) (float64, ProjectedPoint)

	// Find the polyline segment nearest to p in projected space
	NearestSegment(points []Point, p Point) (SegmentMatch, error)

	// Initial compass bearing from one point toward another, degrees [0, 360)
	InitialBearing(from, to Point) float64

	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) ([]Point, error)
}

// NewGeometry is implemented in geo.go
