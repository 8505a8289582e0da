package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// mercatorRadius is the WGS84 equatorial radius used by spherical Web Mercator
const mercatorRadius = 6378137.0

// geometry implements the Geometry interface
type geometry struct{}

// NewGeometry creates a new Geometry implementation
func NewGeometry() Geometry {
	return &geometry{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geometry) PointToPoint(p1, p2 Point) (float64, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0, nil
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Mean Earth radius in meters
	const earthRadius = 6371000
	return earthRadius * c, nil
}

// Project converts a coordinate to spherical Web Mercator (EPSG:3857-equivalent).
// Latitude must be strictly inside (-90, 90); the projection has a vertical
// asymptote at the poles, so callers are responsible for rejecting out-of-range
// input before calling.
func (g *geometry) Project(p Point) ProjectedPoint {
	x := mercatorRadius * p.Longitude * math.Pi / 180
	y := mercatorRadius * math.Log(math.Tan(math.Pi/4+(p.Latitude*math.Pi/180)/2))
	return ProjectedPoint{X: x, Y: y}
}

// ProjectOntoSegment projects p onto the segment a->b in the projected plane.
// The interpolation parameter is clamped to [0, 1] so the result always lies on
// the segment, never its infinite extension. A zero-length segment yields t=0
// and the projection of a.
func (g *geometry) ProjectOntoSegment(a, b, p Point) (float64, ProjectedPoint) {
	pa := g.Project(a)
	pb := g.Project(b)
	pp := g.Project(p)

	dx := pb.X - pa.X
	dy := pb.Y - pa.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0, pa
	}

	t := ((pp.X-pa.X)*dx + (pp.Y-pa.Y)*dy) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return t, ProjectedPoint{X: pa.X + t*dx, Y: pa.Y + t*dy}
}

// NearestSegment scans all consecutive point pairs and returns the segment whose
// clamped projection is closest to p, minimizing squared distance in projected
// space. Ties are broken by the lowest index. Fails only when the polyline has
// fewer than 2 points; callers decide how to fall back.
func (g *geometry) NearestSegment(points []Point, p Point) (SegmentMatch, error) {
	if len(points) < 2 {
		return SegmentMatch{}, errors.New("polyline must have at least 2 points")
	}

	pp := g.Project(p)
	best := SegmentMatch{Index: -1}
	bestDistSq := math.Inf(1)

	for i := 0; i < len(points)-1; i++ {
		t, proj := g.ProjectOntoSegment(points[i], points[i+1], p)

		dx := pp.X - proj.X
		dy := pp.Y - proj.Y
		distSq := dx*dx + dy*dy
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = SegmentMatch{
				Index:     i,
				Start:     points[i],
				End:       points[i+1],
				T:         t,
				Projected: proj,
			}
		}
	}

	return best, nil
}

// InitialBearing returns the initial compass bearing from one point toward
// another, in degrees [0, 360), 0 = north, clockwise.
func (g *geometry) InitialBearing(from, to Point) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lon1 := from.Longitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	lon2 := to.Longitude * math.Pi / 180

	y := math.Sin(lon2-lon1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// DecodePolyline decodes Google polyline string to point sequence
func (g *geometry) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// Coordinate Conversion Utilities

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// NewPointUnsafe creates a Point without validation (for performance-critical paths)
func NewPointUnsafe(latitude, longitude float64) Point {
	return Point{Latitude: latitude, Longitude: longitude}
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
