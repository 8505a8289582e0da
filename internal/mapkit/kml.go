// Package mapkit renders route and site geometry into portable map artifacts:
// KML for Google Earth, GeoJSON for GIS tooling, and a self-contained Leaflet
// HTML page for quick inspection in a browser.
package mapkit

import (
	"bytes"
	"fmt"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// RouteKML renders the driving route and the dig site as a KML document with
// a LineString placemark for the route and a Point placemark for the site
func RouteKML(siteName string, route []geo.Point, site geo.Point) ([]byte, error) {
	coords := make([]kml.Coordinate, len(route))
	for i, p := range route {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	doc := kml.KML(
		kml.Document(
			kml.Name(siteName),
			kml.Placemark(
				kml.Name("Driving route"),
				kml.LineString(
					kml.Tessellate(true),
					kml.Coordinates(coords...),
				),
			),
			kml.Placemark(
				kml.Name(siteName),
				kml.Description("Dig site"),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: site.Longitude, Lat: site.Latitude}),
				),
			),
		),
	)

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to write KML: %w", err)
	}
	return buf.Bytes(), nil
}
