package mapkit

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// RouteGeoJSON renders the driving route and the dig site as a GeoJSON
// FeatureCollection. The route is a LineString feature and the site a Point
// feature carrying the site name in its properties.
func RouteGeoJSON(siteName string, route []geo.Point, site geo.Point) ([]byte, error) {
	line := make(orb.LineString, len(route))
	for i, p := range route {
		line[i] = orb.Point{p.Longitude, p.Latitude}
	}

	fc := geojson.NewFeatureCollection()

	routeFeature := geojson.NewFeature(line)
	routeFeature.Properties["name"] = "Driving route"
	fc.Append(routeFeature)

	siteFeature := geojson.NewFeature(orb.Point{site.Longitude, site.Latitude})
	siteFeature.Properties["name"] = siteName
	siteFeature.Properties["kind"] = "dig-site"
	fc.Append(siteFeature)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	return data, nil
}
