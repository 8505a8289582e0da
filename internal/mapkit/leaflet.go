package mapkit

import (
	"bytes"
	"fmt"
	"html/template"
)

var leafletTemplate = template.Must(template.New("leaflet").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    html, body { margin: 0; height: 100%; }
    #map { height: 100%; }
    .title {
      position: absolute; top: 10px; left: 50px; z-index: 1000;
      background: white; padding: 6px 12px; border-radius: 4px;
      font-family: sans-serif; box-shadow: 0 1px 4px rgba(0,0,0,0.3);
    }
  </style>
</head>
<body>
  <div class="title">{{.Title}}</div>
  <div id="map"></div>
  <script>
    var data = {{.GeoJSON}};
    var map = L.map('map');
    L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);
    var layer = L.geoJSON(data, {
      style: { color: '#d33', weight: 4 }
    }).addTo(map);
    map.fitBounds(layer.getBounds(), { padding: [30, 30] });
  </script>
</body>
</html>
`))

// LeafletHTML wraps a GeoJSON document in a standalone Leaflet viewer page
func LeafletHTML(title string, geoJSON []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := leafletTemplate.Execute(&buf, struct {
		Title   string
		GeoJSON template.JS
	}{
		Title:   title,
		GeoJSON: template.JS(geoJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render map page: %w", err)
	}
	return buf.Bytes(), nil
}
