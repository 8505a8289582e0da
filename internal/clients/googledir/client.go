// Package googledir provides an alternate routing backend using the Google
// Directions API, selectable by configuration in place of Mapbox Directions.
package googledir

import (
	"context"
	"fmt"
	"strings"

	maps "googlemaps.github.io/maps"

	"github.com/utiliscan/digsite-server/internal/lib/geo"
	"github.com/utiliscan/digsite-server/internal/lib/narrative"
)

// Client wraps the official Google Maps client
type Client struct {
	maps     *maps.Client
	geometry geo.Geometry
}

// NewClient creates a new Google Directions client
func NewClient(apiKey string) (*Client, error) {
	mc, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Client{
		maps:     mc,
		geometry: geo.NewGeometry(),
	}, nil
}

// Route computes a driving route with turn-by-turn steps between two points
func (c *Client) Route(ctx context.Context, origin, destination geo.Point) (*narrative.Route, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		Destination: fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := c.maps.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes found in response")
	}

	return c.convertRoute(routes[0])
}

// convertRoute maps a Google directions route onto the narrative Route model
func (c *Client) convertRoute(route maps.Route) (*narrative.Route, error) {
	polyline, err := c.geometry.DecodePolyline(route.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}

	out := &narrative.Route{Polyline: polyline}
	for _, leg := range route.Legs {
		out.DurationSeconds += leg.Duration.Seconds()
		for i, step := range leg.Steps {
			out.DistanceMeters += float64(step.Distance.Meters)
			out.Steps = append(out.Steps, c.convertStep(step, len(out.Steps) == 0 && i == 0))
		}
	}
	return out, nil
}

// convertStep maps one Google step to a narrative RouteStep. Google does not
// report a post-maneuver bearing, so it is derived from the step's start and
// end locations; it does not report a structured road name at all, leaving
// the formatter's instruction parsing to recover one.
func (c *Client) convertStep(step *maps.Step, first bool) narrative.RouteStep {
	converted := narrative.RouteStep{
		DistanceMeters: float64(step.Distance.Meters),
		Maneuver:       mapManeuver(step.Maneuver, first),
		Instruction:    stripHTML(step.HTMLInstructions),
		BearingAfter: c.geometry.InitialBearing(
			geo.Point{Latitude: step.StartLocation.Lat, Longitude: step.StartLocation.Lng},
			geo.Point{Latitude: step.EndLocation.Lat, Longitude: step.EndLocation.Lng},
		),
	}

	if step.Polyline.Points != "" {
		if points, err := c.geometry.DecodePolyline(step.Polyline.Points); err == nil {
			converted.Geometry = points
		}
	}
	return converted
}

// mapManeuver normalizes Google maneuver strings ("turn-left", "ramp-right",
// "roundabout-left", ...) to the narrative maneuver vocabulary
func mapManeuver(maneuver string, first bool) string {
	if first {
		return narrative.ManeuverDepart
	}
	switch {
	case strings.Contains(maneuver, "roundabout"):
		return narrative.ManeuverRoundabout
	case strings.Contains(maneuver, "turn"):
		return narrative.ManeuverTurn
	case strings.Contains(maneuver, "fork"):
		return narrative.ManeuverFork
	case strings.Contains(maneuver, "merge"):
		return narrative.ManeuverMerge
	case strings.Contains(maneuver, "ramp"):
		return narrative.ManeuverOnRamp
	default:
		return narrative.ManeuverContinue
	}
}

// stripHTML removes markup from Google instruction text (strip simple HTML)
func stripHTML(s string) string {
	out := make([]rune, 0, len(s))
	inTag := false
	for _, r := range s {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			out = append(out, r)
		}
	}
	return strings.TrimSpace(string(out))
}
