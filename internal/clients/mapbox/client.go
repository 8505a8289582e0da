package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/utiliscan/digsite-server/internal/cache"
	"github.com/utiliscan/digsite-server/internal/lib/geo"
	"github.com/utiliscan/digsite-server/internal/lib/narrative"
)

// HTTPDoer abstracts the HTTP client for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Mapbox Directions, Geocoding, Tilequery and
// Static Images APIs. The access token is explicit configuration; there is no
// global token state.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPDoer
	geometry   geo.Geometry
	cache      *cache.Cache
	cacheTTL   time.Duration
}

// Place is the nearest named place to a coordinate
type Place struct {
	Name   string    `json:"name"`
	Region string    `json:"region"`
	Center geo.Point `json:"center"`
}

// NewClient creates a new Mapbox API client
func NewClient(token string) *Client {
	return &Client{
		token:    token,
		baseURL:  "https://api.mapbox.com",
		geometry: geo.NewGeometry(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(token, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		token:      token,
		baseURL:    baseURL,
		geometry:   geo.NewGeometry(),
		httpClient: doer,
	}
}

// WithCache enables response memoization for geocoding, tile and route lookups
func (c *Client) WithCache(store *cache.Cache, ttl time.Duration) *Client {
	c.cache = store
	c.cacheTTL = ttl
	return c
}

// Route computes a driving route with turn-by-turn steps between two points
// using the Mapbox Directions API v5.
func (c *Client) Route(ctx context.Context, origin, destination geo.Point) (*narrative.Route, error) {
	cacheKey := cache.RouteKey(origin, destination)
	if c.cache != nil {
		var cached narrative.Route
		if found, err := c.cache.Get(cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("alternatives", "false")
	params.Set("geometries", "polyline")
	params.Set("overview", "full")
	params.Set("steps", "true")
	params.Set("access_token", c.token)

	requestURL := fmt.Sprintf("%s/directions/v5/mapbox/driving/%.6f,%.6f;%.6f,%.6f?%s",
		c.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
		params.Encode())

	var response directionsResponse
	if err := c.getJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	if response.Code != "Ok" {
		return nil, fmt.Errorf("directions request rejected: %s %s", response.Code, response.Message)
	}
	if len(response.Routes) == 0 {
		return nil, fmt.Errorf("no routes found in response")
	}

	route, err := c.processRoute(response.Routes[0])
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(cacheKey, route, c.cacheTTL)
	}
	return route, nil
}

// processRoute converts a Mapbox directions route to the narrative Route model
func (c *Client) processRoute(raw directionsRoute) (*narrative.Route, error) {
	polyline, err := c.geometry.DecodePolyline(raw.Geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}

	route := &narrative.Route{
		Polyline:        polyline,
		DistanceMeters:  raw.Distance,
		DurationSeconds: raw.Duration,
	}

	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			converted := narrative.RouteStep{
				DistanceMeters: step.Distance,
				Maneuver:       step.Maneuver.Type,
				BearingAfter:   step.Maneuver.BearingAfter,
				Instruction:    step.Maneuver.Instruction,
				RoadName:       step.Name,
			}
			// Step sub-geometry is best-effort; a degenerate or missing
			// geometry leaves the field empty rather than failing the route
			if step.Geometry != "" {
				if points, err := c.geometry.DecodePolyline(step.Geometry); err == nil {
					converted.Geometry = points
				}
			}
			route.Steps = append(route.Steps, converted)
		}
	}

	return route, nil
}

// NearestPlace reverse-geocodes a coordinate to the nearest named place (town)
// using the Mapbox Geocoding API v5.
func (c *Client) NearestPlace(ctx context.Context, p geo.Point) (Place, error) {
	cacheKey := cache.PlaceKey(p)
	if c.cache != nil {
		var cached Place
		if found, err := c.cache.Get(cacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("types", "place")
	params.Set("limit", "1")
	params.Set("access_token", c.token)

	requestURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%.6f,%.6f.json?%s",
		c.baseURL, p.Longitude, p.Latitude, params.Encode())

	var response geocodingResponse
	if err := c.getJSON(ctx, requestURL, &response); err != nil {
		return Place{}, err
	}

	if len(response.Features) == 0 {
		return Place{}, fmt.Errorf("no place found near %.4f,%.4f", p.Latitude, p.Longitude)
	}

	feature := response.Features[0]
	place := Place{Name: feature.Text}
	if len(feature.Center) == 2 {
		place.Center = geo.Point{Latitude: feature.Center[1], Longitude: feature.Center[0]}
	}
	for _, entry := range feature.Context {
		if strings.HasPrefix(entry.ID, "region.") {
			place.Region = entry.Text
			break
		}
	}

	if c.cache != nil {
		_ = c.cache.Set(cacheKey, place, c.cacheTTL)
	}
	return place, nil
}

// RoadsNear queries named roads around a point using the Mapbox Tilequery API,
// ordered by the service's own proximity ranking.
func (c *Client) RoadsNear(ctx context.Context, p geo.Point, radiusMeters float64, limit int) ([]narrative.Road, error) {
	cacheKey := cache.RoadsKey(p, radiusMeters, limit)
	if c.cache != nil {
		var cached []narrative.Road
		if found, err := c.cache.Get(cacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("radius", fmt.Sprintf("%.0f", radiusMeters))
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("layers", "road")
	params.Set("access_token", c.token)

	requestURL := fmt.Sprintf("%s/v4/mapbox.mapbox-streets-v8/tilequery/%.6f,%.6f.json?%s",
		c.baseURL, p.Longitude, p.Latitude, params.Encode())

	var response tilequeryResponse
	if err := c.getJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	roads := make([]narrative.Road, 0, len(response.Features))
	for _, feature := range response.Features {
		roads = append(roads, narrative.Road{
			Name:  feature.Properties.Name,
			Class: feature.Properties.Class,
		})
	}

	if c.cache != nil {
		_ = c.cache.Set(cacheKey, roads, c.cacheTTL)
	}
	return roads, nil
}

// StaticImage fetches a satellite raster centered on a coordinate using the
// Mapbox Static Images API. Bearing is fixed at 0 (north-up).
func (c *Client) StaticImage(ctx context.Context, p geo.Point, zoom, width, height int) ([]byte, error) {
	params := url.Values{}
	params.Set("access_token", c.token)

	requestURL := fmt.Sprintf("%s/styles/v1/mapbox/satellite-v9/static/%.6f,%.6f,%d,0/%dx%d?%s",
		c.baseURL, p.Longitude, p.Latitude, zoom, width, height, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// getJSON executes a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatus maps HTTP error statuses to errors, keeping a body excerpt
func checkStatus(resp *http.Response) error {
	if resp.StatusCode == 429 {
		return fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// directionsResponse represents the Mapbox Directions API response structure
type directionsResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Routes  []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	Geometry string          `json:"geometry"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Legs     []directionsLeg `json:"legs"`
}

type directionsLeg struct {
	Steps []directionsStep `json:"steps"`
}

type directionsStep struct {
	Distance float64 `json:"distance"`
	Name     string  `json:"name"`
	Geometry string  `json:"geometry"`
	Maneuver struct {
		Type         string    `json:"type"`
		Modifier     string    `json:"modifier"`
		Instruction  string    `json:"instruction"`
		BearingAfter float64   `json:"bearing_after"`
		Location     []float64 `json:"location"`
	} `json:"maneuver"`
}

// geocodingResponse represents the Mapbox Geocoding API response structure
type geocodingResponse struct {
	Features []geocodingFeature `json:"features"`
}

type geocodingFeature struct {
	Text      string             `json:"text"`
	PlaceName string             `json:"place_name"`
	Center    []float64          `json:"center"`
	Context   []geocodingContext `json:"context"`
}

type geocodingContext struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code,omitempty"`
}

// tilequeryResponse represents the Mapbox Tilequery API response structure
type tilequeryResponse struct {
	Features []tilequeryFeature `json:"features"`
}

type tilequeryFeature struct {
	Properties struct {
		Name  string `json:"name"`
		Class string `json:"class"`
	} `json:"properties"`
}
