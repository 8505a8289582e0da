package mapbox

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utiliscan/digsite-server/internal/cache"
	"github.com/utiliscan/digsite-server/internal/lib/geo"
)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

// Helper function to create mock HTTP response
func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const directionsFixture = `{
	"code": "Ok",
	"routes": [{
		"geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@",
		"distance": 2414.0,
		"duration": 300.0,
		"legs": [{
			"steps": [
				{
					"distance": 1609.34,
					"name": "Main St",
					"maneuver": {
						"type": "depart",
						"instruction": "Drive north on Main St",
						"bearing_after": 0,
						"location": [-120.3822, 37.9829]
					}
				},
				{
					"distance": 804.67,
					"name": "Elm St",
					"maneuver": {
						"type": "turn",
						"modifier": "right",
						"instruction": "Turn right onto Elm St",
						"bearing_after": 90,
						"location": [-120.3822, 37.9975]
					}
				},
				{
					"distance": 0,
					"name": "",
					"maneuver": {
						"type": "arrive",
						"instruction": "You have arrived at your destination",
						"bearing_after": 90,
						"location": [-120.3731, 37.9975]
					}
				}
			]
		}]
	}]
}`

func TestRoute_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, directionsFixture), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	origin := geo.Point{Latitude: 37.9829, Longitude: -120.3822}
	destination := geo.Point{Latitude: 37.9975, Longitude: -120.3731}

	route, err := client.Route(context.Background(), origin, destination)
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, 2414.0, route.DistanceMeters)
	assert.Equal(t, 300.0, route.DurationSeconds)
	assert.Greater(t, len(route.Polyline), 0, "Overview polyline should decode to points")

	require.Len(t, route.Steps, 3)
	assert.Equal(t, "depart", route.Steps[0].Maneuver)
	assert.Equal(t, "Main St", route.Steps[0].RoadName)
	assert.Equal(t, 1609.34, route.Steps[0].DistanceMeters)
	assert.Equal(t, 90.0, route.Steps[1].BearingAfter)
	assert.Equal(t, "Turn right onto Elm St", route.Steps[1].Instruction)
	assert.Equal(t, "arrive", route.Steps[2].Maneuver)

	mockHTTP.AssertExpectations(t)
}

func TestRoute_RequestFormat(t *testing.T) {
	var capturedRequest *http.Request
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Run(func(args mock.Arguments) {
		capturedRequest = args.Get(0).(*http.Request)
	}).Return(createMockResponse(200, directionsFixture), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	origin := geo.Point{Latitude: 37.9829, Longitude: -120.3822}
	destination := geo.Point{Latitude: 37.9975, Longitude: -120.3731}

	_, err := client.Route(context.Background(), origin, destination)
	require.NoError(t, err)

	require.NotNil(t, capturedRequest)
	assert.Equal(t, "GET", capturedRequest.Method)
	assert.Contains(t, capturedRequest.URL.Path, "/directions/v5/mapbox/driving/")
	assert.Contains(t, capturedRequest.URL.Path, "-120.382200,37.982900;-120.373100,37.997500")

	query := capturedRequest.URL.Query()
	assert.Equal(t, "true", query.Get("steps"))
	assert.Equal(t, "polyline", query.Get("geometries"))
	assert.Equal(t, "full", query.Get("overview"))
	assert.Equal(t, "test-token", query.Get("access_token"))

	mockHTTP.AssertExpectations(t)
}

func TestRoute_RejectedCode(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"code": "NoRoute", "message": "No route found", "routes": []}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	route, err := client.Route(context.Background(),
		geo.Point{Latitude: 37.98, Longitude: -120.38},
		geo.Point{Latitude: 38.00, Longitude: -120.40})

	assert.Error(t, err)
	assert.Nil(t, route)
	assert.Contains(t, err.Error(), "NoRoute")

	mockHTTP.AssertExpectations(t)
}

func TestRoute_RateLimit(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(429, `{"message": "Too Many Requests"}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	_, err := client.Route(context.Background(),
		geo.Point{Latitude: 37.98, Longitude: -120.38},
		geo.Point{Latitude: 38.00, Longitude: -120.40})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")

	mockHTTP.AssertExpectations(t)
}

func TestRoute_UsesCache(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, directionsFixture), nil).Once()

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP).
		WithCache(cache.New(), time.Minute)

	origin := geo.Point{Latitude: 37.9829, Longitude: -120.3822}
	destination := geo.Point{Latitude: 37.9975, Longitude: -120.3731}

	first, err := client.Route(context.Background(), origin, destination)
	require.NoError(t, err)

	// Second call must be served from cache; the mock only allows one Do
	second, err := client.Route(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.Equal(t, first.DistanceMeters, second.DistanceMeters)
	assert.Len(t, second.Steps, len(first.Steps))

	mockHTTP.AssertExpectations(t)
}

func TestNearestPlace_Success(t *testing.T) {
	fixture := `{
		"features": [{
			"text": "Sonora",
			"place_name": "Sonora, California, United States",
			"center": [-120.3822, 37.9829],
			"context": [
				{"id": "district.123", "text": "Tuolumne County"},
				{"id": "region.456", "text": "California", "short_code": "US-CA"},
				{"id": "country.789", "text": "United States"}
			]
		}]
	}`

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixture), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	place, err := client.NearestPlace(context.Background(), geo.Point{Latitude: 37.99, Longitude: -120.39})
	require.NoError(t, err)

	assert.Equal(t, "Sonora", place.Name)
	assert.Equal(t, "California", place.Region)
	assert.Equal(t, 37.9829, place.Center.Latitude)
	assert.Equal(t, -120.3822, place.Center.Longitude)

	mockHTTP.AssertExpectations(t)
}

func TestNearestPlace_NoFeatures(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"features": []}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	_, err := client.NearestPlace(context.Background(), geo.Point{Latitude: 0, Longitude: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no place found")

	mockHTTP.AssertExpectations(t)
}

func TestRoadsNear_Success(t *testing.T) {
	fixture := `{
		"features": [
			{"properties": {"name": "Main St", "class": "primary"}},
			{"properties": {"name": "Main St", "class": "secondary"}},
			{"properties": {"name": "Oak Ave", "class": "residential"}}
		]
	}`

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, fixture), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	roads, err := client.RoadsNear(context.Background(), geo.Point{Latitude: 37.98, Longitude: -120.38}, 50, 10)
	require.NoError(t, err)

	// Proximity order is preserved exactly as returned; dedup is the
	// labeler's concern, not the client's
	require.Len(t, roads, 3)
	assert.Equal(t, "Main St", roads[0].Name)
	assert.Equal(t, "primary", roads[0].Class)
	assert.Equal(t, "residential", roads[2].Class)

	mockHTTP.AssertExpectations(t)
}

func TestStaticImage_Success(t *testing.T) {
	imageBytes := "\x89PNG\r\n\x1a\nfakeimagedata"

	var capturedRequest *http.Request
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Run(func(args mock.Arguments) {
		capturedRequest = args.Get(0).(*http.Request)
	}).Return(createMockResponse(200, imageBytes), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.mapbox.com", mockHTTP)

	data, err := client.StaticImage(context.Background(), geo.Point{Latitude: 37.98, Longitude: -120.38}, 18, 640, 312)
	require.NoError(t, err)
	assert.Equal(t, []byte(imageBytes), data)

	require.NotNil(t, capturedRequest)
	assert.Contains(t, capturedRequest.URL.Path, "/styles/v1/mapbox/satellite-v9/static/")
	assert.Contains(t, capturedRequest.URL.Path, ",18,0/640x312")

	mockHTTP.AssertExpectations(t)
}

func TestStaticImage_APIError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(401, `{"message": "Not Authorized"}`), nil)

	client := NewClientWithHTTPDoer("bad-token", "https://api.mapbox.com", mockHTTP)

	_, err := client.StaticImage(context.Background(), geo.Point{Latitude: 37.98, Longitude: -120.38}, 18, 640, 312)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API error 401")

	mockHTTP.AssertExpectations(t)
}
