package config

import (
	"time"
)

// Config represents the complete server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mapbox    MapboxConfig    `yaml:"mapbox"`
	Router    RouterConfig    `yaml:"router"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Sites     SitesConfig     `yaml:"sites"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Port           int   `yaml:"port"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// MapboxConfig holds Mapbox API settings shared by the directions, geocoding,
// tilequery and static imagery endpoints
type MapboxConfig struct {
	Token       string        `yaml:"token"`
	Zoom        int           `yaml:"zoom"`
	ImageWidth  int           `yaml:"image_width"`
	ImageHeight int           `yaml:"image_height"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// RouterConfig selects the routing backend. Provider is "mapbox" or "google";
// the Google key is only required for the latter.
type RouterConfig struct {
	Provider     string `yaml:"provider"`
	GoogleAPIKey string `yaml:"google_api_key"`
}

// NarrativeConfig holds narrative generation settings
type NarrativeConfig struct {
	Style                  string `yaml:"style"`
	RoadSearchRadiusMeters int    `yaml:"road_search_radius_meters"`
	RoadSearchLimit        int    `yaml:"road_search_limit"`
}

// SitesConfig holds per-upload processing settings
type SitesConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			MaxUploadBytes: 32 << 20,
		},
		Mapbox: MapboxConfig{
			Zoom:        18,
			ImageWidth:  640,
			ImageHeight: 312,
			CacheTTL:    15 * time.Minute,
		},
		Router: RouterConfig{
			Provider: "mapbox",
		},
		Narrative: NarrativeConfig{
			Style:                  "steps",
			RoadSearchRadiusMeters: 50,
			RoadSearchLimit:        10,
		},
		Sites: SitesConfig{
			Workers: 4,
		},
	}
}
