package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/utiliscan/digsite-server/internal/clients/mapbox"
	"github.com/utiliscan/digsite-server/internal/config"
	"github.com/utiliscan/digsite-server/internal/lib/geo"
	"github.com/utiliscan/digsite-server/internal/lib/narrative"
	"github.com/utiliscan/digsite-server/internal/mapkit"
	"github.com/utiliscan/digsite-server/internal/snapshot"
	"github.com/utiliscan/digsite-server/internal/spreadsheet"
)

// Router computes a driving route with turn-by-turn steps
type Router interface {
	Route(ctx context.Context, origin, destination geo.Point) (*narrative.Route, error)
}

// Geocoder resolves the nearest named place to a coordinate
type Geocoder interface {
	NearestPlace(ctx context.Context, p geo.Point) (mapbox.Place, error)
}

// TileQuery looks up roads near a coordinate in proximity order
type TileQuery interface {
	RoadsNear(ctx context.Context, p geo.Point, radiusMeters float64, limit int) ([]narrative.Road, error)
}

// Imagery fetches satellite imagery centered on a coordinate
type Imagery interface {
	StaticImage(ctx context.Context, p geo.Point, zoom, width, height int) ([]byte, error)
}

// Failure records one site that could not be processed
type Failure struct {
	Site   string `json:"site"`
	Reason string `json:"reason"`
}

// SitesService turns uploaded dig sites into downloadable snapshot and
// narrative bundles. Per-site failures are recorded and reported; they never
// abort the rest of the upload.
type SitesService struct {
	router   Router
	geocoder Geocoder
	tiles    TileQuery
	imagery  Imagery
	builder  *narrative.Builder
	config   *config.Config
}

// NewSitesService creates a new SitesService
func NewSitesService(router Router, geocoder Geocoder, tiles TileQuery, imagery Imagery, cfg *config.Config) *SitesService {
	style := narrative.StyleSteps
	if cfg.Narrative.Style == "cardinal" {
		style = narrative.StyleCardinal
	}

	return &SitesService{
		router:   router,
		geocoder: geocoder,
		tiles:    tiles,
		imagery:  imagery,
		builder:  narrative.NewBuilder(style),
		config:   cfg,
	}
}

// GenerateSnapshots produces one annotated satellite image per site
func (s *SitesService) GenerateSnapshots(ctx context.Context, sites []spreadsheet.Site) ([]snapshot.File, []Failure) {
	return s.forEachSite(ctx, sites, s.snapshotFiles)
}

// GenerateNarratives produces the driving narrative plus map artifacts (KML,
// GeoJSON, Leaflet HTML) for every site
func (s *SitesService) GenerateNarratives(ctx context.Context, sites []spreadsheet.Site) ([]snapshot.File, []Failure) {
	return s.forEachSite(ctx, sites, s.narrativeFiles)
}

// forEachSite runs the per-site generator across a fixed-size worker pool.
// Output files preserve the input site order regardless of completion order.
func (s *SitesService) forEachSite(ctx context.Context, sites []spreadsheet.Site,
	generate func(ctx context.Context, site spreadsheet.Site) ([]snapshot.File, error)) ([]snapshot.File, []Failure) {

	type result struct {
		files []snapshot.File
		err   error
	}

	workers := s.config.Sites.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]result, len(sites))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				files, err := generate(ctx, sites[i])
				results[i] = result{files: files, err: err}
			}
		}()
	}

	for i := range sites {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var files []snapshot.File
	var failures []Failure
	for i, r := range results {
		if r.err != nil {
			log.Printf("Site %q failed: %v", sites[i].Name, r.err)
			failures = append(failures, Failure{Site: sites[i].Name, Reason: r.err.Error()})
			continue
		}
		files = append(files, r.files...)
	}
	return files, failures
}

// snapshotFiles fetches and annotates the satellite image for one site
func (s *SitesService) snapshotFiles(ctx context.Context, site spreadsheet.Site) ([]snapshot.File, error) {
	mb := s.config.Mapbox
	raw, err := s.imagery.StaticImage(ctx, site.Coordinate, mb.Zoom, mb.ImageWidth, mb.ImageHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch imagery: %w", err)
	}

	annotated, err := snapshot.Annotate(raw, site.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate image: %w", err)
	}

	return []snapshot.File{
		{Name: snapshot.SafeFilename(site.Name) + ".jpg", Data: annotated},
	}, nil
}

// narrativeFiles builds the full narrative bundle for one site: the nearest
// town anchors the route start, the roads around the town center label the
// starting intersection, and the driving route from there to the site is
// narrated and rendered into map artifacts.
func (s *SitesService) narrativeFiles(ctx context.Context, site spreadsheet.Site) ([]snapshot.File, error) {
	place, err := s.geocoder.NearestPlace(ctx, site.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("failed to locate nearest town: %w", err)
	}

	roads, err := s.tiles.RoadsNear(ctx, place.Center,
		float64(s.config.Narrative.RoadSearchRadiusMeters), s.config.Narrative.RoadSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to look up roads near %s: %w", place.Name, err)
	}

	route, err := s.router.Route(ctx, place.Center, site.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("failed to route from %s: %w", place.Name, err)
	}

	start := narrative.StartContext{
		Intersection: narrative.IntersectionLabel(roads),
		Town:         place.Name,
		State:        place.Region,
	}
	lines := s.builder.Build(start, *route, site.Coordinate)

	kmlData, err := mapkit.RouteKML(site.Name, route.Polyline, site.Coordinate)
	if err != nil {
		return nil, err
	}
	geoJSON, err := mapkit.RouteGeoJSON(site.Name, route.Polyline, site.Coordinate)
	if err != nil {
		return nil, err
	}
	page, err := mapkit.LeafletHTML(site.Name, geoJSON)
	if err != nil {
		return nil, err
	}

	base := snapshot.SafeFilename(site.Name)
	return []snapshot.File{
		{Name: base + ".txt", Data: []byte(strings.Join(lines, "\n") + "\n")},
		{Name: base + ".kml", Data: kmlData},
		{Name: base + ".geojson", Data: geoJSON},
		{Name: base + ".html", Data: page},
	}, nil
}
