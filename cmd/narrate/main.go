// Command narrate prints the driving narrative for a single dig site without
// going through the HTTP server. Useful for checking one coordinate quickly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/utiliscan/digsite-server/internal/clients/mapbox"
	"github.com/utiliscan/digsite-server/internal/lib/geo"
	"github.com/utiliscan/digsite-server/internal/lib/narrative"
)

func main() {
	lat := flag.Float64("lat", 0, "Dig site latitude")
	lon := flag.Float64("lon", 0, "Dig site longitude")
	token := flag.String("token", os.Getenv("MAPBOX_TOKEN"), "Mapbox API token (defaults to MAPBOX_TOKEN)")
	cardinal := flag.Bool("cardinal", false, "Merge steps into cardinal direction runs")
	radius := flag.Float64("radius", 50, "Road search radius in meters around the town center")
	flag.Parse()

	if err := godotenv.Load(); err == nil && *token == "" {
		*token = os.Getenv("MAPBOX_TOKEN")
	}

	if *lat == 0 && *lon == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  narrate --lat 37.9980 --lon -120.3731 --token pk.xxx")
		os.Exit(1)
	}
	if *token == "" {
		log.Fatal("A Mapbox token is required (--token or MAPBOX_TOKEN)")
	}

	site, err := geo.NewPoint(*lat, *lon)
	if err != nil {
		log.Fatalf("Invalid coordinate: %v", err)
	}

	ctx := context.Background()
	client := mapbox.NewClient(*token)

	place, err := client.NearestPlace(ctx, site)
	if err != nil {
		log.Fatalf("Failed to locate nearest town: %v", err)
	}

	roads, err := client.RoadsNear(ctx, place.Center, *radius, 10)
	if err != nil {
		log.Fatalf("Failed to look up roads: %v", err)
	}

	route, err := client.Route(ctx, place.Center, site)
	if err != nil {
		log.Fatalf("Failed to route: %v", err)
	}

	style := narrative.StyleSteps
	if *cardinal {
		style = narrative.StyleCardinal
	}

	lines := narrative.NewBuilder(style).Build(narrative.StartContext{
		Intersection: narrative.IntersectionLabel(roads),
		Town:         place.Name,
		State:        place.Region,
	}, *route, site)

	for _, line := range lines {
		fmt.Println(line)
	}
}
