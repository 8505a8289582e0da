package main

import (
	"context"
	"log"
	"time"

	"github.com/dpup/prefab"
	"github.com/joho/godotenv"

	"github.com/utiliscan/digsite-server/internal/cache"
	"github.com/utiliscan/digsite-server/internal/clients/googledir"
	"github.com/utiliscan/digsite-server/internal/clients/mapbox"
	"github.com/utiliscan/digsite-server/internal/config"
	"github.com/utiliscan/digsite-server/internal/server"
	"github.com/utiliscan/digsite-server/internal/services"
)

func main() {
	// A local .env is optional; real deployments set environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig := loadConfig()
	if appConfig.Mapbox.Token == "" {
		log.Fatal("Mapbox token is required in configuration")
	}

	ctx := context.Background()

	store := cache.New()
	store.StartPeriodicCleanup(ctx, 5*time.Minute)

	mapboxClient := mapbox.NewClient(appConfig.Mapbox.Token).
		WithCache(store, appConfig.Mapbox.CacheTTL)

	var router services.Router = mapboxClient
	if appConfig.Router.Provider == "google" {
		googleClient, err := googledir.NewClient(appConfig.Router.GoogleAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Google directions client: %v", err)
		}
		router = googleClient
		log.Printf("Routing via Google Directions")
	} else {
		log.Printf("Routing via Mapbox Directions")
	}

	sitesService := services.NewSitesService(router, mapboxClient, mapboxClient, mapboxClient, appConfig)

	log.Printf("Dig site server starting on port %d", appConfig.Server.Port)
	if err := server.New(sitesService, appConfig).ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system. Values come
// from prefab.yaml and environment variables with the PF__ prefix, layered
// over the defaults.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	sections := map[string]interface{}{
		"server":    &appConfig.Server,
		"mapbox":    &appConfig.Mapbox,
		"router":    &appConfig.Router,
		"narrative": &appConfig.Narrative,
		"sites":     &appConfig.Sites,
	}
	for key, target := range sections {
		if err := prefab.Config.Unmarshal(key, target); err != nil {
			log.Fatalf("Failed to unmarshal %s section: %v", key, err)
		}
	}

	return appConfig
}
