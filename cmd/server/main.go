package main

import (
	"fmt"
	"log"
	"os"

	"github.com/foodscan/backend/config"
	httpDelivery "github.com/foodscan/backend/internal/delivery/http"
	"github.com/foodscan/backend/internal/infrastructure/cache"
	"github.com/foodscan/backend/internal/infrastructure/off"
	"github.com/foodscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FoodScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Regional source: %s", cfg.Sources.RegionalBaseURL)
	log.Printf("Global source: %s", cfg.Sources.GlobalBaseURL)

	// Infrastructure: caches with explicit lifecycles, no module-level state
	resultCache := cache.NewResultCache(cfg.Cache.ResultTTL, cfg.Cache.SweepInterval)
	defer resultCache.Dispose()

	responseCache := cache.NewResponseCache(cfg.Cache.ResponseTTL)

	offClient := off.NewClient(
		cfg.Sources.RegionalBaseURL,
		cfg.Sources.GlobalBaseURL,
		off.WithAttemptTimeout(cfg.Sources.AttemptTimeout),
		off.WithPageSize(cfg.Sources.PageSize),
		off.WithResponseCache(responseCache),
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Source client debug mode enabled")
	}

	// Usecase layer
	searchService := usecase.NewSearchService(offClient, resultCache, usecase.SearchServiceConfig{
		EnableDebugLogging: cfg.Search.EnableDebugLogging,
	})

	log.Printf("Search: page_size=%d, attempt_timeout=%s, result_ttl=%s",
		cfg.Sources.PageSize, cfg.Sources.AttemptTimeout, cfg.Cache.ResultTTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, offClient)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
