package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"churnboard/internal/config"
	"churnboard/internal/dataset"
	"churnboard/internal/logging"
	"churnboard/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)
	if level, ok := logging.ParseLevel(appConfig.Log.Level); ok {
		logging.SetLevel(level)
	}

	cache := dataset.NewCache(nil)
	defer cache.Close()

	server := ui.NewServer(cache, appConfig.Data)

	// Warm the cache in the background; /readyz reports when it is done.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		start := time.Now()
		if err := server.Warm(ctx); err != nil {
			log.Printf("[Startup] Initial load of %s failed: %v", appConfig.Data.Source, err)
			return
		}
		log.Printf("[Startup] Loaded %s in %v", appConfig.Data.Source, time.Since(start))
	}()

	if appConfig.Ops.Enabled {
		go func() {
			ops := ui.NewOpsRouter(cache, appConfig.Data.Source)
			log.Printf("[Ops] Health and profiling server starting on :%s", appConfig.Ops.Port)
			log.Printf("[Ops] View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Ops.Port)
			if err := http.ListenAndServe(":"+appConfig.Ops.Port, ops); err != nil {
				log.Printf("[Ops] server failed: %v", err)
			}
		}()
	}

	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
