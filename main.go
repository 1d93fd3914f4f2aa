package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"tabscout/internal"
	"tabscout/internal/config"
	"tabscout/internal/container"

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

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	c, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	if err := c.InitWithDatabase(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer c.Close()

	// Start pprof server for performance profiling
	if port := os.Getenv("PPROF_PORT"); port != "" {
		go func() {
			log.Printf("pprof server starting on :%s", port)
			if err := http.ListenAndServe(":"+port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	if err := c.Server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
