package main

import (
	"fmt"
	"log"
	"time"

	"bike-probability-api/config"
	"bike-probability-api/handlers"
	"bike-probability-api/middleware"
	"bike-probability-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis cache; the API degrades to uncached queries when unreachable
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	}
	defer cache.Close()

	// Estimation core
	store := services.NewGormStore(db)
	directory := services.NewStationDirectory(store)
	aggregator := services.NewTripAggregator(store, store, cache,
		time.Duration(cfg.Estimator.StatsCacheTTLSec)*time.Second)
	estimator := services.NewEstimator(directory, aggregator,
		services.BirthdayModel{MaxWindowWeeks: cfg.Estimator.MaxWindowWeeks})

	stationsHandler := handlers.NewStationsHandler(store, directory, cache)
	probabilityHandler := handlers.NewProbabilityHandler(estimator)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "Bike Probability API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/stations", stationsHandler.GetStations)
		api.GET("/stations/:id", stationsHandler.GetStation)
		api.POST("/probability", probabilityHandler.Calculate)
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
