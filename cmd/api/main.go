package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"evcharge/internal/api/handlers"
	"evcharge/internal/api/middleware"
)

func main() {
	log := logrus.New()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))

	cache := handlers.NewResultCache(1 * time.Hour)
	simHandler := handlers.NewSimulationHandler(cache)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulations", simHandler.Run)
		api.GET("/policies", handlers.ListPolicies)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Infof("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
