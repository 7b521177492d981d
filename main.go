package main

import (
	"log"
	"net/http"
	"os"

	"pianopay/config"
	"pianopay/jobs"
	"pianopay/orderapi"
	"pianopay/routes"
	"pianopay/services"
	"pianopay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	var store services.SessionStore
	if config.RedisClient != nil {
		store = services.NewRedisSessionStore(config.RedisClient)
	} else {
		store = services.NewMemorySessionStore()
	}

	client := orderapi.NewClient(config.OrderAPIBaseURL())
	manager := services.NewSessionManager(client, store, logger.NewDefaultLogger(logger.InfoLevel), m)

	if err := jobs.InitCronJobs(c, config.RedisClient); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, manager)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
