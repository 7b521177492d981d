package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// OrderAPIBaseURL địa chỉ Order API của backend storefront
func OrderAPIBaseURL() string {
	if url := os.Getenv("ORDER_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8083/api/v1"
}
