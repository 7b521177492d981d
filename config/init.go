package config

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var RedisClient *redis.Client

func InitApp() (*gin.Engine, *melody.Melody, *cron.Cron, error) {
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	LoadEnv()

	// Gateway vẫn chạy được khi thiếu Redis, chỉ mất khả năng khôi phục
	// phiên sau khi restart
	var err error
	RedisClient, err = ConnectRedis()
	if err != nil {
		log.Printf("Warning: không kết nối được Redis, phiên thanh toán chỉ lưu trong bộ nhớ: %v", err)
		RedisClient = nil
	}

	m := melody.New()

	c := cron.New()

	return router, m, c, nil
}

func InitWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})
	log.Println("WebSocket initialized successfully")
}
