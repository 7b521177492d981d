package middleware

import (
	"strings"

	"pianopay/response"
	"pianopay/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware xử lý authentication: đọc bearer token, lấy userID và
// giữ lại token gốc để forward lên Order API
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := services.GetUserIDFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("token", tokenString)
		c.Next()
	}
}
