package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware tạo requestId nếu chưa có và gán vào context, dùng để
// lần theo log của một lượt thao tác thanh toán
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader("X-Request-ID")
		if requestId == "" {
			requestId = uuid.NewString()
		}

		c.Set("requestId", requestId)
		c.Writer.Header().Set("X-Request-ID", requestId)

		c.Next()
	}
}
