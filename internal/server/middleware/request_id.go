package middleware

import (
	"github.com/gin-gonic/gin"

	"mentora/internal/pkg/id"
)

const requestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 优先沿用客户端传入的 X-Request-ID，否则生成一个新的UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}
