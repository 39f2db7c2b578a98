package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentora/internal/pkg/ctxutil"
)

// RequirePolicy 权限策略中间件
// 必须挂在 Auth 之后，检查当前用户的policies声明中是否包含指定策略
func RequirePolicy(policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.HasPolicy(c.Request.Context(), policy) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    40301,
				"message": "权限不足",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
