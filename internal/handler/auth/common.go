package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"mentora/internal/model/auth"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// TokenResponseData 凭证响应数据（登录与刷新共用）
type TokenResponseData struct {
	AccessToken  string `json:"access_token"`  // Access Token
	RefreshToken string `json:"refresh_token"` // Refresh Token
	ExpiresAt    string `json:"expires_at"`    // Access Token过期时间（RFC3339）
	TokenType    string `json:"token_type"`    // Token类型：Bearer
}

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID          string   `json:"id"`                      // 用户ID
	Username    string   `json:"username"`                // 用户名
	Email       string   `json:"email"`                   // 邮箱
	FullName    string   `json:"full_name,omitempty"`     // 显示名称
	Roles       []string `json:"roles,omitempty"`         // 角色
	LastLoginAt string   `json:"last_login_at,omitempty"` // 最后登录时间
	CreatedAt   string   `json:"created_at,omitempty"`    // 创建时间
}

// toUserInfo 将User实体转换为UserInfo（所有API共用）
func toUserInfo(user *auth.User) UserInfo {
	info := UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    user.Roles,
	}

	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = user.CreatedAt.Format(time.RFC3339)

	return info
}

// clientAudit 从请求中提取客户端审计信息，显式传参给Service层
func clientAudit(c *gin.Context) (ipAddress, userAgent string) {
	return c.ClientIP(), c.Request.UserAgent()
}
