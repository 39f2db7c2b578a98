package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mentora/internal/service"
)

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // Refresh Token（必填）
}

// Refresh 刷新Token
// @Summary      刷新Token
// @Description  用Refresh Token换取新的Access Token和Refresh Token（旧Token单次可用，换取后即失效）
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshTokenRequest  true  "刷新Token请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ipAddress, userAgent := clientAudit(c)

	ctx := c.Request.Context()
	resp, err := h.authService.Refresh(ctx, req.RefreshToken, ipAddress, userAgent)
	if err != nil {
		// 不存在/过期/已撤销/属主缺失不作区分，统一返回401
		if errors.Is(err, service.ErrInvalidOrExpiredToken) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Code:    40102,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": TokenResponseData{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresAt:    resp.ExpiresAt.Format(time.RFC3339),
			TokenType:    resp.TokenType,
		},
	})
}
