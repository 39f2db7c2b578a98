package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RevokeTokenRequest 撤销Token请求
type RevokeTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // Refresh Token（必填）
}

// RevokeResponseData 撤销响应数据
type RevokeResponseData struct {
	Revoked bool `json:"revoked"` // 是否完成撤销
}

// Revoke 撤销单个Refresh Token（退出当前设备）
// @Summary      撤销Token
// @Description  撤销指定的Refresh Token；Token不存在或已失效时revoked为false
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RevokeTokenRequest  true  "撤销Token请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/revoke [post]
func (h *Handler) Revoke(c *gin.Context) {
	var req RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ipAddress, _ := clientAudit(c)

	ctx := c.Request.Context()
	revoked, err := h.authService.RevokeToken(ctx, req.RefreshToken, ipAddress, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": RevokeResponseData{
			Revoked: revoked,
		},
	})
}
