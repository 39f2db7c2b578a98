package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentora/internal/pkg/ctxutil"
)

// RevokeAll 撤销当前用户的全部Token（退出所有设备）
// @Summary      退出所有设备
// @Description  撤销当前用户全部可用的Refresh Token；没有可用Token时revoked为false
// @Tags         认证
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/auth/revoke-all [post]
func (h *Handler) RevokeAll(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := ctxutil.GetUserID(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	revoked, err := h.authService.RevokeAllTokens(ctx, userID, "")
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
