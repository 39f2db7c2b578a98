package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssignPriceRequest 课程关联价格请求
type AssignPriceRequest struct {
	PriceID string `json:"price_id" binding:"required"` // 价格ID
}

// AssignPrice 课程关联价格
// @Summary      课程关联价格
// @Description  将价格方案关联到课程
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "课程ID"
// @Param        request  body      AssignPriceRequest  true  "关联价格请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/courses/{id}/prices [post]
func (h *Handler) AssignPrice(c *gin.Context) {
	courseID := c.Param("id")

	var req AssignPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	if err := h.catalogService.AssignPrice(c.Request.Context(), courseID, req.PriceID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "价格关联成功",
	})
}
