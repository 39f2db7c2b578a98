package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCourse 获取课程详情
// @Summary      获取课程详情
// @Description  根据课程ID获取课程详情与平均评分，优先命中Redis缓存
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "课程ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/courses/{id} [get]
func (h *Handler) GetCourse(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "course id is required",
		})
		return
	}

	detail, err := h.catalogService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    detail,
	})
}
