package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteCourse 删除课程
// @Summary      删除课程
// @Description  根据课程ID删除课程，同时使其缓存失效
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "课程ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/courses/{id} [delete]
func (h *Handler) DeleteCourse(c *gin.Context) {
	courseID := c.Param("id")

	if err := h.catalogService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "课程删除成功",
	})
}
