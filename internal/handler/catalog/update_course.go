package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title           string     `json:"title" binding:"required"`       // 标题
	Description     string     `json:"description" binding:"required"` // 详细描述
	PublicationDate *time.Time `json:"publication_date,omitempty"`     // 发布时间，为空表示撤回为草稿
}

// UpdateCourse 更新课程
// @Summary      更新课程
// @Description  整体更新课程的标题、描述与发布时间
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "课程ID"
// @Param        request  body      UpdateCourseRequest  true  "更新课程请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/courses/{id} [put]
func (h *Handler) UpdateCourse(c *gin.Context) {
	courseID := c.Param("id")

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	if err := h.catalogService.UpdateCourse(c.Request.Context(), courseID, req.Title, req.Description, req.PublicationDate); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "课程更新成功",
	})
}
