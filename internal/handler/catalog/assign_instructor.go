package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssignInstructorRequest 课程关联讲师请求
type AssignInstructorRequest struct {
	InstructorID string `json:"instructor_id" binding:"required"` // 讲师ID
}

// AssignInstructor 课程关联讲师
// @Summary      课程关联讲师
// @Description  将讲师关联到课程，重复关联不会产生多条记录
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "课程ID"
// @Param        request  body      AssignInstructorRequest  true  "关联讲师请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/courses/{id}/instructors [post]
func (h *Handler) AssignInstructor(c *gin.Context) {
	courseID := c.Param("id")

	var req AssignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	if err := h.catalogService.AssignInstructor(c.Request.Context(), courseID, req.InstructorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "讲师关联成功",
	})
}
