package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Title           string     `json:"title" binding:"required"`       // 标题
	Description     string     `json:"description" binding:"required"` // 详细描述
	PublicationDate *time.Time `json:"publication_date,omitempty"`     // 发布时间，为空表示草稿
}

// CreateCourse 创建课程
// @Summary      创建课程
// @Description  创建一门新课程，publication_date为空时课程处于草稿状态
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateCourseRequest  true  "创建课程请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/courses [post]
func (h *Handler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	course, err := h.catalogService.CreateCourse(c.Request.Context(), req.Title, req.Description, req.PublicationDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "课程创建成功",
		"data":    course,
	})
}
