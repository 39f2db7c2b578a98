package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateInstructorRequest 创建讲师请求
type CreateInstructorRequest struct {
	FirstName string `json:"first_name" binding:"required"` // 名
	LastName  string `json:"last_name" binding:"required"`  // 姓
	Degree    string `json:"degree"`                        // 学位/头衔（可选）
}

// CreateInstructor 创建讲师
// @Summary      创建讲师
// @Description  创建一位讲师
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateInstructorRequest  true  "创建讲师请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/instructors [post]
func (h *Handler) CreateInstructor(c *gin.Context) {
	var req CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	instructor, err := h.catalogService.CreateInstructor(c.Request.Context(), req.FirstName, req.LastName, req.Degree)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "讲师创建成功",
		"data":    instructor,
	})
}

// ListInstructors 分页查询讲师列表
// @Summary      讲师列表
// @Description  分页查询讲师
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "页码（默认1）"
// @Param        page_size query     int  false  "每页数量（默认20，最大100）"
// @Success      200       {object}  map[string]interface{}
// @Failure      500       {object}  ErrorResponse
// @Router       /api/v1/instructors [get]
func (h *Handler) ListInstructors(c *gin.Context) {
	page, pageSize := parsePaging(c)

	instructors, total, err := h.catalogService.ListInstructors(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"instructors": instructors,
			"total":       total,
			"page":        page,
			"page_size":   pageSize,
		},
	})
}
