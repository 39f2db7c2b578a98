package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentora/internal/service"
)

// ListCoursesRequest 课程列表请求
type ListCoursesRequest struct {
	Page     int64  `form:"page"`      // 页码（默认1）
	PageSize int64  `form:"page_size"` // 每页数量（默认20，最大100）
	Title    string `form:"title"`     // 标题模糊过滤（可选）
	SortBy   string `form:"sort_by"`   // 排序字段：title/created_at
	Desc     bool   `form:"desc"`      // 是否倒序
}

// ListCourses 分页查询课程列表
// @Summary      课程列表
// @Description  分页查询课程，支持按标题模糊过滤和排序
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "页码（默认1）"
// @Param        page_size query     int     false  "每页数量（默认20，最大100）"
// @Param        title     query     string  false  "标题模糊过滤"
// @Param        sort_by   query     string  false  "排序字段：title/created_at"
// @Param        desc      query     bool    false  "是否倒序"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /api/v1/courses [get]
func (h *Handler) ListCourses(c *gin.Context) {
	var req ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid query parameters",
			Detail:  err.Error(),
		})
		return
	}

	result, err := h.catalogService.ListCourses(c.Request.Context(), service.ListCoursesParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Title:    req.Title,
		SortBy:   req.SortBy,
		Desc:     req.Desc,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
