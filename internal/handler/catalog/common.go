package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mentora/internal/service"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondServiceError 将Service层错误映射为HTTP响应
// 未知错误统一返回500，不向客户端泄露内部细节
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrInstructorNotFound),
		errors.Is(err, service.ErrPriceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    40401,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    50301,
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    50001,
			Message: "Internal Server Error",
		})
	}
}

// parsePaging 解析分页参数，超出范围时回退默认值
func parsePaging(c *gin.Context) (page, pageSize int64) {
	type pagingQuery struct {
		Page     int64 `form:"page"`
		PageSize int64 `form:"page_size"`
	}

	var q pagingQuery
	_ = c.ShouldBindQuery(&q)

	page = q.Page
	pageSize = q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
