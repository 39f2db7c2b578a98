package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentora/internal/pkg/ctxutil"
)

// CreateRatingRequest 创建评分请求
type CreateRatingRequest struct {
	Score   int    `json:"score" binding:"required"` // 分数（1-5）
	Comment string `json:"comment"`                  // 可选评论
}

// CreateRating 为课程创建评分
// @Summary      课程评分
// @Description  当前登录用户为课程打分（1-5），可附带评论
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "课程ID"
// @Param        request  body      CreateRatingRequest  true  "评分请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/courses/{id}/ratings [post]
func (h *Handler) CreateRating(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := c.Param("id")

	userID, ok := ctxutil.GetUserID(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	rating, err := h.catalogService.CreateRating(ctx, courseID, userID, req.Score, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "评分成功",
		"data":    rating,
	})
}

// ListRatings 查询课程评分列表
// @Summary      课程评分列表
// @Description  分页查询指定课程的评分记录
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true   "课程ID"
// @Param        page      query     int     false  "页码（默认1）"
// @Param        page_size query     int     false  "每页数量（默认20，最大100）"
// @Success      200       {object}  map[string]interface{}
// @Failure      500       {object}  ErrorResponse
// @Router       /api/v1/courses/{id}/ratings [get]
func (h *Handler) ListRatings(c *gin.Context) {
	courseID := c.Param("id")
	page, pageSize := parsePaging(c)

	ratings, total, err := h.catalogService.ListRatings(c.Request.Context(), courseID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"ratings":   ratings,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
