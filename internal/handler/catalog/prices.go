package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePriceRequest 创建价格请求
// 金额以分为单位的整数传递
type CreatePriceRequest struct {
	Name             string `json:"name" binding:"required"`          // 价格名称
	CurrentPrice     int64  `json:"current_price" binding:"required"` // 当前价格（分）
	PromotionalPrice int64  `json:"promotional_price"`                // 促销价格（分），为0时取当前价格
}

// CreatePrice 创建价格
// @Summary      创建价格
// @Description  创建一个价格方案，金额以分为单位
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreatePriceRequest  true  "创建价格请求"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/prices [post]
func (h *Handler) CreatePrice(c *gin.Context) {
	var req CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request",
			Detail:  err.Error(),
		})
		return
	}

	price, err := h.catalogService.CreatePrice(c.Request.Context(), req.Name, req.CurrentPrice, req.PromotionalPrice)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "价格创建成功",
		"data":    price,
	})
}

// ListPrices 分页查询价格列表
// @Summary      价格列表
// @Description  分页查询价格方案
// @Tags         课程目录
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int  false  "页码（默认1）"
// @Param        page_size query     int  false  "每页数量（默认20，最大100）"
// @Success      200       {object}  map[string]interface{}
// @Failure      500       {object}  ErrorResponse
// @Router       /api/v1/prices [get]
func (h *Handler) ListPrices(c *gin.Context) {
	page, pageSize := parsePaging(c)

	prices, total, err := h.catalogService.ListPrices(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"prices":    prices,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
