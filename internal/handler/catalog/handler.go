package catalog

import (
	"mentora/internal/service"
)

// Handler 课程目录处理器
// 所有catalog相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	catalogService *service.CatalogService
}

// NewHandler 创建课程目录处理器
func NewHandler(catalogService *service.CatalogService) *Handler {
	return &Handler{
		catalogService: catalogService,
	}
}
