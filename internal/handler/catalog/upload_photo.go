package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadPhotoResponseData 上传课程图片响应数据
type UploadPhotoResponseData struct {
	PhotoID  string `json:"photo_id"`  // 图片ID
	PhotoURL string `json:"photo_url"` // 图片访问URL
	FileName string `json:"file_name"` // 原始文件名
}

// UploadPhoto 上传课程图片（通过 multipart/form-data）
// @Summary      上传课程图片
// @Description  通过 multipart/form-data 上传课程图片，存储到对象存储并挂到课程上
// @Tags         课程目录
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "课程ID"
// @Param        file  formData  file    true  "上传的图片文件"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/v1/courses/{id}/photos [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	courseID := c.Param("id")

	// 从 multipart/form-data 中获取文件
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid file",
			Detail:  err.Error(),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40002,
			Message: "Failed to open file",
			Detail:  err.Error(),
		})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photo, err := h.catalogService.UploadCoursePhoto(c.Request.Context(), courseID, file.Filename, contentType, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "图片上传成功",
		"data": UploadPhotoResponseData{
			PhotoID:  photo.ID,
			PhotoURL: photo.URL,
			FileName: file.Filename,
		},
	})
}
