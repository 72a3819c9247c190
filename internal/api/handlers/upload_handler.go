package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"keyflow-api-server/internal/upload"
)

type UploadHandler struct {
	Storage upload.Storage
}

type Base64UploadRequest struct {
	Image string `json:"image" binding:"required"`
}

// UploadImage accepts a multipart image upload and returns the stored URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := upload.AllowedContentTypes[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Allowed: JPEG, PNG, WebP, GIF"})
		return
	}
	if fileHeader.Size > upload.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	if len(content) > upload.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 5MB"})
		return
	}

	url, err := h.Storage.Save(context.Background(), content, ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadImageBase64 accepts a base64 payload, with or without a data-URL
// prefix, and returns the stored URL. The image format is sniffed from the
// decoded bytes.
func (h *UploadHandler) UploadImageBase64(c *gin.Context) {
	var req Base64UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	data := req.Image
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}

	content, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base64 image data"})
		return
	}
	if len(content) > upload.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 5MB"})
		return
	}

	url, err := h.Storage.Save(context.Background(), content, upload.SniffImageExt(content))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
