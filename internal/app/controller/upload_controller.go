package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// ImagePresigner issues upload URLs; storage.S3Storage satisfies it
type ImagePresigner interface {
	PresignImageUpload(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error)
}

type UploadController struct {
	presigner ImagePresigner
}

func NewUploadController(presigner ImagePresigner) *UploadController {
	return &UploadController{
		presigner: presigner,
	}
}

type PresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// GeneratePresignedURL returns a PUT URL for a product image (admin)
// POST /api/v1/admin/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Indica nombre y tipo de archivo")
		return
	}

	upload, err := ctrl.presigner.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Solo se permiten imágenes JPG, PNG, WEBP o GIF")
			return
		}
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No se pudo preparar la subida")
		return
	}

	log.Info("Presigned image upload issued", map[string]interface{}{
		"key": upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
