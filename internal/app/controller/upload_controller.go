package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/storage"
	"github.com/sibors/sibors-backend/pkg/logger"
)

// maxImageSize caps product image uploads
const maxImageSize = 5 << 20

// UploadController stages images on local disk. The returned path is sent
// back in images_to_add and copied into the product image store.
type UploadController struct {
	staging storage.ImageStore
}

func NewUploadController(staging storage.ImageStore) *UploadController {
	return &UploadController{
		staging: staging,
	}
}

// UploadImage stores one multipart image
// POST /api/v1/uploads/images
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Adjunte una imagen en el campo file")
		return
	}

	if err := storage.ValidateImageName(fileHeader.Filename); err != nil {
		logger.Warn("Invalid image type", map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, storage.ErrUnsupportedImage.Error())
		return
	}
	if fileHeader.Size > maxImageSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "La imagen excede el tamaño máximo de 5 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded image", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No se pudo guardar la imagen")
		return
	}
	defer file.Close()

	path, err := ctrl.staging.Put(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		logger.Error("Failed to stage image", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No se pudo guardar la imagen")
		return
	}

	logger.Info("Image staged", map[string]interface{}{
		"filename": fileHeader.Filename,
		"path":     path,
		"size":     fileHeader.Size,
	})

	c.JSON(http.StatusCreated, gin.H{
		"path": path,
	})
}
