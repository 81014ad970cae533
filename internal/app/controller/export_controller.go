package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportProducts downloads the filtered product list (admin)
// GET /api/v1/admin/products/export?format=csv|xlsx|pdf&categoryId=&q=
func (ctrl *ExportController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ExportInvalidFormat, "Formato no soportado")
		return
	}
	filter, ok := parseProductFilter(c)
	if !ok {
		return
	}

	file, err := ctrl.exportService.ExportProducts(format, filter)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedExportFormat) {
			apperrors.BadRequest(c, apperrors.ExportInvalidFormat, "Formato no soportado")
			return
		}
		log.Error("Product export failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "No se pudo generar el archivo")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
