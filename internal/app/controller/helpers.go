package controller

import (
	"strconv"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/repository"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive id from the path, answering 400 when malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// parseProductFilter reads ?categoryId=&q=
func parseProductFilter(c *gin.Context) (repository.ProductFilter, bool) {
	filter := repository.ProductFilter{Search: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Categoría inválida")
			return filter, false
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	return filter, true
}
