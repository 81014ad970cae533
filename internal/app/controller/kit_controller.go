package controller

import (
	"errors"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type KitController struct {
	kitService service.KitService
}

func NewKitController(kitService service.KitService) *KitController {
	return &KitController{
		kitService: kitService,
	}
}

// PaperTypeResponse is one selectable paper with its kit surcharge
type PaperTypeResponse struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

func respondKitError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrKitNotFound):
		apperrors.NotFound(c, apperrors.KitNotFound, "Kit no encontrado")
	case errors.Is(err, service.ErrKitNameRequired):
		apperrors.BadRequest(c, apperrors.KitNameRequired, "Nombre requerido")
	case errors.Is(err, service.ErrKitItemsRequired):
		apperrors.BadRequest(c, apperrors.KitItemsRequired, "Selecciona al menos un producto")
	case errors.Is(err, service.ErrKitProductNotFound):
		apperrors.BadRequest(c, apperrors.ProductNotFound, "Producto no encontrado")
	case errors.Is(err, service.ErrInvalidPaperType):
		apperrors.BadRequest(c, apperrors.KitInvalidPaperType, "Tipo de papel inválido")
	default:
		middleware.GetLoggerFromContext(c).Error("Kit operation failed", err, map[string]interface{}{
			"operation": context,
		})
		info := apperrors.ParseError(err, context)
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}

// ListKits
// GET /api/v1/kits
func (ctrl *KitController) ListKits(c *gin.Context) {
	kits, err := ctrl.kitService.ListKits()
	if err != nil {
		respondKitError(c, err, "list kits")
		return
	}
	c.JSON(http.StatusOK, kits)
}

// GetKit
// GET /api/v1/kits/:id
func (ctrl *KitController) GetKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	kit, err := ctrl.kitService.GetKitByID(id)
	if err != nil {
		respondKitError(c, err, "get kit")
		return
	}
	c.JSON(http.StatusOK, kit)
}

// CreateKit (admin)
// POST /api/v1/kits
func (ctrl *KitController) CreateKit(c *gin.Context) {
	var req service.KitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	kit, err := ctrl.kitService.CreateKit(req)
	if err != nil {
		respondKitError(c, err, "create kit")
		return
	}
	c.JSON(http.StatusCreated, kit)
}

// UpdateKit replaces name, paper type and items (admin)
// PATCH /api/v1/kits/:id
func (ctrl *KitController) UpdateKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.KitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	kit, err := ctrl.kitService.UpdateKit(id, req)
	if err != nil {
		respondKitError(c, err, "update kit")
		return
	}
	c.JSON(http.StatusOK, kit)
}

// DeleteKit (admin)
// DELETE /api/v1/kits/:id
func (ctrl *KitController) DeleteKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.kitService.DeleteKit(id); err != nil {
		respondKitError(c, err, "delete kit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Kit eliminado"})
}

// ListPaperTypes
// GET /api/v1/paper-types
func (ctrl *KitController) ListPaperTypes(c *gin.Context) {
	table := ctrl.kitService.PaperTypes()
	names := table.Names()
	out := make([]PaperTypeResponse, 0, len(names))
	for _, name := range names {
		out = append(out, PaperTypeResponse{Name: name, Fee: table[name]})
	}
	c.JSON(http.StatusOK, out)
}
