package controller

import (
	"errors"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func respondCategoryError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Categoría no encontrada")
	case errors.Is(err, service.ErrCategoryNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Nombre requerido")
	case errors.Is(err, service.ErrCategoryExists):
		apperrors.Conflict(c, apperrors.CategoryNameExists, "La categoría ya existe")
	default:
		info := apperrors.ParseError(err, context)
		if info.Code == apperrors.CategoryNameExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		middleware.GetLoggerFromContext(c).Error("Category operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}

// ListCategories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		respondCategoryError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory (admin)
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.Name)
	if err != nil {
		respondCategoryError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// RenameCategory (admin)
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) RenameCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	category, err := ctrl.categoryService.RenameCategory(id, req.Name)
	if err != nil {
		respondCategoryError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory detaches its products first (admin)
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		respondCategoryError(c, err, "delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada"})
}
