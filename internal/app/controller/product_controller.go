package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductRequest is the admin payload. categoryId may be omitted (unchanged),
// null (detach) or an id.
type ProductRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Stock       *int            `json:"stock"`
	Image       *string         `json:"image"`
	CategoryID  json.RawMessage `json:"categoryId"`
}

var errInvalidCategoryID = errors.New("invalid category id")

func (r ProductRequest) toInput() (service.ProductInput, error) {
	input := service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Image:       r.Image,
	}

	raw := bytes.TrimSpace(r.CategoryID)
	switch {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		input.ClearCategory = true
	default:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return input, errInvalidCategoryID
		}
		id, ok := util.ToID(v)
		if !ok {
			return input, errInvalidCategoryID
		}
		input.CategoryID = &id
	}
	return input, nil
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
	case errors.Is(err, service.ErrProductNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Nombre requerido")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.ProductInvalid, "Precio inválido")
	case errors.Is(err, service.ErrInvalidStock):
		apperrors.BadRequest(c, apperrors.ProductInvalid, "Stock inválido")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Categoría no encontrada")
	default:
		middleware.GetLoggerFromContext(c).Error("Product operation failed", err, map[string]interface{}{
			"operation": context,
		})
		info := apperrors.ParseError(err, context)
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
	}
}

// bindProduct decodes the payload, answering 400 on failure
func bindProduct(c *gin.Context) (service.ProductInput, bool) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return service.ProductInput{}, false
	}
	input, err := req.toInput()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Categoría inválida")
		return input, false
	}
	return input, true
}

// ListProducts returns the catalog, optionally filtered
// GET /api/v1/products?categoryId=&q=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter, ok := parseProductFilter(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		apperrors.InternalError(c, "No se pudieron cargar los productos")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns a product with its rating summary
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product (admin)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	input, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		ctrl.respondProductError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update (admin)
// PATCH /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, input)
	if err != nil {
		ctrl.respondProductError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product with its ratings, comments and kit entries (admin)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondProductError(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}
