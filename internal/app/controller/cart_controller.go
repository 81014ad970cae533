package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cixi/storefront-backend/internal/app/service"
	"github.com/cixi/storefront-backend/internal/cart"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/internal/session"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ProductID interface{} `json:"productId"`
}

type UpdateCartItemRequest struct {
	Quantity interface{} `json:"quantity"`
}

type AddCartKitRequest struct {
	KitID interface{} `json:"kitId"`
}

type CartLineResponse struct {
	cart.LineItem
	LineTotal float64 `json:"lineTotal"`
}

type CartKitResponse struct {
	cart.KitItem
	Total float64 `json:"total"`
}

type CartResponse struct {
	SimpleItems []CartLineResponse `json:"simpleItems"`
	KitItems    []CartKitResponse  `json:"kitItems"`
	Total       float64            `json:"total"`
	Count       int                `json:"count"`
}

// NewCartResponse derives every total from the stored snapshots
func NewCartResponse(c *cart.Cart) CartResponse {
	resp := CartResponse{
		SimpleItems: []CartLineResponse{},
		KitItems:    []CartKitResponse{},
		Total:       c.Total(),
		Count:       c.Count(),
	}
	for _, line := range c.Lines() {
		resp.SimpleItems = append(resp.SimpleItems, CartLineResponse{LineItem: line, LineTotal: line.Total()})
	}
	for _, kit := range c.KitItems {
		resp.KitItems = append(resp.KitItems, CartKitResponse{KitItem: kit, Total: kit.Total()})
	}
	return resp
}

// respond writes the cart, or maps err while still returning the current cart when there is one
func (ctrl *CartController) respond(c *gin.Context, current *cart.Cart, err error) {
	if err == nil {
		c.JSON(http.StatusOK, NewCartResponse(current))
		return
	}

	log := middleware.GetLoggerFromContext(c)
	status, code, message := http.StatusInternalServerError, apperrors.InternalServerError, "No se pudo actualizar el carrito"
	switch {
	case errors.Is(err, cart.ErrNoStock):
		status, code, message = http.StatusConflict, apperrors.CartNoStock, "Sin stock disponible"
	case errors.Is(err, cart.ErrStockLimit):
		status, code, message = http.StatusConflict, apperrors.CartStockLimit, "Alcanzaste el stock disponible"
	case errors.Is(err, cart.ErrKitEmpty):
		status, code, message = http.StatusBadRequest, apperrors.CartKitEmpty, "Selecciona al menos un producto"
	case errors.Is(err, cart.ErrKitNameRequired):
		status, code, message = http.StatusBadRequest, apperrors.CartKitNameRequired, "Nombre requerido"
	case errors.Is(err, cart.ErrKitItemInvalid):
		status, code, message = http.StatusBadRequest, apperrors.CartKitItemInvalid, "Producto inválido en el kit"
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrKitProductNotFound):
		status, code, message = http.StatusNotFound, apperrors.ProductNotFound, "Producto no encontrado"
	case errors.Is(err, service.ErrKitNotFound):
		status, code, message = http.StatusNotFound, apperrors.KitNotFound, "Kit no encontrado"
	case errors.Is(err, service.ErrLoginRequired):
		status, code, message = http.StatusUnauthorized, apperrors.AuthUnauthorized, "Debes iniciar sesión para crear un kit"
	case errors.Is(err, session.ErrInvalidID):
		status, code, message = http.StatusBadRequest, apperrors.ValidationInvalidID, "Sesión de carrito inválida"
	default:
		log.Error("Cart operation failed", err)
	}

	if current == nil {
		apperrors.RespondWithError(c, status, code, message)
		return
	}
	log.Info("Cart operation rejected", map[string]interface{}{
		"reason": cart.Reason(err),
	})
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
		"cart":  NewCartResponse(current),
	})
}

// GetCart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	current, err := ctrl.cartService.GetCart(c.Request.Context(), middleware.GetCartSessionID(c))
	if err != nil {
		ctrl.respond(c, nil, err)
		return
	}
	ctrl.respond(c, current, nil)
}

// AddItem adds one unit of a product
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	_ = c.ShouldBindJSON(&req)
	productID, ok := util.ToID(req.ProductID)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Producto inválido")
		return
	}

	current, err := ctrl.cartService.AddItem(c.Request.Context(), middleware.GetCartSessionID(c), productID)
	ctrl.respond(c, current, err)
}

// UpdateItem sets a line quantity; anything non-numeric becomes 1
// PUT /api/v1/cart/items/:productId
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	_ = c.ShouldBindJSON(&req)

	current, err := ctrl.cartService.UpdateItemQuantity(c.Request.Context(), middleware.GetCartSessionID(c), productID, req.Quantity)
	ctrl.respond(c, current, err)
}

// RemoveItem
// DELETE /api/v1/cart/items/:productId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	current, err := ctrl.cartService.RemoveItem(c.Request.Context(), middleware.GetCartSessionID(c), productID)
	ctrl.respond(c, current, err)
}

// AddKit adds a persisted kit
// POST /api/v1/cart/kits
func (ctrl *CartController) AddKit(c *gin.Context) {
	var req AddCartKitRequest
	_ = c.ShouldBindJSON(&req)
	kitID, ok := util.ToID(req.KitID)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Kit inválido")
		return
	}

	current, err := ctrl.cartService.AddKit(c.Request.Context(), middleware.GetCartSessionID(c), kitID)
	ctrl.respond(c, current, err)
}

// AddCustomKit adds a kit composed by the shopper; login required
// POST /api/v1/cart/custom-kits
func (ctrl *CartController) AddCustomKit(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		apperrors.Unauthorized(c, "Debes iniciar sesión para crear un kit")
		return
	}

	var req service.CustomKitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	current, err := ctrl.cartService.AddCustomKit(c.Request.Context(), middleware.GetCartSessionID(c), identity, req)
	ctrl.respond(c, current, err)
}

// RemoveKit drops the kit at the given position
// DELETE /api/v1/cart/kits/:index
func (ctrl *CartController) RemoveKit(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Índice inválido")
		return
	}
	current, err := ctrl.cartService.RemoveKit(c.Request.Context(), middleware.GetCartSessionID(c), index)
	ctrl.respond(c, current, err)
}

// ClearCart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	current, err := ctrl.cartService.ClearCart(c.Request.Context(), middleware.GetCartSessionID(c))
	ctrl.respond(c, current, err)
}
