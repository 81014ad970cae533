package controller

import (
	"errors"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{
		ratingService: ratingService,
	}
}

// CreateRating upserts the caller's rating for a product. Identity is
// checked before the body is looked at.
// POST /api/v1/ratings/create
func (ctrl *RatingController) CreateRating(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity := middleware.GetIdentity(c)
	if identity == nil {
		apperrors.Unauthorized(c, "Debes iniciar sesión para calificar")
		return
	}

	var req service.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("Unreadable rating body", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rating, err := ctrl.ratingService.Rate(identity, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginRequired):
			apperrors.Unauthorized(c, "Debes iniciar sesión para calificar")
		case errors.Is(err, service.ErrInvalidRatingProduct):
			apperrors.BadRequest(c, apperrors.RatingInvalidProduct, "Producto inválido")
		case errors.Is(err, service.ErrInvalidRatingValue):
			apperrors.BadRequest(c, apperrors.RatingInvalidValue, "Valor inválido")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
		default:
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.RatingSaveFailed, "Error al guardar rating")
		}
		return
	}

	c.JSON(http.StatusOK, rating)
}

// MethodNotAllowed answers every other method on the rating path
func (ctrl *RatingController) MethodNotAllowed(c *gin.Context) {
	apperrors.MethodNotAllowed(c, http.MethodPost)
}
