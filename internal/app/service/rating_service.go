package service

import (
	"errors"
	"math"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/cixi/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

var (
	ErrLoginRequired        = errors.New("login required")
	ErrInvalidRatingProduct = errors.New("invalid product id")
	ErrInvalidRatingValue   = errors.New("rating value must be an integer between 1 and 5")
	ErrRatingSaveFailed     = errors.New("failed to save rating")
)

// RatingRequest holds the raw decoded body; both fields may be numbers or
// numeric strings.
type RatingRequest struct {
	ProductID interface{} `json:"productId"`
	Value     interface{} `json:"value"`
}

// RatingUpdate is broadcast after a rating changes
type RatingUpdate struct {
	ProductID uint `json:"productId"`
	cart.RatingSummary
}

type RatingService interface {
	// Rate upserts the caller's rating. Checks run in order: identity,
	// product id, value, product existence, storage.
	Rate(identity *model.Identity, req RatingRequest) (*model.Rating, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	productRepo repository.ProductRepository
	notifier    CatalogNotifier
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	productRepo repository.ProductRepository,
	notifier CatalogNotifier,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		productRepo: productRepo,
		notifier:    notifierOrNoop(notifier),
	}
}

// ValidateRatingValue accepts whole numbers in [1, 5]
func ValidateRatingValue(raw interface{}) (int, error) {
	v, ok := util.ToNumber(raw)
	if !ok || v != math.Trunc(v) || v < MinRatingValue || v > MaxRatingValue {
		return 0, ErrInvalidRatingValue
	}
	return int(v), nil
}

func (s *ratingService) Rate(identity *model.Identity, req RatingRequest) (*model.Rating, error) {
	if identity == nil || identity.UserID == 0 {
		return nil, ErrLoginRequired
	}

	productID, ok := util.ToID(req.ProductID)
	if !ok {
		return nil, ErrInvalidRatingProduct
	}

	value, err := ValidateRatingValue(req.Value)
	if err != nil {
		logger.Warn("Rating rejected: invalid value", map[string]interface{}{
			"user_id":    identity.UserID,
			"product_id": productID,
			"value":      req.Value,
		})
		return nil, err
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to load product for rating", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrRatingSaveFailed
	}

	rating, err := s.ratingRepo.Upsert(identity.UserID, productID, value)
	if err != nil {
		logger.Error("Failed to save rating", err, map[string]interface{}{
			"user_id":    identity.UserID,
			"product_id": productID,
		})
		return nil, ErrRatingSaveFailed
	}

	logger.Info("Rating saved", map[string]interface{}{
		"user_id":    identity.UserID,
		"product_id": productID,
		"value":      value,
	})
	s.broadcast(productID)
	return rating, nil
}

// broadcast is best effort; a failure only leaves listeners stale
func (s *ratingService) broadcast(productID uint) {
	values, err := s.ratingRepo.FindValuesByProduct(productID)
	if err != nil {
		logger.Warn("Skipping rating broadcast", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return
	}
	s.notifier.Publish(EventProductRating, RatingUpdate{
		ProductID:     productID,
		RatingSummary: cart.AverageRating(values),
	})
}
