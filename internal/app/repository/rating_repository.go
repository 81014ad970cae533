package repository

import (
	"time"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert stores value for (userID, productID), replacing a previous one
	Upsert(userID, productID uint, value int) (*model.Rating, error)
	FindValuesByProduct(productID uint) ([]int, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(userID, productID uint, value int) (*model.Rating, error) {
	logger.Debug("Upserting rating", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"value":      value,
	})

	now := time.Now()
	rating := &model.Rating{
		UserID:    userID,
		ProductID: productID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		logger.Error("Failed to upsert rating", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	var stored model.Rating
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ratingRepository) FindValuesByProduct(productID uint) ([]int, error) {
	var values []int
	if err := r.db.Model(&model.Rating{}).
		Where("product_id = ?", productID).
		Pluck("value", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
