package repository

import (
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByProduct(productID uint) ([]model.Comment, error)
	FindByID(id uint) (*model.Comment, error)
	Delete(id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"product_id": comment.ProductID,
		"user_id":    comment.UserID,
	})
	return r.db.Omit("User").Create(comment).Error
}

// FindByProduct lists comments newest first
func (r *commentRepository) FindByProduct(productID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list comments", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(id uint) error {
	logger.Debug("Deleting comment from database", map[string]interface{}{
		"comment_id": id,
	})
	return r.db.Delete(&model.Comment{}, id).Error
}
