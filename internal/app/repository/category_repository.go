package repository

import (
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindOrCreateByName(name string) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindOrCreateByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where(model.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
		logger.Error("Failed to find or create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return r.db.Save(category).Error
}

// Delete detaches the category from its products, then removes it
func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
