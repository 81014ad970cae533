package repository

import (
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing. Search matches name, description
// or category name, case-insensitively.
type ProductFilter struct {
	CategoryID *uint
	Search     string
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) (map[uint]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Omit("Category", "Ratings").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	if err := r.db.Preload("Category").First(product, product.ID).Error; err != nil {
		return err
	}
	product.Summarize()
	return nil
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Category").
		Preload("Ratings")
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_id": filter.CategoryID,
		"search":      filter.Search,
	})

	query := r.baseQuery()
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(categories.name) LIKE ?",
				pattern, pattern, pattern)
	}

	var products []model.Product
	if err := query.Order("products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err)
		return nil, err
	}
	for i := range products {
		products[i].Summarize()
	}

	logger.Debug("Products found", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		return nil, err
	}
	product.Summarize()
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) (map[uint]model.Product, error) {
	found := make(map[uint]model.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Omit("Category", "Ratings").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// Delete removes the product with its ratings, comments and kit entries
func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&model.KitItem{}, &model.Rating{}, &model.Comment{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
