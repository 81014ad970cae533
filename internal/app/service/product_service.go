package service

import (
	"errors"
	"math"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNameRequired = errors.New("product name is required")
	ErrInvalidPrice        = errors.New("price must be a non-negative number")
	ErrInvalidStock        = errors.New("stock must be a non-negative integer")
)

// ProductInput carries product fields; nil pointers are left untouched on update
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
	CategoryID  *uint    `json:"categoryId"`
	// ClearCategory detaches the product from its category
	ClearCategory bool `json:"-"`
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	notifier     CatalogNotifier
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	notifier CatalogNotifier,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		notifier:     notifierOrNoop(notifier),
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	product := &model.Product{}
	if input.Name == nil {
		return nil, ErrProductNameRequired
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	s.notifier.Publish(EventProductUpdated, product)
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	updated, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	s.notifier.Publish(EventProductUpdated, updated)
	return updated, nil
}

func (s *productService) apply(product *model.Product, input ProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrProductNameRequired
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price < 0 || math.IsNaN(*input.Price) || math.IsInf(*input.Price, 0) {
			return ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return ErrInvalidStock
		}
		product.Stock = *input.Stock
	}
	if input.Image != nil {
		product.Image = strings.TrimSpace(*input.Image)
	}
	switch {
	case input.ClearCategory:
		product.CategoryID = nil
		product.Category = nil
	case input.CategoryID != nil:
		category, err := s.categoryRepo.FindByID(*input.CategoryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return err
		}
		product.CategoryID = &category.ID
		product.Category = category
	}
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	err := s.productRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	s.notifier.Publish(EventProductDeleted, map[string]interface{}{"productId": id})
	return nil
}
