package service

import (
	"errors"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryExists       = errors.New("category already exists")
)

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
	RenameCategory(id uint, name string) (*model.Category, error)
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// nameTaken reports whether another category already uses name, ignoring case
func (s *categoryService) nameTaken(name string, exceptID uint) (bool, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *categoryService) CreateCategory(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	taken, err := s.nameTaken(name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Category already exists", map[string]interface{}{
			"name": name,
		})
		return nil, ErrCategoryExists
	}

	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        name,
	})
	return category, nil
}

func (s *categoryService) RenameCategory(id uint, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category, err := s.categoryRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryExists
	}

	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	logger.Info("Category renamed", map[string]interface{}{
		"category_id": id,
		"name":        name,
	})
	return category, nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	err := s.categoryRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
