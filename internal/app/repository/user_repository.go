package repository

import (
	"errors"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	// PromoteAdmin sets role admin on the user with email, creating it from
	// fallback when missing. It reports whether a user was created.
	PromoteAdmin(email string, fallback *model.User) (*model.User, bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email":    user.Email,
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Debug("User not found by ID", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Debug("User not found by email", map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) PromoteAdmin(email string, fallback *model.User) (*model.User, bool, error) {
	var (
		user    model.User
		created bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = *fallback
			user.Email = email
			user.Role = model.RoleAdmin
			if user.Username == "" {
				user.Username, _, _ = strings.Cut(email, "@")
			}
			created = true
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}
		updates := map[string]interface{}{"role": model.RoleAdmin}
		if fallback.Username != "" {
			updates["username"] = fallback.Username
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, user.ID).Error
	})
	if err != nil {
		logger.Error("Failed to promote user to admin", err, map[string]interface{}{
			"email": email,
		})
		return nil, false, err
	}

	logger.Debug("User promoted to admin", map[string]interface{}{
		"user_id": user.ID,
		"created": created,
	})
	return &user, created, nil
}
