package db

import (
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Rating{},
		&model.Comment{},
		&model.Kit{},
		&model.KitItem{},
	}
}

// Migrate runs AutoMigrate for all models on conn
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
