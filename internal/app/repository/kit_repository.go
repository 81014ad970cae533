package repository

import (
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type KitRepository interface {
	Create(kit *model.Kit) error
	FindAll() ([]model.Kit, error)
	FindByID(id uint) (*model.Kit, error)
	// Replace overwrites name, paper type and the full item list
	Replace(kit *model.Kit) error
	Delete(id uint) error
}

type kitRepository struct {
	db *gorm.DB
}

func NewKitRepository(db *gorm.DB) KitRepository {
	return &kitRepository{db: db}
}

func (r *kitRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Kit{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("kit_items.id ASC") }).
		Preload("Items.Product")
}

func (r *kitRepository) Create(kit *model.Kit) error {
	logger.Debug("Creating kit in database", map[string]interface{}{
		"name":  kit.Name,
		"items": len(kit.Items),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(kit).Error; err != nil {
			return err
		}
		return createKitItems(tx, kit)
	})
	if err != nil {
		logger.Error("Failed to create kit in database", err, map[string]interface{}{
			"name": kit.Name,
		})
		return err
	}
	return nil
}

func createKitItems(tx *gorm.DB, kit *model.Kit) error {
	for i := range kit.Items {
		kit.Items[i].ID = 0
		kit.Items[i].KitID = kit.ID
		if err := tx.Omit("Product").Create(&kit.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *kitRepository) FindAll() ([]model.Kit, error) {
	var kits []model.Kit
	if err := r.baseQuery().Order("kits.id ASC").Find(&kits).Error; err != nil {
		logger.Error("Failed to list kits", err)
		return nil, err
	}
	for i := range kits {
		kits[i].ComputeTotal()
	}
	return kits, nil
}

func (r *kitRepository) FindByID(id uint) (*model.Kit, error) {
	var kit model.Kit
	if err := r.baseQuery().First(&kit, id).Error; err != nil {
		return nil, err
	}
	kit.ComputeTotal()
	return &kit, nil
}

func (r *kitRepository) Replace(kit *model.Kit) error {
	logger.Debug("Replacing kit in database", map[string]interface{}{
		"kit_id": kit.ID,
		"items":  len(kit.Items),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Kit{}).Where("id = ?", kit.ID).Updates(map[string]interface{}{
			"name":       kit.Name,
			"paper_type": kit.PaperType,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("kit_id = ?", kit.ID).Delete(&model.KitItem{}).Error; err != nil {
			return err
		}
		return createKitItems(tx, kit)
	})
	if err != nil {
		logger.Error("Failed to replace kit in database", err, map[string]interface{}{
			"kit_id": kit.ID,
		})
		return err
	}
	return nil
}

func (r *kitRepository) Delete(id uint) error {
	logger.Debug("Deleting kit from database", map[string]interface{}{
		"kit_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kit_id = ?", id).Delete(&model.KitItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Kit{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
