package service

import (
	"errors"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/cixi/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrKitNotFound        = errors.New("kit not found")
	ErrKitNameRequired    = errors.New("kit name is required")
	ErrKitItemsRequired   = errors.New("kit needs at least one product")
	ErrKitProductNotFound = errors.New("kit references an unknown product")
	ErrInvalidPaperType   = errors.New("unknown paper type")
)

type KitItemInput struct {
	ProductID interface{} `json:"productId"`
	Quantity  interface{} `json:"quantity"`
}

type KitInput struct {
	Name      string         `json:"name"`
	PaperType *string        `json:"paperType"`
	Items     []KitItemInput `json:"items"`
}

type KitService interface {
	ListKits() ([]model.Kit, error)
	GetKitByID(id uint) (*model.Kit, error)
	CreateKit(input KitInput) (*model.Kit, error)
	UpdateKit(id uint, input KitInput) (*model.Kit, error)
	DeleteKit(id uint) error
	PaperTypes() cart.PaperSurcharges
}

type kitService struct {
	kitRepo     repository.KitRepository
	productRepo repository.ProductRepository
	surcharges  cart.PaperSurcharges
	notifier    CatalogNotifier
}

func NewKitService(
	kitRepo repository.KitRepository,
	productRepo repository.ProductRepository,
	surcharges cart.PaperSurcharges,
	notifier CatalogNotifier,
) KitService {
	return &kitService{
		kitRepo:     kitRepo,
		productRepo: productRepo,
		surcharges:  surcharges,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *kitService) PaperTypes() cart.PaperSurcharges {
	return s.surcharges
}

func (s *kitService) ListKits() ([]model.Kit, error) {
	return s.kitRepo.FindAll()
}

func (s *kitService) GetKitByID(id uint) (*model.Kit, error) {
	kit, err := s.kitRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKitNotFound
	}
	if err != nil {
		return nil, err
	}
	return kit, nil
}

// build validates input into an unsaved kit. Quantities are clamped to at
// least 1 and repeated products are merged.
func (s *kitService) build(input KitInput) (*model.Kit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrKitNameRequired
	}

	var paperType *string
	if input.PaperType != nil {
		if p := strings.TrimSpace(*input.PaperType); p != "" {
			if !s.surcharges.Has(p) {
				return nil, ErrInvalidPaperType
			}
			paperType = &p
		}
	}

	quantities := map[uint]int{}
	var order []uint
	for _, in := range input.Items {
		id, ok := util.ToID(in.ProductID)
		if !ok {
			return nil, ErrKitProductNotFound
		}
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
		}
		quantities[id] += cart.ClampAtLeastOne(util.ToNumberOrNaN(in.Quantity))
	}
	if len(order) == 0 {
		return nil, ErrKitItemsRequired
	}

	found, err := s.productRepo.FindByIDs(order)
	if err != nil {
		return nil, err
	}
	kit := &model.Kit{Name: name, PaperType: paperType}
	for _, id := range order {
		if _, ok := found[id]; !ok {
			logger.Warn("Kit references unknown product", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrKitProductNotFound
		}
		kit.Items = append(kit.Items, model.KitItem{ProductID: id, Quantity: quantities[id]})
	}
	return kit, nil
}

func (s *kitService) CreateKit(input KitInput) (*model.Kit, error) {
	kit, err := s.build(input)
	if err != nil {
		return nil, err
	}
	if err := s.kitRepo.Create(kit); err != nil {
		logger.Error("Failed to create kit", err, map[string]interface{}{
			"name": kit.Name,
		})
		return nil, err
	}

	created, err := s.GetKitByID(kit.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("Kit created", map[string]interface{}{
		"kit_id": created.ID,
		"items":  len(created.Items),
	})
	s.notifier.Publish(EventKitUpdated, created)
	return created, nil
}

func (s *kitService) UpdateKit(id uint, input KitInput) (*model.Kit, error) {
	kit, err := s.build(input)
	if err != nil {
		return nil, err
	}
	kit.ID = id

	err = s.kitRepo.Replace(kit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKitNotFound
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.GetKitByID(id)
	if err != nil {
		return nil, err
	}
	logger.Info("Kit updated", map[string]interface{}{
		"kit_id": id,
	})
	s.notifier.Publish(EventKitUpdated, updated)
	return updated, nil
}

func (s *kitService) DeleteKit(id uint) error {
	err := s.kitRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrKitNotFound
	}
	if err != nil {
		logger.Error("Failed to delete kit", err, map[string]interface{}{
			"kit_id": id,
		})
		return err
	}
	logger.Info("Kit deleted", map[string]interface{}{
		"kit_id": id,
	})
	s.notifier.Publish(EventKitDeleted, map[string]interface{}{"kitId": id})
	return nil
}
