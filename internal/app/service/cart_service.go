package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/cixi/storefront-backend/internal/session"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/cixi/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

// CustomKitInput is a shopper-built kit as sent by the client
type CustomKitInput struct {
	Name      string         `json:"name"`
	PaperType *string        `json:"paperType"`
	Items     []KitItemInput `json:"items"`
}

// CartService reads catalog data and applies cart operations to the cart
// owned by a session. Every mutation runs under the session lock on a copy
// of the stored cart; the copy replaces the stored cart only after a
// successful save.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uint) (*cart.Cart, error)
	UpdateItemQuantity(ctx context.Context, sessionID string, productID uint, raw interface{}) (*cart.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uint) (*cart.Cart, error)
	AddKit(ctx context.Context, sessionID string, kitID uint) (*cart.Cart, error)
	AddCustomKit(ctx context.Context, sessionID string, identity *model.Identity, input CustomKitInput) (*cart.Cart, error)
	RemoveKit(ctx context.Context, sessionID string, index int) (*cart.Cart, error)
	ClearCart(ctx context.Context, sessionID string) (*cart.Cart, error)
}

type cartService struct {
	store       session.Store
	locker      *session.Locker
	productRepo repository.ProductRepository
	kitRepo     repository.KitRepository
	surcharges  cart.PaperSurcharges
}

func NewCartService(
	store session.Store,
	locker *session.Locker,
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	surcharges cart.PaperSurcharges,
) CartService {
	return &cartService{
		store:       store,
		locker:      locker,
		productRepo: productRepo,
		kitRepo:     kitRepo,
		surcharges:  surcharges,
	}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// mutate applies op to a copy of the stored cart. On failure the stored
// cart is returned unchanged with the error.
func (s *cartService) mutate(ctx context.Context, sessionID string, op func(c *cart.Cart) error) (*cart.Cart, error) {
	unlock := s.locker.Lock(sessionID)
	defer unlock()

	current, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := op(next); err != nil {
		return current, err
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return current, err
	}
	return next, nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, productID uint) (*cart.Cart, error) {
	product, err := s.productRepo.FindByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	c, err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.AddSimpleItem(product.ID, product.Name, product.Price, product.Stock)
	})
	if reason := cart.Reason(err); reason != "" {
		logger.Info("Cart add rejected", map[string]interface{}{
			"product_id": productID,
			"reason":     reason,
			"stock":      product.Stock,
		})
	}
	return c, err
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, sessionID string, productID uint, raw interface{}) (*cart.Cart, error) {
	quantity := util.ToNumberOrNaN(raw)
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.UpdateSimpleItemQuantity(productID, quantity)
		return nil
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID uint) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveSimpleItem(productID)
		return nil
	})
}

func (s *cartService) AddKit(ctx context.Context, sessionID string, kitID uint) (*cart.Cart, error) {
	kit, err := s.kitRepo.FindByID(kitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKitNotFound
	}
	if err != nil {
		return nil, err
	}

	ref := cart.KitRef{ID: kit.ID, Name: kit.Name, Items: kit.Lines()}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.AddKitReference(ref)
	})
}

// AddCustomKit prices the kit from the catalog and the paper surcharge table
func (s *cartService) AddCustomKit(ctx context.Context, sessionID string, identity *model.Identity, input CustomKitInput) (*cart.Cart, error) {
	if identity == nil {
		return nil, ErrLoginRequired
	}

	var paperType *string
	if input.PaperType != nil {
		if p := strings.TrimSpace(*input.PaperType); p != "" {
			paperType = &p
		}
	}

	ids := make([]uint, 0, len(input.Items))
	for _, it := range input.Items {
		if id, ok := util.ToID(it.ProductID); ok {
			ids = append(ids, id)
		}
	}
	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	lines := make([]cart.KitLine, 0, len(input.Items))
	for _, it := range input.Items {
		id, _ := util.ToID(it.ProductID)
		line := cart.KitLine{ProductID: id, Quantity: wholeQuantity(it.Quantity)}
		if p, ok := products[id]; ok {
			line.Name = p.Name
			line.UnitPrice = p.Price
		} else if id != 0 {
			return nil, ErrKitProductNotFound
		}
		lines = append(lines, line)
	}

	kit := cart.CustomKit{
		Name:      input.Name,
		Items:     lines,
		PaperType: paperType,
		ExtraFee:  s.surcharges.Surcharge(paperType),
	}
	c, err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.AddCustomKit(kit)
	})
	if err == nil {
		logger.Info("Custom kit added to cart", map[string]interface{}{
			"user_id":   identity.UserID,
			"items":     len(lines),
			"extra_fee": kit.ExtraFee,
		})
	}
	return c, err
}

// wholeQuantity floors v; non-numeric input becomes 0 and is rejected by the cart
func wholeQuantity(v interface{}) int {
	f, ok := util.ToNumber(v)
	if !ok || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}

func (s *cartService) RemoveKit(ctx context.Context, sessionID string, index int) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveKitItem(index)
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}
