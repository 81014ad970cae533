package model

import (
	"time"

	"github.com/cixi/storefront-backend/internal/cart"
)

// Kit is an admin-curated bundle of products
type Kit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	PaperType *string   `gorm:"size:50" json:"paperType"`
	Items     []KitItem `gorm:"foreignKey:KitID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Sum of price x quantity over Items, without paper fee
	Total float64 `gorm:"-" json:"total"`
}

func (Kit) TableName() string {
	return "kits"
}

type KitItem struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	KitID     uint     `gorm:"not null;index" json:"kitId"`
	ProductID uint     `gorm:"not null;index" json:"productId"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (KitItem) TableName() string {
	return "kit_items"
}

// Lines snapshots the kit for the cart using current product data
func (k *Kit) Lines() []cart.KitLine {
	lines := make([]cart.KitLine, 0, len(k.Items))
	for _, it := range k.Items {
		line := cart.KitLine{ProductID: it.ProductID, Quantity: it.Quantity}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.UnitPrice = it.Product.Price
		}
		lines = append(lines, line)
	}
	return lines
}

// ComputeTotal refreshes Total from the preloaded products
func (k *Kit) ComputeTotal() {
	total := 0.0
	for _, line := range k.Lines() {
		total += line.UnitPrice * float64(line.Quantity)
	}
	k.Total = total
}
