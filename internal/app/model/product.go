package model

import (
	"time"

	"github.com/cixi/storefront-backend/internal/cart"
)

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       int       `gorm:"default:0" json:"stock"`
	Image       string    `json:"image"`
	CategoryID  *uint     `gorm:"index" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Ratings []Rating `gorm:"foreignKey:ProductID" json:"-"`

	// Filled by Summarize from Ratings
	AverageRating float64       `gorm:"-" json:"averageRating"`
	RatingCount   int           `gorm:"-" json:"ratingCount"`
	RatingValues  []RatingValue `gorm:"-" json:"ratings"`
}

func (Product) TableName() string {
	return "products"
}

// RatingValue is the public part of a rating listed with a product
type RatingValue struct {
	Value int `json:"value"`
}

// Summarize computes the rating fields from the preloaded Ratings
func (p *Product) Summarize() {
	values := make([]int, len(p.Ratings))
	p.RatingValues = make([]RatingValue, len(p.Ratings))
	for i, r := range p.Ratings {
		values[i] = r.Value
		p.RatingValues[i] = RatingValue{Value: r.Value}
	}
	summary := cart.AverageRating(values)
	p.AverageRating = summary.Average
	p.RatingCount = summary.Count
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
