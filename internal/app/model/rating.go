package model

import "time"

// Rating is one user's score for one product; (UserID, ProductID) is unique.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_ratings_user_product;index" json:"productId"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}
