package models

import "time"

// Review is a purchase-gated product review. Creation requires a delivered
// order of the reviewing user containing the product, and only one review per
// (user, product) pair is allowed.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index:idx_review_user_product;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index:idx_review_user_product;type:varchar(36)"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment" validate:"omitempty,max=1000"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
