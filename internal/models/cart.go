package models

import "time"

// CartLine is a single line in a user's cart, stored in the secondary (cart)
// database. Identity for merge-on-add purposes is (UserID, ProductID): adding
// a product already in the cart sums the quantities instead of inserting a
// second row. Name, price and image are denormalized from the catalog at the
// time the line is added.
type CartLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index:idx_cart_user_product;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index:idx_cart_user_product;type:varchar(36)"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
