package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product categories. The set is closed; anything else is rejected at the
// handler boundary.
const (
	CategoryMinifigure = "Minifigure"
	CategorySet        = "Set"
	CategoryPiece      = "Piece"
)

// ValidCategory reports whether category is one of the known product categories.
func ValidCategory(category string) bool {
	switch category {
	case CategoryMinifigure, CategorySet, CategoryPiece:
		return true
	}
	return false
}

// Product represents a product in the store. Stock is the only field mutated
// outside of admin edits (decremented by the order workflow).
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Category    string         `json:"category" gorm:"type:varchar(20)" validate:"required,oneof=Minifigure Set Piece"`
	Images      datatypes.JSON `json:"images" gorm:"type:json"` // array of image URLs
	PieceCount  int            `json:"piece_count" validate:"gte=0"`
	gorm.Model                 // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
