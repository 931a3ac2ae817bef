package models

import "gorm.io/gorm"

// Product represents a product whose stock this service owns.
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Seller      string  `json:"seller" gorm:"type:varchar(36)"`
	gorm.Model  `json:"-"` // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
