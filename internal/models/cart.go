package models

import "gorm.io/gorm"

// Cart is a user's active shopping cart. Each user has at most one.
type Cart struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CreatedBy  string `json:"created_by" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	gorm.Model `json:"-"`
}

// CartItem is a single line in a cart. Price is captured at the moment the
// item is added, so checkout charges the price the customer saw.
type CartItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID     string  `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID  uint    `json:"product_id" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	Price      float64 `json:"price"`
	gorm.Model `json:"-"`
}
