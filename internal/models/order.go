package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values for an order.
const (
	PaymentPending   = "Pending"
	PaymentPaid      = "Paid"
	PaymentCancelled = "Cancelled"
)

// Delivery status values for an order.
const (
	DeliveryPending   = "Pending"
	DeliveryShipped   = "Shipped"
	DeliveryDelivered = "Delivered"
	DeliveryCancelled = "Cancelled"
)

// Order is the customer-facing record of a completed checkout. Orders are
// never deleted; a checkout that fails after the order record was created
// marks it Cancelled instead, and cancelled orders are hidden from user
// listings.
type Order struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID              string    `json:"user_id" gorm:"index;type:varchar(36)"`
	PaymentMethod       string    `json:"payment_method"`
	DeliveryAddress     string    `json:"delivery_address"`
	PaymentStatus       string    `json:"payment_status"`
	DeliveryStatus      string    `json:"delivery_status"`
	PlacedAt            time.Time `json:"placed_at"`
	EstimatedDeliveryAt time.Time `json:"estimated_delivery_at"`
	gorm.Model          `json:"-"`
}

// OrderLine is one reserved cart line attached to an order. A line is only
// written after the matching stock reservation succeeded.
type OrderLine struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string  `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID  uint    `json:"product_id"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	gorm.Model `json:"-"`
}

// Cancelled reports whether the order was voided by a failed checkout.
func (o *Order) Cancelled() bool {
	return o.PaymentStatus == PaymentCancelled
}
