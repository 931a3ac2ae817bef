package repositories

import (
	"errors"

	"kasir/internal/models"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access. Orders are
// never deleted: a failed checkout cancels the order via UpdateStatus, and
// ListByUser hides cancelled orders from customers.
type OrderRepository interface {
	Create(order *models.Order) error
	AddLine(line *models.OrderLine) error
	GetByID(id string) (*models.Order, error)
	ListLines(orderID string) ([]models.OrderLine, error)
	ListByUser(userID string) ([]models.Order, error)
	UpdateStatus(id string, paymentStatus, deliveryStatus string) error
}
