package repositories

import (
	"fmt"

	"kasir/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// AddLine persists a new order line.
func (r *GORMOrderRepository) AddLine(line *models.OrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to create order line: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// ListLines returns the lines belonging to an order.
func (r *GORMOrderRepository) ListLines(orderID string) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.db.Find(&lines, "order_id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to list lines for order %s: %w", orderID, err)
	}
	return lines, nil
}

// ListByUser returns all non-cancelled orders for a user.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Find(&orders, "user_id = ? AND payment_status <> ?", userID, models.PaymentCancelled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus updates both status columns of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, paymentStatus, deliveryStatus string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status":  paymentStatus,
		"delivery_status": deliveryStatus,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
