package repositories

import (
	"sync"

	"kasir/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	lines  map[string][]models.OrderLine // keyed by order ID
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		lines:  make(map[string][]models.OrderLine),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders[order.ID] = *order
	return nil
}

// AddLine adds a new order line.
func (r *MockOrderRepository) AddLine(line *models.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	r.lines[line.OrderID] = append(r.lines[line.OrderID], *line)
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// ListLines returns the lines belonging to an order.
func (r *MockOrderRepository) ListLines(orderID string) ([]models.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]models.OrderLine, len(r.lines[orderID]))
	copy(lines, r.lines[orderID])
	return lines, nil
}

// ListByUser returns all non-cancelled orders for a user.
func (r *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID && !order.Cancelled() {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// UpdateStatus updates both status columns of an order.
func (r *MockOrderRepository) UpdateStatus(id string, paymentStatus, deliveryStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.PaymentStatus = paymentStatus
	order.DeliveryStatus = deliveryStatus
	r.orders[id] = order
	return nil
}
