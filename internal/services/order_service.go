package services

import (
	"kasir/internal/models"
	"kasir/internal/repositories"
)

// OrderService handles order queries. Order creation happens only through
// the checkout coordinator.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// ListOrdersByUser returns the user's orders. Orders cancelled by a failed
// checkout are excluded; they are not customer-facing truth.
func (s *OrderService) ListOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetOrderByID retrieves a single order with its lines.
func (s *OrderService) GetOrderByID(id string) (*models.Order, []models.OrderLine, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.orderRepo.ListLines(id)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}
