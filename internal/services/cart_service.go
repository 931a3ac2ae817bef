package services

import (
	"fmt"

	"kasir/internal/models"
	"kasir/internal/repositories"
)

// CartService handles business logic for the user's active cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListItems returns the lines in the user's active cart.
func (s *CartService) ListItems(userID string) ([]models.CartItem, error) {
	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.ListItems(cart.ID)
}

// AddItem adds quantity of a product to the user's cart, capturing the
// product's current price. Adding an already-present product increases its
// quantity instead of creating a second line.
func (s *CartService) AddItem(userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err == repositories.ErrCartItemNotFound {
		item = &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Price:     product.Price,
			Quantity:  quantity,
		}
	} else if err != nil {
		return nil, err
	} else {
		item.Quantity += quantity
	}

	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// IncreaseItem bumps the quantity of a cart line by one.
func (s *CartService) IncreaseItem(userID string, productID uint) (*models.CartItem, error) {
	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	item.Quantity++
	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DecreaseItem lowers the quantity of a cart line by one, removing the line
// entirely when it would reach zero.
func (s *CartService) DecreaseItem(userID string, productID uint) (*models.CartItem, error) {
	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item.Quantity > 1 {
		item.Quantity--
		if err := s.cartRepo.SaveItem(item); err != nil {
			return nil, err
		}
		return item, nil
	}
	if err := s.cartRepo.RemoveItem(cart.ID, productID); err != nil {
		return nil, err
	}
	item.Quantity = 0
	return item, nil
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(userID string, productID uint) error {
	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.RemoveItem(cart.ID, productID)
}

// DeleteCart removes the user's cart and all of its lines.
func (s *CartService) DeleteCart(userID string) error {
	return s.cartRepo.DeleteCart(userID)
}
