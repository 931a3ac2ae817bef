package repositories

import (
	"sync"

	"kasir/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart       // keyed by user ID
	items map[string][]models.CartItem // keyed by cart ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
		items: make(map[string][]models.CartItem),
	}
}

// GetOrCreateCart returns the user's cart, creating one if needed.
func (r *MockCartRepository) GetOrCreateCart(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		return &cart, nil
	}
	cart := models.Cart{ID: uuid.New().String(), CreatedBy: userID}
	r.carts[userID] = cart
	return &cart, nil
}

// ListItems returns all lines in a cart.
func (r *MockCartRepository) ListItems(cartID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, len(r.items[cartID]))
	copy(items, r.items[cartID])
	return items, nil
}

// GetItem returns a single cart line by product.
func (r *MockCartRepository) GetItem(cartID string, productID uint) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[cartID] {
		if item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, ErrCartItemNotFound
}

// SaveItem inserts or updates a cart line.
func (r *MockCartRepository) SaveItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	lines := r.items[item.CartID]
	for i, existing := range lines {
		if existing.ProductID == item.ProductID {
			lines[i] = *item
			return nil
		}
	}
	r.items[item.CartID] = append(lines, *item)
	return nil
}

// RemoveItem deletes a single line from a cart.
func (r *MockCartRepository) RemoveItem(cartID string, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := r.items[cartID]
	for i, item := range lines {
		if item.ProductID == productID {
			r.items[cartID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// ClearItems deletes every line in a cart.
func (r *MockCartRepository) ClearItems(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, cartID)
	return nil
}

// DeleteCart removes the user's cart and its lines.
func (r *MockCartRepository) DeleteCart(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return ErrCartItemNotFound
	}
	delete(r.items, cart.ID)
	delete(r.carts, userID)
	return nil
}
