package repositories

import (
	"errors"

	"kasir/internal/models"
)

// ErrCartItemNotFound is returned when a cart line does not exist.
var ErrCartItemNotFound = errors.New("item not found in cart")

// CartRepository defines the interface for cart data access. The checkout
// coordinator only ever calls GetOrCreateCart, ListItems and ClearItems; the
// remaining methods back the cart mutation endpoints.
type CartRepository interface {
	GetOrCreateCart(userID string) (*models.Cart, error)
	ListItems(cartID string) ([]models.CartItem, error)
	GetItem(cartID string, productID uint) (*models.CartItem, error)
	SaveItem(item *models.CartItem) error
	RemoveItem(cartID string, productID uint) error
	ClearItems(cartID string) error
	DeleteCart(userID string) error
}
