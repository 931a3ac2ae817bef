package repositories

import (
	"fmt"

	"kasir/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateCart returns the user's active cart, creating one if needed.
func (r *GORMCartRepository) GetOrCreateCart(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.First(&cart, "created_by = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up cart for user %s: %w", userID, err)
	}

	cart = models.Cart{ID: uuid.New().String(), CreatedBy: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// ListItems returns all lines in a cart.
func (r *GORMCartRepository) ListItems(cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Find(&items, "cart_id = ?", cartID).Error; err != nil {
		return nil, fmt.Errorf("failed to list items for cart %s: %w", cartID, err)
	}
	return items, nil
}

// GetItem returns a single cart line by product.
func (r *GORMCartRepository) GetItem(cartID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get item for cart %s: %w", cartID, err)
	}
	return &item, nil
}

// SaveItem inserts or updates a cart line.
func (r *GORMCartRepository) SaveItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// RemoveItem deletes a single line from a cart.
func (r *GORMCartRepository) RemoveItem(cartID string, productID uint) error {
	res := r.db.Delete(&models.CartItem{}, "cart_id = ? AND product_id = ?", cartID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove item from cart %s: %w", cartID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearItems deletes every line in a cart. The cart record itself survives.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

// DeleteCart removes the user's cart and all of its lines.
func (r *GORMCartRepository) DeleteCart(userID string) error {
	var cart models.Cart
	err := r.db.First(&cart, "created_by = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("failed to look up cart for user %s: %w", userID, err)
	}
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
		return fmt.Errorf("failed to delete items for cart %s: %w", cart.ID, err)
	}
	if err := r.db.Delete(&cart).Error; err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", cart.ID, err)
	}
	return nil
}
