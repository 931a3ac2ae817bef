package repositories

import (
	"errors"

	"kasir/internal/models"
)

// Errors returned by product repositories. Services translate these into
// HTTP statuses and per-line checkout failures.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
)

// ProductRepository defines the interface for product data access.
// DecrementStock must be atomic: the stock check and the decrement happen
// under a single mutation so concurrent checkouts cannot both pass the check.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	DecrementStock(id uint, quantity int) error
	IncrementStock(id uint, quantity int) error
}
