package services

import (
	"context"

	"kasir/internal/models"
	"kasir/internal/repositories"
)

// InventoryService owns the stock side of the reservation contract. The
// atomicity of Reserve lives in the repository's conditional decrement, so
// two concurrent checkouts on the same product cannot both pass the stock
// check. It satisfies StockReserver, which lets a single-binary deployment
// wire the coordinator straight to it instead of going through HTTP.
type InventoryService struct {
	repo repositories.ProductRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(repo repositories.ProductRepository) *InventoryService {
	return &InventoryService{
		repo: repo,
	}
}

// Reserve atomically decrements stock for a product. Returns
// repositories.ErrInsufficientStock when stock cannot cover the quantity and
// repositories.ErrProductNotFound when the product does not exist.
func (s *InventoryService) Reserve(_ context.Context, productID uint, quantity int) error {
	return s.repo.DecrementStock(productID, quantity)
}

// Release returns previously reserved stock to a product. It is the
// compensating action for Reserve.
func (s *InventoryService) Release(_ context.Context, productID uint, quantity int) error {
	return s.repo.IncrementStock(productID, quantity)
}

// GetAllProducts retrieves all products.
func (s *InventoryService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *InventoryService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *InventoryService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}
