package services_test

import (
	"context"
	"sync"
	"testing"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_ReserveAndRelease(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	require.NoError(t, repo.Create(&models.Product{ID: 1, Name: "Laptop", Price: 1200, Stock: 5}))
	service := services.NewInventoryService(repo)
	ctx := context.Background()

	require.NoError(t, service.Reserve(ctx, 1, 3))
	product, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stock)

	// More than remains.
	err = service.Reserve(ctx, 1, 3)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// Compensation restores the stock.
	require.NoError(t, service.Release(ctx, 1, 3))
	product, err = repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestInventoryService_ReserveUnknownProduct(t *testing.T) {
	service := services.NewInventoryService(repositories.NewMockProductRepository())

	err := service.Reserve(context.Background(), 99, 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = service.Release(context.Background(), 99, 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

// Concurrent reservations on the same product must never commit more stock
// than exists: with stock 5 and 20 competing single-unit reservations,
// exactly 5 succeed and stock lands on zero.
func TestInventoryService_ConcurrentReservationsConserveStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	require.NoError(t, repo.Create(&models.Product{ID: 1, Name: "Laptop", Price: 1200, Stock: 5}))
	service := services.NewInventoryService(repo)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- service.Reserve(context.Background(), 1, 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, succeeded)

	product, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}
