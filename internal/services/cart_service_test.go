package services_test

import (
	"testing"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*services.CartService, *repositories.MockProductRepository) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	require.NoError(t, products.Create(&models.Product{ID: 1, Name: "Keyboard", Price: 75.0, Stock: 25}))
	return services.NewCartService(repositories.NewMockCartRepository(), products), products
}

func TestCartService_AddItemCapturesCurrentPrice(t *testing.T) {
	service, products := newCartService(t)

	item, err := service.AddItem("user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 75.0, item.Price)

	// A later price change does not touch the captured line price.
	product, err := products.GetByID(1)
	require.NoError(t, err)
	product.Price = 99.0
	require.NoError(t, products.Update(product))

	items, err := service.ListItems("user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 75.0, items[0].Price)
}

func TestCartService_AddItemMergesExistingLine(t *testing.T) {
	service, _ := newCartService(t)

	_, err := service.AddItem("user-1", 1, 2)
	require.NoError(t, err)
	item, err := service.AddItem("user-1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := service.ListItems("user-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	service, _ := newCartService(t)

	_, err := service.AddItem("user-1", 42, 1)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestCartService_IncreaseAndDecrease(t *testing.T) {
	service, _ := newCartService(t)

	_, err := service.AddItem("user-1", 1, 1)
	require.NoError(t, err)

	item, err := service.IncreaseItem("user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = service.DecreaseItem("user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	// Decreasing a single-unit line removes it.
	_, err = service.DecreaseItem("user-1", 1)
	require.NoError(t, err)
	items, err := service.ListItems("user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_RemoveMissingItem(t *testing.T) {
	service, _ := newCartService(t)

	err := service.RemoveItem("user-1", 1)
	assert.ErrorIs(t, err, repositories.ErrCartItemNotFound)
}
