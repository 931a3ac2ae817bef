package services_test

import (
	"context"
	"fmt"
	"testing"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReserver wraps the in-memory product repository so tests can
// assert the exact sequence of reserve/release calls the coordinator makes.
type recordingReserver struct {
	repo   *repositories.MockProductRepository
	calls  []string
	failOn map[uint]error // forces a failure for a product, simulating a downstream fault
}

func newRecordingReserver(repo *repositories.MockProductRepository) *recordingReserver {
	return &recordingReserver{repo: repo, failOn: make(map[uint]error)}
}

func (r *recordingReserver) Reserve(_ context.Context, productID uint, quantity int) error {
	r.calls = append(r.calls, fmt.Sprintf("reserve:%d:%d", productID, quantity))
	if err, ok := r.failOn[productID]; ok {
		return err
	}
	return r.repo.DecrementStock(productID, quantity)
}

func (r *recordingReserver) Release(_ context.Context, productID uint, quantity int) error {
	r.calls = append(r.calls, fmt.Sprintf("release:%d:%d", productID, quantity))
	return r.repo.IncrementStock(productID, quantity)
}

type checkoutFixture struct {
	products *repositories.MockProductRepository
	carts    *repositories.MockCartRepository
	orders   *repositories.MockOrderRepository
	reserver *recordingReserver
	service  *services.CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository()
	reserver := newRecordingReserver(products)
	service := services.NewCheckoutService(carts, orders, reserver, repositories.NewMockIdempotencyStore(), nil, nil, 0)
	return &checkoutFixture{
		products: products,
		carts:    carts,
		orders:   orders,
		reserver: reserver,
		service:  service,
	}
}

func (f *checkoutFixture) seedProduct(t *testing.T, id uint, price float64, stock int) {
	t.Helper()
	err := f.products.Create(&models.Product{ID: id, Name: fmt.Sprintf("Product %d", id), Price: price, Stock: stock})
	require.NoError(t, err)
}

func (f *checkoutFixture) addToCart(t *testing.T, userID string, productID uint, quantity int, price float64) {
	t.Helper()
	cart, err := f.carts.GetOrCreateCart(userID)
	require.NoError(t, err)
	err = f.carts.SaveItem(&models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	})
	require.NoError(t, err)
}

func (f *checkoutFixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	product, err := f.products.GetByID(productID)
	require.NoError(t, err)
	return product.Stock
}

func (f *checkoutFixture) cartItems(t *testing.T, userID string) []models.CartItem {
	t.Helper()
	cart, err := f.carts.GetOrCreateCart(userID)
	require.NoError(t, err)
	items, err := f.carts.ListItems(cart.ID)
	require.NoError(t, err)
	return items
}

var validRequest = services.CheckoutRequest{
	PaymentMethod:   "credit_card",
	DeliveryAddress: "Jl. Merdeka 17, Jakarta",
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.addToCart(t, "user-1", 1, 2, 10.0)

	result, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	require.NoError(t, err)

	assert.Equal(t, "user-1", result.Order.UserID)
	assert.Equal(t, models.PaymentPending, result.Order.PaymentStatus)
	assert.Equal(t, models.DeliveryPending, result.Order.DeliveryStatus)
	assert.False(t, result.Idempotent)
	assert.True(t, result.Order.EstimatedDeliveryAt.After(result.Order.PlacedAt))

	require.Len(t, result.OrderLines, 1)
	assert.Equal(t, uint(1), result.OrderLines[0].ProductID)
	assert.Equal(t, 2, result.OrderLines[0].Quantity)
	assert.Equal(t, 10.0, result.OrderLines[0].Price)

	// Stock reserved, cart cleared, order visible to the user.
	assert.Equal(t, 3, f.stock(t, 1))
	assert.Empty(t, f.cartItems(t, "user-1"))
	orders, err := f.orders.ListByUser("user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckout_InsufficientStockFirstLineHaltsWalk(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 1)
	f.seedProduct(t, 2, 20.0, 7)
	f.addToCart(t, "user-1", 1, 2, 10.0)
	f.addToCart(t, "user-1", 2, 1, 20.0)

	before := f.cartItems(t, "user-1")

	_, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	var checkoutErr *services.CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	require.Len(t, checkoutErr.Errors, 1)
	assert.Contains(t, checkoutErr.Errors[0], "product 1")

	// The failing line halts the walk: product 2 was never attempted.
	assert.Equal(t, []string{"reserve:1:2"}, f.reserver.calls)
	assert.Equal(t, 1, f.stock(t, 1))
	assert.Equal(t, 7, f.stock(t, 2))

	// Cart untouched, no order visible.
	assert.Equal(t, before, f.cartItems(t, "user-1"))
	orders, err := f.orders.ListByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_CompensationReleasesReservedLines(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.seedProduct(t, 2, 20.0, 0)
	f.addToCart(t, "user-1", 1, 1, 10.0)
	f.addToCart(t, "user-1", 2, 1, 20.0)

	_, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	var checkoutErr *services.CheckoutError
	require.ErrorAs(t, err, &checkoutErr)

	// Line 1 reserved, line 2 failed, line 1 released again.
	assert.Equal(t, []string{"reserve:1:1", "reserve:2:1", "release:1:1"}, f.reserver.calls)
	assert.Equal(t, 5, f.stock(t, 1))
	assert.Equal(t, 0, f.stock(t, 2))

	assert.Len(t, f.cartItems(t, "user-1"), 2)
	orders, err := f.orders.ListByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_CompensationRunsInReverseOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.seedProduct(t, 2, 20.0, 5)
	f.seedProduct(t, 3, 30.0, 0)
	f.addToCart(t, "user-1", 1, 1, 10.0)
	f.addToCart(t, "user-1", 2, 2, 20.0)
	f.addToCart(t, "user-1", 3, 1, 30.0)

	_, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	var checkoutErr *services.CheckoutError
	require.ErrorAs(t, err, &checkoutErr)

	assert.Equal(t, []string{
		"reserve:1:1",
		"reserve:2:2",
		"reserve:3:1",
		"release:2:2",
		"release:1:1",
	}, f.reserver.calls)
	assert.Equal(t, 5, f.stock(t, 1))
	assert.Equal(t, 5, f.stock(t, 2))
}

func TestCheckout_DownstreamFailureTreatedAsLineFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.seedProduct(t, 2, 20.0, 5)
	f.addToCart(t, "user-1", 1, 1, 10.0)
	f.addToCart(t, "user-1", 2, 1, 20.0)
	f.reserver.failOn[2] = fmt.Errorf("inventory service unavailable: connection refused")

	_, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	var checkoutErr *services.CheckoutError
	require.ErrorAs(t, err, &checkoutErr)
	assert.Contains(t, checkoutErr.Errors[0], "unavailable")

	// The committed first line is released.
	assert.Equal(t, 5, f.stock(t, 1))
	assert.Len(t, f.cartItems(t, "user-1"), 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Empty(t, f.reserver.calls)
}

func TestCheckout_MissingFieldsRejectedBeforeAnyCall(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.addToCart(t, "user-1", 1, 1, 10.0)

	for _, req := range []services.CheckoutRequest{
		{PaymentMethod: "", DeliveryAddress: "somewhere"},
		{PaymentMethod: "credit_card", DeliveryAddress: ""},
	} {
		_, err := f.service.Checkout(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, services.ErrInvalidRequest)
	}
	assert.Empty(t, f.reserver.calls)
	assert.Equal(t, 5, f.stock(t, 1))
}

func TestCheckout_IdempotentRetryReturnsOriginalOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 5)
	f.addToCart(t, "user-1", 1, 2, 10.0)

	req := validRequest
	req.IdempotencyKey = "client-key-123"

	first, err := f.service.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, 1))

	// Same key again: the original order comes back, no new reservation.
	callsAfterFirst := len(f.reserver.calls)
	second, err := f.service.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, first.OrderLines, second.OrderLines)
	assert.Len(t, f.reserver.calls, callsAfterFirst)
	assert.Equal(t, 3, f.stock(t, 1))
}

func TestCheckout_DerivedKeyDeduplicatesSameCartState(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedProduct(t, 1, 10.0, 10)
	f.addToCart(t, "user-1", 1, 2, 10.0)

	first, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	require.NoError(t, err)

	// The successful checkout cleared the cart; rebuilding the identical
	// cart state derives the same key and replays the original order.
	f.addToCart(t, "user-1", 1, 2, 10.0)
	second, err := f.service.Checkout(context.Background(), "user-1", validRequest)
	require.NoError(t, err)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 8, f.stock(t, 1))
}
