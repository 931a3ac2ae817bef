package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"sort"
	"time"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/pkg/metrics"
	"kasir/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// deliveryEstimate is added to the order placement time to compute the
// estimated delivery date.
const deliveryEstimate = 7 * 24 * time.Hour

// defaultCallTimeout bounds each downstream reservation call when the
// configured timeout is zero.
const defaultCallTimeout = 3 * time.Second

// StockReserver is the inventory reservation contract the coordinator
// depends on. Reserve is an atomic check-and-decrement; Release is its
// compensating inverse. clients.InventoryClient satisfies it for a split
// deployment and InventoryService satisfies it in-process.
type StockReserver interface {
	Reserve(ctx context.Context, productID uint, quantity int) error
	Release(ctx context.Context, productID uint, quantity int) error
}

// CheckoutRequest carries the caller-supplied checkout fields. The
// idempotency key comes from the Idempotency-Key header when present.
type CheckoutRequest struct {
	PaymentMethod   string `json:"payment_method" validate:"required"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	IdempotencyKey  string `json:"-"`
}

// CheckoutResult is the outcome of a successful (or replayed) checkout.
type CheckoutResult struct {
	Order      models.Order       `json:"order"`
	OrderLines []models.OrderLine `json:"order_lines"`
	Idempotent bool               `json:"idempotent"`
}

// CheckoutService converts a user's cart into an order. It coordinates the
// cart reader, the inventory reservation contract and the order store as a
// small saga: reservations run strictly sequentially per cart line, and any
// line failure releases the already-committed reservations in reverse order
// before the failure is reported.
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	stock       StockReserver
	idemStore   repositories.IdempotencyStore
	mqClient    *rabbitmq.Client
	metrics     *metrics.CheckoutMetrics
	validate    *validator.Validate
	callTimeout time.Duration
}

// NewCheckoutService creates a new CheckoutService. mqClient and m may be
// nil; event publishing and metrics are then skipped.
func NewCheckoutService(
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	stock StockReserver,
	idemStore repositories.IdempotencyStore,
	mqClient *rabbitmq.Client,
	m *metrics.CheckoutMetrics,
	callTimeout time.Duration,
) *CheckoutService {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &CheckoutService{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		stock:       stock,
		idemStore:   idemStore,
		mqClient:    mqClient,
		metrics:     m,
		validate:    validator.New(),
		callTimeout: callTimeout,
	}
}

// reservation records one committed stock decrement so a later failure can
// release it.
type reservation struct {
	productID uint
	quantity  int
}

// Checkout places an order from the user's current cart.
//
// On success the cart is cleared and the order is returned with all of its
// lines. On any per-line failure the committed reservations are released in
// reverse order, the order record is cancelled, the cart is left untouched
// and a *CheckoutError carrying the per-line failures is returned.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	started := time.Now()

	if err := s.validate.Struct(req); err != nil {
		s.metrics.Observe(metrics.OutcomeRejected, time.Since(started))
		return nil, ErrInvalidRequest
	}

	cart, err := s.cartRepo.GetOrCreateCart(userID)
	if err != nil {
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(started))
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(started))
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	if len(items) == 0 {
		s.metrics.Observe(metrics.OutcomeRejected, time.Since(started))
		return nil, ErrEmptyCart
	}

	// A retry of an already-completed checkout returns the original order
	// instead of reserving stock twice.
	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = deriveIdempotencyKey(userID, items)
	}
	if result := s.replayCompleted(ctx, idemKey); result != nil {
		s.metrics.Observe(metrics.OutcomeIdempotent, time.Since(started))
		return result, nil
	}

	// The order record exists before any reservation so downstream audit
	// has an identity to reference; it only becomes user-visible once
	// every line reserved.
	now := time.Now()
	order := models.Order{
		UserID:              userID,
		PaymentMethod:       req.PaymentMethod,
		DeliveryAddress:     req.DeliveryAddress,
		PaymentStatus:       models.PaymentPending,
		DeliveryStatus:      models.DeliveryPending,
		PlacedAt:            now,
		EstimatedDeliveryAt: now.Add(deliveryEstimate),
	}
	if err := s.orderRepo.Create(&order); err != nil {
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(started))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	var (
		committed  []reservation
		orderLines []models.OrderLine
		lineErrors []string
	)
	for _, item := range items {
		if err := s.reserve(ctx, item.ProductID, item.Quantity); err != nil {
			lineErrors = append(lineErrors, fmt.Sprintf("product %d: %v", item.ProductID, err))
			break // no further lines are attempted once one fails
		}
		committed = append(committed, reservation{productID: item.ProductID, quantity: item.Quantity})

		line := models.OrderLine{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		if err := s.orderRepo.AddLine(&line); err != nil {
			lineErrors = append(lineErrors, fmt.Sprintf("product %d: %v", item.ProductID, err))
			break
		}
		orderLines = append(orderLines, line)
	}

	if len(lineErrors) > 0 {
		s.compensate(ctx, committed)
		if err := s.orderRepo.UpdateStatus(order.ID, models.PaymentCancelled, models.DeliveryCancelled); err != nil {
			log.Printf("failed to cancel order %s after failed checkout: %v", order.ID, err)
		}
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(started))
		return nil, &CheckoutError{Errors: lineErrors}
	}

	// Commit point: every line is reserved, the order stands.
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		// The order is already placed; an unclearable cart must not fail
		// the checkout the customer just paid for.
		log.Printf("failed to clear cart %s after checkout: %v", cart.ID, err)
	}
	if err := s.idemStore.Put(ctx, idemKey, order.ID, repositories.TTLIdempotency); err != nil {
		log.Printf("failed to record idempotency key for order %s: %v", order.ID, err)
	}
	s.publishOrderPlaced(order)

	s.metrics.Observe(metrics.OutcomeSuccess, time.Since(started))
	return &CheckoutResult{Order: order, OrderLines: orderLines}, nil
}

// reserve invokes the reservation contract under a bounded timeout.
func (s *CheckoutService) reserve(ctx context.Context, productID uint, quantity int) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.stock.Reserve(callCtx, productID, quantity)
}

// compensate releases committed reservations in reverse order. A failed
// release is logged and the walk continues; stock for the remaining lines
// must still be returned.
func (s *CheckoutService) compensate(ctx context.Context, committed []reservation) {
	for i := len(committed) - 1; i >= 0; i-- {
		r := committed[i]
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		if err := s.stock.Release(callCtx, r.productID, r.quantity); err != nil {
			log.Printf("failed to release %d unit(s) of product %d: %v", r.quantity, r.productID, err)
		}
		cancel()
	}
}

// replayCompleted returns the original checkout result when idemKey was
// already used for a completed checkout, nil otherwise.
func (s *CheckoutService) replayCompleted(ctx context.Context, idemKey string) *CheckoutResult {
	orderID, err := s.idemStore.Get(ctx, idemKey)
	if err != nil {
		log.Printf("idempotency lookup failed, proceeding with checkout: %v", err)
		return nil
	}
	if orderID == "" {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		log.Printf("idempotency key points at unknown order %s: %v", orderID, err)
		return nil
	}
	lines, err := s.orderRepo.ListLines(orderID)
	if err != nil {
		log.Printf("failed to list lines for replayed order %s: %v", orderID, err)
		return nil
	}
	return &CheckoutResult{Order: *order, OrderLines: lines, Idempotent: true}
}

// publishOrderPlaced emits the order.placed event. Publishing is best
// effort; the checkout already committed.
func (s *CheckoutService) publishOrderPlaced(order models.Order) {
	if s.mqClient == nil {
		return
	}
	event := rabbitmq.OrderPlacedEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		PaymentStatus:  order.PaymentStatus,
		DeliveryStatus: order.DeliveryStatus,
		PlacedAt:       order.PlacedAt,
	}
	if err := s.mqClient.PublishOrderPlaced(event); err != nil {
		log.Printf("failed to publish order.placed for order %s: %v", order.ID, err)
	}
}

// deriveIdempotencyKey hashes the user and the exact cart content so a
// resubmission of the same cart state maps to the same key, while any cart
// mutation produces a fresh one.
func deriveIdempotencyKey(userID string, items []models.CartItem) string {
	sorted := make([]models.CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	h := sha256.New()
	fmt.Fprintf(h, "%s", userID)
	for _, item := range sorted {
		fmt.Fprintf(h, "|%d:%d:%.2f", item.ProductID, item.Quantity, item.Price)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
