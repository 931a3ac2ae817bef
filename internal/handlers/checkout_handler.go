package handlers

import (
	"errors"
	"log"

	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout and order queries.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		orders:   orders,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/user/:userId", h.HandleListOrdersByUser)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleCheckout converts the caller's cart into an order.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing caller identity",
		})
	}

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.IdempotencyKey = c.Get("Idempotency-Key")

	result, err := h.checkout.Checkout(c.UserContext(), userID, req)
	if err != nil {
		var checkoutErr *services.CheckoutError
		switch {
		case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.As(err, &checkoutErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": checkoutErr.Errors,
			})
		default:
			log.Printf("Checkout failed for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListOrdersByUser returns all orders for a user.
func (h *CheckoutHandler) HandleListOrdersByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	orders, err := h.orders.ListOrdersByUser(userID)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve orders",
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns a single order with its lines.
func (h *CheckoutHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, lines, err := h.orders.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve order",
		})
	}
	return c.JSON(fiber.Map{
		"order":       order,
		"order_lines": lines,
	})
}
