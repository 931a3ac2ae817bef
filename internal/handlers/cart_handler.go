package handlers

import (
	"errors"
	"log"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the user's active cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts")
	cartRoutes.Get("/items", h.HandleListItems)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Post("/items/increase", h.HandleIncreaseItem)
	cartRoutes.Post("/items/decrease", h.HandleDecreaseItem)
	cartRoutes.Post("/items/remove", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleDeleteCart)
}

// cartItemRequest is the body for cart item mutations.
type cartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func callerID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// HandleListItems lists the lines in the caller's cart.
func (h *CartHandler) HandleListItems(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}
	items, err := h.service.ListItems(userID)
	if err != nil {
		log.Printf("Error listing cart items for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list cart items"})
	}
	return c.JSON(items)
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid product_id or quantity"})
	}

	item, err := h.service.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		log.Printf("Error adding item for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add item to cart"})
	}
	return c.JSON(item)
}

// HandleIncreaseItem bumps a cart line's quantity by one.
func (h *CartHandler) HandleIncreaseItem(c *fiber.Ctx) error {
	return h.adjustItem(c, h.service.IncreaseItem)
}

// HandleDecreaseItem lowers a cart line's quantity by one, removing the line
// when it reaches zero.
func (h *CartHandler) HandleDecreaseItem(c *fiber.Ctx) error {
	return h.adjustItem(c, h.service.DecreaseItem)
}

func (h *CartHandler) adjustItem(c *fiber.Ctx, adjust func(userID string, productID uint) (*models.CartItem, error)) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing product_id"})
	}

	item, err := adjust(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found in cart"})
		}
		log.Printf("Error adjusting item for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart item"})
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a line from the caller's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.RemoveItem(userID, req.ProductID); err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found in cart"})
		}
		log.Printf("Error removing item for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not remove item from cart"})
	}
	return c.JSON(fiber.Map{"message": "Item removed successfully"})
}

// HandleDeleteCart deletes the caller's cart and all of its lines.
func (h *CartHandler) HandleDeleteCart(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}
	if err := h.service.DeleteCart(userID); err != nil {
		if errors.Is(err, repositories.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart not found"})
		}
		log.Printf("Error deleting cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete cart"})
	}
	return c.JSON(fiber.Map{"message": "Cart and items deleted successfully"})
}
