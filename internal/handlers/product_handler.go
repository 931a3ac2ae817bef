package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products and the stock
// reservation endpoints used by the checkout coordinator.
type ProductHandler struct {
	service  *services.InventoryService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	// The reservation contract: decrement reserves stock, increment is the
	// compensating release. Registered before /:id so they are not captured
	// as product ids.
	productRoutes.Patch("/decrement", h.HandleDecrementStock)
	productRoutes.Patch("/increment", h.HandleIncrementStock)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// stockMutationRequest is the body of the decrement/increment endpoints.
type stockMutationRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product id",
		})
	}
	product, err := h.service.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product owned by the calling seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if seller, ok := c.Locals("user_id").(string); ok {
		product.Seller = seller
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleDecrementStock atomically reserves stock for a product.
// Responses follow the reservation contract: 200 on success, 404 when the
// product is missing, 400 when stock cannot cover the quantity.
func (h *ProductHandler) HandleDecrementStock(c *fiber.Ctx) error {
	return h.mutateStock(c, h.service.Reserve, "Product inventory updated successfully")
}

// HandleIncrementStock releases previously reserved stock, compensating a
// checkout that failed after this product's line was already reserved.
func (h *ProductHandler) HandleIncrementStock(c *fiber.Ctx) error {
	return h.mutateStock(c, h.service.Release, "Product inventory restored successfully")
}

func (h *ProductHandler) mutateStock(c *fiber.Ctx, mutate func(ctx context.Context, id uint, qty int) error, okMessage string) error {
	var req stockMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product_id or quantity",
		})
	}

	if err := mutate(c.UserContext(), req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		case errors.Is(err, repositories.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Not enough stock available",
			})
		default:
			log.Printf("Error mutating stock for product %d: %v", req.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update product inventory",
			})
		}
	}
	return c.JSON(fiber.Map{"message": okMessage})
}
