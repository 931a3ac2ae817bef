package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kasir/internal/clients"
	"kasir/internal/config"
	"kasir/internal/handlers"
	"kasir/internal/middleware"
	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"
	"kasir/pkg/metrics"
	"kasir/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Repositories ---
	// A DATABASE_DSN selects Postgres through GORM; without one the service
	// runs on the in-memory repositories, which is enough for local work.
	var (
		productRepo repositories.ProductRepository
		cartRepo    repositories.CartRepository
		orderRepo   repositories.OrderRepository
	)
	if cfg.DatabaseDSN != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderLine{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		productRepo = repositories.NewGORMProductRepository(db)
		cartRepo = repositories.NewGORMCartRepository(db)
		orderRepo = repositories.NewGORMOrderRepository(db)
	} else {
		log.Println("No DATABASE_DSN configured, using in-memory repositories")
		mockProducts := repositories.NewMockProductRepository()
		seedProducts(mockProducts)
		productRepo = mockProducts
		cartRepo = repositories.NewMockCartRepository()
		orderRepo = repositories.NewMockOrderRepository()
	}

	// --- Idempotency store ---
	var idemStore repositories.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisStore := repositories.NewRedisIdempotencyStore(cfg.RedisAddr)
		defer redisStore.Close()
		idemStore = redisStore
	} else {
		log.Println("No REDIS_ADDR configured, using in-memory idempotency store")
		idemStore = repositories.NewMockIdempotencyStore()
	}

	// --- RabbitMQ client ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Failed to initialize RabbitMQ client, continuing without events: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Services ---
	inventoryService := services.NewInventoryService(productRepo)

	// Split deployments point INVENTORY_URL at the product service and the
	// coordinator reserves over HTTP; otherwise it reserves in-process.
	var stock services.StockReserver = inventoryService
	if cfg.InventoryURL != "" {
		// The remote stock endpoints sit behind the same JWT middleware, so
		// the client authenticates with a service token signed by the shared
		// secret.
		svcToken, tokenErr := middleware.ServiceToken(cfg.JWTSecret, "checkout-service")
		if tokenErr != nil {
			log.Fatalf("Failed to mint inventory service token: %v", tokenErr)
		}
		stock = clients.NewInventoryClient(cfg.InventoryURL, svcToken, cfg.InventoryTimeout)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo)
	checkoutService := services.NewCheckoutService(
		cartRepo, orderRepo, stock, idemStore, mqClient, checkoutMetrics, cfg.InventoryTimeout)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(inventoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, orderService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1", middleware.AuthRequired(cfg.JWTSecret))
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	// Stand-in fulfillment worker; a real deployment runs this elsewhere.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for placed orders...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seedProducts populates the in-memory product repository with initial data.
func seedProducts(repo repositories.ProductRepository) {
	products := []models.Product{
		{ID: 1, Name: "Laptop", Description: "High performance laptop", Price: 1200.00, Stock: 10},
		{ID: 2, Name: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Stock: 25},
		{ID: 3, Name: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Stock: 50},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
}
