package main

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/repositories"
	"storefront/internal/security"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// AppDeps are the collaborators that differ between production and tests.
type AppDeps struct {
	Gateway  payment.Gateway
	Notifier notify.Notifier
	// Events is nil when RabbitMQ is not configured.
	Events   services.EventPublisher
	Registry *prometheus.Registry
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// NewApp wires repositories, services and handlers into a Fiber app. The
// returned func releases background resources owned by the app.
func NewApp(cfg *config.Config, db *gorm.DB, deps AppDeps) (*fiber.App, func()) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	itemRepo := repositories.NewGORMItemRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	chargeRepo := repositories.NewGORMChargeRepository(db)
	lockRepo := repositories.NewGORMCheckoutLockRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, deps.Notifier, cfg.Auth, cfg.FrontendURL)
	itemService := services.NewItemService(itemRepo, security.NewTextSanitizer())
	cartService := services.NewCartService(cartRepo, itemRepo)
	userService := services.NewUserService(userRepo)
	orderService := services.NewOrderService(orderRepo, chargeRepo)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Carts:   cartRepo,
		Orders:  orderRepo,
		Charges: chargeRepo,
		Locks:   lockRepo,
		Gateway: deps.Gateway,
		Events:  deps.Events,
		Metrics: metrics.NewCollector(deps.Registry),
	}, cfg.Checkout, cfg.Payment)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.TokenTTL, cfg.Auth.CookieSecure)
	itemHandler := handlers.NewItemHandler(itemService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, checkoutService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		AppName: "storefront",
	})

	// --- Middleware ---
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		code, status, dbStatus := fiber.StatusOK, "healthy", "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			code, status, dbStatus = fiber.StatusServiceUnavailable, "unhealthy", "down"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": dbStatus,
			"events":   deps.Events != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(deps.Registry)))

	// --- API Routes ---
	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.Auth.RatePerMinute))
	apiV1 := app.Group("/api/v1", middleware.Identify(authService))

	authHandler.RegisterRoutes(apiV1, limiter.Handler())
	itemHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)

	return app, limiter.Stop
}
