package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/config"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/internal/infrastructure/database"
	"github.com/sangkips/fnb-pos/internal/infrastructure/repository"
	"github.com/sangkips/fnb-pos/internal/presentation/http/handler"
	"github.com/sangkips/fnb-pos/internal/presentation/http/routes"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"github.com/sangkips/fnb-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.Init(cfg.App.Env, cfg.App.LogLevel)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.App.SeedCatalog {
		if err := database.SeedCatalog(db); err != nil {
			log.Warnf("Failed to seed demo catalog: %v", err)
		}
	}

	if cfg.Webhook.Secret == "" {
		log.Warn("WEBHOOK_SECRET is empty; bank notifications are accepted unsigned")
	}

	// Tokens are issued by the hosting auth module; only validation happens here
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	notificationRepo := repository.NewPaymentNotificationRepository(db)
	sequenceRepo := repository.NewReceiptSequenceRepository(db)

	loc := cfg.Store.Location()
	receipts := service.NewReceiptIssuer(sequenceRepo, cfg.Store.ReceiptPrefix, loc)
	resolver := pricing.NewResolver(nil, pricing.LoyaltyConfig{
		PointValue:      cfg.Loyalty.PointValue,
		EarnRateDivisor: cfg.Loyalty.EarnRateDivisor,
	})

	// Initialize services
	checkoutService := service.NewCheckoutService(transactor, orderRepo, productRepo, customerRepo, resolver, receipts)
	orderService := service.NewOrderService(transactor, orderRepo, customerRepo, receipts, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	})
	reconcileService := service.NewReconcileService(
		transactor,
		orderRepo,
		notificationRepo,
		receipts,
		cfg.Webhook.Secret,
		cfg.Webhook.LookbackLimit,
	)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Order:    handler.NewOrderHandler(orderService, loc),
		Customer: handler.NewCustomerHandler(customerService),
		Product:  handler.NewProductHandler(productService),
		Webhook:  handler.NewWebhookHandler(reconcileService, cfg.Webhook.MaxBodyBytes),
	}

	go purgeIdempotencyKeys(idempotencyRepo, time.Hour)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting %s server on port %s...", cfg.App.Name, port)
	log.Infof("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// purgeIdempotencyKeys drops expired checkout keys on every tick
func purgeIdempotencyKeys(repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for now := range ticker.C {
		n, err := repo.DeleteExpired(context.Background(), now)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to purge expired idempotency keys")
			continue
		}
		if n > 0 {
			logger.Log.WithField("count", n).Debug("Purged expired idempotency keys")
		}
	}
}
