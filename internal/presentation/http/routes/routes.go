package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/config"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/fnb-pos/internal/presentation/http/handler"
	"github.com/sangkips/fnb-pos/internal/presentation/http/middleware"
	"github.com/sangkips/fnb-pos/pkg/utils"
)

// WebhookPrefix is the path prefix of server-to-server payment callbacks
const WebhookPrefix = "/api/v1/webhooks"

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Webhook  *handler.WebhookHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(response.MethodNotAllowed)
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSByPath(
		WebhookPrefix,
		middleware.CORSMiddleware(&deps.Cfg.CORS),
		middleware.WebhookCORS(),
	))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Bank aggregators authenticate by signature, not JWT
	registerWebhookRoutes(router, h, deps)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterFromWindow(
			deps.Cfg.RateLimit.Requests,
			deps.Cfg.RateLimit.Duration,
			middleware.UserOrIPKey,
		))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerWebhookRoutes(router *gin.Engine, h *Handlers, deps *Deps) {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterFromWindow(
		deps.Cfg.RateLimit.Requests,
		deps.Cfg.RateLimit.Duration,
		middleware.IPKey,
	))

	webhooks := router.Group(WebhookPrefix)
	{
		webhooks.OPTIONS("/bank", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		webhooks.POST("/bank", limiter.Middleware(), h.Webhook.BankTransfer)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Catalog
	protected.GET("/products", middleware.RequirePermission(enum.PermissionCheckout), h.Product.List)

	// Checkout
	registerCheckoutRoutes(protected, h, deps)

	// Orders
	registerOrderRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	checkout := protected.Group("/checkout")
	checkout.Use(middleware.RequirePermission(enum.PermissionCheckout))
	{
		checkout.POST("/quote", h.Checkout.Quote)
		// Order creation uses idempotency middleware to prevent duplicates
		checkout.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Checkout)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", middleware.RequirePermission(enum.PermissionViewOrders), h.Order.List)
		orders.GET("/:id", middleware.RequirePermission(enum.PermissionViewOrders), h.Order.Get)
		orders.GET("/:id/receipt", middleware.RequirePermission(enum.PermissionViewOrders), h.Order.Receipt)
		orders.POST("/:id/cancel", middleware.RequirePermission(enum.PermissionCancelOrders), h.Order.Cancel)
		orders.POST("/:id/repay", middleware.RequirePermission(enum.PermissionRepayOrders), h.Order.Repay)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(enum.PermissionViewCustomers))
	{
		customers.GET("/lookup", h.Customer.Lookup)
	}
}
