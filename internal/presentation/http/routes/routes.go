package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/crm-billing/internal/application/service"
	"github.com/sangkips/crm-billing/internal/config"
	domainRepo "github.com/sangkips/crm-billing/internal/domain/repository"
	"github.com/sangkips/crm-billing/internal/presentation/http/handler"
	"github.com/sangkips/crm-billing/internal/presentation/http/middleware"
	"github.com/sangkips/crm-billing/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice   *handler.InvoiceHandler
	Receipt   *handler.ReceiptHandler
	Quotation *handler.QuotationHandler
	Settings  *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
	// Ping reports database health; nil skips the check
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(log.Named("http")))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", healthHandler(deps))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.NewRateLimiterConfig(
			deps.Cfg.RateLimit.Requests,
			deps.Cfg.RateLimit.Duration,
		))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps, log)
	}

	return router
}

func healthHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, log *zap.Logger) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: log.Named("idempotency"),
	})

	registerDealRoutes(protected, h, idempotent)
	registerInvoiceRoutes(protected, h, idempotent)
	registerReceiptRoutes(protected, h)
	registerSettingsRoutes(protected, h)
}

func registerDealRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	deals := protected.Group("/deals")
	{
		deals.POST("/:id/invoice", idempotent, h.Invoice.Generate)
		deals.GET("/:id/quotation", h.Quotation.Get)
		deals.POST("/:id/quotation", h.Quotation.Issue)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.POST("/:id/sync-items", h.Invoice.SyncItems)
		invoices.POST("/:id/confirm", h.Invoice.Confirm)
		invoices.POST("/:id/receipt", idempotent, h.Receipt.Generate)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.PUT("/:id", h.Receipt.Update)
		receipts.POST("/:id/confirm", h.Receipt.Confirm)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	settings := protected.Group("/settings")
	{
		settings.GET("/company", h.Settings.GetCompany)
		settings.PUT("/company", middleware.RequireRole(service.RoleAdmin, service.RoleSuperAdmin), h.Settings.UpdateCompany)
	}
}
