package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoicing-api/internal/config"
	domainRepo "github.com/sangkips/invoicing-api/internal/domain/repository"
	"github.com/sangkips/invoicing-api/internal/observability/metrics"
	"github.com/sangkips/invoicing-api/internal/presentation/http/handler"
	"github.com/sangkips/invoicing-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Metrics         *metrics.Metrics
	MetricsHandler  http.Handler
	// Ping reports database reachability for /health; nil skips the check
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.RegisterValidatorTagNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(metrics.GinMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", healthHandler(deps))
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		TTL:    deps.Cfg.Idempotency.TTL,
		Logger: deps.Logger,
	}))

	registerInvoiceRoutes(v1, h)

	return router
}

func healthHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		database := "ok"
		if deps.Ping != nil {
			if err := deps.Ping(c.Request.Context()); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
				database = "unreachable"
			}
		}
		c.JSON(code, gin.H{
			"status":   status,
			"service":  deps.Cfg.App.Name,
			"database": database,
		})
	}
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, h *Handlers) {
	invoices := v1.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.PUT("", h.Invoice.Update)
		invoices.POST("/pay", h.Invoice.Pay)
		invoices.GET("/number/:invoiceNumber", h.Invoice.GetByNumber)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:invoiceNumber/line-items", h.Invoice.AddLineItems)
	}
}
