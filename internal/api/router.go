package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/gfamlabs/agencydesk/internal/api/v1"
	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Client  *v1.ClientHandler
	Catalog *v1.CatalogHandler
	Invoice *v1.InvoiceHandler
	Webhook *v1.WebhookHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// Webhooks sit outside the v1 group, the processor calls them directly
	router.POST("/webhooks/stripe", handlers.Webhook.HandleStripeWebhook)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Client routes
	clients := router.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
		clients.PUT("/:id", handlers.Client.UpdateClient)
		clients.DELETE("/:id", handlers.Client.DeleteClient)
	}

	// Catalog routes
	services := router.Group("/services")
	{
		services.POST("", handlers.Catalog.CreateService)
		services.GET("", handlers.Catalog.ListServices)
		services.GET("/:id", handlers.Catalog.GetService)
		services.PUT("/:id", handlers.Catalog.UpdateService)
		services.DELETE("/:id", handlers.Catalog.DeleteService)
		services.POST("/:id/sync", handlers.Catalog.SyncService)
	}

	// Brand scoped catalog routes
	brands := router.Group("/brands")
	{
		brands.GET("/:brand/services", handlers.Catalog.ListByBrand)
		brands.GET("/:brand/categories", handlers.Catalog.GetCategories)
		brands.POST("/:brand/sync", handlers.Catalog.SyncBrand)
	}

	// Sync routes
	sync := router.Group("/sync")
	{
		sync.POST("", handlers.Catalog.SyncAll)
		sync.GET("/status", handlers.Catalog.SyncStatus)
	}

	// Invoice routes
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/revenue", handlers.Invoice.GetRevenueByBrand)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.POST("/:id/send", handlers.Invoice.SendInvoice)
	}
}
