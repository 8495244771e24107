package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/gfamlabs/agencydesk/internal/api"
	v1 "github.com/gfamlabs/agencydesk/internal/api/v1"
	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/dynamodb"
	"github.com/gfamlabs/agencydesk/internal/integration"
	stripeIntegration "github.com/gfamlabs/agencydesk/internal/integration/stripe"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/repository"
	"github.com/gfamlabs/agencydesk/internal/sentry"
	"github.com/gfamlabs/agencydesk/internal/service"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

// @title AgencyDesk API
// @version 1.0
// @description Multi-brand agency management backend
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			provideCache,

			// DynamoDB
			dynamodb.NewClient,

			// Payment processor
			stripeIntegration.NewClient,
			provideGateway,

			// Repositories
			repository.NewClientRepository,
			repository.NewCatalogRepository,
			repository.NewInvoiceRepository,
			repository.NewLineItemRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewClientService,
			service.NewCatalogService,
			service.NewInvoiceService,
			service.NewReconciliationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(log *logger.Logger) cache.Cache {
	return cache.Initialize(log)
}

func provideGateway(client *stripeIntegration.Client, log *logger.Logger) integration.Gateway {
	return stripeIntegration.NewGateway(client, log)
}

func provideHandlers(
	logger *logger.Logger,
	gateway integration.Gateway,
	clientService service.ClientService,
	catalogService service.CatalogService,
	invoiceService service.InvoiceService,
	reconciliationService service.ReconciliationService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Client:  v1.NewClientHandler(clientService, logger),
		Catalog: v1.NewCatalogHandler(catalogService, logger),
		Invoice: v1.NewInvoiceHandler(invoiceService, logger),
		Webhook: v1.NewWebhookHandler(gateway, reconciliationService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
