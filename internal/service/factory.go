package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	"github.com/gfamlabs/agencydesk/internal/domain/client"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	ClientRepo   client.Repository
	CatalogRepo  catalog.Repository
	InvoiceRepo  invoice.Repository
	LineItemRepo invoice.LineItemRepository

	// Payment processor gateway
	Gateway integration.Gateway
}

// NewServiceParams bundles the shared service dependencies. Request
// validation goes through the validator package global, so the instance is
// taken as a dependency only to guarantee it is constructed before any
// service handles a request.
func NewServiceParams(
	logger *logger.Logger,
	cfg *config.Configuration,
	cacheClient cache.Cache,
	_ *validator.Validate,
	clientRepo client.Repository,
	catalogRepo catalog.Repository,
	invoiceRepo invoice.Repository,
	lineItemRepo invoice.LineItemRepository,
	gateway integration.Gateway,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       cfg,
		Cache:        cacheClient,
		ClientRepo:   clientRepo,
		CatalogRepo:  catalogRepo,
		InvoiceRepo:  invoiceRepo,
		LineItemRepo: lineItemRepo,
		Gateway:      gateway,
	}
}
