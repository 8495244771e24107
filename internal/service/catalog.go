package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/types"
)

const serviceCacheExpiry = 5 * time.Minute

// syncRate paces product and price creation against the processor's rate
// limits when syncing whole brands.
var syncRate = rate.Every(100 * time.Millisecond)

// CatalogService manages per-brand service catalogs and their mirroring to
// the payment processor.
type CatalogService interface {
	CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetService(ctx context.Context, id string) (*dto.ServiceResponse, error)
	ListServices(ctx context.Context, filter *types.ServiceFilter) (*dto.ListServicesResponse, error)
	ListByBrand(ctx context.Context, brand types.Brand) (*dto.ListServicesResponse, error)
	GetCategories(ctx context.Context, brand types.Brand) (*dto.CategoriesResponse, error)
	UpdateService(ctx context.Context, id string, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, id string) error

	SyncService(ctx context.Context, id string) (*dto.ServiceResponse, error)
	SyncBrand(ctx context.Context, brand types.Brand) (*dto.SyncBrandResult, error)
	SyncAll(ctx context.Context) (*dto.SyncAllResult, error)
	SyncStatus(ctx context.Context) (*dto.SyncStatusResponse, error)
}

type catalogService struct {
	ServiceParams
	limiter *rate.Limiter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
		limiter:       rate.NewLimiter(syncRate, 1),
	}
}

func (s *catalogService) CreateService(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	svc := req.ToService()
	if err := s.CatalogRepo.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.Logger.Infow("created catalog service",
		"service_id", svc.ID,
		"brand", svc.Brand,
		"category", svc.Category)

	return dto.NewServiceResponse(svc), nil
}

func (s *catalogService) GetService(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixService, id)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if svc, ok := cached.(*catalog.Service); ok {
			return dto.NewServiceResponse(svc), nil
		}
	}

	svc, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, svc, serviceCacheExpiry)
	return dto.NewServiceResponse(svc), nil
}

func (s *catalogService) ListServices(ctx context.Context, filter *types.ServiceFilter) (*dto.ListServicesResponse, error) {
	services, err := s.CatalogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.CatalogRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListServicesResponse{
		Items: lo.Map(services, func(svc *catalog.Service, _ int) *dto.ServiceResponse {
			return dto.NewServiceResponse(svc)
		}),
		Total: total,
	}, nil
}

func (s *catalogService) ListByBrand(ctx context.Context, brand types.Brand) (*dto.ListServicesResponse, error) {
	if err := brand.ValidateOperatingBrand(); err != nil {
		return nil, err
	}
	return s.ListServices(ctx, &types.ServiceFilter{
		QueryFilter: types.NoLimitQueryFilter(),
		Brand:       lo.ToPtr(brand),
	})
}

func (s *catalogService) GetCategories(ctx context.Context, brand types.Brand) (*dto.CategoriesResponse, error) {
	resp, err := s.ListByBrand(ctx, brand)
	if err != nil {
		return nil, err
	}

	categories := lo.Uniq(lo.Map(resp.Items, func(item *dto.ServiceResponse, _ int) string {
		return item.Category
	}))
	sort.Strings(categories)

	return &dto.CategoriesResponse{Categories: categories}, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id string, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	svc, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	priceChanged := false
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.PriceDisplay != nil {
		svc.PriceDisplay = *req.PriceDisplay
	}
	if req.PriceCents != nil && *req.PriceCents != svc.PriceCents {
		svc.PriceCents = *req.PriceCents
		priceChanged = true
	}
	if req.PriceSuffix != nil {
		svc.PriceSuffix = *req.PriceSuffix
	}
	if req.Tags != nil {
		svc.Tags = *req.Tags
	}
	if req.Popular != nil {
		svc.Popular = *req.Popular
	}

	// A price change invalidates the synced processor price. The next sync
	// run creates a fresh price object.
	if priceChanged && svc.StripeSynced {
		svc.StripeSynced = false
		svc.StripePriceID = ""
	}

	if err := s.CatalogRepo.Update(ctx, svc); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixService, id))
	return dto.NewServiceResponse(svc), nil
}

func (s *catalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.CatalogRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixService, id))
	return nil
}

// SyncService mirrors one catalog service to the processor as a product plus
// price. Already synced services are returned unchanged.
func (s *catalogService) SyncService(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	svc, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.StripeSynced {
		return dto.NewServiceResponse(svc), nil
	}

	if err := s.syncOne(ctx, svc); err != nil {
		return nil, err
	}
	return dto.NewServiceResponse(svc), nil
}

func (s *catalogService) syncOne(ctx context.Context, svc *catalog.Service) error {
	if svc.PriceCents <= 0 {
		return ierr.NewError("service has no billable price").
			WithHint("Only services with a positive price can be synced").
			WithReportableDetails(map[string]any{
				"service_id":  svc.ID,
				"price_cents": svc.PriceCents,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	metadata := map[string]string{
		types.MetadataKeyBrand:     string(svc.Brand),
		types.MetadataKeyCategory:  svc.Category,
		types.MetadataKeyServiceID: svc.ID,
	}
	if len(svc.Tags) > 0 {
		metadata[types.MetadataKeyTags] = strings.Join(svc.Tags, ",")
	}

	// Reuse the product when only the price needed recreating
	productID := svc.StripeProductID
	if productID == "" {
		var err error
		productID, err = s.Gateway.CreateProduct(ctx, integration.ProductParams{
			Name:        svc.Name,
			Description: svc.Description,
			Brand:       svc.Brand,
			Metadata:    metadata,
		})
		if err != nil {
			return err
		}
	}

	priceID, err := s.Gateway.CreatePrice(ctx, integration.PriceParams{
		ProductID:       productID,
		UnitAmountCents: svc.PriceCents,
		Brand:           svc.Brand,
		Metadata:        metadata,
	})
	if err != nil {
		// Keep the product id so a retry can pick up where it stopped
		svc.StripeProductID = productID
		if updateErr := s.CatalogRepo.Update(ctx, svc); updateErr != nil {
			s.Logger.Errorw("failed to record partial sync state",
				"service_id", svc.ID,
				"error", updateErr)
		}
		return err
	}

	svc.StripeProductID = productID
	svc.StripePriceID = priceID
	svc.StripeSynced = true
	if err := s.CatalogRepo.Update(ctx, svc); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixService, svc.ID))
	s.Logger.Infow("synced catalog service",
		"service_id", svc.ID,
		"brand", svc.Brand,
		"stripe_product_id", productID,
		"stripe_price_id", priceID)
	return nil
}

// SyncBrand mirrors every unsynced service of one brand, pacing calls with
// the shared limiter. Individual failures are tallied and do not stop the
// run; failed services stay unsynced for the next attempt.
func (s *catalogService) SyncBrand(ctx context.Context, brand types.Brand) (*dto.SyncBrandResult, error) {
	if err := brand.ValidateOperatingBrand(); err != nil {
		return nil, err
	}

	services, err := s.CatalogRepo.List(ctx, &types.ServiceFilter{
		QueryFilter:  types.NoLimitQueryFilter(),
		Brand:        lo.ToPtr(brand),
		UnsyncedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	result := &dto.SyncBrandResult{
		Brand: brand,
		Total: len(services),
	}
	for _, svc := range services {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Sync run was cancelled").
				Mark(ierr.ErrSystem)
		}
		if err := s.syncOne(ctx, svc); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, svc.Name+": "+err.Error())
			s.Logger.Errorw("failed to sync catalog service",
				"service_id", svc.ID,
				"brand", brand,
				"error", err)
			continue
		}
		result.Synced++
	}
	return result, nil
}

// SyncAll runs SyncBrand for every operating brand
func (s *catalogService) SyncAll(ctx context.Context) (*dto.SyncAllResult, error) {
	result := &dto.SyncAllResult{
		ByBrand: make(map[types.Brand]*dto.SyncBrandResult),
	}
	for _, brand := range types.AllBrands() {
		brandResult, err := s.SyncBrand(ctx, brand)
		if err != nil {
			return nil, err
		}
		result.ByBrand[brand] = brandResult
		result.Total += brandResult.Total
		result.Synced += brandResult.Synced
		result.Failed += brandResult.Failed
		result.Errors = append(result.Errors, brandResult.Errors...)
	}
	return result, nil
}

// SyncStatus reports synced and unsynced counts overall and per brand
func (s *catalogService) SyncStatus(ctx context.Context) (*dto.SyncStatusResponse, error) {
	services, err := s.CatalogRepo.List(ctx, &types.ServiceFilter{
		QueryFilter: types.NoLimitQueryFilter(),
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SyncStatusResponse{
		ByBrand: make(map[types.Brand]*dto.BrandSyncStatusInfo),
	}
	for _, brand := range types.AllBrands() {
		resp.ByBrand[brand] = &dto.BrandSyncStatusInfo{}
	}
	for _, svc := range services {
		info, ok := resp.ByBrand[svc.Brand]
		if !ok {
			info = &dto.BrandSyncStatusInfo{}
			resp.ByBrand[svc.Brand] = info
		}
		resp.TotalCount++
		if svc.StripeSynced {
			resp.SyncedCount++
			info.Synced++
		} else {
			resp.UnsyncedCount++
			info.Unsynced++
		}
	}
	resp.NeedsSync = resp.UnsyncedCount > 0
	return resp, nil
}
