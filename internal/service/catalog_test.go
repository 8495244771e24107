package service

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/config"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/testutil"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

type CatalogServiceSuite struct {
	suite.Suite
	ctx         context.Context
	service     CatalogService
	catalogRepo *testutil.InMemoryCatalogStore
	gateway     *testutil.FakeGateway
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupSuite() {
	validator.NewValidator()
}

func (s *CatalogServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalogRepo = testutil.NewInMemoryCatalogStore()
	s.gateway = testutil.NewFakeGateway()
	s.service = NewCatalogService(ServiceParams{
		Logger:      logger.L,
		Config:      config.GetDefaultConfig(),
		Cache:       cache.NewInMemoryCache(),
		CatalogRepo: s.catalogRepo,
		Gateway:     s.gateway,
	})
}

func (s *CatalogServiceSuite) createService(brand types.Brand, name, category string, priceCents int64) *dto.ServiceResponse {
	resp, err := s.service.CreateService(s.ctx, dto.CreateServiceRequest{
		Brand:      brand,
		Name:       name,
		Category:   category,
		PriceCents: priceCents,
	})
	s.Require().NoError(err)
	return resp
}

func (s *CatalogServiceSuite) TestCreateService() {
	resp := s.createService(types.BrandSankofa, "Brand Identity Package", "Branding", 250000)
	s.NotEmpty(resp.ID)
	s.Equal(types.BrandSankofa, resp.Brand)
	s.Equal("2500.00", resp.PriceDollars)
	s.False(resp.StripeSynced)
}

func (s *CatalogServiceSuite) TestCreateServiceRejectsUmbrellaBrand() {
	_, err := s.service.CreateService(s.ctx, dto.CreateServiceRequest{
		Brand:      types.ParentOrganization,
		Name:       "Not Allowed",
		Category:   "Misc",
		PriceCents: 1000,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestGetServiceCaches() {
	created := s.createService(types.BrandCentex, "Trucking Website", "Web Design", 450000)

	got, err := s.service.GetService(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	// A second read is served from cache even after the store copy mutates
	stored, err := s.catalogRepo.Get(s.ctx, created.ID)
	s.NoError(err)
	stored.Name = "Renamed Behind The Cache"
	s.NoError(s.catalogRepo.Update(s.ctx, stored))

	got, err = s.service.GetService(s.ctx, created.ID)
	s.NoError(err)
	s.Equal("Trucking Website", got.Name)
}

func (s *CatalogServiceSuite) TestListByBrand() {
	s.createService(types.BrandSankofa, "Logo Refresh", "Branding", 80000)
	s.createService(types.BrandSankofa, "Social Kit", "Marketing", 50000)
	s.createService(types.BrandLighthouse, "Sermon Archive Site", "Web Design", 300000)

	resp, err := s.service.ListByBrand(s.ctx, types.BrandSankofa)
	s.NoError(err)
	s.Len(resp.Items, 2)

	_, err = s.service.ListByBrand(s.ctx, types.ParentOrganization)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestGetCategories() {
	s.createService(types.BrandGFAMMedia, "Podcast Edit", "Audio", 20000)
	s.createService(types.BrandGFAMMedia, "Mix and Master", "Audio", 35000)
	s.createService(types.BrandGFAMMedia, "Music Video", "Video", 150000)

	resp, err := s.service.GetCategories(s.ctx, types.BrandGFAMMedia)
	s.NoError(err)
	s.Equal([]string{"Audio", "Video"}, resp.Categories)
}

func (s *CatalogServiceSuite) TestUpdateServicePriceResetsSync() {
	created := s.createService(types.BrandCentex, "Fleet Page", "Web Design", 120000)

	_, err := s.service.SyncService(s.ctx, created.ID)
	s.NoError(err)

	updated, err := s.service.UpdateService(s.ctx, created.ID, dto.UpdateServiceRequest{
		PriceCents: lo.ToPtr(int64(150000)),
	})
	s.NoError(err)
	s.False(updated.StripeSynced)
	s.Empty(updated.StripePriceID)
	s.NotEmpty(updated.StripeProductID)
}

func (s *CatalogServiceSuite) TestSyncService() {
	created := s.createService(types.BrandSankofa, "Brand Audit", "Branding", 90000)

	resp, err := s.service.SyncService(s.ctx, created.ID)
	s.NoError(err)
	s.True(resp.StripeSynced)
	s.Equal("prod_fake_1", resp.StripeProductID)
	s.Equal("price_fake_1", resp.StripePriceID)

	s.Require().Len(s.gateway.Products, 1)
	s.Equal(string(types.BrandSankofa), s.gateway.Products[0].Metadata[types.MetadataKeyBrand])
	s.Require().Len(s.gateway.Prices, 1)
	s.Equal(int64(90000), s.gateway.Prices[0].UnitAmountCents)

	// Re-syncing an already synced service makes no remote calls
	_, err = s.service.SyncService(s.ctx, created.ID)
	s.NoError(err)
	s.Len(s.gateway.Products, 1)
	s.Len(s.gateway.Prices, 1)
}

func (s *CatalogServiceSuite) TestSyncServiceZeroPrice() {
	created := s.createService(types.BrandSankofa, "Free Consult", "Consulting", 0)

	_, err := s.service.SyncService(s.ctx, created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CatalogServiceSuite) TestSyncBrandTalliesFailures() {
	s.createService(types.BrandLighthouse, "Livestream Setup", "Video", 200000)
	s.createService(types.BrandLighthouse, "Website Care Plan", "Web Design", 15000)

	s.gateway.CreatePriceErr = errors.New("rate limited")
	result, err := s.service.SyncBrand(s.ctx, types.BrandLighthouse)
	s.NoError(err)
	s.Equal(2, result.Total)
	s.Equal(0, result.Synced)
	s.Equal(2, result.Failed)
	s.Len(result.Errors, 2)

	// Failed services stay unsynced and are retried on the next run
	s.gateway.CreatePriceErr = nil
	result, err = s.service.SyncBrand(s.ctx, types.BrandLighthouse)
	s.NoError(err)
	s.Equal(2, result.Total)
	s.Equal(2, result.Synced)
	s.Equal(0, result.Failed)

	// Products created in the failed run are reused, not duplicated
	s.Len(s.gateway.Products, 2)
}

func (s *CatalogServiceSuite) TestSyncAll() {
	s.createService(types.BrandSankofa, "Logo", "Branding", 80000)
	s.createService(types.BrandCentex, "Dispatch Site", "Web Design", 250000)

	result, err := s.service.SyncAll(s.ctx)
	s.NoError(err)
	s.Equal(2, result.Total)
	s.Equal(2, result.Synced)
	s.Equal(0, result.Failed)
	s.Len(result.ByBrand, len(types.AllBrands()))
	s.Equal(1, result.ByBrand[types.BrandSankofa].Synced)
	s.Equal(0, result.ByBrand[types.BrandLighthouse].Total)
}

func (s *CatalogServiceSuite) TestSyncStatus() {
	s.createService(types.BrandSankofa, "Logo", "Branding", 80000)
	second := s.createService(types.BrandSankofa, "Site", "Web Design", 250000)

	_, err := s.service.SyncService(s.ctx, second.ID)
	s.NoError(err)

	status, err := s.service.SyncStatus(s.ctx)
	s.NoError(err)
	s.Equal(2, status.TotalCount)
	s.Equal(1, status.SyncedCount)
	s.Equal(1, status.UnsyncedCount)
	s.True(status.NeedsSync)
	s.Equal(1, status.ByBrand[types.BrandSankofa].Synced)
	s.Equal(1, status.ByBrand[types.BrandSankofa].Unsynced)
}
