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
	"github.com/gfamlabs/agencydesk/internal/domain/client"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/testutil"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

type InvoiceServiceSuite struct {
	suite.Suite
	ctx          context.Context
	service      InvoiceService
	clientRepo   *testutil.InMemoryClientStore
	invoiceRepo  *testutil.InMemoryInvoiceStore
	lineItemRepo *testutil.InMemoryLineItemStore
	gateway      *testutil.FakeGateway
	testClient   *client.Client
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupSuite() {
	validator.NewValidator()
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clientRepo = testutil.NewInMemoryClientStore()
	s.invoiceRepo = testutil.NewInMemoryInvoiceStore()
	s.lineItemRepo = testutil.NewInMemoryLineItemStore()
	s.gateway = testutil.NewFakeGateway()
	s.service = NewInvoiceService(ServiceParams{
		Logger:       logger.L,
		Config:       config.GetDefaultConfig(),
		Cache:        cache.NewInMemoryCache(),
		ClientRepo:   s.clientRepo,
		InvoiceRepo:  s.invoiceRepo,
		LineItemRepo: s.lineItemRepo,
		Gateway:      s.gateway,
	})

	s.testClient = &client.Client{
		ID:        "cli_test_1",
		Name:      "Kofi Mensah",
		Company:   "Mensah Logistics",
		Email:     "kofi@mensahlogistics.com",
		BaseModel: types.GetDefaultBaseModel(),
	}
	s.Require().NoError(s.clientRepo.Create(s.ctx, s.testClient))
}

// catalogLine is a cart line referencing a synced catalog price
func catalogLine(brand types.Brand, name, priceID string, unitCents, qty int64) dto.InvoiceLineItemRequest {
	return dto.InvoiceLineItemRequest{
		Brand:          brand,
		Name:           name,
		Quantity:       qty,
		UnitPriceCents: unitCents,
		StripePriceID:  priceID,
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceMultiBrand() {
	resp, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Brand Identity", "price_sankofa_1", 250000, 1),
			catalogLine(types.BrandCentex, "Landing Page", "price_centex_1", 45000, 2),
		},
	})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(int64(340000), resp.TotalCents)
	s.Equal("3400.00", resp.TotalDollars)
	s.Equal(types.InvoiceStatusDraft, resp.Status)
	s.NotEmpty(resp.StripeInvoiceID)

	inv, err := s.invoiceRepo.Get(s.ctx, resp.InvoiceID)
	s.Require().NoError(err)
	s.Equal(types.ParentOrganization, inv.PrimaryBrand)
	s.Equal([]types.Brand{types.BrandSankofa, types.BrandCentex}, inv.ParticipatingBrands)
	s.Equal(resp.StripeInvoiceID, inv.StripeInvoiceID)

	s.Require().Len(s.gateway.Invoices, 1)
	remote := s.gateway.Invoices[0]
	s.Equal(types.ParentOrganization, remote.Brand)
	s.Equal("Services by Sankofa & Centex", remote.Description)
	s.Equal(int64(30), remote.DaysUntilDue)
	s.Equal(inv.ID, remote.Metadata[types.MetadataKeyAgencyInvoiceID])
	s.Equal(inv.InvoiceNumber, remote.Metadata[types.MetadataKeyInvoiceNumber])
	s.Equal(string(types.ParentOrganization), remote.Metadata[types.MetadataKeyPrimaryBrand])
	s.JSONEq(`["Sankofa","Centex"]`, remote.Metadata[types.MetadataKeyBrands])

	// Draft was not finalized or sent
	s.Empty(s.gateway.Finalized)
	s.Empty(s.gateway.Sent)

	items, err := s.lineItemRepo.ListByInvoice(s.ctx, inv.ID)
	s.Require().NoError(err)
	s.Len(items, 2)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSingleBrandSendImmediately() {
	resp, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandCentex, "Trucking Website", "price_centex_2", 450000, 1),
		},
		SendImmediately: true,
	})
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOpen, resp.Status)

	inv, err := s.invoiceRepo.Get(s.ctx, resp.InvoiceID)
	s.Require().NoError(err)
	s.Equal(types.BrandCentex, inv.PrimaryBrand)
	s.Equal(types.InvoiceStatusOpen, inv.InvoiceStatus)
	s.NotNil(inv.SentAt)

	s.Equal([]string{resp.StripeInvoiceID}, s.gateway.Finalized)
	s.Equal([]string{resp.StripeInvoiceID}, s.gateway.Sent)
	s.Equal(1, s.gateway.TotalLineItemCalls())
	s.Require().Len(s.gateway.CatalogItems, 1)
	s.Equal("price_centex_2", s.gateway.CatalogItems[0].PriceID)
	s.Equal(int64(1), s.gateway.CatalogItems[0].Quantity)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceCustomPriceOverride() {
	line := catalogLine(types.BrandSankofa, "Brand Identity", "price_sankofa_1", 250000, 1)
	line.CustomPriceCents = lo.ToPtr(int64(200000))

	resp, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID:  s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{line},
	})
	s.Require().NoError(err)
	s.Equal(int64(200000), resp.TotalCents)

	// Overridden lines bypass the catalog price reference
	s.Empty(s.gateway.CatalogItems)
	s.Require().Len(s.gateway.AdHocItems, 1)
	adHoc := s.gateway.AdHocItems[0]
	s.Equal("Sankofa Custom: Brand Identity", adHoc.Description)
	s.Equal(int64(200000), adHoc.UnitAmountCents)
	s.Equal("true", adHoc.Metadata[types.MetadataKeyIsCustomPrice])
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAdHocLine() {
	resp, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			{
				Brand:            types.BrandGFAMMedia,
				Name:             "Rush Delivery Fee",
				Quantity:         1,
				CustomPriceCents: lo.ToPtr(int64(50000)),
				IsCustomItem:     true,
			},
		},
	})
	s.Require().NoError(err)
	s.Equal(int64(50000), resp.TotalCents)

	s.Require().Len(s.gateway.AdHocItems, 1)
	// Ad-hoc lines carry an override price, so they get the custom prefix too
	s.Equal("GFAM Media Studios Custom: Rush Delivery Fee", s.gateway.AdHocItems[0].Description)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceReusesStripeCustomer() {
	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
		},
	})
	s.Require().NoError(err)
	s.Require().Len(s.gateway.Customers, 1)
	s.Equal(s.testClient.ID, s.gateway.Customers[0].Metadata[types.MetadataKeyAgencyClientID])
	s.Equal("Mensah Logistics", s.gateway.Customers[0].Metadata[types.MetadataKeyCompany])

	stored, err := s.clientRepo.Get(s.ctx, s.testClient.ID)
	s.Require().NoError(err)
	s.Equal("cus_fake_1", stored.StripeCustomerID)

	// The second invoice reuses the stored customer
	_, err = s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Site", "price_2", 250000, 1),
		},
	})
	s.Require().NoError(err)
	s.Len(s.gateway.Customers, 1)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAttachFailureLeavesOrphanedDraft() {
	s.gateway.AddCatalogItemErr = errors.New("api error")
	s.gateway.AddCatalogItemErrCall = 2

	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
			catalogLine(types.BrandSankofa, "Site", "price_2", 250000, 1),
			catalogLine(types.BrandSankofa, "Hosting", "price_3", 15000, 1),
		},
	})
	s.Require().Error(err)

	// The local draft survives with no stripe id and no local line items
	invoices, listErr := s.invoiceRepo.List(s.ctx, nil)
	s.Require().NoError(listErr)
	s.Require().Len(invoices, 1)
	s.Equal(types.InvoiceStatusDraft, invoices[0].InvoiceStatus)
	s.Empty(invoices[0].StripeInvoiceID)

	items, listErr := s.lineItemRepo.ListByInvoice(s.ctx, invoices[0].ID)
	s.Require().NoError(listErr)
	s.Empty(items)

	// The third line was never attempted
	s.Equal(2, s.gateway.TotalLineItemCalls())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRemoteCreateFailureKeepsDraft() {
	s.gateway.CreateInvoiceErr = errors.New("api down")

	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
		},
	})
	s.Require().Error(err)

	invoices, listErr := s.invoiceRepo.List(s.ctx, nil)
	s.Require().NoError(listErr)
	s.Require().Len(invoices, 1)
	s.Equal(types.InvoiceStatusDraft, invoices[0].InvoiceStatus)
	s.Empty(invoices[0].StripeInvoiceID)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	testCases := []struct {
		name string
		req  dto.CreateInvoiceRequest
	}{
		{
			name: "missing client",
			req: dto.CreateInvoiceRequest{
				LineItems: []dto.InvoiceLineItemRequest{
					catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
				},
			},
		},
		{
			name: "empty cart",
			req:  dto.CreateInvoiceRequest{ClientID: "cli_test_1"},
		},
		{
			name: "zero quantity",
			req: dto.CreateInvoiceRequest{
				ClientID: "cli_test_1",
				LineItems: []dto.InvoiceLineItemRequest{
					catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 0),
				},
			},
		},
		{
			name: "umbrella brand line",
			req: dto.CreateInvoiceRequest{
				ClientID: "cli_test_1",
				LineItems: []dto.InvoiceLineItemRequest{
					catalogLine(types.ParentOrganization, "Logo", "price_1", 80000, 1),
				},
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateInvoice(s.ctx, tc.req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceUnknownClient() {
	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: "cli_missing",
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
		},
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestSendDraftInvoice() {
	created, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandLighthouse, "Sermon Site", "price_lh_1", 300000, 1),
		},
	})
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusDraft, created.Status)

	resp, err := s.service.SendDraftInvoice(s.ctx, created.InvoiceID)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(types.InvoiceStatusOpen, resp.Status)

	inv, err := s.invoiceRepo.Get(s.ctx, created.InvoiceID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOpen, inv.InvoiceStatus)
	s.NotNil(inv.SentAt)
	s.Equal([]string{created.StripeInvoiceID}, s.gateway.Finalized)
	s.Equal([]string{created.StripeInvoiceID}, s.gateway.Sent)

	// Sending again is rejected since the invoice is no longer a draft
	_, err = s.service.SendDraftInvoice(s.ctx, created.InvoiceID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestSendDraftInvoiceWithoutRemote() {
	// An orphaned draft from a failed remote creation cannot be sent
	s.gateway.CreateInvoiceErr = errors.New("api down")
	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
		},
	})
	s.Require().Error(err)

	invoices, err := s.invoiceRepo.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(invoices, 1)

	_, err = s.service.SendDraftInvoice(s.ctx, invoices[0].ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestSendDraftInvoiceNotFound() {
	_, err := s.service.SendDraftInvoice(s.ctx, "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestGetInvoice() {
	created, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 2),
		},
	})
	s.Require().NoError(err)

	resp, err := s.service.GetInvoice(s.ctx, created.InvoiceID)
	s.Require().NoError(err)
	s.Equal(created.InvoiceID, resp.ID)
	s.Equal("1600.00", resp.TotalDollars)
	s.Require().Len(resp.LineItems, 1)
	s.Equal(int64(160000), resp.LineItems[0].TotalCents)
	s.Require().NotNil(resp.Client)
	s.Equal(s.testClient.ID, resp.Client.ID)
}

func (s *InvoiceServiceSuite) TestListInvoicesFiltered() {
	// Multi-brand invoice: primary is the umbrella, Sankofa and Centex
	// participate
	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Logo", "price_1", 80000, 1),
			catalogLine(types.BrandCentex, "Lead Forms", "price_3", 60000, 1),
		},
	})
	s.Require().NoError(err)

	_, err = s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandCentex, "Site", "price_2", 250000, 1),
		},
		SendImmediately: true,
	})
	s.Require().NoError(err)

	all, err := s.service.ListInvoices(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(2, all.Total)

	open, err := s.service.ListInvoices(s.ctx, &types.InvoiceFilter{
		Status: lo.ToPtr(types.InvoiceStatusOpen),
	})
	s.Require().NoError(err)
	s.Require().Len(open.Items, 1)
	s.Equal(types.BrandCentex, open.Items[0].PrimaryBrand)

	// The brand filter sees the multi-brand invoice too, even though its
	// primary brand is the umbrella
	centex, err := s.service.ListInvoices(s.ctx, &types.InvoiceFilter{
		Brand: lo.ToPtr(types.BrandCentex),
	})
	s.Require().NoError(err)
	s.Len(centex.Items, 2)

	sankofa, err := s.service.ListInvoices(s.ctx, &types.InvoiceFilter{
		Brand: lo.ToPtr(types.BrandSankofa),
	})
	s.Require().NoError(err)
	s.Require().Len(sankofa.Items, 1)
	s.Equal(types.ParentOrganization, sankofa.Items[0].PrimaryBrand)
}

func (s *InvoiceServiceSuite) TestGetRevenueByBrand() {
	// Multi-brand invoice attributed to the umbrella, revenue still credits
	// each brand its own lines
	_, err := s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandSankofa, "Brand Identity", "price_1", 250000, 1),
			catalogLine(types.BrandCentex, "Landing Page", "price_2", 45000, 2),
		},
	})
	s.Require().NoError(err)

	_, err = s.service.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		ClientID: s.testClient.ID,
		LineItems: []dto.InvoiceLineItemRequest{
			catalogLine(types.BrandCentex, "Hosting", "price_3", 15000, 1),
		},
	})
	s.Require().NoError(err)

	resp, err := s.service.GetRevenueByBrand(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(resp.Brands, 2)
	s.Equal(types.BrandSankofa, resp.Brands[0].Brand)
	s.Equal(int64(250000), resp.Brands[0].RevenueCents)
	s.Equal(types.BrandCentex, resp.Brands[1].Brand)
	s.Equal(int64(105000), resp.Brands[1].RevenueCents)
	s.Equal("1050.00", resp.Brands[1].RevenueDollars)
}
