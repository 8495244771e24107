package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/gfamlabs/agencydesk/internal/cache"
	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/testutil"
	"github.com/gfamlabs/agencydesk/internal/types"
)

type ReconciliationServiceSuite struct {
	suite.Suite
	ctx         context.Context
	service     ReconciliationService
	invoiceRepo *testutil.InMemoryInvoiceStore
	testInvoice *invoice.Invoice
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceSuite))
}

func (s *ReconciliationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.invoiceRepo = testutil.NewInMemoryInvoiceStore()
	s.service = NewReconciliationService(ServiceParams{
		Logger:      logger.L,
		Config:      config.GetDefaultConfig(),
		Cache:       cache.NewInMemoryCache(),
		InvoiceRepo: s.invoiceRepo,
	})

	s.testInvoice = &invoice.Invoice{
		ID:                  "inv_test_1",
		InvoiceNumber:       "INV-TEST-0001",
		ClientID:            "cli_test_1",
		PrimaryBrand:        types.BrandSankofa,
		ParticipatingBrands: []types.Brand{types.BrandSankofa},
		StripeInvoiceID:     "in_remote_1",
		InvoiceStatus:       types.InvoiceStatusOpen,
		TotalCents:          80000,
		BaseModel:           types.GetDefaultBaseModel(),
	}
	s.Require().NoError(s.invoiceRepo.Create(s.ctx, s.testInvoice))
}

func (s *ReconciliationServiceSuite) event(eventType string) *integration.WebhookEvent {
	return &integration.WebhookEvent{
		ID:   "evt_1",
		Type: eventType,
		Invoice: &integration.InvoiceEventData{
			StripeInvoiceID: "in_remote_1",
			Metadata: map[string]string{
				types.MetadataKeyAgencyInvoiceID: "inv_test_1",
			},
		},
	}
}

func (s *ReconciliationServiceSuite) TestInvoicePaid() {
	event := s.event("invoice.paid")
	event.Invoice.PaidAtUnix = 1735689600

	result, err := s.service.ProcessWebhookEvent(s.ctx, event)
	s.Require().NoError(err)
	s.True(result.Handled)
	s.Equal(types.InvoiceStatusPaid, result.Status)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.Require().NotNil(inv.PaidAt)
	s.Equal(time.Unix(1735689600, 0).UTC(), *inv.PaidAt)
}

func (s *ReconciliationServiceSuite) TestInvoicePaidWithoutTimestamp() {
	before := time.Now().UTC()
	result, err := s.service.ProcessWebhookEvent(s.ctx, s.event("invoice.paid"))
	s.Require().NoError(err)
	s.True(result.Handled)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.Require().NotNil(inv.PaidAt)
	s.False(inv.PaidAt.Before(before))
}

func (s *ReconciliationServiceSuite) TestPaymentFailedKeepsStatus() {
	result, err := s.service.ProcessWebhookEvent(s.ctx, s.event("invoice.payment_failed"))
	s.Require().NoError(err)
	s.True(result.Handled)
	s.Equal(types.InvoiceStatusOpen, result.Status)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOpen, inv.InvoiceStatus)
	s.Nil(inv.PaidAt)
}

func (s *ReconciliationServiceSuite) TestStatusTransitions() {
	testCases := []struct {
		eventType string
		expected  types.InvoiceStatus
	}{
		{"invoice.voided", types.InvoiceStatusVoid},
		{"invoice.marked_uncollectible", types.InvoiceStatusUncollectible},
		{"invoice.finalized", types.InvoiceStatusOpen},
		{"invoice.sent", types.InvoiceStatusOpen},
	}

	for _, tc := range testCases {
		s.Run(tc.eventType, func() {
			s.SetupTest()
			result, err := s.service.ProcessWebhookEvent(s.ctx, s.event(tc.eventType))
			s.Require().NoError(err)
			s.True(result.Handled)
			s.Equal(tc.expected, result.Status)

			inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
			s.Require().NoError(err)
			s.Equal(tc.expected, inv.InvoiceStatus)
		})
	}
}

func (s *ReconciliationServiceSuite) TestInvoiceSentSetsSentAt() {
	result, err := s.service.ProcessWebhookEvent(s.ctx, s.event("invoice.sent"))
	s.Require().NoError(err)
	s.True(result.Handled)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.NotNil(inv.SentAt)
}

func (s *ReconciliationServiceSuite) TestUnknownEventTypeSkipped() {
	result, err := s.service.ProcessWebhookEvent(s.ctx, s.event("invoice.updated"))
	s.Require().NoError(err)
	s.False(result.Handled)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOpen, inv.InvoiceStatus)
}

func (s *ReconciliationServiceSuite) TestMissingCorrelationMetadataSkipped() {
	event := s.event("invoice.paid")
	event.Invoice.Metadata = map[string]string{}

	result, err := s.service.ProcessWebhookEvent(s.ctx, event)
	s.Require().NoError(err)
	s.False(result.Handled)
}

func (s *ReconciliationServiceSuite) TestUnknownLocalInvoiceErrors() {
	event := s.event("invoice.paid")
	event.Invoice.Metadata[types.MetadataKeyAgencyInvoiceID] = "inv_missing"

	_, err := s.service.ProcessWebhookEvent(s.ctx, event)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReconciliationServiceSuite) TestStripeIDMismatchStillApplies() {
	event := s.event("invoice.paid")
	event.Invoice.StripeInvoiceID = "in_other"

	result, err := s.service.ProcessWebhookEvent(s.ctx, event)
	s.Require().NoError(err)
	s.True(result.Handled)

	inv, err := s.invoiceRepo.Get(s.ctx, "inv_test_1")
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
}

func (s *ReconciliationServiceSuite) TestNonInvoiceEventSkipped() {
	result, err := s.service.ProcessWebhookEvent(s.ctx, &integration.WebhookEvent{
		ID:   "evt_2",
		Type: "customer.created",
	})
	s.Require().NoError(err)
	s.False(result.Handled)
}
