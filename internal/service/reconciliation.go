package service

import (
	"context"
	"time"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// ReconciliationService applies verified processor webhook events to local
// invoice records. The local record is the source of truth for status; events
// only move it forward.
type ReconciliationService interface {
	ProcessWebhookEvent(ctx context.Context, event *integration.WebhookEvent) (*dto.WebhookResult, error)
}

type reconciliationService struct {
	ServiceParams
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(params ServiceParams) ReconciliationService {
	return &reconciliationService{
		ServiceParams: params,
	}
}

// ProcessWebhookEvent dispatches one verified event. Events that carry no
// invoice payload or no local correlation metadata are acknowledged and
// skipped. Events referencing an unknown local invoice return a not found
// error so the processor redelivers them, covering drafts whose final local
// write raced the webhook.
func (s *reconciliationService) ProcessWebhookEvent(ctx context.Context, event *integration.WebhookEvent) (*dto.WebhookResult, error) {
	if event == nil || event.Invoice == nil {
		return &dto.WebhookResult{Handled: false}, nil
	}

	result := &dto.WebhookResult{EventType: event.Type}

	localID := event.Invoice.Metadata[types.MetadataKeyAgencyInvoiceID]
	if localID == "" {
		s.Logger.Infow("skipping webhook event without local invoice correlation",
			"event_id", event.ID,
			"event_type", event.Type,
			"stripe_invoice_id", event.Invoice.StripeInvoiceID)
		return result, nil
	}

	inv, err := s.InvoiceRepo.Get(ctx, localID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Errorw("webhook event references unknown local invoice",
				"event_id", event.ID,
				"event_type", event.Type,
				"agency_invoice_id", localID)
		}
		return nil, err
	}

	if inv.StripeInvoiceID != "" && inv.StripeInvoiceID != event.Invoice.StripeInvoiceID {
		s.Logger.Warnw("webhook stripe invoice id does not match stored id",
			"invoice_id", inv.ID,
			"stored_stripe_invoice_id", inv.StripeInvoiceID,
			"event_stripe_invoice_id", event.Invoice.StripeInvoiceID)
	}

	switch event.Type {
	case "invoice.paid":
		paidAt := time.Now().UTC()
		if event.Invoice.PaidAtUnix > 0 {
			paidAt = time.Unix(event.Invoice.PaidAtUnix, 0).UTC()
		}
		inv.InvoiceStatus = types.InvoiceStatusPaid
		inv.PaidAt = &paidAt

	case "invoice.payment_failed":
		// Status is unchanged, the processor keeps the invoice open for retry
		s.Logger.Warnw("invoice payment failed",
			"invoice_id", inv.ID,
			"stripe_invoice_id", event.Invoice.StripeInvoiceID)
		result.Handled = true
		result.InvoiceID = inv.ID
		result.Status = inv.InvoiceStatus
		return result, nil

	case "invoice.voided":
		inv.InvoiceStatus = types.InvoiceStatusVoid

	case "invoice.marked_uncollectible":
		inv.InvoiceStatus = types.InvoiceStatusUncollectible

	case "invoice.finalized":
		inv.InvoiceStatus = types.InvoiceStatusOpen

	case "invoice.sent":
		now := time.Now().UTC()
		inv.InvoiceStatus = types.InvoiceStatusOpen
		if inv.SentAt == nil {
			inv.SentAt = &now
		}

	default:
		s.Logger.Debugw("ignoring unhandled webhook event type",
			"event_id", event.ID,
			"event_type", event.Type)
		return result, nil
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("reconciled invoice from webhook event",
		"invoice_id", inv.ID,
		"event_type", event.Type,
		"status", inv.InvoiceStatus)

	result.Handled = true
	result.InvoiceID = inv.ID
	result.Status = inv.InvoiceStatus
	return result, nil
}
