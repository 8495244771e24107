package stripe

import (
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
)

// VerifyWebhookEvent verifies the webhook signature and reduces the event to
// the neutral shape consumed by reconciliation. Unverified payloads are never
// parsed further.
func (g *Gateway) VerifyWebhookEvent(payload []byte, signature string) (*integration.WebhookEvent, error) {
	secret, err := g.client.WebhookSecret()
	if err != nil {
		return nil, err
	}

	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, options)
	if err != nil {
		g.logger.Errorw("Stripe webhook verification failed", "error", err)
		return nil, ierr.NewError("failed to verify webhook signature").
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrValidation)
	}

	result := &integration.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	if strings.HasPrefix(result.Type, "invoice.") {
		var stripeInvoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &stripeInvoice); err != nil {
			g.logger.Errorw("failed to parse invoice from webhook event",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type)
			return nil, ierr.NewError("failed to parse webhook payload").
				WithHint("Invalid invoice payload in webhook event").
				Mark(ierr.ErrValidation)
		}

		data := &integration.InvoiceEventData{
			StripeInvoiceID: stripeInvoice.ID,
			Metadata:        stripeInvoice.Metadata,
		}
		if stripeInvoice.StatusTransitions != nil {
			data.PaidAtUnix = stripeInvoice.StatusTransitions.PaidAt
		}
		result.Invoice = data
	}

	return result, nil
}
