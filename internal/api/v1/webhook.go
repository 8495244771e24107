package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/integration"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/service"
)

type WebhookHandler struct {
	gateway        integration.Gateway
	reconciliation service.ReconciliationService
	log            *logger.Logger
}

func NewWebhookHandler(
	gateway integration.Gateway,
	reconciliation service.ReconciliationService,
	log *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		gateway:        gateway,
		reconciliation: reconciliation,
		log:            log,
	}
}

// HandleStripeWebhook verifies and processes one processor event. Signature
// failures return 400, events for unknown local invoices return 404 so the
// processor redelivers them, everything else is acknowledged with 200.
//
// @Summary Stripe webhook
// @Description Receive payment processor webhook events
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResult
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.Error(ierr.NewError("missing webhook signature").
			WithHint("Stripe-Signature header is required").
			Mark(ierr.ErrValidation))
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	event, err := h.gateway.VerifyWebhookEvent(payload, signature)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.reconciliation.ProcessWebhookEvent(c.Request.Context(), event)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
