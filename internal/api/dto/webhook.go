package dto

import "github.com/gfamlabs/agencydesk/internal/types"

// WebhookResult reports how a processor event was handled. Skipped events
// (unknown types, events without invoice correlation) are acknowledged
// without an invoice id so the processor does not redeliver them.
type WebhookResult struct {
	Handled   bool                `json:"handled"`
	EventType string              `json:"event_type"`
	InvoiceID string              `json:"invoice_id,omitempty"`
	Status    types.InvoiceStatus `json:"status,omitempty"`
}
