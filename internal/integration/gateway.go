package integration

import (
	"context"

	"github.com/gfamlabs/agencydesk/internal/types"
)

// CustomerParams describes a processor customer to create
type CustomerParams struct {
	Name     string
	Email    string
	Metadata map[string]string
}

// InvoiceParams describes a remote draft invoice to create. Brand selects the
// account context under organization-scoped credentials.
type InvoiceParams struct {
	CustomerID   string
	Brand        types.Brand
	Description  string
	DaysUntilDue int64
	Metadata     map[string]string
}

// CatalogItemParams attaches a line item that references a synced catalog
// price.
type CatalogItemParams struct {
	CustomerID string
	InvoiceID  string
	PriceID    string
	Quantity   int64
	Brand      types.Brand
	Metadata   map[string]string
}

// AdHocItemParams attaches a line item priced inline, used for custom
// overrides and non-catalog lines.
type AdHocItemParams struct {
	CustomerID      string
	InvoiceID       string
	Description     string
	UnitAmountCents int64
	Quantity        int64
	Brand           types.Brand
	Metadata        map[string]string
}

// ProductParams describes a processor product mirroring a catalog service
type ProductParams struct {
	Name        string
	Description string
	Brand       types.Brand
	Metadata    map[string]string
}

// PriceParams describes a processor price for a product
type PriceParams struct {
	ProductID       string
	UnitAmountCents int64
	Brand           types.Brand
	Metadata        map[string]string
}

// WebhookEvent is a verified processor event, reduced to the fields webhook
// reconciliation consumes.
type WebhookEvent struct {
	ID      string
	Type    string
	Invoice *InvoiceEventData
}

// InvoiceEventData carries the invoice payload of a webhook event
type InvoiceEventData struct {
	StripeInvoiceID string
	Metadata        map[string]string
	// PaidAtUnix is the payment timestamp in epoch seconds, zero when the
	// processor did not report one
	PaidAtUnix int64
}

// Gateway abstracts the payment processor. The production implementation
// lives in integration/stripe; tests use an in-memory fake.
type Gateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateInvoice(ctx context.Context, params InvoiceParams) (string, error)
	AddCatalogInvoiceItem(ctx context.Context, params CatalogItemParams) error
	AddAdHocInvoiceItem(ctx context.Context, params AdHocItemParams) error
	FinalizeInvoice(ctx context.Context, brand types.Brand, invoiceID string) error
	SendInvoice(ctx context.Context, brand types.Brand, invoiceID string) error
	CreateProduct(ctx context.Context, params ProductParams) (string, error)
	CreatePrice(ctx context.Context, params PriceParams) (string, error)
	VerifyWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}
