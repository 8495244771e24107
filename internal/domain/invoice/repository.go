package invoice

import (
	"context"

	"github.com/gfamlabs/agencydesk/internal/types"
)

// Repository defines the interface for invoice data access
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByStripeID(ctx context.Context, stripeInvoiceID string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	Update(ctx context.Context, invoice *Invoice) error
}

// LineItemRepository defines the interface for invoice line item data access
type LineItemRepository interface {
	CreateMany(ctx context.Context, items []*InvoiceLineItem) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*InvoiceLineItem, error)
	ListAll(ctx context.Context) ([]*InvoiceLineItem, error)
}
