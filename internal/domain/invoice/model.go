package invoice

import (
	"time"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// Invoice is the local record of an agency invoice. The local record is the
// source of truth for status; the remote processor invoice is correlated by
// StripeInvoiceID and by metadata on the remote object.
type Invoice struct {
	// ID is the unique identifier for the invoice
	ID string `dynamodbav:"id" json:"id"`

	// InvoiceNumber is the human-readable invoice number
	InvoiceNumber string `dynamodbav:"invoice_number" json:"invoice_number"`

	// ClientID references the billed client
	ClientID string `dynamodbav:"client_id" json:"client_id"`

	// PrimaryBrand is the brand the invoice is attributed to. Multi-brand
	// invoices are attributed to the umbrella organization.
	PrimaryBrand types.Brand `dynamodbav:"primary_brand" json:"primary_brand"`

	// ParticipatingBrands lists the distinct brands of the line items in
	// first-seen order
	ParticipatingBrands []types.Brand `dynamodbav:"participating_brands" json:"participating_brands"`

	// StripeInvoiceID is the processor invoice id, empty until remote
	// creation succeeds
	StripeInvoiceID string `dynamodbav:"stripe_invoice_id,omitempty" json:"stripe_invoice_id,omitempty"`

	// InvoiceStatus is the lifecycle status of the invoice
	InvoiceStatus types.InvoiceStatus `dynamodbav:"invoice_status" json:"invoice_status"`

	// TotalCents is the invoice total in integer minor units
	TotalCents int64 `dynamodbav:"total_cents" json:"total_cents"`

	// Notes holds free-form notes shown on the invoice
	Notes string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`

	// PaidAt is set by webhook reconciliation when the invoice is paid
	PaidAt *time.Time `dynamodbav:"paid_at,omitempty" json:"paid_at,omitempty"`

	// SentAt is set when the invoice is sent to the client
	SentAt *time.Time `dynamodbav:"sent_at,omitempty" json:"sent_at,omitempty"`

	types.BaseModel
}

// InvoiceLineItem is one line of an invoice, persisted locally after all
// remote line items have been attached.
type InvoiceLineItem struct {
	// ID is the unique identifier for the line item
	ID string `dynamodbav:"id" json:"id"`

	// InvoiceID references the parent invoice
	InvoiceID string `dynamodbav:"invoice_id" json:"invoice_id"`

	// ServiceID references the catalog service, empty for ad-hoc lines
	ServiceID string `dynamodbav:"service_id,omitempty" json:"service_id,omitempty"`

	// Brand is the operating brand the line is attributed to
	Brand types.Brand `dynamodbav:"brand" json:"brand"`

	// Category is the catalog category of the line
	Category string `dynamodbav:"category,omitempty" json:"category,omitempty"`

	// Name is the display name of the line
	Name string `dynamodbav:"name" json:"name"`

	// Description is the optional description of the line
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`

	// Quantity is the number of units, always positive
	Quantity int64 `dynamodbav:"quantity" json:"quantity"`

	// UnitPriceCents is the catalog base price in integer minor units
	UnitPriceCents int64 `dynamodbav:"unit_price_cents" json:"unit_price_cents"`

	// CustomPriceCents overrides the unit price when set
	CustomPriceCents *int64 `dynamodbav:"custom_price_cents,omitempty" json:"custom_price_cents,omitempty"`

	// StripePriceID is the processor catalog price, used only when no
	// custom price is set
	StripePriceID string `dynamodbav:"stripe_price_id,omitempty" json:"stripe_price_id,omitempty"`

	// IsCustomItem marks lines that do not reference a catalog service
	IsCustomItem bool `dynamodbav:"is_custom_item" json:"is_custom_item"`

	types.BaseModel
}

// EffectivePriceCents returns the custom price when set, otherwise the unit
// price.
func (li *InvoiceLineItem) EffectivePriceCents() int64 {
	if li.CustomPriceCents != nil {
		return *li.CustomPriceCents
	}
	return li.UnitPriceCents
}

// TotalCents returns the line total in integer minor units.
func (li *InvoiceLineItem) TotalCents() int64 {
	return li.EffectivePriceCents() * li.Quantity
}

// IsCustomPricing reports whether the line uses non-catalog pricing, either
// through a price override or because the line is ad-hoc.
func (li *InvoiceLineItem) IsCustomPricing() bool {
	return li.CustomPriceCents != nil || li.IsCustomItem
}

// UsesCatalogPrice reports whether the remote line item should reference the
// synced catalog price instead of ad-hoc price data.
func (li *InvoiceLineItem) UsesCatalogPrice() bool {
	return li.StripePriceID != "" && li.CustomPriceCents == nil
}

// Validate checks the line item fields
func (li *InvoiceLineItem) Validate() error {
	if err := li.Brand.ValidateOperatingBrand(); err != nil {
		return err
	}
	if li.Name == "" {
		return ierr.NewError("line item name is required").
			WithHint("Line item name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if li.Quantity <= 0 {
		return ierr.NewError("line item quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"name":     li.Name,
				"quantity": li.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
