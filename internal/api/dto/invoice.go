package dto

import (
	"github.com/shopspring/decimal"

	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

// InvoiceLineItemRequest is one requested line of a new invoice
type InvoiceLineItemRequest struct {
	ServiceID        string      `json:"service_id,omitempty"`
	Brand            types.Brand `json:"brand" validate:"required"`
	Category         string      `json:"category,omitempty"`
	Name             string      `json:"name" validate:"required"`
	Description      string      `json:"description,omitempty"`
	Quantity         int64       `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents   int64       `json:"unit_price_cents" validate:"gte=0"`
	CustomPriceCents *int64      `json:"custom_price_cents,omitempty"`
	StripePriceID    string      `json:"stripe_price_id,omitempty"`
	IsCustomItem     bool        `json:"is_custom_item"`
}

// CreateInvoiceRequest is the payload for the invoice creation flow
type CreateInvoiceRequest struct {
	ClientID        string                   `json:"client_id" validate:"required"`
	LineItems       []InvoiceLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	Notes           string                   `json:"notes,omitempty"`
	SendImmediately bool                     `json:"send_immediately"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return invoice.ValidateCart(r.ToCartLines())
}

// ToCartLines converts the request lines into domain cart lines
func (r *CreateInvoiceRequest) ToCartLines() []invoice.CartLine {
	lines := make([]invoice.CartLine, len(r.LineItems))
	for i, li := range r.LineItems {
		lines[i] = invoice.CartLine{
			ServiceID:        li.ServiceID,
			Brand:            li.Brand,
			Category:         li.Category,
			Name:             li.Name,
			Description:      li.Description,
			Quantity:         li.Quantity,
			UnitPriceCents:   li.UnitPriceCents,
			CustomPriceCents: li.CustomPriceCents,
			StripePriceID:    li.StripePriceID,
			IsCustomItem:     li.IsCustomItem,
		}
	}
	return lines
}

// CreateInvoiceResponse is the success result of the invoice creation flow
type CreateInvoiceResponse struct {
	Success         bool                `json:"success"`
	InvoiceID       string              `json:"invoice_id"`
	StripeInvoiceID string              `json:"stripe_invoice_id"`
	InvoiceNumber   string              `json:"invoice_number"`
	Status          types.InvoiceStatus `json:"status"`
	TotalCents      int64               `json:"total_cents"`
	TotalDollars    string              `json:"total_dollars"`
}

// SendInvoiceResponse is the result of sending a draft invoice
type SendInvoiceResponse struct {
	Success   bool                `json:"success"`
	InvoiceID string              `json:"invoice_id"`
	Status    types.InvoiceStatus `json:"status"`
}

// LineItemResponse wraps a line item with derived pricing fields
type LineItemResponse struct {
	*invoice.InvoiceLineItem
	EffectivePriceCents int64 `json:"effective_price_cents"`
	TotalCents          int64 `json:"total_cents"`
	IsCustomPricing     bool  `json:"is_custom_pricing"`
}

// NewLineItemResponse builds a line item response
func NewLineItemResponse(li *invoice.InvoiceLineItem) *LineItemResponse {
	return &LineItemResponse{
		InvoiceLineItem:     li,
		EffectivePriceCents: li.EffectivePriceCents(),
		TotalCents:          li.TotalCents(),
		IsCustomPricing:     li.IsCustomPricing(),
	}
}

// InvoiceResponse wraps an invoice with its line items and client
type InvoiceResponse struct {
	*invoice.Invoice
	TotalDollars string              `json:"total_dollars"`
	LineItems    []*LineItemResponse `json:"line_items,omitempty"`
	Client       *ClientResponse     `json:"client,omitempty"`
}

// NewInvoiceResponse builds an invoice response with the display total
// derived from the stored cents value
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		Invoice:      inv,
		TotalDollars: FormatCents(inv.TotalCents),
	}
}

// ListInvoicesResponse is a paginated list of invoices
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}

// BrandRevenue is one brand's aggregated line item revenue
type BrandRevenue struct {
	Brand          types.Brand `json:"brand"`
	RevenueCents   int64       `json:"revenue_cents"`
	RevenueDollars string      `json:"revenue_dollars"`
}

// RevenueByBrandResponse aggregates revenue per operating brand
type RevenueByBrandResponse struct {
	Brands []*BrandRevenue `json:"brands"`
}

// FormatCents renders integer minor units as a dollar string. Display only;
// stored arithmetic stays in integer cents.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
