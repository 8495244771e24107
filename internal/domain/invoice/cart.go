package invoice

import (
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// CartLine is one requested line of a new invoice before it is persisted.
// Catalog lines carry the service's id, base price and synced processor
// price; ad-hoc lines carry only a name and a custom price.
type CartLine struct {
	ServiceID        string      `json:"service_id,omitempty"`
	Brand            types.Brand `json:"brand"`
	Category         string      `json:"category,omitempty"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Quantity         int64       `json:"quantity"`
	UnitPriceCents   int64       `json:"unit_price_cents"`
	CustomPriceCents *int64      `json:"custom_price_cents,omitempty"`
	StripePriceID    string      `json:"stripe_price_id,omitempty"`
	IsCustomItem     bool        `json:"is_custom_item"`
}

// ToLineItem converts the cart line into a persistable line item for the
// given invoice.
func (l CartLine) ToLineItem(invoiceID string) *InvoiceLineItem {
	return &InvoiceLineItem{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		InvoiceID:        invoiceID,
		ServiceID:        l.ServiceID,
		Brand:            l.Brand,
		Category:         l.Category,
		Name:             l.Name,
		Description:      l.Description,
		Quantity:         l.Quantity,
		UnitPriceCents:   l.UnitPriceCents,
		CustomPriceCents: l.CustomPriceCents,
		StripePriceID:    l.StripePriceID,
		IsCustomItem:     l.IsCustomItem,
		BaseModel:        types.GetDefaultBaseModel(),
	}
}

// EffectivePriceCents returns the custom price when set, otherwise the unit
// price.
func (l CartLine) EffectivePriceCents() int64 {
	if l.CustomPriceCents != nil {
		return *l.CustomPriceCents
	}
	return l.UnitPriceCents
}

// TotalCents returns the line total in integer minor units.
func (l CartLine) TotalCents() int64 {
	return l.EffectivePriceCents() * l.Quantity
}

// IsCustomPricing reports whether the line uses non-catalog pricing
func (l CartLine) IsCustomPricing() bool {
	return l.CustomPriceCents != nil || l.IsCustomItem
}

// UsesCatalogPrice reports whether the remote line item should reference the
// synced catalog price instead of ad-hoc price data.
func (l CartLine) UsesCatalogPrice() bool {
	return l.StripePriceID != "" && l.CustomPriceCents == nil
}

// Validate checks one cart line
func (l CartLine) Validate() error {
	if err := l.Brand.ValidateOperatingBrand(); err != nil {
		return err
	}
	if l.Name == "" {
		return ierr.NewError("cart line name is required").
			WithHint("Each line item needs a name").
			Mark(ierr.ErrValidation)
	}
	if l.Quantity <= 0 {
		return ierr.NewError("cart line quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"name":     l.Name,
				"quantity": l.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateCart checks that the cart is non-empty and every line is valid
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return ierr.NewError("cart is empty").
			WithHint("An invoice needs at least one line item").
			Mark(ierr.ErrValidation)
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CartTotalCents sums the effective line totals of the cart
func CartTotalCents(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.TotalCents()
	}
	return total
}

// ParticipatingBrands returns the distinct brands of the cart in first-seen
// order.
func ParticipatingBrands(lines []CartLine) []types.Brand {
	seen := make(map[types.Brand]struct{}, len(lines))
	brands := make([]types.Brand, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.Brand]; ok {
			continue
		}
		seen[l.Brand] = struct{}{}
		brands = append(brands, l.Brand)
	}
	return brands
}

// PrimaryBrand resolves the brand the invoice is attributed to: the sole
// participating brand, or the umbrella organization when the cart spans
// more than one brand.
func PrimaryBrand(participating []types.Brand) types.Brand {
	if len(participating) == 1 {
		return participating[0]
	}
	return types.ParentOrganization
}
