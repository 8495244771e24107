package catalog

import (
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// Service represents a sellable catalog entry owned by a single brand
type Service struct {
	// ID is the unique identifier for the service
	ID string `dynamodbav:"id" json:"id"`

	// Brand is the operating brand that owns this service
	Brand types.Brand `dynamodbav:"brand" json:"brand"`

	// Name is the display name of the service
	Name string `dynamodbav:"name" json:"name"`

	// Description is the marketing description of the service
	Description string `dynamodbav:"description" json:"description"`

	// Category groups services within a brand, e.g. "Web Design"
	Category string `dynamodbav:"category" json:"category"`

	// PriceDisplay is the human-readable price, e.g. "$2,500"
	PriceDisplay string `dynamodbav:"price_display" json:"price_display"`

	// PriceCents is the base price in integer minor units
	PriceCents int64 `dynamodbav:"price_cents" json:"price_cents"`

	// PriceSuffix qualifies the price, e.g. "/month" or "starting at"
	PriceSuffix string `dynamodbav:"price_suffix,omitempty" json:"price_suffix,omitempty"`

	// Tags are free-form labels used for filtering
	Tags []string `dynamodbav:"tags,omitempty" json:"tags,omitempty"`

	// Popular marks the service as featured
	Popular bool `dynamodbav:"popular" json:"popular"`

	// StripeSynced reports whether the service has been mirrored to the
	// payment processor as a product and price
	StripeSynced bool `dynamodbav:"stripe_synced" json:"stripe_synced"`

	// StripeProductID is the processor product id, set after sync
	StripeProductID string `dynamodbav:"stripe_product_id,omitempty" json:"stripe_product_id,omitempty"`

	// StripePriceID is the processor price id, set after sync
	StripePriceID string `dynamodbav:"stripe_price_id,omitempty" json:"stripe_price_id,omitempty"`

	types.BaseModel
}

// Validate checks the service's required fields
func (s *Service) Validate() error {
	if err := s.Brand.ValidateOperatingBrand(); err != nil {
		return err
	}
	if s.Name == "" {
		return ierr.NewError("service name is required").
			WithHint("Service name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if s.PriceCents < 0 {
		return ierr.NewError("service price cannot be negative").
			WithHint("Price must be zero or positive").
			WithReportableDetails(map[string]any{
				"price_cents": s.PriceCents,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
