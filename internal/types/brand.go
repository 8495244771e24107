package types

import (
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
)

// Brand identifies one of the agency's operating brands. Every catalog
// service and invoice line item belongs to exactly one brand.
type Brand string

const (
	BrandSankofa    Brand = "Sankofa"
	BrandLighthouse Brand = "Lighthouse"
	BrandCentex     Brand = "Centex"
	BrandGFAMMedia  Brand = "GFAM Media Studios"
)

// ParentOrganization is the umbrella entity that owns all brands. Invoices
// spanning more than one brand are attributed to it.
const ParentOrganization Brand = "GFAM Agency"

// AllBrands lists the operating brands in their canonical order. The umbrella
// organization is not an operating brand and is excluded.
func AllBrands() []Brand {
	return []Brand{BrandSankofa, BrandLighthouse, BrandCentex, BrandGFAMMedia}
}

func (b Brand) String() string {
	return string(b)
}

// Validate checks that the brand is one of the known operating brands or the
// umbrella organization.
func (b Brand) Validate() error {
	switch b {
	case BrandSankofa, BrandLighthouse, BrandCentex, BrandGFAMMedia, ParentOrganization:
		return nil
	default:
		return ierr.NewError("invalid brand").
			WithHint("Brand is not one of the known agency brands").
			WithReportableDetails(map[string]any{
				"brand": string(b),
			}).
			Mark(ierr.ErrValidation)
	}
}

// ValidateOperatingBrand is like Validate but rejects the umbrella
// organization, which cannot own catalog services or line items.
func (b Brand) ValidateOperatingBrand() error {
	if b == ParentOrganization {
		return ierr.NewError("invalid brand").
			WithHint("The umbrella organization cannot be used as an operating brand").
			Mark(ierr.ErrValidation)
	}
	return b.Validate()
}
