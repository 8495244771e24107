package invoice

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

func TestCartLinePricing(t *testing.T) {
	tests := []struct {
		name          string
		line          CartLine
		wantEffective int64
		wantTotal     int64
		wantCustom    bool
	}{
		{
			name: "catalog price",
			line: CartLine{
				Brand:          types.BrandSankofa,
				Name:           "Brand Identity",
				Quantity:       1,
				UnitPriceCents: 250000,
			},
			wantEffective: 250000,
			wantTotal:     250000,
			wantCustom:    false,
		},
		{
			name: "override wins over unit price",
			line: CartLine{
				Brand:            types.BrandCentex,
				Name:             "Retainer",
				Quantity:         2,
				UnitPriceCents:   100000,
				CustomPriceCents: lo.ToPtr(int64(80000)),
			},
			wantEffective: 80000,
			wantTotal:     160000,
			wantCustom:    true,
		},
		{
			name: "zero override is still an override",
			line: CartLine{
				Brand:            types.BrandLighthouse,
				Name:             "Goodwill credit",
				Quantity:         1,
				UnitPriceCents:   50000,
				CustomPriceCents: lo.ToPtr(int64(0)),
			},
			wantEffective: 0,
			wantTotal:     0,
			wantCustom:    true,
		},
		{
			name: "ad hoc line without override",
			line: CartLine{
				Brand:          types.BrandGFAMMedia,
				Name:           "Rush fee",
				Quantity:       3,
				UnitPriceCents: 15000,
				IsCustomItem:   true,
			},
			wantEffective: 15000,
			wantTotal:     45000,
			wantCustom:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEffective, tt.line.EffectivePriceCents())
			assert.Equal(t, tt.wantTotal, tt.line.TotalCents())
			assert.Equal(t, tt.wantCustom, tt.line.IsCustomPricing())
		})
	}
}

func TestCartLineUsesCatalogPrice(t *testing.T) {
	line := CartLine{
		Brand:          types.BrandSankofa,
		Name:           "SEO Audit",
		Quantity:       1,
		UnitPriceCents: 90000,
		StripePriceID:  "price_123",
	}
	assert.True(t, line.UsesCatalogPrice())

	// an override forces the ad hoc path even when a synced price exists
	line.CustomPriceCents = lo.ToPtr(int64(75000))
	assert.False(t, line.UsesCatalogPrice())

	line = CartLine{
		Brand:          types.BrandSankofa,
		Name:           "Unsynced service",
		Quantity:       1,
		UnitPriceCents: 90000,
	}
	assert.False(t, line.UsesCatalogPrice())
}

func TestValidateCart(t *testing.T) {
	err := ValidateCart(nil)
	assert.True(t, ierr.IsValidation(err))

	err = ValidateCart([]CartLine{
		{Brand: types.BrandSankofa, Name: "Valid", Quantity: 1, UnitPriceCents: 100},
		{Brand: types.BrandSankofa, Name: "Bad quantity", Quantity: 0, UnitPriceCents: 100},
	})
	assert.True(t, ierr.IsValidation(err))

	err = ValidateCart([]CartLine{
		{Brand: types.Brand("Acme"), Name: "Unknown brand", Quantity: 1},
	})
	assert.True(t, ierr.IsValidation(err))

	err = ValidateCart([]CartLine{
		{Brand: types.ParentOrganization, Name: "Umbrella line", Quantity: 1},
	})
	assert.True(t, ierr.IsValidation(err))

	err = ValidateCart([]CartLine{
		{Brand: types.BrandCentex, Name: "Valid", Quantity: 1, UnitPriceCents: 100},
	})
	assert.NoError(t, err)
}

func TestCartTotalCents(t *testing.T) {
	lines := []CartLine{
		{Brand: types.BrandSankofa, Name: "Design", Quantity: 1, UnitPriceCents: 250000},
		{Brand: types.BrandLighthouse, Name: "Audit", Quantity: 1, UnitPriceCents: 50000, CustomPriceCents: lo.ToPtr(int64(40000))},
		{Brand: types.BrandCentex, Name: "Hosting", Quantity: 2, UnitPriceCents: 25000},
	}
	assert.Equal(t, int64(340000), CartTotalCents(lines))
}

func TestBrandAttribution(t *testing.T) {
	single := []CartLine{
		{Brand: types.BrandCentex, Name: "A", Quantity: 1},
		{Brand: types.BrandCentex, Name: "B", Quantity: 1},
	}
	brands := ParticipatingBrands(single)
	assert.Equal(t, []types.Brand{types.BrandCentex}, brands)
	assert.Equal(t, types.BrandCentex, PrimaryBrand(brands))

	multi := []CartLine{
		{Brand: types.BrandSankofa, Name: "A", Quantity: 1},
		{Brand: types.BrandLighthouse, Name: "B", Quantity: 1},
		{Brand: types.BrandSankofa, Name: "C", Quantity: 1},
		{Brand: types.BrandCentex, Name: "D", Quantity: 1},
	}
	brands = ParticipatingBrands(multi)
	assert.Equal(t, []types.Brand{types.BrandSankofa, types.BrandLighthouse, types.BrandCentex}, brands)
	assert.Equal(t, types.ParentOrganization, PrimaryBrand(brands))
}
