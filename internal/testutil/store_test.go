package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	"github.com/gfamlabs/agencydesk/internal/types"
)

func TestInvoiceListDetachedFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryInvoiceStore()

	require.NoError(t, store.Create(ctx, &invoice.Invoice{
		ID:                  "inv_store_1",
		ClientID:            "cli_store_1",
		PrimaryBrand:        types.BrandSankofa,
		ParticipatingBrands: []types.Brand{types.BrandSankofa},
		InvoiceStatus:       types.InvoiceStatusDraft,
		TotalCents:          80000,
		BaseModel:           types.GetDefaultBaseModel(),
	}))

	listed, err := store.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Mutating a listed item must not reach the stored record
	listed[0].InvoiceStatus = types.InvoiceStatusVoid
	listed[0].ParticipatingBrands[0] = types.BrandCentex

	stored, err := store.Get(ctx, "inv_store_1")
	require.NoError(t, err)
	assert.Equal(t, types.InvoiceStatusDraft, stored.InvoiceStatus)
	assert.Equal(t, []types.Brand{types.BrandSankofa}, stored.ParticipatingBrands)
}

func TestServiceListDetachedFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCatalogStore()

	require.NoError(t, store.Create(ctx, &catalog.Service{
		ID:         "svc_store_1",
		Brand:      types.BrandCentex,
		Name:       "Trucking Website",
		Category:   "Web Design",
		PriceCents: 450000,
		Tags:       []string{"web"},
		BaseModel:  types.GetDefaultBaseModel(),
	}))

	listed, err := store.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed[0].PriceCents = 1
	listed[0].Tags[0] = "changed"

	stored, err := store.Get(ctx, "svc_store_1")
	require.NoError(t, err)
	assert.Equal(t, int64(450000), stored.PriceCents)
	assert.Equal(t, []string{"web"}, stored.Tags)
}
