package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
)

// InMemoryLineItemStore implements invoice.LineItemRepository
type InMemoryLineItemStore struct {
	*InMemoryStore[*invoice.InvoiceLineItem]
}

// NewInMemoryLineItemStore creates a new in-memory line item store
func NewInMemoryLineItemStore() *InMemoryLineItemStore {
	return &InMemoryLineItemStore{
		InMemoryStore: NewInMemoryStore[*invoice.InvoiceLineItem](),
	}
}

func copyLineItem(li *invoice.InvoiceLineItem) *invoice.InvoiceLineItem {
	if li == nil {
		return nil
	}
	cp := *li
	if li.CustomPriceCents != nil {
		v := *li.CustomPriceCents
		cp.CustomPriceCents = &v
	}
	return &cp
}

func (s *InMemoryLineItemStore) CreateMany(ctx context.Context, items []*invoice.InvoiceLineItem) error {
	for _, li := range items {
		if err := s.InMemoryStore.Create(ctx, li.ID, copyLineItem(li)); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryLineItemStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*invoice.InvoiceLineItem, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, li *invoice.InvoiceLineItem, _ interface{}) bool {
		return li.InvoiceID == invoiceID
	}, func(a, b *invoice.InvoiceLineItem) bool {
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(li *invoice.InvoiceLineItem, _ int) *invoice.InvoiceLineItem {
		return copyLineItem(li)
	}), nil
}

func (s *InMemoryLineItemStore) ListAll(ctx context.Context) ([]*invoice.InvoiceLineItem, error) {
	items, err := s.InMemoryStore.List(ctx, nil, nil, func(a, b *invoice.InvoiceLineItem) bool {
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(li *invoice.InvoiceLineItem, _ int) *invoice.InvoiceLineItem {
		return copyLineItem(li)
	}), nil
}
