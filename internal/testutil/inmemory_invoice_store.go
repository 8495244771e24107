package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.ParticipatingBrands = append([]types.Brand(nil), inv.ParticipatingBrands...)
	if inv.PaidAt != nil {
		cp.PaidAt = lo.ToPtr(*inv.PaidAt)
	}
	if inv.SentAt != nil {
		cp.SentAt = lo.ToPtr(*inv.SentAt)
	}
	return &cp
}

func invoiceFilterFn(_ context.Context, inv *invoice.Invoice, raw interface{}) bool {
	f, _ := raw.(*types.InvoiceFilter)
	if f == nil {
		return true
	}
	if f.Status != nil && inv.InvoiceStatus != *f.Status {
		return false
	}
	// Brand filter matches any participating brand, not just the primary,
	// so multi-brand invoices show up under each of their brands
	if f.Brand != nil && !lo.Contains(inv.ParticipatingBrands, *f.Brand) {
		return false
	}
	if f.ClientID != nil && inv.ClientID != *f.ClientID {
		return false
	}
	return true
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.NewError("invoice already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByStripeID(ctx context.Context, stripeInvoiceID string) (*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.StripeInvoiceID == stripeInvoiceID
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No invoice with stripe id %s", stripeInvoiceID).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(invoices[0]), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, rawFilter(filter), invoiceFilterFn, func(a, b *invoice.Invoice) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, rawFilter(filter), invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
