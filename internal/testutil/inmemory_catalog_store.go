package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// InMemoryCatalogStore implements catalog.Repository
type InMemoryCatalogStore struct {
	*InMemoryStore[*catalog.Service]
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		InMemoryStore: NewInMemoryStore[*catalog.Service](),
	}
}

func copyService(svc *catalog.Service) *catalog.Service {
	if svc == nil {
		return nil
	}
	cp := *svc
	cp.Tags = append([]string(nil), svc.Tags...)
	return &cp
}

func serviceFilterFn(_ context.Context, svc *catalog.Service, raw interface{}) bool {
	f, _ := raw.(*types.ServiceFilter)
	if f == nil {
		return true
	}
	if f.Brand != nil && svc.Brand != *f.Brand {
		return false
	}
	if f.Category != nil && svc.Category != *f.Category {
		return false
	}
	if f.Status != nil && svc.Status != *f.Status {
		return false
	}
	if f.UnsyncedOnly && svc.StripeSynced {
		return false
	}
	return true
}

func (s *InMemoryCatalogStore) Create(ctx context.Context, svc *catalog.Service) error {
	if err := s.InMemoryStore.Create(ctx, svc.ID, copyService(svc)); err != nil {
		return ierr.NewError("service already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryCatalogStore) Get(ctx context.Context, id string) (*catalog.Service, error) {
	svc, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("service not found").
			WithHintf("Service with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyService(svc), nil
}

func (s *InMemoryCatalogStore) List(ctx context.Context, filter *types.ServiceFilter) ([]*catalog.Service, error) {
	services, err := s.InMemoryStore.List(ctx, rawFilter(filter), serviceFilterFn, func(a, b *catalog.Service) bool {
		return a.Name < b.Name
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(services, func(svc *catalog.Service, _ int) *catalog.Service {
		return copyService(svc)
	}), nil
}

func (s *InMemoryCatalogStore) Count(ctx context.Context, filter *types.ServiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, rawFilter(filter), serviceFilterFn)
}

func (s *InMemoryCatalogStore) Update(ctx context.Context, svc *catalog.Service) error {
	if err := s.InMemoryStore.Update(ctx, svc.ID, copyService(svc)); err != nil {
		return ierr.NewError("service not found").
			WithHintf("Service with ID %s was not found", svc.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryCatalogStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("service not found").
			WithHintf("Service with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
