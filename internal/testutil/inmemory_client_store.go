package testutil

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/domain/client"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Create(ctx, c.ID, copyClient(c)); err != nil {
		return ierr.NewError("client already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	clients, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *client.Client, _ interface{}) bool {
		return strings.EqualFold(c.Email, email)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, ierr.NewError("client not found").
			WithHintf("No client with email %s", email).
			Mark(ierr.ErrNotFound)
	}
	return copyClient(clients[0]), nil
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *types.ClientFilter) ([]*client.Client, error) {
	clients, err := s.InMemoryStore.List(ctx, rawFilter(filter), func(_ context.Context, c *client.Client, raw interface{}) bool {
		f, _ := raw.(*types.ClientFilter)
		if f == nil || f.Email == nil {
			return true
		}
		return strings.EqualFold(c.Email, *f.Email)
	}, func(a, b *client.Client) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(clients, func(c *client.Client, _ int) *client.Client {
		return copyClient(c)
	}), nil
}

func (s *InMemoryClientStore) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, rawFilter(filter), nil)
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Update(ctx, c.ID, copyClient(c)); err != nil {
		return ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryClientStore) SetStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.StripeCustomerID != "" && c.StripeCustomerID != stripeCustomerID {
		return ierr.NewError("stripe customer id already set").
			WithHint("The client already has a different payment processor customer").
			Mark(ierr.ErrAlreadyExists)
	}
	c.StripeCustomerID = stripeCustomerID
	return s.Update(ctx, c)
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
