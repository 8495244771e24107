package client

import (
	"context"

	"github.com/gfamlabs/agencydesk/internal/types"
)

// Repository defines the interface for client data access
type Repository interface {
	Create(ctx context.Context, client *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, filter *types.ClientFilter) ([]*Client, error)
	Count(ctx context.Context, filter *types.ClientFilter) (int, error)
	Update(ctx context.Context, client *Client) error
	// SetStripeCustomerID persists the processor customer id for the client.
	// The id is write-once: the call fails if a different id is already set.
	SetStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error
	Delete(ctx context.Context, id string) error
}
