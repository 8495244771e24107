package stripe

import (
	"github.com/gfamlabs/agencydesk/internal/config"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Client handles Stripe API client setup and configuration. Credentials are
// validated lazily on first use so the server can boot without them.
type Client struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// NewClient creates a new Stripe client wrapper
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// GetStripeClient returns a configured Stripe API client
func (c *Client) GetStripeClient() (*stripe.Client, error) {
	if c.cfg.Stripe.SecretKey == "" {
		return nil, ierr.NewError("stripe secret key not configured").
			WithHint("Payment processing is not configured").
			Mark(ierr.ErrConfiguration)
	}
	return stripe.NewClient(c.cfg.Stripe.SecretKey, nil), nil
}

// WebhookSecret returns the configured webhook signing secret
func (c *Client) WebhookSecret() (string, error) {
	if c.cfg.Stripe.WebhookSecret == "" {
		return "", ierr.NewError("stripe webhook secret not configured").
			WithHint("Webhook verification is not configured").
			Mark(ierr.ErrConfiguration)
	}
	return c.cfg.Stripe.WebhookSecret, nil
}

// AccountForBrand resolves the account id to scope a request to. Under a
// standard key no account context is needed and the result is empty. Under an
// organization-scoped key a missing brand mapping is a configuration error,
// surfaced before any remote objects are created.
func (c *Client) AccountForBrand(brand types.Brand) (string, error) {
	if !c.cfg.Stripe.IsOrganizationKey() {
		return "", nil
	}
	account := c.cfg.Stripe.AccountForBrand(brand)
	if account == "" {
		return "", ierr.NewError("no account configured for brand").
			WithHintf("Organization API keys need an account id for every brand, missing %s", brand).
			WithReportableDetails(map[string]any{
				"brand": brand.String(),
			}).
			Mark(ierr.ErrConfiguration)
	}
	return account, nil
}
