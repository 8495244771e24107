package client

import (
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/types"
)

// Client represents a billable client of the agency
type Client struct {
	// ID is the unique identifier for the client
	ID string `dynamodbav:"id" json:"id"`

	// Name is the contact name of the client
	Name string `dynamodbav:"name" json:"name"`

	// Company is the client's company name
	Company string `dynamodbav:"company" json:"company"`

	// Email is the billing email of the client
	Email string `dynamodbav:"email" json:"email"`

	// Phone is the optional phone number of the client
	Phone string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`

	// Notes holds free-form notes about the client
	Notes string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`

	// StripeCustomerID is the payment processor customer id. It is assigned
	// lazily on the client's first invoice and never reassigned afterwards.
	StripeCustomerID string `dynamodbav:"stripe_customer_id,omitempty" json:"stripe_customer_id,omitempty"`

	types.BaseModel
}

// HasStripeCustomer reports whether a processor customer has already been
// created for this client.
func (c *Client) HasStripeCustomer() bool {
	return c.StripeCustomerID != ""
}

// Validate checks the client's required fields
func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client name is required").
			WithHint("Client name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if c.Email == "" {
		return ierr.NewError("client email is required").
			WithHint("Client email cannot be empty").
			Mark(ierr.ErrValidation)
	}
	return nil
}
