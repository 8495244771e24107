package dto

import (
	"strings"

	"github.com/gfamlabs/agencydesk/internal/domain/client"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

// CreateClientRequest is the payload for creating a client
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToClient converts the request into a domain client. Emails are stored
// lowercased so lookups stay case insensitive.
func (r *CreateClientRequest) ToClient() *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Company:   r.Company,
		Email:     strings.ToLower(r.Email),
		Phone:     r.Phone,
		Notes:     r.Notes,
		BaseModel: types.GetDefaultBaseModel(),
	}
}

// UpdateClientRequest is the payload for updating a client. Only set fields
// are applied.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ClientResponse wraps a domain client for API responses
type ClientResponse struct {
	*client.Client
}

// ListClientsResponse is a paginated list of clients
type ListClientsResponse struct {
	Items []*ClientResponse `json:"items"`
	Total int               `json:"total"`
}
