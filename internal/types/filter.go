package types

import "github.com/samber/lo"

// BaseFilter is the minimal pagination contract shared by list filters.
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
}

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit"`
	Offset *int `json:"offset,omitempty" form:"offset"`
}

// DefaultQueryFilter defines default values for query filters
var DefaultQueryFilter = QueryFilter{
	Limit:  lo.ToPtr(50),
	Offset: lo.ToPtr(0),
}

// NoLimitQueryFilter returns a filter that disables pagination
func NoLimitQueryFilter() QueryFilter {
	return QueryFilter{Limit: lo.ToPtr(0)}
}

// GetLimit returns the limit value or default if not set
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return *DefaultQueryFilter.Limit
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return *DefaultQueryFilter.Offset
	}
	return *f.Offset
}

// IsUnlimited reports whether pagination should be skipped entirely
func (f QueryFilter) IsUnlimited() bool {
	return f.Limit != nil && *f.Limit <= 0
}

// ClientFilter narrows client list queries
type ClientFilter struct {
	QueryFilter
	Email *string `json:"email,omitempty" form:"email"`
}

// ServiceFilter narrows catalog service list queries
type ServiceFilter struct {
	QueryFilter
	Brand        *Brand  `json:"brand,omitempty" form:"brand"`
	Category     *string `json:"category,omitempty" form:"category"`
	Status       *Status `json:"status,omitempty" form:"status"`
	UnsyncedOnly bool    `json:"unsynced_only,omitempty" form:"unsynced_only"`
}

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	QueryFilter
	Status   *InvoiceStatus `json:"status,omitempty" form:"status"`
	Brand    *Brand         `json:"brand,omitempty" form:"brand"`
	ClientID *string        `json:"client_id,omitempty" form:"client_id"`
}
