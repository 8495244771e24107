package dto

import (
	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	"github.com/gfamlabs/agencydesk/internal/types"
	"github.com/gfamlabs/agencydesk/internal/validator"
)

// CreateServiceRequest is the payload for creating a catalog service
type CreateServiceRequest struct {
	Brand        types.Brand `json:"brand" validate:"required"`
	Name         string      `json:"name" validate:"required"`
	Description  string      `json:"description"`
	Category     string      `json:"category" validate:"required"`
	PriceDisplay string      `json:"price_display"`
	PriceCents   int64       `json:"price_cents" validate:"gte=0"`
	PriceSuffix  string      `json:"price_suffix"`
	Tags         []string    `json:"tags"`
	Popular      bool        `json:"popular"`
}

func (r *CreateServiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Brand.ValidateOperatingBrand()
}

// ToService converts the request into a domain service
func (r *CreateServiceRequest) ToService() *catalog.Service {
	return &catalog.Service{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SERVICE),
		Brand:        r.Brand,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		PriceDisplay: r.PriceDisplay,
		PriceCents:   r.PriceCents,
		PriceSuffix:  r.PriceSuffix,
		Tags:         r.Tags,
		Popular:      r.Popular,
		BaseModel:    types.GetDefaultBaseModel(),
	}
}

// UpdateServiceRequest is the payload for updating a catalog service
type UpdateServiceRequest struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	PriceDisplay *string   `json:"price_display,omitempty"`
	PriceCents   *int64    `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	PriceSuffix  *string   `json:"price_suffix,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Popular      *bool     `json:"popular,omitempty"`
}

func (r *UpdateServiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ServiceResponse wraps a domain service for API responses
type ServiceResponse struct {
	*catalog.Service
	PriceDollars string `json:"price_dollars"`
}

// NewServiceResponse builds a response with the display price derived from
// the stored cents value
func NewServiceResponse(s *catalog.Service) *ServiceResponse {
	return &ServiceResponse{
		Service:      s,
		PriceDollars: FormatCents(s.PriceCents),
	}
}

// ListServicesResponse is a paginated list of catalog services
type ListServicesResponse struct {
	Items []*ServiceResponse `json:"items"`
	Total int                `json:"total"`
}

// CategoriesResponse lists the distinct categories of a brand's catalog
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// SyncBrandResult reports the outcome of syncing one brand's services
type SyncBrandResult struct {
	Brand  types.Brand `json:"brand"`
	Total  int         `json:"total"`
	Synced int         `json:"synced"`
	Failed int         `json:"failed"`
	Errors []string    `json:"errors,omitempty"`
}

// SyncAllResult reports the outcome of syncing every brand
type SyncAllResult struct {
	Total   int                              `json:"total"`
	Synced  int                              `json:"synced"`
	Failed  int                              `json:"failed"`
	ByBrand map[types.Brand]*SyncBrandResult `json:"by_brand"`
	Errors  []string                         `json:"errors,omitempty"`
}

// SyncStatusResponse reports how many services still need syncing
type SyncStatusResponse struct {
	UnsyncedCount int                                  `json:"unsynced_count"`
	SyncedCount   int                                  `json:"synced_count"`
	TotalCount    int                                  `json:"total_count"`
	NeedsSync     bool                                 `json:"needs_sync"`
	ByBrand       map[types.Brand]*BrandSyncStatusInfo `json:"by_brand"`
}

// BrandSyncStatusInfo is the per-brand slice of the sync status
type BrandSyncStatusInfo struct {
	Synced   int `json:"synced"`
	Unsynced int `json:"unsynced"`
}
