package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gfamlabs/agencydesk/internal/api/dto"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/service"
	"github.com/gfamlabs/agencydesk/internal/types"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(
	service service.CatalogService,
	log *logger.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a service
// @Description Create a catalog service for a brand
// @Tags Catalog
// @Accept json
// @Produce json
// @Param service body dto.CreateServiceRequest true "Service"
// @Success 201 {object} dto.ServiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a service
// @Description Get a catalog service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	resp, err := h.service.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List services
// @Description List catalog services
// @Tags Catalog
// @Accept json
// @Produce json
// @Param filter query types.ServiceFilter false "Filter"
// @Success 200 {object} dto.ListServicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var filter types.ServiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListServices(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List a brand's services
// @Description List every service of one brand
// @Tags Catalog
// @Accept json
// @Produce json
// @Param brand path string true "Brand"
// @Success 200 {object} dto.ListServicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /brands/{brand}/services [get]
func (h *CatalogHandler) ListByBrand(c *gin.Context) {
	resp, err := h.service.ListByBrand(c.Request.Context(), types.Brand(c.Param("brand")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List a brand's categories
// @Description List the distinct categories of one brand's catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Param brand path string true "Brand"
// @Success 200 {object} dto.CategoriesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /brands/{brand}/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	resp, err := h.service.GetCategories(c.Request.Context(), types.Brand(c.Param("brand")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a service
// @Description Update a catalog service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param service body dto.UpdateServiceRequest true "Service"
// @Success 200 {object} dto.ServiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /services/{id} [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a service
// @Description Delete a catalog service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.service.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Sync a service
// @Description Mirror one service to the payment processor
// @Tags Sync
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /services/{id}/sync [post]
func (h *CatalogHandler) SyncService(c *gin.Context) {
	resp, err := h.service.SyncService(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Sync a brand
// @Description Mirror every unsynced service of one brand to the payment processor
// @Tags Sync
// @Accept json
// @Produce json
// @Param brand path string true "Brand"
// @Success 200 {object} dto.SyncBrandResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /brands/{brand}/sync [post]
func (h *CatalogHandler) SyncBrand(c *gin.Context) {
	resp, err := h.service.SyncBrand(c.Request.Context(), types.Brand(c.Param("brand")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Sync all brands
// @Description Mirror every unsynced service of every brand to the payment processor
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} dto.SyncAllResult
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sync [post]
func (h *CatalogHandler) SyncAll(c *gin.Context) {
	resp, err := h.service.SyncAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Sync status
// @Description Report synced and unsynced counts per brand
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} dto.SyncStatusResponse
// @Router /sync/status [get]
func (h *CatalogHandler) SyncStatus(c *gin.Context) {
	resp, err := h.service.SyncStatus(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
