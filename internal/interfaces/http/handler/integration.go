package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	appintegration "github.com/siparisbot/backend/internal/application/integration"
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
)

// IntegrationHandler serves the marketplace endpoints
type IntegrationHandler struct {
	BaseHandler
	service *appintegration.Service
	panel   *appintegration.StatusPanel
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(service *appintegration.Service, panel *appintegration.StatusPanel) *IntegrationHandler {
	return &IntegrationHandler{service: service, panel: panel}
}

// RegisterRoutes registers the marketplace routes on the authenticated API group
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	integrations := rg.Group("/integrations")
	integrations.GET("/status", h.Status)
	integrations.GET("/orders", h.ListAllOrders)
	integrations.GET("/:platform/orders", h.ListOrders)
	integrations.POST("/:platform/orders/:orderId/shipment", h.UpdateShipment)
	integrations.POST("/:platform/sync", h.SyncOrders)

	rg.GET("/analytics/summary", h.Analytics)
}

// Status renders the credential status panel
func (h *IntegrationHandler) Status(c *gin.Context) {
	providers := h.panel.Statuses()
	configured := 0
	for _, p := range providers {
		if p.Configured {
			configured++
		}
	}
	h.Success(c, StatusResponse{Providers: providers, Configured: configured, Total: len(providers)})
}

// ListOrders fetches normalized orders from one marketplace
func (h *IntegrationHandler) ListOrders(c *gin.Context) {
	platform, err := platformParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	result := h.service.FetchOrders(c.Request.Context(), getTenantID(c), platform, filter)
	if !result.Success {
		h.ProviderError(c, result.Kind, result.Error)
		return
	}
	h.Success(c, OrdersResponse{Platform: result.Platform, Count: len(result.Orders), Orders: result.Orders})
}

// ListAllOrders fetches orders from every configured marketplace.
// Per-marketplace failures are reported inside the list, never as an HTTP error.
func (h *IntegrationHandler) ListAllOrders(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	h.Success(c, h.service.FetchAll(c.Request.Context(), getTenantID(c), filter))
}

func (h *IntegrationHandler) bindFilter(c *gin.Context) (integration.OrderFilter, bool) {
	var query OrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return integration.OrderFilter{}, false
	}
	filter, err := query.Filter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return integration.OrderFilter{}, false
	}
	return filter, true
}

// UpdateShipment pushes tracking data for an order
func (h *IntegrationHandler) UpdateShipment(c *gin.Context) {
	platform, err := platformParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	update := req.ToUpdate(c.Param("orderId"))
	if !h.service.UpdateShipment(c.Request.Context(), getTenantID(c), platform, update) {
		h.ErrorWithCode(c, dto.ErrCodeProviderError,
			fmt.Sprintf("%s did not accept the shipment update", platform.DisplayName()))
		return
	}
	h.Success(c, ShipmentResponse{
		Platform:       platform,
		OrderID:        update.OrderID,
		TrackingNumber: update.TrackingNumber,
		Updated:        true,
	})
}

// SyncOrders stores the last 30 days of orders of one marketplace
func (h *IntegrationHandler) SyncOrders(c *gin.Context) {
	platform, err := platformParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.service.StorageEnabled() {
		h.ErrorWithCode(c, dto.ErrCodeStorageUnavailable, "Order storage is not configured")
		return
	}

	outcome := h.service.SyncOrders(c.Request.Context(), getTenantID(c), platform, nil)
	if !outcome.Success {
		h.ProviderError(c, outcome.Kind, outcome.Error)
		return
	}
	h.Success(c, outcome.Result)
}

// Analytics summarizes the stored orders of the last 30 days.
// The optional platform query narrows it to one marketplace.
func (h *IntegrationHandler) Analytics(c *gin.Context) {
	var platform integration.PlatformCode
	if raw := c.Query("platform"); raw != "" {
		p, err := integration.ParsePlatformCode(raw)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		platform = p
	}

	summary, err := h.service.Analytics(c.Request.Context(), getTenantID(c), platform)
	if err != nil {
		if errors.Is(err, appintegration.ErrStorageUnavailable) {
			h.ErrorWithCode(c, dto.ErrCodeStorageUnavailable, "Order storage is not configured")
			return
		}
		h.InternalError(c, "Failed to compute analytics")
		return
	}
	h.Success(c, summary)
}
