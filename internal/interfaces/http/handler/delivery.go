package handler

import (
	deliveryapp "github.com/comanda/backend/internal/application/delivery"
	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryHandler handles delivery fee configuration endpoints
type DeliveryHandler struct {
	BaseHandler
	tiers *deliveryapp.TierService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(tiers *deliveryapp.TierService) *DeliveryHandler {
	return &DeliveryHandler{tiers: tiers}
}

// TierRequest is one fee tier in a replacement request
type TierRequest struct {
	Label         string  `json:"label" binding:"omitempty,max=100"`
	MaxDistanceKm float64 `json:"max_distance_km" binding:"required,gt=0"`
	Fee           float64 `json:"fee" binding:"gte=0"`
	MinimumOrder  float64 `json:"minimum_order" binding:"gte=0"`
}

// ReplaceTiersRequest swaps the tenant's tier set wholesale
type ReplaceTiersRequest struct {
	Tiers []TierRequest `json:"tiers" binding:"dive"`
}

// SettingsRequest updates the tenant's delivery settings
type SettingsRequest struct {
	FlatFee   float64  `json:"flat_fee" binding:"gte=0"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TierResponse is a fee tier in API responses
type TierResponse struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label,omitempty"`
	MaxDistanceKm string    `json:"max_distance_km"`
	Fee           string    `json:"fee"`
	MinimumOrder  string    `json:"minimum_order"`
}

// SettingsResponse is the delivery settings in API responses
type SettingsResponse struct {
	FlatFee   string  `json:"flat_fee"`
	Latitude  *string `json:"latitude,omitempty"`
	Longitude *string `json:"longitude,omitempty"`
	Tiered    bool    `json:"tiered"`
}

func toTierResponses(tiers []delivery.FeeTier) []TierResponse {
	out := make([]TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, TierResponse{
			ID:            tier.ID,
			Label:         tier.Label,
			MaxDistanceKm: tier.MaxDistanceKm.StringFixed(3),
			Fee:           tier.Fee.StringFixed(2),
			MinimumOrder:  tier.MinimumOrder.StringFixed(2),
		})
	}
	return out
}

func toSettingsResponse(settings *delivery.Settings) SettingsResponse {
	resp := SettingsResponse{
		FlatFee: settings.FlatFee.StringFixed(2),
		Tiered:  settings.Latitude != nil && settings.Longitude != nil,
	}
	if settings.Latitude != nil {
		lat := settings.Latitude.String()
		resp.Latitude = &lat
	}
	if settings.Longitude != nil {
		lng := settings.Longitude.String()
		resp.Longitude = &lng
	}
	return resp
}

// RegisterRoutes registers delivery configuration routes
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveryGroup := rg.Group("/delivery")
	{
		deliveryGroup.GET("/tiers", h.ListTiers)
		deliveryGroup.PUT("/tiers", h.ReplaceTiers)
		deliveryGroup.GET("/settings", h.GetSettings)
		deliveryGroup.PUT("/settings", h.UpdateSettings)
	}
}

// ListTiers handles GET /delivery/tiers
func (h *DeliveryHandler) ListTiers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	tiers, err := h.tiers.ListTiers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTierResponses(tiers))
}

// ReplaceTiers handles PUT /delivery/tiers
func (h *DeliveryHandler) ReplaceTiers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req ReplaceTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	inputs := make([]deliveryapp.TierInput, 0, len(req.Tiers))
	for _, tier := range req.Tiers {
		inputs = append(inputs, deliveryapp.TierInput{
			Label:         tier.Label,
			MaxDistanceKm: decimal.NewFromFloat(tier.MaxDistanceKm),
			Fee:           decimal.NewFromFloat(tier.Fee),
			MinimumOrder:  decimal.NewFromFloat(tier.MinimumOrder),
		})
	}

	tiers, err := h.tiers.ReplaceTiers(c.Request.Context(), tenantID, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTierResponses(tiers))
}

// GetSettings handles GET /delivery/settings
func (h *DeliveryHandler) GetSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	settings, err := h.tiers.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSettingsResponse(settings))
}

// UpdateSettings handles PUT /delivery/settings
func (h *DeliveryHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := deliveryapp.SettingsInput{
		FlatFee: decimal.NewFromFloat(req.FlatFee),
	}
	if req.Latitude != nil {
		lat := decimal.NewFromFloat(*req.Latitude)
		input.Latitude = &lat
	}
	if req.Longitude != nil {
		lng := decimal.NewFromFloat(*req.Longitude)
		input.Longitude = &lng
	}

	settings, err := h.tiers.UpdateSettings(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSettingsResponse(settings))
}
