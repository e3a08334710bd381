package handler

import (
	billingapp "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UsageHandler exposes the tenant's quota consumption
type UsageHandler struct {
	BaseHandler
	quota *billingapp.QuotaService
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(quota *billingapp.QuotaService) *UsageHandler {
	return &UsageHandler{quota: quota}
}

// RegisterRoutes registers usage routes
func (h *UsageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.GetUsage)
}

// GetUsage handles GET /usage
func (h *UsageHandler) GetUsage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	usage, err := h.quota.CurrentUsage(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, usage)
}
