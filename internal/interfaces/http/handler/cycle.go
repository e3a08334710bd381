package handler

import (
	orderapp "github.com/comanda/backend/internal/application/ordering"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CycleHandler handles the end-of-cycle close endpoint
type CycleHandler struct {
	BaseHandler
	cycle *orderapp.CycleService
}

// NewCycleHandler creates a new CycleHandler
func NewCycleHandler(cycle *orderapp.CycleService) *CycleHandler {
	return &CycleHandler{cycle: cycle}
}

// RegisterRoutes registers cycle routes
func (h *CycleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cycle/close", h.CloseCycle)
}

// CloseCycle handles POST /cycle/close. Closing finalizes every open
// order, releases every table and resets the month's usage counter; it
// cannot be undone.
func (h *CycleHandler) CloseCycle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	result, err := h.cycle.CloseCycle(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
