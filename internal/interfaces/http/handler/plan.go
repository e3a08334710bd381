package handler

import (
	"time"

	billingapp "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PlanHandler handles plan administration endpoints
type PlanHandler struct {
	BaseHandler
	plans *billingapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(plans *billingapp.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// ReplacePlanRequest swaps a tenant's plan wholesale
type ReplacePlanRequest struct {
	Tier              string `json:"tier" binding:"required"`
	HasSalonModule    *bool  `json:"has_salon_module"`
	HasDeliveryModule *bool  `json:"has_delivery_module"`
	IsLegacyFree      bool   `json:"is_legacy_free"`
	IsBetaTester      bool   `json:"is_beta_tester"`
}

// PlanResponse is a tenant plan with its resolved entitlements
type PlanResponse struct {
	Tier              string    `json:"tier"`
	HasSalonModule    bool      `json:"has_salon_module"`
	HasDeliveryModule bool      `json:"has_delivery_module"`
	IsLegacyFree      bool      `json:"is_legacy_free"`
	IsBetaTester      bool      `json:"is_beta_tester"`
	MonthlyOrderLimit int       `json:"monthly_order_limit"`
	SalonVisible      bool      `json:"salon_visible"`
	DeliveryVisible   bool      `json:"delivery_visible"`
	QuotaApplies      bool      `json:"quota_applies"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toPlanResponse(plan *subscription.TenantPlan) PlanResponse {
	ent := plan.Entitlements()
	return PlanResponse{
		Tier:              plan.Tier.String(),
		HasSalonModule:    plan.HasSalonModule,
		HasDeliveryModule: plan.HasDeliveryModule,
		IsLegacyFree:      plan.IsLegacyFree,
		IsBetaTester:      plan.IsBetaTester,
		MonthlyOrderLimit: plan.MonthlyOrderLimit,
		SalonVisible:      ent.SalonVisible,
		DeliveryVisible:   ent.DeliveryVisible,
		QuotaApplies:      ent.QuotaApplies,
		UpdatedAt:         plan.UpdatedAt,
	}
}

// RegisterRoutes registers plan routes
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plan := rg.Group("/plan")
	{
		plan.GET("", h.GetPlan)
		plan.PUT("", h.ReplacePlan)
	}
}

// GetPlan handles GET /plan
func (h *PlanHandler) GetPlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}

// ReplacePlan handles PUT /plan
func (h *PlanHandler) ReplacePlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req ReplacePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	plan, err := h.plans.ReplacePlan(c.Request.Context(), tenantID, billingapp.PlanReplaceInput{
		Tier:              subscription.PlanTier(req.Tier),
		HasSalonModule:    req.HasSalonModule,
		HasDeliveryModule: req.HasDeliveryModule,
		IsLegacyFree:      req.IsLegacyFree,
		IsBetaTester:      req.IsBetaTester,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPlanResponse(plan))
}
