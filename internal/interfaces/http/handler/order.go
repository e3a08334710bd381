package handler

import (
	orderapp "github.com/comanda/backend/internal/application/ordering"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order admission and lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	admission *orderapp.AdmissionService
	lifecycle *orderapp.LifecycleService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(admission *orderapp.AdmissionService, lifecycle *orderapp.LifecycleService) *OrderHandler {
	return &OrderHandler{
		admission: admission,
		lifecycle: lifecycle,
	}
}

// AdmitOrderItemRequest is one item of an order intake request
type AdmitOrderItemRequest struct {
	MenuItemID *string  `json:"menu_item_id" binding:"omitempty,uuid"`
	Name       string   `json:"name" binding:"omitempty,max=255"`
	UnitPrice  *float64 `json:"unit_price" binding:"omitempty,gte=0"`
	Quantity   int      `json:"quantity" binding:"required,gt=0"`
	Note       string   `json:"note" binding:"omitempty,max=500"`
}

// AdmitOrderRequest is the order intake payload
type AdmitOrderRequest struct {
	Channel      string                  `json:"channel" binding:"required"`
	CustomerName string                  `json:"customer_name" binding:"omitempty,max=255"`
	Address      string                  `json:"address" binding:"omitempty,max=500"`
	Latitude     *float64                `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64                `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	TableID      *string                 `json:"table_id" binding:"omitempty,uuid"`
	Items        []AdmitOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransitionOrderRequest moves an order to a target status
type TransitionOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.AdmitOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/transition", h.TransitionOrder)
	}
}

// AdmitOrder handles POST /orders
func (h *OrderHandler) AdmitOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req AdmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.admission.AdmitOrder(c.Request.Context(), tenantID, ordering.Channel(req.Channel), draft)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AdmissionResponse{
		Order:       toOrderResponse(result.Order),
		Decision:    string(result.Decision),
		CheckoutURL: result.CheckoutURL,
		UpgradeURL:  result.UpgradeURL,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Order ID must be a UUID")
		return
	}

	order, err := h.lifecycle.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	var status *ordering.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := ordering.OrderStatus(raw)
		status = &s
	}

	filter := shared.DefaultFilter()
	filter.Limit = listReq.Limit
	filter.Offset = listReq.Offset
	if ob := listReq.OrderBy(); ob != "" {
		filter.OrderBy = ob
	}

	orders, err := h.lifecycle.ListOrders(c.Request.Context(), tenantID, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(orders), filter.Limit, filter.Offset, len(orders))
}

// TransitionOrder handles POST /orders/:id/transition
func (h *OrderHandler) TransitionOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Order ID must be a UUID")
		return
	}

	var req TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.lifecycle.TransitionOrder(c.Request.Context(), tenantID, orderID, ordering.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order))
}

func (r *AdmitOrderRequest) toDraft() (orderapp.OrderDraft, error) {
	draft := orderapp.OrderDraft{
		CustomerName: r.CustomerName,
		Address:      r.Address,
	}

	if r.Latitude != nil {
		lat := decimal.NewFromFloat(*r.Latitude)
		draft.Latitude = &lat
	}
	if r.Longitude != nil {
		lng := decimal.NewFromFloat(*r.Longitude)
		draft.Longitude = &lng
	}
	if r.TableID != nil {
		tableID, err := uuid.Parse(*r.TableID)
		if err != nil {
			return draft, shared.NewDomainError("INVALID_TABLE", "Table ID must be a UUID")
		}
		draft.TableID = &tableID
	}

	for _, item := range r.Items {
		draftItem := orderapp.DraftItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Note:     item.Note,
		}
		if item.MenuItemID != nil {
			menuItemID, err := uuid.Parse(*item.MenuItemID)
			if err != nil {
				return draft, shared.NewDomainError("INVALID_ITEM", "Menu item ID must be a UUID")
			}
			draftItem.MenuItemID = &menuItemID
		}
		if item.UnitPrice != nil {
			price := decimal.NewFromFloat(*item.UnitPrice)
			draftItem.UnitPrice = &price
		}
		draft.Items = append(draft.Items, draftItem)
	}

	return draft, nil
}
