package handler

import (
	"time"

	catalogapp "github.com/comanda/backend/internal/application/catalog"
	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuHandler handles menu administration endpoints
type MenuHandler struct {
	BaseHandler
	menu *catalogapp.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(menu *catalogapp.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// MenuItemRequest creates or updates a menu item
type MenuItemRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=255"`
	Category  string  `json:"category" binding:"omitempty,max=100"`
	Price     float64 `json:"price" binding:"required,gte=0"`
	Available *bool   `json:"available"`
}

// MenuItemResponse is a menu item in API responses
type MenuItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     string    `json:"price"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMenuItemResponse(item *catalog.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Category:  item.Category,
		Price:     item.Price.StringFixed(2),
		Available: item.Available,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// RegisterRoutes registers menu routes
func (h *MenuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	menu := rg.Group("/menu/items")
	{
		menu.POST("", h.CreateItem)
		menu.GET("", h.ListItems)
		menu.GET("/:id", h.GetItem)
		menu.PUT("/:id", h.UpdateItem)
		menu.DELETE("/:id", h.DeleteItem)
	}
}

// CreateItem handles POST /menu/items
func (h *MenuHandler) CreateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.menu.CreateItem(c.Request.Context(), tenantID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toMenuItemResponse(item))
}

// GetItem handles GET /menu/items/:id
func (h *MenuHandler) GetItem(c *gin.Context) {
	tenantID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}

	item, err := h.menu.GetItem(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toMenuItemResponse(item))
}

// ListItems handles GET /menu/items
func (h *MenuHandler) ListItems(c *gin.Context) {
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

	filter := shared.DefaultFilter()
	filter.Limit = listReq.Limit
	filter.Offset = listReq.Offset
	filter.OrderBy = listReq.OrderBy()

	items, err := h.menu.ListItems(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toMenuItemResponse(&items[i]))
	}
	h.SuccessWithMeta(c, out, filter.Limit, filter.Offset, len(out))
}

// UpdateItem handles PUT /menu/items/:id
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	tenantID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.menu.UpdateItem(c.Request.Context(), tenantID, itemID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toMenuItemResponse(item))
}

// DeleteItem handles DELETE /menu/items/:id
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	tenantID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}

	if err := h.menu.DeleteItem(c.Request.Context(), tenantID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *MenuHandler) itemScope(c *gin.Context) (tenantID, itemID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return uuid.Nil, uuid.Nil, false
	}

	itemID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Menu item ID must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, itemID, true
}

func (r *MenuItemRequest) toInput() catalogapp.MenuItemInput {
	return catalogapp.MenuItemInput{
		Name:      r.Name,
		Category:  r.Category,
		Price:     decimal.NewFromFloat(r.Price),
		Available: r.Available,
	}
}
