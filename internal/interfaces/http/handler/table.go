package handler

import (
	"time"

	orderapp "github.com/comanda/backend/internal/application/ordering"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TableHandler handles dine-in table endpoints
type TableHandler struct {
	BaseHandler
	tables    *orderapp.TableService
	admission *orderapp.AdmissionService
}

// NewTableHandler creates a new TableHandler
func NewTableHandler(tables *orderapp.TableService, admission *orderapp.AdmissionService) *TableHandler {
	return &TableHandler{tables: tables, admission: admission}
}

// CreateTableRequest creates a new table
type CreateTableRequest struct {
	Number int `json:"number" binding:"required,gt=0"`
}

// OccupyTableRequest opens a session on a table
type OccupyTableRequest struct {
	CustomerName string `json:"customer_name" binding:"required,min=1,max=255"`
}

// TableOrderRequest appends a sub-order to an occupied table's session
type TableOrderRequest struct {
	Items []AdmitOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TableResponse is a table in API responses
type TableResponse struct {
	ID           uuid.UUID   `json:"id"`
	Number       int         `json:"number"`
	Status       string      `json:"status"`
	CustomerName string      `json:"customer_name,omitempty"`
	OrderIDs     []uuid.UUID `json:"order_ids"`
	OccupiedAt   *time.Time  `json:"occupied_at,omitempty"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TableSessionResponse is a table with its session orders and total
type TableSessionResponse struct {
	Table  TableResponse   `json:"table"`
	Orders []OrderResponse `json:"orders"`
	Total  string          `json:"total"`
}

func toTableResponse(table *ordering.Table) TableResponse {
	orderIDs := table.OrderIDs
	if orderIDs == nil {
		orderIDs = []uuid.UUID{}
	}
	return TableResponse{
		ID:           table.ID,
		Number:       table.Number,
		Status:       table.Status.String(),
		CustomerName: table.CustomerName,
		OrderIDs:     orderIDs,
		OccupiedAt:   table.OccupiedAt,
		PaidAt:       table.PaidAt,
		CreatedAt:    table.CreatedAt,
	}
}

// RegisterRoutes registers table routes
func (h *TableHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tables := rg.Group("/tables")
	{
		tables.POST("", h.CreateTable)
		tables.GET("", h.ListTables)
		tables.GET("/:id/session", h.GetSession)
		tables.POST("/:id/orders", h.AppendOrder)
		tables.POST("/:id/occupy", h.OccupyTable)
		tables.POST("/:id/pay", h.PayTable)
		tables.POST("/:id/release", h.ReleaseTable)
	}
}

// CreateTable handles POST /tables
func (h *TableHandler) CreateTable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	table, err := h.tables.CreateTable(c.Request.Context(), tenantID, req.Number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTableResponse(table))
}

// ListTables handles GET /tables
func (h *TableHandler) ListTables(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return
	}

	tables, err := h.tables.ListTables(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, toTableResponse(&tables[i]))
	}
	h.Success(c, out)
}

// GetSession handles GET /tables/:id/session
func (h *TableHandler) GetSession(c *gin.Context) {
	tenantID, tableID, ok := h.tableScope(c)
	if !ok {
		return
	}

	session, err := h.tables.GetSession(c.Request.Context(), tenantID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TableSessionResponse{
		Table:  toTableResponse(session.Table),
		Orders: toOrderResponses(session.Orders),
		Total:  session.Total.Amount().StringFixed(2),
	})
}

// AppendOrder handles POST /tables/:id/orders. Table orders go through
// the same admission path as POST /orders but the channel and table are
// fixed by the route.
func (h *TableHandler) AppendOrder(c *gin.Context) {
	tenantID, tableID, ok := h.tableScope(c)
	if !ok {
		return
	}

	var req TableOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	admitReq := AdmitOrderRequest{Items: req.Items}
	draft, err := admitReq.toDraft()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	draft.TableID = &tableID

	result, err := h.admission.AdmitOrder(c.Request.Context(), tenantID, ordering.ChannelTable, draft)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOrderResponse(result.Order))
}

// OccupyTable handles POST /tables/:id/occupy
func (h *TableHandler) OccupyTable(c *gin.Context) {
	tenantID, tableID, ok := h.tableScope(c)
	if !ok {
		return
	}

	var req OccupyTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	table, err := h.tables.OccupyTable(c.Request.Context(), tenantID, tableID, req.CustomerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTableResponse(table))
}

// PayTable handles POST /tables/:id/pay
func (h *TableHandler) PayTable(c *gin.Context) {
	tenantID, tableID, ok := h.tableScope(c)
	if !ok {
		return
	}

	table, err := h.tables.PayTable(c.Request.Context(), tenantID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTableResponse(table))
}

// ReleaseTable handles POST /tables/:id/release
func (h *TableHandler) ReleaseTable(c *gin.Context) {
	tenantID, tableID, ok := h.tableScope(c)
	if !ok {
		return
	}

	table, err := h.tables.ReleaseTable(c.Request.Context(), tenantID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTableResponse(table))
}

func (h *TableHandler) tableScope(c *gin.Context) (tenantID, tableID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeMissingTenant, "Tenant context missing")
		return uuid.Nil, uuid.Nil, false
	}

	tableID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Table ID must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, tableID, true
}
