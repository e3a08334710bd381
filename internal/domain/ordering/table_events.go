package ordering

import (
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeTable = "Table"

// Event type constants
const (
	EventTypeTableOccupied = "TableOccupied"
	EventTypeTablePaid     = "TablePaid"
	EventTypeTableReleased = "TableReleased"
)

// TableOccupiedEvent is raised when a session opens on a table
type TableOccupiedEvent struct {
	shared.BaseDomainEvent
	TableID      uuid.UUID `json:"table_id"`
	Number       int       `json:"number"`
	CustomerName string    `json:"customer_name"`
}

// NewTableOccupiedEvent creates a new TableOccupiedEvent
func NewTableOccupiedEvent(table *Table) *TableOccupiedEvent {
	return &TableOccupiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTableOccupied, AggregateTypeTable, table.ID, table.TenantID),
		TableID:         table.ID,
		Number:          table.Number,
		CustomerName:    table.CustomerName,
	}
}

// EventType returns the event type name
func (e *TableOccupiedEvent) EventType() string {
	return EventTypeTableOccupied
}

// TablePaidEvent is raised when the session bill is settled
type TablePaidEvent struct {
	shared.BaseDomainEvent
	TableID uuid.UUID `json:"table_id"`
	Number  int       `json:"number"`
}

// NewTablePaidEvent creates a new TablePaidEvent
func NewTablePaidEvent(table *Table) *TablePaidEvent {
	return &TablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTablePaid, AggregateTypeTable, table.ID, table.TenantID),
		TableID:         table.ID,
		Number:          table.Number,
	}
}

// EventType returns the event type name
func (e *TablePaidEvent) EventType() string {
	return EventTypeTablePaid
}

// TableReleasedEvent is raised when the table returns to LIVRE
type TableReleasedEvent struct {
	shared.BaseDomainEvent
	TableID uuid.UUID `json:"table_id"`
	Number  int       `json:"number"`
}

// NewTableReleasedEvent creates a new TableReleasedEvent
func NewTableReleasedEvent(table *Table) *TableReleasedEvent {
	return &TableReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTableReleased, AggregateTypeTable, table.ID, table.TenantID),
		TableID:         table.ID,
		Number:          table.Number,
	}
}

// EventType returns the event type name
func (e *TableReleasedEvent) EventType() string {
	return EventTypeTableReleased
}
