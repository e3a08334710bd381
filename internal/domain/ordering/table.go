package ordering

import (
	"fmt"
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TableStatus represents the status of a dine-in table
type TableStatus string

const (
	// TableStatusLivre means the table is free
	TableStatusLivre TableStatus = "LIVRE"

	// TableStatusOcupada means a session is open and accumulating orders
	TableStatusOcupada TableStatus = "OCUPADA"

	// TableStatusPaga means the bill was settled; release pending
	TableStatusPaga TableStatus = "PAGA"
)

// IsValid checks if the status is a valid TableStatus
func (s TableStatus) IsValid() bool {
	switch s {
	case TableStatusLivre, TableStatusOcupada, TableStatusPaga:
		return true
	}
	return false
}

// String returns the string representation of TableStatus
func (s TableStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TableStatus) CanTransitionTo(target TableStatus) bool {
	switch s {
	case TableStatusLivre:
		return target == TableStatusOcupada
	case TableStatusOcupada:
		return target == TableStatusPaga
	case TableStatusPaga:
		return target == TableStatusLivre
	}
	return false
}

// Table represents a dine-in table aggregate root. A session runs from
// occupation to release; releasing wipes all session data so the next
// customer starts clean.
type Table struct {
	shared.TenantAggregateRoot
	Number       int         `gorm:"not null"`
	Status       TableStatus `gorm:"type:varchar(20);not null;default:'LIVRE'"`
	CustomerName string      `gorm:"type:varchar(255)"`
	OrderIDs     []uuid.UUID `gorm:"-"`
	OccupiedAt   *time.Time
	PaidAt       *time.Time
}

// TableName returns the database table name
func (Table) TableName() string {
	return "tables"
}

// NewTable creates a free table for a tenant
func NewTable(tenantID uuid.UUID, number int) (*Table, error) {
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_TABLE_NUMBER", "Table number must be positive")
	}

	return &Table{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		Status:              TableStatusLivre,
		OrderIDs:            make([]uuid.UUID, 0),
	}, nil
}

// Occupy opens a session on a free table
func (t *Table) Occupy(customerName string) error {
	if !t.Status.CanTransitionTo(TableStatusOcupada) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot occupy table in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TableStatusOcupada
	t.CustomerName = customerName
	t.OrderIDs = make([]uuid.UUID, 0)
	t.OccupiedAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTableOccupiedEvent(t))

	return nil
}

// AttachOrder links a sub-order to the open session
func (t *Table) AttachOrder(orderID uuid.UUID) error {
	if t.Status != TableStatusOcupada {
		return shared.NewDomainError("INVALID_STATE", "Orders can only be added to an occupied table")
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	t.OrderIDs = append(t.OrderIDs, orderID)
	t.UpdatedAt = time.Now()

	return nil
}

// MarkPaid settles the session bill
func (t *Table) MarkPaid() error {
	if !t.Status.CanTransitionTo(TableStatusPaga) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot mark table in %s status as paid", t.Status))
	}

	now := time.Now()
	t.Status = TableStatusPaga
	t.PaidAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTablePaidEvent(t))

	return nil
}

// Release frees the table and wipes all session data
func (t *Table) Release() error {
	if !t.Status.CanTransitionTo(TableStatusLivre) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot release table in %s status", t.Status))
	}

	t.wipeSession()
	t.AddDomainEvent(NewTableReleasedEvent(t))

	return nil
}

// ForceRelease frees the table regardless of its current status. Used
// only by cycle close.
func (t *Table) ForceRelease() {
	if t.Status == TableStatusLivre {
		return
	}
	t.wipeSession()
	t.AddDomainEvent(NewTableReleasedEvent(t))
}

func (t *Table) wipeSession() {
	t.Status = TableStatusLivre
	t.CustomerName = ""
	t.OrderIDs = make([]uuid.UUID, 0)
	t.OccupiedAt = nil
	t.PaidAt = nil
	t.UpdatedAt = time.Now()
}

// IsFree returns true when no session is open
func (t *Table) IsFree() bool {
	return t.Status == TableStatusLivre
}

// IsOccupied returns true when a session is open
func (t *Table) IsOccupied() bool {
	return t.Status == TableStatusOcupada
}
