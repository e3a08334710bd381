package ordering

import (
	"context"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindOpenForTenant finds all non-finalized orders for a tenant
	FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) ([]Order, error)

	// FindByTable finds the sub-orders of a table session
	FindByTable(ctx context.Context, tenantID, tableID uuid.UUID) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error
}

// TableRepository defines the interface for table persistence
type TableRepository interface {
	// FindByIDForTenant finds a table by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Table, error)

	// FindAllForTenant finds all tables for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Table, error)

	// FindByNumber finds a table by its number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number int) (*Table, error)

	// Save creates or updates a table
	Save(ctx context.Context, table *Table) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, table *Table) error
}
