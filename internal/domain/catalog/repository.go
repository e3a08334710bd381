package catalog

import (
	"context"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MenuItemRepository defines the interface for menu item persistence
type MenuItemRepository interface {
	// FindByIDForTenant finds a menu item by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MenuItem, error)

	// FindAllForTenant finds all menu items for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MenuItem, error)

	// Save creates or updates a menu item
	Save(ctx context.Context, item *MenuItem) error

	// DeleteForTenant removes a menu item
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
