package subscription

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository defines the interface for tenant plan persistence
type PlanRepository interface {
	// FindByTenant finds the plan for a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*TenantPlan, error)

	// Save creates or updates a tenant plan
	Save(ctx context.Context, plan *TenantPlan) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plan *TenantPlan) error
}
