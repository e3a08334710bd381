package persistence

import (
	"context"
	"errors"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements subscription.PlanRepository
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByTenant retrieves the plan for a tenant
func (r *GormPlanRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*subscription.TenantPlan, error) {
	var plan subscription.TenantPlan
	err := dbFor(ctx, r.db).First(&plan, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Save creates or updates a tenant plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *subscription.TenantPlan) error {
	return dbFor(ctx, r.db).Save(plan).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormPlanRepository) SaveWithLock(ctx context.Context, plan *subscription.TenantPlan) error {
	plan.IncrementVersion()
	// explicit column list so grants toggled back to false are written
	result := dbFor(ctx, r.db).
		Model(plan).
		Select("Tier", "HasSalonModule", "HasDeliveryModule", "IsLegacyFree", "IsBetaTester",
			"TableLimit", "UserLimit", "MonthlyOrderLimit", "Version", "UpdatedAt").
		Where("id = ? AND version = ?", plan.ID, plan.Version-1).
		Updates(plan)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ subscription.PlanRepository = (*GormPlanRepository)(nil)
