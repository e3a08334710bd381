package persistence

import (
	"context"
	"errors"

	"github.com/comanda/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUsageRepository implements billing.UsageRepository. The guarded
// increment runs as a single UPDATE so that the database, not the
// application, is the last line of defense against overshooting the
// free-tier limit.
type GormUsageRepository struct {
	db *gorm.DB
}

// NewGormUsageRepository creates a new usage counter repository
func NewGormUsageRepository(db *gorm.DB) *GormUsageRepository {
	return &GormUsageRepository{db: db}
}

// CurrentCount returns the count for a tenant and period, zero when no
// counter row exists yet
func (r *GormUsageRepository) CurrentCount(ctx context.Context, tenantID uuid.UUID, period string) (int, error) {
	var counter billing.UsageCounter
	err := dbFor(ctx, r.db).
		First(&counter, "tenant_id = ? AND period = ?", tenantID, period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Used, nil
}

// IncrementWithinLimit atomically increments the counter for a tenant
// and period, creating the row if needed. Returns false when the
// increment would push the count past limit; a negative limit never
// blocks.
func (r *GormUsageRepository) IncrementWithinLimit(ctx context.Context, tenantID uuid.UUID, period string, limit int) (bool, error) {
	db := dbFor(ctx, r.db)

	result := db.Model(&billing.UsageCounter{}).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Where("? < 0 OR used < ?", limit, limit).
		UpdateColumn("used", gorm.Expr("used + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// either the row does not exist yet or the limit is reached
	var existing int64
	err := db.Model(&billing.UsageCounter{}).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Count(&existing).Error
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	if limit == 0 {
		return false, nil
	}
	counter, err := billing.NewUsageCounter(tenantID, period)
	if err != nil {
		return false, err
	}
	counter.Increment()
	if err := db.Create(counter).Error; err != nil {
		// a concurrent admission created the row first; retry the
		// guarded update once
		retry := db.Model(&billing.UsageCounter{}).
			Where("tenant_id = ? AND period = ?", tenantID, period).
			Where("? < 0 OR used < ?", limit, limit).
			UpdateColumn("used", gorm.Expr("used + 1"))
		if retry.Error != nil {
			return false, retry.Error
		}
		return retry.RowsAffected > 0, nil
	}
	return true, nil
}

// Reset removes the counter row for a tenant and period
func (r *GormUsageRepository) Reset(ctx context.Context, tenantID uuid.UUID, period string) error {
	return dbFor(ctx, r.db).
		Where("tenant_id = ? AND period = ?", tenantID, period).
		Delete(&billing.UsageCounter{}).Error
}

var _ billing.UsageRepository = (*GormUsageRepository)(nil)
