package persistence

import (
	"context"
	"errors"

	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTierRepository implements delivery.TierRepository
type GormTierRepository struct {
	db *gorm.DB
}

// NewGormTierRepository creates a new fee tier repository
func NewGormTierRepository(db *gorm.DB) *GormTierRepository {
	return &GormTierRepository{db: db}
}

// FindAllForTenant returns the tenant's tier set ordered by radius
func (r *GormTierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]delivery.FeeTier, error) {
	var tiers []delivery.FeeTier
	err := dbFor(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("max_distance_km ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// ReplaceForTenant swaps the tenant's whole tier set in one transaction
func (r *GormTierRepository) ReplaceForTenant(ctx context.Context, tenantID uuid.UUID, tiers []delivery.FeeTier) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&delivery.FeeTier{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}
		return tx.Create(&tiers).Error
	})
}

var _ delivery.TierRepository = (*GormTierRepository)(nil)

// GormSettingsRepository implements delivery.SettingsRepository
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new delivery settings repository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByTenant retrieves the delivery settings for a tenant
func (r *GormSettingsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*delivery.Settings, error) {
	var settings delivery.Settings
	err := dbFor(ctx, r.db).First(&settings, "tenant_id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the delivery settings
func (r *GormSettingsRepository) Save(ctx context.Context, settings *delivery.Settings) error {
	return dbFor(ctx, r.db).Save(settings).Error
}

var _ delivery.SettingsRepository = (*GormSettingsRepository)(nil)
