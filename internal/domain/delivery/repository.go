package delivery

import (
	"context"

	"github.com/google/uuid"
)

// TierRepository defines the interface for fee tier persistence
type TierRepository interface {
	// FindAllForTenant returns all tiers configured for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]FeeTier, error)

	// ReplaceForTenant swaps the tenant's whole tier set in one transaction
	ReplaceForTenant(ctx context.Context, tenantID uuid.UUID, tiers []FeeTier) error
}

// SettingsRepository defines the interface for delivery settings persistence
type SettingsRepository interface {
	// FindByTenant returns the settings for a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Settings, error)

	// Save creates or updates the settings
	Save(ctx context.Context, settings *Settings) error
}
