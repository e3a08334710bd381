package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TierInput is one tier of a full-replace request
type TierInput struct {
	Label         string
	MaxDistanceKm decimal.Decimal
	Fee           decimal.Decimal
	MinimumOrder  decimal.Decimal
}

// SettingsInput carries the delivery settings replacement
type SettingsInput struct {
	FlatFee   decimal.Decimal
	Latitude  *decimal.Decimal
	Longitude *decimal.Decimal
}

// TierService administers a tenant's delivery fee configuration.
// Tier writes are full replacements: the request's tier set becomes
// the tenant's tier set.
type TierService struct {
	tierRepo     delivery.TierRepository
	settingsRepo delivery.SettingsRepository
	logger       *zap.Logger
}

// NewTierService creates a new TierService
func NewTierService(tierRepo delivery.TierRepository, settingsRepo delivery.SettingsRepository, logger *zap.Logger) *TierService {
	return &TierService{
		tierRepo:     tierRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// ReplaceTiers swaps the tenant's whole tier set. Each tier only needs
// a positive radius; overlaps and gaps are accepted as configured.
func (s *TierService) ReplaceTiers(ctx context.Context, tenantID uuid.UUID, inputs []TierInput) ([]delivery.FeeTier, error) {
	tiers := make([]delivery.FeeTier, 0, len(inputs))
	for _, input := range inputs {
		tier, err := delivery.NewFeeTier(tenantID, input.Label, input.MaxDistanceKm,
			valueobject.NewMoneyBRL(input.Fee), valueobject.NewMoneyBRL(input.MinimumOrder))
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *tier)
	}

	if err := s.tierRepo.ReplaceForTenant(ctx, tenantID, tiers); err != nil {
		return nil, fmt.Errorf("failed to replace delivery tiers: %w", err)
	}

	s.logger.Info("Delivery tiers replaced",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("count", len(tiers)))

	return tiers, nil
}

// ListTiers returns the tenant's tier set
func (s *TierService) ListTiers(ctx context.Context, tenantID uuid.UUID) ([]delivery.FeeTier, error) {
	return s.tierRepo.FindAllForTenant(ctx, tenantID)
}

// UpdateSettings replaces the tenant's delivery settings
func (s *TierService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input SettingsInput) (*delivery.Settings, error) {
	settings, err := s.settingsRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to load delivery settings: %w", err)
		}
		settings = delivery.NewSettings(tenantID)
	}

	if err := settings.SetFlatFee(valueobject.NewMoneyBRL(input.FlatFee)); err != nil {
		return nil, err
	}

	if input.Latitude != nil && input.Longitude != nil {
		if err := settings.SetCoordinates(*input.Latitude, *input.Longitude); err != nil {
			return nil, err
		}
	} else {
		settings.ClearCoordinates()
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save delivery settings: %w", err)
	}

	s.logger.Info("Delivery settings updated",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("tiered_mode", settings.HasCoordinates()))

	return settings, nil
}

// GetSettings returns the tenant's delivery settings, defaults when unset
func (s *TierService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*delivery.Settings, error) {
	settings, err := s.settingsRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return delivery.NewSettings(tenantID), nil
		}
		return nil, fmt.Errorf("failed to load delivery settings: %w", err)
	}
	return settings, nil
}
