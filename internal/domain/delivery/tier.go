package delivery

import (
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeTier maps a delivery radius to a fee. A tenant configures a set of
// tiers; an order's fee comes from the innermost tier that still covers
// the delivery distance.
type FeeTier struct {
	shared.TenantAggregateRoot
	Label         string          `gorm:"type:varchar(100)"`
	MaxDistanceKm decimal.Decimal `gorm:"type:decimal(8,3);not null"`
	Fee           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinimumOrder  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the database table name
func (FeeTier) TableName() string {
	return "delivery_fee_tiers"
}

// NewFeeTier creates a fee tier for a tenant
func NewFeeTier(tenantID uuid.UUID, label string, maxDistanceKm decimal.Decimal, fee, minimumOrder valueobject.Money) (*FeeTier, error) {
	if maxDistanceKm.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_DISTANCE", "Tier max distance must be positive")
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Tier fee cannot be negative")
	}
	if minimumOrder.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MINIMUM_ORDER", "Tier minimum order cannot be negative")
	}

	return &FeeTier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Label:               label,
		MaxDistanceKm:       maxDistanceKm,
		Fee:                 fee.Amount(),
		MinimumOrder:        minimumOrder.Amount(),
	}, nil
}

// Covers reports whether the tier reaches the given distance
func (t *FeeTier) Covers(distanceKm decimal.Decimal) bool {
	return distanceKm.LessThanOrEqual(t.MaxDistanceKm)
}

// FeeMoney returns the tier fee as Money
func (t *FeeTier) FeeMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(t.Fee)
}

// MinimumOrderMoney returns the tier minimum order value as Money
func (t *FeeTier) MinimumOrderMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(t.MinimumOrder)
}

// UpdateFee changes the tier fee
func (t *FeeTier) UpdateFee(fee valueobject.Money) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Tier fee cannot be negative")
	}
	t.Fee = fee.Amount()
	t.UpdatedAt = time.Now()
	return nil
}
