package delivery

import (
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings holds a tenant's delivery configuration. Without restaurant
// coordinates the tenant runs in flat-fee mode and tiers never apply.
type Settings struct {
	shared.TenantAggregateRoot
	FlatFee   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Latitude  *decimal.Decimal `gorm:"type:decimal(10,7)"`
	Longitude *decimal.Decimal `gorm:"type:decimal(10,7)"`
}

// TableName returns the database table name
func (Settings) TableName() string {
	return "delivery_settings"
}

// NewSettings creates default delivery settings for a tenant
func NewSettings(tenantID uuid.UUID) *Settings {
	return &Settings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FlatFee:             decimal.Zero,
	}
}

// SetFlatFee updates the flat delivery fee
func (s *Settings) SetFlatFee(fee valueobject.Money) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Flat fee cannot be negative")
	}
	s.FlatFee = fee.Amount()
	s.UpdatedAt = time.Now()
	return nil
}

// SetCoordinates registers the restaurant location, enabling tiered mode
func (s *Settings) SetCoordinates(lat, lng decimal.Decimal) error {
	if lat.LessThan(decimal.NewFromInt(-90)) || lat.GreaterThan(decimal.NewFromInt(90)) {
		return shared.NewDomainError("INVALID_COORDINATES", "Latitude must be between -90 and 90")
	}
	if lng.LessThan(decimal.NewFromInt(-180)) || lng.GreaterThan(decimal.NewFromInt(180)) {
		return shared.NewDomainError("INVALID_COORDINATES", "Longitude must be between -180 and 180")
	}

	s.Latitude = &lat
	s.Longitude = &lng
	s.UpdatedAt = time.Now()
	return nil
}

// ClearCoordinates removes the restaurant location, reverting to flat-fee mode
func (s *Settings) ClearCoordinates() {
	s.Latitude = nil
	s.Longitude = nil
	s.UpdatedAt = time.Now()
}

// HasCoordinates reports whether the restaurant location is configured
func (s *Settings) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// FlatFeeMoney returns the flat fee as Money
func (s *Settings) FlatFeeMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(s.FlatFee)
}
