package catalog

import (
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem represents a sellable item on a tenant's menu
type MenuItem struct {
	shared.TenantAggregateRoot
	Name      string          `gorm:"type:varchar(255);not null"`
	Category  string          `gorm:"type:varchar(100)"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Available bool            `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (MenuItem) TableName() string {
	return "menu_items"
}

// NewMenuItem creates a menu item for a tenant
func NewMenuItem(tenantID uuid.UUID, name, category string, price valueobject.Money) (*MenuItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Menu item name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Menu item name cannot exceed 255 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Menu item price cannot be negative")
	}

	return &MenuItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Category:            category,
		Price:               price.Amount(),
		Available:           true,
	}, nil
}

// Update changes the item's display fields and price
func (m *MenuItem) Update(name, category string, price valueobject.Money) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Menu item name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Menu item price cannot be negative")
	}

	m.Name = name
	m.Category = category
	m.Price = price.Amount()
	m.UpdatedAt = time.Now()

	return nil
}

// SetAvailability toggles whether the item can be ordered
func (m *MenuItem) SetAvailability(available bool) {
	m.Available = available
	m.UpdatedAt = time.Now()
}

// PriceMoney returns the price as Money
func (m *MenuItem) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(m.Price)
}
