package persistence

import (
	"context"
	"errors"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant retrieves one order scoped to a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	err := dbFor(ctx, r.db).
		Preload("Items").
		First(&order, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant returns a tenant's orders, newest first
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order(SanitizeOrderBy(filter.OrderBy, OrderSortFields, "created_at")).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus returns a tenant's orders in one status, newest first
func (r *GormOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	var orders []ordering.Order
	err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order(SanitizeOrderBy(filter.OrderBy, OrderSortFields, "created_at")).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOpenForTenant returns every order that is not finalized,
// including held ones
func (r *GormOrderRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.Order, error) {
	var orders []ordering.Order
	err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND status <> ?", tenantID, ordering.OrderStatusFinalizado).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByTable returns the orders attached to a table session
func (r *GormOrderRepository) FindByTable(ctx context.Context, tenantID, tableID uuid.UUID) ([]ordering.Order, error) {
	var orders []ordering.Order
	err := dbFor(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND table_id = ?", tenantID, tableID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	return dbFor(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	order.IncrementVersion()
	result := dbFor(ctx, r.db).
		Model(order).
		Omit("Items").
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
