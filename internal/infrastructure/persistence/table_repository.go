package persistence

import (
	"context"
	"errors"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTableRepository implements ordering.TableRepository. The session
// order list is not a column; it is rebuilt from the open orders
// pointing at the table, so a released session always loads empty.
type GormTableRepository struct {
	db *gorm.DB
}

// NewGormTableRepository creates a new table repository
func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

// FindByIDForTenant retrieves one table scoped to a tenant
func (r *GormTableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Table, error) {
	var table ordering.Table
	err := dbFor(ctx, r.db).First(&table, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSessionOrders(ctx, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// FindAllForTenant returns all tables for a tenant ordered by number
func (r *GormTableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ordering.Table, error) {
	var tables []ordering.Table
	err := dbFor(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	for i := range tables {
		if err := r.loadSessionOrders(ctx, &tables[i]); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// FindByNumber retrieves a table by its number
func (r *GormTableRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number int) (*ordering.Table, error) {
	var table ordering.Table
	err := dbFor(ctx, r.db).First(&table, "tenant_id = ? AND number = ?", tenantID, number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadSessionOrders(ctx, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Save creates or updates a table
func (r *GormTableRepository) Save(ctx context.Context, table *ordering.Table) error {
	return dbFor(ctx, r.db).Save(table).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormTableRepository) SaveWithLock(ctx context.Context, table *ordering.Table) error {
	table.IncrementVersion()
	result := dbFor(ctx, r.db).
		Model(table).
		Select("Number", "Status", "CustomerName", "OccupiedAt", "PaidAt", "Version", "UpdatedAt").
		Where("id = ? AND version = ?", table.ID, table.Version-1).
		Updates(table)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormTableRepository) loadSessionOrders(ctx context.Context, table *ordering.Table) error {
	if table.Status == ordering.TableStatusLivre {
		table.OrderIDs = nil
		return nil
	}
	var ids []uuid.UUID
	err := dbFor(ctx, r.db).
		Model(&ordering.Order{}).
		Where("tenant_id = ? AND table_id = ? AND status <> ?",
			table.TenantID, table.ID, ordering.OrderStatusFinalizado).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	table.OrderIDs = ids
	return nil
}

var _ ordering.TableRepository = (*GormTableRepository)(nil)
