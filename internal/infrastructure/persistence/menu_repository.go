package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuRepository implements catalog.MenuItemRepository
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new menu item repository
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// FindByIDForTenant retrieves one menu item scoped to a tenant
func (r *GormMenuRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.MenuItem, error) {
	var item catalog.MenuItem
	err := dbFor(ctx, r.db).First(&item, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAllForTenant returns the tenant's menu grouped by category unless the
// filter asks for a different sort
func (r *GormMenuRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.MenuItem, error) {
	orderBy := "category ASC, name ASC"
	if f := strings.Fields(filter.OrderBy); len(f) > 0 && MenuItemSortFields[f[0]] {
		orderBy = SanitizeOrderBy(filter.OrderBy, MenuItemSortFields, "name")
	}
	var items []catalog.MenuItem
	err := dbFor(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order(orderBy).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a menu item
func (r *GormMenuRepository) Save(ctx context.Context, item *catalog.MenuItem) error {
	return dbFor(ctx, r.db).Save(item).Error
}

// DeleteForTenant removes a menu item scoped to a tenant
func (r *GormMenuRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFor(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&catalog.MenuItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.MenuItemRepository = (*GormMenuRepository)(nil)
