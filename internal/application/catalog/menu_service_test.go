package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memMenuRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.MenuItem
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{items: make(map[uuid.UUID]*catalog.MenuItem)}
}

func (r *memMenuRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *memMenuRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.MenuItem
	for _, item := range r.items {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memMenuRepo) Save(_ context.Context, item *catalog.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *memMenuRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func newMenuService() (*MenuService, uuid.UUID) {
	return NewMenuService(newMemMenuRepo(), zap.NewNop()), uuid.New()
}

func TestCreateMenuItem(t *testing.T) {
	service, tenantID := newMenuService()
	ctx := context.Background()

	item, err := service.CreateItem(ctx, tenantID, MenuItemInput{
		Name:     "Feijoada completa",
		Category: "Pratos",
		Price:    decimal.NewFromFloat(42.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Feijoada completa", item.Name)
	assert.True(t, item.Available, "items default to available")

	t.Run("availability can be set on create", func(t *testing.T) {
		off := false
		item, err := service.CreateItem(ctx, tenantID, MenuItemInput{
			Name:      "Moqueca",
			Category:  "Pratos",
			Price:     decimal.NewFromInt(55),
			Available: &off,
		})
		require.NoError(t, err)
		assert.False(t, item.Available)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := service.CreateItem(ctx, tenantID, MenuItemInput{Price: decimal.NewFromInt(10)})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ITEM_NAME", domainErr.Code)
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		_, err := service.CreateItem(ctx, tenantID, MenuItemInput{
			Name:  "Gratis demais",
			Price: decimal.NewFromInt(-1),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})
}

func TestUpdateMenuItem(t *testing.T) {
	service, tenantID := newMenuService()
	ctx := context.Background()

	item, err := service.CreateItem(ctx, tenantID, MenuItemInput{
		Name:     "Feijoada",
		Category: "Pratos",
		Price:    decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	off := false
	updated, err := service.UpdateItem(ctx, tenantID, item.ID, MenuItemInput{
		Name:      "Feijoada completa",
		Category:  "Especiais",
		Price:     decimal.NewFromFloat(45.9),
		Available: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, "Feijoada completa", updated.Name)
	assert.Equal(t, "Especiais", updated.Category)
	assert.Equal(t, "45.90", updated.PriceMoney().StringFixed(2))
	assert.False(t, updated.Available)

	t.Run("unknown item", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, tenantID, uuid.New(), MenuItemInput{
			Name:  "Fantasma",
			Price: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("items are scoped to their tenant", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, uuid.New(), item.ID, MenuItemInput{
			Name:  "Alheio",
			Price: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeleteMenuItem(t *testing.T) {
	service, tenantID := newMenuService()
	ctx := context.Background()

	item, err := service.CreateItem(ctx, tenantID, MenuItemInput{
		Name:     "Pastel",
		Category: "Petiscos",
		Price:    decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteItem(ctx, tenantID, item.ID))

	_, err = service.GetItem(ctx, tenantID, item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	t.Run("deleting twice reports not found", func(t *testing.T) {
		err := service.DeleteItem(ctx, tenantID, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListMenuItems(t *testing.T) {
	service, tenantID := newMenuService()
	ctx := context.Background()

	for _, name := range []string{"Feijoada", "Moqueca", "Pastel"} {
		_, err := service.CreateItem(ctx, tenantID, MenuItemInput{
			Name:     name,
			Category: "Pratos",
			Price:    decimal.NewFromInt(30),
		})
		require.NoError(t, err)
	}

	items, err := service.ListItems(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, items, 3)

	t.Run("other tenants see nothing", func(t *testing.T) {
		items, err := service.ListItems(ctx, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
