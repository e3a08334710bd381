package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ordering.Order{}, &ordering.OrderItem{}))
	return db
}

func newTestDeliveryOrder(t *testing.T, tenantID uuid.UUID) *ordering.Order {
	t.Helper()
	fee := valueobject.NewMoneyBRLFromFloat(8)
	minimum := valueobject.NewMoneyBRLFromFloat(0)
	order, err := ordering.NewDeliveryOrder(tenantID, "Joana", "Rua das Flores 12", fee, minimum)
	require.NoError(t, err)
	_, err = order.AppendItem("Pizza margherita", valueobject.NewMoneyBRLFromFloat(42.5), 1, "")
	require.NoError(t, err)
	return order
}

func TestOrderRepositorySaveAndFind(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newTestDeliveryOrder(t, tenantID)
	_, err := order.AppendItem("Refrigerante", valueobject.NewMoneyBRLFromFloat(6), 2, "sem gelo")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordering.ChannelDelivery, found.Channel)
	assert.Equal(t, "Joana", found.CustomerName)
	require.Len(t, found.Items, 2, "items must be loaded with the order")
	assert.True(t, found.ComputedTotal.Equal(order.ComputedTotal),
		"expected total %s, got %s", order.ComputedTotal, found.ComputedTotal)

	t.Run("wrong tenant is not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestOrderRepositoryFindOpenForTenant(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	open := newTestDeliveryOrder(t, tenantID)
	require.NoError(t, repo.Save(ctx, open))

	closed := newTestDeliveryOrder(t, tenantID)
	closed.ForceFinalize()
	require.NoError(t, repo.Save(ctx, closed))

	other := newTestDeliveryOrder(t, uuid.New())
	require.NoError(t, repo.Save(ctx, other))

	orders, err := repo.FindOpenForTenant(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, open.ID, orders[0].ID)
}

func TestOrderRepositoryFindByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	pending := newTestDeliveryOrder(t, tenantID)
	require.NoError(t, repo.Save(ctx, pending))

	preparing := newTestDeliveryOrder(t, tenantID)
	require.NoError(t, preparing.StartPreparing())
	require.NoError(t, repo.Save(ctx, preparing))

	orders, err := repo.FindByStatus(ctx, tenantID, ordering.OrderStatusPendente, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)
}

func TestOrderRepositorySaveWithLock(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newTestDeliveryOrder(t, tenantID)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("matching version saves", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.StartPreparing())
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		fresh, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusEmPreparo, fresh.Status)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)

		current, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		require.NoError(t, current.MarkReady())
		require.NoError(t, repo.SaveWithLock(ctx, current))

		require.NoError(t, stale.MarkReady())
		err = repo.SaveWithLock(ctx, stale)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
	})
}
