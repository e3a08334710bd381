package ordering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comanda/backend/internal/domain/billing"
	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	restaurantLat = -23.5505
	restaurantLng = -46.6333
)

func seedPlan(t *testing.T, f *fixture, tier subscription.PlanTier) *subscription.TenantPlan {
	t.Helper()
	plan, err := subscription.NewTenantPlan(f.tenantID, tier)
	require.NoError(t, err)
	require.NoError(t, f.planRepo.Save(context.Background(), plan))
	return plan
}

func seedTieredDelivery(t *testing.T, f *fixture) {
	t.Helper()
	settings := delivery.NewSettings(f.tenantID)
	require.NoError(t, settings.SetFlatFee(valueobject.NewMoneyBRLFromFloat(10)))
	require.NoError(t, settings.SetCoordinates(decimal.NewFromFloat(restaurantLat), decimal.NewFromFloat(restaurantLng)))
	require.NoError(t, f.settings.Save(context.Background(), settings))

	var tiers []delivery.FeeTier
	for _, spec := range []struct {
		label   string
		maxKm   float64
		fee     float64
		minimum float64
	}{
		{"Centro", 3, 5, 20},
		{"Zona Sul", 6, 8, 30},
		{"Regiao metropolitana", 10, 12, 50},
	} {
		tier, err := delivery.NewFeeTier(f.tenantID, spec.label,
			decimal.NewFromFloat(spec.maxKm),
			valueobject.NewMoneyBRLFromFloat(spec.fee),
			valueobject.NewMoneyBRLFromFloat(spec.minimum))
		require.NoError(t, err)
		tiers = append(tiers, *tier)
	}
	require.NoError(t, f.tierRepo.ReplaceForTenant(context.Background(), f.tenantID, tiers))
}

func seedFlatDelivery(t *testing.T, f *fixture) {
	t.Helper()
	settings := delivery.NewSettings(f.tenantID)
	require.NoError(t, settings.SetFlatFee(valueobject.NewMoneyBRLFromFloat(7)))
	require.NoError(t, f.settings.Save(context.Background(), settings))
}

func freeFormDraft(total float64) OrderDraft {
	price := decimal.NewFromFloat(total)
	return OrderDraft{
		CustomerName: "Ana",
		Address:      "Rua Augusta, 100",
		Items: []DraftItem{
			{Name: "Marmita", UnitPrice: &price, Quantity: 1},
		},
	}
}

func withCustomerCoords(draft OrderDraft, lat, lng float64) OrderDraft {
	latDec := decimal.NewFromFloat(lat)
	lngDec := decimal.NewFromFloat(lng)
	draft.Latitude = &latDec
	draft.Longitude = &lngDec
	return draft
}

func currentCount(t *testing.T, f *fixture) int {
	t.Helper()
	count, err := f.usageRepo.CurrentCount(context.Background(), f.tenantID, billing.CurrentPeriod(time.Now()))
	require.NoError(t, err)
	return count
}

func TestAdmitOrderValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("rejects unknown channel", func(t *testing.T) {
		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.Channel("DRIVE_THRU"), freeFormDraft(30))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CHANNEL", domainErr.Code)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, OrderDraft{CustomerName: "Ana"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
	})
}

func TestAdmitDeliveryOrderFlatFee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)
	seedFlatDelivery(t, f)

	result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, freeFormDraft(30))
	require.NoError(t, err)

	assert.Equal(t, billing.DecisionAllowed, result.Decision)
	assert.Equal(t, ordering.OrderStatusPendente, result.Order.Status)
	assert.True(t, result.Order.DeliveryFee.Equal(decimal.NewFromInt(7)))
	assert.Nil(t, result.Order.DistanceKm)
	assert.Empty(t, result.CheckoutURL)
	assert.Empty(t, result.UpgradeURL)

	saved, err := f.orderRepo.FindByIDForTenant(ctx, f.tenantID, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordering.ChannelDelivery, saved.Channel)
	assert.Equal(t, 1, currentCount(t, f), "an allowed admission commits the counter")
}

func TestAdmitDeliveryOrderTieredFee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)
	seedTieredDelivery(t, f)

	t.Run("customer at the restaurant lands in the first band", func(t *testing.T) {
		draft := withCustomerCoords(freeFormDraft(30), restaurantLat, restaurantLng)
		result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		require.NoError(t, err)

		assert.True(t, result.Order.DeliveryFee.Equal(decimal.NewFromInt(5)))
		require.NotNil(t, result.Order.DistanceKm)
		assert.True(t, result.Order.DistanceKm.IsZero())
	})

	t.Run("customer a few kilometers out lands in the second band", func(t *testing.T) {
		// roughly 4.4 km straight north
		draft := withCustomerCoords(freeFormDraft(40), restaurantLat+0.04, restaurantLng)
		result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		require.NoError(t, err)

		assert.True(t, result.Order.DeliveryFee.Equal(decimal.NewFromInt(8)))
	})

	t.Run("customer outside every band is not covered", func(t *testing.T) {
		// a full degree of latitude, over 100 km away
		draft := withCustomerCoords(freeFormDraft(200), restaurantLat+1, restaurantLng)
		before := currentCount(t, f)

		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		require.Error(t, err)
		assert.True(t, errors.Is(err, delivery.ErrNotCovered))
		assert.Equal(t, before, currentCount(t, f), "a rejected admission must not consume quota")
	})
}

func TestAdmitDeliveryOrderBelowMinimum(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)
	seedTieredDelivery(t, f)

	// first band requires a 20 BRL minimum
	draft := withCustomerCoords(freeFormDraft(15), restaurantLat, restaurantLng)
	_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MINIMUM_ORDER_NOT_MET", domainErr.Code)
	assert.Equal(t, 0, currentCount(t, f))
}

func TestAdmitDeliveryOrderModuleNotAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierSalonPDV)
	seedFlatDelivery(t, f)

	_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, freeFormDraft(30))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MODULE_NOT_AVAILABLE", domainErr.Code)
}

func TestAdmitDeliveryOrderLimitReached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)
	seedFlatDelivery(t, f)

	period := billing.CurrentPeriod(time.Now())
	for i := 0; i < subscription.DefaultFreeOrderLimit; i++ {
		ok, err := f.usageRepo.IncrementWithinLimit(ctx, f.tenantID, period, subscription.DefaultFreeOrderLimit)
		require.NoError(t, err)
		require.True(t, ok)
	}

	result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, freeFormDraft(30))
	require.NoError(t, err)

	assert.Equal(t, billing.DecisionLimitReached, result.Decision)
	assert.Equal(t, ordering.OrderStatusAguardandoPgtoLimite, result.Order.Status)
	assert.Contains(t, result.CheckoutURL, result.Order.ID.String())
	assert.Contains(t, result.UpgradeURL, f.tenantID.String(), "a held order offers the plan upgrade as the second way out")
	assert.Equal(t, subscription.DefaultFreeOrderLimit, currentCount(t, f), "a held order must not consume quota")

	saved, err := f.orderRepo.FindByIDForTenant(ctx, f.tenantID, result.Order.ID)
	require.NoError(t, err)
	assert.True(t, saved.IsHeld())
}

func TestAdmitDeliveryOrderPaidPlanSkipsQuota(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierDeliveryPro)
	seedFlatDelivery(t, f)

	for i := 0; i < 10; i++ {
		result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, freeFormDraft(30))
		require.NoError(t, err)
		assert.Equal(t, billing.DecisionAllowed, result.Decision)
	}
	assert.Equal(t, 0, currentCount(t, f))
}

func TestAdmitDeliveryOrderMenuPricing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)
	seedFlatDelivery(t, f)

	feijoada, err := catalog.NewMenuItem(f.tenantID, "Feijoada completa", "Pratos", valueobject.NewMoneyBRLFromFloat(42.5))
	require.NoError(t, err)
	require.NoError(t, f.menuRepo.Save(ctx, feijoada))

	offMenu, err := catalog.NewMenuItem(f.tenantID, "Moqueca", "Pratos", valueobject.NewMoneyBRLFromFloat(55))
	require.NoError(t, err)
	offMenu.SetAvailability(false)
	require.NoError(t, f.menuRepo.Save(ctx, offMenu))

	t.Run("menu references are priced server-side", func(t *testing.T) {
		clientPrice := decimal.NewFromInt(1) // must be ignored
		draft := OrderDraft{
			CustomerName: "Bruno",
			Address:      "Av. Paulista, 1000",
			Items: []DraftItem{
				{MenuItemID: &feijoada.ID, UnitPrice: &clientPrice, Quantity: 2},
			},
		}
		result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		require.NoError(t, err)

		require.Len(t, result.Order.Items, 1)
		assert.Equal(t, "Feijoada completa", result.Order.Items[0].Name)
		assert.True(t, result.Order.ComputedTotal.Equal(decimal.NewFromInt(85)))
	})

	t.Run("unavailable items are rejected", func(t *testing.T) {
		draft := OrderDraft{
			CustomerName: "Bruno",
			Address:      "Av. Paulista, 1000",
			Items:        []DraftItem{{MenuItemID: &offMenu.ID, Quantity: 1}},
		}
		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_UNAVAILABLE", domainErr.Code)
	})

	t.Run("unknown menu references are rejected", func(t *testing.T) {
		ghost := uuid.New()
		draft := OrderDraft{
			CustomerName: "Bruno",
			Address:      "Av. Paulista, 1000",
			Items:        []DraftItem{{MenuItemID: &ghost, Quantity: 1}},
		}
		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MENU_ITEM_NOT_FOUND", domainErr.Code)
	})

	t.Run("free form items need a price", func(t *testing.T) {
		draft := OrderDraft{
			CustomerName: "Bruno",
			Address:      "Av. Paulista, 1000",
			Items:        []DraftItem{{Name: "Surpresa do chef", Quantity: 1}},
		}
		_, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelDelivery, draft)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ITEM", domainErr.Code)
	})
}

func TestAdmitTableOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedPlan(t, f, subscription.PlanTierFree)

	table, err := ordering.NewTable(f.tenantID, 4)
	require.NoError(t, err)
	require.NoError(t, table.Occupy("Carla"))
	require.NoError(t, f.tableRepo.Save(ctx, table))

	price := decimal.NewFromFloat(18.5)
	draft := OrderDraft{
		TableID: &table.ID,
		Items:   []DraftItem{{Name: "Caipirinha", UnitPrice: &price, Quantity: 2}},
	}

	result, err := f.admission.AdmitOrder(ctx, f.tenantID, ordering.ChannelTable, draft)
	require.NoError(t, err)

	assert.Equal(t, billing.DecisionAllowed, result.Decision)
	assert.Equal(t, ordering.ChannelTable, result.Order.Channel)
	require.NotNil(t, result.Order.TableID)
	assert.Equal(t, table.ID, *result.Order.TableID)
	assert.Equal(t, 0, currentCount(t, f), "dine-in orders never touch the quota")

	savedTable, err := f.tableRepo.FindByIDForTenant(ctx, f.tenantID, table.ID)
	require.NoError(t, err)
	assert.Contains(t, savedTable.OrderIDs, result.Order.ID)
}

func TestAdmitTableOrderRequiresTable(t *testing.T) {
	f := newFixture()
	seedPlan(t, f, subscription.PlanTierFree)

	_, err := f.admission.AdmitOrder(context.Background(), f.tenantID, ordering.ChannelTable, freeFormDraft(30))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TABLE", domainErr.Code)
}
