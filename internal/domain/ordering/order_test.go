package ordering

import (
	"testing"

	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeliveryOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewDeliveryOrder(uuid.New(), "Maria", "Rua das Flores, 10",
		valueobject.NewMoneyBRLFromFloat(8), valueobject.ZeroBRL())
	require.NoError(t, err)
	return order
}

func newHeldOrder(t *testing.T) *Order {
	t.Helper()
	order := newDeliveryOrder(t)
	require.NoError(t, order.Hold())
	return order
}

func TestNewDeliveryOrder(t *testing.T) {
	t.Run("starts in PENDENTE with the quoted fee", func(t *testing.T) {
		order := newDeliveryOrder(t)
		assert.Equal(t, OrderStatusPendente, order.Status)
		assert.Equal(t, ChannelDelivery, order.Channel)
		assert.True(t, order.DeliveryFee.Equal(decimal.NewFromInt(8)))

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderAdmitted, events[0].EventType())
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		_, err := NewDeliveryOrder(uuid.New(), "", "addr",
			valueobject.ZeroBRL(), valueobject.ZeroBRL())
		assert.Error(t, err)
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		_, err := NewDeliveryOrder(uuid.New(), "Maria", "addr",
			valueobject.NewMoneyBRLFromFloat(-1), valueobject.ZeroBRL())
		assert.Error(t, err)
	})
}

func TestOrderHold(t *testing.T) {
	t.Run("holds a pending order at creation time", func(t *testing.T) {
		order := newHeldOrder(t)
		assert.Equal(t, OrderStatusAguardandoPgtoLimite, order.Status)
		assert.True(t, order.IsHeld())
		require.NotNil(t, order.HeldAt)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderHeld, events[0].EventType())
	})

	t.Run("only pending orders can be held", func(t *testing.T) {
		order := newDeliveryOrder(t)
		require.NoError(t, order.StartPreparing())
		assert.Error(t, order.Hold())
	})
}

func TestNewTableOrder(t *testing.T) {
	tableID := uuid.New()
	order, err := NewTableOrder(uuid.New(), tableID)
	require.NoError(t, err)
	assert.Equal(t, ChannelTable, order.Channel)
	require.NotNil(t, order.TableID)
	assert.Equal(t, tableID, *order.TableID)

	_, err = NewTableOrder(uuid.New(), uuid.Nil)
	assert.Error(t, err)
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPendente, OrderStatusEmPreparo, true},
		{OrderStatusEmPreparo, OrderStatusProntoParaEntrega, true},
		{OrderStatusProntoParaEntrega, OrderStatusFinalizado, true},
		{OrderStatusPendente, OrderStatusProntoParaEntrega, false},
		{OrderStatusPendente, OrderStatusFinalizado, false},
		{OrderStatusEmPreparo, OrderStatusPendente, false},
		{OrderStatusEmPreparo, OrderStatusFinalizado, false},
		{OrderStatusProntoParaEntrega, OrderStatusPendente, false},
		{OrderStatusFinalizado, OrderStatusPendente, false},
		{OrderStatusFinalizado, OrderStatusEmPreparo, false},
		{OrderStatusAguardandoPgtoLimite, OrderStatusPendente, false},
		{OrderStatusAguardandoPgtoLimite, OrderStatusEmPreparo, false},
		{OrderStatusAguardandoPgtoLimite, OrderStatusFinalizado, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderTransition(t *testing.T) {
	t.Run("walks the full delivery chain", func(t *testing.T) {
		order := newDeliveryOrder(t)
		require.NoError(t, order.StartPreparing())
		require.NoError(t, order.MarkReady())
		require.NoError(t, order.Finalize())
		assert.True(t, order.IsFinalized())
		assert.NotNil(t, order.FinalizedAt)
	})

	t.Run("skipping a state fails naming both states", func(t *testing.T) {
		order := newDeliveryOrder(t)
		err := order.Transition(OrderStatusFinalizado)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PENDENTE")
		assert.Contains(t, err.Error(), "FINALIZADO")
		assert.Equal(t, OrderStatusPendente, order.Status)
	})

	t.Run("held orders cannot be moved through the workflow", func(t *testing.T) {
		order := newHeldOrder(t)
		for _, target := range []OrderStatus{
			OrderStatusPendente, OrderStatusEmPreparo,
			OrderStatusProntoParaEntrega, OrderStatusFinalizado,
		} {
			err := order.Transition(target)
			require.Error(t, err, "target %s", target)
		}
		assert.True(t, order.IsHeld())
	})

	t.Run("rejects unknown target status", func(t *testing.T) {
		order := newDeliveryOrder(t)
		assert.Error(t, order.Transition(OrderStatus("ENTREGUE")))
	})

	t.Run("emits a status changed event", func(t *testing.T) {
		order := newDeliveryOrder(t)
		order.ClearDomainEvents()
		require.NoError(t, order.StartPreparing())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPendente, changed.PreviousStatus)
		assert.Equal(t, OrderStatusEmPreparo, changed.NewStatus)
	})
}

func TestOrderReleaseFromHold(t *testing.T) {
	t.Run("releases to PENDENTE", func(t *testing.T) {
		order := newHeldOrder(t)
		require.NoError(t, order.ReleaseFromHold())
		assert.Equal(t, OrderStatusPendente, order.Status)
		assert.NotNil(t, order.ReleasedAt)
	})

	t.Run("only held orders can be released", func(t *testing.T) {
		order := newDeliveryOrder(t)
		assert.Error(t, order.ReleaseFromHold())
	})

	t.Run("released order rejoins the workflow", func(t *testing.T) {
		order := newHeldOrder(t)
		require.NoError(t, order.ReleaseFromHold())
		require.NoError(t, order.StartPreparing())
		assert.Equal(t, OrderStatusEmPreparo, order.Status)
	})
}

func TestOrderForceFinalize(t *testing.T) {
	order := newHeldOrder(t)
	order.ForceFinalize()
	assert.True(t, order.IsFinalized())

	// idempotent on already finalized orders
	order.ClearDomainEvents()
	order.ForceFinalize()
	assert.Empty(t, order.GetDomainEvents())
}

func TestOrderAppendItem(t *testing.T) {
	t.Run("recomputes the total", func(t *testing.T) {
		order := newDeliveryOrder(t)

		_, err := order.AppendItem("Marmita P", valueobject.NewMoneyBRLFromFloat(18.90), 2, "")
		require.NoError(t, err)
		_, err = order.AppendItem("Refrigerante", valueobject.NewMoneyBRLFromFloat(6), 1, "")
		require.NoError(t, err)

		assert.True(t, order.ComputedTotal.Equal(decimal.NewFromFloat(43.80)),
			"got %s", order.ComputedTotal)
	})

	t.Run("rejects items on held orders", func(t *testing.T) {
		order := newHeldOrder(t)
		_, err := order.AppendItem("Marmita P", valueobject.NewMoneyBRLFromFloat(18.90), 1, "")
		assert.Error(t, err)
	})

	t.Run("rejects items on finalized orders", func(t *testing.T) {
		order := newDeliveryOrder(t)
		order.ForceFinalize()
		_, err := order.AppendItem("Marmita P", valueobject.NewMoneyBRLFromFloat(18.90), 1, "")
		assert.Error(t, err)
	})

	t.Run("validates item fields", func(t *testing.T) {
		order := newDeliveryOrder(t)
		_, err := order.AppendItem("", valueobject.ZeroBRL(), 1, "")
		assert.Error(t, err)
		_, err = order.AppendItem("Marmita P", valueobject.ZeroBRL(), 0, "")
		assert.Error(t, err)
		_, err = order.AppendItem("Marmita P", valueobject.NewMoneyBRLFromFloat(-2), 1, "")
		assert.Error(t, err)
	})
}
