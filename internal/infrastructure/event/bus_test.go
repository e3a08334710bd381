package event

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
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newAdmittedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	order, err := ordering.NewDeliveryOrder(uuid.New(), "Joana", "Rua das Flores 12",
		valueobject.NewMoneyBRLFromFloat(8), valueobject.NewMoneyBRLFromFloat(0))
	require.NoError(t, err)
	return ordering.NewOrderAdmittedEvent(order)
}

func TestInMemoryEventBusPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	subscribed := &recordingHandler{types: []string{ordering.EventTypeOrderAdmitted}}
	unrelated := &recordingHandler{types: []string{ordering.EventTypeOrderReleased}}
	bus.Subscribe(subscribed)
	bus.Subscribe(unrelated)

	event := newAdmittedEvent(t)
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, subscribed.received, 1)
	assert.Equal(t, event.EventID(), subscribed.received[0].EventID())
	assert.Empty(t, unrelated.received, "handlers only see their subscribed types")
}

func TestInMemoryEventBusHandlerFailureDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{types: []string{ordering.EventTypeOrderAdmitted}, fail: errors.New("boom")}
	healthy := &recordingHandler{types: []string{ordering.EventTypeOrderAdmitted}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newAdmittedEvent(t)),
		"publish never surfaces handler errors")
	assert.Len(t, healthy.received, 1, "later handlers still run")
}

func TestInMemoryEventBusRecoversFromPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &recordingHandler{types: []string{ordering.EventTypeOrderAdmitted}, panics: true}
	healthy := &recordingHandler{types: []string{ordering.EventTypeOrderAdmitted}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newAdmittedEvent(t))
	})
	assert.Len(t, healthy.received, 1)
}
