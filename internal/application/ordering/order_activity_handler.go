package ordering

import (
	"context"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderActivityHandler subscribes to the order workflow events and
// writes the operational activity log the kitchen display reads from.
type OrderActivityHandler struct {
	logger *zap.Logger
}

// NewOrderActivityHandler creates a new OrderActivityHandler
func NewOrderActivityHandler(logger *zap.Logger) *OrderActivityHandler {
	return &OrderActivityHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderActivityHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderAdmitted,
		ordering.EventTypeOrderHeld,
		ordering.EventTypeOrderReleased,
		ordering.EventTypeOrderStatusChanged,
	}
}

// Handle records one workflow event
func (h *OrderActivityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *ordering.OrderAdmittedEvent:
		fields = append(fields,
			zap.String("channel", e.Channel.String()),
			zap.String("delivery_fee", e.DeliveryFee.StringFixed(2)))
		h.logger.Info("order admitted", fields...)
	case *ordering.OrderHeldEvent:
		h.logger.Warn("order held pending top-up", fields...)
	case *ordering.OrderReleasedEvent:
		h.logger.Info("order released", fields...)
	case *ordering.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("from", e.PreviousStatus.String()),
			zap.String("to", e.NewStatus.String()))
		h.logger.Info("order moved", fields...)
	default:
		h.logger.Debug("order event", append(fields,
			zap.String("event_type", event.EventType()))...)
	}

	return nil
}
