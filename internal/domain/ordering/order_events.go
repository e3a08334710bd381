package ordering

import (
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderAdmitted      = "OrderAdmitted"
	EventTypeOrderHeld          = "OrderHeld"
	EventTypeOrderReleased      = "OrderReleased"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderAdmittedEvent is raised when an order enters the system in PENDENTE
type OrderAdmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	Channel     Channel         `json:"channel"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
}

// NewOrderAdmittedEvent creates a new OrderAdmittedEvent
func NewOrderAdmittedEvent(order *Order) *OrderAdmittedEvent {
	return &OrderAdmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderAdmitted, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		Channel:         order.Channel,
		DeliveryFee:     order.DeliveryFee,
	}
}

// EventType returns the event type name
func (e *OrderAdmittedEvent) EventType() string {
	return EventTypeOrderAdmitted
}

// OrderHeldEvent is raised when an order is retained past the allowance
type OrderHeldEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewOrderHeldEvent creates a new OrderHeldEvent
func NewOrderHeldEvent(order *Order) *OrderHeldEvent {
	return &OrderHeldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderHeld, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *OrderHeldEvent) EventType() string {
	return EventTypeOrderHeld
}

// OrderReleasedEvent is raised when a held order returns to the workflow
type OrderReleasedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewOrderReleasedEvent creates a new OrderReleasedEvent
func NewOrderReleasedEvent(order *Order) *OrderReleasedEvent {
	return &OrderReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReleased, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *OrderReleasedEvent) EventType() string {
	return EventTypeOrderReleased
}

// OrderStatusChangedEvent is raised on every workflow transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, previous OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		PreviousStatus:  previous,
		NewStatus:       order.Status,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}
