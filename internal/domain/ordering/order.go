package ordering

import (
	"fmt"
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channel identifies how an order entered the system
type Channel string

const (
	ChannelTable    Channel = "TABLE"
	ChannelDelivery Channel = "DELIVERY"
)

// IsValid checks if the channel is a known Channel
func (c Channel) IsValid() bool {
	return c == ChannelTable || c == ChannelDelivery
}

// String returns the string representation of Channel
func (c Channel) String() string {
	return string(c)
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	// OrderStatusPendente is the entry state of an admitted order
	OrderStatusPendente OrderStatus = "PENDENTE"

	// OrderStatusEmPreparo means the kitchen started working on it
	OrderStatusEmPreparo OrderStatus = "EM_PREPARO"

	// OrderStatusProntoParaEntrega means the order awaits the courier
	OrderStatusProntoParaEntrega OrderStatus = "PRONTO_PARA_ENTREGA"

	// OrderStatusFinalizado is the terminal state
	OrderStatusFinalizado OrderStatus = "FINALIZADO"

	// OrderStatusAguardandoPgtoLimite holds an order created past the
	// monthly allowance until a top-up payment is confirmed
	OrderStatusAguardandoPgtoLimite OrderStatus = "AGUARDANDO_PGTO_LIMITE"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendente, OrderStatusEmPreparo, OrderStatusProntoParaEntrega,
		OrderStatusFinalizado, OrderStatusAguardandoPgtoLimite:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target
// status through the regular workflow. Leaving the held state is not a
// workflow transition; only a confirmed top-up payment releases it.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPendente:
		return target == OrderStatusEmPreparo
	case OrderStatusEmPreparo:
		return target == OrderStatusProntoParaEntrega
	case OrderStatusProntoParaEntrega:
		return target == OrderStatusFinalizado
	case OrderStatusFinalizado, OrderStatusAguardandoPgtoLimite:
		return false
	}
	return false
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note      string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID uuid.UUID, name string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      name,
		UnitPrice: unitPrice.Amount(),
		Quantity:  quantity,
		Amount:    unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt: time.Now(),
	}, nil
}

// Order represents an order aggregate root for both dine-in and
// delivery channels. Delivery orders carry the fee quoted at admission;
// dine-in sub-orders link back to their table session.
type Order struct {
	shared.TenantAggregateRoot
	Channel       Channel          `gorm:"type:varchar(20);not null"`
	Status        OrderStatus      `gorm:"type:varchar(30);not null;index"`
	CustomerName  string           `gorm:"type:varchar(255)"`
	Address       string           `gorm:"type:text"`
	DistanceKm    *decimal.Decimal `gorm:"type:decimal(8,3)"`
	Items         []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ComputedTotal decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DeliveryFee   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	MinimumOrder  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TableID       *uuid.UUID       `gorm:"type:uuid;index"`
	HeldAt        *time.Time
	ReleasedAt    *time.Time
	FinalizedAt   *time.Time
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewDeliveryOrder creates an admitted delivery order in PENDENTE
func NewDeliveryOrder(tenantID uuid.UUID, customerName, address string, fee, minimumOrder valueobject.Money) (*Order, error) {
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Delivery fee cannot be negative")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Channel:             ChannelDelivery,
		Status:              OrderStatusPendente,
		CustomerName:        customerName,
		Address:             address,
		Items:               make([]OrderItem, 0),
		ComputedTotal:       decimal.Zero,
		DeliveryFee:         fee.Amount(),
		MinimumOrder:        minimumOrder.Amount(),
	}

	order.AddDomainEvent(NewOrderAdmittedEvent(order))

	return order, nil
}

// Hold retains a just-created order in AGUARDANDO_PGTO_LIMITE because
// the tenant's allowance is exhausted. Holding happens at creation
// time only, before the order enters the workflow.
func (o *Order) Hold() error {
	if o.Status != OrderStatusPendente {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only a pending order can be held, not %s", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusAguardandoPgtoLimite
	o.HeldAt = &now
	o.UpdatedAt = now

	o.ClearDomainEvents()
	o.AddDomainEvent(NewOrderHeldEvent(o))

	return nil
}

// NewTableOrder creates a dine-in sub-order bound to a table session
func NewTableOrder(tenantID, tableID uuid.UUID) (*Order, error) {
	if tableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TABLE", "Table ID cannot be empty")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Channel:             ChannelTable,
		Status:              OrderStatusPendente,
		Items:               make([]OrderItem, 0),
		ComputedTotal:       decimal.Zero,
		TableID:             &tableID,
	}

	order.AddDomainEvent(NewOrderAdmittedEvent(order))

	return order, nil
}

// AppendItem adds a line item and recomputes the total.
// Finalized and held orders cannot be changed.
func (o *Order) AppendItem(name string, unitPrice valueobject.Money, quantity int, note string) (*OrderItem, error) {
	if o.Status == OrderStatusFinalizado {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a finalized order")
	}
	if o.Status == OrderStatusAguardandoPgtoLimite {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a held order")
	}

	item, err := NewOrderItem(o.ID, name, unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	item.Note = note

	o.Items = append(o.Items, *item)
	o.recomputeTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// Transition moves the order along the regular workflow. Requests to
// leave the held state through this path fail: only a confirmed top-up
// payment releases a held order.
func (o *Order) Transition(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Unknown target status %q", target.String()))
	}
	if o.Status == OrderStatusAguardandoPgtoLimite {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to %s: held orders are released by payment confirmation only", o.Status, target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition from %s to %s", o.Status, target))
	}

	previous := o.Status
	now := time.Now()
	o.Status = target
	if target == OrderStatusFinalizado {
		o.FinalizedAt = &now
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))

	return nil
}

// StartPreparing moves the order from PENDENTE to EM_PREPARO
func (o *Order) StartPreparing() error {
	return o.Transition(OrderStatusEmPreparo)
}

// MarkReady moves the order from EM_PREPARO to PRONTO_PARA_ENTREGA
func (o *Order) MarkReady() error {
	return o.Transition(OrderStatusProntoParaEntrega)
}

// Finalize moves the order to its terminal state
func (o *Order) Finalize() error {
	return o.Transition(OrderStatusFinalizado)
}

// ForceFinalize closes the order from any non-terminal state. Used only
// by cycle close, which must leave no order open.
func (o *Order) ForceFinalize() {
	if o.Status == OrderStatusFinalizado {
		return
	}

	previous := o.Status
	now := time.Now()
	o.Status = OrderStatusFinalizado
	o.FinalizedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
}

// ReleaseFromHold moves a held order to PENDENTE after the top-up
// payment has been confirmed
func (o *Order) ReleaseFromHold() error {
	if o.Status != OrderStatusAguardandoPgtoLimite {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot release order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPendente
	o.ReleasedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderReleasedEvent(o))

	return nil
}

// SetDistance records the delivery distance resolved at admission
func (o *Order) SetDistance(distanceKm decimal.Decimal) {
	o.DistanceKm = &distanceKm
}

// recomputeTotal recalculates the order total from its items
func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.ComputedTotal = total
}

// TotalMoney returns the computed total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.ComputedTotal)
}

// DeliveryFeeMoney returns the delivery fee as Money
func (o *Order) DeliveryFeeMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.DeliveryFee)
}

// IsHeld returns true if the order awaits a top-up payment
func (o *Order) IsHeld() bool {
	return o.Status == OrderStatusAguardandoPgtoLimite
}

// IsFinalized returns true if the order reached its terminal state
func (o *Order) IsFinalized() bool {
	return o.Status == OrderStatusFinalizado
}

// IsDelivery returns true for delivery-channel orders
func (o *Order) IsDelivery() bool {
	return o.Channel == ChannelDelivery
}
