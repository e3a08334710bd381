package handler

import (
	"time"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// OrderItemResponse is one order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note,omitempty"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Channel       string              `json:"channel"`
	Status        string              `json:"status"`
	CustomerName  string              `json:"customer_name,omitempty"`
	Address       string              `json:"address,omitempty"`
	DistanceKm    *string             `json:"distance_km,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	ComputedTotal string              `json:"computed_total"`
	DeliveryFee   string              `json:"delivery_fee"`
	MinimumOrder  string              `json:"minimum_order"`
	TableID       *uuid.UUID          `json:"table_id,omitempty"`
	HeldAt        *time.Time          `json:"held_at,omitempty"`
	ReleasedAt    *time.Time          `json:"released_at,omitempty"`
	FinalizedAt   *time.Time          `json:"finalized_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// AdmissionResponse is the outcome of admitting an order
type AdmissionResponse struct {
	Order       OrderResponse `json:"order"`
	Decision    string        `json:"decision"`
	CheckoutURL string        `json:"checkout_url,omitempty"`
	UpgradeURL  string        `json:"upgrade_url,omitempty"`
}

func toOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Amount:    item.Amount.StringFixed(2),
			Note:      item.Note,
		})
	}

	resp := OrderResponse{
		ID:            order.ID,
		Channel:       order.Channel.String(),
		Status:        order.Status.String(),
		CustomerName:  order.CustomerName,
		Address:       order.Address,
		Items:         items,
		ComputedTotal: order.ComputedTotal.StringFixed(2),
		DeliveryFee:   order.DeliveryFee.StringFixed(2),
		MinimumOrder:  order.MinimumOrder.StringFixed(2),
		TableID:       order.TableID,
		HeldAt:        order.HeldAt,
		ReleasedAt:    order.ReleasedAt,
		FinalizedAt:   order.FinalizedAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.DistanceKm != nil {
		distance := order.DistanceKm.StringFixed(3)
		resp.DistanceKm = &distance
	}
	return resp
}

func toOrderResponses(orders []ordering.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}
