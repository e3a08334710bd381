package ordering

import (
	"github.com/comanda/backend/internal/domain/billing"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftItem is one line of an order draft. Items referencing a menu
// item are priced server-side; free-form items carry their own price.
type DraftItem struct {
	MenuItemID *uuid.UUID
	Name       string
	UnitPrice  *decimal.Decimal
	Quantity   int
	Note       string
}

// OrderDraft is the intake payload for a new order
type OrderDraft struct {
	CustomerName string
	Address      string
	Latitude     *decimal.Decimal
	Longitude    *decimal.Decimal
	TableID      *uuid.UUID
	Items        []DraftItem
}

// AdmissionResult is the outcome of admitting an order. Held orders
// carry the checkout URL the customer pays the top-up through, plus
// the upgrade URL that lifts the allowance for good.
type AdmissionResult struct {
	Order       *ordering.Order
	Decision    billing.Decision
	CheckoutURL string
	UpgradeURL  string
}
