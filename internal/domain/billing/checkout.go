package billing

import (
	"context"

	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// CheckoutProvider produces opaque payment checkout URLs. The platform
// never processes payments itself; it hands the customer a URL and
// waits for the provider's webhook.
type CheckoutProvider interface {
	// TopupCheckoutURL returns the checkout URL for a pay-per-use
	// top-up that will release the given held order
	TopupCheckoutURL(ctx context.Context, tenantID, orderID uuid.UUID) (string, error)

	// UpgradeCheckoutURL returns the checkout URL for a plan upgrade
	UpgradeCheckoutURL(ctx context.Context, tenantID uuid.UUID, tier subscription.PlanTier) (string, error)
}
