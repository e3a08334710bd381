package payment

import (
	"context"
	"net/url"

	"github.com/comanda/backend/internal/domain/billing"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/comanda/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HostedCheckoutProvider builds URLs to the hosted checkout pages that
// collect top-up and plan upgrade payments. The payment collaborator
// confirms completed payments back through the webhook endpoint; this
// side only hands out links.
type HostedCheckoutProvider struct {
	base   string
	logger *zap.Logger
}

// NewHostedCheckoutProvider creates a provider from the payment configuration
func NewHostedCheckoutProvider(cfg *config.PaymentConfig, logger *zap.Logger) *HostedCheckoutProvider {
	return &HostedCheckoutProvider{
		base:   cfg.CheckoutBase,
		logger: logger,
	}
}

// TopupCheckoutURL returns the checkout link that releases the given held order
func (p *HostedCheckoutProvider) TopupCheckoutURL(ctx context.Context, tenantID, orderID uuid.UUID) (string, error) {
	u, err := url.Parse(p.base)
	if err != nil {
		return "", err
	}
	u = u.JoinPath("topup")

	q := u.Query()
	q.Set("tenant", tenantID.String())
	q.Set("order", orderID.String())
	u.RawQuery = q.Encode()

	p.logger.Debug("issued top-up checkout link",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", orderID.String()),
	)
	return u.String(), nil
}

// UpgradeCheckoutURL returns the checkout link for a plan upgrade
func (p *HostedCheckoutProvider) UpgradeCheckoutURL(ctx context.Context, tenantID uuid.UUID, tier subscription.PlanTier) (string, error) {
	u, err := url.Parse(p.base)
	if err != nil {
		return "", err
	}
	u = u.JoinPath("upgrade")

	q := u.Query()
	q.Set("tenant", tenantID.String())
	q.Set("tier", tier.String())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

var _ billing.CheckoutProvider = (*HostedCheckoutProvider)(nil)
