package ordering

import (
	"context"
	"errors"
	"fmt"

	appbilling "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/domain/billing"
	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdmissionService is the single entry point for order creation. It
// resolves entitlements, quotes the delivery fee, consults the quota
// and either admits the order as PENDENTE or retains it held with a
// checkout URL for the top-up payment.
type AdmissionService struct {
	planRepo     subscription.PlanRepository
	quota        *appbilling.QuotaService
	orderRepo    ordering.OrderRepository
	tableRepo    ordering.TableRepository
	tierRepo     delivery.TierRepository
	settingsRepo delivery.SettingsRepository
	menuRepo     catalog.MenuItemRepository
	checkout     billing.CheckoutProvider
	tx           shared.TxRunner
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(
	planRepo subscription.PlanRepository,
	quota *appbilling.QuotaService,
	orderRepo ordering.OrderRepository,
	tableRepo ordering.TableRepository,
	tierRepo delivery.TierRepository,
	settingsRepo delivery.SettingsRepository,
	menuRepo catalog.MenuItemRepository,
	checkout billing.CheckoutProvider,
	tx shared.TxRunner,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *AdmissionService {
	return &AdmissionService{
		planRepo:     planRepo,
		quota:        quota,
		orderRepo:    orderRepo,
		tableRepo:    tableRepo,
		tierRepo:     tierRepo,
		settingsRepo: settingsRepo,
		menuRepo:     menuRepo,
		checkout:     checkout,
		tx:           tx,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// AdmitOrder admits a new order for a tenant on the given channel
func (s *AdmissionService) AdmitOrder(ctx context.Context, tenantID uuid.UUID, channel ordering.Channel, draft OrderDraft) (*AdmissionResult, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown order channel: "+channel.String())
	}
	if len(draft.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one item")
	}

	if channel == ordering.ChannelTable {
		return s.admitTableOrder(ctx, tenantID, draft)
	}
	return s.admitDeliveryOrder(ctx, tenantID, draft)
}

func (s *AdmissionService) admitDeliveryOrder(ctx context.Context, tenantID uuid.UUID, draft OrderDraft) (*AdmissionResult, error) {
	// entitlements are re-read every admission; a plan upgrade takes
	// effect on the next order
	plan, err := s.loadPlan(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !plan.Entitlements().DeliveryVisible {
		return nil, shared.NewDomainError("MODULE_NOT_AVAILABLE", "The delivery module is not part of this plan")
	}

	quote, distance, err := s.quoteDelivery(ctx, tenantID, draft)
	if err != nil {
		return nil, err
	}

	items, total, err := s.priceItems(ctx, tenantID, draft.Items)
	if err != nil {
		return nil, err
	}
	if total.LessThan(quote.MinimumOrder.Amount()) {
		return nil, shared.NewDomainError("MINIMUM_ORDER_NOT_MET",
			fmt.Sprintf("Order total %s is below the minimum of %s for this area",
				total.StringFixed(2), quote.MinimumOrder.StringFixed(2)))
	}

	order, err := ordering.NewDeliveryOrder(tenantID, draft.CustomerName, draft.Address, quote.Fee, quote.MinimumOrder)
	if err != nil {
		return nil, err
	}
	if distance != nil {
		order.SetDistance(*distance)
	}
	for _, item := range items {
		if _, err := order.AppendItem(item.name, item.unitPrice, item.quantity, item.note); err != nil {
			return nil, err
		}
	}

	result := &AdmissionResult{Order: order}

	// the check and the create+commit must not interleave with another
	// admission for the same tenant
	err = s.quota.WithTenantLock(tenantID, func() error {
		decision, err := s.quota.CheckAndReserve(ctx, plan)
		if err != nil {
			return err
		}
		result.Decision = decision

		if decision == billing.DecisionLimitReached {
			return s.holdOrder(ctx, tenantID, order, result)
		}

		// order creation and quota commit are one transaction: an
		// order never exists without its counter increment
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.orderRepo.Save(txCtx, order); err != nil {
				return fmt.Errorf("failed to save order: %w", err)
			}
			return s.quota.Commit(txCtx, plan)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delivery order admitted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()))

	s.publish(ctx, order)

	return result, nil
}

func (s *AdmissionService) holdOrder(ctx context.Context, tenantID uuid.UUID, order *ordering.Order, result *AdmissionResult) error {
	if err := order.Hold(); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return fmt.Errorf("failed to save held order: %w", err)
	}

	url, err := s.checkout.TopupCheckoutURL(ctx, tenantID, order.ID)
	if err != nil {
		return fmt.Errorf("failed to create top-up checkout: %w", err)
	}
	result.CheckoutURL = url

	// the top-up pays for this one order; upgrading to the delivery
	// plan lifts the allowance for good, so the hold offers both
	upgradeURL, err := s.checkout.UpgradeCheckoutURL(ctx, tenantID, subscription.PlanTierDeliveryPro)
	if err != nil {
		return fmt.Errorf("failed to create upgrade checkout: %w", err)
	}
	result.UpgradeURL = upgradeURL

	return nil
}

func (s *AdmissionService) admitTableOrder(ctx context.Context, tenantID uuid.UUID, draft OrderDraft) (*AdmissionResult, error) {
	if draft.TableID == nil {
		return nil, shared.NewDomainError("INVALID_TABLE", "A dine-in order needs a table")
	}

	table, err := s.tableRepo.FindByIDForTenant(ctx, tenantID, *draft.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	order, err := ordering.NewTableOrder(tenantID, table.ID)
	if err != nil {
		return nil, err
	}

	items, _, err := s.priceItems(ctx, tenantID, draft.Items)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := order.AppendItem(item.name, item.unitPrice, item.quantity, item.note); err != nil {
			return nil, err
		}
	}

	if err := table.AttachOrder(order.ID); err != nil {
		return nil, err
	}

	// dine-in orders never touch the quota
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.tableRepo.SaveWithLock(txCtx, table); err != nil {
			return fmt.Errorf("failed to save table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Table order admitted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int("table_number", table.Number))

	s.publish(ctx, order)

	return &AdmissionResult{Order: order, Decision: billing.DecisionAllowed}, nil
}

// quoteDelivery resolves the fee for the draft. Tiered mode needs both
// the restaurant and the customer located; anything less falls back to
// the flat fee.
func (s *AdmissionService) quoteDelivery(ctx context.Context, tenantID uuid.UUID, draft OrderDraft) (delivery.Quote, *decimal.Decimal, error) {
	settings, err := s.settingsRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return delivery.Quote{}, nil, fmt.Errorf("failed to load delivery settings: %w", err)
		}
		settings = delivery.NewSettings(tenantID)
	}

	tiered := settings.HasCoordinates() && draft.Latitude != nil && draft.Longitude != nil
	if !tiered {
		return delivery.Quote{
			Fee:          settings.FlatFeeMoney(),
			MinimumOrder: valueobject.ZeroBRL(),
		}, nil, nil
	}

	distance := delivery.DistanceKm(*settings.Latitude, *settings.Longitude, *draft.Latitude, *draft.Longitude)

	tiers, err := s.tierRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return delivery.Quote{}, nil, fmt.Errorf("failed to load delivery tiers: %w", err)
	}

	quote, err := delivery.ResolveFee(tiers, distance)
	if err != nil {
		return delivery.Quote{}, nil, err
	}
	return quote, &distance, nil
}

type pricedItem struct {
	name      string
	unitPrice valueobject.Money
	quantity  int
	note      string
}

// priceItems resolves draft items to priced lines. Menu references are
// priced server-side; free-form items must bring their own price.
func (s *AdmissionService) priceItems(ctx context.Context, tenantID uuid.UUID, items []DraftItem) ([]pricedItem, decimal.Decimal, error) {
	priced := make([]pricedItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}

		var line pricedItem
		switch {
		case item.MenuItemID != nil:
			menuItem, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, *item.MenuItemID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, decimal.Zero, shared.NewDomainError("MENU_ITEM_NOT_FOUND", "Menu item not found")
				}
				return nil, decimal.Zero, fmt.Errorf("failed to load menu item: %w", err)
			}
			if !menuItem.Available {
				return nil, decimal.Zero, shared.NewDomainError("ITEM_UNAVAILABLE",
					fmt.Sprintf("%q is not available right now", menuItem.Name))
			}
			line = pricedItem{name: menuItem.Name, unitPrice: menuItem.PriceMoney(), quantity: item.Quantity, note: item.Note}

		case item.UnitPrice != nil:
			line = pricedItem{name: item.Name, unitPrice: valueobject.NewMoneyBRL(*item.UnitPrice), quantity: item.Quantity, note: item.Note}

		default:
			return nil, decimal.Zero, shared.NewDomainError("INVALID_ITEM", "An item needs a menu reference or a price")
		}

		priced = append(priced, line)
		total = total.Add(line.unitPrice.Amount().Mul(decimal.NewFromInt(int64(line.quantity))))
	}

	return priced, total, nil
}

func (s *AdmissionService) loadPlan(ctx context.Context, tenantID uuid.UUID) (*subscription.TenantPlan, error) {
	plan, err := s.planRepo.FindByTenant(ctx, tenantID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load tenant plan: %w", err)
	}
	// tenants without a stored plan run on the free tier
	return subscription.NewTenantPlan(tenantID, subscription.PlanTierFree)
}

func (s *AdmissionService) publish(ctx context.Context, order *ordering.Order) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}
