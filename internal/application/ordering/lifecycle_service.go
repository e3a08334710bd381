package ordering

import (
	"context"
	"fmt"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleService moves orders through the kitchen workflow and
// answers order queries.
type LifecycleService struct {
	orderRepo ordering.OrderRepository
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(orderRepo ordering.OrderRepository, eventBus shared.EventPublisher, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		orderRepo: orderRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// TransitionOrder moves an order to the target status through the
// regular workflow. Held orders stay held no matter what the caller
// asks for.
func (s *LifecycleService) TransitionOrder(ctx context.Context, tenantID, orderID uuid.UUID, target ordering.OrderStatus) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := order.Transition(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("Order transitioned",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", orderID.String()),
		zap.String("status", target.String()))

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, order.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish order events", zap.Error(err))
		}
		order.ClearDomainEvents()
	}

	return order, nil
}

// GetOrder returns one order for a tenant
func (s *LifecycleService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// ListOrders returns a tenant's orders, optionally filtered by status
func (s *LifecycleService) ListOrders(ctx context.Context, tenantID uuid.UUID, status *ordering.OrderStatus, filter shared.Filter) ([]ordering.Order, error) {
	if status != nil {
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status.String())
		}
		return s.orderRepo.FindByStatus(ctx, tenantID, *status, filter)
	}
	return s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
}
