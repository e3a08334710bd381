package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// webhookEventTTL bounds how long processed webhook events are remembered
const webhookEventTTL = 30 * 24 * time.Hour

// TopupConfirmInput carries a payment provider webhook confirming a
// pay-per-use top-up for a held order.
type TopupConfirmInput struct {
	EventID string
	OrderID uuid.UUID
}

// TopupService releases held orders once their top-up payment is
// confirmed. The webhook is retried by providers, so confirmation is
// idempotent: replays succeed without touching the order again.
//
// Releasing does not increment the usage counter; the released order
// was paid for outside the allowance.
type TopupService struct {
	orderRepo   ordering.OrderRepository
	idempotency shared.IdempotencyStore
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewTopupService creates a new TopupService
func NewTopupService(
	orderRepo ordering.OrderRepository,
	idempotency shared.IdempotencyStore,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TopupService {
	return &TopupService{
		orderRepo:   orderRepo,
		idempotency: idempotency,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Confirm processes a top-up confirmation for a tenant's held order
func (s *TopupService) Confirm(ctx context.Context, tenantID uuid.UUID, input TopupConfirmInput) error {
	if input.EventID == "" {
		return shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}
	if input.OrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	fresh, err := s.idempotency.MarkProcessed(ctx, input.EventID, webhookEventTTL)
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	if !fresh {
		s.logger.Debug("Duplicate top-up confirmation ignored",
			zap.String("event_id", input.EventID),
			zap.String("order_id", input.OrderID.String()))
		return nil
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, input.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	if err := order.ReleaseFromHold(); err != nil {
		return err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return fmt.Errorf("failed to save released order: %w", err)
	}

	s.logger.Info("Held order released after top-up",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()))

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, order.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish order events", zap.Error(err))
		}
		order.ClearDomainEvents()
	}

	return nil
}
