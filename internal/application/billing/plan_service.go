package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanReplaceInput carries the wholesale replacement of a tenant's plan
type PlanReplaceInput struct {
	Tier              subscription.PlanTier
	HasSalonModule    *bool
	HasDeliveryModule *bool
	IsLegacyFree      bool
	IsBetaTester      bool
}

// UpgradeConfirmInput carries a payment provider webhook confirming a
// paid plan upgrade.
type UpgradeConfirmInput struct {
	EventID string
	Tier    subscription.PlanTier
}

// PlanService administers tenant plans. Replacement is wholesale: the
// new tier's catalogue values win and only the explicit overrides in
// the input survive on top of them.
type PlanService struct {
	planRepo    subscription.PlanRepository
	idempotency shared.IdempotencyStore
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planRepo subscription.PlanRepository,
	idempotency shared.IdempotencyStore,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		idempotency: idempotency,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// GetPlan returns the tenant's plan, provisioning the free tier on
// first contact.
func (s *PlanService) GetPlan(ctx context.Context, tenantID uuid.UUID) (*subscription.TenantPlan, error) {
	plan, err := s.planRepo.FindByTenant(ctx, tenantID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load tenant plan: %w", err)
	}

	plan, err = subscription.NewTenantPlan(tenantID, subscription.PlanTierFree)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to provision free plan: %w", err)
	}

	s.logger.Info("Provisioned free plan",
		zap.String("tenant_id", tenantID.String()))

	s.publish(ctx, plan)

	return plan, nil
}

// ReplacePlan swaps the tenant's plan for the given tier and overrides
func (s *PlanService) ReplacePlan(ctx context.Context, tenantID uuid.UUID, input PlanReplaceInput) (*subscription.TenantPlan, error) {
	if !input.Tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN_TIER", "Unknown plan tier: "+input.Tier.String())
	}

	plan, err := subscription.NewTenantPlan(tenantID, input.Tier)
	if err != nil {
		return nil, err
	}

	if input.HasSalonModule != nil && *input.HasSalonModule {
		plan.GrantSalonModule()
	}
	if input.HasDeliveryModule != nil && *input.HasDeliveryModule {
		plan.GrantDeliveryModule()
	}
	if input.IsLegacyFree {
		plan.MarkLegacyFree()
	}
	if input.IsBetaTester {
		plan.MarkBetaTester()
	}

	existing, err := s.planRepo.FindByTenant(ctx, tenantID)
	if err == nil {
		// wholesale replace keeps the row identity
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		plan.Version = existing.Version
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load tenant plan: %w", err)
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to replace tenant plan: %w", err)
	}

	s.logger.Info("Tenant plan replaced",
		zap.String("tenant_id", tenantID.String()),
		zap.String("tier", input.Tier.String()))

	s.publish(ctx, plan)

	return plan, nil
}

// ConfirmUpgrade processes a paid upgrade confirmed by the payment
// provider. Providers retry webhooks, so confirmation is idempotent:
// replays succeed without touching the plan again.
func (s *PlanService) ConfirmUpgrade(ctx context.Context, tenantID uuid.UUID, input UpgradeConfirmInput) error {
	if input.EventID == "" {
		return shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}
	if !input.Tier.IsValid() {
		return shared.NewDomainError("INVALID_PLAN_TIER", "Unknown plan tier: "+input.Tier.String())
	}

	fresh, err := s.idempotency.MarkProcessed(ctx, input.EventID, webhookEventTTL)
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	if !fresh {
		s.logger.Debug("Duplicate upgrade confirmation ignored",
			zap.String("event_id", input.EventID),
			zap.String("tenant_id", tenantID.String()))
		return nil
	}

	if _, err := s.ReplacePlan(ctx, tenantID, PlanReplaceInput{Tier: input.Tier}); err != nil {
		return fmt.Errorf("failed to apply paid upgrade: %w", err)
	}

	s.logger.Info("Paid plan upgrade applied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("tier", input.Tier.String()))

	return nil
}

func (s *PlanService) publish(ctx context.Context, plan *subscription.TenantPlan) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, plan.GetDomainEvents()...); err != nil {
		s.logger.Warn("Failed to publish plan events", zap.Error(err))
	}
	plan.ClearDomainEvents()
}
