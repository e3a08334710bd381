package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comanda/backend/internal/domain/billing"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotaService decides whether a tenant may create another delivery
// order this cycle and records the ones it did create. The check and
// the commit are separate steps: the check never mutates the counter,
// and the commit runs only after the order has actually been persisted.
type QuotaService struct {
	planRepo  subscription.PlanRepository
	usageRepo billing.UsageRepository
	logger    *zap.Logger
	locks     *keyedMutex
	now       func() time.Time
}

// NewQuotaService creates a new QuotaService
func NewQuotaService(
	planRepo subscription.PlanRepository,
	usageRepo billing.UsageRepository,
	logger *zap.Logger,
) *QuotaService {
	return &QuotaService{
		planRepo:  planRepo,
		usageRepo: usageRepo,
		logger:    logger,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// WithTenantLock serializes fn against other quota-affecting work for
// the same tenant. Different tenants proceed in parallel.
func (s *QuotaService) WithTenantLock(tenantID uuid.UUID, fn func() error) error {
	s.locks.Lock(tenantID)
	defer s.locks.Unlock(tenantID)
	return fn()
}

// CheckAndReserve decides whether one more delivery order fits the
// tenant's allowance. It does not touch the counter; callers that get
// ALLOWED must call Commit after the order is persisted.
func (s *QuotaService) CheckAndReserve(ctx context.Context, plan *subscription.TenantPlan) (billing.Decision, error) {
	ent := plan.Entitlements()
	if !ent.QuotaApplies {
		return billing.DecisionAllowed, nil
	}

	period := billing.CurrentPeriod(s.now())
	used, err := s.usageRepo.CurrentCount(ctx, plan.TenantID, period)
	if err != nil {
		return "", fmt.Errorf("failed to read usage counter: %w", err)
	}

	decision := billing.Decide(ent, used, plan.MonthlyOrderLimit)
	if decision == billing.DecisionLimitReached {
		s.logger.Info("Delivery order limit reached",
			zap.String("tenant_id", plan.TenantID.String()),
			zap.String("period", period),
			zap.Int("used", used),
			zap.Int("limit", plan.MonthlyOrderLimit))
	}

	return decision, nil
}

// Commit records one created delivery order against the tenant's
// counter. It is a no-op for tenants the quota does not bind. The
// storage layer re-checks the limit, so a commit racing past the
// allowance fails instead of overshooting.
func (s *QuotaService) Commit(ctx context.Context, plan *subscription.TenantPlan) error {
	ent := plan.Entitlements()
	if !ent.QuotaApplies {
		return nil
	}

	period := billing.CurrentPeriod(s.now())
	ok, err := s.usageRepo.IncrementWithinLimit(ctx, plan.TenantID, period, plan.MonthlyOrderLimit)
	if err != nil {
		return fmt.Errorf("failed to increment usage counter: %w", err)
	}
	if !ok {
		return shared.NewDomainError("LIMIT_REACHED",
			"Usage counter is already at the limit; order admission raced past the allowance")
	}

	return nil
}

// CurrentUsage returns the tenant's quota view for the current period.
// Tenants without a stored plan are treated as free tier, the same rule
// order admission applies.
func (s *QuotaService) CurrentUsage(ctx context.Context, tenantID uuid.UUID) (billing.Usage, error) {
	plan, err := s.planRepo.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		plan, err = subscription.NewTenantPlan(tenantID, subscription.PlanTierFree)
	}
	if err != nil {
		return billing.Usage{}, fmt.Errorf("failed to load tenant plan: %w", err)
	}

	period := billing.CurrentPeriod(s.now())
	used, err := s.usageRepo.CurrentCount(ctx, tenantID, period)
	if err != nil {
		return billing.Usage{}, fmt.Errorf("failed to read usage counter: %w", err)
	}

	return billing.ResolveUsage(plan.Entitlements(), period, used, plan.MonthlyOrderLimit), nil
}

// ResetCycle deletes the tenant's counter for the current period.
// Only cycle close calls this.
func (s *QuotaService) ResetCycle(ctx context.Context, tenantID uuid.UUID) error {
	period := billing.CurrentPeriod(s.now())
	if err := s.usageRepo.Reset(ctx, tenantID, period); err != nil {
		return fmt.Errorf("failed to reset usage counter: %w", err)
	}

	s.logger.Info("Usage counter reset",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", period))

	return nil
}
