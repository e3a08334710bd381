package subscription

import (
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanTier identifies the commercial tier a tenant is subscribed to
type PlanTier string

const (
	PlanTierFree        PlanTier = "FREE"
	PlanTierDeliveryPro PlanTier = "DELIVERY_PRO"
	PlanTierSalonPDV    PlanTier = "SALON_PDV"
	PlanTierPremium     PlanTier = "PREMIUM"
)

// IsValid checks if the tier is a known PlanTier
func (t PlanTier) IsValid() bool {
	switch t {
	case PlanTierFree, PlanTierDeliveryPro, PlanTierSalonPDV, PlanTierPremium:
		return true
	}
	return false
}

// String returns the string representation of PlanTier
func (t PlanTier) String() string {
	return string(t)
}

// TenantPlan represents a tenant's subscription aggregate root.
// It holds the tier plus the individual grants and overrides that
// entitlement resolution works from.
type TenantPlan struct {
	shared.TenantAggregateRoot
	Tier              PlanTier `gorm:"type:varchar(20);not null"`
	HasSalonModule    bool     `gorm:"not null;default:false"`
	HasDeliveryModule bool     `gorm:"not null;default:false"`
	IsLegacyFree      bool     `gorm:"not null;default:false"`
	IsBetaTester      bool     `gorm:"not null;default:false"`
	TableLimit        int      `gorm:"not null;default:-1"`
	UserLimit         int      `gorm:"not null;default:-1"`
	MonthlyOrderLimit int      `gorm:"not null;default:-1"`
}

// TableName returns the database table name
func (TenantPlan) TableName() string {
	return "tenant_plans"
}

// NewTenantPlan creates a tenant plan from the catalogue definition of a tier
func NewTenantPlan(tenantID uuid.UUID, tier PlanTier) (*TenantPlan, error) {
	def, ok := PlanCatalogue[tier]
	if !ok {
		return nil, shared.NewDomainError("INVALID_PLAN_TIER", "Unknown plan tier: "+tier.String())
	}

	plan := &TenantPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Tier:                tier,
		HasSalonModule:      def.HasSalonModule,
		HasDeliveryModule:   def.HasDeliveryModule,
		TableLimit:          def.TableLimit,
		UserLimit:           def.UserLimit,
		MonthlyOrderLimit:   def.MonthlyOrderLimit,
	}

	plan.AddDomainEvent(NewPlanAssignedEvent(plan))

	return plan, nil
}

// ChangeTier switches the plan to another tier, resetting module grants
// and limits to the catalogue values of the target tier. Legacy and beta
// overrides survive the change.
func (p *TenantPlan) ChangeTier(tier PlanTier) error {
	def, ok := PlanCatalogue[tier]
	if !ok {
		return shared.NewDomainError("INVALID_PLAN_TIER", "Unknown plan tier: "+tier.String())
	}
	if p.Tier == tier {
		return shared.NewDomainError("SAME_TIER", "Tenant is already on tier "+tier.String())
	}

	previous := p.Tier
	p.Tier = tier
	p.HasSalonModule = def.HasSalonModule
	p.HasDeliveryModule = def.HasDeliveryModule
	p.TableLimit = def.TableLimit
	p.UserLimit = def.UserLimit
	p.MonthlyOrderLimit = def.MonthlyOrderLimit
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewPlanTierChangedEvent(p, previous))

	return nil
}

// GrantSalonModule enables the salon module independently of the tier
func (p *TenantPlan) GrantSalonModule() {
	p.HasSalonModule = true
	p.UpdatedAt = time.Now()
}

// GrantDeliveryModule enables the delivery module independently of the tier
func (p *TenantPlan) GrantDeliveryModule() {
	p.HasDeliveryModule = true
	p.UpdatedAt = time.Now()
}

// MarkLegacyFree flags the tenant as a grandfathered free account
func (p *TenantPlan) MarkLegacyFree() {
	p.IsLegacyFree = true
	p.UpdatedAt = time.Now()
}

// MarkBetaTester flags the tenant as a beta tester
func (p *TenantPlan) MarkBetaTester() {
	p.IsBetaTester = true
	p.UpdatedAt = time.Now()
}

// Entitlements resolves the effective entitlements for this plan
func (p *TenantPlan) Entitlements() Entitlements {
	return ResolveEntitlements(p)
}
