package billing

import (
	"time"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// PeriodLayout is the time layout for billing periods (calendar month)
const PeriodLayout = "2006-01"

// CurrentPeriod returns the billing period key for the given time
func CurrentPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}

// UsageCounter counts delivery orders created by a tenant within one
// billing period. One row exists per tenant and period; the counter is
// only ever incremented after the order it accounts for has been
// persisted.
type UsageCounter struct {
	shared.TenantAggregateRoot
	Period string `gorm:"type:varchar(7);not null;uniqueIndex:idx_usage_tenant_period,priority:2"`
	Used   int    `gorm:"not null;default:0"`
}

// TableName returns the database table name
func (UsageCounter) TableName() string {
	return "usage_counters"
}

// NewUsageCounter creates a zeroed counter for a tenant and period
func NewUsageCounter(tenantID uuid.UUID, period string) (*UsageCounter, error) {
	if _, err := time.Parse(PeriodLayout, period); err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be formatted as YYYY-MM")
	}

	return &UsageCounter{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Period:              period,
		Used:                0,
	}, nil
}

// Increment records one more created delivery order
func (c *UsageCounter) Increment() {
	c.Used++
	c.UpdatedAt = time.Now()
}

// Decision is the outcome of checking a tenant's quota
type Decision string

const (
	// DecisionAllowed means the order may be created
	DecisionAllowed Decision = "ALLOWED"

	// DecisionLimitReached means the tenant exhausted its allowance
	DecisionLimitReached Decision = "LIMIT_REACHED"
)

// String returns the string representation of Decision
func (d Decision) String() string {
	return string(d)
}

// Usage is the resolved quota view returned to callers
type Usage struct {
	Period    string `json:"period"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Bound     bool   `json:"bound"`
}

// Decide checks whether one more delivery order fits the tenant's
// allowance. Tenants whose entitlements exempt them from the quota are
// always allowed, as is any limit below zero (unlimited).
func Decide(ent subscription.Entitlements, used, limit int) Decision {
	if !ent.QuotaApplies {
		return DecisionAllowed
	}
	if limit < 0 {
		return DecisionAllowed
	}
	if used >= limit {
		return DecisionLimitReached
	}
	return DecisionAllowed
}

// ResolveUsage builds the Usage view for a tenant. Remaining is zero
// for exhausted counters and -1 when the quota does not bind.
func ResolveUsage(ent subscription.Entitlements, period string, used, limit int) Usage {
	u := Usage{
		Period: period,
		Used:   used,
		Limit:  limit,
		Bound:  ent.QuotaApplies && limit >= 0,
	}

	if !u.Bound {
		u.Remaining = -1
		return u
	}

	u.Remaining = limit - used
	if u.Remaining < 0 {
		u.Remaining = 0
	}
	return u
}
