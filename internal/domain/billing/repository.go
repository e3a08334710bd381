package billing

import (
	"context"

	"github.com/google/uuid"
)

// UsageRepository defines the interface for usage counter persistence
type UsageRepository interface {
	// CurrentCount returns the count for a tenant and period, zero when
	// no counter row exists yet
	CurrentCount(ctx context.Context, tenantID uuid.UUID, period string) (int, error)

	// IncrementWithinLimit atomically increments the counter for a
	// tenant and period, creating the row if needed. It returns false
	// when the increment would push the count past limit. A negative
	// limit never blocks.
	IncrementWithinLimit(ctx context.Context, tenantID uuid.UUID, period string, limit int) (bool, error)

	// Reset removes the counter row for a tenant and period
	Reset(ctx context.Context, tenantID uuid.UUID, period string) error
}
