package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks processed external events so that webhook
// retries do not apply the same effect twice.
type IdempotencyStore interface {
	// MarkProcessed records eventID as processed. It returns true when the
	// event was newly recorded, false when it had already been seen.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether eventID has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)
}
