package shared

import "context"

// TxRunner runs a function inside a storage transaction. Repository
// calls made with the ctx passed to fn join the same transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
