package persistence

import (
	"context"

	"github.com/comanda/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTxRunner implements shared.TxRunner on top of GORM transactions.
// The transaction handle travels in the context so that repositories
// called inside the closure join the same transaction.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new GormTxRunner
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// RunInTx executes fn within a database transaction. Nested calls join
// the enclosing transaction.
func (r *GormTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFor returns the transaction from the context when one is open,
// falling back to the base connection.
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

var _ shared.TxRunner = (*GormTxRunner)(nil)
