package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/comanda/backend/internal/domain/shared"
)

// newMockDatabase wires a Database over a sqlmock connection so tests can
// assert the exact SQL the repositories emit against postgres.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// GORM pings the connection during Open.
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock
}

func TestDatabasePing(t *testing.T) {
	db, mock := newMockDatabase(t)
	defer db.Close()

	mock.ExpectPing()

	require.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseClose(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderListSortIsWhitelisted(t *testing.T) {
	tenantID := uuid.New()

	t.Run("allowed sort field reaches the query", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE tenant_id = \$1 ORDER BY computed_total ASC LIMIT \$2`).
			WithArgs(tenantID.String(), 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		repo := NewGormOrderRepository(db.DB)
		filter := shared.Filter{Limit: 10, OrderBy: "computed_total asc"}

		orders, err := repo.FindAllForTenant(context.Background(), tenantID, filter)
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE tenant_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs(tenantID.String(), 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		repo := NewGormOrderRepository(db.DB)
		filter := shared.Filter{Limit: 10, OrderBy: `password; DROP TABLE orders`}

		_, err := repo.FindAllForTenant(context.Background(), tenantID, filter)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
