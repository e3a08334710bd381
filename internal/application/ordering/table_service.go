package ordering

import (
	"context"
	"fmt"

	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TableSession is the resolved view of a table with its session orders
type TableSession struct {
	Table  *ordering.Table
	Orders []ordering.Order
	Total  valueobject.Money
}

// TableService runs the dine-in table cycle: occupy, accumulate
// sub-orders, pay, release.
type TableService struct {
	tableRepo ordering.TableRepository
	orderRepo ordering.OrderRepository
	tx        shared.TxRunner
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewTableService creates a new TableService
func NewTableService(
	tableRepo ordering.TableRepository,
	orderRepo ordering.OrderRepository,
	tx shared.TxRunner,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TableService {
	return &TableService{
		tableRepo: tableRepo,
		orderRepo: orderRepo,
		tx:        tx,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateTable registers a new table for a tenant
func (s *TableService) CreateTable(ctx context.Context, tenantID uuid.UUID, number int) (*ordering.Table, error) {
	if existing, err := s.tableRepo.FindByNumber(ctx, tenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("TABLE_EXISTS", fmt.Sprintf("Table %d already exists", number))
	}

	table, err := ordering.NewTable(tenantID, number)
	if err != nil {
		return nil, err
	}
	if err := s.tableRepo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}
	return table, nil
}

// OccupyTable opens a session on a free table
func (s *TableService) OccupyTable(ctx context.Context, tenantID, tableID uuid.UUID, customerName string) (*ordering.Table, error) {
	return s.mutateTable(ctx, tenantID, tableID, func(t *ordering.Table) error {
		return t.Occupy(customerName)
	})
}

// PayTable settles the session bill
func (s *TableService) PayTable(ctx context.Context, tenantID, tableID uuid.UUID) (*ordering.Table, error) {
	return s.mutateTable(ctx, tenantID, tableID, func(t *ordering.Table) error {
		return t.MarkPaid()
	})
}

// ReleaseTable frees a paid table, wiping the session and finalizing
// its open sub-orders
func (s *TableService) ReleaseTable(ctx context.Context, tenantID, tableID uuid.UUID) (*ordering.Table, error) {
	table, err := s.tableRepo.FindByIDForTenant(ctx, tenantID, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	orders, err := s.orderRepo.FindByTable(ctx, tenantID, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table orders: %w", err)
	}

	if err := table.Release(); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range orders {
			if orders[i].IsFinalized() {
				continue
			}
			orders[i].ForceFinalize()
			if err := s.orderRepo.SaveWithLock(txCtx, &orders[i]); err != nil {
				return fmt.Errorf("failed to finalize table order: %w", err)
			}
		}
		if err := s.tableRepo.SaveWithLock(txCtx, table); err != nil {
			return fmt.Errorf("failed to save table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Table released",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("table_number", table.Number))

	s.publishTable(ctx, table)

	return table, nil
}

// GetSession returns a table with its session orders and running total
func (s *TableService) GetSession(ctx context.Context, tenantID, tableID uuid.UUID) (*TableSession, error) {
	table, err := s.tableRepo.FindByIDForTenant(ctx, tenantID, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	orders, err := s.orderRepo.FindByTable(ctx, tenantID, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table orders: %w", err)
	}

	total := decimal.Zero
	for i := range orders {
		total = total.Add(orders[i].ComputedTotal)
	}

	return &TableSession{
		Table:  table,
		Orders: orders,
		Total:  valueobject.NewMoneyBRL(total),
	}, nil
}

// ListTables returns all tables for a tenant
func (s *TableService) ListTables(ctx context.Context, tenantID uuid.UUID) ([]ordering.Table, error) {
	return s.tableRepo.FindAllForTenant(ctx, tenantID)
}

func (s *TableService) mutateTable(ctx context.Context, tenantID, tableID uuid.UUID, mutate func(*ordering.Table) error) (*ordering.Table, error) {
	table, err := s.tableRepo.FindByIDForTenant(ctx, tenantID, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	if err := mutate(table); err != nil {
		return nil, err
	}

	if err := s.tableRepo.SaveWithLock(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to save table: %w", err)
	}

	s.publishTable(ctx, table)

	return table, nil
}

func (s *TableService) publishTable(ctx context.Context, table *ordering.Table) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, table.GetDomainEvents()...); err != nil {
		s.logger.Warn("Failed to publish table events", zap.Error(err))
	}
	table.ClearDomainEvents()
}
