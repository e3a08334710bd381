package ordering

import (
	"context"
	"fmt"

	appbilling "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CycleCloseResult summarizes what a cycle close touched
type CycleCloseResult struct {
	OrdersFinalized int `json:"orders_finalized"`
	TablesReleased  int `json:"tables_released"`
}

// CycleService closes a tenant's operational cycle. Closing is
// destructive and irreversible: every open order is finalized, every
// table is released and the month's usage counter is deleted, all in
// one transaction.
type CycleService struct {
	orderRepo ordering.OrderRepository
	tableRepo ordering.TableRepository
	quota     *appbilling.QuotaService
	tx        shared.TxRunner
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewCycleService creates a new CycleService
func NewCycleService(
	orderRepo ordering.OrderRepository,
	tableRepo ordering.TableRepository,
	quota *appbilling.QuotaService,
	tx shared.TxRunner,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *CycleService {
	return &CycleService{
		orderRepo: orderRepo,
		tableRepo: tableRepo,
		quota:     quota,
		tx:        tx,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CloseCycle closes the tenant's current cycle
func (s *CycleService) CloseCycle(ctx context.Context, tenantID uuid.UUID) (*CycleCloseResult, error) {
	result := &CycleCloseResult{}

	err := s.quota.WithTenantLock(tenantID, func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			orders, err := s.orderRepo.FindOpenForTenant(txCtx, tenantID)
			if err != nil {
				return fmt.Errorf("failed to load open orders: %w", err)
			}
			for i := range orders {
				orders[i].ForceFinalize()
				if err := s.orderRepo.SaveWithLock(txCtx, &orders[i]); err != nil {
					return fmt.Errorf("failed to finalize order: %w", err)
				}
				result.OrdersFinalized++
			}

			tables, err := s.tableRepo.FindAllForTenant(txCtx, tenantID)
			if err != nil {
				return fmt.Errorf("failed to load tables: %w", err)
			}
			for i := range tables {
				if tables[i].IsFree() {
					continue
				}
				tables[i].ForceRelease()
				if err := s.tableRepo.SaveWithLock(txCtx, &tables[i]); err != nil {
					return fmt.Errorf("failed to release table: %w", err)
				}
				result.TablesReleased++
			}

			return s.quota.ResetCycle(txCtx, tenantID)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cycle closed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("orders_finalized", result.OrdersFinalized),
		zap.Int("tables_released", result.TablesReleased))

	return result, nil
}
