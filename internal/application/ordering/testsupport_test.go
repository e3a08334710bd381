package ordering

import (
	"context"
	"sync"

	appbilling "github.com/comanda/backend/internal/application/billing"
	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/delivery"
	"github.com/comanda/backend/internal/domain/ordering"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// nopTx runs the function directly; the in-memory fakes have no
// transaction semantics to coordinate.
type nopTx struct{}

func (nopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*ordering.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *memOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.TenantID == tenantID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status ordering.OrderStatus, _ shared.Filter) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.Status == status {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) FindOpenForTenant(_ context.Context, tenantID uuid.UUID) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.TenantID == tenantID && !order.IsFinalized() {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) FindByTable(_ context.Context, tenantID, tableID uuid.UUID) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Order
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.TableID != nil && *order.TableID == tableID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *memOrderRepo) Save(_ context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memOrderRepo) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	return r.Save(ctx, order)
}

type memTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*ordering.Table
}

func newMemTableRepo() *memTableRepo {
	return &memTableRepo{tables: make(map[uuid.UUID]*ordering.Table)}
}

func (r *memTableRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[id]
	if !ok || table.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *table
	return &copied, nil
}

func (r *memTableRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ordering.Table
	for _, table := range r.tables {
		if table.TenantID == tenantID {
			out = append(out, *table)
		}
	}
	return out, nil
}

func (r *memTableRepo) FindByNumber(_ context.Context, tenantID uuid.UUID, number int) (*ordering.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, table := range r.tables {
		if table.TenantID == tenantID && table.Number == number {
			copied := *table
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTableRepo) Save(_ context.Context, table *ordering.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *table
	r.tables[table.ID] = &copied
	return nil
}

func (r *memTableRepo) SaveWithLock(ctx context.Context, table *ordering.Table) error {
	return r.Save(ctx, table)
}

type memTierRepo struct {
	mu    sync.Mutex
	tiers map[uuid.UUID][]delivery.FeeTier
}

func newMemTierRepo() *memTierRepo {
	return &memTierRepo{tiers: make(map[uuid.UUID][]delivery.FeeTier)}
}

func (r *memTierRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]delivery.FeeTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery.FeeTier(nil), r.tiers[tenantID]...), nil
}

func (r *memTierRepo) ReplaceForTenant(_ context.Context, tenantID uuid.UUID, tiers []delivery.FeeTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[tenantID] = append([]delivery.FeeTier(nil), tiers...)
	return nil
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*delivery.Settings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{settings: make(map[uuid.UUID]*delivery.Settings)}
}

func (r *memSettingsRepo) FindByTenant(_ context.Context, tenantID uuid.UUID) (*delivery.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (r *memSettingsRepo) Save(_ context.Context, settings *delivery.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *settings
	r.settings[settings.TenantID] = &copied
	return nil
}

type memMenuRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.MenuItem
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{items: make(map[uuid.UUID]*catalog.MenuItem)}
}

func (r *memMenuRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *memMenuRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.MenuItem
	for _, item := range r.items {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memMenuRepo) Save(_ context.Context, item *catalog.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *memMenuRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*subscription.TenantPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[uuid.UUID]*subscription.TenantPlan)}
}

func (r *memPlanRepo) FindByTenant(_ context.Context, tenantID uuid.UUID) (*subscription.TenantPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[tenantID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return plan, nil
}

func (r *memPlanRepo) Save(_ context.Context, plan *subscription.TenantPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.TenantID] = plan
	return nil
}

func (r *memPlanRepo) SaveWithLock(ctx context.Context, plan *subscription.TenantPlan) error {
	return r.Save(ctx, plan)
}

type memUsageRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMemUsageRepo() *memUsageRepo {
	return &memUsageRepo{counts: make(map[string]int)}
}

func usageKey(tenantID uuid.UUID, period string) string {
	return tenantID.String() + "/" + period
}

func (r *memUsageRepo) CurrentCount(_ context.Context, tenantID uuid.UUID, period string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[usageKey(tenantID, period)], nil
}

func (r *memUsageRepo) IncrementWithinLimit(_ context.Context, tenantID uuid.UUID, period string, limit int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := usageKey(tenantID, period)
	if limit >= 0 && r.counts[key] >= limit {
		return false, nil
	}
	r.counts[key]++
	return true, nil
}

func (r *memUsageRepo) Reset(_ context.Context, tenantID uuid.UUID, period string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.counts, usageKey(tenantID, period))
	return nil
}

// fakeCheckout hands out predictable URLs
type fakeCheckout struct{}

func (fakeCheckout) TopupCheckoutURL(_ context.Context, _, orderID uuid.UUID) (string, error) {
	return "https://pay.example.test/topup/" + orderID.String(), nil
}

func (fakeCheckout) UpgradeCheckoutURL(_ context.Context, tenantID uuid.UUID, _ subscription.PlanTier) (string, error) {
	return "https://pay.example.test/upgrade/" + tenantID.String(), nil
}

// fixture bundles the fakes and services under test
type fixture struct {
	tenantID  uuid.UUID
	planRepo  *memPlanRepo
	usageRepo *memUsageRepo
	orderRepo *memOrderRepo
	tableRepo *memTableRepo
	tierRepo  *memTierRepo
	settings  *memSettingsRepo
	menuRepo  *memMenuRepo
	quota     *appbilling.QuotaService
	admission *AdmissionService
	lifecycle *LifecycleService
	tables    *TableService
	cycle     *CycleService
}

func newFixture() *fixture {
	logger := zap.NewNop()
	f := &fixture{
		tenantID:  uuid.New(),
		planRepo:  newMemPlanRepo(),
		usageRepo: newMemUsageRepo(),
		orderRepo: newMemOrderRepo(),
		tableRepo: newMemTableRepo(),
		tierRepo:  newMemTierRepo(),
		settings:  newMemSettingsRepo(),
		menuRepo:  newMemMenuRepo(),
	}
	f.quota = appbilling.NewQuotaService(f.planRepo, f.usageRepo, logger)
	f.admission = NewAdmissionService(f.planRepo, f.quota, f.orderRepo, f.tableRepo,
		f.tierRepo, f.settings, f.menuRepo, fakeCheckout{}, nopTx{}, nil, logger)
	f.lifecycle = NewLifecycleService(f.orderRepo, nil, logger)
	f.tables = NewTableService(f.tableRepo, f.orderRepo, nopTx{}, nil, logger)
	f.cycle = NewCycleService(f.orderRepo, f.tableRepo, f.quota, nopTx{}, nil, logger)
	return f
}
