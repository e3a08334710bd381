package catalog

import (
	"context"
	"fmt"

	"github.com/comanda/backend/internal/domain/catalog"
	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MenuItemInput carries a menu item create or update
type MenuItemInput struct {
	Name      string
	Category  string
	Price     decimal.Decimal
	Available *bool
}

// MenuService administers a tenant's menu
type MenuService struct {
	menuRepo catalog.MenuItemRepository
	logger   *zap.Logger
}

// NewMenuService creates a new MenuService
func NewMenuService(menuRepo catalog.MenuItemRepository, logger *zap.Logger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// CreateItem adds an item to the tenant's menu
func (s *MenuService) CreateItem(ctx context.Context, tenantID uuid.UUID, input MenuItemInput) (*catalog.MenuItem, error) {
	item, err := catalog.NewMenuItem(tenantID, input.Name, input.Category, valueobject.NewMoneyBRL(input.Price))
	if err != nil {
		return nil, err
	}
	if input.Available != nil {
		item.SetAvailability(*input.Available)
	}

	if err := s.menuRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	s.logger.Info("Menu item created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("name", item.Name))

	return item, nil
}

// UpdateItem changes a menu item
func (s *MenuService) UpdateItem(ctx context.Context, tenantID, itemID uuid.UUID, input MenuItemInput) (*catalog.MenuItem, error) {
	item, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}

	if err := item.Update(input.Name, input.Category, valueobject.NewMoneyBRL(input.Price)); err != nil {
		return nil, err
	}
	if input.Available != nil {
		item.SetAvailability(*input.Available)
	}

	if err := s.menuRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save menu item: %w", err)
	}

	return item, nil
}

// DeleteItem removes a menu item
func (s *MenuService) DeleteItem(ctx context.Context, tenantID, itemID uuid.UUID) error {
	if _, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, itemID); err != nil {
		return fmt.Errorf("failed to load menu item: %w", err)
	}
	if err := s.menuRepo.DeleteForTenant(ctx, tenantID, itemID); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// ListItems returns the tenant's menu
func (s *MenuService) ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.MenuItem, error) {
	return s.menuRepo.FindAllForTenant(ctx, tenantID, filter)
}

// GetItem returns one menu item
func (s *MenuService) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*catalog.MenuItem, error) {
	return s.menuRepo.FindByIDForTenant(ctx, tenantID, itemID)
}
