package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

// Service exposes the menu catalogue.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]models.MenuItem, error)
	Create(ctx context.Context, input CreateInput) (*models.MenuItem, error)
}

// CreateInput describes a new menu entry.
type CreateInput struct {
	Name      string
	Category  string
	Price     decimal.Decimal
	Available bool
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.MenuItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu items")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and category are required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]any{"price": input.Price.String()})
	}
	item := &models.MenuItem{
		Name:      name,
		Category:  category,
		Price:     input.Price.Round(2),
		Available: input.Available,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create menu item")
	}
	return item, nil
}

// Resolve loads every referenced menu item, failing with NotFound for unknown
// ids and ValidationFailed for items that are off the menu.
func Resolve(ctx context.Context, repo Repository, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu items")
	}
	var missing, unavailable []uuid.UUID
	for _, id := range ids {
		item, ok := found[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !item.Available:
			unavailable = append(unavailable, id)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found").
			WithDetails(map[string]any{"menuItemIds": missing})
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item unavailable").
			WithDetails(map[string]any{"menuItemIds": unavailable})
	}
	return found, nil
}
