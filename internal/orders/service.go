package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/pagination"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// Service exposes the read side of orders. Mutations go through the lifecycle coordinator.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*types.Page[models.Order], error)
}

// ListParams are the caller-facing list filters.
type ListParams struct {
	Status      *enums.OrderStatus
	TableNumber *int
	IsPaid      *bool
	pagination.Params
}

type service struct {
	repo Repository
}

// NewService wires the order read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) (*types.Page[models.Order], error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(*params.Status)})
	}
	query := ListQuery{
		Status:      params.Status,
		TableNumber: params.TableNumber,
		IsPaid:      params.IsPaid,
		Limit:       params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	page := &types.Page[models.Order]{Items: rows}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}
