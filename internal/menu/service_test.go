package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/dbtest"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

func TestCreateListAndResolve(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dal, err := svc.Create(ctx, CreateInput{Name: "Dal Makhani", Category: "mains", Price: decimal.RequireFromString("180"), Available: true})
	if err != nil {
		t.Fatalf("create dal: %v", err)
	}
	soup, err := svc.Create(ctx, CreateInput{Name: "Tomato Soup", Category: "starters", Price: decimal.RequireFromString("90"), Available: false})
	if err != nil {
		t.Fatalf("create soup: %v", err)
	}

	if _, err := svc.Create(ctx, CreateInput{Name: " ", Category: "mains"}); !pkgerrors.IsValidation(err) {
		t.Fatalf("blank name: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Free lunch", Category: "mains", Price: decimal.NewFromInt(-1)}); !pkgerrors.IsValidation(err) {
		t.Fatalf("negative price: expected validation error, got %v", err)
	}

	all, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items, got %d", len(all))
	}

	available, err := svc.List(ctx, ListFilter{AvailableOnly: true})
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 || available[0].Name != "Dal Makhani" {
		t.Fatalf("expected only the dal, got %+v", available)
	}

	found, err := Resolve(ctx, repo, []uuid.UUID{dal.ID, dal.ID})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("duplicate ids should resolve once, got %d", len(found))
	}

	if _, err := Resolve(ctx, repo, []uuid.UUID{dal.ID, soup.ID}); !pkgerrors.IsValidation(err) {
		t.Fatalf("unavailable item: expected validation error, got %v", err)
	}
	if _, err := Resolve(ctx, repo, []uuid.UUID{uuid.New()}); !pkgerrors.IsNotFound(err) {
		t.Fatalf("unknown item: expected not found, got %v", err)
	}
}
