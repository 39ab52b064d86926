package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

// DateLayout is the calendar-day format used for sales dates.
const DateLayout = "2006-01-02"

// Service folds settlements into per-day sales totals.
type Service interface {
	RecordSettlement(ctx context.Context, tx *gorm.DB, input SettlementInput) (*RecordResult, error)
	Day(ctx context.Context, date string) (*models.DailySalesRecord, error)
	Range(ctx context.Context, from, to string) ([]models.DailySalesRecord, error)
}

// SettlementInput is one completed payment.
type SettlementInput struct {
	PaymentID uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	SettledAt time.Time
}

// RecordResult reports the day row after the call. Recorded is false when
// the payment had already been counted and nothing changed.
type RecordResult struct {
	Record   *models.DailySalesRecord
	Recorded bool
}

type service struct {
	repo Repository
	loc  *time.Location
}

// NewService wires the ledger. Day boundaries are midnight in loc.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc}, nil
}

// SalesDate formats t as the local calendar day it falls on.
func (s *service) SalesDate(t time.Time) string {
	return t.In(s.loc).Format(DateLayout)
}

func (s *service) RecordSettlement(ctx context.Context, tx *gorm.DB, input SettlementInput) (*RecordResult, error) {
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settlement amount must be positive").
			WithDetails(map[string]any{"paymentId": input.PaymentID, "amount": input.Amount.String()})
	}
	settledAt := input.SettledAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}
	repo := s.repo.WithTx(tx)
	salesDate := s.SalesDate(settledAt)

	inserted, err := repo.InsertSettlement(ctx, &models.LedgerSettlement{
		PaymentID: input.PaymentID,
		OrderID:   input.OrderID,
		SalesDate: salesDate,
		Amount:    input.Amount,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record ledger settlement")
	}
	if !inserted {
		record, err := repo.FindDay(ctx, salesDate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily sales")
		}
		return &RecordResult{Record: record, Recorded: false}, nil
	}

	record, err := repo.LockDay(ctx, salesDate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock daily sales")
	}
	record.TotalSales = record.TotalSales.Add(input.Amount)
	record.TotalOrders++
	record.AverageOrderValue = record.TotalSales.
		Div(decimal.NewFromInt(int64(record.TotalOrders))).
		Round(2)
	if err := repo.SaveDay(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save daily sales")
	}
	return &RecordResult{Record: record, Recorded: true}, nil
}

func (s *service) Day(ctx context.Context, date string) (*models.DailySalesRecord, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sales date").
			WithDetails(map[string]any{"date": date})
	}
	record, err := s.repo.FindDay(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily sales")
	}
	if record == nil {
		return &models.DailySalesRecord{SalesDate: date}, nil
	}
	return record, nil
}

func (s *service) Range(ctx context.Context, from, to string) ([]models.DailySalesRecord, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date").
			WithDetails(map[string]any{"from": from})
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date").
			WithDetails(map[string]any{"to": to})
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	records, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list daily sales")
	}
	return records, nil
}
