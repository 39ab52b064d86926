package lifecycle

import (
	"context"

	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
)

const (
	opGroupTables       = "group_tables"
	opUngroupTables     = "ungroup_tables"
	opReserveTable      = "reserve_table"
	opCancelReservation = "cancel_reservation"
)

func (s *service) GroupTables(ctx context.Context, input GroupInput) ([]models.Table, error) {
	var grouped []models.Table
	err := s.run(ctx, opGroupTables, func(tx *gorm.DB) error {
		members, err := s.tables.WithTx(tx).Group(ctx, input.TableNumbers, input.Primary)
		if err != nil {
			return err
		}
		grouped = members
		return s.emitTables(ctx, tx, members, nil, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	if len(grouped) > 0 && grouped[0].GroupID != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"group_id":      grouped[0].GroupID.String(),
			"table_numbers": tableNumbers(grouped),
			"primary":       input.Primary,
		})
		s.logg.Info(logCtx, "tables grouped")
	}
	return grouped, nil
}

// UngroupTables dissolves a group. Occupancy is left as it is; the order that
// held the group still releases every member when it settles.
func (s *service) UngroupTables(ctx context.Context, input UngroupInput) ([]models.Table, error) {
	var released []models.Table
	err := s.run(ctx, opUngroupTables, func(tx *gorm.DB) error {
		members, err := s.tables.WithTx(tx).Ungroup(ctx, input.GroupID)
		if err != nil {
			return err
		}
		released = members
		return s.emitTables(ctx, tx, members, nil, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"group_id":      input.GroupID.String(),
		"table_numbers": tableNumbers(released),
	})
	s.logg.Info(logCtx, "tables ungrouped")
	return released, nil
}

func (s *service) ReserveTable(ctx context.Context, input ReserveInput) (*models.Table, error) {
	ctx = s.logg.WithTableNumber(ctx, input.TableNumber)

	var reserved *models.Table
	err := s.run(ctx, opReserveTable, func(tx *gorm.DB) error {
		table, err := s.tables.WithTx(tx).Reserve(ctx, input.TableNumber, input.ReservedBy, input.At)
		if err != nil {
			return err
		}
		reserved = table
		return s.emitTables(ctx, tx, []models.Table{*table}, nil, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(statusTally{reserved.Status: 1})
	s.logg.Info(ctx, "table reserved")
	return reserved, nil
}

func (s *service) CancelReservation(ctx context.Context, input CancelReservationInput) (*models.Table, error) {
	ctx = s.logg.WithTableNumber(ctx, input.TableNumber)

	var freed *models.Table
	err := s.run(ctx, opCancelReservation, func(tx *gorm.DB) error {
		table, err := s.tables.WithTx(tx).CancelReservation(ctx, input.TableNumber)
		if err != nil {
			return err
		}
		freed = table
		return s.emitTables(ctx, tx, []models.Table{*table}, nil, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(statusTally{freed.Status: 1})
	s.logg.Info(ctx, "reservation cancelled")
	return freed, nil
}

func tableNumbers(tables []models.Table) []int {
	numbers := make([]int, 0, len(tables))
	for _, t := range tables {
		numbers = append(numbers, t.Number)
	}
	return numbers
}
