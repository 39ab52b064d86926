package tables

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

// Store owns table occupancy, grouping and reservations.
type Store interface {
	WithTx(tx *gorm.DB) Store
	Get(ctx context.Context, number int) (*models.Table, error)
	List(ctx context.Context) ([]models.Table, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]models.Table, error)
	Occupy(ctx context.Context, number int, orderID uuid.UUID) ([]models.Table, error)
	Free(ctx context.Context, number int) ([]models.Table, error)
	FreeIfCurrent(ctx context.Context, number int, orderID uuid.UUID) ([]models.Table, error)
	Group(ctx context.Context, numbers []int, primary int) ([]models.Table, error)
	Ungroup(ctx context.Context, groupID uuid.UUID) ([]models.Table, error)
	Reserve(ctx context.Context, number int, reservedBy string, at time.Time) (*models.Table, error)
	CancelReservation(ctx context.Context, number int) (*models.Table, error)
	CreateTable(ctx context.Context, number, capacity int) (*models.Table, error)
	DeleteTable(ctx context.Context, number int) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a table store bound to the provided DB.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) WithTx(tx *gorm.DB) Store {
	if tx == nil {
		return s
	}
	return &store{db: tx}
}

func (s *store) locked(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *store) Get(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&table).Error; err != nil {
		return nil, mapLookupErr(err, number)
	}
	return &table, nil
}

func (s *store) lockTable(ctx context.Context, number int) (*models.Table, error) {
	var table models.Table
	if err := s.locked(ctx).Where("number = ?", number).First(&table).Error; err != nil {
		return nil, mapLookupErr(err, number)
	}
	return &table, nil
}

func (s *store) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tables")
	}
	return tables, nil
}

func (s *store) Members(ctx context.Context, groupID uuid.UUID) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("number ASC").
		Find(&tables).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list group members")
	}
	return tables, nil
}

// scope locks every member of the table's group, or just the table when ungrouped.
func (s *store) scope(ctx context.Context, table *models.Table) ([]models.Table, error) {
	if table.GroupID == nil {
		return []models.Table{*table}, nil
	}
	var members []models.Table
	if err := s.locked(ctx).
		Where("group_id = ?", *table.GroupID).
		Order("number ASC").
		Find(&members).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock group members")
	}
	return members, nil
}

func (s *store) reload(ctx context.Context, ids []uuid.UUID) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload tables")
	}
	return tables, nil
}

func (s *store) Occupy(ctx context.Context, number int, orderID uuid.UUID) ([]models.Table, error) {
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return nil, err
	}
	if table.IsSecondary() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "table is a secondary member of a group").
			WithDetails(map[string]any{"tableNumber": number, "groupId": table.GroupID})
	}

	members, err := s.scope(ctx, table)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	alreadyHeld := true
	for _, member := range members {
		if member.CurrentOrderID != nil && *member.CurrentOrderID != orderID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "table is occupied by another order").
				WithDetails(map[string]any{"tableNumber": member.Number, "currentOrderId": member.CurrentOrderID})
		}
		if member.Number != number && member.Status == enums.TableStatusReserved {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a grouped table is reserved").
				WithDetails(map[string]any{"tableNumber": member.Number, "reservedBy": member.ReservedBy})
		}
		if member.CurrentOrderID == nil {
			alreadyHeld = false
		}
		ids = append(ids, member.ID)
	}
	if alreadyHeld {
		return members, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":           enums.TableStatusOccupied,
			"current_order_id": orderID,
			"reserved_by":      nil,
			"reserved_time":    nil,
			"updated_at":       time.Now().UTC(),
		}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "occupy table")
	}
	return s.reload(ctx, ids)
}

func (s *store) Free(ctx context.Context, number int) ([]models.Table, error) {
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return nil, err
	}
	members, err := s.scope(ctx, table)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	if err := s.release(ctx, s.db.WithContext(ctx).Where("id IN ?", ids)); err != nil {
		return nil, err
	}
	return s.reload(ctx, ids)
}

// FreeIfCurrent releases every table still held by orderID, provided the given
// table's current order is orderID. Tables that were ungrouped while occupied
// are released together with the primary.
func (s *store) FreeIfCurrent(ctx context.Context, number int, orderID uuid.UUID) ([]models.Table, error) {
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return nil, err
	}
	if table.CurrentOrderID == nil || *table.CurrentOrderID != orderID {
		return nil, nil
	}

	var held []models.Table
	if err := s.locked(ctx).Where("current_order_id = ?", orderID).Find(&held).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock held tables")
	}
	ids := make([]uuid.UUID, 0, len(held))
	for _, t := range held {
		ids = append(ids, t.ID)
	}
	if err := s.release(ctx, s.db.WithContext(ctx).Where("id IN ?", ids)); err != nil {
		return nil, err
	}
	return s.reload(ctx, ids)
}

func (s *store) release(ctx context.Context, scoped *gorm.DB) error {
	if err := scoped.Model(&models.Table{}).Updates(map[string]any{
		"status":           enums.TableStatusFree,
		"current_order_id": nil,
		"updated_at":       time.Now().UTC(),
	}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "free tables")
	}
	return nil
}

func (s *store) Group(ctx context.Context, numbers []int, primary int) ([]models.Table, error) {
	distinct, err := validateGroupShape(numbers, primary)
	if err != nil {
		return nil, err
	}

	var candidates []models.Table
	if err := s.locked(ctx).Where("number IN ?", distinct).Order("number ASC").Find(&candidates).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock group candidates")
	}
	if missing := missingNumbers(distinct, candidates); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table not found").
			WithDetails(map[string]any{"tableNumbers": missing})
	}

	var violations error
	offending := make([]int, 0)
	for _, t := range candidates {
		var problem error
		switch {
		case t.GroupID != nil:
			problem = fmt.Errorf("table %d is already grouped", t.Number)
		case t.Status != enums.TableStatusFree:
			problem = fmt.Errorf("table %d is %s", t.Number, t.Status)
		}
		if problem != nil {
			violations = multierr.Append(violations, problem)
			offending = append(offending, t.Number)
		}
	}
	if violations != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, violations, "tables cannot be grouped").
			WithDetails(map[string]any{"tableNumbers": offending, "reasons": errorStrings(violations)})
	}

	groupID := uuid.New()
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("number IN ? AND status = ? AND group_id IS NULL", distinct, enums.TableStatusFree).
		Updates(map[string]any{"group_id": groupID, "is_primary": false, "updated_at": now})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "group tables")
	}
	if res.RowsAffected != int64(len(distinct)) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "tables changed while grouping").
			WithDetails(map[string]any{"tableNumbers": distinct})
	}
	if err := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("number = ? AND group_id = ?", primary, groupID).
		Update("is_primary", true).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark primary table")
	}
	return s.Members(ctx, groupID)
}

func validateGroupShape(numbers []int, primary int) ([]int, error) {
	seen := make(map[int]struct{}, len(numbers))
	distinct := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if n <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "table numbers must be positive").
				WithDetails(map[string]any{"tableNumber": n})
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		distinct = append(distinct, n)
	}
	if len(distinct) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a group needs at least two distinct tables").
			WithDetails(map[string]any{"tableNumbers": numbers})
	}
	if _, ok := seen[primary]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "primary table must be one of the grouped tables").
			WithDetails(map[string]any{"primary": primary, "tableNumbers": distinct})
	}
	sort.Ints(distinct)
	return distinct, nil
}

func missingNumbers(want []int, found []models.Table) []int {
	have := make(map[int]struct{}, len(found))
	for _, t := range found {
		have[t.Number] = struct{}{}
	}
	missing := make([]int, 0)
	for _, n := range want {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

func errorStrings(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func (s *store) Ungroup(ctx context.Context, groupID uuid.UUID) ([]models.Table, error) {
	var members []models.Table
	if err := s.locked(ctx).Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock group members")
	}
	if len(members) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table group not found").
			WithDetails(map[string]any{"groupId": groupID})
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	if err := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"group_id": nil, "is_primary": false, "updated_at": time.Now().UTC()}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ungroup tables")
	}
	return s.reload(ctx, ids)
}

func (s *store) Reserve(ctx context.Context, number int, reservedBy string, at time.Time) (*models.Table, error) {
	reservedBy = strings.TrimSpace(reservedBy)
	if reservedBy == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservedBy is required")
	}
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return nil, err
	}
	if table.GroupID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "grouped tables cannot be reserved").
			WithDetails(map[string]any{"tableNumber": number, "groupId": table.GroupID})
	}
	if table.Status != enums.TableStatusFree {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "only free tables can be reserved").
			WithDetails(map[string]any{"tableNumber": number, "status": table.Status})
	}
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()
	if err := s.db.WithContext(ctx).Model(table).Updates(map[string]any{
		"status":        enums.TableStatusReserved,
		"reserved_by":   reservedBy,
		"reserved_time": at,
	}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve table")
	}
	return s.Get(ctx, number)
}

func (s *store) CancelReservation(ctx context.Context, number int) (*models.Table, error) {
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return nil, err
	}
	if table.Status != enums.TableStatusReserved {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "table is not reserved").
			WithDetails(map[string]any{"tableNumber": number, "status": table.Status})
	}
	if err := s.db.WithContext(ctx).Model(table).Updates(map[string]any{
		"status":        enums.TableStatusFree,
		"reserved_by":   nil,
		"reserved_time": nil,
	}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel reservation")
	}
	return s.Get(ctx, number)
}

func (s *store) CreateTable(ctx context.Context, number, capacity int) (*models.Table, error) {
	if number <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number must be positive").
			WithDetails(map[string]any{"tableNumber": number})
	}
	if capacity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be positive").
			WithDetails(map[string]any{"capacity": capacity})
	}
	table := &models.Table{
		Number:   number,
		Capacity: capacity,
		Status:   enums.TableStatusFree,
	}
	if err := s.db.WithContext(ctx).Create(table).Error; err != nil {
		if db.IsUniqueViolation(err, "ux_tables_number") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "table number already exists").
				WithDetails(map[string]any{"tableNumber": number})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create table")
	}
	return table, nil
}

func (s *store) DeleteTable(ctx context.Context, number int) error {
	table, err := s.lockTable(ctx, number)
	if err != nil {
		return err
	}
	if table.Status == enums.TableStatusOccupied || table.GroupID != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "table is in use").
			WithDetails(map[string]any{"tableNumber": number, "status": table.Status, "groupId": table.GroupID})
	}
	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("table_number = ?", number).Count(&refs).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count table orders")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "table is referenced by orders").
			WithDetails(map[string]any{"tableNumber": number, "orders": refs})
	}
	if err := s.db.WithContext(ctx).Delete(table).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete table")
	}
	return nil
}

func mapLookupErr(err error, number int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "table not found").
			WithDetails(map[string]any{"tableNumber": number})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load table")
}
