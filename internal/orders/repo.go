package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOpenByTable(ctx context.Context, tableNumber int) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	MarkPaid(ctx context.Context, id uuid.UUID, method enums.PaymentMethod, paidAt time.Time) (bool, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	SaveItem(ctx context.Context, item *models.OrderItem) error
	NextOrderNumber(ctx context.Context) (int64, error)
	List(ctx context.Context, params ListQuery) ([]models.Order, *pagination.Cursor, error)
}

// ListQuery filters an order listing.
type ListQuery struct {
	Status      *enums.OrderStatus
	TableNumber *int
	IsPaid      *bool
	Limit       int
	Cursor      *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// Create inserts the order together with any items attached to it.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.find(withItems(r.db.WithContext(ctx)), id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.find(withItems(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})), id)
}

func (r *repository) find(query *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
				WithDetails(map[string]any{"orderId": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return &order, nil
}

// FindOpenByTable returns the unpaid, uncancelled order on the table, or nil.
func (r *repository) FindOpenByTable(ctx context.Context, tableNumber int) (*models.Order, error) {
	var order models.Order
	err := withItems(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})).
		Where("table_number = ? AND is_paid = ? AND status <> ?", tableNumber, false, enums.OrderStatusCancelled).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load open order")
	}
	return &order, nil
}

// Save writes the order's own columns; items are persisted separately.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}
	return nil
}

// MarkPaid flips is_paid only while it is still false. It reports whether
// this call won; a false result means another settlement got there first.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, method enums.PaymentMethod, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]any{
			"is_paid":        true,
			"payment_method": method,
			"paid_at":        paidAt,
			"updated_at":     paidAt,
		})
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "mark order paid")
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
	}
	return nil
}

func (r *repository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order item")
	}
	return nil
}

// NextOrderNumber bumps the order counter. Inside a transaction the row lock
// taken by the update serialises concurrent callers.
func (r *repository) NextOrderNumber(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: models.CounterOrderNumber, Value: 0}).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seed order counter")
	}
	if err := db.Model(&models.Counter{}).
		Where("name = ?", models.CounterOrderNumber).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bump order counter")
	}
	var counter models.Counter
	if err := db.Where("name = ?", models.CounterOrderNumber).First(&counter).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read order counter")
	}
	return counter.Value, nil
}

// List pages orders newest first. The returned cursor points at the last row
// of this page and is nil when nothing follows.
func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := withItems(r.db.WithContext(ctx).Model(&models.Order{}))
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.TableNumber != nil {
		query = query.Where("table_number = ?", *params.TableNumber)
	}
	if params.IsPaid != nil {
		query = query.Where("is_paid = ?", *params.IsPaid)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
