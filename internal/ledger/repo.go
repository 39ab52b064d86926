package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
)

// Repository persists the daily rollup and the settlements folded into it.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertSettlement(ctx context.Context, settlement *models.LedgerSettlement) (bool, error)
	LockDay(ctx context.Context, salesDate string) (*models.DailySalesRecord, error)
	SaveDay(ctx context.Context, record *models.DailySalesRecord) error
	FindDay(ctx context.Context, salesDate string) (*models.DailySalesRecord, error)
	ListRange(ctx context.Context, from, to string) ([]models.DailySalesRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// InsertSettlement records the payment id. It returns false when the payment
// was already recorded.
func (r *repository) InsertSettlement(ctx context.Context, settlement *models.LedgerSettlement) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "payment_id"}}, DoNothing: true}).
		Create(settlement)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LockDay makes sure the day row exists and returns it locked for update.
func (r *repository) LockDay(ctx context.Context, salesDate string) (*models.DailySalesRecord, error) {
	db := r.db.WithContext(ctx)
	seed := &models.DailySalesRecord{SalesDate: salesDate}
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sales_date"}}, DoNothing: true}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	var record models.DailySalesRecord
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sales_date = ?", salesDate).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) SaveDay(ctx context.Context, record *models.DailySalesRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindDay(ctx context.Context, salesDate string) (*models.DailySalesRecord, error) {
	var record models.DailySalesRecord
	err := r.db.WithContext(ctx).Where("sales_date = ?", salesDate).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListRange(ctx context.Context, from, to string) ([]models.DailySalesRecord, error) {
	var records []models.DailySalesRecord
	if err := r.db.WithContext(ctx).
		Where("sales_date >= ? AND sales_date <= ?", from, to).
		Order("sales_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
