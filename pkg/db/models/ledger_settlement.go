package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerSettlement marks a payment as already folded into the daily rollup.
type LedgerSettlement struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PaymentID uuid.UUID       `gorm:"column:payment_id;type:uuid;not null;uniqueIndex:ux_ledger_settlements_payment_id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	SalesDate string          `gorm:"column:sales_date;size:10;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
