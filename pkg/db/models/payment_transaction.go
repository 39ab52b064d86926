package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
)

// PaymentTransaction is an append-only record of a settlement. Refunds flip
// the status; the row is never deleted.
type PaymentTransaction struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index:idx_payment_transactions_order_id" json:"orderId"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null" json:"method"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null" json:"status"`
	TransactionID *string             `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	RefundReason  *string             `gorm:"column:refund_reason" json:"refundReason,omitempty"`
	RefundedAt    *time.Time          `gorm:"column:refunded_at" json:"refundedAt,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
