package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// Order is a dining or takeaway order. Totals are cached from the pricing
// engine and refreshed whenever the item set changes.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderNumber    int64                `gorm:"column:order_number;not null;uniqueIndex:ux_orders_order_number" json:"orderNumber"`
	TableNumber    *int                 `gorm:"column:table_number;index:idx_orders_table_number" json:"tableNumber"`
	Status         enums.OrderStatus    `gorm:"column:status;type:text;not null" json:"status"`
	CreatedBy      string               `gorm:"column:created_by;not null" json:"createdBy"`
	Notes          *string              `gorm:"column:notes" json:"notes,omitempty"`
	Subtotal       decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal      `gorm:"column:discount_amount;type:numeric(12,2);not null" json:"discountAmount"`
	TaxAmount      decimal.Decimal      `gorm:"column:tax_amount;type:numeric(12,2);not null" json:"taxAmount"`
	Total          decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	Discount       *types.Discount      `gorm:"column:discount;type:jsonb;serializer:json" json:"discount,omitempty"`
	IsPaid         bool                 `gorm:"column:is_paid;not null" json:"isPaid"`
	PaymentMethod  *enums.PaymentMethod `gorm:"column:payment_method;type:text" json:"paymentMethod,omitempty"`
	PaidAt         *time.Time           `gorm:"column:paid_at" json:"paidAt,omitempty"`
	HoldStatus     bool                 `gorm:"column:hold_status;not null" json:"holdStatus"`
	CancelReason   *string              `gorm:"column:cancel_reason" json:"cancelReason,omitempty"`
	CancelledAt    *time.Time           `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// IsOpen reports whether the order still holds its table: unpaid and not cancelled.
func (o *Order) IsOpen() bool {
	return !o.IsPaid && o.Status != enums.OrderStatusCancelled
}

// ActiveItems returns the items that still count towards the bill.
func (o *Order) ActiveItems() []OrderItem {
	active := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Status != enums.OrderItemStatusCancelled {
			active = append(active, item)
		}
	}
	return active
}
