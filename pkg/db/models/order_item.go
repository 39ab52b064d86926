package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// OrderItem snapshots the menu item's name and price at the time it was ordered.
type OrderItem struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order_id" json:"orderId"`
	MenuItemID uuid.UUID             `gorm:"column:menu_item_id;type:uuid;not null" json:"menuItemId"`
	Name       string                `gorm:"column:name;not null" json:"name"`
	UnitPrice  decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity   int                   `gorm:"column:quantity;not null" json:"quantity"`
	Notes      *string               `gorm:"column:notes" json:"notes,omitempty"`
	Modifiers  types.Modifiers       `gorm:"column:modifiers;type:jsonb;serializer:json" json:"modifiers"`
	Status     enums.OrderItemStatus `gorm:"column:status;type:text;not null" json:"status"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
