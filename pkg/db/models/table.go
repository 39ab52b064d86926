package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
)

// Table is a physical dining table. CurrentOrderID is set exactly when the
// table is occupied; grouped tables share a GroupID and one of them is primary.
type Table struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Number         int               `gorm:"column:number;not null;uniqueIndex:ux_tables_number" json:"number"`
	Capacity       int               `gorm:"column:capacity;not null" json:"capacity"`
	Status         enums.TableStatus `gorm:"column:status;type:text;not null" json:"status"`
	CurrentOrderID *uuid.UUID        `gorm:"column:current_order_id;type:uuid" json:"currentOrderId"`
	GroupID        *uuid.UUID        `gorm:"column:group_id;type:uuid;index:idx_tables_group_id" json:"groupId"`
	IsPrimary      bool              `gorm:"column:is_primary;not null" json:"isPrimary"`
	ReservedBy     *string           `gorm:"column:reserved_by" json:"reservedBy,omitempty"`
	ReservedTime   *time.Time        `gorm:"column:reserved_time" json:"reservedTime,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// IsSecondary reports whether the table is a non-primary member of a group.
func (t *Table) IsSecondary() bool {
	return t.GroupID != nil && !t.IsPrimary
}
