package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySalesRecord is the per-day settlement rollup. SalesDate is the local
// calendar day formatted as YYYY-MM-DD.
type DailySalesRecord struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SalesDate         string          `gorm:"column:sales_date;size:10;not null;uniqueIndex:ux_daily_sales_records_sales_date" json:"salesDate"`
	TotalSales        decimal.Decimal `gorm:"column:total_sales;type:numeric(14,2);not null" json:"totalSales"`
	TotalOrders       int             `gorm:"column:total_orders;not null" json:"totalOrders"`
	AverageOrderValue decimal.Decimal `gorm:"column:average_order_value;type:numeric(12,2);not null" json:"averageOrderValue"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
