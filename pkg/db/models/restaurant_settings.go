package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// SettingsRowID is the fixed primary key of the single settings row.
const SettingsRowID = 1

type RestaurantSettings struct {
	ID              int                    `gorm:"column:id;primaryKey;autoIncrement:false" json:"-"`
	TaxRate         decimal.Decimal        `gorm:"column:tax_rate;type:numeric(5,2);not null" json:"taxRate"`
	TaxEnabled      bool                   `gorm:"column:tax_enabled;not null" json:"taxEnabled"`
	Currency        string                 `gorm:"column:currency;size:3;not null" json:"currency"`
	DiscountPresets []types.DiscountPreset `gorm:"column:discount_presets;type:jsonb;serializer:json" json:"discountPresets"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (RestaurantSettings) TableName() string {
	return "restaurant_settings"
}
