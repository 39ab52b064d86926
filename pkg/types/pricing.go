package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
)

// Discount is the order-level discount stored alongside an order.
type Discount struct {
	Type  enums.DiscountType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

// DiscountPreset is a named discount the floor staff can pick instead of typing one in.
type DiscountPreset struct {
	Name  string             `json:"name"`
	Type  enums.DiscountType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

// Discount returns the preset as an applicable discount.
func (p DiscountPreset) Discount() *Discount {
	return &Discount{Type: p.Type, Value: p.Value}
}

// Modifier is a priced add-on snapshotted onto an order item.
type Modifier struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Modifiers is stored as a JSON array on the order item row.
type Modifiers []Modifier
