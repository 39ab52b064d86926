// Package pricing derives order totals. It is pure: callers pass settings in
// and get a breakdown back, nothing is read from or written to storage.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Line is one priced order line.
type Line struct {
	UnitPrice      decimal.Decimal
	ModifierPrices []decimal.Decimal
	Quantity       int
}

// Settings carries the restaurant-wide pricing knobs.
type Settings struct {
	TaxRate    decimal.Decimal
	TaxEnabled bool
	Currency   string
}

// Breakdown is the result of a computation. Every field is rounded to two
// decimals; Total is rounded once from the unrounded after-discount and tax
// amounts, so it can differ by a cent from summing the rounded parts.
type Breakdown struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	AfterDiscount  decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount rounds the unit price plus modifiers before multiplying by quantity.
func LineAmount(line Line) decimal.Decimal {
	unit := line.UnitPrice
	for _, mod := range line.ModifierPrices {
		unit = unit.Add(mod)
	}
	return round2(unit).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ComputeTotal applies per-line rounding, then the discount, then tax.
func ComputeTotal(lines []Line, discount *types.Discount, settings Settings) Breakdown {
	gross := decimal.Zero
	for _, line := range lines {
		gross = gross.Add(LineAmount(line))
	}

	afterDiscount := applyDiscount(gross, discount)

	tax := decimal.Zero
	if settings.TaxEnabled {
		tax = afterDiscount.Mul(settings.TaxRate).Div(hundred)
	}

	return Breakdown{
		Subtotal:       round2(gross),
		DiscountAmount: round2(gross.Sub(afterDiscount)),
		AfterDiscount:  round2(afterDiscount),
		TaxAmount:      round2(tax),
		Total:          round2(afterDiscount.Add(tax)),
	}
}

func applyDiscount(gross decimal.Decimal, discount *types.Discount) decimal.Decimal {
	if discount == nil {
		return gross
	}
	switch discount.Type {
	case enums.DiscountTypePercentage:
		return gross.Mul(decimal.NewFromInt(1).Sub(discount.Value.Div(hundred)))
	case enums.DiscountTypeAmount:
		return decimal.Max(decimal.Zero, gross.Sub(discount.Value))
	}
	return gross
}

// ValidateDiscount enforces percentage in [0,100] and non-negative amounts.
func ValidateDiscount(discount *types.Discount) error {
	if discount == nil {
		return nil
	}
	switch discount.Type {
	case enums.DiscountTypePercentage:
		if discount.Value.IsNegative() || discount.Value.GreaterThan(hundred) {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount must be between 0 and 100").
				WithDetails(map[string]any{"discount": discount.Value.String()})
		}
	case enums.DiscountTypeAmount:
		if discount.Value.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount amount must not be negative").
				WithDetails(map[string]any{"discount": discount.Value.String()})
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type").
			WithDetails(map[string]any{"type": string(discount.Type)})
	}
	return nil
}

// LinesFromItems converts persisted items to pricing lines, skipping cancelled ones.
func LinesFromItems(items []models.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.Status == enums.OrderItemStatusCancelled {
			continue
		}
		mods := make([]decimal.Decimal, 0, len(item.Modifiers))
		for _, mod := range item.Modifiers {
			mods = append(mods, mod.Price)
		}
		lines = append(lines, Line{
			UnitPrice:      item.UnitPrice,
			ModifierPrices: mods,
			Quantity:       item.Quantity,
		})
	}
	return lines
}

// Apply recomputes the order's cached totals from its items.
func Apply(order *models.Order, settings Settings) Breakdown {
	breakdown := ComputeTotal(LinesFromItems(order.Items), order.Discount, settings)
	order.Subtotal = breakdown.Subtotal
	order.DiscountAmount = breakdown.DiscountAmount
	order.TaxAmount = breakdown.TaxAmount
	order.Total = breakdown.Total
	return breakdown
}
