package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func taxed(rate string) Settings {
	return Settings{TaxRate: dec(rate), TaxEnabled: true, Currency: "INR"}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		discount *types.Discount
		settings Settings
		want     Breakdown
	}{
		{
			name:     "percentage discount then tax",
			lines:    []Line{{UnitPrice: dec("100"), Quantity: 1}},
			discount: &types.Discount{Type: enums.DiscountTypePercentage, Value: dec("10")},
			settings: taxed("5"),
			want: Breakdown{
				Subtotal:       dec("100"),
				DiscountAmount: dec("10"),
				AfterDiscount:  dec("90"),
				TaxAmount:      dec("4.5"),
				Total:          dec("94.5"),
			},
		},
		{
			name:     "amount discount larger than gross clamps to zero",
			lines:    []Line{{UnitPrice: dec("40"), Quantity: 2}},
			discount: &types.Discount{Type: enums.DiscountTypeAmount, Value: dec("500")},
			settings: taxed("5"),
			want: Breakdown{
				Subtotal:       dec("80"),
				DiscountAmount: dec("80"),
				AfterDiscount:  dec("0"),
				TaxAmount:      dec("0"),
				Total:          dec("0"),
			},
		},
		{
			name:     "tax disabled",
			lines:    []Line{{UnitPrice: dec("12.50"), Quantity: 4}},
			settings: Settings{TaxRate: dec("18"), TaxEnabled: false},
			want: Breakdown{
				Subtotal:       dec("50"),
				DiscountAmount: dec("0"),
				AfterDiscount:  dec("50"),
				TaxAmount:      dec("0"),
				Total:          dec("50"),
			},
		},
		{
			name: "modifiers are rounded per unit before quantity",
			lines: []Line{{
				UnitPrice:      dec("10.005"),
				ModifierPrices: []decimal.Decimal{dec("0.001")},
				Quantity:       3,
			}},
			settings: Settings{},
			want: Breakdown{
				Subtotal:       dec("30.03"),
				DiscountAmount: dec("0"),
				AfterDiscount:  dec("30.03"),
				TaxAmount:      dec("0"),
				Total:          dec("30.03"),
			},
		},
		{
			name:     "no lines",
			settings: taxed("5"),
			want: Breakdown{
				Subtotal:       dec("0"),
				DiscountAmount: dec("0"),
				AfterDiscount:  dec("0"),
				TaxAmount:      dec("0"),
				Total:          dec("0"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(tt.lines, tt.discount, tt.settings)
			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, tt.want.DiscountAmount.Equal(got.DiscountAmount), "discount %s", got.DiscountAmount)
			assert.True(t, tt.want.AfterDiscount.Equal(got.AfterDiscount), "after discount %s", got.AfterDiscount)
			assert.True(t, tt.want.TaxAmount.Equal(got.TaxAmount), "tax %s", got.TaxAmount)
			assert.True(t, tt.want.Total.Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestComputeTotalIsDeterministic(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("33.333"), Quantity: 3},
		{UnitPrice: dec("9.99"), ModifierPrices: []decimal.Decimal{dec("1.25"), dec("0.75")}, Quantity: 2},
	}
	discount := &types.Discount{Type: enums.DiscountTypePercentage, Value: dec("12.5")}
	first := ComputeTotal(lines, discount, taxed("5"))
	for i := 0; i < 10; i++ {
		again := ComputeTotal(lines, discount, taxed("5"))
		require.True(t, first.Total.Equal(again.Total))
	}
	// 33.33*3 + 11.99*2 = 123.97; *0.875 = 108.47375; tax 5.4236875; total 113.8974375
	assert.Equal(t, "113.9", first.Total.String())
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(nil))
	assert.NoError(t, ValidateDiscount(&types.Discount{Type: enums.DiscountTypePercentage, Value: dec("100")}))
	assert.NoError(t, ValidateDiscount(&types.Discount{Type: enums.DiscountTypeAmount, Value: dec("0")}))

	for _, d := range []*types.Discount{
		{Type: enums.DiscountTypePercentage, Value: dec("100.01")},
		{Type: enums.DiscountTypePercentage, Value: dec("-1")},
		{Type: enums.DiscountTypeAmount, Value: dec("-0.01")},
		{Type: "coupon", Value: dec("5")},
	} {
		err := ValidateDiscount(d)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	}
}

func TestApplySkipsCancelledItems(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{
			{UnitPrice: dec("100"), Quantity: 1, Status: enums.OrderItemStatusPending},
			{UnitPrice: dec("60"), Quantity: 2, Status: enums.OrderItemStatusCancelled},
			{
				UnitPrice: dec("20"),
				Quantity:  1,
				Status:    enums.OrderItemStatusServed,
				Modifiers: types.Modifiers{{Name: "extra cheese", Price: dec("5")}},
			},
		},
		Discount: &types.Discount{Type: enums.DiscountTypeAmount, Value: dec("25")},
	}

	Apply(order, taxed("10"))

	assert.Equal(t, "125", order.Subtotal.String())
	assert.Equal(t, "25", order.DiscountAmount.String())
	assert.Equal(t, "10", order.TaxAmount.String())
	assert.Equal(t, "110", order.Total.String())
}
