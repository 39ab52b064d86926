package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

type itemRequest struct {
	MenuItemID uuid.UUID       `json:"menuItemId"`
	Quantity   int             `json:"quantity" validate:"gte=1"`
	Notes      *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
	Modifiers  types.Modifiers `json:"modifiers,omitempty"`
}

type discountRequest struct {
	Type  enums.DiscountType `json:"type" validate:"required,oneof=percentage amount"`
	Value decimal.Decimal    `json:"value" validate:"gte=0"`
}

type createOrderRequest struct {
	TableNumber    *int             `json:"tableNumber,omitempty" validate:"omitempty,gte=1"`
	Items          []itemRequest    `json:"items" validate:"required,min=1,dive"`
	Discount       *discountRequest `json:"discount,omitempty"`
	DiscountPreset string           `json:"discountPreset,omitempty" validate:"max=64"`
	Notes          *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type addItemsRequest struct {
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
}

type settleRequest struct {
	Amount        decimal.Decimal     `json:"amount" validate:"gt=0"`
	Method        enums.PaymentMethod `json:"method" validate:"required,oneof=cash card upi"`
	TransactionID *string             `json:"transactionId,omitempty" validate:"omitempty,max=128"`
}

type splitItemRequest struct {
	OrderItemID uuid.UUID `json:"orderItemId"`
	Quantity    int       `json:"quantity" validate:"gte=1"`
}

type splitRequest struct {
	Items             []splitItemRequest `json:"items" validate:"required,min=1,dive"`
	TargetTableNumber int                `json:"targetTableNumber" validate:"gte=1"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

type statusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required,oneof=pending preparing ready served delivered cancelled"`
}

type itemStatusRequest struct {
	Status enums.OrderItemStatus `json:"status" validate:"required,oneof=pending preparing ready served cancelled"`
}

type holdRequest struct {
	Hold *bool `json:"hold" validate:"required"`
}

type addItemsResponse struct {
	Order   *models.Order `json:"order"`
	Created bool          `json:"created"`
}

type settlementResponse struct {
	Order       *models.Order              `json:"order"`
	Payment     *models.PaymentTransaction `json:"payment"`
	FreedTables []models.Table             `json:"freedTables"`
	DailySales  *models.DailySalesRecord   `json:"dailySales"`
}

type splitResponse struct {
	Source *models.Order `json:"source"`
	Target *models.Order `json:"target"`
}

func toItemInputs(items []itemRequest) []lifecycle.ItemInput {
	inputs := make([]lifecycle.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, lifecycle.ItemInput{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			Modifiers:  item.Modifiers,
		})
	}
	return inputs
}

func (d *discountRequest) toDiscount() *types.Discount {
	if d == nil {
		return nil
	}
	return &types.Discount{Type: d.Type, Value: d.Value}
}
