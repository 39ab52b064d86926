package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// Cancel reasons written by the coordinator itself.
const (
	ReasonSplit  = "split"
	ReasonMerged = "merged"
)

// ItemInput is one requested line. Name and price come from the menu.
type ItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	Notes      *string
	Modifiers  types.Modifiers
}

// CreateOrderInput opens a new order. TableNumber is nil for takeaway.
// Discount and DiscountPreset are mutually exclusive.
type CreateOrderInput struct {
	TableNumber    *int
	Items          []ItemInput
	Discount       *types.Discount
	DiscountPreset string
	Notes          *string
	Actor          string
}

type AddItemsInput struct {
	OrderID uuid.UUID
	Items   []ItemInput
	Actor   string
}

// AddItemsResult carries the order that received the items. Created is true
// when the original order was already paid and a new one was opened.
type AddItemsResult struct {
	Order   *models.Order
	Created bool
}

type SettleInput struct {
	OrderID       uuid.UUID
	Amount        decimal.Decimal
	Method        enums.PaymentMethod
	TransactionID *string
	Actor         string
}

type SettlementResult struct {
	Order       *models.Order
	Payment     *models.PaymentTransaction
	FreedTables []models.Table
	DailySales  *models.DailySalesRecord
}

// SplitSelection moves Quantity units of one order item.
type SplitSelection struct {
	OrderItemID uuid.UUID
	Quantity    int
}

type SplitInput struct {
	SourceOrderID     uuid.UUID
	Selections        []SplitSelection
	TargetTableNumber int
	Actor             string
}

// SplitResult holds both orders after the split. Source is cancelled when the
// split emptied it.
type SplitResult struct {
	Source *models.Order
	Target *models.Order
}

type MergeInput struct {
	SourceTableNumber int
	TargetTableNumber int
	Actor             string
}

// MergeResult holds the surviving order. Cancelled is the absorbed source
// order, nil when the source was relocated instead.
type MergeResult struct {
	Order     *models.Order
	Cancelled *models.Order
}

type CancelInput struct {
	OrderID uuid.UUID
	Reason  string
	Actor   string
}

type OrderStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Actor   string
}

type ItemStatusInput struct {
	OrderID uuid.UUID
	ItemID  uuid.UUID
	Status  enums.OrderItemStatus
	Actor   string
}

type HoldInput struct {
	OrderID uuid.UUID
	Hold    bool
	Actor   string
}

type RefundInput struct {
	PaymentID uuid.UUID
	Reason    string
	Actor     string
}

type RefundResult struct {
	Payment *models.PaymentTransaction
	Order   *models.Order
}

type GroupInput struct {
	TableNumbers []int
	Primary      int
	Actor        string
}

type UngroupInput struct {
	GroupID uuid.UUID
	Actor   string
}

type ReserveInput struct {
	TableNumber int
	ReservedBy  string
	At          time.Time
	Actor       string
}

type CancelReservationInput struct {
	TableNumber int
	Actor       string
}
