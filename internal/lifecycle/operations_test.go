package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

func itemNamed(t *testing.T, order *models.Order, name string) models.OrderItem {
	t.Helper()
	for _, item := range order.Items {
		if item.Name == name && item.Status != enums.OrderItemStatusCancelled {
			return item
		}
	}
	t.Fatalf("order %s has no active item %q", order.ID, name)
	return models.OrderItem{}
}

func TestSplitOrderMovesQuantities(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	source := h.createOrder(t, 1, h.item("Paneer Tikka", 2), h.item("Lassi", 1))
	assert.Equal(t, "240.00", source.Total.StringFixed(2))
	paneer := itemNamed(t, source, "Paneer Tikka")
	lassi := itemNamed(t, source, "Lassi")

	res, err := h.svc.SplitOrder(ctx, SplitInput{
		SourceOrderID:     source.ID,
		Selections:        []SplitSelection{{OrderItemID: paneer.ID, Quantity: 1}},
		TargetTableNumber: 4,
		Actor:             "waiter-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "140.00", res.Source.Total.StringFixed(2))
	assert.Equal(t, "100.00", res.Target.Total.StringFixed(2))
	require.Len(t, res.Target.Items, 1)
	assert.Equal(t, 1, res.Target.Items[0].Quantity)
	assert.Equal(t, enums.OrderStatusPending, res.Source.Status)

	table4 := h.table(t, 4)
	require.NotNil(t, table4.CurrentOrderID)
	assert.Equal(t, res.Target.ID, *table4.CurrentOrderID)
	h.assertInvariants(t)

	res, err = h.svc.SplitOrder(ctx, SplitInput{
		SourceOrderID: source.ID,
		Selections: []SplitSelection{
			{OrderItemID: paneer.ID, Quantity: 1},
			{OrderItemID: lassi.ID, Quantity: 1},
		},
		TargetTableNumber: 5,
		Actor:             "waiter-1",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, res.Source.Status)
	require.NotNil(t, res.Source.CancelReason)
	assert.Equal(t, ReasonSplit, *res.Source.CancelReason)
	assert.Equal(t, "0.00", res.Source.Total.StringFixed(2))
	assert.Equal(t, "140.00", res.Target.Total.StringFixed(2))
	assert.Equal(t, enums.TableStatusFree, h.table(t, 1).Status)
	assert.Equal(t, enums.TableStatusOccupied, h.table(t, 5).Status)
	h.assertInvariants(t)
}

func TestSplitOrderValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	source := h.createOrder(t, 1, h.item("Paneer Tikka", 2))
	h.createOrder(t, 2, h.item("Lassi", 1))
	paneer := itemNamed(t, source, "Paneer Tikka")

	_, err := h.svc.SplitOrder(ctx, SplitInput{SourceOrderID: source.ID, TargetTableNumber: 4})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = h.svc.SplitOrder(ctx, SplitInput{
		SourceOrderID:     source.ID,
		Selections:        []SplitSelection{{OrderItemID: paneer.ID, Quantity: 3}},
		TargetTableNumber: 4,
	})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = h.svc.SplitOrder(ctx, SplitInput{
		SourceOrderID:     source.ID,
		Selections:        []SplitSelection{{OrderItemID: paneer.ID, Quantity: 1}},
		TargetTableNumber: 2,
	})
	assert.True(t, pkgerrors.IsConflict(err), "target already hosts an open order")

	_, err = h.svc.SplitOrder(ctx, SplitInput{
		SourceOrderID:     source.ID,
		Selections:        []SplitSelection{{OrderItemID: paneer.ID, Quantity: 1}},
		TargetTableNumber: 42,
	})
	assert.True(t, pkgerrors.IsNotFound(err))

	reloaded, err := h.svc.UpdateOrderStatus(ctx, OrderStatusInput{OrderID: source.ID, Status: enums.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 2, itemNamed(t, reloaded, "Paneer Tikka").Quantity)
	assert.EqualValues(t, 2, h.count(t, &models.Order{}))
}

func TestMergeIntoOpenOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	source := h.createOrder(t, 1, h.item("Paneer Tikka", 1))
	target := h.createOrder(t, 2, h.item("Lassi", 1))

	res, err := h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 1, TargetTableNumber: 2, Actor: "waiter-1"})
	require.NoError(t, err)
	assert.Equal(t, target.ID, res.Order.ID)
	assert.Len(t, res.Order.Items, 2)
	assert.Equal(t, "140.00", res.Order.Total.StringFixed(2))

	require.NotNil(t, res.Cancelled)
	assert.Equal(t, source.ID, res.Cancelled.ID)
	assert.Equal(t, enums.OrderStatusCancelled, res.Cancelled.Status)
	require.NotNil(t, res.Cancelled.CancelReason)
	assert.Equal(t, ReasonMerged, *res.Cancelled.CancelReason)

	assert.Equal(t, enums.TableStatusFree, h.table(t, 1).Status)
	table2 := h.table(t, 2)
	require.NotNil(t, table2.CurrentOrderID)
	assert.Equal(t, target.ID, *table2.CurrentOrderID)
	h.assertInvariants(t)
}

func TestMergeRelocatesToIdleTable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	source := h.createOrder(t, 1, h.item("Paneer Tikka", 1))

	res, err := h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 1, TargetTableNumber: 3})
	require.NoError(t, err)
	assert.Equal(t, source.ID, res.Order.ID)
	assert.Nil(t, res.Cancelled)
	require.NotNil(t, res.Order.TableNumber)
	assert.Equal(t, 3, *res.Order.TableNumber)

	assert.Equal(t, enums.TableStatusFree, h.table(t, 1).Status)
	table3 := h.table(t, 3)
	require.NotNil(t, table3.CurrentOrderID)
	assert.Equal(t, source.ID, *table3.CurrentOrderID)
	h.assertInvariants(t)

	_, err = h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 1, TargetTableNumber: 3})
	assert.True(t, pkgerrors.IsNotFound(err), "table 1 no longer hosts an order")

	_, err = h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 3, TargetTableNumber: 3})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Lassi", 1))

	_, err := h.svc.CancelOrder(ctx, CancelInput{OrderID: order.ID, Reason: "  "})
	assert.True(t, pkgerrors.IsValidation(err))

	cancelled, err := h.svc.CancelOrder(ctx, CancelInput{OrderID: order.ID, Reason: "guest left"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, enums.TableStatusFree, h.table(t, 1).Status)

	again, err := h.svc.CancelOrder(ctx, CancelInput{OrderID: order.ID, Reason: "guest left"})
	require.NoError(t, err, "cancelling twice is a no-op")
	assert.Equal(t, enums.OrderStatusCancelled, again.Status)

	paid := h.createOrder(t, 1, h.item("Lassi", 1))
	h.settle(t, paid)
	_, err = h.svc.CancelOrder(ctx, CancelInput{OrderID: paid.ID, Reason: "mistake"})
	assert.True(t, pkgerrors.IsConflict(err))
	assert.EqualValues(t, 1, h.count(t, &models.DailySalesRecord{}))
	h.assertInvariants(t)
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Lassi", 1))

	updated, err := h.svc.UpdateOrderStatus(ctx, OrderStatusInput{OrderID: order.ID, Status: enums.OrderStatusReady})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReady, updated.Status)

	_, err = h.svc.UpdateOrderStatus(ctx, OrderStatusInput{OrderID: order.ID, Status: enums.OrderStatusPreparing})
	assert.True(t, pkgerrors.IsConflict(err))

	_, err = h.svc.UpdateOrderStatus(ctx, OrderStatusInput{OrderID: order.ID, Status: enums.OrderStatusCancelled})
	assert.True(t, pkgerrors.IsValidation(err))

	served, err := h.svc.UpdateOrderStatus(ctx, OrderStatusInput{OrderID: order.ID, Status: enums.OrderStatusServed})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusServed, served.Status)
	assert.Equal(t, enums.TableStatusOccupied, h.table(t, 1).Status, "status changes never touch tables")
}

func TestItemCancellationReprices(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Paneer Tikka", 1), h.item("Lassi", 2))
	lassi := itemNamed(t, order, "Lassi")

	ready, err := h.svc.UpdateItemStatus(ctx, ItemStatusInput{OrderID: order.ID, ItemID: lassi.ID, Status: enums.OrderItemStatusReady})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, ready.Status, "order status is not derived from items")

	updated, err := h.svc.UpdateItemStatus(ctx, ItemStatusInput{OrderID: order.ID, ItemID: lassi.ID, Status: enums.OrderItemStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, "100.00", updated.Total.StringFixed(2))

	paneer := itemNamed(t, updated, "Paneer Tikka")
	h.settle(t, updated)
	_, err = h.svc.UpdateItemStatus(ctx, ItemStatusInput{OrderID: order.ID, ItemID: paneer.ID, Status: enums.OrderItemStatusCancelled})
	assert.True(t, pkgerrors.IsConflict(err))

	served, err := h.svc.UpdateItemStatus(ctx, ItemStatusInput{OrderID: order.ID, ItemID: paneer.ID, Status: enums.OrderItemStatusServed})
	require.NoError(t, err, "kitchen progress continues after payment")
	assert.Equal(t, enums.OrderItemStatusServed, itemNamed(t, served, "Paneer Tikka").Status)
}

func TestAddItemsToUnpaidOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Lassi", 1))

	res, err := h.svc.AddItemsToOrder(ctx, AddItemsInput{OrderID: order.ID, Items: []ItemInput{h.item("Gulab Jamun", 2)}})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, order.ID, res.Order.ID)
	assert.Len(t, res.Order.Items, 2)
	assert.Equal(t, "80.00", res.Order.Total.StringFixed(2))

	_, err = h.svc.CancelOrder(ctx, CancelInput{OrderID: order.ID, Reason: "void"})
	require.NoError(t, err)
	_, err = h.svc.AddItemsToOrder(ctx, AddItemsInput{OrderID: order.ID, Items: []ItemInput{h.item("Lassi", 1)}})
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestSetHold(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Lassi", 1))

	held, err := h.svc.SetHold(ctx, HoldInput{OrderID: order.ID, Hold: true})
	require.NoError(t, err)
	assert.True(t, held.HoldStatus)

	h.settle(t, held)
	_, err = h.svc.SetHold(ctx, HoldInput{OrderID: order.ID, Hold: false})
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestRefundLeavesOrderPaidAndLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	order := h.createOrder(t, 1, h.item("Paneer Tikka", 1))
	settled := h.settle(t, order)

	refund, err := h.svc.RefundPayment(ctx, RefundInput{PaymentID: settled.Payment.ID, Reason: "cold food"})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusRefunded, refund.Payment.Status)
	require.NotNil(t, refund.Payment.RefundReason)
	assert.Equal(t, "cold food", *refund.Payment.RefundReason)
	assert.True(t, refund.Order.IsPaid)

	day, err := h.ledger.Day(ctx, salesDay)
	require.NoError(t, err)
	assert.Equal(t, 1, day.TotalOrders)
	assert.Equal(t, "100.00", day.TotalSales.StringFixed(2))

	_, err = h.svc.RefundPayment(ctx, RefundInput{PaymentID: settled.Payment.ID, Reason: "again"})
	assert.True(t, pkgerrors.IsConflict(err))

	_, err = h.svc.RefundPayment(ctx, RefundInput{PaymentID: settled.Payment.ID})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUngroupWhileOccupiedStillReleasesAllTables(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	grouped, err := h.svc.GroupTables(ctx, GroupInput{TableNumbers: []int{2, 3}, Primary: 2})
	require.NoError(t, err)
	require.NotNil(t, grouped[0].GroupID)
	order := h.createOrder(t, 2, h.item("Lassi", 1))

	released, err := h.svc.UngroupTables(ctx, UngroupInput{GroupID: *grouped[0].GroupID})
	require.NoError(t, err)
	for _, tbl := range released {
		assert.Nil(t, tbl.GroupID)
		assert.Equal(t, enums.TableStatusOccupied, tbl.Status, "ungrouping keeps occupancy")
	}

	table3 := 3
	_, err = h.svc.CreateOrder(ctx, CreateOrderInput{TableNumber: &table3, Items: []ItemInput{h.item("Lassi", 1)}, Actor: "waiter-1"})
	assert.True(t, pkgerrors.IsConflict(err), "table 3 is still held by the group order")

	settled := h.settle(t, order)
	assert.Len(t, settled.FreedTables, 2)
	assert.Equal(t, enums.TableStatusFree, h.table(t, 3).Status)
	h.assertInvariants(t)

	_, err = h.svc.UngroupTables(ctx, UngroupInput{GroupID: *grouped[0].GroupID})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGroupRejectsBusyTables(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.createOrder(t, 1, h.item("Lassi", 1))

	_, err := h.svc.GroupTables(ctx, GroupInput{TableNumbers: []int{1, 2}, Primary: 2})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Nil(t, h.table(t, 2).GroupID)

	_, err = h.svc.GroupTables(ctx, GroupInput{TableNumbers: []int{2}, Primary: 2})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestReservationLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	reserved, err := h.svc.ReserveTable(ctx, ReserveInput{TableNumber: 6, ReservedBy: "Mehta party", At: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, enums.TableStatusReserved, reserved.Status)

	freed, err := h.svc.CancelReservation(ctx, CancelReservationInput{TableNumber: 6})
	require.NoError(t, err)
	assert.Equal(t, enums.TableStatusFree, freed.Status)
	assert.Nil(t, freed.ReservedBy)

	_, err = h.svc.ReserveTable(ctx, ReserveInput{TableNumber: 6, ReservedBy: "Mehta party"})
	require.NoError(t, err)
	h.createOrder(t, 6, h.item("Lassi", 1))
	seated := h.table(t, 6)
	assert.Equal(t, enums.TableStatusOccupied, seated.Status)
	assert.Nil(t, seated.ReservedBy, "seating a reservation clears it")
	h.assertInvariants(t)
}

func TestGroupedSecondaryReservationCannotBeWiped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	if _, err := h.svc.GroupTables(ctx, GroupInput{TableNumbers: []int{2, 3}, Primary: 2}); err != nil {
		t.Fatalf("group tables: %v", err)
	}

	_, err := h.svc.ReserveTable(ctx, ReserveInput{TableNumber: 3, ReservedBy: "Mehta party"})
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("reserving a grouped table: expected conflict, got %v", err)
	}

	h.createOrder(t, 2, h.item("Lassi", 1))
	if got := h.table(t, 3); got.Status != enums.TableStatusOccupied || got.ReservedBy != nil {
		t.Fatalf("secondary should be occupied with the group order: %+v", got)
	}
	h.assertInvariants(t)
}

func TestMergeFromSecondaryTableConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	if _, err := h.svc.GroupTables(ctx, GroupInput{TableNumbers: []int{2, 3}, Primary: 2}); err != nil {
		t.Fatalf("group tables: %v", err)
	}
	order := h.createOrder(t, 2, h.item("Lassi", 1))

	_, err := h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 3, TargetTableNumber: 5})
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("merge from secondary: expected conflict, got %v", err)
	}
	if pkgerrors.IsNotFound(err) {
		t.Fatalf("secondary source should not read as an empty table: %v", err)
	}

	table5 := h.table(t, 5)
	if table5.Status != enums.TableStatusFree || table5.CurrentOrderID != nil {
		t.Fatalf("target should be untouched: %+v", table5)
	}
	table3 := h.table(t, 3)
	if table3.CurrentOrderID == nil || *table3.CurrentOrderID != order.ID {
		t.Fatalf("group order should still hold table 3: %+v", table3)
	}

	res, err := h.svc.MergeOrder(ctx, MergeInput{SourceTableNumber: 2, TargetTableNumber: 5})
	if err != nil {
		t.Fatalf("merge from primary: %v", err)
	}
	if res.Order.ID != order.ID || res.Order.TableNumber == nil || *res.Order.TableNumber != 5 {
		t.Fatalf("order should relocate to table 5: %+v", res.Order)
	}
	h.assertInvariants(t)
}
