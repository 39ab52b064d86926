package lifecycle

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/pricing"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

const (
	opCreateOrder       = "create_order"
	opAddItems          = "add_items"
	opSplitOrder        = "split_order"
	opMergeOrder        = "merge_order"
	opCancelOrder       = "cancel_order"
	opUpdateOrderStatus = "update_order_status"
	opUpdateItemStatus  = "update_item_status"
	opSetHold           = "set_hold"
)

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	createdBy := strings.TrimSpace(input.Actor)
	if createdBy == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "createdBy is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if input.Discount != nil && strings.TrimSpace(input.DiscountPreset) != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount and discountPreset are mutually exclusive")
	}
	if err := pricing.ValidateDiscount(input.Discount); err != nil {
		return nil, err
	}
	if input.TableNumber != nil {
		ctx = s.logg.WithTableNumber(ctx, *input.TableNumber)
	}

	var created *models.Order
	tally := statusTally{}
	err := s.run(ctx, opCreateOrder, func(tx *gorm.DB) error {
		deps := s.bind(tx)

		if input.TableNumber != nil {
			if err := s.ensureTableAcceptsOrder(ctx, deps, *input.TableNumber); err != nil {
				return err
			}
		}

		current, priceSettings, err := s.pricingSettings(ctx, tx)
		if err != nil {
			return err
		}
		discount := input.Discount
		if name := strings.TrimSpace(input.DiscountPreset); name != "" {
			preset, ok := settings.Preset(current, name)
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown discount preset").
					WithDetails(map[string]any{"discountPreset": name})
			}
			discount = preset.Discount()
		}

		items, err := buildItems(ctx, deps.menu, uuid.Nil, input.Items)
		if err != nil {
			return err
		}
		number, err := deps.orders.NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNumber: number,
			TableNumber: input.TableNumber,
			Status:      enums.OrderStatusPending,
			CreatedBy:   createdBy,
			Notes:       input.Notes,
			Discount:    discount,
			Items:       items,
		}
		pricing.Apply(order, priceSettings)
		if err := deps.orders.Create(ctx, order); err != nil {
			return err
		}

		if input.TableNumber != nil {
			occupied, err := deps.tables.Occupy(ctx, *input.TableNumber, order.ID)
			if err != nil {
				return err
			}
			tally.add(occupied)
			if err := s.emitTables(ctx, tx, occupied, &order.ID, input.Actor); err != nil {
				return err
			}
		}

		created, err = deps.orders.FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		return s.emitOrder(ctx, tx, enums.EventOrderCreated, created, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(tally)
	s.logOrder(ctx, "order created", created)
	return created, nil
}

// ensureTableAcceptsOrder rejects unknown tables, secondary group members and
// tables that already host an open order.
func (s *service) ensureTableAcceptsOrder(ctx context.Context, deps txDeps, number int) error {
	table, err := deps.tables.Get(ctx, number)
	if err != nil {
		return err
	}
	if table.IsSecondary() {
		return pkgerrors.New(pkgerrors.CodeConflict, "table is a secondary member of a group").
			WithDetails(map[string]any{"tableNumber": number, "groupId": table.GroupID})
	}
	open, err := deps.orders.FindOpenByTable(ctx, number)
	if err != nil {
		return err
	}
	if open != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "table already has an open order").
			WithDetails(map[string]any{"tableNumber": number, "orderId": open.ID})
	}
	return nil
}

// buildItems validates the requested lines and snapshots name and price from the menu.
func buildItems(ctx context.Context, repo menu.Repository, orderID uuid.UUID, inputs []ItemInput) ([]models.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for i, in := range inputs {
		if in.MenuItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menuItemId is required").
				WithDetails(map[string]any{"index": i})
		}
		if in.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"index": i, "menuItemId": in.MenuItemID})
		}
		for _, mod := range in.Modifiers {
			if strings.TrimSpace(mod.Name) == "" || mod.Price.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid modifier").
					WithDetails(map[string]any{"index": i, "modifier": mod.Name})
			}
		}
		if _, ok := seen[in.MenuItemID]; !ok {
			seen[in.MenuItemID] = struct{}{}
			ids = append(ids, in.MenuItemID)
		}
	}

	catalogue, err := menu.Resolve(ctx, repo, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		entry := catalogue[in.MenuItemID]
		modifiers := in.Modifiers
		if modifiers == nil {
			modifiers = types.Modifiers{}
		}
		items = append(items, models.OrderItem{
			OrderID:    orderID,
			MenuItemID: entry.ID,
			Name:       entry.Name,
			UnitPrice:  entry.Price,
			Quantity:   in.Quantity,
			Notes:      in.Notes,
			Modifiers:  modifiers,
			Status:     enums.OrderItemStatusPending,
		})
	}
	return items, nil
}

func (s *service) AddItemsToOrder(ctx context.Context, input AddItemsInput) (*AddItemsResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	result := &AddItemsResult{}
	tally := statusTally{}
	err := s.run(ctx, opAddItems, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "order is cancelled").
				WithDetails(map[string]any{"orderId": order.ID})
		}

		if !order.IsPaid {
			items, err := buildItems(ctx, deps.menu, order.ID, input.Items)
			if err != nil {
				return err
			}
			if err := deps.orders.CreateItems(ctx, items); err != nil {
				return err
			}
			updated, err := s.reprice(ctx, deps, order.ID)
			if err != nil {
				return err
			}
			result.Order = updated
			return s.emitOrder(ctx, tx, enums.EventOrderUpdated, updated, input.Actor)
		}

		// Paid orders are closed; the new items start the next order on the table.
		if order.TableNumber != nil {
			if err := s.ensureTableAcceptsOrder(ctx, deps, *order.TableNumber); err != nil {
				return err
			}
		}
		items, err := buildItems(ctx, deps.menu, uuid.Nil, input.Items)
		if err != nil {
			return err
		}
		_, priceSettings, err := s.pricingSettings(ctx, tx)
		if err != nil {
			return err
		}
		number, err := deps.orders.NextOrderNumber(ctx)
		if err != nil {
			return err
		}
		createdBy := strings.TrimSpace(input.Actor)
		if createdBy == "" {
			createdBy = order.CreatedBy
		}
		next := &models.Order{
			OrderNumber: number,
			TableNumber: order.TableNumber,
			Status:      enums.OrderStatusPending,
			CreatedBy:   createdBy,
			Items:       items,
		}
		pricing.Apply(next, priceSettings)
		if err := deps.orders.Create(ctx, next); err != nil {
			return err
		}
		if next.TableNumber != nil {
			occupied, err := deps.tables.Occupy(ctx, *next.TableNumber, next.ID)
			if err != nil {
				return err
			}
			tally.add(occupied)
			if err := s.emitTables(ctx, tx, occupied, &next.ID, input.Actor); err != nil {
				return err
			}
		}
		created, err := deps.orders.FindByID(ctx, next.ID)
		if err != nil {
			return err
		}
		result.Order = created
		result.Created = true
		return s.emitOrder(ctx, tx, enums.EventOrderCreated, created, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(tally)
	if result.Created {
		s.logOrder(ctx, "paid order reopened as new order", result.Order)
	} else {
		s.logOrder(ctx, "items added to order", result.Order)
	}
	return result, nil
}

func (s *service) SplitOrder(ctx context.Context, input SplitInput) (*SplitResult, error) {
	if len(input.Selections) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item selection is required")
	}
	requested := make(map[uuid.UUID]int, len(input.Selections))
	for _, sel := range input.Selections {
		if sel.OrderItemID == uuid.Nil || sel.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item selection").
				WithDetails(map[string]any{"orderItemId": sel.OrderItemID, "quantity": sel.Quantity})
		}
		if _, dup := requested[sel.OrderItemID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item selected more than once").
				WithDetails(map[string]any{"orderItemId": sel.OrderItemID})
		}
		requested[sel.OrderItemID] = sel.Quantity
	}
	ctx = s.logg.WithOrderID(ctx, input.SourceOrderID.String())

	result := &SplitResult{}
	tally := statusTally{}
	err := s.run(ctx, opSplitOrder, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		source, err := deps.orders.FindByIDForUpdate(ctx, input.SourceOrderID)
		if err != nil {
			return err
		}
		if !source.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeConflict, "only open orders can be split").
				WithDetails(map[string]any{"orderId": source.ID, "status": source.Status, "isPaid": source.IsPaid})
		}

		byID := make(map[uuid.UUID]models.OrderItem, len(source.Items))
		for _, item := range source.ActiveItems() {
			byID[item.ID] = item
		}
		for _, sel := range input.Selections {
			item, ok := byID[sel.OrderItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to the order").
					WithDetails(map[string]any{"orderItemId": sel.OrderItemID, "orderId": source.ID})
			}
			if sel.Quantity > item.Quantity {
				return pkgerrors.New(pkgerrors.CodeValidation, "split quantity exceeds item quantity").
					WithDetails(map[string]any{"orderItemId": item.ID, "quantity": sel.Quantity, "available": item.Quantity})
			}
		}

		if err := s.ensureTableAcceptsOrder(ctx, deps, input.TargetTableNumber); err != nil {
			return err
		}

		number, err := deps.orders.NextOrderNumber(ctx)
		if err != nil {
			return err
		}
		createdBy := strings.TrimSpace(input.Actor)
		if createdBy == "" {
			createdBy = source.CreatedBy
		}
		target := &models.Order{
			OrderNumber: number,
			TableNumber: &input.TargetTableNumber,
			Status:      enums.OrderStatusPending,
			CreatedBy:   createdBy,
		}
		if err := deps.orders.Create(ctx, target); err != nil {
			return err
		}

		var copies []models.OrderItem
		for _, sel := range input.Selections {
			item := byID[sel.OrderItemID]
			if sel.Quantity == item.Quantity {
				item.OrderID = target.ID
				if err := deps.orders.SaveItem(ctx, &item); err != nil {
					return err
				}
				continue
			}
			moved := item
			moved.ID = uuid.Nil
			moved.OrderID = target.ID
			moved.Quantity = sel.Quantity
			moved.CreatedAt = s.now()
			moved.UpdatedAt = moved.CreatedAt
			copies = append(copies, moved)

			item.Quantity -= sel.Quantity
			if err := deps.orders.SaveItem(ctx, &item); err != nil {
				return err
			}
		}
		if err := deps.orders.CreateItems(ctx, copies); err != nil {
			return err
		}

		updatedSource, err := s.reprice(ctx, deps, source.ID)
		if err != nil {
			return err
		}
		if len(updatedSource.ActiveItems()) == 0 {
			freed, err := s.cancelInTx(ctx, deps, updatedSource, ReasonSplit)
			if err != nil {
				return err
			}
			tally.add(freed)
			if err := s.emitTables(ctx, tx, freed, &updatedSource.ID, input.Actor); err != nil {
				return err
			}
		}
		updatedTarget, err := s.reprice(ctx, deps, target.ID)
		if err != nil {
			return err
		}

		occupied, err := deps.tables.Occupy(ctx, input.TargetTableNumber, target.ID)
		if err != nil {
			return err
		}
		tally.add(occupied)
		if err := s.emitTables(ctx, tx, occupied, &target.ID, input.Actor); err != nil {
			return err
		}

		if err := s.emitOrder(ctx, tx, enums.EventOrderUpdated, updatedSource, input.Actor); err != nil {
			return err
		}
		if err := s.emitOrder(ctx, tx, enums.EventOrderCreated, updatedTarget, input.Actor); err != nil {
			return err
		}
		result.Source = updatedSource
		result.Target = updatedTarget
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(tally)
	s.logOrder(ctx, "order split", result.Target)
	return result, nil
}

// cancelInTx marks the locked order cancelled and releases its tables.
func (s *service) cancelInTx(ctx context.Context, deps txDeps, order *models.Order, reason string) ([]models.Table, error) {
	now := s.now()
	order.Status = enums.OrderStatusCancelled
	order.CancelReason = &reason
	order.CancelledAt = &now
	if err := deps.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	if order.TableNumber == nil {
		return nil, nil
	}
	return deps.tables.FreeIfCurrent(ctx, *order.TableNumber, order.ID)
}

func (s *service) MergeOrder(ctx context.Context, input MergeInput) (*MergeResult, error) {
	if input.SourceTableNumber == input.TargetTableNumber {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and target tables must differ").
			WithDetails(map[string]any{"tableNumber": input.SourceTableNumber})
	}
	ctx = s.logg.WithTableNumber(ctx, input.TargetTableNumber)

	result := &MergeResult{}
	tally := statusTally{}
	err := s.run(ctx, opMergeOrder, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		sourceTable, err := deps.tables.Get(ctx, input.SourceTableNumber)
		if err != nil {
			return err
		}
		if sourceTable.IsSecondary() {
			return pkgerrors.New(pkgerrors.CodeConflict, "table is a secondary member of a group").
				WithDetails(map[string]any{"tableNumber": sourceTable.Number, "groupId": sourceTable.GroupID})
		}
		source, err := deps.orders.FindOpenByTable(ctx, input.SourceTableNumber)
		if err != nil {
			return err
		}
		if source == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no open order on source table").
				WithDetails(map[string]any{"tableNumber": input.SourceTableNumber})
		}
		targetTable, err := deps.tables.Get(ctx, input.TargetTableNumber)
		if err != nil {
			return err
		}
		if targetTable.IsSecondary() {
			return pkgerrors.New(pkgerrors.CodeConflict, "table is a secondary member of a group").
				WithDetails(map[string]any{"tableNumber": targetTable.Number, "groupId": targetTable.GroupID})
		}
		target, err := deps.orders.FindOpenByTable(ctx, input.TargetTableNumber)
		if err != nil {
			return err
		}

		if target == nil {
			return s.relocate(ctx, deps, source, input, result, tally)
		}

		for _, item := range source.ActiveItems() {
			item.OrderID = target.ID
			if err := deps.orders.SaveItem(ctx, &item); err != nil {
				return err
			}
		}
		cancelled, err := s.reprice(ctx, deps, source.ID)
		if err != nil {
			return err
		}
		freed, err := s.cancelInTx(ctx, deps, cancelled, ReasonMerged)
		if err != nil {
			return err
		}
		tally.add(freed)
		if err := s.emitTables(ctx, tx, freed, &cancelled.ID, input.Actor); err != nil {
			return err
		}
		merged, err := s.reprice(ctx, deps, target.ID)
		if err != nil {
			return err
		}
		if err := s.emitOrder(ctx, tx, enums.EventOrderUpdated, cancelled, input.Actor); err != nil {
			return err
		}
		if err := s.emitOrder(ctx, tx, enums.EventOrderUpdated, merged, input.Actor); err != nil {
			return err
		}
		result.Order = merged
		result.Cancelled = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(tally)
	s.logOrder(ctx, "orders merged", result.Order)
	return result, nil
}

// relocate moves the source order itself onto an idle target table.
func (s *service) relocate(ctx context.Context, deps txDeps, source *models.Order, input MergeInput, result *MergeResult, tally statusTally) error {
	freed, err := deps.tables.FreeIfCurrent(ctx, input.SourceTableNumber, source.ID)
	if err != nil {
		return err
	}
	tally.add(freed)
	if err := s.emitTables(ctx, deps.tx, freed, &source.ID, input.Actor); err != nil {
		return err
	}

	source.TableNumber = &input.TargetTableNumber
	if err := deps.orders.Save(ctx, source); err != nil {
		return err
	}
	occupied, err := deps.tables.Occupy(ctx, input.TargetTableNumber, source.ID)
	if err != nil {
		return err
	}
	tally.add(occupied)
	if err := s.emitTables(ctx, deps.tx, occupied, &source.ID, input.Actor); err != nil {
		return err
	}
	moved, err := s.reprice(ctx, deps, source.ID)
	if err != nil {
		return err
	}
	result.Order = moved
	return s.emitOrder(ctx, deps.tx, enums.EventOrderUpdated, moved, input.Actor)
}

func (s *service) CancelOrder(ctx context.Context, input CancelInput) (*models.Order, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancel reason is required")
	}
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	var cancelled *models.Order
	changed := false
	tally := statusTally{}
	err := s.run(ctx, opCancelOrder, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.IsPaid {
			return pkgerrors.New(pkgerrors.CodeConflict, "paid orders cannot be cancelled").
				WithDetails(map[string]any{"orderId": order.ID})
		}
		ok, err := orders.TransitionOrder(order.Status, enums.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			cancelled = order
			return nil
		}
		freed, err := s.cancelInTx(ctx, deps, order, reason)
		if err != nil {
			return err
		}
		tally.add(freed)
		if err := s.emitTables(ctx, tx, freed, &order.ID, input.Actor); err != nil {
			return err
		}
		changed = true
		cancelled = order
		return s.emitOrder(ctx, tx, enums.EventOrderUpdated, order, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.recordTally(tally)
	if changed {
		s.logOrder(ctx, "order cancelled", cancelled)
	}
	return cancelled, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, input OrderStatusInput) (*models.Order, error) {
	if input.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use cancel to cancel an order")
	}
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	var updated *models.Order
	err := s.run(ctx, opUpdateOrderStatus, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		changed, err := orders.TransitionOrder(order.Status, input.Status)
		if err != nil {
			return err
		}
		updated = order
		if !changed {
			return nil
		}
		order.Status = input.Status
		if err := deps.orders.Save(ctx, order); err != nil {
			return err
		}
		return s.emitOrder(ctx, tx, enums.EventOrderUpdated, order, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logOrder(ctx, "order status updated", updated)
	return updated, nil
}

func (s *service) UpdateItemStatus(ctx context.Context, input ItemStatusInput) (*models.Order, error) {
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	var updated *models.Order
	err := s.run(ctx, opUpdateItemStatus, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "order is cancelled").
				WithDetails(map[string]any{"orderId": order.ID})
		}
		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == input.ItemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found").
				WithDetails(map[string]any{"orderId": order.ID, "orderItemId": input.ItemID})
		}
		if input.Status == enums.OrderItemStatusCancelled && order.IsPaid {
			return pkgerrors.New(pkgerrors.CodeConflict, "items of a paid order cannot be cancelled").
				WithDetails(map[string]any{"orderId": order.ID, "orderItemId": item.ID})
		}
		changed, err := orders.TransitionItem(item.Status, input.Status)
		if err != nil {
			return err
		}
		updated = order
		if !changed {
			return nil
		}
		item.Status = input.Status
		if err := deps.orders.SaveItem(ctx, item); err != nil {
			return err
		}
		if input.Status == enums.OrderItemStatusCancelled {
			if updated, err = s.reprice(ctx, deps, order.ID); err != nil {
				return err
			}
		}
		return s.emitOrder(ctx, tx, enums.EventOrderUpdated, updated, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logOrder(ctx, "order item status updated", updated)
	return updated, nil
}

func (s *service) SetHold(ctx context.Context, input HoldInput) (*models.Order, error) {
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	var updated *models.Order
	err := s.run(ctx, opSetHold, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeConflict, "only open orders can be held").
				WithDetails(map[string]any{"orderId": order.ID})
		}
		updated = order
		if order.HoldStatus == input.Hold {
			return nil
		}
		order.HoldStatus = input.Hold
		if err := deps.orders.Save(ctx, order); err != nil {
			return err
		}
		return s.emitOrder(ctx, tx, enums.EventOrderUpdated, order, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logOrder(ctx, "order hold updated", updated)
	return updated, nil
}
