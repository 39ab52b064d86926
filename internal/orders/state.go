package orders

import (
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

// Served and delivered share a rank: both end the service flow.
var orderRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:   0,
	enums.OrderStatusPreparing: 1,
	enums.OrderStatusReady:     2,
	enums.OrderStatusServed:    3,
	enums.OrderStatusDelivered: 3,
}

var itemRank = map[enums.OrderItemStatus]int{
	enums.OrderItemStatusPending:   0,
	enums.OrderItemStatusPreparing: 1,
	enums.OrderItemStatusReady:     2,
	enums.OrderItemStatusServed:    3,
}

// TransitionOrder checks a status change. It reports changed=false for a
// same-state request, which callers treat as a no-op. Forward jumps are
// allowed; moving backwards or leaving a terminal status is a conflict.
func TransitionOrder(current, next enums.OrderStatus) (bool, error) {
	if !next.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(next)})
	}
	if current == next {
		return false, nil
	}
	if current.IsTerminal() {
		return false, transitionConflict(string(current), string(next))
	}
	if next == enums.OrderStatusCancelled {
		return true, nil
	}
	if orderRank[next] <= orderRank[current] {
		return false, transitionConflict(string(current), string(next))
	}
	return true, nil
}

// TransitionItem applies the same rules to a single order line.
func TransitionItem(current, next enums.OrderItemStatus) (bool, error) {
	if !next.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid item status").
			WithDetails(map[string]any{"status": string(next)})
	}
	if current == next {
		return false, nil
	}
	if current.IsTerminal() {
		return false, transitionConflict(string(current), string(next))
	}
	if next == enums.OrderItemStatusCancelled {
		return true, nil
	}
	if itemRank[next] <= itemRank[current] {
		return false, transitionConflict(string(current), string(next))
	}
	return true, nil
}

func transitionConflict(from, to string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "status transition not allowed").
		WithDetails(map[string]any{"from": from, "to": to})
}
