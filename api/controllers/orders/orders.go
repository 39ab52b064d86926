package orders

import (
	"net/http"
	"strings"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/middleware"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/responses"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/validators"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	internalorders "github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/pagination"
)

// List returns a cursor page of orders filtered by status, table and payment state.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tableNumber, err := validators.ParseQueryOptionalInt(r, "tableNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isPaid, err := validators.ParseQueryBool(r, "isPaid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := internalorders.ListParams{
			TableNumber: tableNumber,
			IsPaid:      isPaid,
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create opens a dine-in or takeaway order for the acting staff member.
func Create(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), lifecycle.CreateOrderInput{
			TableNumber:    req.TableNumber,
			Items:          toItemInputs(req.Items),
			Discount:       req.Discount.toDiscount(),
			DiscountPreset: validators.SanitizeString(req.DiscountPreset, 64),
			Notes:          req.Notes,
			Actor:          middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, order)
	}
}

// AddItems appends items. A paid order spawns a new order, answered with 201.
func AddItems(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req addItemsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItemsToOrder(r.Context(), lifecycle.AddItemsInput{
			OrderID: orderID,
			Items:   toItemInputs(req.Items),
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, addItemsResponse{Order: result.Order, Created: result.Created})
	}
}

func Settle(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req settleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SettlePayment(r.Context(), lifecycle.SettleInput{
			OrderID:       orderID,
			Amount:        req.Amount,
			Method:        req.Method,
			TransactionID: req.TransactionID,
			Actor:         middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, settlementResponse{
			Order:       result.Order,
			Payment:     result.Payment,
			FreedTables: result.FreedTables,
			DailySales:  result.DailySales,
		})
	}
}

func Split(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req splitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selections := make([]lifecycle.SplitSelection, 0, len(req.Items))
		for _, item := range req.Items {
			selections = append(selections, lifecycle.SplitSelection{OrderItemID: item.OrderItemID, Quantity: item.Quantity})
		}
		result, err := svc.SplitOrder(r.Context(), lifecycle.SplitInput{
			SourceOrderID:     orderID,
			Selections:        selections,
			TargetTableNumber: req.TargetTableNumber,
			Actor:             middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, splitResponse{Source: result.Source, Target: result.Target})
	}
}

func Cancel(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelOrder(r.Context(), lifecycle.CancelInput{
			OrderID: orderID,
			Reason:  validators.SanitizeString(req.Reason, 200),
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func UpdateStatus(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req statusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), lifecycle.OrderStatusInput{
			OrderID: orderID,
			Status:  req.Status,
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func UpdateItemStatus(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req itemStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateItemStatus(r.Context(), lifecycle.ItemStatusInput{
			OrderID: orderID,
			ItemID:  itemID,
			Status:  req.Status,
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func Hold(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req holdRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetHold(r.Context(), lifecycle.HoldInput{
			OrderID: orderID,
			Hold:    *req.Hold,
			Actor:   middleware.StaffIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
