package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/middleware"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	internalorders "github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

// stubLifecycle implements only the calls a test exercises; anything else panics.
type stubLifecycle struct {
	lifecycle.Service
	create  func(ctx context.Context, input lifecycle.CreateOrderInput) (*models.Order, error)
	add     func(ctx context.Context, input lifecycle.AddItemsInput) (*lifecycle.AddItemsResult, error)
	settle  func(ctx context.Context, input lifecycle.SettleInput) (*lifecycle.SettlementResult, error)
	split   func(ctx context.Context, input lifecycle.SplitInput) (*lifecycle.SplitResult, error)
	cancel  func(ctx context.Context, input lifecycle.CancelInput) (*models.Order, error)
	status  func(ctx context.Context, input lifecycle.OrderStatusInput) (*models.Order, error)
	itemSt  func(ctx context.Context, input lifecycle.ItemStatusInput) (*models.Order, error)
	setHold func(ctx context.Context, input lifecycle.HoldInput) (*models.Order, error)
}

func (s *stubLifecycle) CreateOrder(ctx context.Context, input lifecycle.CreateOrderInput) (*models.Order, error) {
	return s.create(ctx, input)
}

func (s *stubLifecycle) AddItemsToOrder(ctx context.Context, input lifecycle.AddItemsInput) (*lifecycle.AddItemsResult, error) {
	return s.add(ctx, input)
}

func (s *stubLifecycle) SettlePayment(ctx context.Context, input lifecycle.SettleInput) (*lifecycle.SettlementResult, error) {
	return s.settle(ctx, input)
}

func (s *stubLifecycle) SplitOrder(ctx context.Context, input lifecycle.SplitInput) (*lifecycle.SplitResult, error) {
	return s.split(ctx, input)
}

func (s *stubLifecycle) CancelOrder(ctx context.Context, input lifecycle.CancelInput) (*models.Order, error) {
	return s.cancel(ctx, input)
}

func (s *stubLifecycle) UpdateOrderStatus(ctx context.Context, input lifecycle.OrderStatusInput) (*models.Order, error) {
	return s.status(ctx, input)
}

func (s *stubLifecycle) UpdateItemStatus(ctx context.Context, input lifecycle.ItemStatusInput) (*models.Order, error) {
	return s.itemSt(ctx, input)
}

func (s *stubLifecycle) SetHold(ctx context.Context, input lifecycle.HoldInput) (*models.Order, error) {
	return s.setHold(ctx, input)
}

type stubOrders struct {
	get  func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	list func(ctx context.Context, params internalorders.ListParams) (*types.Page[models.Order], error)
}

func (s *stubOrders) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.get(ctx, id)
}

func (s *stubOrders) List(ctx context.Context, params internalorders.ListParams) (*types.Page[models.Order], error) {
	return s.list(ctx, params)
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = middleware.WithStaffID(ctx, "waiter-1")
	return req.WithContext(ctx)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateMapsRequest(t *testing.T) {
	menuID := uuid.New()
	var got lifecycle.CreateOrderInput
	svc := &stubLifecycle{create: func(_ context.Context, input lifecycle.CreateOrderInput) (*models.Order, error) {
		got = input
		return &models.Order{ID: uuid.New(), TableNumber: input.TableNumber, CreatedBy: input.Actor}, nil
	}}

	body := `{"tableNumber":3,"items":[{"menuItemId":"` + menuID.String() + `","quantity":2,"notes":"no sugar"}],"discount":{"type":"percentage","value":"10"}}`
	rec := httptest.NewRecorder()
	Create(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/orders", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, got.TableNumber)
	assert.Equal(t, 3, *got.TableNumber)
	assert.Equal(t, "waiter-1", got.Actor)
	require.Len(t, got.Items, 1)
	assert.Equal(t, menuID, got.Items[0].MenuItemID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Discount)
	assert.Equal(t, enums.DiscountTypePercentage, got.Discount.Type)
	assert.True(t, got.Discount.Value.Equal(decimal.NewFromInt(10)))
}

func TestCreateRejectsBadBodies(t *testing.T) {
	svc := &stubLifecycle{}
	cases := map[string]string{
		"no items":       `{"tableNumber":3,"items":[]}`,
		"zero quantity":  `{"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":0}]}`,
		"bad discount":   `{"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1}],"discount":{"type":"bogus","value":"1"}}`,
		"unknown field":  `{"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1}],"waiter":"x"}`,
		"negative table": `{"tableNumber":-1,"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Create(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/orders", body, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, rec))
		})
	}
}

func TestCreatePropagatesConflict(t *testing.T) {
	svc := &stubLifecycle{create: func(context.Context, lifecycle.CreateOrderInput) (*models.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "table already has an open order")
	}}
	body := `{"tableNumber":3,"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1}]}`
	rec := httptest.NewRecorder()
	Create(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/api/v1/orders", body, nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeConflict), errorCode(t, rec))
}

func TestSettle(t *testing.T) {
	orderID := uuid.New()
	var got lifecycle.SettleInput
	svc := &stubLifecycle{settle: func(_ context.Context, input lifecycle.SettleInput) (*lifecycle.SettlementResult, error) {
		got = input
		return &lifecycle.SettlementResult{
			Order:   &models.Order{ID: input.OrderID, IsPaid: true},
			Payment: &models.PaymentTransaction{ID: uuid.New(), OrderID: input.OrderID, Amount: input.Amount},
		}, nil
	}}

	rec := httptest.NewRecorder()
	Settle(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"amount":"105.00","method":"upi"}`, map[string]string{"orderId": orderID.String()}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, orderID, got.OrderID)
	assert.Equal(t, enums.PaymentMethodUPI, got.Method)
	assert.Equal(t, "105.00", got.Amount.StringFixed(2))

	var body struct {
		Data struct {
			Order struct {
				IsPaid bool `json:"isPaid"`
			} `json:"order"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Order.IsPaid)
}

func TestSettleErrors(t *testing.T) {
	orderID := uuid.New().String()
	svc := &stubLifecycle{settle: func(context.Context, lifecycle.SettleInput) (*lifecycle.SettlementResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadySettled, "order already settled")
	}}

	rec := httptest.NewRecorder()
	Settle(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"amount":"10","method":"cash"}`, map[string]string{"orderId": orderID}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeAlreadySettled), errorCode(t, rec))

	rec = httptest.NewRecorder()
	Settle(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"amount":"0","method":"cash"}`, map[string]string{"orderId": orderID}))
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, rec))

	rec = httptest.NewRecorder()
	Settle(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"amount":"10","method":"cheque"}`, map[string]string{"orderId": orderID}))
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, rec))

	rec = httptest.NewRecorder()
	Settle(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"amount":"10","method":"cash"}`, map[string]string{"orderId": "nope"}))
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, rec))
}

func TestAddItemsStatusReflectsNewOrder(t *testing.T) {
	created := false
	svc := &stubLifecycle{add: func(_ context.Context, input lifecycle.AddItemsInput) (*lifecycle.AddItemsResult, error) {
		return &lifecycle.AddItemsResult{Order: &models.Order{ID: uuid.New()}, Created: created}, nil
	}}
	body := `{"items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1}]}`
	params := map[string]string{"orderId": uuid.NewString()}

	rec := httptest.NewRecorder()
	AddItems(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", body, params))
	assert.Equal(t, http.StatusOK, rec.Code)

	created = true
	rec = httptest.NewRecorder()
	AddItems(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", body, params))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSplitMapsSelections(t *testing.T) {
	itemID := uuid.New()
	var got lifecycle.SplitInput
	svc := &stubLifecycle{split: func(_ context.Context, input lifecycle.SplitInput) (*lifecycle.SplitResult, error) {
		got = input
		return &lifecycle.SplitResult{Source: &models.Order{}, Target: &models.Order{}}, nil
	}}
	body := `{"items":[{"orderItemId":"` + itemID.String() + `","quantity":1}],"targetTableNumber":5}`

	rec := httptest.NewRecorder()
	Split(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", body, map[string]string{"orderId": uuid.NewString()}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 5, got.TargetTableNumber)
	require.Len(t, got.Selections, 1)
	assert.Equal(t, itemID, got.Selections[0].OrderItemID)
}

func TestCancelStatusAndHold(t *testing.T) {
	orderID := uuid.New()
	params := map[string]string{"orderId": orderID.String(), "itemId": uuid.NewString()}
	svc := &stubLifecycle{
		cancel: func(_ context.Context, input lifecycle.CancelInput) (*models.Order, error) {
			assert.Equal(t, "guest left", input.Reason)
			return &models.Order{ID: input.OrderID, Status: enums.OrderStatusCancelled}, nil
		},
		status: func(_ context.Context, input lifecycle.OrderStatusInput) (*models.Order, error) {
			assert.Equal(t, enums.OrderStatusPreparing, input.Status)
			return &models.Order{ID: input.OrderID, Status: input.Status}, nil
		},
		itemSt: func(_ context.Context, input lifecycle.ItemStatusInput) (*models.Order, error) {
			assert.Equal(t, enums.OrderItemStatusReady, input.Status)
			return &models.Order{ID: input.OrderID}, nil
		},
		setHold: func(_ context.Context, input lifecycle.HoldInput) (*models.Order, error) {
			assert.True(t, input.Hold)
			return &models.Order{ID: input.OrderID, HoldStatus: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	Cancel(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"reason":"  guest left "}`, params))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Cancel(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{}`, params))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	UpdateStatus(svc, logger.Nop())(rec, newRequest(http.MethodPatch, "/", `{"status":"preparing"}`, params))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	UpdateStatus(svc, logger.Nop())(rec, newRequest(http.MethodPatch, "/", `{"status":"eaten"}`, params))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	UpdateItemStatus(svc, logger.Nop())(rec, newRequest(http.MethodPatch, "/", `{"status":"ready"}`, params))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Hold(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{"hold":true}`, params))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Hold(svc, logger.Nop())(rec, newRequest(http.MethodPost, "/", `{}`, params))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndDetail(t *testing.T) {
	orderID := uuid.New()
	var got internalorders.ListParams
	svc := &stubOrders{
		list: func(_ context.Context, params internalorders.ListParams) (*types.Page[models.Order], error) {
			got = params
			return &types.Page[models.Order]{Items: []models.Order{{ID: orderID}}, NextCursor: "next"}, nil
		},
		get: func(_ context.Context, id uuid.UUID) (*models.Order, error) {
			if id != orderID {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return &models.Order{ID: id}, nil
		},
	}

	rec := httptest.NewRecorder()
	List(svc, logger.Nop())(rec, newRequest(http.MethodGet, "/api/v1/orders?status=pending&tableNumber=2&isPaid=false&limit=10", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, enums.OrderStatusPending, *got.Status)
	assert.Equal(t, 2, *got.TableNumber)
	assert.False(t, *got.IsPaid)
	assert.Equal(t, 10, got.Limit)

	rec = httptest.NewRecorder()
	List(svc, logger.Nop())(rec, newRequest(http.MethodGet, "/api/v1/orders?status=eaten", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	Detail(svc, logger.Nop())(rec, newRequest(http.MethodGet, "/", "", map[string]string{"orderId": orderID.String()}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Detail(svc, logger.Nop())(rec, newRequest(http.MethodGet, "/", "", map[string]string{"orderId": uuid.NewString()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
