package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/payments"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/dbtest"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/metrics"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/outbox"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	conn := dbtest.Open(t)
	logg := logger.Nop()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	settingsSvc, err := settings.NewService(conn, config.RestaurantConfig{Currency: "INR", TaxRate: 5, TaxEnabled: false})
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), time.UTC)
	require.NoError(t, err)
	menuRepo := menu.NewRepository(conn)
	menuSvc, err := menu.NewService(menuRepo)
	require.NoError(t, err)
	ordersRepo := orders.NewRepository(conn)
	ordersSvc, err := orders.NewService(ordersRepo)
	require.NoError(t, err)
	store := tables.NewStore(conn)

	reg := prometheus.NewRegistry()
	lifecycleSvc, err := lifecycle.NewService(lifecycle.ServiceParams{
		DB:       db.Wrap(conn),
		Orders:   ordersRepo,
		Tables:   store,
		Menu:     menuRepo,
		Payments: payments.NewRepository(conn),
		Ledger:   ledgerSvc,
		Settings: settingsSvc,
		Outbox:   outbox.NewService(outbox.NewRepository(conn), logg),
		Metrics:  metrics.NewLifecycleMetrics(reg),
		Logger:   logg,
	})
	require.NoError(t, err)

	return NewRouter(cfg, logg, stubPinger{}, nil, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		lifecycleSvc, ordersSvc, store, menuSvc, settingsSvc, ledgerSvc)
}

func call(t *testing.T, h http.Handler, method, path, body string, dest any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Staff-Id", "waiter-1")
	req.Header.Set("Idempotency-Key", method+path+body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if dest != nil && rec.Code < 300 {
		envelope := struct {
			Data any `json:"data"`
		}{Data: dest}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	}
	return rec.Code
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/health/live", "", nil))
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/health/ready", "", nil))
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/metrics", "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/api/v1/nope", "", nil))
}

func TestDineInFlowOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	var chai struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/menu-items", `{"name":"Masala Chai","category":"Beverages","price":"50"}`, &chai))
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/tables", `{"number":1,"capacity":4}`, nil))
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/tables", `{"number":2,"capacity":2}`, nil))

	var order struct {
		ID        string `json:"id"`
		Total     string `json:"total"`
		CreatedBy string `json:"createdBy"`
		Items     []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	body := `{"tableNumber":1,"items":[{"menuItemId":"` + chai.ID + `","quantity":2}]}`
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/orders", body, &order))
	assert.Equal(t, "waiter-1", order.CreatedBy)
	require.Len(t, order.Items, 1)

	var table struct {
		Status         string  `json:"status"`
		CurrentOrderID *string `json:"currentOrderId"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/tables/1", "", &table))
	assert.Equal(t, "occupied", table.Status)
	require.NotNil(t, table.CurrentOrderID)
	assert.Equal(t, order.ID, *table.CurrentOrderID)

	assert.Equal(t, http.StatusConflict, call(t, h, http.MethodPost, "/api/v1/orders", body, nil))

	assert.Equal(t, http.StatusOK, call(t, h, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", `{"status":"preparing"}`, nil))
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodPatch, "/api/v1/orders/"+order.ID+"/items/"+order.Items[0].ID+"/status", `{"status":"ready"}`, nil))

	var settled struct {
		Payment struct {
			ID string `json:"id"`
		} `json:"payment"`
		DailySales struct {
			TotalOrders int `json:"totalOrders"`
		} `json:"dailySales"`
	}
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", `{"amount":"100","method":"cash"}`, &settled))
	assert.Equal(t, 1, settled.DailySales.TotalOrders)

	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/tables/1", "", &table))
	assert.Equal(t, "free", table.Status)
	assert.Nil(t, table.CurrentOrderID)

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodPost, "/api/v1/orders/"+order.ID+"/payments", `{"amount":"100","method":"card"}`, nil))

	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/api/v1/payments/"+settled.Payment.ID+"/refund", `{"reason":"cold chai"}`, nil))
	assert.Equal(t, http.StatusConflict, call(t, h, http.MethodPost, "/api/v1/payments/"+settled.Payment.ID+"/refund", `{"reason":"again"}`, nil))

	var page struct {
		Items []struct {
			ID     string `json:"id"`
			IsPaid bool   `json:"isPaid"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/orders?isPaid=true", "", &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, order.ID, page.Items[0].ID)

	today := time.Now().UTC().Format("2006-01-02")
	var days []struct {
		TotalSales string `json:"totalSales"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/reports/daily-sales?from="+today, "", &days))
	require.Len(t, days, 1)
	assert.Equal(t, "100", days[0].TotalSales)
}

func TestGroupReserveAndMergeOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	var chai struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/menu-items", `{"name":"Masala Chai","category":"Beverages","price":"50"}`, &chai))
	for _, n := range []string{"1", "2", "3", "4"} {
		require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/tables", `{"number":`+n+`,"capacity":4}`, nil))
	}

	var members []struct {
		GroupID string `json:"groupId"`
	}
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/tables/groups", `{"tableNumbers":[1,2],"primary":1}`, &members))
	require.Len(t, members, 2)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, "/api/v1/tables/groups/"+members[0].GroupID, "", nil))

	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/api/v1/tables/4/reservation", `{"reservedBy":"Mehta party"}`, nil))
	require.Equal(t, http.StatusOK, call(t, h, http.MethodDelete, "/api/v1/tables/4/reservation", "", nil))
	assert.Equal(t, http.StatusConflict, call(t, h, http.MethodDelete, "/api/v1/tables/4/reservation", "", nil))

	body := `{"tableNumber":3,"items":[{"menuItemId":"` + chai.ID + `","quantity":1}]}`
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/orders", body, nil))

	var merged struct {
		Order struct {
			TableNumber int `json:"tableNumber"`
		} `json:"order"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/api/v1/tables/merge", `{"sourceTableNumber":3,"targetTableNumber":4}`, &merged))
	assert.Equal(t, 4, merged.Order.TableNumber)

	var table struct {
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/tables/3", "", &table))
	assert.Equal(t, "free", table.Status)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/tables/4", "", &table))
	assert.Equal(t, "occupied", table.Status)
}
