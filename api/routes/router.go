package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/controllers"
	ordercontrollers "github.com/rohitappsaga-debug/Rms-testing-sub001/api/controllers/orders"
	tablecontrollers "github.com/rohitappsaga-debug/Rms-testing-sub001/api/controllers/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/middleware"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/redis"
)

// NewRouter wires every HTTP route. redisClient and metricsHandler may be nil;
// without Redis the idempotency middleware is a pass-through.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	lifecycleSvc lifecycle.Service,
	ordersSvc orders.Service,
	tableStore tables.Store,
	menuSvc menu.Service,
	settingsSvc settings.Service,
	ledgerSvc ledger.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var idempotencyStore redis.IdempotencyStore
	pingers := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		idempotencyStore = redisClient
		pingers["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StaffContext(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", controllers.MenuItems(menuSvc, logg))
			r.Post("/", controllers.CreateMenuItem(menuSvc, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(settingsSvc, logg))
			r.Put("/", controllers.UpdateSettings(settingsSvc, logg))
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", tablecontrollers.List(tableStore, logg))
			r.Post("/", tablecontrollers.Create(tableStore, logg))
			r.Post("/groups", tablecontrollers.Group(lifecycleSvc, logg))
			r.Delete("/groups/{groupId}", tablecontrollers.Ungroup(lifecycleSvc, logg))
			r.Post("/merge", tablecontrollers.Merge(lifecycleSvc, logg))
			r.Get("/{number}", tablecontrollers.Detail(tableStore, logg))
			r.Delete("/{number}", tablecontrollers.Delete(tableStore, logg))
			r.Post("/{number}/reservation", tablecontrollers.Reserve(lifecycleSvc, logg))
			r.Delete("/{number}/reservation", tablecontrollers.CancelReservation(lifecycleSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersSvc, logg))
			r.Post("/", ordercontrollers.Create(lifecycleSvc, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersSvc, logg))
			r.Post("/{orderId}/items", ordercontrollers.AddItems(lifecycleSvc, logg))
			r.Post("/{orderId}/payments", ordercontrollers.Settle(lifecycleSvc, logg))
			r.Post("/{orderId}/split", ordercontrollers.Split(lifecycleSvc, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(lifecycleSvc, logg))
			r.Post("/{orderId}/hold", ordercontrollers.Hold(lifecycleSvc, logg))
			r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(lifecycleSvc, logg))
			r.Patch("/{orderId}/items/{itemId}/status", ordercontrollers.UpdateItemStatus(lifecycleSvc, logg))
		})

		r.Post("/payments/{paymentId}/refund", controllers.RefundPayment(lifecycleSvc, logg))
		r.Get("/reports/daily-sales", controllers.DailySales(ledgerSvc, logg))
	})

	return r
}
