// Package lifecycle coordinates orders, tables, payments and the daily ledger.
// Every mutation runs in one transaction, locks the rows it touches and queues
// its outbox events before commit.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/payments"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/pricing"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/metrics"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/outbox"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type settingsReader interface {
	Get(ctx context.Context, tx *gorm.DB) (*models.RestaurantSettings, error)
}

type ledgerRecorder interface {
	RecordSettlement(ctx context.Context, tx *gorm.DB, input ledger.SettlementInput) (*ledger.RecordResult, error)
}

// Service is the only writer of order, table and payment state.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	AddItemsToOrder(ctx context.Context, input AddItemsInput) (*AddItemsResult, error)
	SettlePayment(ctx context.Context, input SettleInput) (*SettlementResult, error)
	SplitOrder(ctx context.Context, input SplitInput) (*SplitResult, error)
	MergeOrder(ctx context.Context, input MergeInput) (*MergeResult, error)
	CancelOrder(ctx context.Context, input CancelInput) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, input OrderStatusInput) (*models.Order, error)
	UpdateItemStatus(ctx context.Context, input ItemStatusInput) (*models.Order, error)
	SetHold(ctx context.Context, input HoldInput) (*models.Order, error)
	RefundPayment(ctx context.Context, input RefundInput) (*RefundResult, error)
	GroupTables(ctx context.Context, input GroupInput) ([]models.Table, error)
	UngroupTables(ctx context.Context, input UngroupInput) ([]models.Table, error)
	ReserveTable(ctx context.Context, input ReserveInput) (*models.Table, error)
	CancelReservation(ctx context.Context, input CancelReservationInput) (*models.Table, error)
}

// ServiceParams wires the coordinator's collaborators.
type ServiceParams struct {
	DB       txRunner
	Orders   orders.Repository
	Tables   tables.Store
	Menu     menu.Repository
	Payments payments.Repository
	Ledger   ledgerRecorder
	Settings settingsReader
	Outbox   outboxPublisher
	Metrics  *metrics.LifecycleMetrics
	Logger   *logger.Logger
	Clock    func() time.Time
}

type service struct {
	db       txRunner
	orders   orders.Repository
	tables   tables.Store
	menu     menu.Repository
	payments payments.Repository
	ledger   ledgerRecorder
	settings settingsReader
	outbox   outboxPublisher
	metrics  *metrics.LifecycleMetrics
	logg     *logger.Logger
	clock    func() time.Time
}

// NewService builds the lifecycle coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tables == nil {
		return nil, fmt.Errorf("table store required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:       params.DB,
		orders:   params.Orders,
		tables:   params.Tables,
		menu:     params.Menu,
		payments: params.Payments,
		ledger:   params.Ledger,
		settings: params.Settings,
		outbox:   params.Outbox,
		metrics:  params.Metrics,
		logg:     params.Logger,
		clock:    clock,
	}, nil
}

func (s *service) now() time.Time {
	return s.clock().UTC()
}

// run executes fn in a transaction and records the outcome. Errors that did
// not come from the domain are wrapped as internal.
func (s *service) run(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	started := time.Now()
	err := s.db.WithTx(ctx, fn)
	if err != nil && pkgerrors.As(err) == nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, operation+" failed")
	}
	s.metrics.Observe(operation, started, err)

	logCtx := s.logg.WithField(ctx, "operation", operation)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeInternal) {
			s.logg.Error(logCtx, "lifecycle operation failed", err)
		} else {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "lifecycle operation rejected")
		}
	}
	return err
}

// txDeps are the repositories bound to the current transaction.
type txDeps struct {
	tx       *gorm.DB
	orders   orders.Repository
	tables   tables.Store
	menu     menu.Repository
	payments payments.Repository
}

func (s *service) bind(tx *gorm.DB) txDeps {
	return txDeps{
		tx:       tx,
		orders:   s.orders.WithTx(tx),
		tables:   s.tables.WithTx(tx),
		menu:     s.menu.WithTx(tx),
		payments: s.payments.WithTx(tx),
	}
}

func (s *service) pricingSettings(ctx context.Context, tx *gorm.DB) (*models.RestaurantSettings, pricing.Settings, error) {
	current, err := s.settings.Get(ctx, tx)
	if err != nil {
		return nil, pricing.Settings{}, err
	}
	return current, settings.Pricing(current), nil
}

// reprice reloads the order with its items, recomputes the cached totals and saves it.
func (s *service) reprice(ctx context.Context, deps txDeps, orderID uuid.UUID) (*models.Order, error) {
	order, err := deps.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	_, priceSettings, err := s.pricingSettings(ctx, deps.tx)
	if err != nil {
		return nil, err
	}
	pricing.Apply(order, priceSettings)
	if err := deps.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func actorRef(actor string) *outbox.ActorRef {
	if actor == "" {
		return nil
	}
	return &outbox.ActorRef{StaffID: actor}
}

func (s *service) emitOrder(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, order *models.Order, actor string) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actorRef(actor),
		Data:          payloads.OrderEvent{Order: *order},
		OccurredAt:    s.now(),
	})
}

func (s *service) emitPaid(ctx context.Context, tx *gorm.DB, order *models.Order, payment *models.PaymentTransaction, actor string) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderPaid,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actorRef(actor),
		Data:          payloads.OrderPaidEvent{Order: *order, Payment: *payment},
		OccurredAt:    s.now(),
	})
}

func (s *service) emitTables(ctx context.Context, tx *gorm.DB, changed []models.Table, orderID *uuid.UUID, actor string) error {
	for _, table := range changed {
		event := outbox.DomainEvent{
			EventType:     enums.EventTableStatusChanged,
			AggregateType: enums.AggregateTable,
			AggregateID:   table.ID,
			Actor:         actorRef(actor),
			Data:          payloads.TableStatusChangedEvent{Table: table, OrderID: orderID},
			OccurredAt:    s.now(),
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}
	}
	return nil
}

// statusTally counts table status changes, reported once the transaction commits.
type statusTally map[enums.TableStatus]int

func (t statusTally) add(changed []models.Table) {
	for _, table := range changed {
		t[table.Status]++
	}
}

func (s *service) recordTally(tally statusTally) {
	for status, n := range tally {
		s.metrics.IncTableStatus(string(status), n)
	}
}

func (s *service) logOrder(ctx context.Context, msg string, order *models.Order) {
	fields := map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"order_status": order.Status,
		"total":        order.Total.StringFixed(2),
	}
	if order.TableNumber != nil {
		fields["table_number"] = *order.TableNumber
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), msg)
}
