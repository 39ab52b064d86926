package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

const outcomeOK = "ok"

// LifecycleMetrics records order/table/payment operations.
type LifecycleMetrics struct {
	duration    *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	tables      *prometheus.CounterVec
	settled     prometheus.Counter
	ledgerDupes prometheus.Counter
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rms_lifecycle_operation_duration_seconds",
		Help:    "Duration of lifecycle operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rms_lifecycle_operations_total",
		Help: "Lifecycle operations by outcome.",
	}, []string{"operation", "outcome"})
	tables := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rms_table_status_changes_total",
		Help: "Table status changes by resulting status.",
	}, []string{"status"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rms_settled_amount_total",
		Help: "Sum of settled payment amounts.",
	})
	ledgerDupes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rms_ledger_duplicate_settlements_total",
		Help: "Settlements the ledger had already recorded.",
	})
	reg.MustRegister(duration, operations, tables, settled, ledgerDupes)
	return &LifecycleMetrics{
		duration:    duration,
		operations:  operations,
		tables:      tables,
		settled:     settled,
		ledgerDupes: ledgerDupes,
	}
}

// Observe records one finished operation. The outcome label is "ok" or the
// lower-cased error code.
func (m *LifecycleMetrics) Observe(operation string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	m.operations.WithLabelValues(op, outcome(err)).Inc()
}

// IncTableStatus counts a table moving into status.
func (m *LifecycleMetrics) IncTableStatus(status string, n int) {
	if m == nil || m.tables == nil || n <= 0 {
		return
	}
	m.tables.WithLabelValues(normalizeLabel(status)).Add(float64(n))
}

// AddSettled adds a settled amount.
func (m *LifecycleMetrics) AddSettled(amount float64) {
	if m == nil || m.settled == nil || amount <= 0 {
		return
	}
	m.settled.Add(amount)
}

func (m *LifecycleMetrics) IncLedgerDuplicate() {
	if m == nil || m.ledgerDupes == nil {
		return
	}
	m.ledgerDupes.Inc()
}

func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return strings.ToLower(string(pkgerrors.CodeInternal))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
