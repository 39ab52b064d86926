package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/metrics"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/outbox/registry"
)

const (
	fallbackBatch       = 50
	fallbackIdle        = 500 * time.Millisecond
	fallbackMaxAttempts = 10
	sendTimeout         = 15 * time.Second
	maxRetryDelay       = 10 * time.Second
	retryJitter         = 250 * time.Millisecond
)

type txRunner interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pinger interface {
	Ping(context.Context) error
}

type rowStore interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
	CountPending(maxAttempts int) (int64, error)
}

type deadLetters interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

type resolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
	Topics() []string
}

// RelayParams wires the relay. Sinks must hold one entry per registry topic.
type RelayParams struct {
	Config      config.OutboxConfig
	Logger      *logger.Logger
	DB          txRunner
	Broker      pinger
	Rows        rowStore
	DeadLetters deadLetters
	Registry    resolver
	Sinks       map[string]sink
	Metrics     *metrics.OutboxMetrics
}

// Relay drains committed outbox rows onto the orders and tables topics.
type Relay struct {
	logg        *logger.Logger
	db          txRunner
	broker      pinger
	rows        rowStore
	dlq         deadLetters
	registry    resolver
	sinks       map[string]sink
	metrics     *metrics.OutboxMetrics
	batch       int
	maxAttempts int
	idle        time.Duration
}

func NewRelay(params RelayParams) (*Relay, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.Broker == nil:
		return nil, errors.New("pubsub client is required")
	case params.Rows == nil:
		return nil, errors.New("outbox repository is required")
	case params.DeadLetters == nil:
		return nil, errors.New("dlq repository is required")
	case params.Registry == nil:
		return nil, errors.New("event registry is required")
	}
	for _, topic := range params.Registry.Topics() {
		if params.Sinks[topic] == nil {
			return nil, fmt.Errorf("no publisher for topic %q", topic)
		}
	}

	r := &Relay{
		logg:        params.Logger,
		db:          params.DB,
		broker:      params.Broker,
		rows:        params.Rows,
		dlq:         params.DeadLetters,
		registry:    params.Registry,
		sinks:       params.Sinks,
		metrics:     params.Metrics,
		batch:       params.Config.BatchSize,
		maxAttempts: params.Config.MaxAttempts,
		idle:        time.Duration(params.Config.PollIntervalMS) * time.Millisecond,
	}
	if r.batch <= 0 {
		r.batch = fallbackBatch
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = fallbackMaxAttempts
	}
	if r.idle <= 0 {
		r.idle = fallbackIdle
	}
	return r, nil
}

// Run relays until ctx is cancelled. When a whole batch was settled the next
// one starts at once. Otherwise the relay waits for the poll interval, or
// backs off exponentially after a failed batch.
func (r *Relay) Run(ctx context.Context) error {
	if err := r.ready(ctx); err != nil {
		return err
	}
	defer r.stop()

	if pending, err := r.rows.CountPending(r.maxAttempts); err == nil {
		r.logg.Info(r.logg.WithField(ctx, "pending", pending), "outbox backlog at start")
	}

	var wait time.Duration
	failures := 0
	for {
		if err := pause(ctx, wait); err != nil {
			r.logg.Info(ctx, "outbox relay stopping")
			return err
		}
		settled, err := r.drain(ctx)
		switch {
		case err != nil:
			failures++
			wait = retryDelay(r.idle, failures)
			r.logg.Error(r.logg.WithFields(ctx, map[string]any{
				"consecutive_failures": failures,
				"retry_in":             wait.String(),
			}), "outbox batch failed", err)
		case settled >= r.batch:
			failures, wait = 0, 0
		default:
			failures, wait = 0, r.idle
		}
	}
}

func (r *Relay) ready(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		r.logg.Error(ctx, "database ping failed", err)
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := r.broker.Ping(ctx); err != nil {
		r.logg.Error(ctx, "pubsub ping failed", err)
		return fmt.Errorf("pubsub ping failed: %w", err)
	}
	return nil
}

// stop flushes every sink before the process exits.
func (r *Relay) stop() {
	topics := make([]string, 0, len(r.sinks))
	for topic := range r.sinks {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	for _, topic := range topics {
		r.sinks[topic].Stop()
	}
}

type verdict int

const (
	delivered verdict = iota
	retryLater
	deadLettered
	heldBack
)

type outcome struct {
	verdict verdict
	topic   string
	reason  enums.OutboxDLQErrorReason
	err     error
}

// drain handles one batch inside a single transaction and reports how many
// rows were settled for good. Rows behind a failed row of the same aggregate
// are left untouched so they go out after it.
func (r *Relay) drain(ctx context.Context) (int, error) {
	settled := 0
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := r.rows.FetchUnpublishedForPublish(tx, r.batch, r.maxAttempts)
		if err != nil {
			return fmt.Errorf("fetch outbox rows: %w", err)
		}
		stalled := map[uuid.UUID]struct{}{}
		for _, row := range rows {
			out := r.deliver(ctx, row, stalled)
			if err := r.record(ctx, tx, row, out); err != nil {
				return err
			}
			if out.verdict == delivered || out.verdict == deadLettered {
				settled++
			}
		}
		return nil
	})
	return settled, err
}

func (r *Relay) deliver(ctx context.Context, row models.OutboxEvent, stalled map[uuid.UUID]struct{}) outcome {
	if _, ok := stalled[row.AggregateID]; ok {
		return outcome{verdict: heldBack}
	}
	resolved, err := r.registry.Resolve(row)
	if err != nil {
		return outcome{verdict: deadLettered, reason: enums.OutboxDLQReasonNonRetryable, err: err}
	}
	topic := resolved.Descriptor.Topic
	dest, ok := r.sinks[topic]
	if !ok || dest == nil {
		return outcome{
			verdict: deadLettered,
			topic:   topic,
			reason:  enums.OutboxDLQReasonNonRetryable,
			err:     fmt.Errorf("no publisher for topic %q", topic),
		}
	}

	msg := buildMessage(row, resolved)
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err = dest.Send(sendCtx, msg)
	cancel()
	if err == nil {
		return outcome{verdict: delivered, topic: topic}
	}

	dest.Resume(msg.OrderingKey)
	var permanent registry.NonRetryableError
	switch {
	case errors.As(err, &permanent):
		return outcome{verdict: deadLettered, topic: topic, reason: enums.OutboxDLQReasonNonRetryable, err: err}
	case row.AttemptCount+1 >= r.maxAttempts:
		return outcome{
			verdict: deadLettered,
			topic:   topic,
			reason:  enums.OutboxDLQReasonMaxAttempts,
			err:     fmt.Errorf("gave up after %d attempts: %w", row.AttemptCount+1, err),
		}
	default:
		stalled[row.AggregateID] = struct{}{}
		return outcome{verdict: retryLater, topic: topic, err: err}
	}
}

// buildMessage keys messages by aggregate so each order and each table keeps
// its own event order on the topic.
func buildMessage(row models.OutboxEvent, resolved *registry.ResolvedEvent) *gcppubsub.Message {
	env := resolved.Envelope
	return &gcppubsub.Message{
		Data:        row.Payload,
		OrderingKey: row.AggregateID.String(),
		Attributes: map[string]string{
			"outbox_id":      row.ID.String(),
			"event_id":       env.EventID,
			"event_type":     string(row.EventType),
			"aggregate_type": string(row.AggregateType),
			"aggregate_id":   row.AggregateID.String(),
			"occurred_at":    env.OccurredAt.UTC().Format(time.RFC3339Nano),
			"schema_version": strconv.Itoa(env.Version),
		},
	}
}

func (r *Relay) record(ctx context.Context, tx *gorm.DB, row models.OutboxEvent, out outcome) error {
	ctx = r.logg.WithFields(ctx, map[string]any{
		"outbox_id":      row.ID.String(),
		"event_type":     row.EventType,
		"aggregate_type": row.AggregateType,
		"aggregate_id":   row.AggregateID.String(),
		"attempt_count":  row.AttemptCount,
		"topic":          out.topic,
	})
	eventType := string(row.EventType)

	switch out.verdict {
	case heldBack:
		r.logg.Debug(ctx, "outbox row waits for an earlier failed row")
		return nil
	case delivered:
		if err := r.rows.MarkPublishedTx(tx, row.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", row.ID, err)
		}
		r.metrics.Inc(out.topic, eventType, metrics.OutboxPublished)
		if !row.CreatedAt.IsZero() {
			r.metrics.ObserveLag(time.Since(row.CreatedAt).Seconds())
		}
		r.logg.Info(ctx, "outbox event published")
		return nil
	case retryLater:
		if err := r.rows.MarkFailedTx(tx, row.ID, out.err); err != nil {
			return fmt.Errorf("mark failed %s: %w", row.ID, err)
		}
		r.metrics.Inc(out.topic, eventType, metrics.OutboxRetry)
		r.logg.Warn(r.logg.WithField(ctx, "error", out.err.Error()), "outbox publish failed, will retry")
		return nil
	}

	msg := out.err.Error()
	entry := models.OutboxDLQ{
		EventID:       row.ID,
		EventType:     row.EventType,
		AggregateType: row.AggregateType,
		AggregateID:   row.AggregateID,
		Payload:       row.Payload,
		ErrorReason:   out.reason,
		ErrorMessage:  &msg,
		AttemptCount:  row.AttemptCount,
		FailedAt:      time.Now().UTC(),
	}
	if err := r.dlq.InsertTx(tx, entry); err != nil {
		return fmt.Errorf("insert dlq %s: %w", row.ID, err)
	}
	if err := r.rows.MarkTerminalTx(tx, row.ID, out.err, r.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", row.ID, err)
	}
	r.metrics.Inc(out.topic, eventType, metrics.OutboxDeadLetter)
	r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
		"error":        msg,
		"error_reason": out.reason,
	}), "outbox event dead-lettered")
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDelay doubles the poll interval per consecutive failure, capped, with
// jitter so several relays do not retry in lockstep.
func retryDelay(base time.Duration, failures int) time.Duration {
	d := base
	for i := 0; i < failures && d < maxRetryDelay; i++ {
		d *= 2
	}
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d + rand.N(retryJitter)
}
