package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/resilience"
)

// TxRunner opens the transaction that holds the SKIP LOCKED outbox batch.
type TxRunner interface {
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// Publisher is the subset of *kafka.Writer used by the relay.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds the writer for the shared events topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
	}
}

// Relay publishes outbox rows to Kafka and marks them published.
type Relay struct {
	Store     TxRunner
	Writer    Publisher
	Breaker   *gobreaker.CircuitBreaker[struct{}]
	BatchSize int
	Interval  time.Duration
	Log       zerolog.Logger
}

// RelayOnce publishes one batch. Rows stay unpublished when the write fails so
// the next tick retries them; delivery is at-least-once.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	if r.Store == nil || r.Writer == nil {
		return 0, errors.New("events: relay not configured")
	}
	published := 0
	err := r.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
		rows, err := q.ListUnpublishedEvents(ctx, int32(r.batchSize()))
		if err != nil {
			return fmt.Errorf("list outbox: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		msgs := make([]kafka.Message, 0, len(rows))
		for _, ev := range rows {
			msgs = append(msgs, Message(ev))
		}
		if err := r.write(ctx, msgs); err != nil {
			return err
		}
		for _, ev := range rows {
			if err := q.MarkEventPublished(ctx, ev.ID); err != nil {
				return fmt.Errorf("mark published: %w", err)
			}
		}
		published = len(rows)
		return nil
	})
	if err != nil {
		switch {
		case resilience.IsOpen(err):
			obs.IncOutboxRelay("breaker_open")
		default:
			obs.IncOutboxRelay("failed")
		}
		return 0, err
	}
	for i := 0; i < published; i++ {
		obs.IncOutboxRelay("published")
	}
	return published, nil
}

// Run polls until ctx is cancelled, backing off while publishing fails.
func (r *Relay) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	failures := 0
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		n, err := r.RelayOnce(ctx)
		next := interval
		switch {
		case err != nil && ctx.Err() == nil:
			failures++
			next = resilience.Backoff(interval, min(failures, 6), 0.2)
			r.Log.Warn().Err(err).Int("attempt", failures).Dur("retry_in", next).Msg("outbox relay failed")
		case n > 0:
			failures = 0
			r.Log.Debug().Int("published", n).Msg("outbox relayed")
			// drain a backlog without waiting a full interval
			if n >= r.batchSize() {
				next = 0
			}
		default:
			failures = 0
		}
		timer.Reset(next)
	}
}

// Message converts an outbox row into a Kafka message keyed by aggregate id
// so events for one aggregate stay ordered within a partition.
func Message(ev dbgen.DomainEvent) kafka.Message {
	msg := kafka.Message{
		Key:   []byte(common.UUIDString(ev.AggregateID)),
		Value: ev.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Topic)},
			{Key: "event_id", Value: []byte(common.UUIDString(ev.ID))},
		},
	}
	if ev.OccurredAt.Valid {
		msg.Time = ev.OccurredAt.Time
	}
	return msg
}

func (r *Relay) write(ctx context.Context, msgs []kafka.Message) error {
	if r.Breaker == nil {
		return r.Writer.WriteMessages(ctx, msgs...)
	}
	_, err := r.Breaker.Execute(func() (struct{}, error) {
		return struct{}{}, r.Writer.WriteMessages(ctx, msgs...)
	})
	return err
}

func (r *Relay) batchSize() int {
	if r.BatchSize <= 0 {
		return 100
	}
	return r.BatchSize
}
