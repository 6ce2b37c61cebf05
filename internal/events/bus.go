package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

// EventStore is the outbox write used inside the caller's transaction.
type EventStore interface {
	InsertDomainEvent(ctx context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error)
}

// Notifier reacts to committed events (job enqueueing, cache invalidation, etc.).
type Notifier interface {
	Notify(ctx context.Context, event dbgen.DomainEvent) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, event dbgen.DomainEvent) error

func (f NotifierFunc) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	return f(ctx, event)
}

// Record writes the event to the outbox. Pass the transaction-bound querier so
// the event commits or rolls back together with the state change it describes.
func Record(ctx context.Context, store EventStore, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	if store == nil {
		return dbgen.DomainEvent{}, errors.New("events: store not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return dbgen.DomainEvent{}, errors.New("events: topic is required")
	}
	if !aggregateID.Valid {
		return dbgen.DomainEvent{}, errors.New("events: aggregate id is required")
	}
	encoded, err := encodePayload(payload)
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: encode payload: %w", err)
	}
	ev, err := store.InsertDomainEvent(ctx, dbgen.InsertDomainEventParams{
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     encoded,
	})
	if err != nil {
		return dbgen.DomainEvent{}, fmt.Errorf("events: persist event: %w", err)
	}
	return ev, nil
}

// Bus fans committed events out to in-process subscribers.
type Bus struct {
	Notifiers []Notifier
	Log       zerolog.Logger
}

// Subscribe appends a notifier.
func (b *Bus) Subscribe(n Notifier) {
	if n == nil {
		return
	}
	b.Notifiers = append(b.Notifiers, n)
}

// Dispatch delivers each event to every notifier. Failures are joined; one
// notifier failing does not stop the others since the outbox row stays the
// source of truth.
func (b *Bus) Dispatch(ctx context.Context, evs ...dbgen.DomainEvent) error {
	if b == nil {
		return nil
	}
	var joined error
	for _, ev := range evs {
		for _, n := range b.Notifiers {
			if err := n.Notify(ctx, ev); err != nil {
				b.Log.Warn().Err(err).Str("topic", ev.Topic).Msg("event dispatch failed")
				joined = errors.Join(joined, fmt.Errorf("events: notify %s: %w", ev.Topic, err))
			}
		}
	}
	return joined
}

// Decode unmarshals an event payload into T.
func Decode[T any](ev dbgen.DomainEvent) (T, error) {
	var out T
	if err := json.Unmarshal(ev.Payload, &out); err != nil {
		return out, fmt.Errorf("events: decode %s: %w", ev.Topic, err)
	}
	return out, nil
}

func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	switch v := payload.(type) {
	case []byte:
		return rawJSON(v)
	case json.RawMessage:
		return rawJSON(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return []byte("{}"), nil
		}
		return rawJSON([]byte(v))
	default:
		return json.Marshal(v)
	}
}

func rawJSON(v []byte) ([]byte, error) {
	if len(v) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(v) {
		return nil, errors.New("payload is not valid json")
	}
	return append([]byte(nil), v...), nil
}
