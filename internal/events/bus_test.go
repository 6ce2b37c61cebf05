package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
)

type stubStore struct {
	lastParams dbgen.InsertDomainEventParams
	err        error
}

func (s *stubStore) InsertDomainEvent(_ context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error) {
	if s.err != nil {
		return dbgen.DomainEvent{}, s.err
	}
	s.lastParams = arg
	return dbgen.DomainEvent{
		ID:          toUUID(uuid.New()),
		Topic:       arg.Topic,
		AggregateID: arg.AggregateID,
		Payload:     arg.Payload,
		OccurredAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}, nil
}

type captureNotifier struct {
	events []dbgen.DomainEvent
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event dbgen.DomainEvent) error {
	c.events = append(c.events, event)
	return c.err
}

func toUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func TestRecordPersistsEncodedPayload(t *testing.T) {
	store := &stubStore{}
	orderID := uuid.New()

	ev, err := events.Record(context.Background(), store, events.TopicOrderCreated, toUUID(orderID), events.OrderCreated{
		OrderID:     orderID.String(),
		OrderNumber: "ORD-ABCDEFGH",
		Total:       14000,
	})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderCreated, store.lastParams.Topic)
	require.JSONEq(t, `{"order_id":"`+orderID.String()+`","order_number":"ORD-ABCDEFGH","customer_id":"","total":14000,"item_count":0,"product_ids":null,"created_at":"0001-01-01T00:00:00Z"}`, string(store.lastParams.Payload))

	decoded, err := events.Decode[events.OrderCreated](ev)
	require.NoError(t, err)
	require.Equal(t, "ORD-ABCDEFGH", decoded.OrderNumber)
	require.Equal(t, int64(14000), decoded.Total)
}

func TestRecordValidatesInput(t *testing.T) {
	store := &stubStore{}
	ctx := context.Background()

	_, err := events.Record(ctx, store, " ", toUUID(uuid.New()), nil)
	require.Error(t, err)

	_, err = events.Record(ctx, store, events.TopicOrderCreated, pgtype.UUID{}, nil)
	require.Error(t, err)

	_, err = events.Record(ctx, store, events.TopicOrderCreated, toUUID(uuid.New()), "not json")
	require.Error(t, err)

	_, err = events.Record(ctx, nil, events.TopicOrderCreated, toUUID(uuid.New()), nil)
	require.Error(t, err)
}

func TestRecordDefaultsEmptyPayload(t *testing.T) {
	store := &stubStore{}
	_, err := events.Record(context.Background(), store, events.TopicOrderDelivered, toUUID(uuid.New()), nil)
	require.NoError(t, err)
	require.Equal(t, "{}", string(store.lastParams.Payload))
}

func TestRecordPropagatesStoreError(t *testing.T) {
	boom := errors.New("insert failed")
	_, err := events.Record(context.Background(), &stubStore{err: boom}, events.TopicOrderCreated, toUUID(uuid.New()), nil)
	require.ErrorIs(t, err, boom)
}

func TestDispatchReachesEveryNotifier(t *testing.T) {
	failing := &captureNotifier{err: errors.New("queue down")}
	ok := &captureNotifier{}
	bus := &events.Bus{Log: zerolog.Nop()}
	bus.Subscribe(failing)
	bus.Subscribe(ok)
	bus.Subscribe(nil)

	evs := []dbgen.DomainEvent{
		{ID: toUUID(uuid.New()), Topic: events.TopicOrderCreated},
		{ID: toUUID(uuid.New()), Topic: events.TopicOrderDelivered},
	}
	err := bus.Dispatch(context.Background(), evs...)
	require.Error(t, err)
	require.Len(t, failing.events, 2)
	require.Len(t, ok.events, 2)
	require.Equal(t, events.TopicOrderDelivered, ok.events[1].Topic)
}

func TestDispatchNilBus(t *testing.T) {
	var bus *events.Bus
	require.NoError(t, bus.Dispatch(context.Background(), dbgen.DomainEvent{Topic: "x"}))
}
