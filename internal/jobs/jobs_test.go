package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/milestone"
	"github.com/richardprab/auroramart/internal/notify"
)

type enqueued struct {
	task *asynq.Task
	opts []asynq.Option
}

type fakeClient struct {
	calls  []enqueued
	unique map[string]bool
	ids    map[string]bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{unique: map[string]bool{}, ids: map[string]bool{}}
}

func (c *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	for _, o := range opts {
		switch o.Type() {
		case asynq.UniqueOpt:
			key := task.Type() + string(task.Payload())
			if c.unique[key] {
				return nil, asynq.ErrDuplicateTask
			}
			c.unique[key] = true
		case asynq.TaskIDOpt:
			id := o.Value().(string)
			if c.ids[id] {
				return nil, asynq.ErrTaskIDConflict
			}
			c.ids[id] = true
		}
	}
	c.calls = append(c.calls, enqueued{task: task, opts: opts})
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func event(t *testing.T, topic string, payload any) dbgen.DomainEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return dbgen.DomainEvent{ID: common.PgUUID(uuid.New()), Topic: topic, Payload: raw}
}

func hasOption(opts []asynq.Option, typ asynq.OptionType) bool {
	for _, o := range opts {
		if o.Type() == typ {
			return true
		}
	}
	return false
}

func TestDeliveredOrderSchedulesEvaluationPerOrder(t *testing.T) {
	client := newFakeClient()
	enq := &Enqueuer{Client: client, Queue: "default", Log: zerolog.Nop()}
	customer := uuid.New()
	first, second := uuid.New(), uuid.New()
	ctx := context.Background()

	delivered := func(order uuid.UUID) dbgen.DomainEvent {
		return event(t, events.TopicOrderDelivered, events.OrderDelivered{
			OrderID: order.String(), CustomerID: customer.String(), Total: 12_000, DeliveredAt: time.Now(),
		})
	}
	require.NoError(t, enq.Notify(ctx, delivered(first)))
	// outbox redelivery of the same order
	require.NoError(t, enq.Notify(ctx, delivered(first)))
	// a second delivery while the first evaluation may still be running
	require.NoError(t, enq.Notify(ctx, delivered(second)))

	require.Len(t, client.calls, 2)
	call := client.calls[0]
	require.Equal(t, TypeMilestoneEvaluate, call.task.Type())
	require.JSONEq(t, `{"customer_id":"`+customer.String()+`","order_id":"`+first.String()+`"}`, string(call.task.Payload()))
	require.True(t, hasOption(call.opts, asynq.TaskIDOpt))
	require.False(t, hasOption(call.opts, asynq.UniqueOpt))
	require.True(t, hasOption(call.opts, asynq.QueueOpt))
	require.True(t, hasOption(call.opts, asynq.MaxRetryOpt))
	require.True(t, client.ids["milestone:"+first.String()])
	require.True(t, client.ids["milestone:"+second.String()])
}

func TestStatusChangeSchedulesNotificationOnce(t *testing.T) {
	client := newFakeClient()
	enq := &Enqueuer{Client: client, Log: zerolog.Nop()}
	customer := uuid.New()
	ev := event(t, events.TopicOrderStatusChanged, events.OrderStatusChanged{
		OrderID: uuid.NewString(), OrderNumber: "ORD-00000001", CustomerID: customer.String(), From: "pending", To: "paid",
	})

	require.NoError(t, enq.Notify(context.Background(), ev))
	require.NoError(t, enq.Notify(context.Background(), ev))
	require.Len(t, client.calls, 1)

	var in notify.Input
	require.NoError(t, json.Unmarshal(client.calls[0].task.Payload(), &in))
	require.Equal(t, customer, in.CustomerID)
	require.Equal(t, "Order ORD-00000001 is now paid.", in.Message)
	require.True(t, hasOption(client.calls[0].opts, asynq.TaskIDOpt))
}

func TestUnhandledTopicIsIgnored(t *testing.T) {
	client := newFakeClient()
	enq := &Enqueuer{Client: client}
	require.NoError(t, enq.Notify(context.Background(), dbgen.DomainEvent{Topic: "catalog.reindexed", Payload: []byte(`{}`)}))
	require.Empty(t, client.calls)

	var nilEnq *Enqueuer
	require.NoError(t, nilEnq.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicOrderDelivered}))
}

func TestMalformedDeliveredEvent(t *testing.T) {
	enq := &Enqueuer{Client: newFakeClient()}
	err := enq.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicOrderDelivered, Payload: []byte(`{"customer_id":"nope"}`)})
	require.Error(t, err)

	customer := uuid.NewString()
	err = enq.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicOrderDelivered, Payload: []byte(`{"customer_id":"` + customer + `"}`)})
	require.Error(t, err)
}

type evaluator struct {
	calls []uuid.UUID
	err   error
}

func (e *evaluator) Evaluate(_ context.Context, customerID uuid.UUID) (milestone.Progress, []milestone.Reward, error) {
	e.calls = append(e.calls, customerID)
	return milestone.Progress{CurrentAmount: 47_500}, nil, e.err
}

type creator struct {
	inputs []notify.Input
	err    error
}

func (c *creator) Create(_ context.Context, in notify.Input) (notify.Notification, error) {
	c.inputs = append(c.inputs, in)
	return notify.Notification{Message: in.Message}, c.err
}

func TestMilestoneHandler(t *testing.T) {
	ev := &evaluator{}
	h := &Handlers{Milestones: ev, Log: zerolog.Nop()}
	customer := uuid.New()

	task, err := NewMilestoneTask(customer, uuid.New())
	require.NoError(t, err)
	require.NoError(t, h.MilestoneEvaluate(context.Background(), task))
	require.Equal(t, []uuid.UUID{customer}, ev.calls)

	ev.err = errors.New("db down")
	err = h.MilestoneEvaluate(context.Background(), task)
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry))

	err = h.MilestoneEvaluate(context.Background(), asynq.NewTask(TypeMilestoneEvaluate, []byte(`{"customer_id":"x"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNotificationHandler(t *testing.T) {
	c := &creator{}
	h := &Handlers{Notifications: c, Log: zerolog.Nop()}
	in := notify.Input{CustomerID: uuid.New(), Kind: "order", Message: "Order ORD-1 has been placed.", Link: "/orders/1"}

	task, err := NewNotificationTask(in)
	require.NoError(t, err)
	require.NoError(t, h.NotificationCreate(context.Background(), task))
	require.Equal(t, []notify.Input{in}, c.inputs)

	c.err = notify.ErrInvalidKind
	require.ErrorIs(t, h.NotificationCreate(context.Background(), task), asynq.SkipRetry)

	require.ErrorIs(t, h.NotificationCreate(context.Background(), asynq.NewTask(TypeNotificationCreate, []byte(`not json`))), asynq.SkipRetry)
}

func TestRegisterRoutesTasks(t *testing.T) {
	ev := &evaluator{}
	h := &Handlers{Milestones: ev, Notifications: &creator{}, Log: zerolog.Nop()}
	mux := asynq.NewServeMux()
	h.Register(mux)

	task, err := NewMilestoneTask(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	require.Len(t, ev.calls, 1)
}
