package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/notify"
)

const defaultMaxRetry = 5

// TaskClient is the subset of *asynq.Client used to enqueue.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer turns committed events into worker tasks. It is registered on the
// events bus after every transaction that records events.
type Enqueuer struct {
	Client   TaskClient
	Queue    string
	MaxRetry int
	Log      zerolog.Logger
}

// Notify implements events.Notifier.
func (e *Enqueuer) Notify(ctx context.Context, ev dbgen.DomainEvent) error {
	if e == nil || e.Client == nil {
		return nil
	}
	if ev.Topic == events.TopicOrderDelivered {
		p, err := events.Decode[events.OrderDelivered](ev)
		if err != nil {
			return err
		}
		customer, err := uuid.Parse(p.CustomerID)
		if err != nil {
			return fmt.Errorf("jobs: delivered customer: %w", err)
		}
		orderID, err := uuid.Parse(p.OrderID)
		if err != nil {
			return fmt.Errorf("jobs: delivered order: %w", err)
		}
		return e.EnqueueMilestone(ctx, customer, orderID)
	}
	in, ok, err := notify.FromEvent(ev)
	if err != nil || !ok {
		return err
	}
	task, err := NewNotificationTask(in)
	if err != nil {
		return err
	}
	// one notification per outbox row even when dispatch is retried
	_, err = e.Client.EnqueueContext(ctx, task, e.opts(asynq.TaskID("notify:"+common.UUIDString(ev.ID)))...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", TypeNotificationCreate, err)
	}
	return nil
}

// EnqueueMilestone schedules a milestone evaluation for a delivered order.
// Each order gets its own task, so a delivery that lands while an earlier
// evaluation for the same customer is running is still counted; redelivery of
// the same order event is dropped.
func (e *Enqueuer) EnqueueMilestone(ctx context.Context, customerID, orderID uuid.UUID) error {
	task, err := NewMilestoneTask(customerID, orderID)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task, e.opts(asynq.TaskID("milestone:"+orderID.String()))...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		e.Log.Debug().Str("customer_id", customerID.String()).Str("order_id", orderID.String()).Msg("milestone evaluation already queued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", TypeMilestoneEvaluate, err)
	}
	return nil
}

func (e *Enqueuer) opts(extra ...asynq.Option) []asynq.Option {
	retry := e.MaxRetry
	if retry <= 0 {
		retry = defaultMaxRetry
	}
	opts := []asynq.Option{asynq.MaxRetry(retry)}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	return append(opts, extra...)
}
