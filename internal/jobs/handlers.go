package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/milestone"
	"github.com/richardprab/auroramart/internal/notify"
	"github.com/richardprab/auroramart/internal/obs"
)

type MilestoneEvaluator interface {
	Evaluate(ctx context.Context, customerID uuid.UUID) (milestone.Progress, []milestone.Reward, error)
}

type NotificationCreator interface {
	Create(ctx context.Context, in notify.Input) (notify.Notification, error)
}

// Handlers processes worker tasks.
type Handlers struct {
	Milestones    MilestoneEvaluator
	Notifications NotificationCreator
	Log           zerolog.Logger
}

// Register mounts every task handler on the mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.Use(h.observe)
	mux.HandleFunc(TypeMilestoneEvaluate, h.MilestoneEvaluate)
	mux.HandleFunc(TypeNotificationCreate, h.NotificationCreate)
}

func (h *Handlers) MilestoneEvaluate(ctx context.Context, t *asynq.Task) error {
	var p MilestonePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	customer, err := uuid.Parse(p.CustomerID)
	if err != nil {
		return fmt.Errorf("customer id %q: %w", p.CustomerID, asynq.SkipRetry)
	}
	progress, rewards, err := h.Milestones.Evaluate(ctx, customer)
	if err != nil {
		return err
	}
	h.Log.Info().
		Str("customer_id", customer.String()).
		Str("order_id", p.OrderID).
		Int64("lifetime_spend", int64(progress.CurrentAmount)).
		Int("rewards_issued", len(rewards)).
		Msg("milestones evaluated")
	return nil
}

func (h *Handlers) NotificationCreate(ctx context.Context, t *asynq.Task) error {
	var in notify.Input
	if err := json.Unmarshal(t.Payload(), &in); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	_, err := h.Notifications.Create(ctx, in)
	var appErr *common.AppError
	if errors.Is(err, notify.ErrInvalidKind) || errors.As(err, &appErr) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

func (h *Handlers) observe(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := next.ProcessTask(ctx, t)
		status := "ok"
		if err != nil {
			status = "error"
			h.Log.Warn().Err(err).Str("type", t.Type()).Dur("elapsed", time.Since(start)).Msg("task failed")
		}
		obs.IncJob(t.Type(), status)
		return err
	})
}
