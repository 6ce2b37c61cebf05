// Package jobs defines the background tasks the worker runs and the notifier
// that enqueues them from committed domain events.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/richardprab/auroramart/internal/notify"
)

const (
	TypeMilestoneEvaluate  = "milestone:evaluate"
	TypeNotificationCreate = "notification:create"
)

// MilestonePayload names the customer to evaluate and the delivered order
// that triggered it.
type MilestonePayload struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id,omitempty"`
}

func NewMilestoneTask(customerID, orderID uuid.UUID, opts ...asynq.Option) (*asynq.Task, error) {
	p := MilestonePayload{CustomerID: customerID.String()}
	if orderID != uuid.Nil {
		p.OrderID = orderID.String()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode milestone payload: %w", err)
	}
	return asynq.NewTask(TypeMilestoneEvaluate, raw, opts...), nil
}

func NewNotificationTask(in notify.Input, opts ...asynq.Option) (*asynq.Task, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode notification payload: %w", err)
	}
	return asynq.NewTask(TypeNotificationCreate, raw, opts...), nil
}
