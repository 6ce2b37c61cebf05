package order

import (
	"errors"
	"fmt"

	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

var (
	// ErrNotFound is returned when the order does not exist for the caller.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned for status changes the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

var transitions = map[dbgen.OrderStatus][]dbgen.OrderStatus{
	dbgen.OrderStatusPending:   {dbgen.OrderStatusPaid, dbgen.OrderStatusCancelled},
	dbgen.OrderStatusPaid:      {dbgen.OrderStatusShipped, dbgen.OrderStatusCancelled, dbgen.OrderStatusRefunded},
	dbgen.OrderStatusShipped:   {dbgen.OrderStatusDelivered},
	dbgen.OrderStatusDelivered: {dbgen.OrderStatusRefunded},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to dbgen.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a client-supplied status.
func ParseStatus(s string) (dbgen.OrderStatus, error) {
	switch st := dbgen.OrderStatus(s); st {
	case dbgen.OrderStatusPending, dbgen.OrderStatusPaid, dbgen.OrderStatusShipped,
		dbgen.OrderStatusDelivered, dbgen.OrderStatusCancelled, dbgen.OrderStatusRefunded:
		return st, nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidTransition)
}

func checkTransition(from, to dbgen.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
