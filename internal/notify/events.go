package notify

import (
	"fmt"

	"github.com/google/uuid"

	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
)

// FromEvent maps a committed domain event to the customer notification it
// produces. The bool is false for events that do not notify anyone.
func FromEvent(ev dbgen.DomainEvent) (Input, bool, error) {
	switch ev.Topic {
	case events.TopicOrderCreated:
		p, err := events.Decode[events.OrderCreated](ev)
		if err != nil {
			return Input{}, false, err
		}
		return orderInput(p.CustomerID, p.OrderID, fmt.Sprintf("Order %s has been placed. Total %s.", p.OrderNumber, formatMoney(p.Total)))
	case events.TopicOrderStatusChanged:
		p, err := events.Decode[events.OrderStatusChanged](ev)
		if err != nil {
			return Input{}, false, err
		}
		return orderInput(p.CustomerID, p.OrderID, fmt.Sprintf("Order %s is now %s.", p.OrderNumber, p.To))
	case events.TopicRewardIssued:
		p, err := events.Decode[events.RewardIssued](ev)
		if err != nil {
			return Input{}, false, err
		}
		customer, err := uuid.Parse(p.CustomerID)
		if err != nil {
			return Input{}, false, fmt.Errorf("reward customer: %w", err)
		}
		return Input{
			CustomerID: customer,
			Kind:       string(dbgen.NotificationKindReward),
			Message:    fmt.Sprintf("You reached the %s tier! Voucher %s takes %s off your next order.", p.Tier, p.VoucherCode, formatMoney(p.Amount)),
			Link:       "/me/milestones",
		}, true, nil
	}
	return Input{}, false, nil
}

func orderInput(customerID, orderID, msg string) (Input, bool, error) {
	customer, err := uuid.Parse(customerID)
	if err != nil {
		return Input{}, false, fmt.Errorf("order customer: %w", err)
	}
	return Input{
		CustomerID: customer,
		Kind:       string(dbgen.NotificationKindOrder),
		Message:    msg,
		Link:       "/orders/" + orderID,
	}, true, nil
}

func formatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
