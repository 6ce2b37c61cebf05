package events

import "time"

// Topic constants for domain events recorded in the outbox.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicOrderDelivered     = "order.delivered"
	TopicRewardIssued       = "milestone.reward_issued"
)

// DefaultTopics returns every topic the worker knows how to handle.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderStatusChanged,
		TopicOrderDelivered,
		TopicRewardIssued,
	}
}

type OrderCreated struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	Total       int64     `json:"total"`
	ItemCount   int       `json:"item_count"`
	VoucherCode string    `json:"voucher_code,omitempty"`
	ProductIDs  []string  `json:"product_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderStatusChanged struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedAt   time.Time `json:"changed_at"`
}

type OrderDelivered struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	Total       int64     `json:"total"`
	DeliveredAt time.Time `json:"delivered_at"`
}

type RewardIssued struct {
	CustomerID  string `json:"customer_id"`
	Tier        string `json:"tier"`
	Threshold   int64  `json:"threshold"`
	VoucherCode string `json:"voucher_code"`
	Amount      int64  `json:"amount"`
}
