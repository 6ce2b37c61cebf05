package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
)

// Store is the persistence surface of the order lifecycle.
type Store interface {
	dbgen.Querier
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// CacheInvalidator drops cached catalog documents whose stock changed.
type CacheInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs ...uuid.UUID) error
}

// Service serves order history and moves orders through their lifecycle.
type Service struct {
	Store   Store
	Events  *events.Bus
	Catalog CacheInvalidator
	Now     func() time.Time
	Log     zerolog.Logger
}

// Page is one page of a customer's order history.
type Page struct {
	Items []View            `json:"items"`
	Meta  common.Pagination `json:"pagination"`
}

// List returns the customer's orders, newest first, without items.
func (s *Service) List(ctx context.Context, customerID uuid.UUID, page, perPage int) (Page, error) {
	customer := common.PgUUID(customerID)
	total, err := s.Store.CountOrdersByCustomer(ctx, customer)
	if err != nil {
		return Page{}, err
	}
	rows, err := s.Store.ListOrdersByCustomer(ctx, dbgen.ListOrdersByCustomerParams{
		CustomerID: customer,
		Limit:      int32(perPage),
		Offset:     int32(common.Offset(page, perPage)),
	})
	if err != nil {
		return Page{}, err
	}
	out := Page{Items: make([]View, 0, len(rows)), Meta: common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)}}
	for _, o := range rows {
		out.Items = append(out.Items, NewView(o, nil))
	}
	return out, nil
}

// Get returns one of the customer's orders with its items.
func (s *Service) Get(ctx context.Context, customerID, orderID uuid.UUID) (View, error) {
	o, err := s.Store.GetOrderForCustomer(ctx, dbgen.GetOrderForCustomerParams{
		ID:         common.PgUUID(orderID),
		CustomerID: common.PgUUID(customerID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return View{}, err
	}
	items, err := s.Store.ListOrderItems(ctx, o.ID)
	if err != nil {
		return View{}, err
	}
	return NewView(o, items), nil
}

// Cancel lets a customer cancel a pending or paid order; stock is restored
// in the same transaction.
func (s *Service) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (View, error) {
	return s.transition(ctx, orderID, dbgen.OrderStatusCancelled, &customerID)
}

// SetStatus is the administrative transition entry point.
func (s *Service) SetStatus(ctx context.Context, orderID uuid.UUID, to dbgen.OrderStatus) (View, error) {
	return s.transition(ctx, orderID, to, nil)
}

func (s *Service) transition(ctx context.Context, orderID uuid.UUID, to dbgen.OrderStatus, owner *uuid.UUID) (View, error) {
	var (
		updated dbgen.Order
		items   []dbgen.OrderItem
		evs     []dbgen.DomainEvent
	)
	err := s.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
		current, err := q.LockOrder(ctx, common.PgUUID(orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
			}
			return err
		}
		if owner != nil && current.CustomerID != common.PgUUID(*owner) {
			return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		if err := checkTransition(current.Status, to); err != nil {
			return err
		}
		if updated, err = q.UpdateOrderStatus(ctx, dbgen.UpdateOrderStatusParams{Status: to, ID: current.ID}); err != nil {
			return err
		}
		if items, err = q.ListOrderItems(ctx, current.ID); err != nil {
			return err
		}
		if to == dbgen.OrderStatusCancelled {
			for _, it := range items {
				if err := q.IncrementVariantStock(ctx, dbgen.IncrementVariantStockParams{Quantity: it.Quantity, ID: it.VariantID}); err != nil {
					return err
				}
			}
		}
		evs, err = s.record(ctx, q, current, updated)
		return err
	})
	if err != nil {
		return View{}, err
	}
	s.Log.Info().
		Str("order_id", orderID.String()).
		Str("order_number", updated.OrderNumber).
		Str("status", string(to)).
		Msg("order status changed")
	if s.Events != nil {
		if err := s.Events.Dispatch(ctx, evs...); err != nil {
			s.Log.Warn().Err(err).Str("order_id", orderID.String()).Msg("order event dispatch failed")
		}
	}
	if to == dbgen.OrderStatusCancelled && s.Catalog != nil {
		if products := restocked(items); len(products) > 0 {
			if err := s.Catalog.InvalidateProducts(ctx, products...); err != nil {
				s.Log.Warn().Err(err).Str("order_id", orderID.String()).Msg("catalog invalidation failed")
			}
		}
	}
	return NewView(updated, items), nil
}

func restocked(items []dbgen.OrderItem) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.ProductID.Valid {
			out = append(out, uuid.UUID(it.ProductID.Bytes))
		}
	}
	return out
}

func (s *Service) record(ctx context.Context, q dbgen.Querier, before, after dbgen.Order) ([]dbgen.DomainEvent, error) {
	now := s.now()
	changed, err := events.Record(ctx, q, events.TopicOrderStatusChanged, after.ID, events.OrderStatusChanged{
		OrderID:     common.UUIDString(after.ID),
		OrderNumber: after.OrderNumber,
		CustomerID:  common.UUIDString(after.CustomerID),
		From:        string(before.Status),
		To:          string(after.Status),
		ChangedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	evs := []dbgen.DomainEvent{changed}
	if after.Status == dbgen.OrderStatusDelivered {
		delivered, err := events.Record(ctx, q, events.TopicOrderDelivered, after.ID, events.OrderDelivered{
			OrderID:     common.UUIDString(after.ID),
			CustomerID:  common.UUIDString(after.CustomerID),
			Total:       after.Total,
			DeliveredAt: now,
		})
		if err != nil {
			return nil, err
		}
		evs = append(evs, delivered)
	}
	return evs, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
