package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/cart"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/order"
	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
)

var (
	// ErrTransactionConflict is returned when the checkout transaction lost a
	// race (serialization failure, deadlock, lock or statement timeout). Retryable.
	ErrTransactionConflict = errors.New("checkout transaction conflict")
	// ErrAddressNotFound is returned when the address is not in the customer's book.
	ErrAddressNotFound = errors.New("address not found")
)

// Store runs the checkout inside one transaction.
type Store interface {
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// CacheInvalidator drops cached catalog documents whose stock changed.
type CacheInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs ...uuid.UUID) error
}

type Input struct {
	CustomerID    uuid.UUID `json:"-"`
	AddressID     string    `json:"address_id" validate:"required,uuid"`
	PaymentMethod string    `json:"payment_method" validate:"required,max=50"`
	Notes         string    `json:"notes" validate:"max=1000"`
	ContactNumber string    `json:"contact_number" validate:"omitempty,max=32"`
}

// Service materializes a cart into an order.
type Service struct {
	Store       Store
	Vouchers    *voucher.Service
	Agg         cart.Aggregator
	Events      *events.Bus
	Catalog     CacheInvalidator
	TxTimeout   time.Duration
	LockTimeout time.Duration
	Now         func() time.Time
	Log         zerolog.Logger
}

type committed struct {
	order    dbgen.Order
	items    []dbgen.OrderItem
	event    dbgen.DomainEvent
	products []uuid.UUID
}

// CreateOrder converts the customer's cart into a pending order. Either every
// effect commits (order, items, stock decrements, voucher use, outbox event,
// cleared cart) or none does and the cart is left intact.
func (s *Service) CreateOrder(ctx context.Context, in Input) (order.View, error) {
	if s == nil || s.Store == nil || s.Vouchers == nil {
		return order.View{}, errors.New("checkout service not configured")
	}
	if in.CustomerID == uuid.Nil {
		return order.View{}, common.Unauthorized()
	}
	addressID, err := uuid.Parse(strings.TrimSpace(in.AddressID))
	if err != nil {
		return order.View{}, fmt.Errorf("address %q: %w", in.AddressID, ErrAddressNotFound)
	}

	start := time.Now()
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout())
	defer cancel()

	var out committed
	err = s.Store.InTx(txCtx, db.TxOptions{
		TxOptions:   pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		LockTimeout: s.lockTimeout(),
	}, func(q dbgen.Querier) error {
		var err error
		out, err = s.materialize(txCtx, q, in, addressID)
		return err
	})
	if err != nil {
		err = s.classify(txCtx, err)
		obs.ObserveCheckout(outcome(err), time.Since(start))
		s.Log.Info().Err(err).Str("customer_id", in.CustomerID.String()).Str("result", outcome(err)).Msg("checkout rejected")
		return order.View{}, err
	}
	obs.ObserveCheckout("success", time.Since(start))
	s.Log.Info().
		Str("order_id", common.UUIDString(out.order.ID)).
		Str("order_number", out.order.OrderNumber).
		Str("customer_id", in.CustomerID.String()).
		Int64("total", out.order.Total).
		Msg("order created")

	if s.Events != nil {
		if err := s.Events.Dispatch(ctx, out.event); err != nil {
			s.Log.Warn().Err(err).Str("order_id", common.UUIDString(out.order.ID)).Msg("order event dispatch failed")
		}
	}
	if s.Catalog != nil && len(out.products) > 0 {
		if err := s.Catalog.InvalidateProducts(ctx, out.products...); err != nil {
			s.Log.Warn().Err(err).Msg("catalog invalidation failed")
		}
	}
	return order.NewView(out.order, out.items), nil
}

func (s *Service) materialize(ctx context.Context, q dbgen.Querier, in Input, addressID uuid.UUID) (committed, error) {
	customer := common.PgUUID(in.CustomerID)
	c, err := q.GetCartByCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return committed{}, cart.ErrEmptyCart
		}
		return committed{}, err
	}
	if c, err = q.LockCart(ctx, c.ID); err != nil {
		return committed{}, err
	}
	rows, err := q.ListCartLinesForUpdate(ctx, c.ID)
	if err != nil {
		return committed{}, err
	}
	if len(rows) == 0 {
		return committed{}, cart.ErrEmptyCart
	}

	lines := make([]cart.Line, 0, len(rows))
	var shortages []cart.Shortage
	for _, row := range rows {
		active := row.VariantActive && row.ProductActive
		if !active || row.Stock < row.Quantity {
			available := int(row.Stock)
			if !active {
				available = 0
			}
			shortages = append(shortages, cart.Shortage{
				VariantID: common.UUIDString(row.VariantID),
				SKU:       row.Sku,
				Requested: int(row.Quantity),
				Available: available,
			})
			continue
		}
		l := cart.NewLine(row.VariantID, row.Quantity, row.Price, row.ComparePrice, row.Stock, active)
		lines = append(lines, l.ForProduct(row.ProductID, row.CategoryID))
	}
	if len(shortages) > 0 {
		return committed{}, &cart.StockError{Lines: shortages}
	}

	now := s.now()
	vouchers := s.Vouchers.WithQuerier(q)
	var rule *voucher.Rule
	if c.VoucherCode.Valid {
		r, err := vouchers.RuleFor(ctx, c.VoucherCode.String, in.CustomerID)
		if err != nil {
			return committed{}, err
		}
		rule = &r
	}
	// prices are evaluated against the locked stock, never a previous preview
	totals, err := s.Agg.ComputeTotals(lines, rule, now)
	if err != nil {
		if errors.Is(err, cart.ErrInvariant) {
			s.Log.Error().Err(err).Str("cart_id", common.UUIDString(c.ID)).Str("invariant", "order_total").Msg("checkout pricing invariant violated")
		}
		return committed{}, err
	}
	if rule != nil {
		if err := vouchers.Claim(ctx, rule.ID); err != nil {
			return committed{}, err
		}
	}

	products := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		n, err := q.DecrementVariantStock(ctx, dbgen.DecrementVariantStockParams{Quantity: row.Quantity, ID: row.VariantID})
		if err != nil {
			return committed{}, err
		}
		if n == 0 {
			return committed{}, &cart.StockError{Lines: []cart.Shortage{{
				VariantID: common.UUIDString(row.VariantID),
				SKU:       row.Sku,
				Requested: int(row.Quantity),
			}}}
		}
		products = append(products, uuid.UUID(row.ProductID.Bytes))
	}

	addr, err := q.GetAddress(ctx, dbgen.GetAddressParams{ID: common.PgUUID(addressID), CustomerID: customer})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return committed{}, fmt.Errorf("address %s: %w", addressID, ErrAddressNotFound)
		}
		return committed{}, err
	}
	snapshot, err := json.Marshal(order.SnapshotOf(addr))
	if err != nil {
		return committed{}, err
	}
	contact := strings.TrimSpace(in.ContactNumber)
	if contact == "" {
		contact = addr.Phone
	}

	params := dbgen.CreateOrderParams{
		OrderNumber:     order.NewNumber(),
		CustomerID:      customer,
		AddressID:       addr.ID,
		DeliveryAddress: snapshot,
		Status:          dbgen.OrderStatusPending,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		ContactNumber:   contact,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		CustomerNotes:   strings.TrimSpace(in.Notes),
	}
	if rule != nil {
		params.VoucherID = common.PgUUID(rule.ID)
		params.VoucherCode = common.Text(rule.Code)
	}
	created, err := q.CreateOrder(ctx, params)
	if err != nil {
		return committed{}, err
	}

	items := make([]dbgen.OrderItem, 0, len(rows))
	for i, row := range rows {
		unit := s.Agg.Pricing.EffectivePrice(lines[i].Variant)
		item := dbgen.CreateOrderItemParams{
			OrderID:     created.ID,
			VariantID:   row.VariantID,
			ProductID:   row.ProductID,
			ProductName: itemName(row),
			Sku:         row.Sku,
			Quantity:    row.Quantity,
			UnitPrice:   unit,
			LineTotal:   pricing.LineTotal(unit, int(row.Quantity)),
		}
		if err := q.CreateOrderItem(ctx, item); err != nil {
			return committed{}, err
		}
		items = append(items, dbgen.OrderItem{
			OrderID:     item.OrderID,
			VariantID:   item.VariantID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Sku:         item.Sku,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	if rule != nil {
		saved := totals.Discount
		if rule.WaivesShipping() {
			saved = s.Agg.Fees.Shipping(totals.Subtotal)
		}
		if err := vouchers.RecordUsage(ctx, rule.ID, in.CustomerID, uuid.UUID(created.ID.Bytes), saved); err != nil {
			return committed{}, err
		}
	}

	productIDs := make([]string, 0, len(products))
	for _, id := range products {
		productIDs = append(productIDs, id.String())
	}
	ev, err := events.Record(ctx, q, events.TopicOrderCreated, created.ID, events.OrderCreated{
		OrderID:     common.UUIDString(created.ID),
		OrderNumber: created.OrderNumber,
		CustomerID:  in.CustomerID.String(),
		Total:       created.Total,
		ItemCount:   len(items),
		VoucherCode: c.VoucherCode.String,
		ProductIDs:  productIDs,
		CreatedAt:   now,
	})
	if err != nil {
		return committed{}, err
	}

	if err := q.ClearCartItems(ctx, c.ID); err != nil {
		return committed{}, err
	}
	if err := q.SetCartVoucher(ctx, dbgen.SetCartVoucherParams{ID: c.ID}); err != nil {
		return committed{}, err
	}
	return committed{order: created, items: items, event: ev, products: products}, nil
}

// classify folds retryable database failures into ErrTransactionConflict.
func (s *Service) classify(ctx context.Context, err error) error {
	if db.IsConflict(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTransactionConflict, err)
	}
	if db.IsUniqueViolation(err, "orders_order_number_key") {
		return fmt.Errorf("%w: order number collision", ErrTransactionConflict)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, cart.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, cart.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, voucher.ErrInvalidVoucher):
		return "invalid_voucher"
	case errors.Is(err, ErrTransactionConflict):
		return "conflict"
	case errors.Is(err, ErrAddressNotFound):
		return "invalid_address"
	default:
		return "error"
	}
}

func itemName(row dbgen.ListCartLinesForUpdateRow) string {
	if row.VariantName == "" || row.VariantName == row.ProductName {
		return row.ProductName
	}
	return row.ProductName + " - " + row.VariantName
}

func (s *Service) txTimeout() time.Duration {
	if s.TxTimeout <= 0 {
		return 5 * time.Second
	}
	return s.TxTimeout
}

func (s *Service) lockTimeout() time.Duration {
	if s.LockTimeout <= 0 {
		return 2 * time.Second
	}
	return s.LockTimeout
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
