package cart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
)

// Store runs cart queries, optionally inside one transaction.
type Store interface {
	dbgen.Querier
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// Service encapsulates cart domain operations. Every mutation locks the cart
// row first so concurrent requests on one cart are serialized.
type Service struct {
	Store      Store
	Vouchers   *voucher.Service
	Agg        Aggregator
	TTL        time.Duration
	MaxLineQty int
	Currency   string
	Now        func() time.Time
	Log        zerolog.Logger
}

// LineView is a cart line priced at its live effective price.
type LineView struct {
	ID          string        `json:"id"`
	VariantID   string        `json:"variant_id"`
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	ProductSlug string        `json:"product_slug"`
	SKU         string        `json:"sku"`
	VariantName string        `json:"variant_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   pricing.Money `json:"unit_price"`
	BasePrice   pricing.Money `json:"base_price"`
	PriceRule   pricing.Rule  `json:"price_rule"`
	LineTotal   pricing.Money `json:"line_total"`
	Stock       int           `json:"stock"`
	Available   bool          `json:"available"`
}

// View is the priced cart returned to clients.
type View struct {
	ID           string     `json:"id"`
	VoucherCode  *string    `json:"voucher_code"`
	VoucherError string     `json:"voucher_error,omitempty"`
	Lines        []LineView `json:"lines"`
	Totals       Totals     `json:"totals"`
	Currency     string     `json:"currency"`
}

// NewLine builds an aggregator line from stored variant columns.
func NewLine(variantID pgtype.UUID, qty int32, price int64, compare pgtype.Int8, stock int32, active bool) Line {
	return Line{
		VariantID: uuid.UUID(variantID.Bytes),
		Quantity:  int(qty),
		Variant: pricing.Variant{
			BasePrice:    price,
			ComparePrice: common.Int8Ptr(compare),
			Stock:        int(stock),
			IsActive:     active,
		},
	}
}

// ForProduct tags the line with the product and category that voucher restrictions match on.
func (l Line) ForProduct(productID, categoryID pgtype.UUID) Line {
	l.ProductID = uuid.UUID(productID.Bytes)
	if categoryID.Valid {
		l.CategoryID = uuid.UUID(categoryID.Bytes)
	}
	return l
}

// Resolve loads or creates the cart for the owner.
func (s *Service) Resolve(ctx context.Context, owner Owner) (dbgen.Cart, error) {
	if s == nil || s.Store == nil {
		return dbgen.Cart{}, errors.New("cart service not configured")
	}
	if !owner.Valid() {
		return dbgen.Cart{}, ErrNoOwner
	}
	cart, err := s.lookup(ctx, s.Store, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.Cart{}, err
	}
	params := dbgen.CreateCartParams{ExpiresAt: common.Timestamptz(s.now().Add(s.ttl()))}
	if owner.IsCustomer() {
		params.CustomerID = common.PgUUID(owner.CustomerID)
	} else {
		params.SessionKey = common.Text(owner.SessionKey)
	}
	cart, err = s.Store.CreateCart(ctx, params)
	if errors.Is(err, pgx.ErrNoRows) {
		// lost the creation race; the winner's row is visible now
		return s.lookup(ctx, s.Store, owner)
	}
	return cart, err
}

// AddItem inserts a line or increments the existing line for the variant.
func (s *Service) AddItem(ctx context.Context, owner Owner, variantID uuid.UUID, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity %d: %w", qty, ErrInvalidQuantity)
	}
	return s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		variant, err := q.GetVariant(ctx, common.PgUUID(variantID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("variant %s: %w", variantID, ErrVariantNotFound)
			}
			return err
		}
		existing, err := q.GetCartItemByVariant(ctx, dbgen.GetCartItemByVariantParams{CartID: cart.ID, VariantID: variant.ID})
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		found := err == nil
		want := qty
		if found {
			want += int(existing.Quantity)
		}
		if want > s.maxLineQty() {
			return fmt.Errorf("quantity %d above %d: %w", want, s.maxLineQty(), ErrInvalidQuantity)
		}
		if err := checkAvailability(variant, want); err != nil {
			return err
		}
		if found {
			_, err = q.UpdateCartItemQuantity(ctx, dbgen.UpdateCartItemQuantityParams{ID: existing.ID, Quantity: int32(want)})
			return err
		}
		_, err = q.InsertCartItem(ctx, dbgen.InsertCartItemParams{CartID: cart.ID, VariantID: variant.ID, Quantity: int32(want)})
		return err
	})
}

// UpdateQuantity sets a line's quantity; zero removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, qty int) error {
	if qty == 0 {
		return s.RemoveItem(ctx, owner, itemID)
	}
	if qty < 0 || qty > s.maxLineQty() {
		return fmt.Errorf("quantity %d: %w", qty, ErrInvalidQuantity)
	}
	return s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		item, err := q.GetCartItem(ctx, dbgen.GetCartItemParams{ID: common.PgUUID(itemID), CartID: cart.ID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
			}
			return err
		}
		variant, err := q.GetVariant(ctx, item.VariantID)
		if err != nil {
			return err
		}
		if err := checkAvailability(variant, qty); err != nil {
			return err
		}
		_, err = q.UpdateCartItemQuantity(ctx, dbgen.UpdateCartItemQuantityParams{ID: item.ID, Quantity: int32(qty)})
		return err
	})
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) error {
	return s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		rows, err := q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: common.PgUUID(itemID), CartID: cart.ID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil
	})
}

// Clear removes every line and the applied voucher.
func (s *Service) Clear(ctx context.Context, owner Owner) error {
	return s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		if err := q.ClearCartItems(ctx, cart.ID); err != nil {
			return err
		}
		return q.SetCartVoucher(ctx, dbgen.SetCartVoucherParams{ID: cart.ID})
	})
}

// ApplyVoucher validates code against the current cart and attaches it.
// Validation never consumes a use.
func (s *Service) ApplyVoucher(ctx context.Context, owner Owner, code string) (voucher.PreviewResult, error) {
	if s == nil || s.Vouchers == nil {
		return voucher.PreviewResult{}, errors.New("cart service not configured")
	}
	var out voucher.PreviewResult
	err := s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		rows, err := q.ListCartLines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrEmptyCart
		}
		items, err := s.Agg.Items(linesFromRows(rows))
		if err != nil {
			return err
		}
		rule, discount, err := s.Vouchers.WithQuerier(q).EvaluateItems(ctx, code, owner.CustomerID, items)
		if err != nil {
			return err
		}
		if err := q.SetCartVoucher(ctx, dbgen.SetCartVoucherParams{ID: cart.ID, VoucherCode: common.Text(rule.Code)}); err != nil {
			return err
		}
		var subtotal pricing.Money
		for _, it := range items {
			subtotal += it.Amount
		}
		out = voucher.PreviewResult{Code: rule.Code, Subtotal: subtotal, Discount: discount, FreeShipping: rule.WaivesShipping()}
		return nil
	})
	return out, err
}

// RemoveVoucher detaches the applied voucher.
func (s *Service) RemoveVoucher(ctx context.Context, owner Owner) error {
	return s.mutate(ctx, owner, func(q dbgen.Querier, cart dbgen.Cart) error {
		return q.SetCartVoucher(ctx, dbgen.SetCartVoucherParams{ID: cart.ID})
	})
}

// Merge folds the guest cart identified by sessionKey into the customer's cart.
// Shared variants keep the larger quantity; the guest cart is removed.
func (s *Service) Merge(ctx context.Context, sessionKey string, customerID uuid.UUID) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	if customerID == uuid.Nil {
		return ErrNoOwner
	}
	session := common.Text(sessionKey)
	if !session.Valid {
		return nil
	}
	return s.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
		guest, err := q.GetCartBySession(ctx, session)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		target, err := q.GetCartByCustomer(ctx, common.PgUUID(customerID))
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := q.LockCart(ctx, guest.ID); err != nil {
				return err
			}
			return q.AssignCartCustomer(ctx, dbgen.AssignCartCustomerParams{ID: guest.ID, CustomerID: common.PgUUID(customerID)})
		}
		if err != nil {
			return err
		}
		if err := lockInOrder(ctx, q, guest.ID, target.ID); err != nil {
			return err
		}
		rows, err := q.ListCartLines(ctx, guest.ID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			qty := int32(min(int(row.Quantity), s.maxLineQty()))
			existing, err := q.GetCartItemByVariant(ctx, dbgen.GetCartItemByVariantParams{CartID: target.ID, VariantID: row.VariantID})
			switch {
			case err == nil:
				if existing.Quantity >= qty {
					continue
				}
				if _, err := q.UpdateCartItemQuantity(ctx, dbgen.UpdateCartItemQuantityParams{ID: existing.ID, Quantity: qty}); err != nil {
					return err
				}
			case errors.Is(err, pgx.ErrNoRows):
				if _, err := q.InsertCartItem(ctx, dbgen.InsertCartItemParams{CartID: target.ID, VariantID: row.VariantID, Quantity: qty}); err != nil {
					return err
				}
			default:
				return err
			}
		}
		if !target.VoucherCode.Valid && guest.VoucherCode.Valid {
			if err := q.SetCartVoucher(ctx, dbgen.SetCartVoucherParams{ID: target.ID, VoucherCode: guest.VoucherCode}); err != nil {
				return err
			}
		}
		s.Log.Info().Str("customer_id", customerID.String()).Int("lines", len(rows)).Msg("guest cart merged")
		return q.DeleteCart(ctx, guest.ID)
	})
}

// View prices the cart with live effective prices. An applied voucher that no
// longer validates is reported and the cart is priced without it.
func (s *Service) View(ctx context.Context, owner Owner) (View, error) {
	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return View{}, err
	}
	rows, err := s.Store.ListCartLines(ctx, cart.ID)
	if err != nil {
		return View{}, err
	}
	now := s.now()
	view := View{
		ID:          common.UUIDString(cart.ID),
		VoucherCode: common.TextPtr(cart.VoucherCode),
		Lines:       make([]LineView, 0, len(rows)),
		Currency:    s.Currency,
	}
	for _, row := range rows {
		l := NewLine(row.VariantID, row.Quantity, row.Price, row.ComparePrice, row.Stock, row.VariantActive && row.ProductActive)
		quote := s.Agg.Pricing.Explain(l.Variant)
		view.Lines = append(view.Lines, LineView{
			ID:          common.UUIDString(row.ID),
			VariantID:   common.UUIDString(row.VariantID),
			ProductID:   common.UUIDString(row.ProductID),
			ProductName: row.ProductName,
			ProductSlug: row.ProductSlug,
			SKU:         row.Sku,
			VariantName: row.VariantName,
			Quantity:    l.Quantity,
			UnitPrice:   quote.Price,
			BasePrice:   quote.Base,
			PriceRule:   quote.Rule,
			LineTotal:   pricing.LineTotal(quote.Price, l.Quantity),
			Stock:       l.Variant.Stock,
			Available:   l.Variant.IsActive && l.Variant.Stock >= l.Quantity,
		})
	}
	lines := linesFromRows(rows)

	var rule *voucher.Rule
	if cart.VoucherCode.Valid && s.Vouchers != nil {
		r, err := s.Vouchers.RuleFor(ctx, cart.VoucherCode.String, owner.CustomerID)
		switch {
		case err == nil:
			rule = &r
		case errors.Is(err, voucher.ErrInvalidVoucher):
			view.VoucherError = voucher.Reason(err)
		default:
			return View{}, err
		}
	}
	totals, err := s.Agg.ComputeTotals(lines, rule, now)
	if errors.Is(err, voucher.ErrInvalidVoucher) {
		view.VoucherError = voucher.Reason(err)
		totals, err = s.Agg.ComputeTotals(lines, nil, now)
	}
	if err != nil {
		if errors.Is(err, ErrInvariant) {
			s.Log.Error().Err(err).Str("cart_id", view.ID).Str("invariant", "cart_total").Msg("cart pricing invariant violated")
		}
		return View{}, err
	}
	view.Totals = totals
	return view, nil
}

func (s *Service) mutate(ctx context.Context, owner Owner, fn func(q dbgen.Querier, cart dbgen.Cart) error) error {
	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return err
	}
	return s.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
		locked, err := q.LockCart(ctx, cart.ID)
		if err != nil {
			return err
		}
		if err := fn(q, locked); err != nil {
			return err
		}
		return q.TouchCart(ctx, dbgen.TouchCartParams{ID: locked.ID, ExpiresAt: common.Timestamptz(s.now().Add(s.ttl()))})
	})
}

func (s *Service) lookup(ctx context.Context, q dbgen.Querier, owner Owner) (dbgen.Cart, error) {
	if owner.IsCustomer() {
		return q.GetCartByCustomer(ctx, common.PgUUID(owner.CustomerID))
	}
	return q.GetCartBySession(ctx, common.Text(owner.SessionKey))
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) maxLineQty() int {
	if s == nil || s.MaxLineQty <= 0 {
		return 99
	}
	return s.MaxLineQty
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func checkAvailability(v dbgen.GetVariantRow, want int) error {
	if !v.IsActive || !v.ProductActive {
		return fmt.Errorf("variant %s: %w", v.Sku, ErrVariantUnavailable)
	}
	if int(v.Stock) < want {
		return &StockError{Lines: []Shortage{{
			VariantID: common.UUIDString(v.ID),
			SKU:       v.Sku,
			Requested: want,
			Available: int(v.Stock),
		}}}
	}
	return nil
}

func linesFromRows(rows []dbgen.ListCartLinesRow) []Line {
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		l := NewLine(row.VariantID, row.Quantity, row.Price, row.ComparePrice, row.Stock, row.VariantActive && row.ProductActive)
		lines = append(lines, l.ForProduct(row.ProductID, row.CategoryID))
	}
	return lines
}

func lockInOrder(ctx context.Context, q dbgen.Querier, a, b pgtype.UUID) error {
	if bytes.Compare(a.Bytes[:], b.Bytes[:]) > 0 {
		a, b = b, a
	}
	if _, err := q.LockCart(ctx, a); err != nil {
		return err
	}
	_, err := q.LockCart(ctx, b)
	return err
}
