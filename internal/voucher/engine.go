package voucher

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/pricing"
)

var (
	// ErrInvalidVoucher is the parent of every voucher rejection.
	ErrInvalidVoucher = errors.New("invalid voucher")
	// ErrExpired is returned outside the [valid_from, valid_until] window.
	ErrExpired = wrapInvalid("voucher expired")
	// ErrExhaustedUses indicates the global or per-customer quota is used up.
	ErrExhaustedUses = wrapInvalid("voucher usage limit reached")
	// ErrNotEligible is returned when the voucher cannot be applied to this cart or customer.
	ErrNotEligible = wrapInvalid("voucher not eligible")
	// ErrNotFound is returned for unknown codes.
	ErrNotFound = errors.New("voucher not found")
)

// Rejection reasons exposed in API error details.
const (
	ReasonExpired       = "EXPIRED"
	ReasonExhaustedUses = "EXHAUSTED_USES"
	ReasonNotEligible   = "NOT_ELIGIBLE"
)

type invalidErr struct{ msg string }

func (e *invalidErr) Error() string { return e.msg }
func (e *invalidErr) Unwrap() error { return ErrInvalidVoucher }

func wrapInvalid(msg string) error { return &invalidErr{msg: msg} }

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	// Percentage discounts carry DiscountValue in basis points.
	Percentage DiscountType = "percentage"
	// Fixed discounts carry DiscountValue in minor units.
	Fixed DiscountType = "fixed"
	// FreeShipping waives the shipping fee and leaves the subtotal untouched.
	FreeShipping DiscountType = "free_shipping"
)

// Rule captures the runtime constraints of a voucher together with the
// per-customer context it is evaluated in.
type Rule struct {
	ID            uuid.UUID
	Code          string
	Type          DiscountType
	DiscountValue pricing.Money
	MaxDiscount   *pricing.Money
	MinSpend      pricing.Money
	ValidFrom     time.Time
	ValidUntil    time.Time
	MaxUses       *int32
	UsedCount     int32
	IsActive      bool
	// OwnerID is set for personal vouchers (milestone rewards).
	OwnerID          *uuid.UUID
	FirstTimeOnly    bool
	ExcludeSaleItems bool
	// Empty product and category lists leave every line eligible.
	ApplicableProducts   []uuid.UUID
	ApplicableCategories []uuid.UUID

	// CustomerID is the customer the rule is evaluated for; uuid.Nil for guests.
	CustomerID uuid.UUID
	// PerCustomerLimit of zero means unlimited.
	PerCustomerLimit int32
	CustomerUses     int32
	PriorOrders      int64
}

// Item is one priced cart line checked against product, category and sale restrictions.
type Item struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
	OnSale     bool
	Amount     pricing.Money
}

// Restricted reports whether the rule only covers some products or categories.
func (r Rule) Restricted() bool {
	return len(r.ApplicableProducts) > 0 || len(r.ApplicableCategories) > 0
}

// WaivesShipping reports whether the voucher zeroes shipping instead of discounting goods.
func (r Rule) WaivesShipping() bool {
	return r.Type == FreeShipping
}

// Validate checks the rule without computing a discount.
func (r Rule) Validate(subtotal pricing.Money, now time.Time) error {
	if !r.IsActive {
		return ErrNotEligible
	}
	if (!r.ValidFrom.IsZero() && now.Before(r.ValidFrom)) || (!r.ValidUntil.IsZero() && now.After(r.ValidUntil)) {
		return ErrExpired
	}
	if r.MaxUses != nil && r.UsedCount >= *r.MaxUses {
		return ErrExhaustedUses
	}
	if r.PerCustomerLimit > 0 && r.CustomerUses >= r.PerCustomerLimit {
		return ErrExhaustedUses
	}
	if r.OwnerID != nil && *r.OwnerID != r.CustomerID {
		return ErrNotEligible
	}
	// guests have no order history to check
	if r.FirstTimeOnly && (r.CustomerID == uuid.Nil || r.PriorOrders > 0) {
		return ErrNotEligible
	}
	if subtotal < r.MinSpend {
		return ErrNotEligible
	}
	return nil
}

// Eligible returns the part of the cart the discount applies to. A restricted
// rule with no matching line is not eligible, and so is any covered line that
// is already on sale when the rule excludes sale items.
func (r Rule) Eligible(items []Item) (pricing.Money, error) {
	var amount pricing.Money
	matched := false
	for _, it := range items {
		if !r.covers(it) {
			continue
		}
		if r.ExcludeSaleItems && it.OnSale {
			return 0, ErrNotEligible
		}
		matched = true
		amount += it.Amount
	}
	if r.Restricted() && !matched {
		return 0, ErrNotEligible
	}
	return amount, nil
}

func (r Rule) covers(it Item) bool {
	if !r.Restricted() {
		return true
	}
	for _, id := range r.ApplicableProducts {
		if id == it.ProductID {
			return true
		}
	}
	if it.CategoryID == uuid.Nil {
		return false
	}
	for _, id := range r.ApplicableCategories {
		if id == it.CategoryID {
			return true
		}
	}
	return false
}

// Apply validates the rule against a bare subtotal and returns the discount.
// Line restrictions need cart lines and are only enforced by ApplyItems.
// It never mutates state.
func Apply(r Rule, subtotal pricing.Money, now time.Time) (pricing.Money, error) {
	if err := r.Validate(subtotal, now); err != nil {
		return 0, err
	}
	return Compute(r, subtotal), nil
}

// ApplyItems validates the rule against priced cart lines. Minimum spend is
// measured on the whole cart while the discount only covers eligible lines.
func ApplyItems(r Rule, items []Item, now time.Time) (pricing.Money, error) {
	var subtotal pricing.Money
	for _, it := range items {
		subtotal += it.Amount
	}
	if err := r.Validate(subtotal, now); err != nil {
		return 0, err
	}
	base, err := r.Eligible(items)
	if err != nil {
		return 0, err
	}
	return Compute(r, base), nil
}

// Compute determines the discount amount, capped at subtotal. Free-shipping
// vouchers never discount the subtotal.
func Compute(r Rule, subtotal pricing.Money) pricing.Money {
	if subtotal <= 0 || r.DiscountValue <= 0 || r.WaivesShipping() {
		return 0
	}
	var discount pricing.Money
	switch r.Type {
	case Percentage:
		bps := r.DiscountValue
		if bps > pricing.BpsScale {
			bps = pricing.BpsScale
		}
		discount = pricing.ApplyBps(subtotal, int(bps))
		if r.MaxDiscount != nil && *r.MaxDiscount >= 0 && discount > *r.MaxDiscount {
			discount = *r.MaxDiscount
		}
	case Fixed:
		discount = r.DiscountValue
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// Reason maps a rejection to its API reason code; empty for non-voucher errors.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrExhaustedUses):
		return ReasonExhaustedUses
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrInvalidVoucher):
		return ReasonNotEligible
	}
	return ""
}
