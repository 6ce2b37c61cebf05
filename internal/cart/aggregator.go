package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
)

// ErrInvariant marks a pricing result that must never be produced.
var ErrInvariant = errors.New("cart pricing invariant violated")

// Line is one cart line as seen by the aggregator.
type Line struct {
	VariantID  uuid.UUID
	ProductID  uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	Variant    pricing.Variant
}

// Fees holds the shipping and tax inputs, opaque to the aggregation itself.
type Fees struct {
	ShippingFlat      pricing.Money
	FreeShippingAbove pricing.Money
	TaxBps            int
}

// Shipping returns the flat fee for a non-empty cart, waived at or above the free threshold.
func (f Fees) Shipping(subtotal pricing.Money) pricing.Money {
	if subtotal <= 0 || f.ShippingFlat <= 0 {
		return 0
	}
	if f.FreeShippingAbove > 0 && subtotal >= f.FreeShippingAbove {
		return 0
	}
	return f.ShippingFlat
}

// Totals is the priced breakdown of a cart.
type Totals struct {
	Subtotal pricing.Money `json:"subtotal"`
	Discount pricing.Money `json:"discount"`
	Shipping pricing.Money `json:"shipping"`
	Tax      pricing.Money `json:"tax"`
	Total    pricing.Money `json:"total"`
}

// Aggregator prices carts with live effective prices.
type Aggregator struct {
	Pricing pricing.Evaluator
	Fees    Fees
}

// ComputeTotals sums active lines at their effective price and applies at most
// one voucher. Voucher rejections are returned unchanged.
func (a Aggregator) ComputeTotals(lines []Line, rule *voucher.Rule, now time.Time) (Totals, error) {
	var t Totals
	items, err := a.Items(lines)
	if err != nil {
		return Totals{}, err
	}
	for _, it := range items {
		t.Subtotal += it.Amount
	}
	if rule != nil {
		discount, err := voucher.ApplyItems(*rule, items, now)
		if err != nil {
			return Totals{}, err
		}
		t.Discount = discount
	}
	if t.Discount > t.Subtotal {
		t.Discount = t.Subtotal
	}
	net := t.Subtotal - t.Discount
	if net < 0 {
		net = 0
	}
	t.Shipping = a.Fees.Shipping(t.Subtotal)
	if rule != nil && rule.WaivesShipping() {
		t.Shipping = 0
	}
	t.Tax = pricing.ApplyBps(net, a.Fees.TaxBps)
	t.Total = net + t.Shipping + t.Tax
	if t.Total < 0 {
		return Totals{}, fmt.Errorf("negative total %d: %w", t.Total, ErrInvariant)
	}
	return t, nil
}

// Items prices the active lines for voucher evaluation.
func (a Aggregator) Items(lines []Line) ([]voucher.Item, error) {
	items := make([]voucher.Item, 0, len(lines))
	for _, l := range lines {
		if !l.Variant.IsActive || l.Quantity <= 0 {
			continue
		}
		unit := a.Pricing.EffectivePrice(l.Variant)
		if unit < 0 {
			return nil, fmt.Errorf("negative unit price for %s: %w", l.VariantID, ErrInvariant)
		}
		items = append(items, voucher.Item{
			ProductID:  l.ProductID,
			CategoryID: l.CategoryID,
			OnSale:     l.Variant.OnSale(),
			Amount:     pricing.LineTotal(unit, l.Quantity),
		})
	}
	return items, nil
}
