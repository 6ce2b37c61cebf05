package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// BpsScale is the basis point denominator (10000 = 100%).
const BpsScale = 10000

// Rule identifies which pricing rule produced an effective price.
type Rule string

const (
	RuleBase     Rule = "base"
	RuleSale     Rule = "sale"
	RuleLowStock Rule = "low_stock"
)

// Variant carries the catalog state the evaluator needs.
type Variant struct {
	BasePrice    Money
	ComparePrice *Money
	Stock        int
	IsActive     bool
}

// OnSale reports whether a manual sale is in effect.
func (v Variant) OnSale() bool {
	return v.ComparePrice != nil && *v.ComparePrice > v.BasePrice
}

// DynamicRule configures the low-stock discount.
type DynamicRule struct {
	Enabled           bool
	LowStockThreshold int
	DiscountBps       int
}

// Normalize clamps the rule into a usable range.
func (r DynamicRule) Normalize() DynamicRule {
	if r.DiscountBps < 0 {
		r.DiscountBps = 0
	}
	if r.DiscountBps > BpsScale {
		r.DiscountBps = BpsScale
	}
	if r.LowStockThreshold < 0 {
		r.LowStockThreshold = 0
	}
	return r
}

// Quote is an effective price together with the rule that produced it.
type Quote struct {
	Price Money `json:"price"`
	Base  Money `json:"base"`
	Rule  Rule  `json:"rule"`
}

// Evaluator resolves effective unit prices.
type Evaluator struct {
	Dynamic DynamicRule
}

// NewEvaluator builds an evaluator from the provided rule.
func NewEvaluator(rule DynamicRule) Evaluator {
	return Evaluator{Dynamic: rule.Normalize()}
}

// EffectivePrice returns the unit price charged for the variant right now.
func (e Evaluator) EffectivePrice(v Variant) Money {
	return e.Explain(v).Price
}

// Explain returns the effective price and the rule that fired.
func (e Evaluator) Explain(v Variant) Quote {
	base := v.BasePrice
	if base < 0 {
		base = 0
	}
	q := Quote{Price: base, Base: base, Rule: RuleBase}
	if v.OnSale() {
		q.Rule = RuleSale
		return q
	}
	rule := e.Dynamic.Normalize()
	if !rule.Enabled || rule.DiscountBps == 0 {
		return q
	}
	// stock == 0 is out of stock, not clearance
	if v.Stock <= 0 || v.Stock > rule.LowStockThreshold {
		return q
	}
	price := ApplyBps(base, BpsScale-rule.DiscountBps)
	if price < 1 && base > 0 {
		price = 1
	}
	if price > base {
		price = base
	}
	q.Price = price
	q.Rule = RuleLowStock
	return q
}

// ApplyBps multiplies amount by bps/10000 rounding half-up to the minor unit.
func ApplyBps(amount Money, bps int) Money {
	if amount == 0 || bps == 0 {
		return 0
	}
	neg := false
	if amount < 0 {
		neg = true
		amount = -amount
	}
	product := amount * Money(bps)
	out := product / BpsScale
	if product%BpsScale*2 >= BpsScale {
		out++
	}
	if neg {
		return -out
	}
	return out
}

// LineTotal multiplies a unit price by quantity, ignoring non-positive quantities.
func LineTotal(unit Money, qty int) Money {
	if qty <= 0 {
		return 0
	}
	return unit * Money(qty)
}
