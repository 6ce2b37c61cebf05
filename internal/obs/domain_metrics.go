package obs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout attempts by result.
	CheckoutTotal *prometheus.CounterVec
	// CheckoutDuration records checkout transaction latency in milliseconds.
	CheckoutDuration *prometheus.HistogramVec
	// VoucherRejections counts voucher rejections by reason.
	VoucherRejections *prometheus.CounterVec
	// PriceRuleApplied counts effective price evaluations by the rule that fired.
	PriceRuleApplied *prometheus.CounterVec
	// MilestoneRewardsIssued counts reward vouchers issued by tier.
	MilestoneRewardsIssued *prometheus.CounterVec
	// OutboxRelayTotal counts outbox publish outcomes.
	OutboxRelayTotal *prometheus.CounterVec
	// CatalogCacheTotal counts catalog cache lookups by outcome.
	CatalogCacheTotal *prometheus.CounterVec
	// JobsProcessed counts background tasks handled by the worker.
	JobsProcessed *prometheus.CounterVec
	// BreakerState is the circuit state per target: 0 closed, 1 open, 2 half-open.
	BreakerState *prometheus.GaugeVec
	// BreakerTransitions counts circuit state changes.
	BreakerTransitions *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout attempts by result.",
		}, []string{"result"}))
		CheckoutDuration = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_ms",
			Help:      "Checkout transaction latency in milliseconds.",
			Buckets:   DefaultBuckets,
		}, []string{"result"}))
		VoucherRejections = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_rejections_total",
			Help:      "Count of voucher rejections by reason.",
		}, []string{"reason"}))
		PriceRuleApplied = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_rule_applied_total",
			Help:      "Count of effective price evaluations by rule.",
		}, []string{"rule"}))
		MilestoneRewardsIssued = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestone_rewards_issued_total",
			Help:      "Count of milestone reward vouchers issued by tier.",
		}, []string{"tier"}))
		OutboxRelayTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_relay_total",
			Help:      "Count of outbox events relayed by result.",
		}, []string{"result"}))
		CatalogCacheTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Count of catalog cache lookups by outcome.",
		}, []string{"outcome"}))
		JobsProcessed = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Total background tasks processed grouped by status.",
		}, []string{"type", "status"}))
		BreakerState = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Current breaker state: 0=closed, 1=open, 2=half-open.",
		}, []string{"target"}))
		BreakerTransitions = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transitions_total",
			Help:      "Count of breaker state transitions.",
		}, []string{"target", "from", "to"}))
	})
}

// ObserveCheckout records a checkout outcome. Safe to call before registration.
func ObserveCheckout(result string, elapsed time.Duration) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(result).Inc()
	}
	if CheckoutDuration != nil {
		CheckoutDuration.WithLabelValues(result).Observe(DurationMillis(elapsed))
	}
}

func IncVoucherRejection(reason string) {
	incVec(VoucherRejections, reason)
}

func IncPriceRule(rule string) {
	incVec(PriceRuleApplied, rule)
}

func IncRewardIssued(tier string) {
	incVec(MilestoneRewardsIssued, tier)
}

func IncOutboxRelay(result string) {
	incVec(OutboxRelayTotal, result)
}

func IncCatalogCache(outcome string) {
	incVec(CatalogCacheTotal, outcome)
}

func IncJob(taskType, status string) {
	if JobsProcessed != nil {
		JobsProcessed.WithLabelValues(taskType, status).Inc()
	}
}

func SetBreakerState(target string, state float64) {
	if BreakerState != nil {
		BreakerState.WithLabelValues(target).Set(state)
	}
}

func IncBreakerTransition(target, from, to string) {
	if BreakerTransitions != nil {
		BreakerTransitions.WithLabelValues(target, from, to).Inc()
	}
}

func incVec(vec *prometheus.CounterVec, label string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(label).Inc()
}
