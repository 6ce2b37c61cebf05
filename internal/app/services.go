package app

import (
	"time"

	"github.com/richardprab/auroramart/internal/address"
	"github.com/richardprab/auroramart/internal/cart"
	"github.com/richardprab/auroramart/internal/catalog"
	"github.com/richardprab/auroramart/internal/checkout"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/jobs"
	"github.com/richardprab/auroramart/internal/lock"
	"github.com/richardprab/auroramart/internal/milestone"
	"github.com/richardprab/auroramart/internal/notify"
	"github.com/richardprab/auroramart/internal/order"
	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
	"github.com/richardprab/auroramart/internal/wishlist"
)

// Services is the fully wired domain layer.
type Services struct {
	Pricing    pricing.Evaluator
	Aggregator cart.Aggregator
	Vouchers   *voucher.Service
	Catalog    *catalog.Service
	Carts      *cart.Service
	Checkout   *checkout.Service
	Orders     *order.Service
	Milestones *milestone.Service
	Notify     *notify.Service
	Addresses  *address.Service
	Wishlist   *wishlist.Service
	Bus        *events.Bus
	Enqueuer   *jobs.Enqueuer
}

// Services wires every domain service over the open infrastructure. Committed
// events are handed to the task enqueuer and the worker does the rest.
func (in *Infra) Services() *Services {
	cfg := in.Config
	log := in.Log
	now := time.Now

	evaluator := pricing.NewEvaluator(pricing.DynamicRule{
		Enabled:           cfg.Pricing.DynamicEnabled,
		LowStockThreshold: cfg.Pricing.LowStockThreshold,
		DiscountBps:       cfg.Pricing.LowStockDiscountBps,
	})
	agg := cart.Aggregator{
		Pricing: evaluator,
		Fees: cart.Fees{
			ShippingFlat:      cfg.Pricing.ShippingFlatFee,
			FreeShippingAbove: cfg.Pricing.FreeShippingAbove,
			TaxBps:            cfg.Pricing.TaxRateBps,
		},
	}

	enqueuer := &jobs.Enqueuer{Client: in.Tasks, Log: log.With().Str("component", "jobs").Logger()}
	bus := &events.Bus{Log: log}
	bus.Subscribe(enqueuer)

	vouchers := &voucher.Service{
		Q:                       in.Store,
		Now:                     now,
		DefaultPerCustomerLimit: cfg.Voucher.DefaultPerCustomerLimit,
		Log:                     log.With().Str("component", "voucher").Logger(),
	}
	catalogSvc := &catalog.Service{
		Q:       in.Store,
		Cache:   catalog.NewCache(in.Redis, cfg.Cache.CatalogTTL),
		Pricing: evaluator,
		Log:     log.With().Str("component", "catalog").Logger(),
	}

	return &Services{
		Pricing:    evaluator,
		Aggregator: agg,
		Vouchers:   vouchers,
		Catalog:    catalogSvc,
		Carts: &cart.Service{
			Store:      in.Store,
			Vouchers:   vouchers,
			Agg:        agg,
			TTL:        cfg.Cart.TTL,
			MaxLineQty: cfg.Cart.MaxLineQty,
			Currency:   cfg.CurrencyCode,
			Now:        now,
			Log:        log.With().Str("component", "cart").Logger(),
		},
		Checkout: &checkout.Service{
			Store:       in.Store,
			Vouchers:    vouchers,
			Agg:         agg,
			Events:      bus,
			Catalog:     catalogSvc,
			TxTimeout:   cfg.Checkout.TxTimeout,
			LockTimeout: cfg.Checkout.LockTimeout,
			Now:         now,
			Log:         log.With().Str("component", "checkout").Logger(),
		},
		Orders: &order.Service{
			Store:   in.Store,
			Events:  bus,
			Catalog: catalogSvc,
			Now:     now,
			Log:     log.With().Str("component", "order").Logger(),
		},
		Milestones: &milestone.Service{
			Store:    in.Store,
			Vouchers: vouchers,
			Locker:   lock.Locker{R: in.Redis, RetryBackoff: cfg.LockRetryBackoff},
			LockTTL:  cfg.LockTTL,
			Events:   bus,
			Tiers:    milestone.TiersFromConfig(cfg.Milestone.Tiers),
			Policy: milestone.RewardPolicy{
				MinSpend: cfg.Milestone.RewardMinSpend,
				Validity: cfg.Milestone.RewardValidity,
			},
			Now: now,
			Log: log.With().Str("component", "milestone").Logger(),
		},
		Notify: &notify.Service{
			Q:     in.Store,
			Redis: in.Redis,
			Log:   log.With().Str("component", "notify").Logger(),
		},
		Addresses: &address.Service{Store: in.Store},
		Wishlist: &wishlist.Service{
			Q:       in.Store,
			Catalog: catalogSvc,
			Pricing: evaluator,
			Log:     log.With().Str("component", "wishlist").Logger(),
		},
		Bus:      bus,
		Enqueuer: enqueuer,
	}
}
