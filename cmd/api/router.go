package main

import (
	"crypto/subtle"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/address"
	"github.com/richardprab/auroramart/internal/app"
	"github.com/richardprab/auroramart/internal/auth"
	"github.com/richardprab/auroramart/internal/cart"
	"github.com/richardprab/auroramart/internal/catalog"
	"github.com/richardprab/auroramart/internal/checkout"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/config"
	"github.com/richardprab/auroramart/internal/health"
	"github.com/richardprab/auroramart/internal/milestone"
	"github.com/richardprab/auroramart/internal/notify"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/order"
	"github.com/richardprab/auroramart/internal/ratelimit"
	"github.com/richardprab/auroramart/internal/security"
	"github.com/richardprab/auroramart/internal/voucher"
	"github.com/richardprab/auroramart/internal/wishlist"
)

type routerDeps struct {
	Config      *config.Config
	Log         zerolog.Logger
	Services    *app.Services
	Verifier    *auth.Verifier
	Health      *health.Handler
	Idempotency common.Idem
	APILimit    ratelimit.Limiter
	Checkout    ratelimit.Limiter
	Metrics     *obs.HTTPMetrics
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.Config
	svc := d.Services
	authMW := auth.Middleware{Verifier: d.Verifier}
	onLimitErr := func(err error) { d.Log.Warn().Err(err).Msg("rate limiter unavailable") }

	catalogH := catalog.NewHandler(catalog.HandlerConfig{Service: svc.Catalog})
	cartH := &cart.Handler{Svc: svc.Carts, SessionHeader: cfg.Cart.SessionName}
	checkoutH := &checkout.Handler{Svc: svc.Checkout}
	orderH := &order.Handler{Svc: svc.Orders}
	voucherH := &voucher.Handler{Svc: svc.Vouchers}
	milestoneH := &milestone.Handler{Svc: svc.Milestones}
	addressH := &address.Handler{Svc: svc.Addresses}
	wishlistH := &wishlist.Handler{Svc: svc.Wishlist}
	notifyH := &notify.Handler{Svc: svc.Notify}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Obs.EnableTracing {
		r.Use(obs.Tracing("auroramart-api"))
	}
	if d.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.Metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Log}.Middleware)
	r.Use(security.Headers{HSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.CORS(cfg.CORSAllowedOrigins, cfg.Cart.SessionName))

	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)
	if cfg.Obs.EnablePrometheus {
		r.Handle("/metrics", promhttp.Handler())
	}
	if cfg.Obs.PprofEnabled {
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), cfg.Obs.PprofUser, cfg.Obs.PprofPass))
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
		v.Use(ratelimit.Handler{Limiter: d.APILimit, Key: ratelimit.ByClientIP, OnError: onLimitErr}.Middleware)
		v.Use(authMW.Authenticate)

		v.Get("/products", catalogH.Products)
		v.Get("/products/{slug}", catalogH.ProductDetail)
		v.Get("/variants/{id}", catalogH.Variant)
		v.Post("/vouchers/preview", voucherH.Preview)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartH.Get)
			c.Delete("/", cartH.Clear)
			c.Post("/items", cartH.AddItem)
			c.Patch("/items/{itemId}", cartH.UpdateItem)
			c.Delete("/items/{itemId}", cartH.RemoveItem)
			c.Post("/voucher", cartH.ApplyVoucher)
			c.Delete("/voucher", cartH.RemoveVoucher)
			c.With(authMW.RequireAuth).Post("/merge", cartH.Merge)
		})

		v.Group(func(a chi.Router) {
			a.Use(authMW.RequireAuth)
			a.With(
				ratelimit.Handler{Limiter: d.Checkout, Key: ratelimit.ByCustomer, OnError: onLimitErr}.Middleware,
				d.Idempotency.Middleware,
			).Post("/checkout", checkoutH.Create)

			a.Get("/orders", orderH.List)
			a.Get("/orders/{id}", orderH.Get)
			a.Post("/orders/{id}/cancel", orderH.Cancel)

			a.Route("/me", func(me chi.Router) {
				me.Get("/milestones", milestoneH.Progress)
				me.Get("/milestones/all", milestoneH.All)
				me.Get("/addresses", addressH.List)
				me.Post("/addresses", addressH.Create)
				me.Get("/addresses/{id}", addressH.Get)
				me.Get("/wishlist", wishlistH.List)
				me.Post("/wishlist", wishlistH.Add)
				me.Post("/wishlist/toggle", wishlistH.Toggle)
				me.Delete("/wishlist/{id}", wishlistH.Remove)
				me.Get("/notifications", notifyH.List)
				me.Get("/notifications/unread-count", notifyH.UnreadCount)
				me.Post("/notifications/read-all", notifyH.MarkAllRead)
				me.Post("/notifications/{id}/read", notifyH.MarkRead)
			})
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(authMW.RequireAuth)
			admin.Use(auth.RequireRole(auth.RoleAdmin))
			admin.Post("/vouchers", voucherH.Create)
			admin.Put("/vouchers/{code}", voucherH.Update)
			admin.Delete("/vouchers/{code}", voucherH.Deactivate)
			admin.Patch("/orders/{id}/status", orderH.PatchStatus)
			admin.Patch("/variants/{id}/stock", catalogH.SetStock)
			admin.Patch("/variants/{id}/price", catalogH.SetPrice)
		})
	})
	return r
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle("/"+name, pprof.Handler(name))
	}
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			common.WriteError(w, common.Unauthorized())
			return
		}
		handler.ServeHTTP(w, r)
	})
}
