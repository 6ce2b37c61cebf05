package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/richardprab/auroramart/internal/app"
	"github.com/richardprab/auroramart/internal/auth"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/config"
	"github.com/richardprab/auroramart/internal/health"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/ratelimit"
)

const drainDelay = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := app.Open(ctx, cfg, "auroramart-api")
	if err != nil {
		log.Fatal().Err(err).Msg("open infrastructure")
	}
	defer infra.Close()
	logger := infra.Log

	deps := routerDeps{
		Config:      cfg,
		Log:         logger,
		Services:    infra.Services(),
		Verifier:    auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
		Idempotency: common.Idem{R: infra.Redis, TTL: cfg.IdempotencyTTL},
		Checkout: ratelimit.SlidingWindow{
			Client: infra.Redis,
			Prefix: "auroramart:ratelimit:checkout:",
			Window: cfg.Checkout.RateWindow,
			Max:    cfg.Checkout.RateLimit,
		},
		Health: health.NewHandler(500*time.Millisecond, map[string]health.Check{
			"db":    health.Postgres(infra.Pool),
			"redis": health.Redis(infra.Redis),
		}),
	}
	if store, err := infra.LimiterStore(); err != nil {
		logger.Error().Err(err).Msg("rate limiter store; api budget disabled")
	} else if fw, err := ratelimit.NewFixedWindow(store, cfg.APIRateLimit); err != nil {
		logger.Error().Err(err).Msg("rate limiter; api budget disabled")
	} else {
		deps.APILimit = fw
	}
	if cfg.Obs.EnablePrometheus {
		deps.Metrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.HistogramBuckets), nil)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server exited unexpectedly")
		}
		return
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown requested; draining")
	deps.Health.Drain()
	time.Sleep(drainDelay)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}
