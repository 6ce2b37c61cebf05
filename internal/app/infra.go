// Package app opens the shared infrastructure and assembles the domain
// services used by the api, worker and auroractl binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/richardprab/auroramart/internal/config"
	"github.com/richardprab/auroramart/internal/db"
	"github.com/richardprab/auroramart/internal/obs"
)

// Infra holds process-wide connections. Close releases them in reverse order.
type Infra struct {
	Config *config.Config
	Log    zerolog.Logger
	Pool   *pgxpool.Pool
	Store  *db.Store
	Redis  *redis.Client
	Tasks  *asynq.Client

	closers []func(context.Context) error
}

// Open connects to Postgres and Redis, installs tracing and registers the
// domain metrics. service names the process in logs, traces and pg_stat_activity.
func Open(ctx context.Context, cfg *config.Config, service string) (*Infra, error) {
	log := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().
		Str("service", service).
		Str("env", cfg.AppEnv).
		Logger()
	in := &Infra{Config: cfg, Log: log}

	shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
		Enabled:       cfg.Obs.EnableTracing,
		ServiceName:   service,
		Endpoint:      cfg.Obs.OTLPEndpoint,
		SamplingRatio: cfg.Obs.SamplingRatio,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	in.closers = append(in.closers, shutdown)
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if in.Pool, err = openPool(connectCtx, cfg.DatabaseURL, service); err != nil {
		in.Close()
		return nil, err
	}
	in.closers = append(in.closers, func(context.Context) error { in.Pool.Close(); return nil })
	in.Store = db.NewStore(in.Pool)

	if in.Redis, err = openRedis(connectCtx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	in.closers = append(in.closers, func(context.Context) error { return in.Redis.Close() })

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("parse redis uri for tasks: %w", err)
	}
	in.Tasks = asynq.NewClient(redisOpt)
	in.closers = append(in.closers, func(context.Context) error { return in.Tasks.Close() })
	return in, nil
}

// TaskRedis returns the asynq connection options for the configured Redis.
func (in *Infra) TaskRedis() (asynq.RedisConnOpt, error) {
	return asynq.ParseRedisURI(in.Config.RedisURL)
}

// LimiterStore backs the ulule limiter with the shared Redis client.
func (in *Infra) LimiterStore() (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(in.Redis, limiter.StoreOptions{Prefix: "auroramart:ratelimit"})
}

// Close releases every opened resource, newest first.
func (in *Infra) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs error
	for i := len(in.closers) - 1; i >= 0; i-- {
		errs = errors.Join(errs, in.closers[i](ctx))
	}
	if errs != nil {
		in.Log.Error().Err(errs).Msg("shutdown")
	}
	in.closers = nil
}

func openPool(ctx context.Context, url, service string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = service
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		log.Error().Err(err).Msg("instrument redis tracing")
	}
	if cfg.Obs.EnablePrometheus {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			log.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
