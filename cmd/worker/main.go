package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/richardprab/auroramart/internal/app"
	"github.com/richardprab/auroramart/internal/config"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/jobs"
	"github.com/richardprab/auroramart/internal/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := app.Open(ctx, cfg, "auroramart-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("open infrastructure")
	}
	defer infra.Close()
	logger := infra.Log.With().Str("component", "worker").Logger()
	svc := infra.Services()

	redisOpt, err := infra.TaskRedis()
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis uri for tasks")
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Logger:      taskLogger{logger},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("task", task.Type()).Msg("task failed")
		}),
	})
	mux := asynq.NewServeMux()
	(&jobs.Handlers{
		Milestones:    svc.Milestones,
		Notifications: svc.Notify,
		Log:           logger,
	}).Register(mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(mux); err != nil {
			return err
		}
		<-gctx.Done()
		srv.Shutdown()
		return nil
	})

	if cfg.Kafka.Enabled() {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error().Err(err).Msg("close kafka writer")
			}
		}()
		relay := &events.Relay{
			Store:     infra.Store,
			Writer:    writer,
			Breaker:   resilience.NewBreaker[struct{}](resilience.BreakerConfig{Target: "kafka-outbox"}, logger),
			BatchSize: cfg.Kafka.BatchSize,
			Interval:  cfg.Kafka.PollInterval,
			Log:       logger.With().Str("component", "outbox").Logger(),
		}
		g.Go(func() error { return relay.Run(gctx) })
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not set; outbox relay disabled")
	}

	logger.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("worker starting")
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("worker stopped with error")
		return
	}
	logger.Info().Msg("worker shutdown complete")
}

// taskLogger routes asynq's internal logging through zerolog.
type taskLogger struct {
	l zerolog.Logger
}

func (t taskLogger) Debug(args ...any) { t.l.Debug().Msg(fmt.Sprint(args...)) }
func (t taskLogger) Info(args ...any)  { t.l.Info().Msg(fmt.Sprint(args...)) }
func (t taskLogger) Warn(args ...any)  { t.l.Warn().Msg(fmt.Sprint(args...)) }
func (t taskLogger) Error(args ...any) { t.l.Error().Msg(fmt.Sprint(args...)) }
func (t taskLogger) Fatal(args ...any) { t.l.Fatal().Msg(fmt.Sprint(args...)) }
