// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/config"
	"github.com/unclebandit/smsleopard-otp/internal/db"
	"github.com/unclebandit/smsleopard-otp/internal/logger"
	"github.com/unclebandit/smsleopard-otp/internal/queue"
	"github.com/unclebandit/smsleopard-otp/internal/repository"
	"github.com/unclebandit/smsleopard-otp/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.App.Environment, cfg.App.LogLevel)

	if cfg.AMQP.URL == "" {
		log.Fatal().Msg("AMQP_URL is required for the worker")
	}

	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer conn.Close()

	q, err := queue.DialAMQP(cfg.AMQP.URL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("queue unavailable")
	}
	defer q.Close()

	worker := service.NewWorker(
		&repository.OutboundMessageRepository{DB: conn},
		&service.LogSender{Log: log},
		log,
	)

	if err := run(ctx, q, cfg.AMQP.Queue, worker, log); err != nil {
		log.Fatal().Err(err).Msg("failed to register consumer")
	}
	log.Info().Msg("worker stopped")
}

// run consumes delivery jobs from topic until ctx is cancelled.
func run(ctx context.Context, q queue.Queue, topic string, worker *service.Worker, log zerolog.Logger) error {
	err := queue.StartOTPDeliverySubscriber(q, topic, log, func(id uuid.UUID) error {
		return worker.Process(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info().Str("queue", topic).Msg("Worker running, waiting for messages...")
	<-ctx.Done()
	return nil
}
