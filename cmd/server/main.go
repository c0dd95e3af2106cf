// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/auth"
	"github.com/unclebandit/smsleopard-otp/internal/config"
	"github.com/unclebandit/smsleopard-otp/internal/controller"
	"github.com/unclebandit/smsleopard-otp/internal/db"
	"github.com/unclebandit/smsleopard-otp/internal/handler"
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

	// Init DB
	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	q, closeQueue := newQueue(cfg, log, &repository.OutboundMessageRepository{DB: conn})
	defer closeQueue()

	router, err := newRouter(cfg, conn, q, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid JWT configuration")
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newQueue publishes to RabbitMQ when AMQP_URL is set, leaving delivery to
// cmd/worker. Otherwise deliveries run in-process through the same Worker.
func newQueue(cfg *config.Config, log zerolog.Logger, outboundRepo *repository.OutboundMessageRepository) (queue.Queue, func()) {
	if cfg.AMQP.URL != "" {
		q, err := queue.DialAMQP(cfg.AMQP.URL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("queue unavailable")
		}
		log.Info().Msg("publishing OTP deliveries to RabbitMQ")
		return q, func() { q.Close() }
	}

	q := queue.NewInMemoryQueue(log)
	worker := service.NewWorker(outboundRepo, &service.LogSender{Log: log}, log)
	err := queue.StartOTPDeliverySubscriber(q, cfg.AMQP.Queue, log, func(id uuid.UUID) error {
		return worker.Process(context.Background(), id)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe OTP delivery worker")
	}
	log.Warn().Msg("⚠️ AMQP_URL not set, delivering OTPs in-process")
	return q, func() {}
}

// newRouter wires repositories, services and controllers over conn and q.
func newRouter(cfg *config.Config, conn *sqlx.DB, q queue.Queue, log zerolog.Logger) (http.Handler, error) {
	resolver, err := auth.NewTokenResolver(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		return nil, err
	}
	if cfg.App.IsDevelopment() {
		// matches the owner of seed/campaigns.sql
		if tok, err := resolver.Generate("demo-operator", 24*time.Hour); err == nil {
			log.Debug().Str("token", tok).Msg("development token for demo-operator")
		}
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	outboundRepo := &repository.OutboundMessageRepository{DB: conn}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
	}
	registrationService := &service.RegistrationService{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		Dispatcher: &service.OutboxDispatcher{
			OutboundRepo: outboundRepo,
			Queue:        q,
			Template:     cfg.App.OTPTemplate,
			Topic:        cfg.AMQP.Queue,
		},
		Log: log,
	}
	verificationService := &service.VerificationService{
		CustomerRepo: customerRepo,
		Log:          log,
	}

	return controller.NewRouter(controller.RouterConfig{
		Campaigns: &controller.CampaignController{CampaignService: campaignService, Log: log},
		Customers: &controller.CustomerController{
			Registration: registrationService,
			Verification: verificationService,
			Log:          log,
		},
		Health:    handler.NewHealthHandler(conn, log),
		Resolver:  resolver,
		Log:       log,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}), nil
}
