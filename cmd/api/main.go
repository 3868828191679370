package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vetstack/vetclinic-api/internal/config"
	"github.com/vetstack/vetclinic-api/internal/email"
	"github.com/vetstack/vetclinic-api/internal/handler"
	veterinarianHandler "github.com/vetstack/vetclinic-api/internal/handler/veterinarian"
	"github.com/vetstack/vetclinic-api/internal/middleware"
	"github.com/vetstack/vetclinic-api/internal/repository/postgres"
	"github.com/vetstack/vetclinic-api/internal/router"
	authService "github.com/vetstack/vetclinic-api/internal/service/auth"
	veterinarianService "github.com/vetstack/vetclinic-api/internal/service/veterinarian"
	"github.com/vetstack/vetclinic-api/pkg/logger"
	redisBroker "github.com/vetstack/vetclinic-api/pkg/messaging/redis"
	"github.com/vetstack/vetclinic-api/pkg/metrics"
	"github.com/vetstack/vetclinic-api/pkg/security"
	"github.com/vetstack/vetclinic-api/pkg/token"
	"github.com/vetstack/vetclinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	vetRepo := postgres.NewVeterinarianRepository(db)
	apptRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Credential handling
	hasher := security.NewBcryptHasher(cfg.Password.BcryptCost)
	policy := security.PasswordPolicy{
		MinLength:      cfg.Password.MinLength,
		RequireLetter:  cfg.Password.RequireLetter,
		RequireDigit:   cfg.Password.RequireDigit,
		RequireSpecial: cfg.Password.RequireSpecial,
	}
	tokenSvc := token.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Email
	emailSvc := email.Noop()
	if cfg.SMTP.Enabled {
		emailSvc = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// Services
	authSvc := authService.NewService(vetRepo, tokenSvc, hasher)
	vetSvc := veterinarianService.NewService(vetRepo, apptRepo, outboxRepo, hasher, policy, emailSvc, appLogger)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db)
	vetHandler := veterinarianHandler.NewHandler(vetSvc, authSvc)

	r := router.NewRouter(authMiddleware, vetHandler, h, router.Config{
		RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:     cfg.RateLimit.Burst,
		Timeout:       cfg.Server.RequestTimeout,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "vetclinic_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mutation events are published to Redis when a broker is
	// configured; the API works without one.
	if cfg.Redis.Enabled {
		broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()

		outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
			Channel:      cfg.Outbox.Channel,
		}, appLogger, metrics.NewMetrics("vetclinic"))
		go outboxProcessor.Start(ctx)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
