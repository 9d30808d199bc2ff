package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/bugie-app/bugie-backend/api/controllers"
	"github.com/bugie-app/bugie-backend/api/routes"
	"github.com/bugie-app/bugie-backend/internal/auth"
	"github.com/bugie-app/bugie-backend/internal/categories"
	"github.com/bugie-app/bugie-backend/internal/ledgers"
	"github.com/bugie-app/bugie-backend/internal/memberships"
	"github.com/bugie-app/bugie-backend/internal/profiles"
	"github.com/bugie-app/bugie-backend/internal/transactions"
	"github.com/bugie-app/bugie-backend/internal/users"
	"github.com/bugie-app/bugie-backend/pkg/auth/session"
	"github.com/bugie-app/bugie-backend/pkg/config"
	"github.com/bugie-app/bugie-backend/pkg/db"
	"github.com/bugie-app/bugie-backend/pkg/instance"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"github.com/bugie-app/bugie-backend/pkg/metrics"
	"github.com/bugie-app/bugie-backend/pkg/migrate"
	"github.com/bugie-app/bugie-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	profileRepo := profiles.NewRepository(conn)
	memberRepo := memberships.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)

	identity, err := auth.NewIdentityService(auth.IdentityParams{
		Users:    userRepo,
		Sessions: sessionManager,
	})
	if err != nil {
		return err
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		Auth:     identity,
		Profiles: profileRepo,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Profiles:       profileService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	ledgerService, err := ledgers.NewService(ledgers.ServiceParams{
		Auth:       identity,
		Ledgers:    ledgers.NewRepository(conn),
		Members:    memberRepo,
		Categories: categoryRepo,
		Profiles:   profileRepo,
		Logger:     logg,
	})
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}
	transactionService, err := transactions.NewService(transactions.ServiceParams{
		Auth:         identity,
		Transactions: transactions.NewRepository(conn),
		Members:      memberRepo,
		Categories:   categoryRepo,
		Logger:       logg,
		Location:     loc,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Sessions:    sessionManager,
		RateLimits:  redisClient,
		Idempotency: redisClient,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Metrics:      metrics.NewHTTPMetrics(registry),
		Gatherer:     registry,
		Auth:         authService,
		Ledgers:      ledgerService,
		Transactions: transactionService,
		Profiles:     profileService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"dialect":  dbClient.Dialect(),
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
