package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VitMok/bank-backend/internal/config"
	"github.com/VitMok/bank-backend/internal/events"
	"github.com/VitMok/bank-backend/internal/fx"
	"github.com/VitMok/bank-backend/internal/handler"
	"github.com/VitMok/bank-backend/internal/logging"
	"github.com/VitMok/bank-backend/internal/repository"
	"github.com/VitMok/bank-backend/internal/service"
	"github.com/VitMok/bank-backend/internal/service/funds"
)

const idempotencySweepInterval = time.Hour

type eventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("bank-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rates, err := cfg.Rates()
	if err != nil {
		slog.Error("failed to load exchange rates", "error", err)
		os.Exit(1)
	}
	converter, err := fx.NewConverter(rates)
	if err != nil {
		slog.Error("invalid exchange rates", "error", err)
		os.Exit(1)
	}

	txdb := repository.NewDB(db)
	checks := map[string]handler.Check{
		"database": txdb.Ping,
	}

	var publisher eventPublisher = events.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		publisher = events.NewPublisher(rdb)
		checks["redis"] = redisCheck(rdb)
	} else {
		slog.Warn("REDIS_ADDR not set, operation events are disabled")
	}

	accountRepo := repository.NewAccountRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	userRepo := repository.NewUserRepository(db)
	replenishmentRepo := repository.NewReplenishmentRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	accountSvc := service.NewAccountService(accountRepo)
	requestSvc := service.NewRequestService(requestRepo, accountRepo, userRepo, accountSvc, publisher, txdb)
	historySvc := service.NewHistoryService(replenishmentRepo, transferRepo, paymentRepo)
	fundsSvc := funds.NewService(accountRepo, accountSvc, replenishmentRepo, transferRepo, paymentRepo, converter, publisher, txdb, cfg)

	h := handlers{
		auth:     handler.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry),
		users:    handler.NewUserHandler(userRepo),
		accounts: handler.NewAccountHandler(accountSvc),
		requests: handler.NewRequestHandler(requestSvc),
		admin:    handler.NewAdminHandler(requestSvc, accountSvc),
		ops:      handler.NewOperationsHandler(fundsSvc, historySvc),
		fx:       handler.NewFXHandler(converter),
		health:   handler.NewHealthHandler(checks),
	}

	go sweepIdempotencyCache(ctx, idempotencyRepo)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h, cfg.JWTSecret, idempotencyRepo),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func redisCheck(rdb *redis.Client) handler.Check {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

type idempotencyCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

func sweepIdempotencyCache(ctx context.Context, repo idempotencyCleaner) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanExpired(ctx)
			if err != nil {
				slog.Error("idempotency sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("idempotency sweep", "deleted", n)
			}
		}
	}
}
