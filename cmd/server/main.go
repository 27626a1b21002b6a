package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lingvoapp/auth-service/config"
	"github.com/lingvoapp/auth-service/internal/health"
	"github.com/lingvoapp/auth-service/internal/infrastructure/memstore"
	"github.com/lingvoapp/auth-service/internal/infrastructure/postgres"
	"github.com/lingvoapp/auth-service/internal/infrastructure/redisstore"
	ctxlog "github.com/lingvoapp/auth-service/internal/log"
	"github.com/lingvoapp/auth-service/internal/metrics"
	"github.com/lingvoapp/auth-service/internal/repository"
	"github.com/lingvoapp/auth-service/internal/telegram"
	"github.com/lingvoapp/auth-service/internal/token"
	httptransport "github.com/lingvoapp/auth-service/internal/transport/http"
	"github.com/lingvoapp/auth-service/internal/transport/http/handler"
	"github.com/lingvoapp/auth-service/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)

	// Verification codes live in Redis when REDIS_URL is set; otherwise
	// they stay in an in-process map, which only suits a single local node.
	var codes repository.CodeRepository
	var cache health.Pinger
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()

		store := redisstore.NewCodeRepository(client)
		if err := store.Ping(ctx); err != nil {
			return err
		}
		codes = store
		cache = store
	} else {
		logger.Warn("REDIS_URL not set, storing verification codes in process memory")
		codes = memstore.NewCodeRepository()
	}

	tokens := token.NewProvider([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	sender, err := telegram.NewSender(cfg.Env, cfg.BotToken, cfg.CodeTTL, logger)
	if err != nil {
		return err
	}

	auth := usecase.NewAuthUsecase(users, codes, tokens, sender, cfg.CodeTTL)

	metrics.Register()
	checker := health.NewChecker(pool, cache, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, handler.NewAuthHandler(auth, logger), tokens)

	apiServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	metricsServer := metrics.NewServer(":"+cfg.MetricsPort, checker)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("starting auth API", "port", cfg.Port, "env", cfg.Env)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("starting metrics server", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var inner slog.Handler
	if cfg.Env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
