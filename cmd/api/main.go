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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splax/accounts/internal/app/migrate"
	"github.com/splax/accounts/internal/auth"
	"github.com/splax/accounts/internal/cache"
	"github.com/splax/accounts/internal/config"
	httpx "github.com/splax/accounts/internal/http"
	"github.com/splax/accounts/internal/logging"
	"github.com/splax/accounts/internal/repository/postgres"
	"github.com/splax/accounts/internal/service/account"
)

func main() {
	cfg := config.Load()
	log := logging.New("api", slog.LevelInfo)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Error("invalid token configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)

	// The cache is advisory: if Redis is unreachable the service still
	// starts, on an in-process cache, and the store stays authoritative.
	profiles, err := cache.NewRedisProfileCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ProfileCacheTTL, log)
	if err != nil {
		log.Warn("redis profile cache unavailable, using in-memory cache", "error", err)
		profiles = cache.NewMemoryProfileCache(cfg.ProfileCacheTTL)
	}
	defer profiles.Close()

	accounts := account.New(repo, profiles, tokens, log, cfg.BcryptCost)

	limiter := httpx.NewMemoryRateLimiter()
	if redisLimiter, err := httpx.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log); err != nil {
		log.Warn("redis rate limiter unavailable", "error", err)
	} else {
		limiter = redisLimiter
	}

	router := httpx.NewRouter(log, accounts, tokens, limiter, pool.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
