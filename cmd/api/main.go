// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/handler"
	"expense-tracker/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBConn)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The database may still be coming up when the API starts.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database ping failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to PostgreSQL")

	store := postgres.NewStorage(pool)
	tokens := auth.NewTokenService(cfg)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(store, tokens, hasher)

	slog.Info("server started", "port", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
