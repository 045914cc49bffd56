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

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resume_optimizer/internal/app/config"
	"resume_optimizer/internal/app/di"
	"resume_optimizer/internal/app/router"
	"resume_optimizer/internal/feature/resumeanalysis/transport/handler"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
	infradb "resume_optimizer/internal/platform/db"
	healthhandler "resume_optimizer/internal/platform/http/handler"
	infraredis "resume_optimizer/internal/platform/redis"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GoogleAPIKey == "" {
		slog.Warn("GOOGLE_API_KEY is not set. Requests must supply api_key.")
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. The /v1 API is open.")
	}

	var checks []healthhandler.Check

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
			checks = append(checks, healthhandler.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	// 履歴DB
	var db *gorm.DB
	if cfg.DB.Enabled() {
		db, err = infradb.OpenDB(cfg.DB)
		if err != nil {
			slog.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		checks = append(checks, healthhandler.Check{Name: "history", Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}

	extractor, closeExtractor, err := di.NewTextExtractor(ctx, cfg)
	if err != nil {
		slog.Error("failed to create text extractor", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeExtractor(); err != nil {
			slog.Error("failed to close text extractor", "error", err)
		}
	}()

	// Usecase
	analysisUC := usecase.NewAnalysisService(
		extractor,
		di.NewAnalyzer(cfg, rdb),
		di.NewHistoryRepository(db),
		cfg.GoogleAPIKey,
		cfg.Provider,
	)

	// Handler
	r := router.NewRouter(
		healthhandler.NewHealthHandler(checks...),
		handler.NewAnalysisHandler(analysisUC),
		handler.NewPageHandler(analysisUC, cfg.GoogleAPIKey != ""),
		cfg.JWTSecret,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
