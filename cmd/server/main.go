package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/UIGF-org/UIGF-API/internal/cache"
	"github.com/UIGF-org/UIGF-API/internal/checksum"
	"github.com/UIGF-org/UIGF-API/internal/config"
	"github.com/UIGF-org/UIGF-API/internal/db"
	"github.com/UIGF-org/UIGF-API/internal/dictionary"
	"github.com/UIGF-org/UIGF-API/internal/fetcher"
	"github.com/UIGF-org/UIGF-API/internal/migrations"
	"github.com/UIGF-org/UIGF-API/internal/redis"
	"github.com/UIGF-org/UIGF-API/internal/refresh"
	"github.com/UIGF-org/UIGF-API/internal/router"
	"github.com/UIGF-org/UIGF-API/internal/store"
	"github.com/UIGF-org/UIGF-API/internal/translator"
)

func main() {
	config.LoadDotEnvUp(8)

	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "local" {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.NewRunner(pool).Up(ctx); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer redis.Close(rdb)

	repo := store.NewRepo(pool)
	mirror := cache.NewMirror(rdb)
	dict := dictionary.NewMaterializer(repo, cfg.Dict.Root)
	sums := checksum.New(cfg.Dict.Root)
	resolver := translator.NewResolver(repo)

	sources := fetcher.Sources(&http.Client{Timeout: cfg.Upstream.Timeout}, cfg.Upstream.GithubToken)
	orch, err := refresh.New(repo, mirror, dict, sums, sources, cfg.Refresh.Workers, logger)
	if err != nil {
		logger.Fatal("refresh pool init failed", zap.Error(err))
	}
	defer orch.Close()

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.New(router.Dependencies{
			Resolver:     resolver,
			Dictionaries: dict,
			Checksums:    sums,
			Refresher:    orch,
			RefreshToken: cfg.Refresh.Token,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
