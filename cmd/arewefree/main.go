// arewefree serves uploaded class schedules and the week model computed
// from them: merged busy spans per person and the segments where two or
// more people are busy at the same time.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thekevindong/AreWeFree/internal/config"
	"github.com/thekevindong/AreWeFree/internal/server"
	"github.com/thekevindong/AreWeFree/internal/store"
)

var Version = "dev"

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default: ~/.config/arewefree/config.yaml)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	// Setup logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect the upload store
	uploads := store.New(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	err = uploads.Ping(pingCtx)
	cancel()
	if err != nil {
		slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}

	srv := server.New(uploads, cfg.Recompute.Debounce, Version)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Router(),
	}

	go func() {
		slog.Info("starting arewefree",
			"listen", cfg.Server.Listen,
			"redis", cfg.Redis.Addr,
			"debounce", cfg.Recompute.Debounce,
			"version", Version,
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("received signal, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
