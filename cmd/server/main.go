package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pokernight/ledger/internal/auth"
	"github.com/pokernight/ledger/internal/config"
	"github.com/pokernight/ledger/internal/handler"
	"github.com/pokernight/ledger/internal/service"
	"github.com/pokernight/ledger/internal/storage"
	"github.com/pokernight/ledger/internal/storage/memory"
	"github.com/pokernight/ledger/internal/storage/sqlite"
	"github.com/pokernight/ledger/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	if cfg.Database.Path == "" {
		store = memory.New()
		slog.Info("storage initialized", "backend", "memory")
	} else {
		store, err = sqlite.New(cfg.Database.Path)
		if err != nil {
			slog.Error("failed to initialize storage", "error", err)
			os.Exit(1)
		}
		slog.Info("storage initialized", "backend", "sqlite", "database", cfg.Database.Path)
	}
	defer store.Close()

	opts := handler.Options{MetricsEnabled: cfg.Metrics.Enabled}
	if cfg.Auth.Enabled() {
		opts.Tokens = auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
		opts.PassphraseHash = cfg.Auth.PassphraseHash
		slog.Info("operator auth enabled", "token_ttl", cfg.Auth.TokenTTL)
	}

	h := handler.New(service.New(store), opts)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
