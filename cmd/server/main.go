package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	spjallroot "github.com/vesturport/spjall"
	"github.com/vesturport/spjall/internal/config"
	"github.com/vesturport/spjall/internal/notify"
	"github.com/vesturport/spjall/internal/repository"
	"github.com/vesturport/spjall/internal/server"
	"github.com/vesturport/spjall/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(spjallroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and services
	chatLogs := repository.NewChatLogRepo(pool)
	reactions := repository.NewReactionRepo(pool)
	completion := service.NewTGIClient(cfg.OpenAIBaseURL, cfg.HuggingFaceKey)
	relay := service.NewStreamRelay(chatLogs, completion, service.PricingFromConfig(cfg))
	chat2 := service.NewTemplatedClient(cfg.Chat2APIURL, cfg.HuggingFaceKey)

	// Optional Telegram error notifier
	var notifier *notify.TelegramNotifier
	if cfg.NotifierEnabled() {
		notifier, err = notify.NewTelegramNotifier(cfg.LogTelegramToken, cfg.LogTelegramChatID)
		if err != nil {
			slog.Error("telegram notifier unavailable", "error", err)
			notifier = nil
		}
	}

	e := server.New(server.Deps{
		Cfg:       cfg,
		Relay:     relay,
		Chat2:     chat2,
		Chats:     chatLogs,
		Reactions: reactions,
		Notifier:  notifier,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: e,
	}

	go func() {
		slog.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}
