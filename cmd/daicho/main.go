package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerops/daicho/internal/api"
	"github.com/ledgerops/daicho/internal/chat"
	"github.com/ledgerops/daicho/internal/config"
	"github.com/ledgerops/daicho/internal/events"
	"github.com/ledgerops/daicho/internal/fixtures"
	"github.com/ledgerops/daicho/internal/openai"
	"github.com/ledgerops/daicho/internal/payments"
	"github.com/ledgerops/daicho/internal/report"
	"github.com/ledgerops/daicho/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("daicho starting", "port", cfg.Port, "demo_mode", cfg.DemoMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fixtures back every dashboard read.
	fx := fixtures.NewLoader(cfg.FixturesDir, slog.Default())
	if err := fx.Load(ctx); err != nil {
		slog.Error("failed to load fixtures", "dir", cfg.FixturesDir, "error", err)
		os.Exit(1)
	}
	if err := fx.Watch(ctx); err != nil {
		slog.Warn("fixture watcher unavailable, running without hot reload", "error", err)
	}

	// Database — the live pipelines need it, demo mode does not.
	var db *store.Store
	if !cfg.DemoMode {
		if cfg.DatabaseURL == "" {
			slog.Error("DATABASE_URL is required outside demo mode")
			os.Exit(1)
		}
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	}

	llm := openai.NewClient(cfg.OpenAIAPIKey)
	apiKeySet := cfg.OpenAIAPIKey != ""
	if !apiKeySet && !cfg.DemoMode {
		slog.Warn("OPENAI_API_KEY not set, assistant endpoints will report the missing credential")
	}

	chatSvc := chat.New(db, llm, chat.Options{
		APIKeySet:     apiKeySet,
		DemoMode:      cfg.DemoMode,
		Model:         cfg.ChatModel,
		FallbackModel: cfg.ChatFallbackModel,
	}, slog.Default())

	reportSvc := report.New(db, llm, report.Options{
		APIKeySet:     apiKeySet,
		DemoMode:      cfg.DemoMode,
		Model:         cfg.ReportModel,
		FallbackModel: cfg.ReportFallbackModel,
	}, slog.Default())

	registrar := payments.NewRegistrar(cfg.PaymentsCSV, slog.Default())

	// NATS is optional — without it the dashboard just stays quiet.
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		publisher, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("nats unavailable, running without event publishing", "error", err)
		} else {
			defer publisher.Close()
			slog.Info("nats connected", "url", cfg.NatsURL)
		}
	}

	srv := api.NewServer(cfg.Port, fx, chatSvc, reportSvc, registrar, publisher, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("daicho ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("daicho stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
