package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/kitchenscan/api"
	"github.com/use-agent/kitchenscan/browser"
	"github.com/use-agent/kitchenscan/config"
	"github.com/use-agent/kitchenscan/extractor"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("kitchenscan starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"plannerHost", cfg.Extraction.PlannerHost,
		"strategy", cfg.Extraction.Strategy,
		"maxSessions", cfg.Admission.MaxSessions,
	)
	if cfg.Auth.Enabled && len(cfg.Auth.APIKeys) == 0 {
		slog.Warn("auth is enabled but KITCHENSCAN_API_KEYS is empty, every extraction will be rejected")
	}

	// ── 3. Initialise the orchestrator ──────────────────────────────
	// No browser is started here: every extraction launches its own.
	ex, err := extractor.New(extractor.ConfigFrom(cfg), browser.NewRodDriver())
	if err != nil {
		slog.Error("failed to initialise extractor", "error", err)
		os.Exit(1)
	}

	// ── 4. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(ex, cfg, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// In-flight extractions hold a browser until their phase timeouts expire,
	// so give them as long as one navigation.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Extraction.NavigationTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("kitchenscan stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
