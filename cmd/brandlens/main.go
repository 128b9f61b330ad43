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

	"github.com/joho/godotenv"

	"github.com/brandlens/brandlens/api"
	"github.com/brandlens/brandlens/colors"
	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/extractor"
	"github.com/brandlens/brandlens/logo"
	"github.com/brandlens/brandlens/renderer"
	"github.com/brandlens/brandlens/text"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("brandlens starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxPages", cfg.Browser.MaxPages,
	)

	// ── 3. Initialise renderer (launches browser) ───────────────────
	rend, err := renderer.New(cfg.Browser, cfg.Renderer)
	if err != nil {
		slog.Error("failed to initialise renderer", "error", err)
		os.Exit(1)
	}
	defer rend.Close()

	// ── 4. Initialise signal tasks ──────────────────────────────────
	// The logo detector is optional: a missing or misconfigured Vision
	// client degrades the logo task to its fallback, it never blocks
	// startup.
	var detector logo.Detector
	var visionDetector *logo.VisionDetector
	if cfg.Logo.Enabled {
		visionDetector, err = logo.NewVisionDetector(context.Background())
		if err != nil {
			slog.Warn("logo detector unavailable, logo extraction disabled", "error", err)
		} else {
			detector = visionDetector
			defer visionDetector.Close()
		}
	}

	logoExtractor := logo.NewExtractor(detector, cfg.Logo)
	colorExtractor := colors.NewExtractor(cfg.Colors)
	textExtractor := text.NewExtractor(cfg.Summarize)

	if !textExtractor.Ready() {
		slog.Warn("no summarizer API key configured, text extraction uses heuristics only")
	}

	orchestrator := extractor.New(rend, logoExtractor, colorExtractor, textExtractor)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(orchestrator, rend,
		logoExtractor.Ready(), textExtractor.Ready(), cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
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

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// rend.Close() runs via defer — drains page pool and kills Chrome.
	slog.Info("brandlens stopped")
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
