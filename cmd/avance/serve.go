package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/obralink/avance/pkg/api"
	"github.com/obralink/avance/pkg/config"
	"github.com/obralink/avance/pkg/observability"
	"github.com/obralink/avance/pkg/store"
)

func runServe(stdout, stderr io.Writer) int {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)
	logger := slog.Default().With("component", "main")

	fmt.Fprintf(stdout, "%sAvance starting...%s\n", ColorBold+ColorBlue, ColorReset)

	reader, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("store init failed", "error", err)
		return 1
	}
	defer closeStore()

	profile, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		logger.Error("report profile load failed", "path", cfg.ProfilePath, "error", err)
		return 1
	}

	ctx := context.Background()
	obsCfg := observability.DefaultConfig()
	obsCfg.Enabled = cfg.TelemetryEnabled
	obsCfg.OTLPEndpoint = cfg.OTLPEndpoint
	obs, err := observability.New(ctx, obsCfg)
	if err != nil {
		logger.Error("telemetry init failed", "error", err)
		return 1
	}

	srv := api.NewServer(cfg, reader, obs, profile.DatePolicy())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "profile", profile.Name)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			return 1
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}
	return 0
}

// openStore picks Postgres when DATABASE_URL is set, otherwise the
// embedded SQLite database.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("postgres connected")
		return pg, func() { _ = pg.Close() }, nil
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	lite, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("sqlite ready", "path", cfg.SQLitePath)
	return lite, func() { _ = lite.Close() }, nil
}

func loadProfile(path string) (*config.ReportProfile, error) {
	if path == "" {
		return config.DefaultProfile(), nil
	}
	return config.LoadProfile(path)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
