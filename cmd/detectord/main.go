package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/coastwatch/hazard-report-service/internal/adapter/detecthttp"
	"github.com/coastwatch/hazard-report-service/internal/config"
	"github.com/coastwatch/hazard-report-service/internal/detect"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadDetector()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewDetectorMetrics()

	service := detect.NewService(cfg.VerdictCacheSize, logger, metrics)
	srv := detecthttp.NewServer(cfg.HTTPAddr, service, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
