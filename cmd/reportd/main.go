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

	"github.com/coastwatch/hazard-report-service/internal/adapter/detector"
	httpadapter "github.com/coastwatch/hazard-report-service/internal/adapter/http"
	kafkaadapter "github.com/coastwatch/hazard-report-service/internal/adapter/kafka"
	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/config"
	"github.com/coastwatch/hazard-report-service/internal/feed"
	"github.com/coastwatch/hazard-report-service/internal/geo"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadReport()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geolocation is feature-flagged: without a source URL every capture
	// degrades to the configured fallback location.
	var source geo.PositionSource
	if cfg.GeoEnabled {
		source = geo.NewHTTPSource(cfg.GeoSourceURL)
		logger.Info("geolocation enabled", "source", cfg.GeoSourceURL, "timeout", cfg.GeoTimeout, "max_age", cfg.GeoMaxAge)
	} else {
		logger.Info("geolocation disabled, captures will use the fallback location")
	}
	locator := geo.NewProvider(source, geo.Options{
		Timeout:      cfg.GeoTimeout,
		MaxAge:       cfg.GeoMaxAge,
		HighAccuracy: cfg.GeoHighAccuracy,
	}, logger, metrics)

	classifier := detector.NewClient(cfg.DetectorURL, cfg.DetectorTimeout, metrics, logger)
	renderer := capture.NewOverlayRenderer(cfg.OverlayTimeout)

	pipeline := capture.New(locator, renderer, classifier, capture.Fallback{
		PlaceName:   cfg.FallbackPlaceName,
		Coordinates: cfg.FallbackCoordinates,
	}, logger, metrics)

	seed := feed.DefaultSeed()
	if cfg.SeedFile != "" {
		seed, err = feed.LoadSeed(cfg.SeedFile)
		if err != nil {
			logger.Error("failed to load seed file", "path", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		logger.Info("feed seeded from file", "path", cfg.SeedFile, "posts", len(seed.Posts))
	}

	var publisher feed.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.ReportsTopic != "" {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.ReportsTopic, logger)
		publisher = kafkaPublisher
		logger.Info("report publishing enabled", "topic", cfg.ReportsTopic, "brokers", cfg.KafkaBrokers)
	}

	store := feed.NewStore(seed, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, pipeline, store, store, logger)

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
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
