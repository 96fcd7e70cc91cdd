package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// Report holds all hazard report service settings, populated from
// environment variables.
type Report struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Flood detection classifier endpoint.
	DetectorURL     string
	DetectorTimeout time.Duration

	// Geolocation source configuration.
	GeoSourceURL    string
	GeoEnabled      bool
	GeoTimeout      time.Duration
	GeoMaxAge       time.Duration
	GeoHighAccuracy bool

	// Fallback location used when geolocation fails.
	FallbackPlaceName   string
	FallbackCoordinates domain.Coordinates

	OverlayTimeout time.Duration

	// Optional report event publishing.
	KafkaBrokers []string
	ReportsTopic string

	// Optional feed seed fixture override.
	SeedFile string
}

// LoadReport reads the report service configuration from environment
// variables, applying defaults where unset.
func LoadReport() (*Report, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	detectorTimeout, err := parseDuration("DETECTOR_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	geoTimeout, err := parseDuration("GEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geoMaxAge, err := parseDuration("GEO_MAX_AGE", "5m")
	if err != nil {
		return nil, err
	}
	overlayTimeout, err := parseDuration("OVERLAY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	fallbackLat, err := parseFloat("FALLBACK_LAT", "13.0827")
	if err != nil {
		return nil, err
	}
	fallbackLng, err := parseFloat("FALLBACK_LNG", "80.2707")
	if err != nil {
		return nil, err
	}

	geoSourceURL := os.Getenv("GEO_SOURCE_URL")
	geoEnabled := geoSourceURL != ""
	if v := os.Getenv("GEO_ENABLED"); v != "" {
		geoEnabled = v == "true"
	}

	cfg := &Report{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DetectorURL:     envOrDefault("DETECTOR_URL", "http://localhost:5000/api/flood-detection"),
		DetectorTimeout: detectorTimeout,

		GeoSourceURL:    geoSourceURL,
		GeoEnabled:      geoEnabled,
		GeoTimeout:      geoTimeout,
		GeoMaxAge:       geoMaxAge,
		GeoHighAccuracy: envOrDefault("GEO_HIGH_ACCURACY", "true") == "true",

		FallbackPlaceName: envOrDefault("FALLBACK_PLACE_NAME", "Marina Beach, Chennai"),
		FallbackCoordinates: domain.Coordinates{
			Latitude:  fallbackLat,
			Longitude: fallbackLng,
		},

		OverlayTimeout: overlayTimeout,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		ReportsTopic: os.Getenv("REPORTS_TOPIC"),

		SeedFile: os.Getenv("SEED_FILE"),
	}

	if cfg.DetectorURL == "" {
		return nil, errors.New("DETECTOR_URL is required")
	}
	if cfg.GeoEnabled && cfg.GeoSourceURL == "" {
		return nil, errors.New("GEO_ENABLED is true but GEO_SOURCE_URL is not set")
	}
	if cfg.ReportsTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("REPORTS_TOPIC is set but KAFKA_BROKERS is not")
	}

	return cfg, nil
}

// Detector holds the flood detection service settings.
type Detector struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	VerdictCacheSize int
}

// LoadDetector reads the detection service configuration from environment
// variables, applying defaults where unset.
func LoadDetector() (*Detector, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheSize := 256
	if s := os.Getenv("VERDICT_CACHE_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, errors.New("invalid VERDICT_CACHE_SIZE")
		}
		cacheSize = n
	}

	return &Detector{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":5000"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		VerdictCacheSize: cacheSize,
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
