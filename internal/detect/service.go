package detect

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"math"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

// ModelName identifies the analysis model reported by the health endpoint.
const ModelName = "coastwatch/flood-image-detection"

// Combined risk weighting: 30% image analysis, 30% social media sentiment,
// 40% other factors (a fixed environmental baseline until weather and
// historical feeds land).
const (
	imageWeight        = 0.30
	socialWeight       = 0.30
	otherWeight        = 0.40
	otherFactorsScore  = 0.25
	floodedThreshold   = 0.3
	defaultSocialScore = 0.3
)

// Request is a single detection call: an encoded scene image plus the
// optional capture coordinates.
type Request struct {
	Image       string              `json:"image"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

// Service scores images for flood likelihood. The analysis is deterministic
// per (image, coordinates) pair, so verdicts are served from an LRU cache on
// repeat lookups.
type Service struct {
	cache   *verdictCache
	logger  *slog.Logger
	metrics *observability.DetectorMetrics
}

// NewService creates a detection service. cacheSize <= 0 disables caching.
func NewService(cacheSize int, logger *slog.Logger, metrics *observability.DetectorMetrics) *Service {
	var cache *verdictCache
	if cacheSize > 0 {
		cache = newVerdictCache(cacheSize)
	}
	return &Service{cache: cache, logger: logger, metrics: metrics}
}

// Detect runs the full analysis and never fails: malformed input yields an
// unsuccessful verdict with the error field set.
func (s *Service) Detect(ctx context.Context, req Request) domain.ClassificationVerdict {
	start := time.Now()
	verdict := s.detect(ctx, req)
	s.metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	if verdict.Success {
		s.metrics.DetectionsTotal.WithLabelValues("ok").Inc()
	} else {
		s.metrics.DetectionsTotal.WithLabelValues("invalid").Inc()
	}
	return verdict
}

func (s *Service) detect(_ context.Context, req Request) domain.ClassificationVerdict {
	if req.Image == "" {
		return errorVerdict("No image data provided")
	}

	if s.cache != nil {
		if verdict, ok := s.cache.get(cacheKey(req)); ok {
			s.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return verdict
		}
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	data, _, err := capture.DecodeDataURL(req.Image)
	if err != nil {
		return errorVerdict("Invalid image data")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errorVerdict("Invalid image data")
	}

	features := analyzeImage(img)
	floodProb := floodProbability(features)
	prediction := map[string]float64{
		"Flooded Scene": round3(floodProb),
		"Non Flooded":   round3(1.0 - floodProb),
	}

	var social *domain.SocialMediaAnalysis
	socialScore := defaultSocialScore
	if req.Coordinates != nil {
		analysis := analyzeSocialMedia(req.Coordinates.Latitude, req.Coordinates.Longitude, req.Coordinates.Label())
		social = &analysis
		socialScore = analysis.SentimentScore
	}

	combined := floodProb*imageWeight + socialScore*socialWeight + otherFactorsScore*otherWeight
	isFlooded := combined > floodedThreshold
	confidence := math.Max(combined, 1.0-combined)

	verdict := domain.ClassificationVerdict{
		Success:             true,
		Prediction:          prediction,
		IsFlooded:           isFlooded,
		Confidence:          round3(confidence),
		RiskLevel:           riskLevel(isFlooded, confidence, social),
		SocialMediaAnalysis: social,
	}
	if req.Coordinates != nil {
		verdict.Location = &domain.LocationInfo{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
			Formatted: req.Coordinates.Label(),
		}
	}

	if s.cache != nil {
		s.cache.put(cacheKey(req), verdict)
	}

	s.logger.Info("flood detection completed",
		"flooded", isFlooded,
		"confidence", verdict.Confidence,
		"image_score", floodProb,
		"social_score", socialScore,
		"combined_score", combined,
	)
	return verdict
}

// riskLevel grades the verdict on thresholds tuned for early high tide
// warning. Social media volume and confidence pull the adjusted confidence up
// or down before grading.
func riskLevel(isFlooded bool, confidence float64, social *domain.SocialMediaAnalysis) domain.RiskLevel {
	adjusted := confidence
	if social != nil {
		postVolume := math.Min(1.0, float64(social.PostCount)/50.0)
		adjusted = confidence*0.7 + social.Confidence*0.2 + postVolume*0.1
	}

	switch {
	case isFlooded && adjusted > 0.6:
		return domain.RiskHigh
	case isFlooded && adjusted > 0.4:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func errorVerdict(msg string) domain.ClassificationVerdict {
	return domain.ClassificationVerdict{Success: false, Error: msg}
}
