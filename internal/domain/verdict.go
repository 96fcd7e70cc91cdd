package domain

import (
	"fmt"
)

// Coordinates is a WGS-84 latitude/longitude pair produced once per capture
// by the geolocation provider and immutable thereafter.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Label formats coordinates the way captions and location fields expect,
// e.g. "Lat: 13.0827, Lng: 80.2707". Zero values render as "Lat: 0.0000,
// Lng: 0.0000" with no special-casing.
func (c Coordinates) Label() string {
	return fmt.Sprintf("Lat: %.4f, Lng: %.4f", c.Latitude, c.Longitude)
}

// RiskLevel is the detection service's three-level flood risk scale.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// SocialMediaAnalysis summarizes flood-related social media activity near a
// location, as reported by the detection service.
type SocialMediaAnalysis struct {
	SentimentScore   float64  `json:"sentiment_score"`
	Confidence       float64  `json:"confidence,omitempty"`
	RelevantKeywords []string `json:"relevant_keywords"`
	PostCount        int      `json:"post_count"`
	MentionCount     int      `json:"mention_count"`
	LocationKey      string   `json:"location_key,omitempty"`
}

// LocationInfo echoes the request coordinates back in a verdict.
type LocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Formatted string  `json:"formatted"`
}

// ClassificationVerdict is the flood-detection result attached to a capture.
// Produced exactly once per capture attempt and copied, not referenced, into
// the submitted Post.
type ClassificationVerdict struct {
	Success             bool                 `json:"success"`
	Prediction          map[string]float64   `json:"prediction,omitempty"`
	IsFlooded           bool                 `json:"is_flooded"`
	Confidence          float64              `json:"confidence"`
	RiskLevel           RiskLevel            `json:"risk_level,omitempty"`
	Location            *LocationInfo        `json:"location,omitempty"`
	SocialMediaAnalysis *SocialMediaAnalysis `json:"social_media_analysis,omitempty"`
	Error               string               `json:"error,omitempty"`
	Mock                bool                 `json:"mock,omitempty"`
}

// MockVerdict is the fixed substitute returned when the detection service is
// unreachable. The values are part of the client contract: callers rely on
// Mock being true to flag unverified results.
func MockVerdict() ClassificationVerdict {
	return ClassificationVerdict{
		Success: false,
		Error:   "Flood detection service unavailable",
		Mock:    true,
		Prediction: map[string]float64{
			"Flooded Scene": 0.3,
			"Non Flooded":   0.7,
		},
		IsFlooded:  false,
		Confidence: 0.7,
		RiskLevel:  RiskLow,
	}
}

// Validate checks that the verdict's numeric fields are in range and the
// risk level, if set, is one of the known values. Out-of-range verdicts from
// the detection service are coerced into the mock-fallback path by the client.
func (v ClassificationVerdict) Validate() error {
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", v.Confidence)
	}
	for label, p := range v.Prediction {
		if p < 0 || p > 1 {
			return fmt.Errorf("prediction %q probability %v outside [0,1]", label, p)
		}
	}
	switch v.RiskLevel {
	case "", RiskLow, RiskMedium, RiskHigh:
		return nil
	default:
		return fmt.Errorf("unknown risk level %q", v.RiskLevel)
	}
}

// Severity maps the verdict's risk level onto post severity. Missing or
// unknown risk levels default to medium.
func (v ClassificationVerdict) Severity() Severity {
	switch v.RiskLevel {
	case RiskHigh:
		return SeverityHigh
	case RiskLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
