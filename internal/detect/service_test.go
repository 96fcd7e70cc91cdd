package detect

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

func testService(t *testing.T, cacheSize int) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(cacheSize, logger, observability.NewDetectorMetricsForTesting())
}

func encodedImage(t *testing.T, c color.RGBA) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(80, 80, c)))
	encoded, err := capture.EncodeDataURL(&buf)
	require.NoError(t, err)
	return encoded
}

var chennaiCoords = &domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707}

func TestDetect_EmptyImage(t *testing.T) {
	got := testService(t, 0).Detect(context.Background(), Request{})

	assert.False(t, got.Success)
	assert.Equal(t, "No image data provided", got.Error)
}

func TestDetect_UndecodableImage(t *testing.T) {
	got := testService(t, 0).Detect(context.Background(), Request{Image: "data:image/png;base64,bm90IGFuIGltYWdl"})

	assert.False(t, got.Success)
	assert.Equal(t, "Invalid image data", got.Error)
}

func TestDetect_BlueSceneWithCoordinates(t *testing.T) {
	req := Request{
		Image:       encodedImage(t, color.RGBA{R: 30, G: 80, B: 200, A: 255}),
		Coordinates: chennaiCoords,
	}

	got := testService(t, 0).Detect(context.Background(), req)

	require.True(t, got.Success)
	assert.False(t, got.Mock)
	assert.True(t, got.IsFlooded, "an all-water frame near Chennai scores as flooded")
	assert.InDelta(t, 1.0, got.Prediction["Flooded Scene"]+got.Prediction["Non Flooded"], 0.002)
	assert.GreaterOrEqual(t, got.Confidence, 0.5)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.NotEqual(t, domain.RiskLevel(""), got.RiskLevel)

	require.NotNil(t, got.Location)
	assert.Equal(t, 13.0827, got.Location.Latitude)
	assert.Equal(t, "Lat: 13.0827, Lng: 80.2707", got.Location.Formatted)

	require.NotNil(t, got.SocialMediaAnalysis)
	assert.Equal(t, "chennai", got.SocialMediaAnalysis.LocationKey)

	require.NoError(t, got.Validate())
}

func TestDetect_DarkSceneWithoutCoordinates(t *testing.T) {
	req := Request{Image: encodedImage(t, color.RGBA{R: 20, G: 20, B: 20, A: 255})}

	got := testService(t, 0).Detect(context.Background(), req)

	require.True(t, got.Success)
	assert.False(t, got.IsFlooded, "a dark dry frame with no social signal stays below threshold")
	assert.Equal(t, domain.RiskLow, got.RiskLevel)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.SocialMediaAnalysis)
}

func TestDetect_Deterministic(t *testing.T) {
	req := Request{Image: encodedImage(t, color.RGBA{R: 30, G: 80, B: 200, A: 255}), Coordinates: chennaiCoords}
	svc := testService(t, 0)

	first := svc.Detect(context.Background(), req)
	second := svc.Detect(context.Background(), req)
	assert.Equal(t, first, second)
}

func TestDetect_CachedVerdictMatchesFresh(t *testing.T) {
	req := Request{Image: encodedImage(t, color.RGBA{R: 30, G: 80, B: 200, A: 255}), Coordinates: chennaiCoords}
	svc := testService(t, 8)

	first := svc.Detect(context.Background(), req)
	second := svc.Detect(context.Background(), req)
	assert.Equal(t, first, second)

	// Same frame, different coordinates: a distinct cache entry, not a stale hit.
	other := svc.Detect(context.Background(), Request{Image: req.Image})
	assert.Nil(t, other.Location)
}

func TestRiskLevel(t *testing.T) {
	social := &domain.SocialMediaAnalysis{Confidence: 0.72, PostCount: 45}

	tests := []struct {
		name       string
		flooded    bool
		confidence float64
		social     *domain.SocialMediaAnalysis
		want       domain.RiskLevel
	}{
		{"high with strong social backing", true, 0.75, social, domain.RiskHigh},
		{"medium", true, 0.45, social, domain.RiskMedium},
		{"low confidence still low", true, 0.2, social, domain.RiskLow},
		{"not flooded is always low", false, 0.95, social, domain.RiskLow},
		{"no social data uses raw confidence", true, 0.65, nil, domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, riskLevel(tt.flooded, tt.confidence, tt.social))
		})
	}
}
