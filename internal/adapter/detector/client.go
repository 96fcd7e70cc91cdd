// Package detector is the HTTP client for the flood-detection service.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

// Client calls the flood-detection endpoint. It is total: any failure
// (network error, non-2xx status, malformed or out-of-range body) is
// absorbed into the fixed mock verdict so report submission is never
// blocked by classifier unavailability. At most one request per call, no
// retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a detection client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

type detectionRequest struct {
	Image       string             `json:"image"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// Classify sends the encoded image and coordinates for scoring. The verdict
// is passed through verbatim on success; every failure path yields
// domain.MockVerdict instead of an error.
func (c *Client) Classify(ctx context.Context, image string, coords domain.Coordinates) domain.ClassificationVerdict {
	start := time.Now()
	verdict, err := c.classify(ctx, image, coords)
	c.metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ClassifierRequests.WithLabelValues("degraded").Inc()
		c.logger.Warn("flood detection unavailable, substituting mock verdict", "error", err)
		return domain.MockVerdict()
	}
	c.metrics.ClassifierRequests.WithLabelValues("ok").Inc()
	return verdict
}

func (c *Client) classify(ctx context.Context, image string, coords domain.Coordinates) (domain.ClassificationVerdict, error) {
	body, err := json.Marshal(detectionRequest{Image: image, Coordinates: coords})
	if err != nil {
		return domain.ClassificationVerdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ClassificationVerdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClassificationVerdict{}, fmt.Errorf("flood detection request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.ClassificationVerdict{}, fmt.Errorf("flood detection API error: status %d: %s", resp.StatusCode, respBody)
	}

	var verdict domain.ClassificationVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return domain.ClassificationVerdict{}, fmt.Errorf("decode response: %w", err)
	}
	if err := verdict.Validate(); err != nil {
		return domain.ClassificationVerdict{}, fmt.Errorf("invalid verdict: %w", err)
	}
	return verdict, nil
}
