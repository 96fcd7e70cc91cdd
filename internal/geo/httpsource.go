package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// HTTPSource reads position fixes from a companion location bridge (a GPS
// daemon or mobile shell exposing the device position over HTTP).
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a source querying the given endpoint. The per-fix
// timeout is enforced by the Provider through the request context, so the
// client itself carries none.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{},
	}
}

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Position performs a single GET against the bridge endpoint and translates
// transport failures into the package's typed errors.
func (s *HTTPSource) Position(ctx context.Context, highAccuracy bool) (domain.Coordinates, error) {
	url := s.url
	if highAccuracy {
		url += "?accuracy=high"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("create position request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return domain.Coordinates{}, ErrPermissionDenied
	case resp.StatusCode != http.StatusOK:
		return domain.Coordinates{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var pos positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return domain.Coordinates{Latitude: pos.Latitude, Longitude: pos.Longitude}, nil
}
