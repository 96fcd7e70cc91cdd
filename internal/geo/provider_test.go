package geo

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	coords domain.Coordinates
	err    error
	calls  int
}

func (f *fakeSource) Position(ctx context.Context, _ bool) (domain.Coordinates, error) {
	f.calls++
	if f.err != nil {
		return domain.Coordinates{}, f.err
	}
	return f.coords, nil
}

func newTestProvider(source PositionSource, opts Options) *Provider {
	return NewProvider(source, opts, testLogger(), observability.NewMetricsForTesting())
}

func TestCurrent_NilSourceUnsupported(t *testing.T) {
	p := newTestProvider(nil, Options{})
	_, err := p.Current(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCurrent_FreshnessCache(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	defer domain.SetClock(nil)

	source := &fakeSource{coords: domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707}}
	p := newTestProvider(source, Options{MaxAge: 5 * time.Minute})

	first, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	// Within MaxAge the cached fix is served without touching the source.
	fake.Advance(4 * time.Minute)
	second, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)

	// Past MaxAge a new fix is forced.
	fake.Advance(2 * time.Minute)
	source.coords = domain.Coordinates{Latitude: 9.9312, Longitude: 76.2673}
	third, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, 9.9312, third.Latitude)
}

func TestCurrent_SourceErrorPassesThrough(t *testing.T) {
	source := &fakeSource{err: ErrPermissionDenied}
	p := newTestProvider(source, Options{})

	_, err := p.Current(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCurrent_DeadlineBecomesTimeout(t *testing.T) {
	source := &fakeSource{err: context.DeadlineExceeded}
	p := newTestProvider(source, Options{Timeout: 50 * time.Millisecond})

	_, err := p.Current(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCurrent_ErrorDoesNotPoisonCache(t *testing.T) {
	source := &fakeSource{err: ErrUnavailable}
	p := newTestProvider(source, Options{})

	_, err := p.Current(context.Background())
	require.Error(t, err)

	source.err = nil
	source.coords = domain.Coordinates{Latitude: 1, Longitude: 2}
	coords, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, coords.Latitude)
	assert.Equal(t, 2, source.calls)
}

func TestHTTPSource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "high", r.URL.Query().Get("accuracy"))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(positionResponse{
			Latitude:  13.0827,
			Longitude: 80.2707,
			Accuracy:  12.5,
		}))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL)
	coords, err := s.Position(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 13.0827, coords.Latitude)
	assert.Equal(t, 80.2707, coords.Longitude)
}

func TestHTTPSource_ForbiddenMeansPermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL)
	_, err := s.Position(context.Background(), false)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestHTTPSource_ServerErrorMeansUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL)
	_, err := s.Position(context.Background(), false)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPSource_MalformedBodyMeansUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL)
	_, err := s.Position(context.Background(), false)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestProviderWithHTTPSource_SlowBridgeTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestProvider(NewHTTPSource(srv.URL), Options{Timeout: 50 * time.Millisecond})
	_, err := p.Current(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}
