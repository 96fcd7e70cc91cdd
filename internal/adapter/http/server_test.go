package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/coastwatch/hazard-report-service/internal/adapter/http"
	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/feed"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

type stubLocator struct{}

func (stubLocator) Current(_ context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707}, nil
}

type stubAnnotator struct{}

func (stubAnnotator) Annotate(_ context.Context, source string, _ domain.Coordinates) (string, error) {
	return source + "#annotated", nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, _ string, _ domain.Coordinates) domain.ClassificationVerdict {
	return domain.ClassificationVerdict{Success: true, Confidence: 0.8, RiskLevel: domain.RiskMedium}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	logger := testLogger()
	fallback := capture.Fallback{
		PlaceName:   "Marina Beach, Chennai",
		Coordinates: domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707},
	}
	pipeline := capture.New(stubLocator{}, stubAnnotator{}, stubClassifier{}, fallback, logger, metrics)
	store := feed.NewStore(feed.DefaultSeed(), nil, logger, metrics)
	return httpadapter.NewServer(":0", pipeline, store, store, logger)
}

func do(t *testing.T, srv *httpadapter.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil && method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func pngUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			img.SetRGBA(x, y, color.RGBA{B: 180, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "scene.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestListPosts(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []domain.Post
	decodeInto(t, rec, &posts)
	assert.Len(t, posts, 5)

	rec = do(t, srv, http.MethodGet, "/api/posts?filter=cyclone", nil)
	decodeInto(t, rec, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "Cyclone", posts[0].HazardType)
}

func TestGetPost(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/posts/seed-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var post domain.Post
	decodeInto(t, rec, &post)
	assert.Equal(t, "seed-1", post.ID)

	rec = do(t, srv, http.MethodGet, "/api/posts/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikePost(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/posts/seed-1/like", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var post domain.Post
	decodeInto(t, rec, &post)
	assert.Equal(t, 46, post.Likes)

	rec = do(t, srv, http.MethodPost, "/api/posts/nope/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitPost(t *testing.T) {
	srv := newTestServer(t)

	sub := feed.Submission{
		Capture: capture.Result{
			State:          capture.StateReady,
			SourceImage:    "data:image/jpeg;base64,c3Jj",
			AnnotatedImage: "data:image/jpeg;base64,YW5u",
			Coordinates:    domain.Coordinates{Latitude: 9.9312, Longitude: 76.2673},
			LocationLabel:  "Lat: 9.9312, Lng: 76.2673",
			Verdict:        domain.ClassificationVerdict{Success: true, RiskLevel: domain.RiskHigh},
		},
		HazardType: "Cyclone",
	}
	body, err := json.Marshal(sub)
	require.NoError(t, err)

	rec := do(t, srv, http.MethodPost, "/api/posts", bytes.NewReader(body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var post domain.Post
	decodeInto(t, rec, &post)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "Cyclone reported at Lat: 9.9312, Lng: 76.2673", post.Content)
	assert.Equal(t, domain.SeverityHigh, post.Severity)
}

func TestSubmitPost_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/posts", bytes.NewReader([]byte("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sub := feed.Submission{Capture: capture.Result{}, HazardType: "Earthquake"}
	body, err := json.Marshal(sub)
	require.NoError(t, err)

	rec = do(t, srv, http.MethodPost, "/api/posts", bytes.NewReader(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeInto(t, rec, &resp)
	assert.Contains(t, resp["error"], "unknown hazard type")
}

func TestCapture_MultipartUpload(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := pngUpload(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/capture", body)
	req.Header.Set("Content-Type", contentType)
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result capture.Result
	decodeInto(t, rec, &result)
	assert.Equal(t, capture.StateReady, result.State)
	assert.Equal(t, "Lat: 13.0827, Lng: 80.2707", result.LocationLabel)
	assert.NotEqual(t, result.SourceImage, result.AnnotatedImage)
	assert.True(t, result.Verdict.Success)
}

func TestCapture_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no image here"))
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/capture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCapture_NonImageFile(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text, not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/capture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaticCollections(t *testing.T) {
	srv := newTestServer(t)

	var alerts []domain.Alert
	decodeInto(t, do(t, srv, http.MethodGet, "/api/alerts", nil), &alerts)
	assert.Len(t, alerts, 2)

	var tips []domain.Tip
	decodeInto(t, do(t, srv, http.MethodGet, "/api/tips", nil), &tips)
	assert.Len(t, tips, 4)

	var hazards []domain.HazardType
	decodeInto(t, do(t, srv, http.MethodGet, "/api/hazard-types", nil), &hazards)
	require.Len(t, hazards, 5)
	assert.Equal(t, "all", hazards[0].ID)
}

func TestProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	decodeInto(t, rec, &user)
	assert.Equal(t, "John Doe", user.Name)
	assert.Len(t, user.Badges, 4)
}

func TestTranslations(t *testing.T) {
	srv := newTestServer(t)

	var en map[string]string
	decodeInto(t, do(t, srv, http.MethodGet, "/api/translations", nil), &en)
	assert.Equal(t, "Submit Report", en["submit"])

	var hi map[string]string
	decodeInto(t, do(t, srv, http.MethodGet, "/api/translations?lang=hi", nil), &hi)
	assert.Equal(t, "रिपोर्ट जमा करें", hi["submit"])
}

func TestHealthAndReadiness(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeInto(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])

	rec = do(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
