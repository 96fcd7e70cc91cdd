package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

// State is the terminal state of a capture attempt. Both states advance the
// reporting flow; they differ only in the content of the location and
// verdict fields.
type State string

const (
	StateReady    State = "ready"
	StateDegraded State = "degraded"
)

// Locator produces a single position fix.
type Locator interface {
	Current(ctx context.Context) (domain.Coordinates, error)
}

// Annotator stamps the caption overlay onto an encoded image.
type Annotator interface {
	Annotate(ctx context.Context, source string, coords domain.Coordinates) (string, error)
}

// Classifier scores an encoded image for flood risk. Implementations are
// total: they degrade to a mock verdict instead of returning an error.
type Classifier interface {
	Classify(ctx context.Context, image string, coords domain.Coordinates) domain.ClassificationVerdict
}

// Fallback is the location substituted when geolocation fails.
type Fallback struct {
	PlaceName   string
	Coordinates domain.Coordinates
}

// Result is a completed capture: everything the report wizard needs to
// build a Post. Coordinates and Verdict always come from the same run.
type Result struct {
	State          State                        `json:"state"`
	SourceImage    string                       `json:"source_image"`
	AnnotatedImage string                       `json:"annotated_image"`
	Coordinates    domain.Coordinates           `json:"coordinates"`
	LocationLabel  string                       `json:"location_label"`
	CapturedAt     time.Time                    `json:"captured_at"`
	Verdict        domain.ClassificationVerdict `json:"verdict"`
}

// Pipeline drives the encode-locate-annotate-classify sequence for one
// photo selection.
type Pipeline struct {
	locator    Locator
	annotator  Annotator
	classifier Classifier
	fallback   Fallback
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a capture Pipeline.
func New(locator Locator, annotator Annotator, classifier Classifier, fallback Fallback, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		locator:    locator,
		annotator:  annotator,
		classifier: classifier,
		fallback:   fallback,
		logger:     logger,
		metrics:    metrics,
	}
}

// Capture runs the pipeline on a selected image file.
//
// An unreadable file is the only terminal failure: the attempt aborts and
// the caller returns to the capture step. A geolocation failure degrades to
// the configured fallback location, skips the overlay, and still classifies
// with the fallback coordinates. The classifier never fails, so every
// readable image yields a Result.
func (p *Pipeline) Capture(ctx context.Context, file io.Reader) (Result, error) {
	start := time.Now()
	p.metrics.CapturesInFlight.Inc()
	defer p.metrics.CapturesInFlight.Dec()

	source, err := EncodeDataURL(file)
	if err != nil {
		p.metrics.CaptureErrors.Inc()
		return Result{}, fmt.Errorf("encode image: %w", err)
	}

	res := Result{
		State:       StateReady,
		SourceImage: source,
		CapturedAt:  domain.Now(),
	}

	coords, err := p.locator.Current(ctx)
	if err != nil {
		p.logger.Warn("geolocation failed, using fallback location", "error", err)
		res.State = StateDegraded
		res.Coordinates = p.fallback.Coordinates
		res.LocationLabel = p.fallback.PlaceName
	} else {
		res.Coordinates = coords
		res.LocationLabel = coords.Label()
	}

	// Annotation and classification both depend only on the encoded image
	// and the coordinates, so they run concurrently. On the degraded path
	// the overlay is skipped and the source image stands in for it.
	var (
		wg          sync.WaitGroup
		annotated   string
		annotateErr error
	)
	if res.State == StateReady {
		wg.Add(1)
		go func() {
			defer wg.Done()
			annotated, annotateErr = p.annotator.Annotate(ctx, source, res.Coordinates)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		res.Verdict = p.classifier.Classify(ctx, source, res.Coordinates)
	}()
	wg.Wait()

	res.AnnotatedImage = source
	if res.State == StateReady {
		if annotateErr != nil {
			p.logger.Warn("overlay failed, keeping source image", "error", annotateErr)
		} else {
			res.AnnotatedImage = annotated
		}
	}

	p.metrics.CapturesTotal.WithLabelValues(string(res.State)).Inc()
	p.metrics.CaptureDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("capture completed",
		"state", res.State,
		"location", res.LocationLabel,
		"risk_level", res.Verdict.RiskLevel,
		"mock_verdict", res.Verdict.Mock,
	)
	return res, nil
}
