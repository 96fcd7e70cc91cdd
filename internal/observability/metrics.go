package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// hazard report service.
type Metrics struct {
	CapturesTotal    *prometheus.CounterVec // labels: state={ready,degraded}
	CaptureErrors    prometheus.Counter
	CaptureDuration  prometheus.Histogram
	CapturesInFlight prometheus.Gauge

	// Classifier client metrics.
	ClassifierRequests *prometheus.CounterVec // labels: outcome={ok,degraded}
	ClassifierDuration prometheus.Histogram

	// Geolocation provider metrics.
	GeoRequests *prometheus.CounterVec // labels: outcome={success,cached,error}

	// Feed metrics.
	PostsSubmitted prometheus.Counter
	PublishErrors  prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CapturesTotal,
		m.CaptureErrors,
		m.CaptureDuration,
		m.CapturesInFlight,
		m.ClassifierRequests,
		m.ClassifierDuration,
		m.GeoRequests,
		m.PostsSubmitted,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CapturesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "captures_total",
			Help:      "Completed capture pipeline runs by terminal state.",
		}, []string{"state"}),
		CaptureErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "capture_errors_total",
			Help:      "Capture attempts aborted by unreadable image input.",
		}),
		CaptureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_report",
			Name:      "capture_duration_seconds",
			Help:      "Duration of a complete encode-locate-annotate-classify run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		CapturesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_report",
			Name:      "captures_in_flight",
			Help:      "Capture pipeline runs currently in the Processing state.",
		}),
		ClassifierRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "classifier_requests_total",
			Help:      "Flood detection requests by outcome; degraded means the mock verdict was substituted.",
		}, []string{"outcome"}),
		ClassifierDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_report",
			Name:      "classifier_request_duration_seconds",
			Help:      "Flood detection HTTP request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeoRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "geo_requests_total",
			Help:      "Geolocation lookups by outcome.",
		}, []string{"outcome"}),
		PostsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "posts_submitted_total",
			Help:      "Hazard reports submitted to the feed.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_report",
			Name:      "publish_errors_total",
			Help:      "Report event publish failures (best effort, never blocks submission).",
		}),
	}
}

// DetectorMetrics holds the Prometheus metrics for the flood detection service.
type DetectorMetrics struct {
	DetectionsTotal   *prometheus.CounterVec // labels: outcome={ok,invalid}
	DetectionDuration prometheus.Histogram
	CacheLookups      *prometheus.CounterVec // labels: result={hit,miss}
}

// NewDetectorMetrics creates and registers the detection service metrics
// with the default Prometheus registry.
func NewDetectorMetrics() *DetectorMetrics {
	m := newDetectorMetrics()
	prometheus.MustRegister(m.DetectionsTotal, m.DetectionDuration, m.CacheLookups)
	return m
}

// NewDetectorMetricsForTesting creates DetectorMetrics without registering them.
func NewDetectorMetricsForTesting() *DetectorMetrics {
	return newDetectorMetrics()
}

func newDetectorMetrics() *DetectorMetrics {
	return &DetectorMetrics{
		DetectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_detect",
			Name:      "detections_total",
			Help:      "Flood detection requests by outcome.",
		}, []string{"outcome"}),
		DetectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_detect",
			Name:      "detection_duration_seconds",
			Help:      "Duration of image analysis plus social media scoring.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_detect",
			Name:      "verdict_cache_total",
			Help:      "Verdict cache lookups by result.",
		}, []string{"result"}),
	}
}
