// Command capture runs the capture pipeline on a local image file with a
// fixed position, against a live or mock flood detection service. It is a
// development tool for inspecting what the report wizard would receive.
//
// Usage:
//
//	go run ./cmd/capture \
//	  -image testdata/marina_beach.jpg \
//	  -lat 13.0827 -lng 80.2707 \
//	  -detector-url http://localhost:5000/api/flood-detection \
//	  -out capture_result.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/coastwatch/hazard-report-service/internal/adapter/detector"
	"github.com/coastwatch/hazard-report-service/internal/capture"
	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/observability"
)

// staticLocator always reports the coordinates given on the command line.
type staticLocator struct {
	coords domain.Coordinates
}

func (l staticLocator) Current(context.Context) (domain.Coordinates, error) {
	return l.coords, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	imagePath := flag.String("image", "", "path to the image file to capture")
	lat := flag.Float64("lat", 13.0827, "latitude of the fixed position")
	lng := flag.Float64("lng", 80.2707, "longitude of the fixed position")
	detectorURL := flag.String("detector-url", "http://localhost:5000/api/flood-detection", "flood detection endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "overall capture timeout")
	out := flag.String("out", "", "optional output path for the full result JSON")
	flag.Parse()

	if *imagePath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -image")
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := observability.NewMetricsForTesting()

	coords := domain.Coordinates{Latitude: *lat, Longitude: *lng}
	classifier := detector.NewClient(*detectorURL, *timeout, metrics, logger)
	renderer := capture.NewOverlayRenderer(*timeout)

	pipeline := capture.New(staticLocator{coords: coords}, renderer, classifier, capture.Fallback{
		PlaceName:   "Marina Beach, Chennai",
		Coordinates: domain.Coordinates{Latitude: 13.0827, Longitude: 80.2707},
	}, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := pipeline.Capture(ctx, f)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	printSummary(res)

	if *out != "" {
		if err := writeJSON(*out, res); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		log.Printf("wrote full result: %s", *out)
	}
	return nil
}

func printSummary(res capture.Result) {
	fmt.Println("=== Capture Result ===")
	fmt.Printf("State:      %s\n", res.State)
	fmt.Printf("Location:   %s (%.4f, %.4f)\n", res.LocationLabel, res.Coordinates.Latitude, res.Coordinates.Longitude)
	fmt.Printf("CapturedAt: %s\n", res.CapturedAt.Format(time.RFC3339))
	fmt.Printf("Images:     source=%d bytes, annotated=%d bytes\n", len(res.SourceImage), len(res.AnnotatedImage))

	v := res.Verdict
	fmt.Println("\n=== Verdict ===")
	fmt.Printf("Success:    %t (mock=%t)\n", v.Success, v.Mock)
	fmt.Printf("Flooded:    %t\n", v.IsFlooded)
	fmt.Printf("Confidence: %.3f\n", v.Confidence)
	fmt.Printf("Risk:       %s\n", v.RiskLevel)
	for label, score := range v.Prediction {
		fmt.Printf("  %-18s %.3f\n", label, score)
	}
	if v.SocialMediaAnalysis != nil {
		fmt.Printf("Social:     sentiment=%.2f, posts=%d, mentions=%d\n",
			v.SocialMediaAnalysis.SentimentScore, v.SocialMediaAnalysis.PostCount, v.SocialMediaAnalysis.MentionCount)
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
