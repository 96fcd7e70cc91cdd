package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/coastwatch/hazard-report-service/internal/domain"
)

// Caption band geometry and output encoding. The band sits at the bottom of
// the image, full width, with two left-aligned text baselines inside it.
const (
	bandHeight     = 60
	textLeftMargin = 10
	line1Baseline  = 25 // offset from band top, bold 16px
	line2Baseline  = 45 // offset from band top, regular 14px
	jpegQuality    = 90

	// toLocaleString-style wall clock format, e.g. "1/15/2024, 10:30:00 AM".
	captionTimeFormat = "1/2/2006, 3:04:05 PM"
)

var (
	captionBoldFace    font.Face
	captionRegularFace font.Face
)

func init() {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded bold font: %v", err))
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded regular font: %v", err))
	}
	captionBoldFace = truetype.NewFace(bold, &truetype.Options{Size: 16})
	captionRegularFace = truetype.NewFace(regular, &truetype.Options{Size: 14})
}

// OverlayRenderer stamps a semi-transparent caption band carrying the
// capture coordinates and wall-clock timestamp onto an encoded image.
type OverlayRenderer struct {
	timeout time.Duration
}

// NewOverlayRenderer creates a renderer. The timeout bounds the whole
// decode-compose-encode step so an undecodable image fails instead of
// stalling the capture pipeline.
func NewOverlayRenderer(timeout time.Duration) *OverlayRenderer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OverlayRenderer{timeout: timeout}
}

type annotateResult struct {
	out string
	err error
}

// Annotate decodes source, paints the caption band, and re-encodes the
// composed raster as JPEG at quality 0.9. Pixel dimensions are preserved
// exactly; the source format is not (output is always JPEG).
func (o *OverlayRenderer) Annotate(ctx context.Context, source string, coords domain.Coordinates) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("annotate: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ch := make(chan annotateResult, 1)
	go func() {
		out, err := compose(source, coords, domain.Now())
		ch <- annotateResult{out: out, err: err}
	}()

	select {
	case r := <-ch:
		return r.out, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("annotate: %w", ctx.Err())
	}
}

func compose(source string, coords domain.Coordinates, now time.Time) (string, error) {
	raw, _, err := DecodeDataURL(source)
	if err != nil {
		return "", fmt.Errorf("annotate: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("annotate: decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dc := gg.NewContext(w, h)
	dc.DrawImage(img, 0, 0)

	bandTop := float64(h - bandHeight)
	dc.SetRGBA(0, 0, 0, 0.7)
	dc.DrawRectangle(0, bandTop, float64(w), bandHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(captionBoldFace)
	dc.DrawString("\U0001F4CD "+coords.Label(), textLeftMargin, bandTop+line1Baseline)
	dc.SetFontFace(captionRegularFace)
	dc.DrawString("\U0001F552 "+now.Local().Format(captionTimeFormat), textLeftMargin, bandTop+line2Baseline)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("annotate: encode jpeg: %w", err)
	}

	return EncodeDataURL(&buf)
}
