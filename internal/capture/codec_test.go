package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImageJPEG renders a solid-color JPEG of the given size.
func testImageJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func testImagePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodeDataURL_JPEG(t *testing.T) {
	raw := testImageJPEG(t, 4, 4, color.RGBA{R: 200, A: 255})

	encoded, err := EncodeDataURL(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "data:image/jpeg;base64,"), "got prefix %q", encoded[:32])
}

func TestEncodeDataURL_Idempotent(t *testing.T) {
	raw := testImagePNG(t, 3, 3, color.RGBA{B: 255, A: 255})

	first, err := EncodeDataURL(bytes.NewReader(raw))
	require.NoError(t, err)
	second, err := EncodeDataURL(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input must yield byte-identical output")
}

func TestEncodeDataURL_RoundTrip(t *testing.T) {
	raw := testImagePNG(t, 5, 2, color.RGBA{G: 128, A: 255})

	encoded, err := EncodeDataURL(bytes.NewReader(raw))
	require.NoError(t, err)

	decoded, mime, err := DecodeDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded, "encoding is lossless")
	assert.Equal(t, "image/png", mime)
}

func TestEncodeDataURL_EmptyInput(t *testing.T) {
	_, err := EncodeDataURL(bytes.NewReader(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestEncodeDataURL_NotAnImage(t *testing.T) {
	_, err := EncodeDataURL(strings.NewReader("<html><body>not an image</body></html>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestDecodeDataURL_BarePayload(t *testing.T) {
	raw := testImageJPEG(t, 2, 2, color.White)
	encoded, err := EncodeDataURL(bytes.NewReader(raw))
	require.NoError(t, err)

	// Strip the data URL prefix the way some clients do.
	bare := encoded[strings.Index(encoded, ",")+1:]

	decoded, mime, err := DecodeDataURL(bare)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, "image/jpeg", mime)
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing comma", "data:image/png;base64"},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!"},
		{"empty payload", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeDataURL(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnreadableImage)
		})
	}
}
