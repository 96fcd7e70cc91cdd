package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnreadableImage marks image input the codec cannot work with: an empty
// stream, a read failure, or bytes that do not sniff as an image.
var ErrUnreadableImage = errors.New("unreadable image data")

// EncodeDataURL reads raw image bytes and returns a self-contained base64
// data URL ("data:image/jpeg;base64,..."). The encoding is lossless: the
// exact input bytes round-trip through DecodeDataURL, and encoding the same
// input twice yields byte-identical output.
func EncodeDataURL(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrUnreadableImage)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrUnreadableImage, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURL recovers the raw bytes and MIME type from an encoded image.
// A bare base64 payload without the data URL prefix is accepted too, since
// some clients strip it.
func DecodeDataURL(s string) ([]byte, string, error) {
	mime := ""
	if strings.HasPrefix(s, "data:") {
		comma := strings.Index(s, ",")
		if comma < 0 {
			return nil, "", fmt.Errorf("%w: malformed data URL", ErrUnreadableImage)
		}
		header := s[len("data:"):comma]
		mime = strings.TrimSuffix(header, ";base64")
		s = s[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrUnreadableImage)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}
