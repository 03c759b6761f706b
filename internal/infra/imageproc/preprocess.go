package imageproc

import (
	"bytes"
	"encoding/base64"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxWidth = 1024
	DefaultQuality  = 0.7
)

// Compress decodes a base64 or data-URL image, bounds its width and re-encodes
// it as JPEG at the given quality, returning a data-URL string ready for
// transmission. Any input that cannot be decoded is returned unchanged: an
// unprocessed image is still usable downstream, so decode failures never
// surface to the caller.
func Compress(input string, maxWidth int, quality float64) string {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 1 {
		quality = DefaultQuality
	}

	raw, err := base64.StdEncoding.DecodeString(stripDataURL(input))
	if err != nil {
		return input
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return input
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxWidth {
		newH := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
		img = imaging.Resize(img, maxWidth, newH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(int(quality*100))); err != nil {
		return input
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// stripDataURL removes a "data:<mime>;base64," prefix if present.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}
