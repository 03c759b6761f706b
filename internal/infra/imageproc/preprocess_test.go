package imageproc

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeOutput(t *testing.T, out string) image.Config {
	t.Helper()
	require.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	return cfg
}

func TestCompressDownscalesWideImage(t *testing.T) {
	out := Compress(encodePNG(t, 2048, 100), 1024, 0.7)

	cfg := decodeOutput(t, out)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 50, cfg.Height) // round(100 * 1024 / 2048)
}

func TestCompressRoundsScaledHeight(t *testing.T) {
	// 1500 -> 1024 scales 333 to 227.328, which must round down to 227
	out := Compress(encodePNG(t, 1500, 333), 1024, 0.7)

	cfg := decodeOutput(t, out)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 227, cfg.Height)
}

func TestCompressKeepsNarrowImageResolution(t *testing.T) {
	out := Compress(encodePNG(t, 800, 600), 1024, 0.7)

	cfg := decodeOutput(t, out)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestCompressAcceptsDataURLInput(t *testing.T) {
	in := "data:image/png;base64," + encodePNG(t, 2048, 1024)

	cfg := decodeOutput(t, Compress(in, 1024, 0.7))
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
}

func TestCompressReturnsInputOnInvalidBase64(t *testing.T) {
	in := "!!!not-base64!!!"
	assert.Equal(t, in, Compress(in, 1024, 0.7))
}

func TestCompressReturnsInputOnUndecodableImage(t *testing.T) {
	in := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	assert.Equal(t, in, Compress(in, 1024, 0.7))
}

func TestCompressDefaultsBadParams(t *testing.T) {
	out := Compress(encodePNG(t, 2048, 100), 0, -1)

	cfg := decodeOutput(t, out)
	assert.Equal(t, DefaultMaxWidth, cfg.Width)
}
