package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngServer(t *testing.T, width, height int) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestOptimizeCoverCropsToExactSize(t *testing.T) {
	srv := pngServer(t, 400, 200)
	defer srv.Close()

	data, contentType, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{
		Width: 100, Height: 100, Format: FormatJPEG,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	w, h := decodeDims(t, data)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestOptimizeContainPreservesAspect(t *testing.T) {
	srv := pngServer(t, 400, 200)
	defer srv.Close()

	data, _, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{
		Width: 100, Height: 100, Fit: FitContain, Format: FormatPNG,
	})
	require.NoError(t, err)
	w, h := decodeDims(t, data)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h, "2:1 source fits inside 100x100 as 100x50")
}

func TestOptimizeWidthOnlyScalesProportionally(t *testing.T) {
	srv := pngServer(t, 400, 200)
	defer srv.Close()

	data, _, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{
		Width: 200, Format: FormatPNG,
	})
	require.NoError(t, err)
	w, h := decodeDims(t, data)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestOptimizePNGOutput(t *testing.T) {
	srv := pngServer(t, 50, 50)
	defer srv.Close()

	_, contentType, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{Format: FormatPNG})
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
}

func TestOptimizeWebPFallsBackToJPEG(t *testing.T) {
	srv := pngServer(t, 50, 50)
	defer srv.Close()

	_, contentType, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{Format: FormatWebP})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestOptimizeRejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	_, _, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{Width: 100})
	assert.Error(t, err)
}

func TestOptimizeRejectsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := NewOptimizer().Optimize(context.Background(), srv.URL, Options{Width: 100})
	assert.Error(t, err)
}
