package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// Format is a supported output encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Fit is the resize strategy, mirroring CSS object-fit vocabulary.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
	FitFill    Fit = "fill"
	FitInside  Fit = "inside"
	FitOutside Fit = "outside"
)

// Options control one optimization pass.
type Options struct {
	Width   int
	Height  int
	Quality int
	Format  Format
	Fit     Fit
}

// maxSourceBytes caps how much of a remote image we will read.
const maxSourceBytes = 20 * 1024 * 1024

// Optimizer fetches a source image and re-encodes it at the requested
// size. There is no pure-Go webp encoder in the imaging stack, so webp
// requests are answered with jpeg; the handler advertises the actual
// content type.
type Optimizer struct {
	client  *http.Client
	timeout time.Duration
}

// NewOptimizer creates an optimizer with a bounded fetch timeout.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		client:  &http.Client{Timeout: 15 * time.Second},
		timeout: 15 * time.Second,
	}
}

// Optimize fetches url, resizes per opts, and returns the encoded bytes
// with their content type.
func (o *Optimizer) Optimize(ctx context.Context, url string, opts Options) ([]byte, string, error) {
	src, err := o.fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	resized := resize(src, opts)
	return encode(resized, opts)
}

func (o *Optimizer) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source: status %d", resp.StatusCode)
	}
	img, err := imaging.Decode(io.LimitReader(resp.Body, maxSourceBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	return img, nil
}

func resize(src image.Image, opts Options) image.Image {
	w, h := opts.Width, opts.Height
	if w <= 0 && h <= 0 {
		return src
	}
	if w <= 0 {
		return imaging.Resize(src, 0, h, imaging.Lanczos)
	}
	if h <= 0 {
		return imaging.Resize(src, w, 0, imaging.Lanczos)
	}
	switch opts.Fit {
	case FitContain, FitInside:
		return imaging.Fit(src, w, h, imaging.Lanczos)
	case FitFill:
		return imaging.Resize(src, w, h, imaging.Lanczos)
	case FitOutside:
		b := src.Bounds()
		sw, sh := b.Dx(), b.Dy()
		if sw == 0 || sh == 0 {
			return src
		}
		// scale so both dimensions are at least the target, no crop
		if w*sh > h*sw {
			return imaging.Resize(src, w, 0, imaging.Lanczos)
		}
		return imaging.Resize(src, 0, h, imaging.Lanczos)
	default: // cover
		return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
	}
}

func encode(img image.Image, opts Options) ([]byte, string, error) {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	var buf bytes.Buffer
	switch opts.Format {
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default: // jpeg, and webp downgraded to jpeg
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
