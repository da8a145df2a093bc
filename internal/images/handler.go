package images

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/portaldovale/backend/pkg/response"
)

// Handler serves the image optimization endpoint.
type Handler struct {
	optimizer *Optimizer
	maxWidth  int
	maxHeight int
	logger    *zap.Logger
}

// NewHandler creates an images handler with dimension caps.
func NewHandler(optimizer *Optimizer, maxWidth, maxHeight int, logger *zap.Logger) *Handler {
	if maxWidth <= 0 {
		maxWidth = 1920
	}
	if maxHeight <= 0 {
		maxHeight = 1080
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{optimizer: optimizer, maxWidth: maxWidth, maxHeight: maxHeight, logger: logger}
}

// Optimize handles GET /images/optimize.
// Query: url, width, height, quality, format(webp|jpeg|png), fit(cover|contain|fill|inside|outside).
func (h *Handler) Optimize(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		response.BadRequest(c, "missing url")
		return
	}
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	if width > h.maxWidth || height > h.maxHeight {
		response.BadRequest(c, "requested dimensions exceed maximum")
		return
	}
	quality, _ := strconv.Atoi(c.DefaultQuery("quality", "80"))

	format := Format(c.DefaultQuery("format", string(FormatWebP)))
	switch format {
	case FormatWebP, FormatJPEG, FormatPNG:
	default:
		response.BadRequest(c, "unsupported format")
		return
	}
	fit := Fit(c.DefaultQuery("fit", string(FitCover)))
	switch fit {
	case FitCover, FitContain, FitFill, FitInside, FitOutside:
	default:
		response.BadRequest(c, "unsupported fit")
		return
	}

	data, contentType, err := h.optimizer.Optimize(c.Request.Context(), url, Options{
		Width:   width,
		Height:  height,
		Quality: quality,
		Format:  format,
		Fit:     fit,
	})
	if err != nil {
		h.logger.Warn("image optimization failed", zap.Error(err), zap.String("url", url))
		response.BadRequest(c, "failed to process source image")
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, contentType, data)
}
