package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/bitmap"
	"github.com/feral-file/ff-bitmap/internal/config"
	"github.com/feral-file/ff-bitmap/internal/fractal"
	"github.com/feral-file/ff-bitmap/internal/logger"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// EncodeImage packages the raw pixel buffer in the request body into an encoded image
	// POST /api/v1/images?width=<w>&height=<h>&pixel_format=<format>&format=<container>&quality=<q>&ppi=<ppi>&palette=<RRGGBB,...>
	EncodeImage(c *gin.Context)

	// RenderMandelbrot renders the Mandelbrot set and returns it as an encoded image
	// GET /api/v1/fractals/mandelbrot?width=<w>&height=<h>&max_iterations=<n>&format=<container>&quality=<q>&ppi=<ppi>&palette=<gradient|gray|raw>
	RenderMandelbrot(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	factory  *bitmap.Factory
	renderer *fractal.Renderer
	io       adapter.IO
	limits   config.LimitsConfig
}

// NewHandler creates a new REST API handler
func NewHandler(factory *bitmap.Factory, renderer *fractal.Renderer, io adapter.IO, limits config.LimitsConfig) Handler {
	return &handler{
		factory:  factory,
		renderer: renderer,
		io:       io,
		limits:   limits,
	}
}

// EncodeImage packages a raw pixel buffer into the requested container format
func (h *handler) EncodeImage(c *gin.Context) {
	params, err := ParseEncodeImageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(h.limits); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	maxBodySize := h.maxBodySize()
	if c.Request.ContentLength > maxBodySize {
		respondPayloadTooLarge(c, "Pixel buffer too large", fmt.Sprintf("limit is %d bytes", maxBodySize))
		return
	}
	pixels, err := h.io.ReadAll(c.Request.Body, maxBodySize)
	if err != nil {
		if errors.Is(err, adapter.ErrReadLimitExceeded) {
			respondPayloadTooLarge(c, "Pixel buffer too large", fmt.Sprintf("limit is %d bytes", maxBodySize))
			return
		}
		respondBadRequest(c, "Failed to read request body", err.Error())
		return
	}

	builder, err := h.factory.New(params.Width, params.Height, params.pixelFormat)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	builder.
		SetContainerFormat(params.containerFormat).
		SetPalette(params.palette).
		SetPixelData(pixels)
	if params.Quality != nil {
		builder.SetQuality(*params.Quality)
	}
	if params.PixelsPerInch != nil {
		builder.SetPixelsPerInch(*params.PixelsPerInch)
	}
	if err := builder.Err(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.respondImage(c, builder)
}

// RenderMandelbrot renders the Mandelbrot set as an indexed8 image
func (h *handler) RenderMandelbrot(c *gin.Context) {
	params, err := ParseRenderMandelbrotQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(h.limits); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	palette, err := fractal.Palette(params.Palette, params.MaxIterations)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.renderer.Render(c.Request.Context(), fractal.Config{
		Width:         params.Width,
		Height:        params.Height,
		MaxIterations: params.MaxIterations,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to render fractal")
		return
	}

	builder, err := h.factory.New(result.Width, result.Height, result.PixelFormat())
	if err != nil {
		respondInternalError(c, err, "Failed to create image builder")
		return
	}
	builder.
		SetContainerFormat(params.containerFormat).
		SetPalette(palette).
		SetPixelData(result.Pixels)
	if params.Quality != nil {
		builder.SetQuality(*params.Quality)
	}
	if params.PixelsPerInch != nil {
		builder.SetPixelsPerInch(*params.PixelsPerInch)
	}
	if err := builder.Err(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.respondImage(c, builder)
}

// respondImage encodes the builder and writes the image with its MIME type
func (h *handler) respondImage(c *gin.Context, builder *bitmap.Builder) {
	data, err := builder.Encode(c.Request.Context())
	if err != nil {
		var saveErr *bitmap.SaveError
		if errors.As(err, &saveErr) && saveErr.Stage == bitmap.StageValidate {
			respondValidationError(c, err.Error())
			return
		}
		respondEncodingError(c, err, "Failed to encode image")
		return
	}

	logger.DebugCtx(c.Request.Context(), "Image encoded",
		zap.String("containerFormat", string(builder.ContainerFormat())),
		zap.Int("size", len(data)),
	)

	c.Data(http.StatusOK, builder.ContainerFormat().MimeType(), data)
}

func (h *handler) maxBodySize() int64 {
	if h.limits.MaxBodySize <= 0 {
		return DEFAULT_MAX_BODY_SIZE
	}
	return h.limits.MaxBodySize
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-bitmap-api",
	})
}
