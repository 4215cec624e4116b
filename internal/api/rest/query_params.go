package rest

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-bitmap/internal/config"
	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/fractal"
)

const (
	// MAX_PALETTE_ENTRIES is the largest color table of any indexed pixel format
	MAX_PALETTE_ENTRIES = 256

	DEFAULT_MAX_BODY_SIZE int64 = 64 << 20
)

// EncodeImageQueryParams holds query parameters for POST /images
type EncodeImageQueryParams struct {
	Width         int      `form:"width" binding:"required"`
	Height        int      `form:"height" binding:"required"`
	PixelFormat   string   `form:"pixel_format" binding:"required"`
	Format        string   `form:"format,default=jpeg"`
	Quality       *int     `form:"quality"`
	PixelsPerInch *float64 `form:"ppi"`
	Palette       string   `form:"palette"`

	pixelFormat     domain.PixelFormat
	containerFormat domain.ContainerFormat
	palette         color.Palette
}

// ParseEncodeImageQuery parses and normalizes query parameters for POST /images
func ParseEncodeImageQuery(c *gin.Context) (*EncodeImageQueryParams, error) {
	var params EncodeImageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	var err error
	if params.pixelFormat, err = domain.ParsePixelFormat(params.PixelFormat); err != nil {
		return nil, err
	}
	if params.containerFormat, err = domain.ParseContainerFormat(params.Format); err != nil {
		return nil, err
	}
	if params.palette, err = parseHexPalette(params.Palette); err != nil {
		return nil, err
	}

	return &params, nil
}

// Validate checks the image geometry against the configured limits
func (p *EncodeImageQueryParams) Validate(limits config.LimitsConfig) error {
	return validateDimensions(p.Width, p.Height, limits)
}

// RenderMandelbrotQueryParams holds query parameters for GET /fractals/mandelbrot
type RenderMandelbrotQueryParams struct {
	Width         int      `form:"width,default=2048"`
	Height        int      `form:"height,default=1170"`
	MaxIterations int      `form:"max_iterations,default=100"`
	Format        string   `form:"format,default=jpeg"`
	Quality       *int     `form:"quality"`
	PixelsPerInch *float64 `form:"ppi"`
	Palette       string   `form:"palette,default=gradient"`

	containerFormat domain.ContainerFormat
}

// ParseRenderMandelbrotQuery parses query parameters for GET /fractals/mandelbrot
func ParseRenderMandelbrotQuery(c *gin.Context) (*RenderMandelbrotQueryParams, error) {
	var params RenderMandelbrotQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	var err error
	if params.containerFormat, err = domain.ParseContainerFormat(params.Format); err != nil {
		return nil, err
	}

	return &params, nil
}

// Validate checks the render request against the configured limits
func (p *RenderMandelbrotQueryParams) Validate(limits config.LimitsConfig) error {
	if err := validateDimensions(p.Width, p.Height, limits); err != nil {
		return err
	}

	maxIterations := limits.MaxIterations
	if maxIterations <= 0 || maxIterations > fractal.MAX_ITERATIONS {
		maxIterations = fractal.MAX_ITERATIONS
	}
	if p.MaxIterations < 1 || p.MaxIterations > maxIterations {
		return fmt.Errorf("max_iterations must be between 1 and %d", maxIterations)
	}
	return nil
}

func validateDimensions(width, height int, limits config.LimitsConfig) error {
	if width <= 0 || height <= 0 {
		return domain.ErrInvalidDimensions
	}
	if limits.MaxWidth > 0 && width > limits.MaxWidth {
		return fmt.Errorf("width %d exceeds maximum of %d", width, limits.MaxWidth)
	}
	if limits.MaxHeight > 0 && height > limits.MaxHeight {
		return fmt.Errorf("height %d exceeds maximum of %d", height, limits.MaxHeight)
	}
	return nil
}

// parseHexPalette parses a comma-separated list of RRGGBB or RRGGBBAA entries
func parseHexPalette(s string) (color.Palette, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	entries := strings.Split(s, ",")
	if len(entries) > MAX_PALETTE_ENTRIES {
		return nil, fmt.Errorf("%w: %d entries", domain.ErrPaletteOverflow, len(entries))
	}

	palette := make(color.Palette, 0, len(entries))
	for i, entry := range entries {
		entry = strings.TrimPrefix(strings.TrimSpace(entry), "#")
		if len(entry) != 6 && len(entry) != 8 {
			return nil, fmt.Errorf("palette entry %d: expected RRGGBB or RRGGBBAA, got %q", i, entry)
		}

		b, err := hex.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}

		c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
		if len(b) == 4 {
			c.A = b[3]
		}
		palette = append(palette, c)
	}
	return palette, nil
}
