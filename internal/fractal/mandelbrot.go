package fractal

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/logger"
	"github.com/feral-file/ff-bitmap/internal/raster"
)

const (
	DEFAULT_WIDTH          = 2048
	DEFAULT_HEIGHT         = 1170
	DEFAULT_MAX_ITERATIONS = 100

	// Iteration counts are stored as 8-bit palette indices
	MAX_ITERATIONS = 255

	escapeRadiusSquared = 4.0
)

var ErrInvalidIterations = errors.New("max iterations must be between 1 and 255")

// Viewport is the region of the complex plane mapped onto the image
type Viewport struct {
	MinReal float64
	MinImag float64
	Real    float64 // width of the region
	Imag    float64 // height of the region
}

// DefaultViewport covers the whole set: real [-2.5, 1), imaginary [-1, 1)
func DefaultViewport() Viewport {
	return Viewport{MinReal: -2.5, MinImag: -1, Real: 3.5, Imag: 2}
}

// Config configures a Mandelbrot render
type Config struct {
	Width         int
	Height        int
	MaxIterations int
	Viewport      Viewport
}

// Result is an indexed8 pixel buffer of iteration counts
type Result struct {
	Width  int
	Height int
	Stride int
	Pixels []byte
}

// PixelFormat returns the pixel format of the rendered buffer
func (r *Result) PixelFormat() domain.PixelFormat {
	return domain.PixelFormatIndexed8
}

// Renderer renders Mandelbrot iteration counts, one scanline per task
type Renderer struct {
	workers int
	clock   adapter.Clock
}

// NewRenderer creates a renderer using up to workers goroutines; workers <= 0 means GOMAXPROCS
func NewRenderer(workers int, clock adapter.Clock) *Renderer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{
		workers: workers,
		clock:   clock,
	}
}

// Render computes the escape iteration count of every pixel.
// Pixels inside the set hold MaxIterations.
func (r *Renderer) Render(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", domain.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	if cfg.MaxIterations < 1 || cfg.MaxIterations > MAX_ITERATIONS {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, cfg.MaxIterations)
	}
	vp := cfg.Viewport
	if vp.Real == 0 || vp.Imag == 0 {
		vp = DefaultViewport()
	}

	stride, err := raster.MinimumStrideForFormat(cfg.Width, domain.PixelFormatIndexed8)
	if err != nil {
		return nil, err
	}

	startTime := r.clock.Now()
	logger.InfoCtx(ctx, "Starting Mandelbrot render",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("maxIterations", cfg.MaxIterations),
		zap.Int("workers", r.workers),
	)

	pixels := make([]byte, raster.BufferSize(stride, cfg.Height))

	xScale := vp.Real / float64(cfg.Width)
	yScale := vp.Imag / float64(cfg.Height)

	pool := pond.NewPool(r.workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for y := range cfg.Height {
		row := pixels[y*stride : y*stride+cfg.Width]
		ci := float64(y)*yScale + vp.MinImag
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := range row {
				cr := float64(x)*xScale + vp.MinReal
				row[x] = byte(escapeTime(cr, ci, cfg.MaxIterations))
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logger.WarnCtx(ctx, "Mandelbrot render aborted", zap.Error(err))
		return nil, fmt.Errorf("failed to render mandelbrot: %w", err)
	}

	logger.InfoCtx(ctx, "Mandelbrot render completed",
		zap.Duration("duration", r.clock.Since(startTime)),
	)

	return &Result{
		Width:  cfg.Width,
		Height: cfg.Height,
		Stride: stride,
		Pixels: pixels,
	}, nil
}

// escapeTime iterates z = z^2 + c from zero until |z| >= 2 or maxIterations is reached
func escapeTime(cr, ci float64, maxIterations int) int {
	var a, b float64
	i := 0
	for ; a*a+b*b < escapeRadiusSquared && i < maxIterations; i++ {
		a, b = a*a-b*b+cr, 2*a*b+ci
	}
	return i
}
