package fractal_test

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/fractal"
	"github.com/feral-file/ff-bitmap/internal/mocks"
)

func TestRender_KnownPoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(now)
	mockClock.EXPECT().Since(now).Return(time.Millisecond)

	// 7x2 over the default viewport: x step 0.5, y step 1
	r := fractal.NewRenderer(2, mockClock)
	res, err := r.Render(context.Background(), fractal.Config{Width: 7, Height: 2, MaxIterations: 100})
	require.NoError(t, err)

	assert.Equal(t, 8, res.Stride)
	assert.Len(t, res.Pixels, 16)
	assert.Equal(t, domain.PixelFormatIndexed8, res.PixelFormat())

	// c = -2.5 + 0i escapes after one step
	assert.Equal(t, byte(1), res.Pixels[8+0])
	// c = 0 never escapes
	assert.Equal(t, byte(100), res.Pixels[8+5])
	// c = -1 + 0i is periodic and stays bounded
	assert.Equal(t, byte(100), res.Pixels[8+3])

	// Row padding stays zero
	assert.Zero(t, res.Pixels[7])
	assert.Zero(t, res.Pixels[15])
}

func TestRender_Deterministic(t *testing.T) {
	cfg := fractal.Config{Width: 64, Height: 37, MaxIterations: 50}

	single, err := fractal.NewRenderer(1, adapter.NewClock()).Render(context.Background(), cfg)
	require.NoError(t, err)
	parallel, err := fractal.NewRenderer(8, adapter.NewClock()).Render(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, single.Pixels, parallel.Pixels)
	assert.Equal(t, 64, single.Stride)
	for _, v := range single.Pixels {
		assert.LessOrEqual(t, int(v), 50)
	}
}

func TestRender_CustomViewport(t *testing.T) {
	// A tiny window around the origin lies entirely inside the set
	cfg := fractal.Config{
		Width:         4,
		Height:        4,
		MaxIterations: 30,
		Viewport:      fractal.Viewport{MinReal: -0.1, MinImag: -0.1, Real: 0.2, Imag: 0.2},
	}
	res, err := fractal.NewRenderer(0, adapter.NewClock()).Render(context.Background(), cfg)
	require.NoError(t, err)
	for _, v := range res.Pixels {
		assert.Equal(t, byte(30), v)
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	r := fractal.NewRenderer(1, adapter.NewClock())
	ctx := context.Background()

	_, err := r.Render(ctx, fractal.Config{Width: 0, Height: 10, MaxIterations: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidDimensions)

	_, err = r.Render(ctx, fractal.Config{Width: 10, Height: 10, MaxIterations: 0})
	assert.ErrorIs(t, err, fractal.ErrInvalidIterations)

	_, err = r.Render(ctx, fractal.Config{Width: 10, Height: 10, MaxIterations: 256})
	assert.ErrorIs(t, err, fractal.ErrInvalidIterations)
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fractal.NewRenderer(2, adapter.NewClock()).Render(ctx, fractal.Config{Width: 32, Height: 32, MaxIterations: 10})
	assert.Error(t, err)
}

func TestGradient(t *testing.T) {
	p := fractal.Gradient(100)
	require.Len(t, p, 101)
	assert.Equal(t, color.RGBA{A: 0xff}, p[100])
	assert.Equal(t, fractal.DefaultStops()[0], p[0])

	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	p = fractal.Gradient(2, red, blue)
	require.Len(t, p, 3)
	assert.Equal(t, red, p[0])
	assert.Equal(t, color.RGBA{R: 0x7f, B: 0x7f, A: 0xff}, p[1])

	assert.Nil(t, fractal.Gradient(0))
	assert.Len(t, fractal.Gradient(255), 256)
}

func TestPalette_ByName(t *testing.T) {
	p, err := fractal.Palette("gradient", 10)
	require.NoError(t, err)
	assert.Equal(t, fractal.Gradient(10), p)

	p, err = fractal.Palette("", 10)
	require.NoError(t, err)
	assert.Len(t, p, 11)

	p, err = fractal.Palette("GRAY", 4)
	require.NoError(t, err)
	require.Len(t, p, 5)
	assert.Equal(t, color.Gray{Y: 0}, p[0])
	assert.Equal(t, color.Gray{Y: 0x7f}, p[2])
	assert.Equal(t, color.Gray{}, p[4])

	p, err = fractal.Palette("raw", 10)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = fractal.Palette("sepia", 10)
	assert.ErrorIs(t, err, fractal.ErrUnknownPalette)
}
