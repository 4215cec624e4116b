package bitmap

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/codec"
	"github.com/feral-file/ff-bitmap/internal/density"
	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/raster"
)

// Factory creates builders sharing a file system and an encoder registry
type Factory struct {
	fs       adapter.FileSystem
	registry codec.Registry
}

// NewFactory creates a factory whose builders persist through fs and encode through registry
func NewFactory(fs adapter.FileSystem, registry codec.Registry) *Factory {
	return &Factory{
		fs:       fs,
		registry: registry,
	}
}

var defaultFactory = NewFactory(
	adapter.NewFileSystem(),
	codec.NewDefaultRegistry(adapter.NewImageEncoder(), codec.DefaultConfig()),
)

// New creates a builder with the default file system and encoders
func New(width, height int, format domain.PixelFormat) (*Builder, error) {
	return defaultFactory.New(width, height, format)
}

// Builder packages a raw pixel buffer into an encoded image.
//
// Geometry and pixel format are fixed at construction. Setters validate their
// argument immediately; a rejected value is not applied and the error is kept,
// reported by Err and returned again by every save. A Builder must not be used
// from several goroutines at once.
type Builder struct {
	width       int
	height      int
	stride      int
	pixelFormat domain.PixelFormat

	containerFormat domain.ContainerFormat
	quality         int
	ppi             float64
	palette         color.Palette
	pixels          []byte

	err error

	fs       adapter.FileSystem
	registry codec.Registry
}

// New creates a builder for a width x height image in the given pixel format
func (f *Factory) New(width, height int, format domain.PixelFormat) (*Builder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", domain.ErrInvalidDimensions, width, height)
	}

	// Rejects widths whose stride would overflow an int
	stride, err := raster.MinimumStrideForFormat(width, format)
	if err != nil {
		return nil, err
	}
	if stride > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d %s overflows the buffer size", domain.ErrInvalidDimensions, width, height, format)
	}

	return &Builder{
		width:           width,
		height:          height,
		stride:          stride,
		pixelFormat:     format,
		containerFormat: domain.DEFAULT_CONTAINER_FORMAT,
		quality:         domain.DEFAULT_QUALITY,
		fs:              f.fs,
		registry:        f.registry,
	}, nil
}

func (b *Builder) fail(err error) *Builder {
	b.err = errors.Join(b.err, err)
	return b
}

// Err returns every configuration error recorded so far.
// Recorded errors are never cleared: a later valid call does not undo an
// earlier rejection, so a builder that reports an error must be replaced.
func (b *Builder) Err() error {
	return b.err
}

// SetPalette sets the color table entries copied into an indexed image, starting at index 0.
// An empty palette leaves the default table in place; direct color formats ignore it.
func (b *Builder) SetPalette(colors color.Palette) *Builder {
	if err := raster.CheckPaletteCapacity(b.pixelFormat, colors); err != nil {
		return b.fail(err)
	}
	for i, c := range colors {
		if c == nil {
			return b.fail(fmt.Errorf("palette entry %d is nil", i))
		}
	}

	if len(colors) == 0 {
		b.palette = nil
		return b
	}
	b.palette = append(color.Palette(nil), colors...)
	return b
}

// SetPixelData sets the raw pixel buffer, which must be exactly StrideBytes*PixelHeight bytes.
// The buffer is referenced, not copied. A nil or empty buffer means a zero-filled image.
func (b *Builder) SetPixelData(pixels []byte) *Builder {
	if err := raster.ValidateBuffer(pixels, b.stride, b.height); err != nil {
		return b.fail(err)
	}
	if len(pixels) == 0 {
		pixels = nil
	}
	b.pixels = pixels
	return b
}

// SetContainerFormat sets the encoded output format
func (b *Builder) SetContainerFormat(format domain.ContainerFormat) *Builder {
	if !format.Valid() {
		return b.fail(fmt.Errorf("%w: %q", domain.ErrUnsupportedContainerFormat, string(format)))
	}
	b.containerFormat = format
	return b
}

// SetQuality sets the lossy encoding quality in [0, 100]; formats without a quality control ignore it
func (b *Builder) SetQuality(quality int) *Builder {
	if quality < domain.MIN_QUALITY || quality > domain.MAX_QUALITY {
		return b.fail(fmt.Errorf("%w: got %d", domain.ErrQualityOutOfRange, quality))
	}
	b.quality = quality
	return b
}

// SetPixelsPerInch sets the resolution recorded in JPEG, PNG and BMP output
func (b *Builder) SetPixelsPerInch(ppi float64) *Builder {
	if !density.ValidPixelsPerInch(ppi) {
		return b.fail(fmt.Errorf("%w: got %v", domain.ErrInvalidPixelsPerInch, ppi))
	}
	b.ppi = ppi
	return b
}

// PixelWidth returns the image width in pixels
func (b *Builder) PixelWidth() int {
	return b.width
}

// PixelHeight returns the image height in pixels
func (b *Builder) PixelHeight() int {
	return b.height
}

// StrideBytes returns the number of bytes per scanline, always a multiple of 4
func (b *Builder) StrideBytes() int {
	return b.stride
}

// PixelFormat returns the layout of the raw pixel buffer
func (b *Builder) PixelFormat() domain.PixelFormat {
	return b.pixelFormat
}

// ContainerFormat returns the format the image is encoded into on save
func (b *Builder) ContainerFormat() domain.ContainerFormat {
	return b.containerFormat
}

// Quality returns the lossy encoding quality in [0, 100]
func (b *Builder) Quality() int {
	return b.quality
}

// Palette returns a copy of the configured color table entries, nil when unset
func (b *Builder) Palette() color.Palette {
	if b.palette == nil {
		return nil
	}
	return append(color.Palette(nil), b.palette...)
}

// PixelsPerInch returns the configured resolution, 0 when unset
func (b *Builder) PixelsPerInch() float64 {
	return b.ppi
}
