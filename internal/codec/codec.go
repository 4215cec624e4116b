package codec

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/domain"
)

// Options carries the per-save encoding parameters
type Options struct {
	// Quality is the lossy quality in [0, 100]; encoders without a quality control ignore it
	Quality int
}

// Encoder writes an image in one container format
//
//go:generate mockgen -source=codec.go -destination=../mocks/codec.go -package=mocks -mock_names=Encoder=MockEncoder,Registry=MockRegistry
type Encoder interface {
	Encode(w io.Writer, img image.Image, opts Options) error
}

// EncoderFunc adapts a function to the Encoder interface
type EncoderFunc func(w io.Writer, img image.Image, opts Options) error

// Encode calls f(w, img, opts)
func (f EncoderFunc) Encode(w io.Writer, img image.Image, opts Options) error {
	return f(w, img, opts)
}

// Registry maps container formats to specialised encoders
type Registry interface {
	// Register sets the specialised encoder for a format, replacing any previous one.
	// A nil encoder removes the entry so the format falls back to the generic encoder.
	Register(format domain.ContainerFormat, enc Encoder)
	// Lookup returns the specialised encoder registered for a format
	Lookup(format domain.ContainerFormat) (Encoder, bool)
	// Encode writes img using the specialised encoder for format, or the generic one when none is registered
	Encode(w io.Writer, img image.Image, format domain.ContainerFormat, opts Options) error
}

// Config holds the parameters of the default specialised encoders
type Config struct {
	// PNGCompression is the zlib level used for PNG output
	PNGCompression png.CompressionLevel
	// GIFColors is the maximum palette size when quantizing to GIF, in [1, 256]
	GIFColors int
	// TIFFDeflate enables deflate compression of TIFF strips
	TIFFDeflate bool
}

// DefaultConfig returns the encoder parameters used when none are configured
func DefaultConfig() Config {
	return Config{
		PNGCompression: png.DefaultCompression,
		GIFColors:      256,
		TIFFDeflate:    false,
	}
}

type registry struct {
	mu       sync.RWMutex
	encoders map[domain.ContainerFormat]Encoder
	generic  adapter.ImageEncoder
}

// NewRegistry creates an empty registry; every format routes to the generic encoder until registered
func NewRegistry(generic adapter.ImageEncoder) Registry {
	return &registry{
		encoders: make(map[domain.ContainerFormat]Encoder),
		generic:  generic,
	}
}

// NewDefaultRegistry creates a registry holding the specialised JPEG, PNG, GIF and TIFF encoders.
// BMP has no tunable parameters and always uses the generic encoder.
func NewDefaultRegistry(enc adapter.ImageEncoder, cfg Config) Registry {
	if cfg.GIFColors <= 0 || cfg.GIFColors > 256 {
		cfg.GIFColors = 256
	}

	r := NewRegistry(enc)
	r.Register(domain.ContainerFormatJPEG, EncoderFunc(func(w io.Writer, img image.Image, opts Options) error {
		return enc.EncodeJPEG(w, img, jpegQuality(opts.Quality))
	}))
	r.Register(domain.ContainerFormatPNG, EncoderFunc(func(w io.Writer, img image.Image, _ Options) error {
		return enc.EncodePNG(w, img, cfg.PNGCompression)
	}))
	r.Register(domain.ContainerFormatGIF, EncoderFunc(func(w io.Writer, img image.Image, _ Options) error {
		return enc.EncodeGIF(w, img, cfg.GIFColors)
	}))
	r.Register(domain.ContainerFormatTIFF, EncoderFunc(func(w io.Writer, img image.Image, _ Options) error {
		return enc.EncodeTIFF(w, img, cfg.TIFFDeflate)
	}))
	return r
}

func (r *registry) Register(format domain.ContainerFormat, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enc == nil {
		delete(r.encoders, format)
		return
	}
	r.encoders[format] = enc
}

func (r *registry) Lookup(format domain.ContainerFormat) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[format]
	return enc, ok
}

func (r *registry) Encode(w io.Writer, img image.Image, format domain.ContainerFormat, opts Options) error {
	if !format.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedContainerFormat, string(format))
	}

	if enc, ok := r.Lookup(format); ok {
		return enc.Encode(w, img, opts)
	}

	// No specialised entry: default parameters for the format
	return r.generic.Encode(w, img, format.MimeType())
}

// jpegQuality maps the [0, 100] quality scale onto the encoder's [1, 100] range
func jpegQuality(q int) int {
	return min(max(q, 1), 100)
}
