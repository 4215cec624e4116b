package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

// View is a scoped image over a caller-owned pixel buffer. The buffer is
// referenced, never copied; Close drops the reference.
type View struct {
	img image.Image
}

// Acquire wraps buf in an image.Image matching the pixel format.
// palette is used only by indexed formats and must hold the full color table.
func Acquire(buf []byte, width, height, stride int, format domain.PixelFormat, palette color.Palette) (*View, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimensions, width, height)
	}

	minStride, err := MinimumStrideForFormat(width, format)
	if err != nil {
		return nil, err
	}
	if stride < minStride {
		return nil, fmt.Errorf("stride %d is below the minimum %d for %s", stride, minStride, format)
	}
	if len(buf) != BufferSize(stride, height) {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrBufferSizeMismatch, BufferSize(stride, height), len(buf))
	}

	rect := image.Rect(0, 0, width, height)
	var img image.Image
	switch format {
	case domain.PixelFormatIndexed1, domain.PixelFormatIndexed2, domain.PixelFormatIndexed4:
		bits, _ := format.BitsPerPixel()
		img = &Packed{Pix: buf, Stride: stride, Rect: rect, Depth: bits, Palette: palette}
	case domain.PixelFormatIndexed8:
		img = &image.Paletted{Pix: buf, Stride: stride, Rect: rect, Palette: palette}
	case domain.PixelFormatGray8:
		img = &image.Gray{Pix: buf, Stride: stride, Rect: rect}
	case domain.PixelFormatGray16:
		img = &image.Gray16{Pix: buf, Stride: stride, Rect: rect}
	case domain.PixelFormatRGBA32:
		img = &image.NRGBA{Pix: buf, Stride: stride, Rect: rect}
	case domain.PixelFormatRGBA64:
		img = &image.NRGBA64{Pix: buf, Stride: stride, Rect: rect}
	default:
		img = &Direct{Pix: buf, Stride: stride, Rect: rect, Format: format}
	}

	return &View{img: img}, nil
}

// Image returns the wrapped image, or nil once the view is closed
func (v *View) Image() image.Image {
	return v.img
}

// Close releases the buffer reference. It is safe to call more than once.
func (v *View) Close() error {
	v.img = nil
	return nil
}
