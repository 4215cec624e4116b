package raster

import (
	"image"
	"image/color"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

// Packed is an indexed image with 1, 2 or 4 bits per pixel, most significant bits first.
// It shares Pix with the caller and implements image.PalettedImage.
type Packed struct {
	Pix     []byte
	Stride  int
	Rect    image.Rectangle
	Depth   int
	Palette color.Palette
}

func (p *Packed) ColorModel() color.Model { return p.Palette }

func (p *Packed) Bounds() image.Rectangle { return p.Rect }

func (p *Packed) At(x, y int) color.Color {
	if len(p.Palette) == 0 {
		return nil
	}
	i := int(p.ColorIndexAt(x, y))
	if i >= len(p.Palette) {
		return p.Palette[0]
	}
	return p.Palette[i]
}

// ColorIndexAt returns the palette index of the pixel at (x, y)
func (p *Packed) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	bit := (x - p.Rect.Min.X) * p.Depth
	b := p.Pix[(y-p.Rect.Min.Y)*p.Stride+bit/8]
	shift := 8 - p.Depth - bit%8
	return (b >> uint(shift)) & uint8(1<<uint(p.Depth)-1)
}

// Direct is a direct color image over a raw buffer whose layout has no
// equivalent in the image package (BGR orders, 5/6-bit channels, 48-bit RGB).
type Direct struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
	Format domain.PixelFormat
}

func (p *Direct) ColorModel() color.Model {
	switch p.Format {
	case domain.PixelFormatBGRA32:
		return color.NRGBAModel
	case domain.PixelFormatRGB48:
		return color.RGBA64Model
	default:
		return color.RGBAModel
	}
}

func (p *Direct) Bounds() image.Rectangle { return p.Rect }

func (p *Direct) bytesPerPixel() int {
	bits, _ := p.Format.BitsPerPixel()
	return bits / 8
}

// PixOffset returns the index of the first byte of the pixel at (x, y)
func (p *Direct) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*p.bytesPerPixel()
}

func (p *Direct) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+p.bytesPerPixel() : i+p.bytesPerPixel()]

	switch p.Format {
	case domain.PixelFormatBGR555:
		w := uint16(s[0]) | uint16(s[1])<<8
		return color.RGBA{R: expand5(w >> 10), G: expand5(w >> 5), B: expand5(w), A: 0xff}
	case domain.PixelFormatBGR565:
		w := uint16(s[0]) | uint16(s[1])<<8
		return color.RGBA{R: expand5(w >> 11), G: expand6(w >> 5), B: expand5(w), A: 0xff}
	case domain.PixelFormatRGB24:
		return color.RGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
	case domain.PixelFormatBGR24, domain.PixelFormatBGR32:
		return color.RGBA{R: s[2], G: s[1], B: s[0], A: 0xff}
	case domain.PixelFormatBGRA32:
		return color.NRGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
	case domain.PixelFormatRGB48:
		return color.RGBA64{
			R: uint16(s[0])<<8 | uint16(s[1]),
			G: uint16(s[2])<<8 | uint16(s[3]),
			B: uint16(s[4])<<8 | uint16(s[5]),
			A: 0xffff,
		}
	}
	return color.RGBA{}
}

// Opaque scans the alpha channel for BGRA buffers; every other layout has no alpha
func (p *Direct) Opaque() bool {
	if p.Format != domain.PixelFormatBGRA32 {
		return true
	}
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			if p.Pix[p.PixOffset(x, y)+3] != 0xff {
				return false
			}
		}
	}
	return true
}

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}
