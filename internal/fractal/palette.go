package fractal

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

const (
	PALETTE_GRADIENT = "gradient"
	PALETTE_GRAY     = "gray"
	PALETTE_RAW      = "raw"
)

var ErrUnknownPalette = errors.New("unknown palette")

// Palette resolves a palette by name. The raw palette is nil so the
// color table keeps its default gray ramp and pixels show iteration counts as-is.
func Palette(name string, maxIterations int) (color.Palette, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PALETTE_GRADIENT:
		return Gradient(maxIterations), nil
	case PALETTE_GRAY:
		return Grayscale(maxIterations), nil
	case PALETTE_RAW:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Gradient returns a palette for iteration counts 0..maxIterations.
// Escaping points blend linearly through stops; points inside the set are black.
func Gradient(maxIterations int, stops ...color.Color) color.Palette {
	if maxIterations < 1 {
		return nil
	}
	if len(stops) == 0 {
		stops = DefaultStops()
	}

	p := make(color.Palette, maxIterations+1)
	for i := range maxIterations {
		p[i] = blend(stops, float64(i)/float64(maxIterations))
	}
	p[maxIterations] = color.RGBA{A: 0xff}
	return p
}

// Grayscale stretches iteration counts 0..maxIterations over black to white,
// with points inside the set black.
func Grayscale(maxIterations int) color.Palette {
	if maxIterations < 1 {
		return nil
	}

	p := make(color.Palette, maxIterations+1)
	for i := range maxIterations {
		p[i] = color.Gray{Y: uint8(i * 0xff / maxIterations)}
	}
	p[maxIterations] = color.Gray{}
	return p
}

// DefaultStops is a deep blue to white to orange ramp
func DefaultStops() []color.Color {
	return []color.Color{
		color.RGBA{R: 0x00, G: 0x07, B: 0x64, A: 0xff},
		color.RGBA{R: 0x20, G: 0x6b, B: 0xcb, A: 0xff},
		color.RGBA{R: 0xed, G: 0xff, B: 0xff, A: 0xff},
		color.RGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0xff},
		color.RGBA{R: 0x00, G: 0x02, B: 0x00, A: 0xff},
	}
}

func blend(stops []color.Color, t float64) color.Color {
	if len(stops) == 1 {
		return stops[0]
	}

	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	frac := pos - float64(i)

	r0, g0, b0, _ := stops[i].RGBA()
	r1, g1, b1, _ := stops[i+1].RGBA()
	lerp := func(a, b uint32) uint8 {
		return uint8((float64(a)*(1-frac) + float64(b)*frac) / 257)
	}
	return color.RGBA{R: lerp(r0, r1), G: lerp(g0, g1), B: lerp(b0, b1), A: 0xff}
}
