package raster

import (
	"fmt"
	"image/color"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

// PaletteTable returns the color table an indexed image of the given format starts with:
// an evenly spaced gray ramp of PaletteCapacity entries. Direct color formats have no table.
func PaletteTable(format domain.PixelFormat) color.Palette {
	capacity := format.PaletteCapacity()
	if capacity == 0 {
		return nil
	}

	table := make(color.Palette, capacity)
	for i := range capacity {
		v := uint8(i * 255 / (capacity - 1))
		table[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	return table
}

// ApplyPalette copies entries into table starting at index 0.
// Entries past len(entries) keep their previous value.
func ApplyPalette(table color.Palette, entries color.Palette) error {
	if len(entries) > len(table) {
		return fmt.Errorf("%w: %d entries, capacity %d", domain.ErrPaletteOverflow, len(entries), len(table))
	}
	copy(table, entries)
	return nil
}

// CheckPaletteCapacity verifies a palette fits the color table of an indexed format.
// Palettes for direct color formats are never applied and always fit.
func CheckPaletteCapacity(format domain.PixelFormat, entries color.Palette) error {
	if !format.Indexed() {
		return nil
	}
	if capacity := format.PaletteCapacity(); len(entries) > capacity {
		return fmt.Errorf("%w: %d entries, %s holds %d", domain.ErrPaletteOverflow, len(entries), format, capacity)
	}
	return nil
}
