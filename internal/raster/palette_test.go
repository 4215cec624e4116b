package raster_test

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/raster"
)

func TestPaletteTable(t *testing.T) {
	bw := raster.PaletteTable(domain.PixelFormatIndexed1)
	want := color.Palette{
		color.RGBA{A: 0xff},
		color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	if diff := cmp.Diff(want, bw); diff != "" {
		t.Errorf("indexed1 table mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, raster.PaletteTable(domain.PixelFormatIndexed4), 16)
	assert.Len(t, raster.PaletteTable(domain.PixelFormatIndexed8), 256)
	assert.Nil(t, raster.PaletteTable(domain.PixelFormatRGB24))
}

func TestApplyPalette(t *testing.T) {
	table := raster.PaletteTable(domain.PixelFormatIndexed2)
	last := table[3]

	red := color.RGBA{R: 0xff, A: 0xff}
	green := color.RGBA{G: 0xff, A: 0xff}
	require.NoError(t, raster.ApplyPalette(table, color.Palette{red, green}))

	assert.Equal(t, red, table[0])
	assert.Equal(t, green, table[1])
	assert.Equal(t, last, table[3], "entries past the supplied palette must keep their value")
}

func TestApplyPalette_Overflow(t *testing.T) {
	table := raster.PaletteTable(domain.PixelFormatIndexed1)
	before := append(color.Palette(nil), table...)

	err := raster.ApplyPalette(table, color.Palette{color.Black, color.White, color.Black})
	assert.ErrorIs(t, err, domain.ErrPaletteOverflow)
	if diff := cmp.Diff(before, table); diff != "" {
		t.Errorf("table changed on overflow (-before +after):\n%s", diff)
	}
}

func TestApplyPalette_Empty(t *testing.T) {
	table := raster.PaletteTable(domain.PixelFormatIndexed1)
	assert.NoError(t, raster.ApplyPalette(table, nil))
}

func TestCheckPaletteCapacity(t *testing.T) {
	sixteen := make(color.Palette, 16)
	seventeen := make(color.Palette, 17)

	assert.NoError(t, raster.CheckPaletteCapacity(domain.PixelFormatIndexed4, sixteen))
	assert.ErrorIs(t, raster.CheckPaletteCapacity(domain.PixelFormatIndexed4, seventeen), domain.ErrPaletteOverflow)
	assert.NoError(t, raster.CheckPaletteCapacity(domain.PixelFormatIndexed8, seventeen))
	assert.NoError(t, raster.CheckPaletteCapacity(domain.PixelFormatBGR24, seventeen))
}
