package density_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/garyhouston/jpegsegs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/feral-file/ff-bitmap/internal/density"
	"github.com/feral-file/ff-bitmap/internal/domain"
)

func sample() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	img.Set(2, 1, color.NRGBA{B: 0xff, A: 0xff})
	return img
}

func TestApply_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), nil))

	out, err := density.Apply(domain.ContainerFormatJPEG, buf.Bytes(), 300)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, out[:4])
	assert.Equal(t, "JFIF\x00", string(out[6:11]))
	assert.Equal(t, byte(1), out[13])
	assert.Equal(t, uint16(300), binary.BigEndian.Uint16(out[14:16]))
	assert.Equal(t, uint16(300), binary.BigEndian.Uint16(out[16:18]))
	assert.Len(t, out, buf.Len()+18)

	_, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// A second pass patches the existing header rather than adding another
	again, err := density.Apply(domain.ContainerFormatJPEG, out, 72)
	require.NoError(t, err)
	assert.Len(t, again, len(out))
	assert.Equal(t, uint16(72), binary.BigEndian.Uint16(again[14:16]))
	assert.Equal(t, uint16(300), binary.BigEndian.Uint16(out[14:16]), "input must not be modified")
}

func readSegments(t *testing.T, data []byte) []jpegsegs.Segment {
	t.Helper()
	scanner, err := jpegsegs.NewScanner(bytes.NewReader(data))
	require.NoError(t, err)
	segments, err := jpegsegs.ReadSegments(scanner)
	require.NoError(t, err)
	return segments
}

func TestApply_JPEGSegments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), &jpeg.Options{Quality: 90}))
	original := readSegments(t, buf.Bytes())

	out, err := density.Apply(domain.ContainerFormatJPEG, buf.Bytes(), 600)
	require.NoError(t, err)

	segments := readSegments(t, out)
	require.Len(t, segments, len(original)+1)
	assert.Equal(t, jpegsegs.Marker(jpegsegs.APP0), segments[0].Marker)
	assert.Equal(t, original, segments[1:], "segments after the inserted header are unchanged")

	// Scan data after SOS is carried over byte for byte
	assert.Equal(t, buf.Bytes()[buf.Len()-100:], out[len(out)-100:])

	again, err := density.Apply(domain.ContainerFormatJPEG, out, 1)
	require.NoError(t, err)
	patched := readSegments(t, again)
	require.Len(t, patched, len(segments))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(patched[0].Data[8:10]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(patched[0].Data[10:12]))
	assert.Equal(t, segments[1:], patched[1:])
}

func TestApply_JPEGMalformed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sample(), nil))

	for name, data := range map[string][]byte{
		"empty":          {},
		"no SOI":         {0x00, 0x01, 0x02},
		"bare SOI":       {0xff, 0xd8},
		"short length":   {0xff, 0xd8, 0xff, 0xdb, 0x00, 0x01},
		"truncated head": buf.Bytes()[:40],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := density.Apply(domain.ContainerFormatJPEG, data, 72)
			assert.ErrorIs(t, err, density.ErrMalformedContainer)
		})
	}
}

func TestApply_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample()))

	out, err := density.Apply(domain.ContainerFormatPNG, buf.Bytes(), 96)
	require.NoError(t, err)
	assert.Len(t, out, buf.Len()+21)

	chunk := out[33:]
	assert.Equal(t, uint32(9), binary.BigEndian.Uint32(chunk[0:4]))
	assert.Equal(t, "pHYs", string(chunk[4:8]))
	// 96 / 0.0254 = 3779.53
	assert.Equal(t, uint32(3780), binary.BigEndian.Uint32(chunk[8:12]))
	assert.Equal(t, uint32(3780), binary.BigEndian.Uint32(chunk[12:16]))
	assert.Equal(t, byte(1), chunk[16])

	// The decoder verifies every chunk checksum
	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
}

func TestApply_BMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, sample()))

	out, err := density.Apply(domain.ContainerFormatBMP, buf.Bytes(), 72)
	require.NoError(t, err)
	assert.Len(t, out, buf.Len())
	// 72 / 0.0254 = 2834.65
	assert.Equal(t, uint32(2835), binary.LittleEndian.Uint32(out[38:42]))
	assert.Equal(t, uint32(2835), binary.LittleEndian.Uint32(out[42:46]))

	_, err = bmp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}

func TestApply_Passthrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, sample(), nil))

	out, err := density.Apply(domain.ContainerFormatGIF, buf.Bytes(), 150)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), out)

	tiffData := []byte("II*\x00rest")
	out, err = density.Apply(domain.ContainerFormatTIFF, tiffData, 150)
	require.NoError(t, err)
	assert.Equal(t, tiffData, out)
}

func TestApply_Errors(t *testing.T) {
	for _, ppi := range []float64{0, -1, 0.3, 0.999, density.MaxPixelsPerInch + 1} {
		_, err := density.Apply(domain.ContainerFormatPNG, nil, ppi)
		assert.ErrorIs(t, err, domain.ErrInvalidPixelsPerInch)
	}

	_, err := density.Apply(domain.ContainerFormatPNG, []byte("not a png at all, clearly not"), 72)
	assert.ErrorIs(t, err, density.ErrMalformedContainer)

	_, err = density.Apply(domain.ContainerFormatJPEG, []byte{0x00}, 72)
	assert.ErrorIs(t, err, density.ErrMalformedContainer)

	_, err = density.Apply(domain.ContainerFormatBMP, []byte("BM"), 72)
	assert.ErrorIs(t, err, density.ErrMalformedContainer)

	_, err = density.Apply(domain.ContainerFormat("webp"), []byte{}, 72)
	assert.ErrorIs(t, err, domain.ErrUnsupportedContainerFormat)
}

func TestValidPixelsPerInch(t *testing.T) {
	assert.False(t, density.ValidPixelsPerInch(0.3))
	assert.False(t, density.ValidPixelsPerInch(0.999))
	assert.True(t, density.ValidPixelsPerInch(density.MinPixelsPerInch))
	assert.True(t, density.ValidPixelsPerInch(density.MaxPixelsPerInch))
	assert.False(t, density.ValidPixelsPerInch(density.MaxPixelsPerInch+0.5))
}
