// Package density writes pixels-per-inch resolution metadata into encoded images.
package density

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/garyhouston/jpegsegs"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

const (
	metersPerInch = 0.0254

	// MinPixelsPerInch is the smallest density that survives rounding to a whole JFIF value
	MinPixelsPerInch = 1

	// MaxPixelsPerInch is the largest density a JFIF header can carry
	MaxPixelsPerInch = math.MaxUint16
)

var (
	// ErrMalformedContainer is returned when encoded bytes do not start with the expected container header
	ErrMalformedContainer = errors.New("malformed container header")

	pngSignature   = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jfifIdentifier = []byte("JFIF\x00")
)

// ValidPixelsPerInch reports whether ppi lies in [MinPixelsPerInch, MaxPixelsPerInch]
func ValidPixelsPerInch(ppi float64) bool {
	return !math.IsNaN(ppi) && ppi >= MinPixelsPerInch && ppi <= MaxPixelsPerInch
}

// Apply returns data with its resolution set to ppi pixels per inch on both axes.
// GIF and TIFF output is returned unchanged.
func Apply(format domain.ContainerFormat, data []byte, ppi float64) ([]byte, error) {
	if !ValidPixelsPerInch(ppi) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPixelsPerInch, ppi)
	}

	switch format {
	case domain.ContainerFormatJPEG:
		return applyJPEG(data, uint16(math.Round(ppi)))
	case domain.ContainerFormatPNG:
		return applyPNG(data, pixelsPerMeter(ppi))
	case domain.ContainerFormatBMP:
		return applyBMP(data, pixelsPerMeter(ppi))
	case domain.ContainerFormatGIF, domain.ContainerFormatTIFF:
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContainerFormat, string(format))
}

func pixelsPerMeter(ppi float64) uint32 {
	return uint32(math.Round(ppi / metersPerInch))
}

// applyJPEG rewrites the JFIF APP0 segment following SOI, inserting one when absent.
// Segments up to SOS are rewritten and the entropy-coded scan data is copied through untouched.
func applyJPEG(data []byte, dpi uint16) (out []byte, err error) {
	// jpegsegs slices past the buffer on a segment length below two
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: jpeg: %v", ErrMalformedContainer, r)
		}
	}()

	reader := bytes.NewReader(data)
	scanner, err := jpegsegs.NewScanner(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg: %v", ErrMalformedContainer, err)
	}
	segments, err := jpegsegs.ReadSegments(scanner)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg: %v", ErrMalformedContainer, err)
	}
	scan := data[len(data)-reader.Len():]

	if len(segments) > 0 && isJFIF(segments[0]) {
		// ReadSegments hands back copies, so patching in place leaves data alone
		header := segments[0].Data
		header[7] = 1 // dots per inch
		binary.BigEndian.PutUint16(header[8:10], dpi)
		binary.BigEndian.PutUint16(header[10:12], dpi)
	} else {
		segments = append([]jpegsegs.Segment{{Marker: jpegsegs.APP0, Data: jfifHeader(dpi)}}, segments...)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + 18)
	dumper, err := jpegsegs.NewDumper(&buf)
	if err != nil {
		return nil, err
	}
	if err := jpegsegs.WriteSegments(dumper, segments); err != nil {
		return nil, err
	}
	buf.Write(scan)
	return buf.Bytes(), nil
}

func isJFIF(segment jpegsegs.Segment) bool {
	return segment.Marker == jpegsegs.APP0 &&
		len(segment.Data) >= 12 &&
		bytes.HasPrefix(segment.Data, jfifIdentifier)
}

func jfifHeader(dpi uint16) []byte {
	header := make([]byte, 0, 14)
	header = append(header, jfifIdentifier...)
	header = append(header, 0x01, 0x02, 0x01) // version 1.02, dots per inch
	header = binary.BigEndian.AppendUint16(header, dpi)
	header = binary.BigEndian.AppendUint16(header, dpi)
	return append(header, 0x00, 0x00) // no thumbnail
}

// applyPNG inserts a pHYs chunk directly after IHDR
func applyPNG(data []byte, ppm uint32) ([]byte, error) {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return nil, fmt.Errorf("%w: png", ErrMalformedContainer)
	}

	body := make([]byte, 0, 13)
	body = append(body, "pHYs"...)
	body = binary.BigEndian.AppendUint32(body, ppm)
	body = binary.BigEndian.AppendUint32(body, ppm)
	body = append(body, 1) // unit: meter

	chunk := make([]byte, 0, 4+len(body)+4)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)-4))
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// applyBMP patches the horizontal and vertical resolution of the info header
func applyBMP(data []byte, ppm uint32) ([]byte, error) {
	const (
		xOffset = 14 + 24
		yOffset = 14 + 28
	)
	if len(data) < yOffset+4 || data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("%w: bmp", ErrMalformedContainer)
	}

	out := bytes.Clone(data)
	binary.LittleEndian.PutUint32(out[xOffset:], ppm)
	binary.LittleEndian.PutUint32(out[yOffset:], ppm)
	return out, nil
}
