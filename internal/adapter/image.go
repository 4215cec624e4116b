package adapter

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ImageEncoder defines an interface for the container codecs to enable mocking
//
//go:generate mockgen -source=image.go -destination=../mocks/image.go -package=mocks -mock_names=ImageEncoder=MockImageEncoder
type ImageEncoder interface {
	// EncodePNG encodes an image to PNG format with the given compression level
	EncodePNG(w io.Writer, img image.Image, level png.CompressionLevel) error
	// EncodeJPEG encodes an image to JPEG format with specified quality
	EncodeJPEG(w io.Writer, img image.Image, quality int) error
	// EncodeGIF encodes an image to GIF format, quantizing to at most numColors colors
	EncodeGIF(w io.Writer, img image.Image, numColors int) error
	// EncodeBMP encodes an image to BMP format
	EncodeBMP(w io.Writer, img image.Image) error
	// EncodeTIFF encodes an image to TIFF format, optionally deflate-compressed
	EncodeTIFF(w io.Writer, img image.Image, deflate bool) error
	// Encode encodes an image with the codec's default parameters, selected by MIME type
	Encode(w io.Writer, img image.Image, mimeType string) error
}

// RealImageEncoder implements ImageEncoder using the standard library and golang.org/x/image
type RealImageEncoder struct{}

// NewImageEncoder creates a new real image encoder
func NewImageEncoder() ImageEncoder {
	return &RealImageEncoder{}
}

// EncodePNG encodes an image to PNG format
func (e *RealImageEncoder) EncodePNG(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := &png.Encoder{CompressionLevel: level}
	return enc.Encode(w, img)
}

// EncodeJPEG encodes an image to JPEG format with specified quality
func (e *RealImageEncoder) EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// EncodeGIF encodes an image to GIF format
func (e *RealImageEncoder) EncodeGIF(w io.Writer, img image.Image, numColors int) error {
	return gif.Encode(w, img, &gif.Options{NumColors: numColors})
}

// EncodeBMP encodes an image to BMP format
func (e *RealImageEncoder) EncodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// EncodeTIFF encodes an image to TIFF format
func (e *RealImageEncoder) EncodeTIFF(w io.Writer, img image.Image, deflate bool) error {
	opts := &tiff.Options{Compression: tiff.Uncompressed}
	if deflate {
		opts.Compression = tiff.Deflate
	}
	return tiff.Encode(w, img, opts)
}

// Encode encodes an image with default parameters for the given MIME type
func (e *RealImageEncoder) Encode(w io.Writer, img image.Image, mimeType string) error {
	switch mimeType {
	case "image/png":
		return png.Encode(w, img)
	case "image/jpeg":
		return jpeg.Encode(w, img, nil)
	case "image/bmp":
		return bmp.Encode(w, img)
	case "image/gif":
		return gif.Encode(w, img, nil)
	case "image/tiff":
		return tiff.Encode(w, img, nil)
	}
	return fmt.Errorf("unsupported output image MIME type %s", mimeType)
}
