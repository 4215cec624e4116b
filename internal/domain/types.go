package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PixelFormat describes the per-pixel bit layout of a raw pixel buffer
type PixelFormat string

const (
	PixelFormatIndexed1 PixelFormat = "indexed1"
	PixelFormatIndexed2 PixelFormat = "indexed2"
	PixelFormatIndexed4 PixelFormat = "indexed4"
	PixelFormatIndexed8 PixelFormat = "indexed8"
	PixelFormatGray8    PixelFormat = "gray8"
	PixelFormatGray16   PixelFormat = "gray16" // big-endian
	PixelFormatBGR555   PixelFormat = "bgr555" // little-endian 16-bit word, top bit unused
	PixelFormatBGR565   PixelFormat = "bgr565" // little-endian 16-bit word
	PixelFormatRGB24    PixelFormat = "rgb24"  // R, G, B
	PixelFormatBGR24    PixelFormat = "bgr24"  // B, G, R
	PixelFormatBGR32    PixelFormat = "bgr32"  // B, G, R, unused
	PixelFormatBGRA32   PixelFormat = "bgra32" // B, G, R, A (straight alpha)
	PixelFormatRGBA32   PixelFormat = "rgba32" // R, G, B, A (straight alpha)
	PixelFormatRGB48    PixelFormat = "rgb48"  // 16-bit big-endian channels
	PixelFormatRGBA64   PixelFormat = "rgba64" // 16-bit big-endian channels, straight alpha
)

type pixelFormatInfo struct {
	bitsPerPixel int
	indexed      bool
}

// pixelFormatTable is the fixed lookup table from pixel format to bit depth
var pixelFormatTable = map[PixelFormat]pixelFormatInfo{
	PixelFormatIndexed1: {bitsPerPixel: 1, indexed: true},
	PixelFormatIndexed2: {bitsPerPixel: 2, indexed: true},
	PixelFormatIndexed4: {bitsPerPixel: 4, indexed: true},
	PixelFormatIndexed8: {bitsPerPixel: 8, indexed: true},
	PixelFormatGray8:    {bitsPerPixel: 8},
	PixelFormatGray16:   {bitsPerPixel: 16},
	PixelFormatBGR555:   {bitsPerPixel: 16},
	PixelFormatBGR565:   {bitsPerPixel: 16},
	PixelFormatRGB24:    {bitsPerPixel: 24},
	PixelFormatBGR24:    {bitsPerPixel: 24},
	PixelFormatBGR32:    {bitsPerPixel: 32},
	PixelFormatBGRA32:   {bitsPerPixel: 32},
	PixelFormatRGBA32:   {bitsPerPixel: 32},
	PixelFormatRGB48:    {bitsPerPixel: 48},
	PixelFormatRGBA64:   {bitsPerPixel: 64},
}

// PixelFormats returns every supported pixel format ordered by bit depth
func PixelFormats() []PixelFormat {
	return []PixelFormat{
		PixelFormatIndexed1,
		PixelFormatIndexed2,
		PixelFormatIndexed4,
		PixelFormatIndexed8,
		PixelFormatGray8,
		PixelFormatGray16,
		PixelFormatBGR555,
		PixelFormatBGR565,
		PixelFormatRGB24,
		PixelFormatBGR24,
		PixelFormatBGR32,
		PixelFormatBGRA32,
		PixelFormatRGBA32,
		PixelFormatRGB48,
		PixelFormatRGBA64,
	}
}

// Valid checks if the pixel format is in the supported lookup table
func (f PixelFormat) Valid() bool {
	_, ok := pixelFormatTable[f]
	return ok
}

// BitsPerPixel returns the fixed bit depth of the pixel format
func (f PixelFormat) BitsPerPixel() (int, error) {
	info, ok := pixelFormatTable[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPixelFormat, string(f))
	}
	return info.bitsPerPixel, nil
}

// Indexed reports whether pixels hold palette indices rather than colors
func (f PixelFormat) Indexed() bool {
	return pixelFormatTable[f].indexed
}

// PaletteCapacity returns the size of the color table of an indexed format, 0 for direct color formats
func (f PixelFormat) PaletteCapacity() int {
	info, ok := pixelFormatTable[f]
	if !ok || !info.indexed {
		return 0
	}
	return 1 << info.bitsPerPixel
}

// ParsePixelFormat parses a pixel format name, case-insensitively
func ParsePixelFormat(s string) (PixelFormat, error) {
	f := PixelFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPixelFormat, s)
	}
	return f, nil
}

// ContainerFormat represents the encoded on-disk/on-wire image format
type ContainerFormat string

const (
	ContainerFormatBMP  ContainerFormat = "bmp"
	ContainerFormatPNG  ContainerFormat = "png"
	ContainerFormatJPEG ContainerFormat = "jpeg"
	ContainerFormatGIF  ContainerFormat = "gif"
	ContainerFormatTIFF ContainerFormat = "tiff"
)

var containerMimeTypes = map[ContainerFormat]string{
	ContainerFormatBMP:  "image/bmp",
	ContainerFormatTIFF: "image/tiff",
	ContainerFormatGIF:  "image/gif",
	ContainerFormatJPEG: "image/jpeg",
	ContainerFormatPNG:  "image/png",
}

var containerExtensions = map[ContainerFormat]string{
	ContainerFormatBMP:  ".bmp",
	ContainerFormatTIFF: ".tiff",
	ContainerFormatGIF:  ".gif",
	ContainerFormatJPEG: ".jpg",
	ContainerFormatPNG:  ".png",
}

// containerAliases maps accepted spellings to container formats
var containerAliases = map[string]ContainerFormat{
	"bmp":        ContainerFormatBMP,
	"dib":        ContainerFormatBMP,
	"png":        ContainerFormatPNG,
	"jpeg":       ContainerFormatJPEG,
	"jpg":        ContainerFormatJPEG,
	"jpe":        ContainerFormatJPEG,
	"gif":        ContainerFormatGIF,
	"tiff":       ContainerFormatTIFF,
	"tif":        ContainerFormatTIFF,
	"image/bmp":  ContainerFormatBMP,
	"image/png":  ContainerFormatPNG,
	"image/jpeg": ContainerFormatJPEG,
	"image/gif":  ContainerFormatGIF,
	"image/tiff": ContainerFormatTIFF,
}

// Valid checks if the container format is supported
func (c ContainerFormat) Valid() bool {
	_, ok := containerMimeTypes[c]
	return ok
}

// MimeType returns the canonical MIME identifier of the container format
func (c ContainerFormat) MimeType() string {
	return containerMimeTypes[c]
}

// Extension returns the canonical file extension, including the leading dot
func (c ContainerFormat) Extension() string {
	return containerExtensions[c]
}

// ParseContainerFormat parses a container format from a name, alias, extension or MIME type
func ParseContainerFormat(s string) (ContainerFormat, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if c, ok := containerAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedContainerFormat, s)
}

// ContainerFormatFromPath derives the container format from the extension of a file path
func ContainerFormatFromPath(path string) (ContainerFormat, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension in %q", ErrUnsupportedContainerFormat, path)
	}
	return ParseContainerFormat(ext)
}
