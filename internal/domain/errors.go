package domain

import "errors"

var (
	// ErrInvalidDimensions is returned when a pixel width or height is not positive or its buffer size overflows
	ErrInvalidDimensions = errors.New("pixel dimensions must be greater than 0 and fit in memory")

	// ErrUnsupportedPixelFormat is returned when a pixel format has no known bit depth
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")

	// ErrUnsupportedContainerFormat is returned for an unknown container format
	ErrUnsupportedContainerFormat = errors.New("unsupported container format")

	// ErrQualityOutOfRange is returned when quality is outside [0, 100]
	ErrQualityOutOfRange = errors.New("quality must be between 0 and 100")

	// ErrBufferSizeMismatch is returned when a pixel buffer does not match StrideBytes * PixelHeight
	ErrBufferSizeMismatch = errors.New("pixel buffer size mismatch")

	// ErrPaletteOverflow is returned when a palette has more entries than the color table can hold
	ErrPaletteOverflow = errors.New("palette exceeds color table capacity")

	// ErrInvalidPixelsPerInch is returned when the resolution is below 1 or above 65535
	ErrInvalidPixelsPerInch = errors.New("pixels per inch must be between 1 and 65535")
)
