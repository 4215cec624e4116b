package raster

import (
	"fmt"
	"math"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

const strideIntervalBits = domain.STRIDE_ALIGNMENT_BYTES * 8

// MinimumStride returns the smallest scanline length in bytes that holds
// width pixels of bitsPerPixel bits and is a multiple of 4.
// Both arguments must be positive and width must not exceed MaxWidth(bitsPerPixel);
// MinimumStrideForFormat enforces this for untrusted input.
func MinimumStride(width int, bitsPerPixel int) int {
	numIntervals := (width*bitsPerPixel + strideIntervalBits - 1) / strideIntervalBits
	return numIntervals * domain.STRIDE_ALIGNMENT_BYTES
}

// MinimumStrideForFormat looks up the bit depth of the pixel format and returns its minimum stride
func MinimumStrideForFormat(width int, format domain.PixelFormat) (int, error) {
	bits, err := format.BitsPerPixel()
	if err != nil {
		return 0, err
	}
	if width <= 0 || width > MaxWidth(bits) {
		return 0, fmt.Errorf("%w: width %d at %d bits per pixel", domain.ErrInvalidDimensions, width, bits)
	}
	return MinimumStride(width, bits), nil
}

// MaxWidth returns the widest row whose stride computation stays within an int
func MaxWidth(bitsPerPixel int) int {
	return (math.MaxInt - (strideIntervalBits - 1)) / bitsPerPixel
}

// BufferSize returns the exact byte count of a buffer with the given stride and height
func BufferSize(stride, height int) int {
	return stride * height
}
