package raster

import (
	"fmt"

	"github.com/feral-file/ff-bitmap/internal/domain"
)

// ValidateBuffer checks that buf holds exactly stride*height bytes.
// A nil or empty buffer is accepted and means the buffer is materialized later.
func ValidateBuffer(buf []byte, stride, height int) error {
	if len(buf) == 0 {
		return nil
	}

	expected := BufferSize(stride, height)
	if len(buf) != expected {
		return fmt.Errorf("%w: expected %d bytes (stride %d * height %d), got %d",
			domain.ErrBufferSizeMismatch, expected, stride, height, len(buf))
	}

	return nil
}

// Materialize returns buf unchanged when present, otherwise a zero-filled buffer of stride*height bytes
func Materialize(buf []byte, stride, height int) []byte {
	if len(buf) != 0 {
		return buf
	}
	return make([]byte, BufferSize(stride, height))
}
