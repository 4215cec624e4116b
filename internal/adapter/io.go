package adapter

import (
	"errors"
	"io"
)

// IO defines an interface for IO operations to enable mocking
//
//go:generate mockgen -source=io.go -destination=../mocks/io.go -package=mocks -mock_names=IO=MockIO
type IO interface {
	// ReadAll reads r until EOF, failing once more than limit bytes are available
	ReadAll(r io.Reader, limit int64) ([]byte, error)
}

// ErrReadLimitExceeded is returned when a reader holds more than the allowed number of bytes
var ErrReadLimitExceeded = errors.New("read limit exceeded")

// RealIO implements IO using the standard io package
type RealIO struct{}

// NewIO creates a new real IO implementation
func NewIO() IO {
	return &RealIO{}
}

func (i *RealIO) ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrReadLimitExceeded
	}
	return data, nil
}
