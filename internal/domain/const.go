package domain

const (
	// Builder defaults
	DEFAULT_CONTAINER_FORMAT = ContainerFormatJPEG
	DEFAULT_QUALITY          = 100

	// Quality bounds
	MIN_QUALITY = 0
	MAX_QUALITY = 100

	// Scanlines start on 4-byte boundaries
	STRIDE_ALIGNMENT_BYTES = 4
)
