package image

import "errors"

// Errors
var (
	// ErrInvalidParameter is returned when a processor is configured with an out of range value
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedImageKind is returned when a processor can't handle the bands or sample format of an image
	ErrUnsupportedImageKind = errors.New("unsupported image kind")
	// ErrAllocationFailure is returned when the output of an operation can't be allocated
	ErrAllocationFailure = errors.New("allocation failure")
)
