package checkpoint

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrMalformed          = errors.New("malformed checkpoint")
	ErrTooManyTensors     = errors.New("too many tensors in checkpoint")
	ErrInvalidTensorName  = errors.New("invalid tensor name")
)

// ValidationError provides detailed information about an invalid entry.
type ValidationError struct {
	Err     error  // ErrInvalidTensorName, ErrTooManyTensors or ErrMalformed
	Tensor  string // Tensor name involved, if any
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
