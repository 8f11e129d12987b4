package checkpoint

import (
	"fmt"
	"strings"
)

// ValidateTensorName rejects empty names, names over MaxTensorNameLen and
// names with path separators, ".." or null bytes.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case strings.Contains(name, ".."):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains '..'"}
	case strings.ContainsAny(name, "/\\"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains path separator (/ or \\)"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateEntries checks count, names and uniqueness. Entries must already
// be sorted by name.
func ValidateEntries(entries []Entry) error {
	if len(entries) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(entries), MaxTensorCount),
		}
	}

	for i, e := range entries {
		if err := ValidateTensorName(e.Name); err != nil {
			return err
		}
		if e.Array == nil {
			return &ValidationError{Err: ErrMalformed, Tensor: e.Name, Details: "nil array"}
		}
		if i > 0 && entries[i-1].Name == e.Name {
			return &ValidationError{Err: ErrInvalidTensorName, Tensor: e.Name, Details: "duplicate name"}
		}
	}
	return nil
}
