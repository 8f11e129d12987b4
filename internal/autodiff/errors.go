package autodiff

import (
	"errors"

	"github.com/born-ml/antorch/internal/tensor"
)

// Common errors.
var (
	// ErrType is returned when a constructor receives a value that is not a
	// number, a numeric slice, or an array.
	ErrType = errors.New("unsupported value type")

	// ErrInvalidArgument is returned for unsupported arguments such as a
	// reduction axis.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShape is returned when a reshape does not preserve the element count.
	ErrShape = tensor.ErrShape

	// ErrStaleTensor is the panic value when a tensor handle outlives its
	// record (see Graph.Truncate).
	ErrStaleTensor = errors.New("stale tensor handle")

	// ErrGraphMismatch is the panic value when operands belong to different graphs.
	ErrGraphMismatch = errors.New("tensors belong to different graphs")
)
