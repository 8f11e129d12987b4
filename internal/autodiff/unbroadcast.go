package autodiff

import (
	"fmt"

	"github.com/born-ml/antorch/internal/tensor"
)

// unbroadcast reduces a gradient of the broadcast output shape down to an
// operand's original shape.
//
// The operand shape is right-aligned against the gradient shape; every axis
// where the padded operand size differs from the output size is summed, and
// the result is reshaped to exactly shape.
//
// Example:
//
//	Forward:  a[3,1] + b[1,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum over axis 1)
//	                      -> grad_b[1,4] (sum over axis 0)
//
// A result whose shape is not exactly shape is a bug and panics.
func unbroadcast(grad *tensor.Array, shape tensor.Shape) *tensor.Array {
	if grad.Shape().Equal(shape) {
		return grad
	}

	axes := tensor.ReducedAxes(shape, grad.Shape())
	reduced, err := tensor.SumAxes(grad, axes).Reshape(shape)
	if err != nil {
		panic(fmt.Sprintf("unbroadcast: gradient %v cannot be reduced to %v: %v", grad.Shape(), shape, err))
	}
	return reduced
}
