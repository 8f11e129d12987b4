package nn

import (
	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// A parameter is a named leaf of an autodiff graph. Optimizers update its
// value in place through Tensor().Data().
//
// Example:
//
//	weight := nn.NewParameter("weight", g.Randn(0, 1, 4, 3))
//	loss.Backward()
//	grad := weight.Grad() // same shape as the value
type Parameter struct {
	name   string
	tensor *autodiff.Tensor
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *autodiff.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name local to its module, e.g. "weight".
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the graph node holding the parameter.
func (p *Parameter) Tensor() *autodiff.Tensor {
	return p.tensor
}

// Grad returns the accumulated gradient.
func (p *Parameter) Grad() *tensor.Array {
	return p.tensor.Grad()
}

// ZeroGrad resets the gradient to zeros.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroGrad()
}
