package nn

import (
	"github.com/born-ml/antorch/internal/autodiff"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// The gradient is 1 where x > 0 and 0 elsewhere, including at x = 0.
//
// Example:
//
//	relu := nn.NewReLU()
//	output, _ := relu.Forward(input) // All negative values become 0
type ReLU struct {
	Base
}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	return autodiff.Where(x.Data().Greater(0), x, x.Graph().Scalar(0)), nil
}

// LeakyReLU applies f(x) = x for x > 0 and alpha*x otherwise.
type LeakyReLU struct {
	Base

	alpha float32
}

// NewLeakyReLU creates a LeakyReLU. A zero alpha selects 0.2.
func NewLeakyReLU(alpha float32) *LeakyReLU {
	if alpha == 0 {
		alpha = 0.2
	}
	return &LeakyReLU{alpha: alpha}
}

// Alpha returns the negative slope.
func (l *LeakyReLU) Alpha() float32 {
	return l.alpha
}

// Forward applies LeakyReLU activation.
func (l *LeakyReLU) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	return autodiff.Where(x.Data().Greater(0), x, x.MulScalar(l.alpha)), nil
}

// Tanh is a hyperbolic tangent activation module.
//
// Applies: tanh(x) = (e^x - e^-x) / (e^x + e^-x)
//
// Output range: (-1, 1). Inputs with |x| above about 88 overflow float32
// and produce NaN.
type Tanh struct {
	Base
}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies Tanh activation.
func (t *Tanh) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	pos := autodiff.Exp(x)
	neg := autodiff.Exp(x.Neg())
	return pos.Sub(neg).Div(pos.Add(neg)), nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies: σ(x) = 1 / (1 + e^-x)
//
// Output range: (0, 1)
type Sigmoid struct {
	Base
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies Sigmoid activation.
func (s *Sigmoid) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	return autodiff.Exp(x.Neg()).AddScalar(1).Pow(-1), nil
}
