package nn

import (
	"fmt"

	"github.com/born-ml/antorch/internal/autodiff"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features], broadcast over rows
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are drawn from U(-sqrt(3/in), sqrt(3/in)) and biases from
// U(-1/sqrt(in), 1/sqrt(in)), using the graph's random source.
//
// Example:
//
//	g := autodiff.NewGraph(autodiff.Config{Seed: 42})
//	layer := nn.NewLinear(784, 128, true, g)
//
//	input := g.Randn(0, 1, 32, 784)      // batch_size=32
//	output, err := layer.Forward(input) // shape: [32, 128]
type Linear struct {
	Base

	inFeatures  int
	outFeatures int
	weight      *Parameter // [in_features, out_features]
	bias        *Parameter // [out_features], nil without bias
}

// NewLinear creates a new Linear layer whose parameters live in g.
func NewLinear(inFeatures, outFeatures int, bias bool, g *autodiff.Graph) *Linear {
	l := &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
	}
	l.weight = l.RegisterParameter("weight", KaimingUniform(g, inFeatures, outFeatures))
	if bias {
		l.bias = l.RegisterParameter("bias", BiasUniform(g, inFeatures, outFeatures))
	}
	return l
}

// Forward computes x @ W (+ b).
//
// Fails with autodiff.ErrShape unless x is [batch_size, in_features].
func (l *Linear) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		return nil, fmt.Errorf("%w: linear expects [batch, %d], got %v", autodiff.ErrShape, l.inFeatures, shape)
	}

	out := x.MatMul(l.weight.Tensor())
	if l.bias != nil {
		out = out.Add(l.bias.Tensor())
	}
	return out, nil
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter, or nil if the layer has none.
func (l *Linear) Bias() *Parameter {
	return l.bias
}
