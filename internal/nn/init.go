package nn

import (
	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/chewxy/math32"
)

// Uniform creates a leaf drawn from U(-bound, bound) using g's source.
func Uniform(g *autodiff.Graph, bound float32, shape ...int) *autodiff.Tensor {
	return g.Rand(-bound, bound, shape...)
}

// KaimingUniform creates a weight of shape (fanIn, fanOut) drawn from
// U(-sqrt(3/fanIn), sqrt(3/fanIn)).
//
// The variance 1/fanIn keeps activations at unit scale through a linear
// layer.
func KaimingUniform(g *autodiff.Graph, fanIn, fanOut int) *autodiff.Tensor {
	return Uniform(g, math32.Sqrt(3/float32(fanIn)), fanIn, fanOut)
}

// BiasUniform creates a bias of length n drawn from
// U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
func BiasUniform(g *autodiff.Graph, fanIn, n int) *autodiff.Tensor {
	return Uniform(g, 1/math32.Sqrt(float32(fanIn)), n)
}
