package autodiff

import (
	"fmt"

	"github.com/born-ml/antorch/internal/tensor"
)

// Operators build new nodes and never modify their operands' values.
// Incompatible shapes are programming errors and panic, as do operands
// from different graphs.

// Add returns t + other with broadcasting.
//
// Backward: the output gradient, reduced to each operand's shape.
func (t *Tensor) Add(other *Tensor) *Tensor {
	g := t.sameGraph(other)
	out, err := tensor.Add(t.rec().data, other.rec().data)
	if err != nil {
		panic(fmt.Errorf("add: %w", err))
	}
	return g.push(out, op{kind: OpAdd, a: t.id, b: other.id})
}

// Mul returns t * other with broadcasting.
//
// Backward: grad_t = G * other, grad_other = G * t, each reduced to its
// operand's shape.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	g := t.sameGraph(other)
	out, err := tensor.Mul(t.rec().data, other.rec().data)
	if err != nil {
		panic(fmt.Errorf("mul: %w", err))
	}
	return g.push(out, op{kind: OpMul, a: t.id, b: other.id})
}

// MatMul returns the 2-D matrix product t @ other. No broadcasting.
//
// Backward: dA = G @ Bᵗ, dB = Aᵗ @ G.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	g := t.sameGraph(other)
	out, err := tensor.MatMul(t.rec().data, other.rec().data, false, false)
	if err != nil {
		panic(fmt.Errorf("matmul: %w", err))
	}
	return g.push(out, op{kind: OpMatMul, a: t.id, b: other.id})
}

// Pow returns t^p element-wise.
//
// Backward: p * t^(p-1) * G.
func (t *Tensor) Pow(p float32) *Tensor {
	out := tensor.Pow(t.rec().data, p)
	return t.g.push(out, op{kind: OpPow, a: t.id, exponent: p})
}

// Exp returns e^x element-wise.
//
// Backward: e^x * G, reusing the output value.
func Exp(x *Tensor) *Tensor {
	out := tensor.Exp(x.rec().data)
	return x.g.push(out, op{kind: OpExp, a: x.id})
}

// Log returns the natural logarithm of x element-wise.
//
// Backward: G / x. Assumes x > 0.
func Log(x *Tensor) *Tensor {
	out := tensor.Log(x.rec().data)
	return x.g.push(out, op{kind: OpLog, a: x.id})
}

// Where selects x where mask is true and y elsewhere. The mask is copied
// and not differentiated.
//
// Backward: G flows to x where mask is true and to y where it is false,
// each reduced to its operand's shape.
func Where(mask *tensor.Mask, x, y *Tensor) *Tensor {
	g := x.sameGraph(y)
	out, err := tensor.Where(mask, x.rec().data, y.rec().data)
	if err != nil {
		panic(fmt.Errorf("where: %w", err))
	}
	return g.push(out, op{kind: OpWhere, a: x.id, b: y.id, mask: mask.Clone()})
}

// Sum reduces x to a single-element tensor of shape [1].
//
// Only full reduction is supported: passing any axis fails with
// ErrInvalidArgument.
//
// Backward: G broadcast to every element of x.
func Sum(x *Tensor, axes ...int) (*Tensor, error) {
	if len(axes) > 0 {
		return nil, fmt.Errorf("%w: sum over axes %v is not supported", ErrInvalidArgument, axes)
	}
	out := tensor.Scalar(tensor.Sum(x.rec().data))
	return x.g.push(out, op{kind: OpSum, a: x.id}), nil
}

// Mean reduces x to its arithmetic mean, shape [1].
//
// Only full reduction is supported: passing any axis fails with
// ErrInvalidArgument.
//
// Backward: G / count broadcast to every element of x.
func Mean(x *Tensor, axes ...int) (*Tensor, error) {
	if len(axes) > 0 {
		return nil, fmt.Errorf("%w: mean over axes %v is not supported", ErrInvalidArgument, axes)
	}
	out := tensor.Scalar(tensor.Mean(x.rec().data))
	return x.g.push(out, op{kind: OpMean, a: x.id}), nil
}

// Derived operators. These add no backward rules of their own.

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	return t.MulScalar(-1)
}

// Sub returns t - other, computed as t + (-other).
func (t *Tensor) Sub(other *Tensor) *Tensor {
	return t.Add(other.Neg())
}

// Div returns t / other, computed as t * other^-1.
func (t *Tensor) Div(other *Tensor) *Tensor {
	return t.Mul(other.Pow(-1))
}

// AddScalar returns t + s.
func (t *Tensor) AddScalar(s float32) *Tensor {
	return t.Add(t.g.Scalar(s))
}

// SubScalar returns t - s.
func (t *Tensor) SubScalar(s float32) *Tensor {
	return t.Sub(t.g.Scalar(s))
}

// RSubScalar returns s - t.
func (t *Tensor) RSubScalar(s float32) *Tensor {
	return t.g.Scalar(s).Sub(t)
}

// MulScalar returns t * s.
func (t *Tensor) MulScalar(s float32) *Tensor {
	return t.Mul(t.g.Scalar(s))
}

// DivScalar returns t / s.
func (t *Tensor) DivScalar(s float32) *Tensor {
	return t.Div(t.g.Scalar(s))
}
