package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return binary(a, b, func(x, y float32) float32 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return binary(a, b, func(x, y float32) float32 { return x - y })
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return binary(a, b, func(x, y float32) float32 { return x * y })
}

// Div returns a / b with broadcasting.
func Div(a, b *Array) (*Array, error) {
	return binary(a, b, func(x, y float32) float32 { return x / y })
}

// binary applies f element-wise over the broadcast of a and b.
func binary(a, b *Array, f func(x, y float32) float32) (*Array, error) {
	shape, needsBroadcast, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}

	out := &Array{shape: shape, data: make([]float32, shape.NumElements())}

	// Fast path: identical shapes
	if !needsBroadcast {
		for i := range out.data {
			out.data[i] = f(a.data[i], b.data[i])
		}
		return out, nil
	}

	outStrides := shape.ComputeStrides()
	aStrides := broadcastStrides(a.shape, shape)
	bStrides := broadcastStrides(b.shape, shape)
	for i := range out.data {
		out.data[i] = f(
			a.data[flatIndex(i, outStrides, aStrides)],
			b.data[flatIndex(i, outStrides, bStrides)],
		)
	}
	return out, nil
}

// AddInPlace accumulates src into dst element-wise. Shapes must be equal.
func AddInPlace(dst, src *Array) error {
	if !dst.shape.Equal(src.shape) {
		return fmt.Errorf("%w: accumulate %v into %v", ErrShape, src.shape, dst.shape)
	}
	for i, v := range src.data {
		dst.data[i] += v
	}
	return nil
}

// Map returns f applied to every element of a.
func Map(a *Array, f func(float32) float32) *Array {
	out := &Array{shape: a.shape.Clone(), data: make([]float32, len(a.data))}
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// Scale returns a * s.
func Scale(a *Array, s float32) *Array {
	return Map(a, func(v float32) float32 { return v * s })
}

// Exp returns e^a element-wise.
func Exp(a *Array) *Array {
	return Map(a, math32.Exp)
}

// Log returns the natural logarithm of a element-wise.
func Log(a *Array) *Array {
	return Map(a, math32.Log)
}

// Pow returns a^p element-wise.
func Pow(a *Array, p float32) *Array {
	return Map(a, func(v float32) float32 { return math32.Pow(v, p) })
}

// Where selects x where mask is true and y elsewhere, broadcasting all three.
func Where(mask *Mask, x, y *Array) (*Array, error) {
	shape, _, err := BroadcastShapes(mask.shape, x.shape)
	if err != nil {
		return nil, err
	}
	shape, _, err = BroadcastShapes(shape, y.shape)
	if err != nil {
		return nil, err
	}

	out := &Array{shape: shape, data: make([]float32, shape.NumElements())}
	outStrides := shape.ComputeStrides()
	mStrides := broadcastStrides(mask.shape, shape)
	xStrides := broadcastStrides(x.shape, shape)
	yStrides := broadcastStrides(y.shape, shape)
	for i := range out.data {
		if mask.data[flatIndex(i, outStrides, mStrides)] {
			out.data[i] = x.data[flatIndex(i, outStrides, xStrides)]
		} else {
			out.data[i] = y.data[flatIndex(i, outStrides, yStrides)]
		}
	}
	return out, nil
}

// BroadcastTo materializes a at a larger shape.
func BroadcastTo(a *Array, shape Shape) (*Array, error) {
	target, _, err := BroadcastShapes(a.shape, shape)
	if err != nil {
		return nil, err
	}
	if !target.Equal(shape) {
		return nil, fmt.Errorf("%w: cannot broadcast %v to %v", ErrBroadcast, a.shape, shape)
	}
	out := &Array{shape: shape.Clone(), data: make([]float32, shape.NumElements())}
	outStrides := shape.ComputeStrides()
	inStrides := broadcastStrides(a.shape, shape)
	for i := range out.data {
		out.data[i] = a.data[flatIndex(i, outStrides, inStrides)]
	}
	return out, nil
}

// SumAxes sums a over the given axes, keeping each reduced axis as size 1.
// Panics if an axis is out of range.
func SumAxes(a *Array, axes []int) *Array {
	outShape := a.shape.Clone()
	for _, ax := range axes {
		if ax < 0 || ax >= len(a.shape) {
			panic(fmt.Sprintf("SumAxes: invalid axis %d for shape %v", ax, a.shape))
		}
		outShape[ax] = 1
	}

	out := &Array{shape: outShape, data: make([]float32, outShape.NumElements())}
	if len(axes) == 0 {
		copy(out.data, a.data)
		return out
	}

	inStrides := a.shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	reduced := make([]bool, len(a.shape))
	for _, ax := range axes {
		reduced[ax] = true
	}

	for i, v := range a.data {
		rem := i
		idx := 0
		for d := range a.shape {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			if !reduced[d] {
				idx += coord * outStrides[d]
			}
		}
		out.data[idx] += v
	}
	return out
}

// Sum returns the sum of all elements.
func Sum(a *Array) float32 {
	var s float32
	for _, v := range a.data {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of all elements.
func Mean(a *Array) float32 {
	return Sum(a) / float32(len(a.data))
}

// AllClose reports whether a and b have equal shapes and every pair of
// elements differs by at most tol.
func AllClose(a, b *Array, tol float32) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i, v := range a.data {
		if math32.Abs(v-b.data[i]) > tol {
			return false
		}
	}
	return true
}
