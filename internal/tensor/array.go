// Package tensor provides the numeric array storage used by the autodiff engine.
//
// An Array is a float32, C-contiguous (row-major), N-dimensional buffer.
// Operations follow NumPy semantics:
//   - Element-wise arithmetic broadcasts shapes aligned from the right
//   - Reductions sum over axes, keeping reduced dimensions as size 1
//   - MatMul is a plain 2-D product (gonum BLAS)
//
// Arrays carry no gradient information; see internal/autodiff for that.
package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrBroadcast = errors.New("shapes not compatible for broadcasting")
	ErrShape     = errors.New("shape mismatch")
)

// Array is a float32 N-dimensional array in row-major order.
type Array struct {
	shape Shape
	data  []float32
}

// New creates a zero-filled array with the given shape.
func New(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// FromSlice creates an array holding a copy of data with the given shape.
func FromSlice(data []float32, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return &Array{shape: shape.Clone(), data: buf}, nil
}

// Zeros creates an array filled with zeros.
// Panics if the shape is invalid.
func Zeros(shape Shape) *Array {
	a, err := New(shape)
	if err != nil {
		panic(err)
	}
	return a
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates an array filled with value.
func Full(shape Shape, value float32) *Array {
	a := Zeros(shape)
	a.Fill(value)
	return a
}

// Scalar creates a single-element array of shape [1].
func Scalar(value float32) *Array {
	return &Array{shape: Shape{1}, data: []float32{value}}
}

// Shape returns the array's shape. The caller must not modify it.
func (a *Array) Shape() Shape {
	return a.shape
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return len(a.data)
}

// Data returns the underlying buffer in row-major order.
// Writes through the returned slice mutate the array.
func (a *Array) Data() []float32 {
	return a.data
}

// At returns the element at the given coordinates.
func (a *Array) At(idx ...int) float32 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("At: got %d indices for %d-D array", len(idx), len(a.shape)))
	}
	strides := a.shape.ComputeStrides()
	flat := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic(fmt.Sprintf("At: index %d out of range for dimension %d of size %d", v, i, a.shape[i]))
		}
		flat += v * strides[i]
	}
	return a.data[flat]
}

// Item returns the value of a single-element array.
func (a *Array) Item() float32 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("Item: array of shape %v has %d elements", a.shape, len(a.data)))
	}
	return a.data[0]
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	buf := make([]float32, len(a.data))
	copy(buf, a.data)
	return &Array{shape: a.shape.Clone(), data: buf}
}

// Fill sets every element to value.
func (a *Array) Fill(value float32) {
	for i := range a.data {
		a.data[i] = value
	}
}

// Reshape returns a copy of the array with a new shape.
// A single -1 dimension is inferred from the element count.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	resolved, err := shape.Infer(len(a.data))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v: %w", ErrShape, a.shape, shape, err)
	}
	buf := make([]float32, len(a.data))
	copy(buf, a.data)
	return &Array{shape: resolved, data: buf}, nil
}

// CopyFrom overwrites a's elements with src's. Shapes must be equal.
func (a *Array) CopyFrom(src *Array) error {
	if !a.shape.Equal(src.shape) {
		return fmt.Errorf("%w: copy %v into %v", ErrShape, src.shape, a.shape)
	}
	copy(a.data, src.data)
	return nil
}

// String formats the array as nested brackets, e.g. [[1 2] [3 4]].
func (a *Array) String() string {
	var sb strings.Builder
	if len(a.shape) == 0 {
		fmt.Fprintf(&sb, "%g", a.data[0])
		return sb.String()
	}
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, offset int) {
	stride := 1
	for _, d := range a.shape[dim+1:] {
		stride *= d
	}
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if dim == len(a.shape)-1 {
			fmt.Fprintf(sb, "%g", a.data[offset+i])
			continue
		}
		a.format(sb, dim+1, offset+i*stride)
	}
	sb.WriteByte(']')
}
