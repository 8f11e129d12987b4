package tensor

import "fmt"

// Mask is a boolean array used for element-wise selection.
// It never participates in differentiation.
type Mask struct {
	shape Shape
	data  []bool
}

// NewMask creates a mask holding a copy of data with the given shape.
func NewMask(data []bool, shape Shape) (*Mask, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	buf := make([]bool, len(data))
	copy(buf, data)
	return &Mask{shape: shape.Clone(), data: buf}, nil
}

// Shape returns the mask's shape.
func (m *Mask) Shape() Shape {
	return m.shape
}

// Data returns the underlying buffer in row-major order.
func (m *Mask) Data() []bool {
	return m.data
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	buf := make([]bool, len(m.data))
	copy(buf, m.data)
	return &Mask{shape: m.shape.Clone(), data: buf}
}

// Not returns the element-wise complement.
func (m *Mask) Not() *Mask {
	out := &Mask{shape: m.shape.Clone(), data: make([]bool, len(m.data))}
	for i, v := range m.data {
		out.data[i] = !v
	}
	return out
}

// Greater returns a mask that is true where a > value.
func (a *Array) Greater(value float32) *Mask {
	return a.compare(func(v float32) bool { return v > value })
}

// Less returns a mask that is true where a < value.
func (a *Array) Less(value float32) *Mask {
	return a.compare(func(v float32) bool { return v < value })
}

func (a *Array) compare(pred func(float32) bool) *Mask {
	out := &Mask{shape: a.shape.Clone(), data: make([]bool, len(a.data))}
	for i, v := range a.data {
		out.data[i] = pred(v)
	}
	return out
}
