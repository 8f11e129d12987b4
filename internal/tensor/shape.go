package tensor

import "fmt"

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements in the array.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Infer resolves a single -1 dimension so that the shape holds n elements.
//
// Returns an error if more than one dimension is -1, if any other dimension
// is not positive, or if the element count cannot match n.
func (s Shape) Infer(n int) (Shape, error) {
	out := s.Clone()
	unknown := -1
	known := 1
	for i, dim := range out {
		switch {
		case dim == -1:
			if unknown >= 0 {
				return nil, fmt.Errorf("only one dimension can be inferred, got %v", s)
			}
			unknown = i
		case dim <= 0:
			return nil, fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		default:
			known *= dim
		}
	}

	if unknown >= 0 {
		if n%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", s, n)
		}
		out[unknown] = n / known
	}

	if out.NumElements() != n {
		return nil, fmt.Errorf("shape %v holds %d elements, want %d", out, out.NumElements(), n)
	}
	return out, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("%w: %v vs %v (dimension %d: %d vs %d)",
				ErrBroadcast, a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}

// ReducedAxes returns the axes of out along which an operand of shape s was
// broadcast: every leading axis s lacks, plus every axis where s differs
// from out after right-aligning the two shapes.
func ReducedAxes(s, out Shape) []int {
	offset := len(out) - len(s)
	axes := make([]int, 0, len(out))
	for i := range out {
		dim := 1
		if i >= offset {
			dim = s[i-offset]
		}
		if dim != out[i] {
			axes = append(axes, i)
		}
	}
	return axes
}

// broadcastStrides computes strides for reading an array of shape in as if it
// had shape out. Padded and size-1 dimensions get stride 0.
func broadcastStrides(in, out Shape) []int {
	outDim := len(out)
	strides := make([]int, outDim)

	offset := outDim - len(in)
	origStrides := in.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case in[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex maps a flat index in the output to the flat index in a
// broadcast input.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}
