package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// MatMul computes the 2-D matrix product op(a) @ op(b), where op transposes
// its operand when the corresponding flag is set.
//
// No broadcasting is performed: both operands must be 2-D and the inner
// dimensions must agree.
//
// Example:
//
//	a[2,3] @ b[3,4] -> [2,4]
//	MatMul(g, b, false, true) computes g @ bᵗ
func MatMul(a, b *Array, transA, transB bool) (*Array, error) {
	if a.NDim() != 2 || b.NDim() != 2 {
		return nil, fmt.Errorf("%w: matmul requires 2-D operands, got %v and %v", ErrShape, a.shape, b.shape)
	}

	m, k := a.shape[0], a.shape[1]
	if transA {
		m, k = k, m
	}
	kb, n := b.shape[0], b.shape[1]
	if transB {
		kb, n = n, kb
	}
	if k != kb {
		return nil, fmt.Errorf("%w: matmul inner dimensions differ: %v @ %v (transA=%t, transB=%t)",
			ErrShape, a.shape, b.shape, transA, transB)
	}

	out := &Array{shape: Shape{m, n}, data: make([]float32, m*n)}
	blas32.Gemm(transpose(transA), transpose(transB), 1,
		general(a), general(b), 0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: out.data})
	return out, nil
}

func general(a *Array) blas32.General {
	return blas32.General{
		Rows:   a.shape[0],
		Cols:   a.shape[1],
		Stride: a.shape[1],
		Data:   a.data,
	}
}

func transpose(t bool) blas.Transpose {
	if t {
		return blas.Trans
	}
	return blas.NoTrans
}
