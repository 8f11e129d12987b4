// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Every value lives in a Graph. Operators on *Tensor record the nodes they
// create, and Backward walks the graph from a root, accumulating gradients
// into every node the root was computed from.
//
// Example:
//
//	g := autodiff.NewGraph(autodiff.Config{Seed: 1})
//	x, _ := g.FromSlice([]float32{2})
//	y := x.Pow(2).Add(x.MulScalar(3)) // y = x² + 3x
//	y.Backward()
//	fmt.Println(x.Grad()) // [7]
//
// Gradients accumulate across Backward calls until ZeroGrad.
package autodiff

import (
	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/tensor"
)

// Graph owns the nodes of a computation.
type Graph = autodiff.Graph

// Config configures a Graph.
type Config = autodiff.Config

// Tensor is a handle to one node of a Graph.
type Tensor = autodiff.Tensor

// NodeID is a node's index in its graph.
type NodeID = autodiff.NodeID

// OpKind identifies the operator that produced a node.
type OpKind = autodiff.OpKind

// Operator kinds.
const (
	OpLeaf    = autodiff.OpLeaf
	OpAdd     = autodiff.OpAdd
	OpMul     = autodiff.OpMul
	OpMatMul  = autodiff.OpMatMul
	OpPow     = autodiff.OpPow
	OpExp     = autodiff.OpExp
	OpLog     = autodiff.OpLog
	OpWhere   = autodiff.OpWhere
	OpSum     = autodiff.OpSum
	OpMean    = autodiff.OpMean
	OpReshape = autodiff.OpReshape
)

// Errors.
var (
	ErrType            = autodiff.ErrType
	ErrInvalidArgument = autodiff.ErrInvalidArgument
	ErrShape           = autodiff.ErrShape
	ErrStaleTensor     = autodiff.ErrStaleTensor
	ErrGraphMismatch   = autodiff.ErrGraphMismatch
)

// NewGraph creates an empty graph.
func NewGraph(cfg Config) *Graph {
	return autodiff.NewGraph(cfg)
}

// Exp returns e^x element-wise.
func Exp(x *Tensor) *Tensor {
	return autodiff.Exp(x)
}

// Log returns the natural logarithm of x element-wise.
func Log(x *Tensor) *Tensor {
	return autodiff.Log(x)
}

// Where selects x where mask is true and y elsewhere.
func Where(mask *tensor.Mask, x, y *Tensor) *Tensor {
	return autodiff.Where(mask, x, y)
}

// Sum reduces x to a single-element tensor. Axes are not supported.
func Sum(x *Tensor, axes ...int) (*Tensor, error) {
	return autodiff.Sum(x, axes...)
}

// Mean reduces x to its mean. Axes are not supported.
func Mean(x *Tensor, axes ...int) (*Tensor, error) {
	return autodiff.Mean(x, axes...)
}
