// Package autodiff implements reverse-mode automatic differentiation over
// float32 arrays.
//
// Architecture:
//   - Graph: an append-only arena of node records addressed by NodeID
//   - Tensor: a handle (graph, id, serial) to one record
//   - op: a tagged variant describing how a node was produced; one dispatch
//     routine (propagate) runs the matching vector-Jacobian product
//   - Backward: post-order topological sort by node identity, then reverse
//     traversal accumulating into parent gradients
//
// Usage:
//
//	g := autodiff.NewGraph(autodiff.Config{Seed: 1})
//	x, _ := g.FromSlice([]float32{2})
//	y := x.Pow(2).Add(x.MulScalar(3)) // y = x² + 3x
//	y.Backward()
//	fmt.Println(x.Grad()) // dy/dx = 2x + 3 = [7]
//
// A Graph is not safe for concurrent use.
package autodiff

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/antorch/internal/tensor"
)

// NodeID is the index of a node record in its graph's arena.
type NodeID int

// Config configures a Graph.
type Config struct {
	// Seed drives every random fill (Randn, Rand) of the graph.
	Seed uint64

	// Logger receives debug records for backward passes and truncation.
	// Nil discards them.
	Logger *slog.Logger
}

// Graph owns every node of a computation graph.
//
// Records are only ever appended, so a node's parents always have smaller
// ids than the node itself and the graph cannot contain a cycle.
type Graph struct {
	nodes  []*record
	serial uint64
	src    rand.Source
	logger *slog.Logger
}

// record is one node: value, gradient, parent edges and backward rule.
type record struct {
	data    *tensor.Array
	grad    *tensor.Array
	parents []NodeID
	op      op
	serial  uint64
}

// NewGraph creates an empty graph.
func NewGraph(cfg Config) *Graph {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Graph{
		nodes:  make([]*record, 0, 64),
		src:    rand.NewPCG(cfg.Seed, ^cfg.Seed),
		logger: logger,
	}
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Truncate discards every node with id >= n.
//
// Training loops create their parameters first, record Len, and truncate
// back to it after each optimizer step so that intermediates from the
// previous forward pass do not pile up. Handles to discarded nodes panic
// with ErrStaleTensor.
func (g *Graph) Truncate(n int) {
	if n < 0 || n > len(g.nodes) {
		panic(fmt.Sprintf("Truncate: %d out of range [0, %d]", n, len(g.nodes)))
	}
	dropped := len(g.nodes) - n
	clear(g.nodes[n:])
	g.nodes = g.nodes[:n]
	g.logger.Debug("graph truncated", "len", n, "dropped", dropped)
}

// ZeroGrad resets the gradient of every node in the graph.
func (g *Graph) ZeroGrad() {
	for _, r := range g.nodes {
		r.grad.Fill(0)
	}
}

// push appends a node and returns its handle.
func (g *Graph) push(data *tensor.Array, o op) *Tensor {
	g.serial++
	r := &record{
		data:    data,
		grad:    tensor.Zeros(data.Shape()),
		parents: o.operands(),
		op:      o,
		serial:  g.serial,
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, r)
	return &Tensor{g: g, id: id, serial: r.serial}
}

// handle returns a fresh handle to an existing node.
func (g *Graph) handle(id NodeID) *Tensor {
	return &Tensor{g: g, id: id, serial: g.nodes[id].serial}
}

// leaf appends a node with no parents.
func (g *Graph) leaf(data *tensor.Array) *Tensor {
	return g.push(data, op{kind: OpLeaf})
}

// Tensor creates a leaf from a Go value.
//
// Accepted values:
//   - float32, float64, int: shape [1]
//   - []float32, []float64, []int: shape [len]
//   - [][]float32, [][]float64: shape [rows, cols], rows must be equal length
//   - *tensor.Array: copied
//   - *Tensor: returned unchanged if it belongs to g
//
// Any other type fails with ErrType.
func (g *Graph) Tensor(v any) (*Tensor, error) {
	switch v := v.(type) {
	case float32:
		return g.Scalar(v), nil
	case float64:
		return g.Scalar(float32(v)), nil
	case int:
		return g.Scalar(float32(v)), nil
	case []float32:
		return g.FromSlice(v)
	case []float64:
		return g.FromSlice(convert(v))
	case []int:
		return g.FromSlice(convert(v))
	case [][]float32:
		return fromRows(g, v)
	case [][]float64:
		rows := make([][]float32, len(v))
		for i, row := range v {
			rows[i] = convert(row)
		}
		return fromRows(g, rows)
	case *tensor.Array:
		return g.FromArray(v), nil
	case *Tensor:
		if v.g != g {
			return nil, ErrGraphMismatch
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrType, v)
	}
}

func convert[T float64 | int](v []T) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func fromRows(g *Graph, rows [][]float32) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	cols := len(rows[0])
	flat := make([]float32, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return g.FromSlice(flat, len(rows), cols)
}

// FromSlice creates a leaf holding a copy of data.
// Without a shape the leaf is 1-D.
func (g *Graph) FromSlice(data []float32, shape ...int) (*Tensor, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	a, err := tensor.FromSlice(data, tensor.Shape(shape))
	if err != nil {
		return nil, err
	}
	return g.leaf(a), nil
}

// FromArray creates a leaf holding a copy of a.
func (g *Graph) FromArray(a *tensor.Array) *Tensor {
	return g.leaf(a.Clone())
}

// Scalar creates a leaf of shape [1].
func (g *Graph) Scalar(v float32) *Tensor {
	return g.leaf(tensor.Scalar(v))
}

// Zeros creates a zero-filled leaf.
func (g *Graph) Zeros(shape ...int) *Tensor {
	return g.leaf(tensor.Zeros(tensor.Shape(shape)))
}

// Ones creates a leaf filled with ones.
func (g *Graph) Ones(shape ...int) *Tensor {
	return g.leaf(tensor.Ones(tensor.Shape(shape)))
}

// Full creates a leaf filled with v.
func (g *Graph) Full(v float32, shape ...int) *Tensor {
	return g.leaf(tensor.Full(tensor.Shape(shape), v))
}

// Randn creates a leaf drawn from N(mu, sigma²) using the graph's source.
func (g *Graph) Randn(mu, sigma float32, shape ...int) *Tensor {
	return g.leaf(tensor.Randn(tensor.Shape(shape), mu, sigma, g.src))
}

// Rand creates a leaf drawn uniformly from [lower, upper) using the graph's source.
func (g *Graph) Rand(lower, upper float32, shape ...int) *Tensor {
	return g.leaf(tensor.Rand(tensor.Shape(shape), lower, upper, g.src))
}
