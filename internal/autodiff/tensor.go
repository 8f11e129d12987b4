package autodiff

import (
	"fmt"

	"github.com/born-ml/antorch/internal/tensor"
)

// Tensor is a handle to one node of a Graph.
//
// Handles compare by identity: two handles refer to the same node only if
// they carry the same graph, id and serial. Equal values never make two
// nodes the same.
type Tensor struct {
	g      *Graph
	id     NodeID
	serial uint64
}

// rec resolves the handle to its record.
// Panics with ErrStaleTensor if the node was discarded by Truncate.
func (t *Tensor) rec() *record {
	if int(t.id) >= len(t.g.nodes) || t.g.nodes[t.id].serial != t.serial {
		panic(fmt.Errorf("%w: node %d", ErrStaleTensor, t.id))
	}
	return t.g.nodes[t.id]
}

// sameGraph panics with ErrGraphMismatch unless every operand shares t's graph.
func (t *Tensor) sameGraph(others ...*Tensor) *Graph {
	for _, o := range others {
		if o.g != t.g {
			panic(ErrGraphMismatch)
		}
	}
	return t.g
}

// Graph returns the graph owning the node.
func (t *Tensor) Graph() *Graph {
	return t.g
}

// ID returns the node's index in its graph.
func (t *Tensor) ID() NodeID {
	return t.id
}

// Data returns the node's value. Writing through it (as optimizers do)
// changes the value seen by subsequent operations.
func (t *Tensor) Data() *tensor.Array {
	return t.rec().data
}

// Grad returns the node's gradient buffer, same shape as Data.
func (t *Tensor) Grad() *tensor.Array {
	return t.rec().grad
}

// Shape returns the node's shape.
func (t *Tensor) Shape() tensor.Shape {
	return t.rec().data.Shape()
}

// NDim returns the number of dimensions.
func (t *Tensor) NDim() int {
	return t.rec().data.NDim()
}

// Len returns the size of the first dimension, or 1 for a 0-D tensor.
func (t *Tensor) Len() int {
	shape := t.Shape()
	if len(shape) == 0 {
		return 1
	}
	return shape[0]
}

// Item returns the value of a single-element tensor.
func (t *Tensor) Item() float32 {
	return t.rec().data.Item()
}

// Op returns the kind of operator that produced the node.
func (t *Tensor) Op() OpKind {
	return t.rec().op.kind
}

// IsLeaf reports whether the node has no parents.
func (t *Tensor) IsLeaf() bool {
	return len(t.rec().parents) == 0
}

// Parents returns handles to the nodes t was computed from.
func (t *Tensor) Parents() []*Tensor {
	r := t.rec()
	out := make([]*Tensor, len(r.parents))
	for i, id := range r.parents {
		out[i] = t.g.handle(id)
	}
	return out
}

// ZeroGrad resets the gradient to zeros.
func (t *Tensor) ZeroGrad() {
	t.rec().grad.Fill(0)
}

// Detach returns a new leaf holding a copy of t's value.
func (t *Tensor) Detach() *Tensor {
	return t.g.FromArray(t.rec().data)
}

// View returns a node with the same values in a new shape.
// A single -1 dimension is inferred. Fails with ErrShape if the element
// count changes.
func (t *Tensor) View(shape ...int) (*Tensor, error) {
	data, err := t.rec().data.Reshape(tensor.Shape(shape))
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	return t.g.push(data, op{kind: OpReshape, a: t.id}), nil
}

// String formats the tensor as Tensor(data=..., op=...).
func (t *Tensor) String() string {
	r := t.rec()
	return fmt.Sprintf("Tensor(data=%v, op=%s)", r.data, r.op.tag())
}
