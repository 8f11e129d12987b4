package autodiff

import (
	"fmt"

	"github.com/born-ml/antorch/internal/tensor"
	"github.com/chewxy/math32"
)

// Backward computes the gradient of t with respect to every node it was
// computed from.
//
// Algorithm:
//  1. Order the subgraph reachable from t so that every node follows all of
//     its parents (post-order DFS, visited set keyed by node id)
//  2. Set t's gradient to ones
//  3. Walk the order in reverse, running each node's backward rule, which
//     adds into its parents' gradients
//
// A node's rule only runs after every node that depends on it has run, so
// its gradient is complete when it propagates. Accumulation is additive:
// a node reached along several paths receives the sum of all of them.
//
// Gradients are never cleared here; call ZeroGrad between passes that
// should not accumulate.
func (t *Tensor) Backward() {
	g := t.g
	root := t.rec()

	order := g.topoSort(t.id)
	root.grad.Fill(1)
	for i := len(order) - 1; i >= 0; i-- {
		g.propagate(g.nodes[order[i]])
	}

	g.logger.Debug("backward pass", "root", t.id, "op", root.op.tag(), "nodes", len(order))
}

// topoSort returns the ids reachable from root in post-order: every node
// appears after all of its parents. Iterative so deep graphs cannot
// exhaust the stack.
func (g *Graph) topoSort(root NodeID) []NodeID {
	// Parents always have smaller ids than their children.
	visited := make([]bool, root+1)
	order := make([]NodeID, 0, root+1)

	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		parents := g.nodes[top.id].parents
		if top.next < len(parents) {
			p := parents[top.next]
			top.next++
			if !visited[p] {
				visited[p] = true
				stack = append(stack, frame{id: p})
			}
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}

	return order
}

// propagate runs the backward rule of r, adding into its operands' gradients.
func (g *Graph) propagate(r *record) {
	grad := r.grad
	o := r.op

	switch o.kind {
	case OpLeaf:
		// Nothing to propagate.

	case OpAdd:
		a, b := g.nodes[o.a], g.nodes[o.b]
		accumulate(a, unbroadcast(grad, a.data.Shape()))
		accumulate(b, unbroadcast(grad, b.data.Shape()))

	case OpMul:
		a, b := g.nodes[o.a], g.nodes[o.b]
		accumulate(a, unbroadcast(must(tensor.Mul(grad, b.data)), a.data.Shape()))
		accumulate(b, unbroadcast(must(tensor.Mul(grad, a.data)), b.data.Shape()))

	case OpMatMul:
		a, b := g.nodes[o.a], g.nodes[o.b]
		accumulate(a, must(tensor.MatMul(grad, b.data, false, true)))
		accumulate(b, must(tensor.MatMul(a.data, grad, true, false)))

	case OpPow:
		a := g.nodes[o.a]
		p := o.exponent
		local := tensor.Map(a.data, func(v float32) float32 { return p * math32.Pow(v, p-1) })
		accumulate(a, must(tensor.Mul(local, grad)))

	case OpExp:
		accumulate(g.nodes[o.a], must(tensor.Mul(r.data, grad)))

	case OpLog:
		a := g.nodes[o.a]
		accumulate(a, must(tensor.Div(grad, a.data)))

	case OpWhere:
		a, b := g.nodes[o.a], g.nodes[o.b]
		zeros := tensor.Zeros(grad.Shape())
		accumulate(a, unbroadcast(must(tensor.Where(o.mask, grad, zeros)), a.data.Shape()))
		accumulate(b, unbroadcast(must(tensor.Where(o.mask, zeros, grad)), b.data.Shape()))

	case OpSum:
		a := g.nodes[o.a]
		accumulate(a, spread(grad, a.data.Shape()))

	case OpMean:
		a := g.nodes[o.a]
		n := float32(a.data.NumElements())
		accumulate(a, tensor.Scale(spread(grad, a.data.Shape()), 1/n))

	case OpReshape:
		a := g.nodes[o.a]
		accumulate(a, must(grad.Reshape(a.data.Shape())))

	default:
		panic(fmt.Sprintf("propagate: unknown op kind %d", o.kind))
	}
}

// spread broadcasts a single-element gradient to shape.
func spread(grad *tensor.Array, shape tensor.Shape) *tensor.Array {
	ones := make(tensor.Shape, len(shape))
	for i := range ones {
		ones[i] = 1
	}
	return must(tensor.BroadcastTo(must(grad.Reshape(ones)), shape))
}

// accumulate adds delta into r's gradient.
func accumulate(r *record, delta *tensor.Array) {
	if err := tensor.AddInPlace(r.grad, delta); err != nil {
		panic(fmt.Sprintf("accumulate: %v", err))
	}
}

// must unwraps results whose shapes were already validated in the forward pass.
func must(a *tensor.Array, err error) *tensor.Array {
	if err != nil {
		panic(err)
	}
	return a
}
