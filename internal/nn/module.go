// Package nn implements neural network modules on top of autodiff graphs.
//
// This package provides building blocks for constructing neural networks:
//   - Module interface: Forward, Parameters, ZeroGrad
//   - Base: explicit parameter and sub-module registry to embed in modules
//   - Linear: Fully connected layer
//   - Sequential: Container for stacking layers
//   - Activations: ReLU, LeakyReLU, Tanh, Sigmoid
//   - Loss functions: MSE, BCE
//
// Every module is composed from autodiff operators, so gradients need no
// per-module backward code.
package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/tensor"
)

var (
	// ErrNotImplemented is returned by Base.Forward when the embedding
	// module does not define Forward.
	ErrNotImplemented = errors.New("nn: forward not implemented")

	// ErrMissingParameter is returned by LoadStateDict when the state dict
	// has no entry for a registered parameter.
	ErrMissingParameter = errors.New("nn: missing parameter")
)

// Module is the interface for all neural network components.
//
// Modules can be composed to build larger architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 8, true, g),
//	    nn.NewTanh(),
//	    nn.NewLinear(8, 1, true, g),
//	)
type Module interface {
	// Forward computes the output of the module for x.
	Forward(x *autodiff.Tensor) (*autodiff.Tensor, error)

	// Parameters returns all trainable parameters, including those of
	// registered sub-modules. Modules without parameters return an empty
	// slice.
	Parameters() []*Parameter

	// ZeroGrad resets the gradient of every parameter.
	ZeroGrad()
}

// NamedParameter pairs a parameter with its dotted path, e.g. "0.weight".
type NamedParameter struct {
	Name      string
	Parameter *Parameter
}

type child struct {
	name   string
	module Module
}

// Base is an explicit registry of parameters and sub-modules.
//
// Modules embed Base and register what they own in their constructor:
//
//	type MLP struct {
//	    nn.Base
//	    hidden, out *nn.Linear
//	}
//
//	func NewMLP(g *autodiff.Graph) *MLP {
//	    m := &MLP{hidden: nn.NewLinear(2, 8, true, g), out: nn.NewLinear(8, 1, true, g)}
//	    m.RegisterModule("hidden", m.hidden)
//	    m.RegisterModule("out", m.out)
//	    return m
//	}
//
// Parameters are collected on every call, so modules registered after
// construction are always included.
type Base struct {
	params   []*Parameter
	children []child
}

// RegisterParameter wraps t as a parameter named name and records it.
func (b *Base) RegisterParameter(name string, t *autodiff.Tensor) *Parameter {
	p := NewParameter(name, t)
	b.params = append(b.params, p)
	return p
}

// RegisterModule records m as a sub-module named name.
func (b *Base) RegisterModule(name string, m Module) {
	b.children = append(b.children, child{name: name, module: m})
}

// Forward returns ErrNotImplemented. Embedding modules override it.
func (b *Base) Forward(*autodiff.Tensor) (*autodiff.Tensor, error) {
	return nil, ErrNotImplemented
}

// Parameters returns own parameters in registration order, followed by
// those of each sub-module.
func (b *Base) Parameters() []*Parameter {
	named := b.NamedParameters()
	out := make([]*Parameter, len(named))
	for i, np := range named {
		out[i] = np.Parameter
	}
	return out
}

// NamedParameters returns the parameters in the same order as Parameters,
// each with its dotted path from this module.
func (b *Base) NamedParameters() []NamedParameter {
	out := make([]NamedParameter, 0, len(b.params))
	for _, p := range b.params {
		out = append(out, NamedParameter{Name: p.Name(), Parameter: p})
	}
	for _, c := range b.children {
		if nm, ok := c.module.(interface{ NamedParameters() []NamedParameter }); ok {
			for _, np := range nm.NamedParameters() {
				out = append(out, NamedParameter{Name: c.name + "." + np.Name, Parameter: np.Parameter})
			}
			continue
		}
		for _, p := range c.module.Parameters() {
			out = append(out, NamedParameter{Name: c.name + "." + p.Name(), Parameter: p})
		}
	}
	return out
}

// ZeroGrad resets the gradient of every parameter.
func (b *Base) ZeroGrad() {
	for _, p := range b.Parameters() {
		p.ZeroGrad()
	}
}

// StateDict returns a copy of every parameter value keyed by dotted path.
func (b *Base) StateDict() map[string]*tensor.Array {
	named := b.NamedParameters()
	state := make(map[string]*tensor.Array, len(named))
	for _, np := range named {
		state[np.Name] = np.Parameter.Tensor().Data().Clone()
	}
	return state
}

// LoadStateDict copies values from state into the parameters in place.
//
// Every registered parameter must be present with its exact shape; extra
// entries are ignored. Nothing is written unless every entry is valid.
func (b *Base) LoadStateDict(state map[string]*tensor.Array) error {
	named := b.NamedParameters()
	for _, np := range named {
		src, ok := state[np.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingParameter, np.Name)
		}
		if want := np.Parameter.Tensor().Shape(); !src.Shape().Equal(want) {
			return fmt.Errorf("%w: %s has shape %v, want %v", autodiff.ErrShape, np.Name, src.Shape(), want)
		}
	}
	for _, np := range named {
		if err := np.Parameter.Tensor().Data().CopyFrom(state[np.Name]); err != nil {
			return fmt.Errorf("load %s: %w", np.Name, err)
		}
	}
	return nil
}
