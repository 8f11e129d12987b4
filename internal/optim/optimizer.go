// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read each parameter's accumulated gradient and write the
// updated value into the parameter's graph node in place.
//
// Example usage:
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})
//	mark := g.Len()
//
//	for epoch := range epochs {
//	    opt.ZeroGrad()
//	    out, _ := model.Forward(inputs)
//	    loss, _ := criterion.Forward(out, targets)
//	    loss.Backward()
//	    opt.Step()
//	    g.Truncate(mark)
//	}
package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/tensor"
)

// ErrInvalidState is returned by LoadStateDict for inconsistent state.
var ErrInvalidState = errors.New("optim: invalid state")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter from its current gradient.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Gradients accumulate across backward passes, so this should be
	// called once per iteration.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32
}

func zeroGrad(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// loadBuffers restores per-parameter buffers stored as "<prefix>.<index>".
// Missing entries leave the buffer unset.
func loadBuffers(prefix string, params []*nn.Parameter, state map[string]*tensor.Array) ([]*tensor.Array, error) {
	bufs := make([]*tensor.Array, len(params))
	for i, p := range params {
		key := fmt.Sprintf("%s.%d", prefix, i)
		src, ok := state[key]
		if !ok {
			continue
		}
		if want := p.Tensor().Shape(); !src.Shape().Equal(want) {
			return nil, fmt.Errorf("%w: %s has shape %v, want %v", tensor.ErrShape, key, src.Shape(), want)
		}
		bufs[i] = src.Clone()
	}
	return bufs, nil
}

func storeBuffers(prefix string, bufs []*tensor.Array, state map[string]*tensor.Array) {
	for i, b := range bufs {
		if b != nil {
			state[fmt.Sprintf("%s.%d", prefix, i)] = b.Clone()
		}
	}
}
