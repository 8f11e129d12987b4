// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/nn"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Base is an explicit parameter and sub-module registry to embed in modules.
type Base = nn.Base

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NamedParameter pairs a parameter with its dotted path.
type NamedParameter = nn.NamedParameter

// Errors.
var (
	ErrNotImplemented   = nn.ErrNotImplemented
	ErrMissingParameter = nn.ErrMissingParameter
)

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *autodiff.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer whose parameters live in g.
//
// Example:
//
//	layer := nn.NewLinear(784, 128, true, g)
func NewLinear(inFeatures, outFeatures int, bias bool, g *autodiff.Graph) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, bias, g)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// LeakyReLU represents the leaky ReLU activation function.
type LeakyReLU = nn.LeakyReLU

// NewLeakyReLU creates a LeakyReLU. A zero alpha selects 0.2.
func NewLeakyReLU(alpha float32) *LeakyReLU {
	return nn.NewLeakyReLU(alpha)
}

// Tanh represents the hyperbolic tangent activation function.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Sigmoid represents the sigmoid activation function.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Loss Functions

// Loss computes a scalar training objective.
type Loss = nn.Loss

// MSELoss represents the squared error loss divided by the number of targets.
type MSELoss = nn.MSELoss

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// BCELoss represents binary cross-entropy over probabilities.
type BCELoss = nn.BCELoss

// NewBCELoss creates a BCE loss. A zero eps selects 1e-7.
func NewBCELoss(eps float32) *BCELoss {
	return nn.NewBCELoss(eps)
}

// Initialization

// Uniform creates a leaf drawn from U(-bound, bound).
func Uniform(g *autodiff.Graph, bound float32, shape ...int) *autodiff.Tensor {
	return nn.Uniform(g, bound, shape...)
}

// KaimingUniform creates a (fanIn, fanOut) weight drawn from U(±sqrt(3/fanIn)).
func KaimingUniform(g *autodiff.Graph, fanIn, fanOut int) *autodiff.Tensor {
	return nn.KaimingUniform(g, fanIn, fanOut)
}

// BiasUniform creates a bias of length n drawn from U(±1/sqrt(fanIn)).
func BiasUniform(g *autodiff.Graph, fanIn, n int) *autodiff.Tensor {
	return nn.BiasUniform(g, fanIn, n)
}
