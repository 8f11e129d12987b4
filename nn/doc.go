// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: ReLU, LeakyReLU, Sigmoid, Tanh
//   - Loss functions: MSELoss, BCELoss
//   - Utilities: Sequential, Module interface, Base, Parameter
//   - Initialization: Uniform, KaimingUniform, BiasUniform
//
// # Basic Usage
//
//	g := autodiff.NewGraph(autodiff.Config{Seed: 42})
//
//	// Build a simple MLP
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 8, true, g),
//	    nn.NewTanh(),
//	    nn.NewLinear(8, 1, true, g),
//	)
//
//	// Forward pass
//	output, err := model.Forward(input)
//
// # Custom Modules
//
// Embed Base and register parameters and sub-modules explicitly; Base
// provides Parameters, NamedParameters, ZeroGrad, StateDict and
// LoadStateDict.
package nn
