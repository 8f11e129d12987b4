// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for float32 arrays.
//
// Arrays are C-contiguous and always own their storage. Binary operations
// broadcast with NumPy rules.
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b := tensor.Ones(tensor.Shape{2})
//	c, _ := tensor.Add(a, b) // [[2 3] [4 5]]
package tensor

import (
	"github.com/born-ml/antorch/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of an array.
type Shape = tensor.Shape

// Array is a dense float32 array.
type Array = tensor.Array

// Mask is a boolean array used by autodiff.Where.
type Mask = tensor.Mask

// Errors.
var (
	ErrShape     = tensor.ErrShape
	ErrBroadcast = tensor.ErrBroadcast
)

// Constructors

// New creates a zero-filled array, failing on an invalid shape.
func New(shape Shape) (*Array, error) {
	return tensor.New(shape)
}

// FromSlice creates an array holding a copy of data.
func FromSlice(data []float32, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return tensor.Ones(shape)
}

// Full creates an array filled with value.
func Full(shape Shape, value float32) *Array {
	return tensor.Full(shape, value)
}

// NewMask creates a mask holding a copy of data.
func NewMask(data []bool, shape Shape) (*Mask, error) {
	return tensor.NewMask(data, shape)
}

// Operations

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return tensor.Add(a, b)
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return tensor.Sub(a, b)
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return tensor.Mul(a, b)
}

// Div returns a / b with broadcasting.
func Div(a, b *Array) (*Array, error) {
	return tensor.Div(a, b)
}

// MatMul returns the 2-D product of a and b, optionally transposing either.
func MatMul(a, b *Array, transA, transB bool) (*Array, error) {
	return tensor.MatMul(a, b, transA, transB)
}

// BroadcastShapes returns the broadcast shape of a and b.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// AllClose reports whether a and b have equal shapes and elements within tol.
func AllClose(a, b *Array, tol float32) bool {
	return tensor.AllClose(a, b, tol)
}
