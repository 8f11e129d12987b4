// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint saves and loads training checkpoints: a step, a loss
// and named float32 arrays, framed with a SHA-256 checksum.
//
// Example:
//
//	err := checkpoint.SaveFile("run.antc", checkpoint.FromStateDict(step, loss, model.StateDict()))
package checkpoint

import (
	"io"

	"github.com/born-ml/antorch/internal/checkpoint"
	"github.com/born-ml/antorch/internal/tensor"
)

// Checkpoint is the saved state of a training run.
type Checkpoint = checkpoint.Checkpoint

// Entry is one named array.
type Entry = checkpoint.Entry

// ValidationError describes an invalid entry.
type ValidationError = checkpoint.ValidationError

// Errors.
var (
	ErrInvalidMagic       = checkpoint.ErrInvalidMagic
	ErrUnsupportedVersion = checkpoint.ErrUnsupportedVersion
	ErrChecksumMismatch   = checkpoint.ErrChecksumMismatch
	ErrMalformed          = checkpoint.ErrMalformed
	ErrTooManyTensors     = checkpoint.ErrTooManyTensors
	ErrInvalidTensorName  = checkpoint.ErrInvalidTensorName
)

// FromStateDict builds a checkpoint with entries sorted by name.
func FromStateDict(step int64, loss float64, state map[string]*tensor.Array) *Checkpoint {
	return checkpoint.FromStateDict(step, loss, state)
}

// Save writes c to w.
func Save(w io.Writer, c *Checkpoint) error {
	return checkpoint.Save(w, c)
}

// Load reads a checkpoint from r.
func Load(r io.Reader) (*Checkpoint, error) {
	return checkpoint.Load(r)
}

// SaveFile writes c to path.
func SaveFile(path string, c *Checkpoint) error {
	return checkpoint.SaveFile(path, c)
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string) (*Checkpoint, error) {
	return checkpoint.LoadFile(path)
}
