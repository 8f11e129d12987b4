package checkpoint

import (
	"cmp"
	"slices"

	"github.com/born-ml/antorch/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "ANTC"
	FormatVersion   = 1
	FixedHeaderSize = 16 // magic + version + body size
	ChecksumSize    = 32 // SHA-256
)

// Validation limits for resource protection.
const (
	MaxBodySize      = 1 << 32 // 4GB
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// Checkpoint is the saved state of a training run.
type Checkpoint struct {
	Step    int64
	Loss    float64
	Tensors []Entry
}

// Entry is one named array.
type Entry struct {
	Name  string
	Array *tensor.Array
}

// FromStateDict builds a checkpoint from a state dict. Entries are sorted
// by name and share the dict's arrays.
func FromStateDict(step int64, loss float64, state map[string]*tensor.Array) *Checkpoint {
	c := &Checkpoint{Step: step, Loss: loss, Tensors: make([]Entry, 0, len(state))}
	for name, a := range state {
		c.Tensors = append(c.Tensors, Entry{Name: name, Array: a})
	}
	sortEntries(c.Tensors)
	return c
}

// StateDict returns the entries keyed by name.
func (c *Checkpoint) StateDict() map[string]*tensor.Array {
	state := make(map[string]*tensor.Array, len(c.Tensors))
	for _, e := range c.Tensors {
		state[e.Name] = e.Array
	}
	return state
}

// Lookup returns the array named name.
func (c *Checkpoint) Lookup(name string) (*tensor.Array, bool) {
	i, ok := slices.BinarySearchFunc(c.Tensors, name, func(e Entry, name string) int {
		return cmp.Compare(e.Name, name)
	})
	if !ok {
		return nil, false
	}
	return c.Tensors[i].Array, true
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Name, b.Name)
	})
}
