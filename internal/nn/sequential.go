package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/antorch/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. Children are
// registered under their position, so parameter paths read "0.weight",
// "2.bias" and so on.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, true, g),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, true, g),
//	)
//
//	output, err := model.Forward(input)
type Sequential struct {
	Base

	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	s := &Sequential{}
	for _, m := range modules {
		s.Append(m)
	}
	return s
}

// Append adds m to the end of the chain.
func (s *Sequential) Append(m Module) {
	s.RegisterModule(strconv.Itoa(len(s.modules)), m)
	s.modules = append(s.modules, m)
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	out := x
	for i, m := range s.modules {
		var err error
		if out, err = m.Forward(out); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return out, nil
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// At returns the module at index i.
func (s *Sequential) At(i int) Module {
	return s.modules[i]
}
