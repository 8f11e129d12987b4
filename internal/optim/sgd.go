package optim

import (
	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*nn.Parameter
	config     SGDConfig
	velocities []*tensor.Array // nil until the parameter's first momentum step
	step       int
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR          float32 // Learning rate (default: 0.01)
	Momentum    float32 // Momentum factor (default: 0.0, range: [0, 1))
	WeightDecay float32 // Recorded in Config; not applied by Step
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		config:     config,
		velocities: make([]*tensor.Array, len(params)),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for i, p := range s.params {
		d := p.Grad().Data()
		if s.config.Momentum != 0 {
			if s.velocities[i] == nil {
				s.velocities[i] = tensor.Zeros(p.Tensor().Shape())
			}
			buf := s.velocities[i].Data()
			for j, g := range d {
				buf[j] = s.config.Momentum*buf[j] + g
			}
			d = buf
		}

		data := p.Tensor().Data().Data()
		for j, g := range d {
			data[j] -= s.config.LR * g
		}
	}
	s.step++
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// LR returns the current learning rate.
func (s *SGD) LR() float32 {
	return s.config.LR
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float32) {
	s.config.LR = lr
}

// Config returns the effective configuration, defaults applied.
func (s *SGD) Config() SGDConfig {
	return s.config
}

// GlobalStep returns the number of completed Step calls.
func (s *SGD) GlobalStep() int {
	return s.step
}

// StateDict returns copies of the momentum buffers.
//
// State keys: "velocity.{param_index}". Parameters that have not been
// stepped with momentum have no entry.
func (s *SGD) StateDict() map[string]*tensor.Array {
	state := make(map[string]*tensor.Array)
	storeBuffers("velocity", s.velocities, state)
	return state
}

// LoadStateDict restores momentum buffers. Missing entries restart the
// buffer from zeros; a shape mismatch fails with tensor.ErrShape and
// leaves the current buffers untouched.
func (s *SGD) LoadStateDict(state map[string]*tensor.Array) error {
	velocities, err := loadBuffers("velocity", s.params, state)
	if err != nil {
		return err
	}
	s.velocities = velocities
	return nil
}
