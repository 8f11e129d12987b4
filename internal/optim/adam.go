package optim

import (
	"fmt"

	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/tensor"
	"github.com/chewxy/math32"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	})
type Adam struct {
	params []*nn.Parameter
	config AdamConfig
	t      int             // Timestep for bias correction
	m      []*tensor.Array // First moment estimates
	v      []*tensor.Array // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer, filling zero config fields with
// the defaults above.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		config: config,
		m:      make([]*tensor.Array, len(params)),
		v:      make([]*tensor.Array, len(params)),
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step() {
	a.t++
	beta1, beta2 := a.config.Betas[0], a.config.Betas[1]
	biasCorrection1 := 1 - math32.Pow(beta1, float32(a.t))
	biasCorrection2 := 1 - math32.Pow(beta2, float32(a.t))

	for i, p := range a.params {
		if a.m[i] == nil {
			a.m[i] = tensor.Zeros(p.Tensor().Shape())
			a.v[i] = tensor.Zeros(p.Tensor().Shape())
		}
		m, v := a.m[i].Data(), a.v[i].Data()
		data := p.Tensor().Data().Data()

		for j, g := range p.Grad().Data() {
			m[j] = beta1*m[j] + (1-beta1)*g
			v[j] = beta2*v[j] + (1-beta2)*g*g
			mHat := m[j] / biasCorrection1
			vHat := v[j] / biasCorrection2
			data[j] -= a.config.LR * mHat / (math32.Sqrt(vHat) + a.config.Eps)
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrad(a.params)
}

// LR returns the current learning rate.
func (a *Adam) LR() float32 {
	return a.config.LR
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.config.LR = lr
}

// GlobalStep returns the number of completed Step calls.
func (a *Adam) GlobalStep() int {
	return a.t
}

// StateDict returns copies of the moment buffers and the timestep.
//
// State keys: "m.{param_index}", "v.{param_index}" and "step", a
// single-element array.
func (a *Adam) StateDict() map[string]*tensor.Array {
	state := map[string]*tensor.Array{
		"step": tensor.Scalar(float32(a.t)),
	}
	storeBuffers("m", a.m, state)
	storeBuffers("v", a.v, state)
	return state
}

// LoadStateDict restores moment buffers and the timestep.
func (a *Adam) LoadStateDict(state map[string]*tensor.Array) error {
	m, err := loadBuffers("m", a.params, state)
	if err != nil {
		return err
	}
	v, err := loadBuffers("v", a.params, state)
	if err != nil {
		return err
	}
	for i := range m {
		if (m[i] == nil) != (v[i] == nil) {
			return fmt.Errorf("%w: parameter %d has only one moment buffer", ErrInvalidState, i)
		}
	}

	a.m, a.v = m, v
	a.t = 0
	if step, ok := state["step"]; ok {
		a.t = int(step.Item())
	}
	return nil
}
