package nn

import (
	"fmt"

	"github.com/born-ml/antorch/internal/autodiff"
)

// Loss computes a scalar training objective from predictions and targets.
type Loss interface {
	Forward(inputs, targets *autodiff.Tensor) (*autodiff.Tensor, error)
}

func checkSameShape(name string, inputs, targets *autodiff.Tensor) error {
	if !inputs.Shape().Equal(targets.Shape()) {
		return fmt.Errorf("%w: %s inputs %v, targets %v", autodiff.ErrShape, name, inputs.Shape(), targets.Shape())
	}
	return nil
}

// MSELoss computes the squared error summed over all elements and divided
// by the number of targets (the first dimension):
//
//	MSE = Σ(inputs - targets)² / len(targets)
//
// For [N, 1] targets this is the mean squared error.
//
// Example:
//
//	criterion := nn.NewMSELoss()
//	loss, err := criterion.Forward(predictions, targets)
//	loss.Backward()
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the loss. Shapes must match exactly.
func (m *MSELoss) Forward(inputs, targets *autodiff.Tensor) (*autodiff.Tensor, error) {
	if err := checkSameShape("mse", inputs, targets); err != nil {
		return nil, err
	}
	sum, err := autodiff.Sum(inputs.Sub(targets).Pow(2))
	if err != nil {
		return nil, err
	}
	return sum.DivScalar(float32(targets.Len())), nil
}

// BCELoss computes binary cross-entropy between probabilities p in (0, 1)
// and targets t in [0, 1]:
//
//	BCE = -mean(t·log(p+ε) + (1-t)·log(1-p+ε))
type BCELoss struct {
	eps float32
}

// NewBCELoss creates a BCE loss. A zero eps selects 1e-7.
func NewBCELoss(eps float32) *BCELoss {
	if eps == 0 {
		eps = 1e-7
	}
	return &BCELoss{eps: eps}
}

// Forward computes the loss. Shapes must match exactly.
func (b *BCELoss) Forward(inputs, targets *autodiff.Tensor) (*autodiff.Tensor, error) {
	if err := checkSameShape("bce", inputs, targets); err != nil {
		return nil, err
	}
	pos := targets.Mul(autodiff.Log(inputs.AddScalar(b.eps)))
	neg := targets.RSubScalar(1).Mul(autodiff.Log(inputs.RSubScalar(1).AddScalar(b.eps)))
	mean, err := autodiff.Mean(pos.Add(neg))
	if err != nil {
		return nil, err
	}
	return mean.Neg(), nil
}
