package nn_test

import (
	"testing"

	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/tensor"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(seed uint64) *autodiff.Graph {
	return autodiff.NewGraph(autodiff.Config{Seed: seed})
}

func mustTensor(t *testing.T, g *autodiff.Graph, data []float32, shape ...int) *autodiff.Tensor {
	t.Helper()
	x, err := g.FromSlice(data, shape...)
	require.NoError(t, err)
	return x
}

func mustSum(t *testing.T, x *autodiff.Tensor) *autodiff.Tensor {
	t.Helper()
	s, err := autodiff.Sum(x)
	require.NoError(t, err)
	return s
}

func mustForward(t *testing.T, m nn.Module, x *autodiff.Tensor) *autodiff.Tensor {
	t.Helper()
	y, err := m.Forward(x)
	require.NoError(t, err)
	return y
}

func mustArray(t *testing.T, data []float32, shape ...int) *tensor.Array {
	t.Helper()
	a, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return a
}

// TestParameter tests Parameter creation and methods.
func TestParameter(t *testing.T) {
	g := newGraph(0)
	x := mustTensor(t, g, []float32{1, 2, 3})
	p := nn.NewParameter("test_param", x)

	assert.Equal(t, "test_param", p.Name())
	assert.Same(t, x, p.Tensor())
	assert.Equal(t, []float32{0, 0, 0}, p.Grad().Data())

	mustSum(t, x.MulScalar(2)).Backward()
	assert.Equal(t, []float32{2, 2, 2}, p.Grad().Data())

	p.ZeroGrad()
	assert.Equal(t, []float32{0, 0, 0}, p.Grad().Data())
}

// TestLinear_Init tests shapes and initialization bounds.
func TestLinear_Init(t *testing.T) {
	g := newGraph(1)
	l := nn.NewLinear(4, 3, true, g)

	assert.Equal(t, 4, l.InFeatures())
	assert.Equal(t, 3, l.OutFeatures())
	assert.Equal(t, tensor.Shape{4, 3}, l.Weight().Tensor().Shape())
	assert.Equal(t, tensor.Shape{3}, l.Bias().Tensor().Shape())

	wBound := math32.Sqrt(3.0 / 4)
	for _, v := range l.Weight().Tensor().Data().Data() {
		assert.True(t, v >= -wBound && v <= wBound, "weight %v outside ±%v", v, wBound)
	}
	for _, v := range l.Bias().Tensor().Data().Data() {
		assert.True(t, v >= -0.5 && v <= 0.5, "bias %v outside ±0.5", v)
	}

	params := l.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
}

func TestLinear_NoBias(t *testing.T) {
	l := nn.NewLinear(2, 5, false, newGraph(1))

	assert.Nil(t, l.Bias())
	assert.Len(t, l.Parameters(), 1)
}

func TestLinear_Forward(t *testing.T) {
	g := newGraph(1)
	l := nn.NewLinear(2, 2, true, g)
	require.NoError(t, l.LoadStateDict(map[string]*tensor.Array{
		"weight": mustArray(t, []float32{1, 2, 3, 4}, 2, 2),
		"bias":   mustArray(t, []float32{1, -1}, 2),
	}))

	x := mustTensor(t, g, []float32{1, 1, 0, 2}, 2, 2)
	y := mustForward(t, l, x)

	// [1 1] @ W = [4 6], [0 2] @ W = [6 8], plus bias
	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float32{5, 5, 7, 7}, y.Data().Data())
}

func TestLinear_Backward(t *testing.T) {
	g := newGraph(1)
	l := nn.NewLinear(2, 3, true, g)
	x := g.Ones(4, 2)

	mustSum(t, mustForward(t, l, x)).Backward()

	// dW = xᵀ @ ones(4,3), db = column sums of ones(4,3)
	assert.Equal(t, []float32{4, 4, 4, 4, 4, 4}, l.Weight().Grad().Data())
	assert.Equal(t, []float32{4, 4, 4}, l.Bias().Grad().Data())

	l.ZeroGrad()
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, l.Weight().Grad().Data())
	assert.Equal(t, []float32{0, 0, 0}, l.Bias().Grad().Data())
}

func TestLinear_BadInput(t *testing.T) {
	g := newGraph(1)
	l := nn.NewLinear(3, 2, true, g)

	tests := []struct {
		name string
		x    *autodiff.Tensor
	}{
		{"wrong features", g.Ones(2, 4)},
		{"1-D", g.Ones(3)},
		{"3-D", g.Ones(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Forward(tt.x)
			assert.ErrorIs(t, err, autodiff.ErrShape)
		})
	}
}

func TestSequential(t *testing.T) {
	g := newGraph(3)
	model := nn.NewSequential(
		nn.NewLinear(2, 3, true, g),
		nn.NewTanh(),
		nn.NewLinear(3, 1, true, g),
	)

	assert.Equal(t, 3, model.Len())
	assert.IsType(t, &nn.Tanh{}, model.At(1))

	var names []string
	for _, np := range model.NamedParameters() {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{"0.weight", "0.bias", "2.weight", "2.bias"}, names)
	assert.Len(t, model.Parameters(), 4)

	y := mustForward(t, model, g.Ones(5, 2))
	assert.Equal(t, tensor.Shape{5, 1}, y.Shape())
}

func TestSequential_PropagatesError(t *testing.T) {
	g := newGraph(3)
	model := nn.NewSequential(nn.NewLinear(2, 3, true, g), nn.NewLinear(4, 1, true, g))

	_, err := model.Forward(g.Ones(1, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, autodiff.ErrShape)
	assert.Contains(t, err.Error(), "layer 1")
}

type twoLayer struct {
	nn.Base

	scale  *nn.Parameter
	hidden *nn.Linear
}

func (m *twoLayer) Forward(x *autodiff.Tensor) (*autodiff.Tensor, error) {
	h, err := m.hidden.Forward(x)
	if err != nil {
		return nil, err
	}
	return h.Mul(m.scale.Tensor()), nil
}

func newTwoLayer(g *autodiff.Graph) *twoLayer {
	m := &twoLayer{hidden: nn.NewLinear(2, 2, true, g)}
	m.scale = m.RegisterParameter("scale", g.Ones(1))
	m.RegisterModule("hidden", m.hidden)
	return m
}

func TestBase_NestedModule(t *testing.T) {
	g := newGraph(5)
	m := newTwoLayer(g)

	var names []string
	for _, np := range m.NamedParameters() {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{"scale", "hidden.weight", "hidden.bias"}, names)

	outer := nn.NewSequential(m)
	names = names[:0]
	for _, np := range outer.NamedParameters() {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{"0.scale", "0.hidden.weight", "0.hidden.bias"}, names)

	mustSum(t, mustForward(t, outer, g.Ones(3, 2))).Backward()
	for _, p := range outer.Parameters() {
		assert.NotEqual(t, float32(0), tensor.Sum(p.Grad()), p.Name())
	}
	outer.ZeroGrad()
	for _, p := range outer.Parameters() {
		assert.Equal(t, float32(0), tensor.Sum(p.Grad()), p.Name())
	}
}

func TestBase_ParametersRecomputed(t *testing.T) {
	g := newGraph(5)
	m := newTwoLayer(g)
	require.Len(t, m.Parameters(), 3)

	m.RegisterParameter("shift", g.Zeros(2))
	assert.Len(t, m.Parameters(), 4)
}

func TestBase_ForwardNotImplemented(t *testing.T) {
	var b nn.Base
	_, err := b.Forward(newGraph(0).Ones(1))
	assert.ErrorIs(t, err, nn.ErrNotImplemented)
}

func TestStateDict_RoundTrip(t *testing.T) {
	src := newTwoLayer(newGraph(1))
	dst := newTwoLayer(newGraph(2))
	require.NotEqual(t,
		src.hidden.Weight().Tensor().Data().Data(),
		dst.hidden.Weight().Tensor().Data().Data())

	state := src.StateDict()
	require.Len(t, state, 3)
	require.NoError(t, dst.LoadStateDict(state))

	for name, want := range src.StateDict() {
		assert.Equal(t, want.Data(), dst.StateDict()[name].Data(), name)
	}

	// The dict holds copies.
	state["scale"].Fill(9)
	assert.Equal(t, []float32{1}, src.scale.Tensor().Data().Data())
}

func TestLoadStateDict_Errors(t *testing.T) {
	g := newGraph(1)
	m := newTwoLayer(g)
	before := m.StateDict()

	t.Run("missing", func(t *testing.T) {
		state := m.StateDict()
		delete(state, "hidden.bias")
		err := m.LoadStateDict(state)
		assert.ErrorIs(t, err, nn.ErrMissingParameter)
		assert.Contains(t, err.Error(), "hidden.bias")
	})

	t.Run("shape", func(t *testing.T) {
		state := m.StateDict()
		state["scale"] = tensor.Full(tensor.Shape{7}, 3)
		state["hidden.weight"] = tensor.Full(tensor.Shape{2, 2}, 3)
		err := m.LoadStateDict(state)
		assert.ErrorIs(t, err, autodiff.ErrShape)

		// Nothing is written when any entry is invalid.
		assert.Equal(t, before["hidden.weight"].Data(), m.hidden.Weight().Tensor().Data().Data())
	})

	t.Run("extra entries ignored", func(t *testing.T) {
		state := m.StateDict()
		state["unused"] = tensor.Ones(tensor.Shape{1})
		assert.NoError(t, m.LoadStateDict(state))
	})
}

func TestReLU(t *testing.T) {
	g := newGraph(0)
	x := mustTensor(t, g, []float32{-1, 0, 2})

	y := mustForward(t, nn.NewReLU(), x)
	assert.Equal(t, []float32{0, 0, 2}, y.Data().Data())

	mustSum(t, y).Backward()
	assert.Equal(t, []float32{0, 0, 1}, x.Grad().Data())
}

func TestLeakyReLU(t *testing.T) {
	g := newGraph(0)
	x := mustTensor(t, g, []float32{-1, 0, 2})
	act := nn.NewLeakyReLU(0)
	assert.Equal(t, float32(0.2), act.Alpha())

	y := mustForward(t, act, x)
	assert.InDeltaSlice(t, []float32{-0.2, 0, 2}, y.Data().Data(), 1e-6)

	mustSum(t, y).Backward()
	assert.InDeltaSlice(t, []float32{0.2, 0.2, 1}, x.Grad().Data(), 1e-6)
}

func TestTanh(t *testing.T) {
	g := newGraph(0)
	in := []float32{-1.5, 0, 0.5, 2}
	x := mustTensor(t, g, in)

	y := mustForward(t, nn.NewTanh(), x)
	mustSum(t, y).Backward()

	for i, v := range in {
		want := math32.Tanh(v)
		assert.InDelta(t, want, y.Data().Data()[i], 1e-5)
		assert.InDelta(t, 1-want*want, x.Grad().Data()[i], 1e-5)
	}
}

func TestSigmoid(t *testing.T) {
	g := newGraph(0)
	in := []float32{-2, 0, 3}
	x := mustTensor(t, g, in)

	y := mustForward(t, nn.NewSigmoid(), x)
	mustSum(t, y).Backward()

	for i, v := range in {
		want := 1 / (1 + math32.Exp(-v))
		assert.InDelta(t, want, y.Data().Data()[i], 1e-6)
		assert.InDelta(t, want*(1-want), x.Grad().Data()[i], 1e-6)
	}
}

func TestActivationsHaveNoParameters(t *testing.T) {
	for _, m := range []nn.Module{nn.NewReLU(), nn.NewLeakyReLU(0.1), nn.NewTanh(), nn.NewSigmoid()} {
		assert.Empty(t, m.Parameters())
	}
}

func TestMSELoss(t *testing.T) {
	g := newGraph(0)
	x := mustTensor(t, g, []float32{1, 2, 3}, 3, 1)
	target := mustTensor(t, g, []float32{1, 1, 1}, 3, 1)

	loss, err := nn.NewMSELoss().Forward(x, target)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3, loss.Item(), 1e-6)

	loss.Backward()
	// d/dx = 2(x - t) / N
	assert.InDeltaSlice(t, []float32{0, 2.0 / 3, 4.0 / 3}, x.Grad().Data(), 1e-6)
}

func TestMSELoss_ShapeMismatch(t *testing.T) {
	g := newGraph(0)
	_, err := nn.NewMSELoss().Forward(g.Ones(3, 1), g.Ones(3))
	assert.ErrorIs(t, err, autodiff.ErrShape)
}

func TestBCELoss(t *testing.T) {
	g := newGraph(0)
	p := mustTensor(t, g, []float32{0.8, 0.3})
	target := mustTensor(t, g, []float32{1, 0})

	loss, err := nn.NewBCELoss(0).Forward(p, target)
	require.NoError(t, err)
	want := -(math32.Log(0.8) + math32.Log(0.7)) / 2
	assert.InDelta(t, want, loss.Item(), 1e-5)

	loss.Backward()
	// d/dp = -(t/p - (1-t)/(1-p)) / N
	assert.InDeltaSlice(t, []float32{-1 / 0.8 / 2, 1 / 0.7 / 2}, p.Grad().Data(), 1e-4)
}

func TestBCELoss_ShapeMismatch(t *testing.T) {
	g := newGraph(0)
	_, err := nn.NewBCELoss(0).Forward(g.Ones(2), g.Ones(3))
	assert.ErrorIs(t, err, autodiff.ErrShape)
}
