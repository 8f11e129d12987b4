package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/born-ml/antorch/internal/autodiff"
	"github.com/born-ml/antorch/internal/checkpoint"
	"github.com/born-ml/antorch/internal/nn"
	"github.com/born-ml/antorch/internal/optim"
	"github.com/born-ml/antorch/internal/tensor"
)

type trainConfig struct {
	Epochs    int
	LR        float64
	Momentum  float64
	Optimizer string
	Hidden    int
	Seed      uint64
	LogEvery  int
	Out       string
}

type trainResult struct {
	Loss        float32
	Predictions []float32
}

// statefulOptimizer is an optimizer whose buffers can be checkpointed.
type statefulOptimizer interface {
	optim.Optimizer
	StateDict() map[string]*tensor.Array
}

func runTrain(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg trainConfig
	fs.IntVar(&cfg.Epochs, "epochs", 2000, "Number of training epochs")
	fs.Float64Var(&cfg.LR, "lr", 0.1, "Learning rate")
	fs.Float64Var(&cfg.Momentum, "momentum", 0.9, "SGD momentum factor")
	fs.StringVar(&cfg.Optimizer, "optimizer", "sgd", "Optimizer: sgd or adam")
	fs.IntVar(&cfg.Hidden, "hidden", 8, "Hidden layer width")
	fs.Uint64Var(&cfg.Seed, "seed", 42, "Seed for parameter initialization")
	fs.IntVar(&cfg.LogEvery, "log-every", 200, "Log the loss every N epochs")
	fs.StringVar(&cfg.Out, "out", "", "Write a checkpoint to this file")
	verbose := fs.Bool("v", false, "Log backward passes at debug level")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := train(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "final loss: %.6f\n", res.Loss)
	for i, in := range xorInputs {
		fmt.Fprintf(stdout, "%v -> %.4f (want %v)\n", in, res.Predictions[i], xorTargets[i])
	}
	return nil
}

var (
	xorInputs  = [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	xorTargets = []float32{0, 1, 1, 0}
)

// train fits a 2-layer tanh MLP to XOR with MSE loss.
func train(cfg trainConfig, logger *slog.Logger) (*trainResult, error) {
	if cfg.Epochs <= 0 || cfg.Hidden <= 0 {
		return nil, fmt.Errorf("%w: epochs and hidden must be positive", errUsage)
	}

	g := autodiff.NewGraph(autodiff.Config{Seed: cfg.Seed, Logger: logger})
	model := nn.NewSequential(
		nn.NewLinear(2, cfg.Hidden, true, g),
		nn.NewTanh(),
		nn.NewLinear(cfg.Hidden, 1, true, g),
	)

	inputs, err := g.Tensor(xorInputs)
	if err != nil {
		return nil, err
	}
	targets, err := g.FromSlice(xorTargets, len(xorTargets), 1)
	if err != nil {
		return nil, err
	}

	opt, err := newOptimizer(cfg, model.Parameters())
	if err != nil {
		return nil, err
	}
	criterion := nn.NewMSELoss()

	logger.Info("training",
		"optimizer", cfg.Optimizer,
		"lr", opt.LR(),
		"hidden", cfg.Hidden,
		"parameters", len(model.Parameters()),
		"epochs", cfg.Epochs)

	// Parameters and data sit below mark; everything above is per-epoch.
	mark := g.Len()
	var last float32
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		opt.ZeroGrad()
		out, err := model.Forward(inputs)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		loss, err := criterion.Forward(out, targets)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		loss.Backward()
		opt.Step()

		last = loss.Item()
		if cfg.LogEvery > 0 && (epoch%cfg.LogEvery == 0 || epoch == cfg.Epochs) {
			logger.Info("epoch", "epoch", epoch, "loss", last)
		}
		g.Truncate(mark)
	}

	out, err := model.Forward(inputs)
	if err != nil {
		return nil, err
	}
	res := &trainResult{Loss: last, Predictions: out.Data().Clone().Data()}

	if cfg.Out != "" {
		state := prefixed("model.", model.StateDict())
		maps.Copy(state, prefixed("optim.", opt.StateDict()))
		ckpt := checkpoint.FromStateDict(int64(cfg.Epochs), float64(last), state)
		if err := checkpoint.SaveFile(cfg.Out, ckpt); err != nil {
			return nil, err
		}
		logger.Info("checkpoint saved", "path", cfg.Out, "tensors", len(ckpt.Tensors))
	}
	return res, nil
}

func newOptimizer(cfg trainConfig, params []*nn.Parameter) (statefulOptimizer, error) {
	switch cfg.Optimizer {
	case "sgd", "":
		return optim.NewSGD(params, optim.SGDConfig{
			LR:       float32(cfg.LR),
			Momentum: float32(cfg.Momentum),
		}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: float32(cfg.LR)}), nil
	default:
		return nil, fmt.Errorf("%w: unknown optimizer %q", errUsage, cfg.Optimizer)
	}
}

func prefixed(prefix string, state map[string]*tensor.Array) map[string]*tensor.Array {
	out := make(map[string]*tensor.Array, len(state))
	for k, v := range state {
		out[prefix+k] = v
	}
	return out
}
