// Package nn implements stateful normalization modules for the Born
// normalization stack.
//
// Modules wrap the kernels in internal/functional and own what a call site
// would otherwise pass by hand:
//   - Parameters: learnable weight and bias tensors
//   - Buffers: running statistics updated during training
//   - Mode: Train() and Eval() switch between batch and running statistics
//
// Design inspired by PyTorch's nn.Module.
package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// Module is the base interface for all modules.
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.RawTensor) (*tensor.RawTensor, error)

	// Parameters returns all learnable parameters of this module.
	// Returns an empty slice for modules without parameters.
	Parameters() []*Parameter
}

// Stateful is a Module with non-learnable state and a training mode.
type Stateful interface {
	Module
	Buffers() []*Parameter
	Train()
	Eval()
	IsTraining() bool
}

// mode tracks whether a module is in training mode. Modules start in
// training mode.
type mode struct {
	eval bool
}

// Train switches the module to training mode.
func (m *mode) Train() { m.eval = false }

// Eval switches the module to evaluation mode.
func (m *mode) Eval() { m.eval = true }

// IsTraining reports whether the module is in training mode.
func (m *mode) IsTraining() bool { return !m.eval }

// Option configures a module at construction.
type Option func(*options)

type options struct {
	engine *functional.Engine
	rng    *rand.Rand
}

// WithEngine runs the module's kernel on e.
func WithEngine(e *functional.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithRand sets the random source used by dropout modules.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = functional.NewEngine()
	}
	return o
}

// optional wraps p's tensor, or returns an absent Optional for a nil p.
func optional(p *Parameter) tensor.OptionalTensor {
	if p == nil {
		return tensor.None[*tensor.RawTensor]()
	}
	return tensor.Some(p.Tensor())
}

func filled(name string, shape tensor.Shape, value float64) (*Parameter, error) {
	t, err := tensor.Full(shape, tensor.Float32, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return NewParameter(name, t), nil
}

// nonNil drops nil entries.
func nonNil(params ...*Parameter) []*Parameter {
	out := make([]*Parameter, 0, len(params))
	for _, p := range params {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
