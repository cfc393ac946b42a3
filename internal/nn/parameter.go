package nn

import (
	"github.com/born-ml/born-norm/internal/tensor"
)

// Parameter is a named tensor owned by a module: a learnable weight or bias,
// or a running-statistics buffer.
//
// Kernels mutate buffers in place, so the tensor identity stays stable for
// the module's lifetime; LoadStateDict copies into it rather than replacing
// it.
type Parameter struct {
	name   string
	tensor *tensor.RawTensor
}

// NewParameter creates a new parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}
