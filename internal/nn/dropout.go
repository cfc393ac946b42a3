package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// Dropout3d zeroes whole channels of 5D (or unbatched 4D) inputs during
// training. In evaluation mode it is the identity.
type Dropout3d struct {
	mode
	P       float64
	Inplace bool

	rng    *rand.Rand
	engine *functional.Engine
}

// NewDropout3d creates a Dropout3d with drop probability p in [0, 1].
func NewDropout3d(p float64, inplace bool, opts ...Option) (*Dropout3d, error) {
	if !(p >= 0 && p <= 1) {
		return nil, fmt.Errorf("Dropout3d: dropout probability has to be between 0 and 1, but got %v", p)
	}
	o := buildOptions(opts)
	return &Dropout3d{P: p, Inplace: inplace, rng: o.rng, engine: o.engine}, nil
}

// Forward applies channel dropout.
func (m *Dropout3d) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.engine.Dropout3d(x, functional.Dropout3dOptions{
		P:        m.P,
		Training: m.IsTraining(),
		Inplace:  m.Inplace,
		Rand:     m.rng,
	})
}

// Parameters returns nil; the module has no parameters.
func (m *Dropout3d) Parameters() []*Parameter { return nil }
