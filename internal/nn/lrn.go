package nn

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// LocalResponseNorm normalizes across a window of Size neighbouring channels.
type LocalResponseNorm struct {
	Options functional.LocalResponseNormOptions
	engine  *functional.Engine
}

// NewLocalResponseNorm creates a LocalResponseNorm.
func NewLocalResponseNorm(size int, alpha, beta, k float64, opts ...Option) (*LocalResponseNorm, error) {
	if size <= 0 {
		return nil, fmt.Errorf("LocalResponseNorm: size must be positive, got %d", size)
	}
	return &LocalResponseNorm{
		Options: functional.LocalResponseNormOptions{Size: size, Alpha: alpha, Beta: beta, K: k},
		engine:  buildOptions(opts).engine,
	}, nil
}

// Forward applies local response normalization.
func (m *LocalResponseNorm) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.engine.LocalResponseNorm(x, m.Options)
}

// Parameters returns nil; the module has no parameters.
func (m *LocalResponseNorm) Parameters() []*Parameter { return nil }
