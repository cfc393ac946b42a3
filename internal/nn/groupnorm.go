package nn

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// GroupNorm normalizes groups of channels. Weight and bias are per channel.
type GroupNorm struct {
	NumGroups   int
	NumChannels int
	Eps         float64

	Weight *Parameter // [C], nil unless affine
	Bias   *Parameter // [C], nil unless affine

	engine *functional.Engine
}

// NewGroupNorm creates a GroupNorm. numChannels must be divisible by
// numGroups.
func NewGroupNorm(numGroups, numChannels int, eps float64, affine bool, opts ...Option) (*GroupNorm, error) {
	if numGroups <= 0 || numChannels <= 0 {
		return nil, fmt.Errorf("GroupNorm: num_groups and num_channels must be positive, got %d and %d", numGroups, numChannels)
	}
	if numChannels%numGroups != 0 {
		return nil, fmt.Errorf("GroupNorm: num_channels (%d) must be divisible by num_groups (%d)", numChannels, numGroups)
	}
	m := &GroupNorm{
		NumGroups:   numGroups,
		NumChannels: numChannels,
		Eps:         eps,
		engine:      buildOptions(opts).engine,
	}
	if affine {
		var err error
		if m.Weight, err = filled("weight", tensor.Shape{numChannels}, 1); err != nil {
			return nil, err
		}
		if m.Bias, err = filled("bias", tensor.Shape{numChannels}, 0); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Forward applies group normalization.
func (m *GroupNorm) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.engine.GroupNorm(x, functional.GroupNormOptions{
		NumGroups: m.NumGroups,
		Weight:    optional(m.Weight),
		Bias:      optional(m.Bias),
		Eps:       m.Eps,
	})
}

// Parameters returns weight and bias when affine.
func (m *GroupNorm) Parameters() []*Parameter {
	return nonNil(m.Weight, m.Bias)
}
