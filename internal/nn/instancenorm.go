package nn

import (
	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// DefaultInstanceNormConfig returns eps 1e-5, momentum 0.1, no affine
// parameters and no running statistics.
func DefaultInstanceNormConfig() NormConfig {
	return NormConfig{Eps: functional.DefaultEps, Momentum: functional.DefaultMomentum}
}

// InstanceNorm normalizes each (sample, channel) plane of a [N, C, *] input.
// Without tracked running statistics it always uses input statistics, in
// either mode.
type InstanceNorm struct {
	mode
	NumFeatures int
	Config      NormConfig

	Weight      *Parameter
	Bias        *Parameter
	RunningMean *Parameter
	RunningVar  *Parameter

	engine *functional.Engine
}

// NewInstanceNorm creates an InstanceNorm over numFeatures channels.
func NewInstanceNorm(numFeatures int, cfg NormConfig, opts ...Option) (*InstanceNorm, error) {
	w, b, rm, rv, err := newNormState("InstanceNorm", numFeatures, cfg)
	if err != nil {
		return nil, err
	}
	return &InstanceNorm{
		NumFeatures: numFeatures,
		Config:      cfg,
		Weight:      w,
		Bias:        b,
		RunningMean: rm,
		RunningVar:  rv,
		engine:      buildOptions(opts).engine,
	}, nil
}

// Forward applies instance normalization.
func (m *InstanceNorm) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.engine.InstanceNorm(x, functional.InstanceNormOptions{
		RunningMean:   optional(m.RunningMean),
		RunningVar:    optional(m.RunningVar),
		Weight:        optional(m.Weight),
		Bias:          optional(m.Bias),
		UseInputStats: m.IsTraining() || m.RunningMean == nil,
		Momentum:      m.Config.Momentum,
		Eps:           m.Config.Eps,
	})
}

// Parameters returns weight and bias when affine.
func (m *InstanceNorm) Parameters() []*Parameter {
	return nonNil(m.Weight, m.Bias)
}

// Buffers returns the running statistics when tracked.
func (m *InstanceNorm) Buffers() []*Parameter {
	return nonNil(m.RunningMean, m.RunningVar)
}
