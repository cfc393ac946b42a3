package nn

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// NormConfig configures BatchNorm and InstanceNorm.
type NormConfig struct {
	Eps               float64
	Momentum          float64
	Affine            bool // learnable per-channel weight and bias
	TrackRunningStats bool // keep running mean and variance buffers
}

// DefaultBatchNormConfig returns eps 1e-5, momentum 0.1, affine and
// tracking enabled.
func DefaultBatchNormConfig() NormConfig {
	return NormConfig{
		Eps:               functional.DefaultEps,
		Momentum:          functional.DefaultMomentum,
		Affine:            true,
		TrackRunningStats: true,
	}
}

// BatchNorm normalizes each channel over the batch and spatial dims.
//
// In training mode batch statistics are used and, when tracked, folded into
// the running buffers. In evaluation mode the running buffers are used.
// Without tracked statistics batch statistics are always used.
//
// Example:
//
//	bn, err := nn.NewBatchNorm(3, nn.DefaultBatchNormConfig())
//	out, err := bn.Forward(x) // [N, 3, H, W] -> [N, 3, H, W]
type BatchNorm struct {
	mode
	NumFeatures int
	Config      NormConfig

	Weight      *Parameter // [C], nil unless Affine
	Bias        *Parameter // [C], nil unless Affine
	RunningMean *Parameter // [C], nil unless TrackRunningStats
	RunningVar  *Parameter // [C], nil unless TrackRunningStats

	NumBatchesTracked int64

	engine *functional.Engine
}

// NewBatchNorm creates a BatchNorm over numFeatures channels. Weight starts
// at ones, bias at zeros, running mean at zeros and running variance at
// ones.
func NewBatchNorm(numFeatures int, cfg NormConfig, opts ...Option) (*BatchNorm, error) {
	w, b, rm, rv, err := newNormState("BatchNorm", numFeatures, cfg)
	if err != nil {
		return nil, err
	}
	return &BatchNorm{
		NumFeatures: numFeatures,
		Config:      cfg,
		Weight:      w,
		Bias:        b,
		RunningMean: rm,
		RunningVar:  rv,
		engine:      buildOptions(opts).engine,
	}, nil
}

func newNormState(op string, numFeatures int, cfg NormConfig) (w, b, rm, rv *Parameter, err error) {
	if numFeatures <= 0 {
		return nil, nil, nil, nil, fmt.Errorf("%s: num_features must be positive, got %d", op, numFeatures)
	}
	shape := tensor.Shape{numFeatures}
	if cfg.Affine {
		if w, err = filled("weight", shape, 1); err != nil {
			return nil, nil, nil, nil, err
		}
		if b, err = filled("bias", shape, 0); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	if cfg.TrackRunningStats {
		if rm, err = filled("running_mean", shape, 0); err != nil {
			return nil, nil, nil, nil, err
		}
		if rv, err = filled("running_var", shape, 1); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return w, b, rm, rv, nil
}

// Forward applies batch normalization.
func (m *BatchNorm) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	useBatchStats := m.IsTraining() || m.RunningMean == nil
	out, err := m.engine.BatchNorm(x, functional.BatchNormOptions{
		RunningMean: optional(m.RunningMean),
		RunningVar:  optional(m.RunningVar),
		Weight:      optional(m.Weight),
		Bias:        optional(m.Bias),
		Training:    useBatchStats,
		Momentum:    m.Config.Momentum,
		Eps:         m.Config.Eps,
	})
	if err != nil {
		return nil, err
	}
	if m.IsTraining() && m.RunningMean != nil {
		m.NumBatchesTracked++
	}
	return out, nil
}

// Parameters returns weight and bias when affine.
func (m *BatchNorm) Parameters() []*Parameter {
	return nonNil(m.Weight, m.Bias)
}

// Buffers returns the running statistics when tracked.
func (m *BatchNorm) Buffers() []*Parameter {
	return nonNil(m.RunningMean, m.RunningVar)
}
