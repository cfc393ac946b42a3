package shim

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// Operation names, shared with the Registry.
const (
	OpBatchNorm         = "batch_norm"
	OpGroupNorm         = "group_norm"
	OpInstanceNorm      = "instance_norm"
	OpLayerNorm         = "layer_norm"
	OpLocalResponseNorm = "local_response_norm"
	OpDropout3d         = "dropout3d"
	OpMaxUnpool2d       = "max_unpool2d"
)

// BatchNorm normalizes input per channel. Running statistics passed as
// non-null handles are updated in place when training. The reference CPU
// kernel is always used; the session's accelerator is never consulted.
func (s *Session) BatchNorm(input, runningMean, runningVar, weight, bias Handle,
	training bool, momentum, eps float64) (Handle, error) {
	return s.call(OpBatchNorm, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		opts := functional.BatchNormOptions{Training: training, Momentum: momentum, Eps: eps}
		if opts.RunningMean, err = s.optional("running_mean", runningMean); err != nil {
			return nil, err
		}
		if opts.RunningVar, err = s.optional("running_var", runningVar); err != nil {
			return nil, err
		}
		if opts.Weight, err = s.optional("weight", weight); err != nil {
			return nil, err
		}
		if opts.Bias, err = s.optional("bias", bias); err != nil {
			return nil, err
		}
		return s.engine.BatchNorm(x, opts)
	})
}

// GroupNorm normalizes input over groups of channels.
func (s *Session) GroupNorm(input Handle, numGroups int64, weight, bias Handle, eps float64) (Handle, error) {
	return s.call(OpGroupNorm, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		opts := functional.GroupNormOptions{NumGroups: int(numGroups), Eps: eps}
		if opts.Weight, err = s.optional("weight", weight); err != nil {
			return nil, err
		}
		if opts.Bias, err = s.optional("bias", bias); err != nil {
			return nil, err
		}
		return s.engine.GroupNorm(x, opts)
	})
}

// InstanceNorm normalizes every (sample, channel) plane of input.
func (s *Session) InstanceNorm(input, runningMean, runningVar, weight, bias Handle,
	useInputStats bool, momentum, eps float64) (Handle, error) {
	return s.call(OpInstanceNorm, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		opts := functional.InstanceNormOptions{UseInputStats: useInputStats, Momentum: momentum, Eps: eps}
		if opts.RunningMean, err = s.optional("running_mean", runningMean); err != nil {
			return nil, err
		}
		if opts.RunningVar, err = s.optional("running_var", runningVar); err != nil {
			return nil, err
		}
		if opts.Weight, err = s.optional("weight", weight); err != nil {
			return nil, err
		}
		if opts.Bias, err = s.optional("bias", bias); err != nil {
			return nil, err
		}
		return s.engine.InstanceNorm(x, opts)
	})
}

// LayerNorm normalizes input over its trailing normalizedShape dims. An
// empty normalizedShape is accepted.
func (s *Session) LayerNorm(input Handle, normalizedShape []int64, weight, bias Handle, eps float64) (Handle, error) {
	return s.call(OpLayerNorm, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		shape, err := tensor.ShapeFromInt64(normalizedShape)
		if err != nil {
			return nil, fmt.Errorf("normalized_shape: %w", err)
		}
		opts := functional.LayerNormOptions{NormalizedShape: shape, Eps: eps}
		if opts.Weight, err = s.optional("weight", weight); err != nil {
			return nil, err
		}
		if opts.Bias, err = s.optional("bias", bias); err != nil {
			return nil, err
		}
		return s.engine.LayerNorm(x, opts)
	})
}

// LocalResponseNorm normalizes input across a window of neighbouring
// channels.
func (s *Session) LocalResponseNorm(input Handle, size int64, alpha, beta, k float64) (Handle, error) {
	return s.call(OpLocalResponseNorm, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		return s.engine.LocalResponseNorm(x, functional.LocalResponseNormOptions{
			Size: int(size), Alpha: alpha, Beta: beta, K: k,
		})
	})
}

// Dropout3d zeroes whole channels of input with probability p.
func (s *Session) Dropout3d(input Handle, p float64, training, inplace bool) (Handle, error) {
	return s.call(OpDropout3d, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		return s.engine.Dropout3d(x, functional.Dropout3dOptions{P: p, Training: training, Inplace: inplace})
	})
}

// MaxUnpool2d scatters input into a zero tensor at the positions given by
// indices. Empty stride, padding and outputSize select the defaults.
func (s *Session) MaxUnpool2d(input, indices Handle, kernelSize, stride, padding, outputSize []int64) (Handle, error) {
	return s.call(OpMaxUnpool2d, func() (*tensor.RawTensor, error) {
		x, err := s.required("input", input)
		if err != nil {
			return nil, err
		}
		idx, err := s.required("indices", indices)
		if err != nil {
			return nil, err
		}
		return s.engine.MaxUnpool2d(x, idx, functional.MaxUnpool2dOptions{
			KernelSize: ints(kernelSize),
			Stride:     ints(stride),
			Padding:    ints(padding),
			OutputSize: ints(outputSize),
		})
	})
}

func ints(v []int64) []int {
	if len(v) == 0 {
		return nil
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}
