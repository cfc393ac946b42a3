package functional

import (
	"fmt"
	"math"

	"github.com/born-ml/born-norm/internal/tensor"
)

// InstanceNorm normalizes every (sample, channel) plane of a [N, C, *]
// input (rank >= 3).
//
// With UseInputStats the statistics come from each plane; present running
// buffers receive the batch-averaged mean and unbiased variance. Without it
// the running buffers are required and used for every sample.
func (e *Engine) InstanceNorm(input *tensor.RawTensor, opts InstanceNormOptions) (*tensor.RawTensor, error) {
	const op = "InstanceNorm"
	if err := checkInput(op, input, 3); err != nil {
		return nil, err
	}
	shape := input.Shape()
	n, c, spatial := shape[0], shape[1], shape.Spatial()
	dtype := input.DType()

	weight, _, err := vectorArg(op, "weight", opts.Weight, dtype, c)
	if err != nil {
		return nil, err
	}
	bias, _, err := vectorArg(op, "bias", opts.Bias, dtype, c)
	if err != nil {
		return nil, err
	}
	runMean, runMeanRaw, err := vectorArg(op, "running_mean", opts.RunningMean, dtype, c)
	if err != nil {
		return nil, err
	}
	runVar, runVarRaw, err := vectorArg(op, "running_var", opts.RunningVar, dtype, c)
	if err != nil {
		return nil, err
	}

	var x []float64
	switch {
	case opts.UseInputStats && runMeanRaw == nil && runVarRaw == nil:
		if spatial <= 1 {
			return nil, fmt.Errorf("%s: expected more than 1 spatial element when training, got input size %v", op, shape)
		}
		x, err = e.standardize(input, n*c, spatial, opts.Eps, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

	case opts.UseInputStats:
		if spatial <= 1 {
			return nil, fmt.Errorf("%s: expected more than 1 spatial element when training, got input size %v", op, shape)
		}
		if x, err = tensor.Float64s(input); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		mean, variance := e.rowStats(x, n*c, spatial)
		if err := trackInstanceStats(op, mean, variance, n, c, spatial, opts, runMean, runMeanRaw, runVar, runVarRaw); err != nil {
			return nil, err
		}
		e.standardizeRows(x, spatial, mean, variance, opts.Eps)

	default:
		if runMean == nil || runVar == nil {
			return nil, fmt.Errorf("%s: expected running_mean and running_var to be defined when use_input_stats is false", op)
		}
		if x, err = tensor.Float64s(input); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for i := range x {
			ch := (i / spatial) % c
			x[i] = (x[i] - runMean[ch]) / math.Sqrt(runVar[ch]+opts.Eps)
		}
	}

	channelAffine(x, c, spatial, weight, bias)
	return output(op, input, x)
}

// trackInstanceStats folds per-instance statistics into the running buffers,
// averaging over the batch.
func trackInstanceStats(op string, mean, variance []float64, n, c, spatial int, opts InstanceNormOptions,
	runMean []float64, runMeanRaw *tensor.RawTensor, runVar []float64, runVarRaw *tensor.RawTensor) error {
	batchMean := make([]float64, c)
	batchVar := make([]float64, c)
	correction := float64(spatial) / float64(spatial-1)
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			batchMean[ch] += mean[b*c+ch] / float64(n)
			batchVar[ch] += variance[b*c+ch] * correction / float64(n)
		}
	}
	if runMeanRaw != nil {
		if err := updateRunning(runMeanRaw, runMean, batchMean, opts.Momentum); err != nil {
			return fmt.Errorf("%s: running_mean: %w", op, err)
		}
	}
	if runVarRaw != nil {
		if err := updateRunning(runVarRaw, runVar, batchVar, opts.Momentum); err != nil {
			return fmt.Errorf("%s: running_var: %w", op, err)
		}
	}
	return nil
}
