package functional

import (
	"fmt"
	"math"

	"github.com/born-ml/born-norm/internal/tensor"
)

// BatchNorm normalizes a [N, C, *] input per channel.
//
// In training mode the statistics come from the batch (mean and population
// variance over N and the spatial dims) and any present running buffers are
// updated in place with the unbiased variance. In evaluation mode the running
// buffers are required and used as the statistics.
//
// BatchNorm always runs on the CPU path, even when the engine has an
// accelerator.
func (e *Engine) BatchNorm(input *tensor.RawTensor, opts BatchNormOptions) (*tensor.RawTensor, error) {
	const op = "BatchNorm"
	if err := checkInput(op, input, 2); err != nil {
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

	x, err := tensor.Float64s(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var mean, variance []float64
	if opts.Training {
		count := n * spatial
		if count <= 1 {
			return nil, fmt.Errorf("%s: expected more than 1 value per channel when training, got input shape %v", op, shape)
		}
		mean, variance = e.channelStats(x, n, c, spatial)

		if runMeanRaw != nil {
			if err := updateRunning(runMeanRaw, runMean, mean, opts.Momentum); err != nil {
				return nil, fmt.Errorf("%s: running_mean: %w", op, err)
			}
		}
		if runVarRaw != nil {
			unbiased := make([]float64, c)
			for ch, v := range variance {
				unbiased[ch] = v * float64(count) / float64(count-1)
			}
			if err := updateRunning(runVarRaw, runVar, unbiased, opts.Momentum); err != nil {
				return nil, fmt.Errorf("%s: running_var: %w", op, err)
			}
		}
	} else {
		if runMean == nil || runVar == nil {
			return nil, fmt.Errorf("%s: running_mean and running_var must be defined in evaluation mode", op)
		}
		mean, variance = runMean, runVar
	}

	inv := make([]float64, c)
	for ch := range inv {
		inv[ch] = 1 / math.Sqrt(variance[ch]+opts.Eps)
	}
	for i := range x {
		ch := (i / spatial) % c
		x[i] = (x[i] - mean[ch]) * inv[ch]
	}
	channelAffine(x, c, spatial, weight, bias)

	return output(op, input, x)
}
