package functional

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/born-norm/internal/parallel"
	"github.com/born-ml/born-norm/internal/tensor"
)

// rowStats returns the mean and population variance of each contiguous row.
func (e *Engine) rowStats(x []float64, rows, cols int) (mean, variance []float64) {
	mean = make([]float64, rows)
	variance = make([]float64, rows)
	parallel.ForRange(rows, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			mean[r], variance[r] = stat.PopMeanVariance(x[r*cols:(r+1)*cols], nil)
		}
	}, e.par)
	return mean, variance
}

// channelStats returns per-channel mean and population variance of a
// [N, C, spatial] buffer, pooling over N and spatial.
func (e *Engine) channelStats(x []float64, n, c, spatial int) (mean, variance []float64) {
	mean = make([]float64, c)
	variance = make([]float64, c)
	parallel.ForRange(c, func(lo, hi int) {
		buf := make([]float64, 0, n*spatial)
		for ch := lo; ch < hi; ch++ {
			buf = buf[:0]
			for b := 0; b < n; b++ {
				start := (b*c + ch) * spatial
				buf = append(buf, x[start:start+spatial]...)
			}
			mean[ch], variance[ch] = stat.PopMeanVariance(buf, nil)
		}
	}, e.par)
	return mean, variance
}

// standardizeRows rewrites each row as (x - mean) / sqrt(var + eps).
func (e *Engine) standardizeRows(x []float64, cols int, mean, variance []float64, eps float64) {
	parallel.ForRange(len(mean), func(lo, hi int) {
		for r := lo; r < hi; r++ {
			row := x[r*cols : (r+1)*cols]
			floats.AddConst(-mean[r], row)
			floats.Scale(1/math.Sqrt(variance[r]+eps), row)
		}
	}, e.par)
}

// standardize normalizes every contiguous row of x. Float32 inputs go to the
// accelerator when one is configured; on accelerator failure the CPU path
// runs instead.
func (e *Engine) standardize(x *tensor.RawTensor, rows, cols int, eps float64, accelerate bool) ([]float64, error) {
	if accelerate && e.accel != nil && x.DType() == tensor.Float32 {
		out, err := e.accel.NormalizeRows(x.AsFloat32(), rows, cols, float32(eps))
		if err == nil && len(out) == rows*cols {
			vals := make([]float64, len(out))
			for i, v := range out {
				vals[i] = float64(v)
			}
			return vals, nil
		}
	}

	vals, err := tensor.Float64s(x)
	if err != nil {
		return nil, err
	}
	mean, variance := e.rowStats(vals, rows, cols)
	e.standardizeRows(vals, cols, mean, variance, eps)
	return vals, nil
}

// channelAffine applies per-channel scale and shift to a [N, C, spatial]
// buffer. Either of weight and bias may be nil.
func channelAffine(x []float64, channels, spatial int, weight, bias []float64) {
	if weight == nil && bias == nil {
		return
	}
	for i := range x {
		ch := (i / spatial) % channels
		if weight != nil {
			x[i] *= weight[ch]
		}
		if bias != nil {
			x[i] += bias[ch]
		}
	}
}

// updateRunning blends batch statistics into a running buffer in place:
// running = (1 - momentum) * running + momentum * batch.
func updateRunning(running *tensor.RawTensor, current, batch []float64, momentum float64) error {
	next := make([]float64, len(current))
	for i := range current {
		next[i] = (1-momentum)*current[i] + momentum*batch[i]
	}
	return tensor.SetFloat64s(running, next)
}
