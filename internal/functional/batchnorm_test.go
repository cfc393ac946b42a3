package functional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/born-norm/internal/tensor"
)

func TestBatchNorm_TrainingWithoutOptionals(t *testing.T) {
	x := f32(t, seq(2*3*4*4), tensor.Shape{2, 3, 4, 4})

	y, err := BatchNorm(x, DefaultBatchNormOptions())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 4, 4}, y.Shape())
	assert.Equal(t, tensor.Float32, y.DType())

	// Every channel must come out with zero mean and unit variance.
	out := values(t, y)
	for ch := 0; ch < 3; ch++ {
		var pooled []float64
		for b := 0; b < 2; b++ {
			start := (b*3 + ch) * 16
			pooled = append(pooled, out[start:start+16]...)
		}
		mean, variance := stat.PopMeanVariance(pooled, nil)
		assert.InDelta(t, 0, mean, 1e-5, "channel %d mean", ch)
		assert.InDelta(t, 1, variance, 1e-3, "channel %d variance", ch)
	}
}

func TestBatchNorm_UpdatesRunningStats(t *testing.T) {
	x := f32(t, []float32{1, 2, 3, 4}, tensor.Shape{4, 1})
	rm := f32(t, []float32{0}, tensor.Shape{1})
	rv := f32(t, []float32{1}, tensor.Shape{1})

	opts := DefaultBatchNormOptions()
	opts.RunningMean = tensor.Some(rm)
	opts.RunningVar = tensor.Some(rv)

	_, err := BatchNorm(x, opts)
	require.NoError(t, err)

	// mean 2.5, unbiased variance 5/3.
	assert.InDelta(t, 0.25, rm.AsFloat32()[0], 1e-6)
	assert.InDelta(t, 0.9+0.1*5.0/3.0, rv.AsFloat32()[0], 1e-6)
}

func TestBatchNorm_EvalUsesRunningStats(t *testing.T) {
	x := f64(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	opts := BatchNormOptions{
		RunningMean: tensor.Some(f64(t, []float64{1, 2}, tensor.Shape{2})),
		RunningVar:  tensor.Some(f64(t, []float64{4, 1}, tensor.Shape{2})),
		Weight:      tensor.Some(f64(t, []float64{2, 1}, tensor.Shape{2})),
		Bias:        tensor.Some(f64(t, []float64{0, 1}, tensor.Shape{2})),
		Training:    false,
		Momentum:    0.1,
		Eps:         0,
	}

	y, err := BatchNorm(x, opts)
	require.NoError(t, err)
	assertClose(t, []float64{0, 1, 2, 3}, values(t, y))

	rm, _ := opts.RunningMean.Get()
	assert.Equal(t, []float64{1, 2}, rm.AsFloat64(), "eval must not touch running stats")
}

func TestBatchNorm_Errors(t *testing.T) {
	x := f32(t, seq(12), tensor.Shape{4, 3})

	tests := []struct {
		name   string
		input  *tensor.RawTensor
		opts   BatchNormOptions
		errMsg string
	}{
		{
			name:   "eval without running stats",
			input:  x,
			opts:   BatchNormOptions{Eps: 1e-5},
			errMsg: "evaluation mode",
		},
		{
			name:   "single value per channel",
			input:  f32(t, []float32{1, 2, 3}, tensor.Shape{1, 3}),
			opts:   DefaultBatchNormOptions(),
			errMsg: "more than 1 value per channel",
		},
		{
			name:  "weight length mismatch",
			input: x,
			opts: BatchNormOptions{
				Training: true,
				Weight:   tensor.Some(f32(t, []float32{1, 1}, tensor.Shape{2})),
			},
			errMsg: "weight",
		},
		{
			name:  "bias dtype mismatch",
			input: x,
			opts: BatchNormOptions{
				Training: true,
				Bias:     tensor.Some(f64(t, []float64{0, 0, 0}, tensor.Shape{3})),
			},
			errMsg: "dtype",
		},
		{
			name:   "rank one input",
			input:  f32(t, []float32{1, 2}, tensor.Shape{2}),
			opts:   DefaultBatchNormOptions(),
			errMsg: "at least 2 dimensions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BatchNorm(tt.input, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "BatchNorm")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBatchNorm_IntegerInputRejected(t *testing.T) {
	x, err := tensor.FromInt64([]int64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	_, err = BatchNorm(x, DefaultBatchNormOptions())
	assert.ErrorContains(t, err, "unsupported dtype")
}

func TestBatchNorm_NeverUsesAccelerator(t *testing.T) {
	accel := &fakeAccel{}
	e := NewEngine(WithAccelerator(accel))

	y, err := e.BatchNorm(f32(t, seq(24), tensor.Shape{2, 3, 4}), DefaultBatchNormOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, accel.calls)
	assert.Equal(t, tensor.CPU, y.Device())
}
