package functional

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-norm/internal/tensor"
)

const tol = 1e-4

func f32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromFloat32(data, shape)
	require.NoError(t, err)
	return x
}

func f64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromFloat64(data, shape)
	require.NoError(t, err)
	return x
}

func seq(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%7) - 2.5 + float32(i)*0.01
	}
	return out
}

func values(t *testing.T, x *tensor.RawTensor) []float64 {
	t.Helper()
	v, err := tensor.Float64s(x)
	require.NoError(t, err)
	return v
}

func assertClose(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.Abs(want[i]-got[i]) > tol {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// fakeAccel normalizes rows on the CPU and records how often it ran.
type fakeAccel struct {
	calls int
	fail  bool
}

func (f *fakeAccel) Name() string          { return "fake" }
func (f *fakeAccel) Device() tensor.Device { return tensor.WebGPU }

func (f *fakeAccel) NormalizeRows(data []float32, rows, cols int, eps float32) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, errFake
	}
	out := make([]float32, len(data))
	for r := 0; r < rows; r++ {
		row := data[r*cols : (r+1)*cols]
		var mean, variance float64
		for _, v := range row {
			mean += float64(v)
		}
		mean /= float64(cols)
		for _, v := range row {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(cols)
		inv := 1 / math.Sqrt(variance+float64(eps))
		for i, v := range row {
			out[r*cols+i] = float32((float64(v) - mean) * inv)
		}
	}
	return out, nil
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errFake = fakeError("device lost")
