package functional

import (
	"fmt"
	"math"

	"github.com/born-ml/born-norm/internal/parallel"
	"github.com/born-ml/born-norm/internal/tensor"
)

// LocalResponseNorm normalizes each element by the energy of a window of
// Size neighbouring channels:
//
//	out = x / (K + Alpha/Size * sum(x_j^2))^Beta
//
// The window covers Size/2 channels before and (Size-1)/2 after, zero padded
// at the edges, and always divides by Size. Input rank must be >= 3.
func (e *Engine) LocalResponseNorm(input *tensor.RawTensor, opts LocalResponseNormOptions) (*tensor.RawTensor, error) {
	const op = "LocalResponseNorm"
	if input != nil && len(input.Shape()) < 3 {
		return nil, fmt.Errorf("%s: expected 3D or higher dimensionality input (got %d dimensions)", op, len(input.Shape()))
	}
	if err := checkInput(op, input, 3); err != nil {
		return nil, err
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("%s: size must be positive, got %d", op, opts.Size)
	}

	shape := input.Shape()
	n, c, spatial := shape[0], shape[1], shape.Spatial()
	x, err := tensor.Float64s(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	before, after := opts.Size/2, (opts.Size-1)/2
	scale := opts.Alpha / float64(opts.Size)
	out := make([]float64, len(x))

	parallel.For(n*c, func(plane int) {
		b, ch := plane/c, plane%c
		lo, hi := max(ch-before, 0), min(ch+after, c-1)
		for s := 0; s < spatial; s++ {
			sum := 0.0
			for j := lo; j <= hi; j++ {
				v := x[(b*c+j)*spatial+s]
				sum += v * v
			}
			idx := plane*spatial + s
			out[idx] = x[idx] / math.Pow(opts.K+scale*sum, opts.Beta)
		}
	}, e.par)

	return output(op, input, out)
}
