package functional

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born-norm/internal/tensor"
)

// Dropout3d zeroes entire channels of a [C, D, H, W] or [N, C, D, H, W]
// input with probability P and scales the kept channels by 1/(1-P).
//
// Outside training, or with P == 0, the input passes through unchanged: the
// same tensor when Inplace is set, a copy otherwise.
func (e *Engine) Dropout3d(input *tensor.RawTensor, opts Dropout3dOptions) (*tensor.RawTensor, error) {
	const op = "Dropout3d"
	if err := checkInput(op, input, 0); err != nil {
		return nil, err
	}
	if !(opts.P >= 0 && opts.P <= 1) {
		return nil, fmt.Errorf("%s: dropout probability has to be between 0 and 1, but got %v", op, opts.P)
	}
	shape := input.Shape()
	var planes int
	switch len(shape) {
	case 4:
		planes = shape[0]
	case 5:
		planes = shape[0] * shape[1]
	default:
		return nil, fmt.Errorf("%s: expected 4D (unbatched) or 5D (batched) input, got %dD", op, len(shape))
	}

	out := input
	if !opts.Inplace {
		out = input.Clone()
	}
	if !opts.Training || opts.P == 0 {
		return out, nil
	}

	draw := rand.Float64 //nolint:gosec // G404: dropout masks do not need crypto randomness
	if opts.Rand != nil {
		draw = opts.Rand.Float64
	}
	scale := 0.0
	if opts.P < 1 {
		scale = 1 / (1 - opts.P)
	}
	factors := make([]float64, planes)
	for i := range factors {
		if draw() >= opts.P {
			factors[i] = scale
		}
	}

	planeSize := input.NumElements() / planes
	switch out.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] *= float32(factors[i/planeSize])
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] *= factors[i/planeSize]
		}
	}
	return out, nil
}
