package functional

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/tensor"
)

// LayerNorm normalizes over the trailing NormalizedShape dims of the input.
//
// Weight and bias, when present, must have exactly NormalizedShape and are
// applied element-wise. An empty NormalizedShape makes every element its own
// group, so the output is the bias (or zero).
func (e *Engine) LayerNorm(input *tensor.RawTensor, opts LayerNormOptions) (*tensor.RawTensor, error) {
	const op = "LayerNorm"
	if err := checkInput(op, input, 0); err != nil {
		return nil, err
	}
	normalized := opts.NormalizedShape
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("%s: normalized_shape: %w", op, err)
	}
	if !input.Shape().HasSuffix(normalized) {
		return nil, fmt.Errorf("%s: given normalized_shape=%v, expected input with shape [*, %v], but got input of size %v",
			op, normalized, normalized, input.Shape())
	}

	weight, err := shapedArg(op, "weight", opts.Weight, input.DType(), normalized)
	if err != nil {
		return nil, err
	}
	bias, err := shapedArg(op, "bias", opts.Bias, input.DType(), normalized)
	if err != nil {
		return nil, err
	}

	cols := normalized.NumElements()
	rows := input.NumElements() / cols
	x, err := e.standardize(input, rows, cols, opts.Eps, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if weight != nil || bias != nil {
		for i := range x {
			j := i % cols
			if weight != nil {
				x[i] *= weight[j]
			}
			if bias != nil {
				x[i] += bias[j]
			}
		}
	}

	return output(op, input, x)
}
