package functional

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/tensor"
)

// GroupNorm splits the C channels of a [N, C, *] input into NumGroups groups
// and normalizes each (sample, group) over its channels and spatial dims.
// Weight and bias are applied per channel.
func (e *Engine) GroupNorm(input *tensor.RawTensor, opts GroupNormOptions) (*tensor.RawTensor, error) {
	const op = "GroupNorm"
	if err := checkInput(op, input, 2); err != nil {
		return nil, err
	}
	shape := input.Shape()
	n, c, spatial := shape[0], shape[1], shape.Spatial()

	if opts.NumGroups <= 0 {
		return nil, fmt.Errorf("%s: num_groups must be positive, got %d", op, opts.NumGroups)
	}
	if c%opts.NumGroups != 0 {
		return nil, fmt.Errorf("%s: expected number of channels in input to be divisible by num_groups, but got input of shape %v and num_groups=%d",
			op, shape, opts.NumGroups)
	}

	weight, _, err := vectorArg(op, "weight", opts.Weight, input.DType(), c)
	if err != nil {
		return nil, err
	}
	bias, _, err := vectorArg(op, "bias", opts.Bias, input.DType(), c)
	if err != nil {
		return nil, err
	}

	// Channels of one group are adjacent, so each (sample, group) is a
	// contiguous row.
	rows := n * opts.NumGroups
	cols := (c / opts.NumGroups) * spatial
	x, err := e.standardize(input, rows, cols, opts.Eps, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	channelAffine(x, c, spatial, weight, bias)

	return output(op, input, x)
}
