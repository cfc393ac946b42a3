package functional

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/tensor"
)

// MaxUnpool2d computes a partial inverse of 2D max pooling: every input value
// is written to the output position named by the matching entry of indices
// (a flat index into the output plane); all other positions are zero.
//
// Input is [C, H, W] or [N, C, H, W]; indices must have the same shape and an
// integer dtype.
func (e *Engine) MaxUnpool2d(input, indices *tensor.RawTensor, opts MaxUnpool2dOptions) (*tensor.RawTensor, error) {
	const op = "MaxUnpool2d"
	if input == nil || indices == nil {
		return nil, fmt.Errorf("%s: input and indices must not be nil", op)
	}
	shape := input.Shape()
	rank := len(shape)
	if rank != 3 && rank != 4 {
		return nil, fmt.Errorf("%s: expected 3D or 4D input, got shape %v", op, shape)
	}
	if !indices.Shape().Equal(shape) {
		return nil, fmt.Errorf("%s: expected indices of shape %v, got %v", op, shape, indices.Shape())
	}
	idx, err := tensor.Int64s(indices)
	if err != nil {
		return nil, fmt.Errorf("%s: indices: %w", op, err)
	}

	kernel, err := pair(op, "kernel_size", opts.KernelSize, nil, 1)
	if err != nil {
		return nil, err
	}
	stride, err := pair(op, "stride", opts.Stride, kernel, 1)
	if err != nil {
		return nil, err
	}
	padding, err := pair(op, "padding", opts.Padding, []int{0, 0}, 0)
	if err != nil {
		return nil, err
	}

	inH, inW := shape[rank-2], shape[rank-1]
	defaults := []int{
		(inH-1)*stride[0] - 2*padding[0] + kernel[0],
		(inW-1)*stride[1] - 2*padding[1] + kernel[1],
	}
	size, err := unpoolOutputSize(op, opts.OutputSize, defaults, stride, rank)
	if err != nil {
		return nil, err
	}

	outShape := shape.Clone()
	outShape[rank-2], outShape[rank-1] = size[0], size[1]
	out, err := tensor.NewRaw(outShape, input.DType(), tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	inPlane, outPlane := inH*inW, size[0]*size[1]
	planes := input.NumElements() / inPlane
	for _, v := range idx {
		if v < 0 || v >= int64(outPlane) {
			return nil, fmt.Errorf("%s: found an invalid max index %d (output volumes are of size %dx%d)", op, v, size[0], size[1])
		}
	}

	switch input.DType() {
	case tensor.Float32:
		scatter(input.AsFloat32(), out.AsFloat32(), idx, planes, inPlane, outPlane)
	case tensor.Float64:
		scatter(input.AsFloat64(), out.AsFloat64(), idx, planes, inPlane, outPlane)
	case tensor.Int32:
		scatter(input.AsInt32(), out.AsInt32(), idx, planes, inPlane, outPlane)
	case tensor.Int64:
		scatter(input.AsInt64(), out.AsInt64(), idx, planes, inPlane, outPlane)
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %v", op, input.DType())
	}
	return out, nil
}

func scatter[T float32 | float64 | int32 | int64](in, out []T, idx []int64, planes, inPlane, outPlane int) {
	for p := 0; p < planes; p++ {
		src := in[p*inPlane : (p+1)*inPlane]
		dst := out[p*outPlane : (p+1)*outPlane]
		for i, v := range src {
			dst[idx[p*inPlane+i]] = v
		}
	}
}

// pair expands a 1- or 2-element parameter to two values. An empty value
// selects fallback; a nil fallback makes the parameter required.
func pair(op, name string, vals, fallback []int, minVal int) ([]int, error) {
	var out []int
	switch len(vals) {
	case 0:
		if fallback == nil {
			return nil, fmt.Errorf("%s: %s is required", op, name)
		}
		out = []int{fallback[0], fallback[1]}
	case 1:
		out = []int{vals[0], vals[0]}
	case 2:
		out = []int{vals[0], vals[1]}
	default:
		return nil, fmt.Errorf("%s: %s must have 1 or 2 elements, got %d", op, name, len(vals))
	}
	for _, v := range out {
		if v < minVal {
			return nil, fmt.Errorf("%s: %s must be >= %d, got %v", op, name, minVal, out)
		}
	}
	return out, nil
}

// unpoolOutputSize resolves the requested spatial output size. A requested
// size must lie strictly within one stride of the default size.
func unpoolOutputSize(op string, requested, defaults, stride []int, rank int) ([]int, error) {
	switch len(requested) {
	case 0:
		return defaults, nil
	case 2, rank:
		requested = requested[len(requested)-2:]
	default:
		return nil, fmt.Errorf("%s: output_size must have 2 or %d elements, got %d", op, rank, len(requested))
	}
	for d := 0; d < 2; d++ {
		lo, hi := defaults[d]-stride[d], defaults[d]+stride[d]
		if requested[d] <= lo || requested[d] >= hi {
			return nil, fmt.Errorf("%s: invalid output_size %v (dim %d must be between %d and %d)", op, requested, d, lo+1, hi-1)
		}
	}
	return []int{requested[0], requested[1]}, nil
}
