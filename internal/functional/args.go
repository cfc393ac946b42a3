package functional

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/tensor"
)

// checkInput validates a float input of at least minRank dimensions.
func checkInput(op string, x *tensor.RawTensor, minRank int) error {
	if x == nil {
		return fmt.Errorf("%s: input tensor is nil", op)
	}
	if !x.DType().IsFloat() {
		return fmt.Errorf("%s: unsupported dtype %v", op, x.DType())
	}
	if len(x.Shape()) < minRank {
		return fmt.Errorf("%s: expected input with at least %d dimensions, got shape %v", op, minRank, x.Shape())
	}
	return nil
}

// vectorArg resolves an optional per-channel tensor into its values.
// It returns nil values when the option is absent.
func vectorArg(op, name string, opt tensor.OptionalTensor, dtype tensor.DataType, n int) ([]float64, *tensor.RawTensor, error) {
	raw, ok := opt.Get()
	if !ok {
		return nil, nil, nil
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("%s: %s is present but nil", op, name)
	}
	if raw.DType() != dtype {
		return nil, nil, fmt.Errorf("%s: expected %s to have dtype %v, got %v", op, name, dtype, raw.DType())
	}
	if raw.NumElements() != n {
		return nil, nil, fmt.Errorf("%s: expected %s to have %d elements, got shape %v", op, name, n, raw.Shape())
	}
	vals, err := tensor.Float64s(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s: %w", op, name, err)
	}
	return vals, raw, nil
}

// shapedArg resolves an optional tensor whose shape must equal shape.
func shapedArg(op, name string, opt tensor.OptionalTensor, dtype tensor.DataType, shape tensor.Shape) ([]float64, error) {
	raw, ok := opt.Get()
	if !ok {
		return nil, nil
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %s is present but nil", op, name)
	}
	if !raw.Shape().Equal(shape) {
		return nil, fmt.Errorf("%s: expected %s of shape %v, got %v", op, name, shape, raw.Shape())
	}
	vals, _, err := vectorArg(op, name, opt, dtype, shape.NumElements())
	return vals, err
}

// output allocates a CPU result tensor with x's shape and dtype and fills
// it. Accelerated results have already been read back to the host.
func output(op string, x *tensor.RawTensor, values []float64) (*tensor.RawTensor, error) {
	out, err := tensor.NewRaw(x.Shape(), x.DType(), tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tensor.SetFloat64s(out, values); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
