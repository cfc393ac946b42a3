package tensor

import "fmt"

// FromFloat32 creates a CPU float32 tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// Example:
//
//	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	raw, err := newChecked(len(data), shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(raw.AsFloat32(), data)
	return raw, nil
}

// FromFloat64 creates a CPU float64 tensor from a Go slice.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	raw, err := newChecked(len(data), shape, Float64)
	if err != nil {
		return nil, err
	}
	copy(raw.AsFloat64(), data)
	return raw, nil
}

// FromInt64 creates a CPU int64 tensor from a Go slice.
func FromInt64(data []int64, shape Shape) (*RawTensor, error) {
	raw, err := newChecked(len(data), shape, Int64)
	if err != nil {
		return nil, err
	}
	copy(raw.AsInt64(), data)
	return raw, nil
}

// FromInt32 creates a CPU int32 tensor from a Go slice.
func FromInt32(data []int32, shape Shape) (*RawTensor, error) {
	raw, err := newChecked(len(data), shape, Int32)
	if err != nil {
		return nil, err
	}
	copy(raw.AsInt32(), data)
	return raw, nil
}

func newChecked(n int, shape Shape, dtype DataType) (*RawTensor, error) {
	if shape.NumElements() != n {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), n)
	}
	return NewRaw(shape, dtype, CPU)
}

// Zeros creates a zero-filled CPU tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype, CPU)
}

// Full creates a CPU tensor filled with value. Only float dtypes are supported.
func Full(shape Shape, dtype DataType, value float64) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = float32(value)
		}
	case Float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = value
		}
	default:
		return nil, fmt.Errorf("Full: unsupported dtype %v", dtype)
	}
	return raw, nil
}

// Float64s returns a float64 copy of a float tensor's elements.
func Float64s(r *RawTensor) ([]float64, error) {
	switch r.DType() {
	case Float32:
		in := r.AsFloat32()
		out := make([]float64, len(in))
		for i, v := range in {
			out[i] = float64(v)
		}
		return out, nil
	case Float64:
		return append([]float64(nil), r.AsFloat64()...), nil
	default:
		return nil, fmt.Errorf("expected a float tensor, got %v", r.DType())
	}
}

// SetFloat64s writes values into a float tensor, converting to its dtype.
func SetFloat64s(r *RawTensor, values []float64) error {
	if len(values) != r.NumElements() {
		return fmt.Errorf("expected %d values, got %d", r.NumElements(), len(values))
	}
	switch r.DType() {
	case Float32:
		out := r.AsFloat32()
		for i, v := range values {
			out[i] = float32(v)
		}
	case Float64:
		copy(r.AsFloat64(), values)
	default:
		return fmt.Errorf("expected a float tensor, got %v", r.DType())
	}
	return nil
}

// Int64s returns an int64 copy of an integer tensor's elements.
func Int64s(r *RawTensor) ([]int64, error) {
	switch r.DType() {
	case Int64:
		return append([]int64(nil), r.AsInt64()...), nil
	case Int32:
		in := r.AsInt32()
		out := make([]int64, len(in))
		for i, v := range in {
			out[i] = int64(v)
		}
		return out, nil
	case Uint8:
		in := r.AsUint8()
		out := make([]int64, len(in))
		for i, v := range in {
			out[i] = int64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an integer tensor, got %v", r.DType())
	}
}
