package tensor

import (
	"fmt"
	"slices"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the product of the dimensions; 1 for a scalar.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate rejects non-positive dimensions.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether s and other have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// HasSuffix reports whether the trailing dimensions of s equal suffix.
// An empty suffix is a suffix of every shape.
func (s Shape) HasSuffix(suffix Shape) bool {
	if len(suffix) > len(s) {
		return false
	}
	return s[len(s)-len(suffix):].Equal(suffix)
}

// Clone returns a copy of the shape. The clone of an empty shape is
// non-nil.
func (s Shape) Clone() Shape {
	return append(Shape{}, s...)
}

// ComputeStrides calculates row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Spatial returns the number of elements per (batch, channel) plane of a
// channels-first shape [N, C, *]. It is 1 for rank-2 shapes.
func (s Shape) Spatial() int {
	if len(s) < 2 {
		return 1
	}
	return s[2:].NumElements()
}

// ShapeFromInt64 copies a caller-owned dimension list into an owned Shape.
// The result is validated; a zero-length list yields an empty (scalar) shape.
func ShapeFromInt64(dims []int64) (Shape, error) {
	out := make(Shape, len(dims))
	for i, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, d)
		}
		out[i] = int(d)
	}
	return out, nil
}
