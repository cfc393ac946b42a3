package nn

import (
	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// MaxUnpool2d computes a partial inverse of MaxPool2d from the pooled values
// and their argmax indices.
//
// It needs the indices alongside the input, so it exposes Unpool instead of
// implementing Module.
type MaxUnpool2d struct {
	KernelSize []int
	Stride     []int // empty: same as KernelSize
	Padding    []int // empty: zero

	engine *functional.Engine
}

// NewMaxUnpool2d creates a MaxUnpool2d.
func NewMaxUnpool2d(kernelSize, stride, padding []int, opts ...Option) *MaxUnpool2d {
	return &MaxUnpool2d{
		KernelSize: kernelSize,
		Stride:     stride,
		Padding:    padding,
		engine:     buildOptions(opts).engine,
	}
}

// Unpool scatters input into the positions named by indices. outputSize may
// be empty to use the size implied by kernel, stride and padding.
func (m *MaxUnpool2d) Unpool(input, indices *tensor.RawTensor, outputSize []int) (*tensor.RawTensor, error) {
	return m.engine.MaxUnpool2d(input, indices, functional.MaxUnpool2dOptions{
		KernelSize: m.KernelSize,
		Stride:     m.Stride,
		Padding:    m.Padding,
		OutputSize: outputSize,
	})
}
