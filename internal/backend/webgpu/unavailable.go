//go:build !windows

package webgpu

import (
	"errors"

	"github.com/born-ml/born-norm/internal/tensor"
)

// ErrNotAvailable is returned by New on platforms without the WebGPU build.
var ErrNotAvailable = errors.New("webgpu: not available on this platform")

// Backend is a placeholder on platforms without WebGPU support.
type Backend struct{}

// New always fails on this platform.
func New() (*Backend, error) {
	return nil, ErrNotAvailable
}

// IsAvailable reports false on this platform.
func IsAvailable() bool { return false }

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string { return "WebGPU" }

// Device returns the compute device.
func (b *Backend) Device() tensor.Device { return tensor.WebGPU }

// NormalizeRows always fails on this platform.
func (b *Backend) NormalizeRows([]float32, int, int, float32) ([]float32, error) {
	return nil, ErrNotAvailable
}
