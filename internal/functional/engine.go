package functional

import (
	"github.com/born-ml/born-norm/internal/parallel"
	"github.com/born-ml/born-norm/internal/tensor"
)

// Accelerator offloads per-row normalization to a device.
//
// NormalizeRows treats data as rows×cols row-major values and returns
// (x - mean(row)) / sqrt(var(row) + eps) for every element, using the
// population variance.
type Accelerator interface {
	Name() string
	Device() tensor.Device
	NormalizeRows(data []float32, rows, cols int, eps float32) ([]float32, error)
}

// Engine runs normalization kernels with a parallelism policy and an
// optional accelerator.
type Engine struct {
	par   parallel.Config
	accel Accelerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel sets the row fan-out policy.
func WithParallel(cfg parallel.Config) Option {
	return func(e *Engine) { e.par = cfg }
}

// WithAccelerator routes float32 row normalization (layer, group and
// instance norm) through a.
func WithAccelerator(a Accelerator) Option {
	return func(e *Engine) { e.accel = a }
}

// NewEngine creates an Engine. Without options it runs on the CPU with
// parallel.DefaultConfig.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{par: parallel.DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Accelerator returns the configured accelerator, or nil.
func (e *Engine) Accelerator() Accelerator {
	return e.accel
}

var defaultEngine = NewEngine()

// BatchNorm runs Engine.BatchNorm on the default CPU engine.
func BatchNorm(input *tensor.RawTensor, opts BatchNormOptions) (*tensor.RawTensor, error) {
	return defaultEngine.BatchNorm(input, opts)
}

// GroupNorm runs Engine.GroupNorm on the default CPU engine.
func GroupNorm(input *tensor.RawTensor, opts GroupNormOptions) (*tensor.RawTensor, error) {
	return defaultEngine.GroupNorm(input, opts)
}

// InstanceNorm runs Engine.InstanceNorm on the default CPU engine.
func InstanceNorm(input *tensor.RawTensor, opts InstanceNormOptions) (*tensor.RawTensor, error) {
	return defaultEngine.InstanceNorm(input, opts)
}

// LayerNorm runs Engine.LayerNorm on the default CPU engine.
func LayerNorm(input *tensor.RawTensor, opts LayerNormOptions) (*tensor.RawTensor, error) {
	return defaultEngine.LayerNorm(input, opts)
}

// LocalResponseNorm runs Engine.LocalResponseNorm on the default CPU engine.
func LocalResponseNorm(input *tensor.RawTensor, opts LocalResponseNormOptions) (*tensor.RawTensor, error) {
	return defaultEngine.LocalResponseNorm(input, opts)
}

// Dropout3d runs Engine.Dropout3d on the default CPU engine.
func Dropout3d(input *tensor.RawTensor, opts Dropout3dOptions) (*tensor.RawTensor, error) {
	return defaultEngine.Dropout3d(input, opts)
}

// MaxUnpool2d runs Engine.MaxUnpool2d on the default CPU engine.
func MaxUnpool2d(input, indices *tensor.RawTensor, opts MaxUnpool2dOptions) (*tensor.RawTensor, error) {
	return defaultEngine.MaxUnpool2d(input, indices, opts)
}
