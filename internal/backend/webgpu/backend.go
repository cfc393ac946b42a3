//go:build windows

package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/born-norm/internal/tensor"
)

// Backend runs row normalization on a WebGPU device. The compute pipeline
// is built once in New.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline

	// mu guards the handles above against Release and serializes
	// submissions to the shared queue.
	mu sync.Mutex

	deviceName string
}

// New acquires a high-performance adapter and compiles the normalization
// pipeline. It fails when the native library or a suitable adapter is
// missing.
func New() (backend *Backend, err error) {
	b := &Backend{}
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
		if err != nil {
			b.Release()
		}
	}()

	b.instance = wgpu.CreateInstance(nil)
	if b.adapter, err = b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	}); err != nil {
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", err)
	}
	info := b.adapter.GetInfo()
	b.deviceName = info.Device

	if b.device, err = b.adapter.RequestDevice(nil); err != nil {
		return nil, fmt.Errorf("webgpu: failed to request device: %w", err)
	}
	if b.queue = b.device.GetQueue(); b.queue == nil {
		return nil, fmt.Errorf("webgpu: device has no queue")
	}

	b.shader = b.device.CreateShaderModuleWGSL(normalizeRowsShader)
	b.pipeline = b.device.CreateComputePipelineSimple(nil, b.shader, "main")
	return b, nil
}

// Release frees the pipeline and device. The backend is unusable afterwards.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.shader != nil {
		b.shader.Release()
		b.shader = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Name returns "WebGPU" with the adapter's device name when known.
func (b *Backend) Name() string {
	if b.deviceName == "" {
		return "WebGPU"
	}
	return "WebGPU (" + b.deviceName + ")"
}

// Device returns tensor.WebGPU.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// IsAvailable reports whether an adapter can be acquired.
func IsAvailable() (available bool) {
	defer func() {
		if recover() != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}
