// Package webgpu implements a WebGPU accelerator for row standardization,
// the kernel shared by the group, instance and layer normalizations.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// The accelerator is only built on Windows. On other platforms New and
// IsAvailable report that WebGPU is not available.
package webgpu
