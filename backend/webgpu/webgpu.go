// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU accelerator for row normalization.
//
// The accelerator is built on Windows; on other platforms New returns an
// error and IsAvailable reports false, so callers can fall back to the CPU:
//
//	engine := cpu.New()
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err == nil {
//	        defer gpu.Release()
//	        engine = webgpu.NewEngine(gpu)
//	    }
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/born-norm/internal/backend/webgpu"
	"github.com/born-ml/born-norm/internal/functional"
)

// Backend is the WebGPU row-normalization accelerator.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements functional.Accelerator.
var _ functional.Accelerator = (*Backend)(nil)

// New creates a WebGPU backend. Call Release when done to free GPU
// resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// NewEngine returns an engine that offloads float32 layer, group and
// instance normalization to gpu. Batch normalization always runs on the CPU.
func NewEngine(gpu *Backend, opts ...functional.Option) *functional.Engine {
	return functional.NewEngine(append(opts, functional.WithAccelerator(gpu))...)
}
