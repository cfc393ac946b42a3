// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-norm/internal/tensor"
)

// RawTensor is the contiguous tensor representation.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32() // Type-safe access
//	view := raw.View()      // Shares the buffer via reference counting
type RawTensor = tensor.RawTensor

// Shape is a tensor's dimension sizes.
type Shape = tensor.Shape

// DataType is a runtime element type.
type DataType = tensor.DataType

// Device is the device a tensor was produced on.
type Device = tensor.Device

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// Supported devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32 creates a CPU float32 tensor from data.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromFloat64 creates a CPU float64 tensor from data.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat64(data, shape)
}

// FromInt64 creates a CPU int64 tensor from data.
func FromInt64(data []int64, shape Shape) (*RawTensor, error) {
	return tensor.FromInt64(data, shape)
}

// FromInt32 creates a CPU int32 tensor from data.
func FromInt32(data []int32, shape Shape) (*RawTensor, error) {
	return tensor.FromInt32(data, shape)
}

// Zeros creates a zero-filled CPU tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Full creates a CPU float tensor filled with value.
func Full(shape Shape, dtype DataType, value float64) (*RawTensor, error) {
	return tensor.Full(shape, dtype, value)
}

// Float64s returns a float tensor's values widened to float64.
func Float64s(r *RawTensor) ([]float64, error) {
	return tensor.Float64s(r)
}
