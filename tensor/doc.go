// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor type used by the born-norm call surface.
//
// # Overview
//
// A RawTensor is a contiguous, row-major buffer with a runtime dtype
// (float32, float64, int32, int64, uint8, bool), a shape and a device tag.
// Buffers are reference counted: View shares storage, Clone copies it and
// Release drops one reference.
//
// Optional tensor arguments are expressed with Optional[T] rather than nil
// pointers: an absent Optional means "no value supplied".
//
// # Basic Usage
//
//	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	weight := tensor.None[*tensor.RawTensor]()
package tensor
