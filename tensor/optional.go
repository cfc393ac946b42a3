// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-norm/internal/tensor"
)

// Optional holds either a value or nothing.
type Optional[T any] = tensor.Optional[T]

// OptionalTensor is shorthand for an optional tensor argument.
type OptionalTensor = tensor.OptionalTensor

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return tensor.Some(v)
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return tensor.None[T]()
}

// MaybeTensor wraps r, treating nil as absent.
func MaybeTensor(r *RawTensor) OptionalTensor {
	return tensor.MaybeTensor(r)
}
