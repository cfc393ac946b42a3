// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package shim

import (
	"log/slog"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/shim"
)

// Session is a table of tensors and the per-session last-error slot.
type Session = shim.Session

// Handle addresses a tensor in a Session.
type Handle = shim.Handle

// Null is the handle for an absent tensor.
const Null = shim.Null

// Option configures a Session.
type Option = shim.Option

// ComputeError wraps a failed operation.
type ComputeError = shim.ComputeError

// ErrNativeCompute matches every ComputeError with errors.Is.
var ErrNativeCompute = shim.ErrNativeCompute

// Operation names.
const (
	OpBatchNorm         = shim.OpBatchNorm
	OpGroupNorm         = shim.OpGroupNorm
	OpInstanceNorm      = shim.OpInstanceNorm
	OpLayerNorm         = shim.OpLayerNorm
	OpLocalResponseNorm = shim.OpLocalResponseNorm
	OpDropout3d         = shim.OpDropout3d
	OpMaxUnpool2d       = shim.OpMaxUnpool2d
)

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	return shim.NewSession(opts...)
}

// WithEngine sets the compute engine used by a session.
func WithEngine(e *functional.Engine) Option {
	return shim.WithEngine(e)
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return shim.WithLogger(l)
}
