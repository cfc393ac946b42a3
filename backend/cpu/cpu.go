// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/parallel"
)

// Engine runs the normalization kernels.
type Engine = functional.Engine

// Option configures an Engine.
type Option = functional.Option

// New creates a CPU engine. Without options it uses the default parallel
// settings.
func New(opts ...Option) *Engine {
	return functional.NewEngine(opts...)
}

// WithWorkers fans independent rows out over n workers. n <= 1 runs
// sequentially.
func WithWorkers(n int) Option {
	cfg := parallel.DefaultConfig()
	if n <= 1 {
		cfg.Enabled = false
	} else {
		cfg.NumWorkers = n
	}
	return functional.WithParallel(cfg)
}
