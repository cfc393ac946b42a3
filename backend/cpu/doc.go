// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go compute engine for the normalization
// operations.
//
// # Overview
//
// The engine runs every kernel on the CPU:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Independent rows and channels fanned out over a worker pool
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born-norm/backend/cpu"
//	    "github.com/born-ml/born-norm/shim"
//	)
//
//	func main() {
//	    engine := cpu.New(cpu.WithWorkers(4))
//	    s := shim.NewSession(shim.WithEngine(engine))
//	    defer s.Close()
//	}
//
// # Thread Safety
//
// An Engine holds no mutable state after construction and is safe for
// concurrent use.
package cpu
