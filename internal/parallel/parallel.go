// Package parallel fans independent normalization rows out over goroutines.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum rows per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 8,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// ForRange calls f(lo, hi) over disjoint half-open ranges covering [0, n).
// Ranges run concurrently, at most cfg.NumWorkers at a time, when cfg allows
// it and n is large enough; f must only touch state owned by its range.
//
// A panic in any range is re-raised on the calling goroutine once every
// range has finished, so a recover in the caller sees it.
func ForRange(n int, f func(lo, hi int), cfg Config) {
	if n <= 0 {
		return
	}
	workers := cfg.NumWorkers
	minChunk := max(cfg.MinChunkSize, 1)
	if !cfg.Enabled || workers <= 1 || n < 2*minChunk {
		f(0, n)
		return
	}

	chunk := max((n+workers-1)/workers, minChunk)

	var (
		g         errgroup.Group
		panicOnce sync.Once
		panicVal  any
	)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { panicVal = r })
				}
			}()
			f(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	if panicVal != nil {
		panic(panicVal)
	}
}

// For executes f(i) for i in [0, n), splitting the range like ForRange.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(i)
		}
	}, cfg)
}
