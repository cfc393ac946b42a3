// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package webgpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-norm/backend/webgpu"
)

func TestNewMatchesAvailability(t *testing.T) {
	if !webgpu.IsAvailable() {
		_, err := webgpu.New()
		assert.Error(t, err)
		return
	}

	gpu, err := webgpu.New()
	require.NoError(t, err)
	defer gpu.Release()

	engine := webgpu.NewEngine(gpu)
	assert.Equal(t, gpu, engine.Accelerator())
}
