//go:build !windows

package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NotAvailable(t *testing.T) {
	assert.False(t, IsAvailable())

	b, err := New()
	require.ErrorIs(t, err, ErrNotAvailable)
	assert.Nil(t, b)
}

func TestNormalizeRows_NotAvailable(t *testing.T) {
	var b Backend
	_, err := b.NormalizeRows([]float32{1, 2}, 1, 2, 1e-5)
	assert.ErrorIs(t, err, ErrNotAvailable)
}
