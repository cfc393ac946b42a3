package webgpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat32Encoding(t *testing.T) {
	values := []float32{0, -1.5, 3.25, float32(math.Inf(1))}
	buf := float32Bytes(values)
	assert.Len(t, buf, 16)
	assert.Equal(t, []byte{0, 0, 0xc0, 0xbf}, buf[4:8])
	assert.Equal(t, values, bytesFloat32(buf))
}
