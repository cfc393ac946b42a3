package webgpu

import (
	"encoding/binary"
	"math"
)

// float32Bytes encodes values as little-endian IEEE 754, the layout WGSL
// storage buffers expect.
func float32Bytes(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// bytesFloat32 decodes a little-endian float32 buffer into a new slice.
func bytesFloat32(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out
}
