//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// paramsSize is the uniform block size: rows, cols, eps and padding.
const paramsSize = 16

// NormalizeRows standardizes every row of a row-major [rows, cols] float32
// buffer on the GPU using the population variance.
func (b *Backend) NormalizeRows(data []float32, rows, cols int, eps float32) (out []float32, err error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("webgpu: NormalizeRows: %d values do not form [%d, %d]", len(data), rows, cols)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return nil, fmt.Errorf("webgpu: NormalizeRows: backend released")
	}
	// A lost device surfaces as a panic from the native layer.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("webgpu: NormalizeRows: %v", r)
		}
	}()

	payload := float32Bytes(data)
	//nolint:gosec // G115: length is non-negative
	size := uint64(len(payload))

	src := b.upload(payload, size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer src.Release()

	dst := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer dst.Release()

	params := b.upload(rowParams(rows, cols, eps), paramsSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	defer params.Release()

	bindGroup := b.device.CreateBindGroupSimple(b.pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, src, 0, size),
		wgpu.BufferBindingEntry(1, dst, 0, size),
		wgpu.BufferBindingEntry(2, params, 0, paramsSize),
	})
	defer bindGroup.Release()

	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	// Dispatch and copy-back share one submission.
	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: workgroup count is positive
	pass.DispatchWorkgroups(uint32((rows+workgroupSize-1)/workgroupSize), 1, 1)
	pass.End()
	encoder.CopyBufferToBuffer(dst, 0, staging, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("webgpu: NormalizeRows: map result: %w", err)
	}
	//nolint:gosec // unsafe.Slice over the mapped range
	mapped := unsafe.Slice((*byte)(staging.GetMappedRange(0, size)), size)
	out = bytesFloat32(mapped)
	staging.Unmap()
	return out, nil
}

// upload creates a buffer of size bytes mapped at creation and fills it
// with data.
func (b *Backend) upload(data []byte, size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	//nolint:gosec // unsafe.Slice over the mapped range
	copy(unsafe.Slice((*byte)(buf.GetMappedRange(0, size)), size), data)
	buf.Unmap()
	return buf
}

func rowParams(rows, cols int, eps float32) []byte {
	p := make([]byte, paramsSize)
	//nolint:gosec // G115: rows and cols are positive
	binary.LittleEndian.PutUint32(p[0:], uint32(rows))
	//nolint:gosec // G115: rows and cols are positive
	binary.LittleEndian.PutUint32(p[4:], uint32(cols))
	binary.LittleEndian.PutUint32(p[8:], math.Float32bits(eps))
	return p
}
