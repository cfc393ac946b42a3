package tensor

import (
	"fmt"
	"slices"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device a tensor's data was produced on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted byte buffer shared by views of a tensor.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
}

func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{data: make([]byte, size)}
	buf.refCount.Store(1)
	return buf
}

func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.data = nil
	}
}

// RawTensor is a contiguous, row-major tensor with runtime dtype.
//
// Kernels read and write it through the typed As* views. Running statistics
// handed to batch and instance norm are mutated through those views, so two
// RawTensors that share a buffer observe each other's updates.
type RawTensor struct {
	buffer *tensorBuffer
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the device that produced the tensor.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns NumElements times the dtype width.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the little-endian backing bytes. Writes are visible to every
// view of the buffer.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// Typed views alias the buffer without copying. Each panics if the dtype
// does not match.

// AsFloat32 returns the data as []float32.
func (r *RawTensor) AsFloat32() []float32 { return viewAs[float32](r, Float32) }

// AsFloat64 returns the data as []float64.
func (r *RawTensor) AsFloat64() []float64 { return viewAs[float64](r, Float64) }

// AsInt32 returns the data as []int32.
func (r *RawTensor) AsInt32() []int32 { return viewAs[int32](r, Int32) }

// AsInt64 returns the data as []int64.
func (r *RawTensor) AsInt64() []int64 { return viewAs[int64](r, Int64) }

// AsUint8 returns the data as []uint8.
func (r *RawTensor) AsUint8() []uint8 { return viewAs[uint8](r, Uint8) }

// AsBool returns the data as []bool.
func (r *RawTensor) AsBool() []bool { return viewAs[bool](r, Bool) }

func viewAs[T any](r *RawTensor, dt DataType) []T {
	r.mustBe(dt)
	//nolint:gosec // length bounded by NumElements() and the dtype width
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(r.buffer.data))), r.NumElements())
}

func (r *RawTensor) mustBe(dt DataType) {
	if r.dtype != dt {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
}

// View returns a RawTensor sharing this tensor's buffer (reference counted).
func (r *RawTensor) View() *RawTensor {
	r.buffer.refCount.Add(1)
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: slices.Clone(r.stride),
		dtype:  r.dtype,
		device: r.device,
	}
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	out := &RawTensor{
		buffer: newTensorBuffer(len(r.buffer.data)),
		shape:  r.shape.Clone(),
		stride: slices.Clone(r.stride),
		dtype:  r.dtype,
		device: r.device,
	}
	copy(out.buffer.data, r.buffer.data)
	return out
}

// Release decrements the buffer's reference count and frees it at zero.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsReleased reports whether the underlying buffer has been freed.
func (r *RawTensor) IsReleased() bool {
	return r.buffer.refCount.Load() <= 0
}

// String returns a human-readable description of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
