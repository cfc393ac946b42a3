package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements(), "scalar has one element")
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShapeHasSuffix(t *testing.T) {
	s := Shape{2, 3, 4, 5}
	assert.True(t, s.HasSuffix(Shape{4, 5}))
	assert.True(t, s.HasSuffix(Shape{}))
	assert.True(t, s.HasSuffix(s))
	assert.False(t, s.HasSuffix(Shape{3, 5}))
	assert.False(t, s.HasSuffix(Shape{1, 2, 3, 4, 5}))
}

func TestShapeSpatial(t *testing.T) {
	assert.Equal(t, 16, Shape{2, 3, 4, 4}.Spatial())
	assert.Equal(t, 1, Shape{2, 3}.Spatial())
	assert.Equal(t, 10, Shape{1, 5, 10}.Spatial())
}

func TestComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestShapeFromInt64(t *testing.T) {
	s, err := ShapeFromInt64([]int64{4, 4})
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 4}, s)

	empty, err := ShapeFromInt64(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ShapeFromInt64([]int64{3, 0})
	assert.Error(t, err)
}

func TestShapeFromInt64Copies(t *testing.T) {
	dims := []int64{2, 3}
	s, err := ShapeFromInt64(dims)
	require.NoError(t, err)
	dims[0] = 7
	assert.Equal(t, Shape{2, 3}, s, "shape must not alias the caller's slice")
}

func TestNewRawRejectsInvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, -1}, Float32, CPU)
	assert.Error(t, err)
}

func TestFromFloat32(t *testing.T) {
	x, err := FromFloat32([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 24, x.ByteSize())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.AsFloat32())

	_, err = FromFloat32([]float32{1, 2}, Shape{3})
	assert.Error(t, err)
}

func TestAsFloat64PanicsOnWrongDType(t *testing.T) {
	x, err := Zeros(Shape{2}, Float32)
	require.NoError(t, err)
	assert.Panics(t, func() { x.AsFloat64() })
}

func TestViewSharesBuffer(t *testing.T) {
	x, err := FromFloat64([]float64{1, 2}, Shape{2})
	require.NoError(t, err)
	v := x.View()
	v.AsFloat64()[0] = 9
	assert.Equal(t, 9.0, x.AsFloat64()[0])

	v.Release()
	assert.False(t, x.IsReleased(), "original still holds a reference")
	x.Release()
	assert.True(t, x.IsReleased())
}

func TestCloneIsDeep(t *testing.T) {
	x, err := FromFloat32([]float32{1, 2}, Shape{2})
	require.NoError(t, err)
	c := x.Clone()
	c.AsFloat32()[0] = 5
	assert.Equal(t, float32(1), x.AsFloat32()[0])
}

func TestFloat64sRoundTrip(t *testing.T) {
	x, err := FromFloat32([]float32{0.5, -1.5}, Shape{2})
	require.NoError(t, err)
	vals, err := Float64s(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1.5}, vals)

	require.NoError(t, SetFloat64s(x, []float64{3, 4}))
	assert.Equal(t, []float32{3, 4}, x.AsFloat32())

	assert.Error(t, SetFloat64s(x, []float64{1}))

	idx, err := FromInt64([]int64{1}, Shape{1})
	require.NoError(t, err)
	_, err = Float64s(idx)
	assert.Error(t, err)
}

func TestInt64s(t *testing.T) {
	x, err := FromInt32([]int32{3, 1}, Shape{2})
	require.NoError(t, err)
	vals, err := Int64s(x)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, vals)
}

func TestFull(t *testing.T) {
	x, err := Full(Shape{3}, Float64, 2.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, x.AsFloat64())

	_, err = Full(Shape{3}, Int64, 1)
	assert.Error(t, err)
}

func TestOptional(t *testing.T) {
	none := None[*RawTensor]()
	_, ok := none.Get()
	assert.False(t, ok)
	assert.False(t, none.IsPresent())

	x, err := Zeros(Shape{1}, Float32)
	require.NoError(t, err)
	some := Some(x)
	got, ok := some.Get()
	assert.True(t, ok)
	assert.Same(t, x, got)

	assert.False(t, MaybeTensor(nil).IsPresent())
	assert.True(t, MaybeTensor(x).IsPresent())
	assert.Equal(t, 3, None[int]().OrElse(3))
	assert.Equal(t, 4, Some(4).OrElse(3))
}

func TestDataTypeHelpers(t *testing.T) {
	assert.True(t, Float32.IsFloat())
	assert.False(t, Int64.IsFloat())
	assert.True(t, Int64.IsInteger())
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, 8, Int64.Size())
	assert.Equal(t, "WebGPU", WebGPU.String())
	assert.Equal(t, "unknown", DataType(42).String())
	assert.Panics(t, func() { DataType(-1).Size() })
}
