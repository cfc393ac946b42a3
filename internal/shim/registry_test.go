package shim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-norm/internal/tensor"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{
		OpBatchNorm, OpDropout3d, OpGroupNorm, OpInstanceNorm,
		OpLayerNorm, OpLocalResponseNorm, OpMaxUnpool2d,
	}, r.SupportedOps())

	_, ok := r.Get("softmax")
	assert.False(t, ok)
}

func TestRegistry_ExecuteMatchesDirectCall(t *testing.T) {
	s := NewSession()
	r := NewRegistry()
	in := importF32(t, s, ramp(2*4*3), tensor.Shape{2, 4, 3})
	w := importF32(t, s, []float32{1, 2, 3, 4}, tensor.Shape{4})

	tests := []struct {
		name   string
		call   *Call
		direct func() (Handle, error)
	}{
		{
			name: "batch_norm",
			call: &Call{
				Op:         OpBatchNorm,
				Inputs:     map[string]Handle{"input": in, "weight": w},
				Attributes: []Attribute{Bool("training", true), Float("eps", 1e-3)},
			},
			direct: func() (Handle, error) { return s.BatchNorm(in, Null, Null, w, Null, true, 0.1, 1e-3) },
		},
		{
			name: "group_norm",
			call: &Call{
				Op:         OpGroupNorm,
				Inputs:     map[string]Handle{"input": in, "weight": w},
				Attributes: []Attribute{Int("num_groups", 2)},
			},
			direct: func() (Handle, error) { return s.GroupNorm(in, 2, w, Null, 1e-5) },
		},
		{
			name:   "instance_norm",
			call:   &Call{Op: OpInstanceNorm, Inputs: map[string]Handle{"input": in}},
			direct: func() (Handle, error) { return s.InstanceNorm(in, Null, Null, Null, Null, true, 0.1, 1e-5) },
		},
		{
			name: "layer_norm",
			call: &Call{
				Op:         OpLayerNorm,
				Inputs:     map[string]Handle{"input": in},
				Attributes: []Attribute{Ints("normalized_shape", 3)},
			},
			direct: func() (Handle, error) { return s.LayerNorm(in, []int64{3}, Null, Null, 1e-5) },
		},
		{
			name: "local_response_norm",
			call: &Call{
				Op:         OpLocalResponseNorm,
				Inputs:     map[string]Handle{"input": in},
				Attributes: []Attribute{Int("size", 2), Float("alpha", 1e-2)},
			},
			direct: func() (Handle, error) { return s.LocalResponseNorm(in, 2, 1e-2, 0.75, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Execute(s, tt.call)
			require.NoError(t, err)
			want, err := tt.direct()
			require.NoError(t, err)
			assert.NotEqual(t, want, got)
			assert.Equal(t, floats(t, s, want), floats(t, s, got))
		})
	}
}

func TestRegistry_Dropout3dAndUnpool(t *testing.T) {
	s := NewSession()
	r := NewRegistry()

	in := importF32(t, s, ramp(2*2*2*2), tensor.Shape{2, 2, 2, 2})
	out, err := r.Execute(s, &Call{
		Op:         OpDropout3d,
		Inputs:     map[string]Handle{"input": in},
		Attributes: []Attribute{Bool("training", false)},
	})
	require.NoError(t, err)
	assert.Equal(t, floats(t, s, in), floats(t, s, out))

	x := importF32(t, s, []float32{1, 2}, tensor.Shape{1, 1, 2})
	idx, err := tensor.FromInt64([]int64{0, 3}, tensor.Shape{1, 1, 2})
	require.NoError(t, err)
	out, err = r.Execute(s, &Call{
		Op:         OpMaxUnpool2d,
		Inputs:     map[string]Handle{"input": x, "indices": s.Import(idx)},
		Attributes: []Attribute{Int("kernel_size", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2, 4}, shapeOf(t, s, out))
}

func TestRegistry_UnknownOp(t *testing.T) {
	s := NewSession()

	out, err := NewRegistry().Execute(s, &Call{Op: "softmax"})
	assert.Equal(t, Null, out)
	assert.ErrorIs(t, err, ErrNativeCompute)
	assert.Contains(t, s.LastError(), "unsupported operation: softmax")
}

func TestRegistry_RegisterCustomOp(t *testing.T) {
	r := NewRegistry()
	r.Register("identity", func(s *Session, c *Call) (Handle, error) {
		return c.Input("input"), nil
	})

	h, err := r.Execute(NewSession(), &Call{Op: "identity", Inputs: map[string]Handle{"input": 5}})
	require.NoError(t, err)
	assert.Equal(t, Handle(5), h)
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		in   string
		want Attribute
	}{
		{"training=true", Bool("training", true)},
		{"inplace=false", Bool("inplace", false)},
		{"num_groups=2", Int("num_groups", 2)},
		{"eps=1e-3", Float("eps", 1e-3)},
		{"momentum = 0.5", Float("momentum", 0.5)},
		{"normalized_shape=4,4", Ints("normalized_shape", 4, 4)},
		{"normalized_shape=", Ints("normalized_shape")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAttribute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"eps", "=1", "size=two", "kernel_size=2,x"} {
		_, err := ParseAttribute(bad)
		assert.Error(t, err, bad)
	}
}

func TestGetAttrConversions(t *testing.T) {
	c := &Call{Attributes: []Attribute{Int("eps", 1), Int("kernel_size", 3), Int("training", 0)}}

	eps, err := GetAttrFloat(c, "eps", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, eps)

	kernel, err := GetAttrInts(c, "kernel_size")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, kernel)

	training, err := GetAttrBool(c, "training", true)
	require.NoError(t, err)
	assert.False(t, training)

	size, err := GetAttrInt(c, "size", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	stride, err := GetAttrInts(c, "stride")
	require.NoError(t, err)
	assert.Nil(t, stride)
}

func TestGetAttrRejectsMistypedValues(t *testing.T) {
	c := &Call{Attributes: []Attribute{
		Bool("eps", true), Float("size", 2.5), Float("normalized_shape", 4), Ints("training", 1, 0),
		{Name: "p"},
	}}

	_, err := GetAttrFloat(c, "eps", 1e-5)
	assert.ErrorContains(t, err, `attribute "eps": bool value where float expected`)
	_, err = GetAttrInt(c, "size", 0)
	assert.Error(t, err)
	_, err = GetAttrInts(c, "normalized_shape")
	assert.Error(t, err)
	_, err = GetAttrBool(c, "training", true)
	assert.Error(t, err)
	_, err = GetAttrFloat(c, "p", 0.5)
	assert.ErrorContains(t, err, "untyped")
}

func TestRegistry_MistypedAttributeFailsCall(t *testing.T) {
	s := NewSession()
	r := NewRegistry()
	in := importF32(t, s, ramp(2*4), tensor.Shape{2, 4})

	shape, err := ParseAttribute("normalized_shape=4.0")
	require.NoError(t, err)
	require.Equal(t, AttrFloat, shape.Type)

	out, err := r.Execute(s, &Call{
		Op:         OpLayerNorm,
		Inputs:     map[string]Handle{"input": in},
		Attributes: []Attribute{shape},
	})
	assert.Equal(t, Null, out)
	assert.ErrorIs(t, err, ErrNativeCompute)
	assert.Contains(t, s.LastError(), "normalized_shape")

	eps, err := ParseAttribute("eps=true")
	require.NoError(t, err)
	tableBefore := s.Len()
	_, err = r.Execute(s, &Call{
		Op:         OpBatchNorm,
		Inputs:     map[string]Handle{"input": in},
		Attributes: []Attribute{eps},
	})
	assert.ErrorIs(t, err, ErrNativeCompute)
	assert.Contains(t, s.LastError(), `attribute "eps"`)
	assert.Equal(t, tableBefore, s.Len())
}
