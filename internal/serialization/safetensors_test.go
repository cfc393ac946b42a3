package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/born-norm/internal/tensor"
)

func TestSafeTensors_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tensors.safetensors")

	x, err := tensor.FromFloat32([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	rm, err := tensor.FromFloat64([]float64{0.5, -0.5}, tensor.Shape{2})
	require.NoError(t, err)
	idx, err := tensor.FromInt64([]int64{3, 1}, tensor.Shape{1, 2})
	require.NoError(t, err)

	err = WriteSafeTensors(path, map[string]*tensor.RawTensor{
		"input":        x,
		"running_mean": rm,
		"indices":      idx,
	}, map[string]string{"format": "pt"})
	require.NoError(t, err)

	got, meta, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, "pt", meta["format"])
	assert.Contains(t, meta, ChecksumKey)
	require.Len(t, got, 3)

	assert.Equal(t, tensor.Shape{2, 3}, got["input"].Shape())
	assert.Equal(t, tensor.Float32, got["input"].DType())
	assert.Equal(t, x.AsFloat32(), got["input"].AsFloat32())
	assert.Equal(t, rm.AsFloat64(), got["running_mean"].AsFloat64())
	assert.Equal(t, idx.AsInt64(), got["indices"].AsInt64())
}

func TestSafeTensors_ReaderAccessors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.safetensors")
	b, err := tensor.FromFloat32([]float32{1}, tensor.Shape{1})
	require.NoError(t, err)
	a, err := tensor.FromFloat32([]float32{2, 3}, tensor.Shape{2})
	require.NoError(t, err)
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.RawTensor{"b": b, "a": a}, nil))

	r, err := OpenSafeTensors(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, []string{"a", "b"}, r.TensorNames())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))

	info, err := r.TensorInfo("b")
	require.NoError(t, err)
	assert.Equal(t, SafeTensorsF32, info.DType)
	// Data is laid out alphabetically.
	assert.Equal(t, [2]int64{8, 12}, info.DataOffsets)

	_, err = r.LoadTensor("c")
	assert.ErrorIs(t, err, ErrTensorNotFound)
	assert.NoError(t, r.Verify())
}

func TestSafeTensors_ScalarTensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scalar.safetensors")
	s, err := tensor.FromFloat64([]float64{0.25}, tensor.Shape{})
	require.NoError(t, err)
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.RawTensor{"eps": s}, nil))

	got, _, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Empty(t, got["eps"].Shape())
	assert.Equal(t, []float64{0.25}, got["eps"].AsFloat64())
}

func TestSafeTensors_DetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.safetensors")
	x, err := tensor.FromFloat32([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.RawTensor{"x": x}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, _, err = ReadSafeTensors(path)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func writeRaw(t *testing.T, header string, payload []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.WriteString(header)
	buf.Write(payload)
	path := filepath.Join(t.TempDir(), "raw.safetensors")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestOpenSafeTensors_RejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		payload int
		kind    error
	}{
		{
			name:    "out of bounds",
			header:  `{"x":{"dtype":"F32","shape":[4],"data_offsets":[0,16]}}`,
			payload: 8,
			kind:    ErrOutOfBounds,
		},
		{
			name: "overlap",
			header: `{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]},` +
				`"b":{"dtype":"F32","shape":[2],"data_offsets":[4,12]}}`,
			payload: 12,
			kind:    ErrOffsetOverlap,
		},
		{
			name:    "path-like name",
			header:  `{"../x":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`,
			payload: 4,
			kind:    ErrInvalidTensorName,
		},
		{
			name:    "negative size",
			header:  `{"x":{"dtype":"F32","shape":[1],"data_offsets":[4,0]}}`,
			payload: 4,
			kind:    ErrNegativeOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenSafeTensors(writeRaw(t, tt.header, make([]byte, tt.payload)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestLoadTensor_RejectsUnsupportedAndMismatched(t *testing.T) {
	path := writeRaw(t,
		`{"h":{"dtype":"F16","shape":[2],"data_offsets":[0,4]},"s":{"dtype":"F32","shape":[3],"data_offsets":[4,8]}}`,
		make([]byte, 8))
	r, err := OpenSafeTensors(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.LoadTensor("h")
	assert.ErrorContains(t, err, "requires conversion")

	_, err = r.LoadTensor("s")
	assert.ErrorContains(t, err, "needs 12 bytes")

	// No checksum recorded: nothing to verify.
	assert.NoError(t, r.Verify())
}

func TestEncodeSafeTensors_RejectsBadInput(t *testing.T) {
	x, err := tensor.FromFloat32([]float32{1}, tensor.Shape{1})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = EncodeSafeTensors(&buf, map[string]*tensor.RawTensor{"a/b": x}, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)

	x.Release()
	err = EncodeSafeTensors(&buf, map[string]*tensor.RawTensor{"x": x}, nil)
	assert.ErrorContains(t, err, "has no data")
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("born"))
	fromReader, err := ComputeChecksumReader(bytes.NewReader([]byte("born")))
	require.NoError(t, err)
	assert.Equal(t, sum, fromReader)
	assert.ErrorIs(t, ValidateChecksum(sum, "00"), ErrChecksumMismatch)
	assert.ErrorIs(t, ValidateChecksum(sum, "not hex"), ErrChecksumMismatch)
	assert.NoError(t, ValidateChecksum(sum, strings.ToUpper(hex.EncodeToString(sum[:]))))
}
