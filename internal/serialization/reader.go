package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/born-ml/born-norm/internal/tensor"
)

// SafeTensorsDType represents supported SafeTensors data types.
type SafeTensorsDType string

// Supported SafeTensors dtypes.
const (
	SafeTensorsF16  SafeTensorsDType = "F16"
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
	SafeTensorsBF16 SafeTensorsDType = "BF16"
	SafeTensorsI32  SafeTensorsDType = "I32"
	SafeTensorsI64  SafeTensorsDType = "I64"
	SafeTensorsU8   SafeTensorsDType = "U8"
	SafeTensorsBool SafeTensorsDType = "BOOL"
)

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int64          `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits the header object into metadata and tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// SafeTensorsReader reads SafeTensors format files.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64 // Offset where tensor data starts
	dataSize   int64
}

// OpenSafeTensors opens path and validates its header: tensor names, the
// dtype of every entry and that data regions neither overlap nor run past
// the end of the file.
func OpenSafeTensors(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for tensor files
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, err := newSafeTensorsReader(file)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	return r, nil
}

func newSafeTensorsReader(file *os.File) (*SafeTensorsReader, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	//nolint:gosec // G115: file size is non-negative
	if headerSize > MaxHeaderSize || headerSize > uint64(stat.Size()) {
		return nil, &ValidationError{Kind: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes", headerSize)}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	dataOffset := int64(8 + headerSize) //nolint:gosec // G115: bounded by MaxHeaderSize
	dataSize := stat.Size() - dataOffset

	metas := make([]TensorMeta, 0, len(header.Tensors))
	for name, info := range header.Tensors {
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: info.DataOffsets[0],
			Size:   info.DataOffsets[1] - info.DataOffsets[0],
		})
	}
	if err := ValidateTensorOffsets(metas, dataSize); err != nil {
		return nil, err
	}

	return &SafeTensorsReader{
		file:       file,
		header:     header,
		dataOffset: dataOffset,
		dataSize:   dataSize,
	}, nil
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	return slices.Sorted(maps.Keys(r.header.Tensors))
}

// Has reports whether the file contains a tensor called name.
func (r *SafeTensorsReader) Has(name string) bool {
	_, ok := r.header.Tensors[name]
	return ok
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	return &info, nil
}

// ReadTensorData reads raw tensor data for a given tensor name.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	data := make([]byte, info.DataOffsets[1]-info.DataOffsets[0])
	if _, err := r.file.ReadAt(data, r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// LoadTensor loads a tensor into a new CPU RawTensor.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := safeTensorsDTypeToDataType(info.DType)
	if err != nil {
		return nil, fmt.Errorf("failed to convert dtype for tensor %s: %w", name, err)
	}
	shape, err := tensor.ShapeFromInt64(info.Shape)
	if err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	size := info.DataOffsets[1] - info.DataOffsets[0]
	if int64(raw.ByteSize()) != size {
		return nil, fmt.Errorf("tensor %s: shape %v with dtype %s needs %d bytes, header gives %d",
			name, shape, info.DType, raw.ByteSize(), size)
	}

	if _, err := r.file.ReadAt(raw.Data(), r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}
	return raw, nil
}

// LoadAll loads every tensor in the file.
func (r *SafeTensorsReader) LoadAll() (map[string]*tensor.RawTensor, error) {
	out := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		raw, err := r.LoadTensor(name)
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return out, nil
}

// Verify checks the data section against the checksum recorded in the
// metadata. Files without a recorded checksum pass.
func (r *SafeTensorsReader) Verify() error {
	stored, ok := r.header.Metadata[ChecksumKey]
	if !ok {
		return nil
	}
	sum, err := ComputeChecksumReader(io.NewSectionReader(r.file, r.dataOffset, r.dataSize))
	if err != nil {
		return fmt.Errorf("failed to hash data section: %w", err)
	}
	return ValidateChecksum(sum, stored)
}

// ReadSafeTensors opens path, verifies it and loads every tensor.
func ReadSafeTensors(path string) (tensors map[string]*tensor.RawTensor, metadata map[string]string, err error) {
	r, err := OpenSafeTensors(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = r.Close() // Best effort close
	}()

	if err := r.Verify(); err != nil {
		return nil, nil, err
	}
	tensors, err = r.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	return tensors, r.Metadata(), nil
}

// safeTensorsDTypeToDataType converts SafeTensors dtype to a tensor DataType.
func safeTensorsDTypeToDataType(dtype SafeTensorsDType) (tensor.DataType, error) {
	switch dtype {
	case SafeTensorsF32:
		return tensor.Float32, nil
	case SafeTensorsF64:
		return tensor.Float64, nil
	case SafeTensorsI32:
		return tensor.Int32, nil
	case SafeTensorsI64:
		return tensor.Int64, nil
	case SafeTensorsU8:
		return tensor.Uint8, nil
	case SafeTensorsBool:
		return tensor.Bool, nil
	case SafeTensorsF16, SafeTensorsBF16:
		return 0, fmt.Errorf("dtype %s requires conversion (not directly supported)", dtype)
	default:
		return 0, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}
