package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Limits applied to untrusted headers.
const (
	MaxHeaderSize    = 100 << 20
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// TensorMeta locates one tensor inside the data section.
type TensorMeta struct {
	Name   string
	Offset int64
	Size   int64
}

// ValidateTensorOffsets checks that every tensor lies inside a data
// section of dataSize bytes and that no two tensors overlap.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Kind:    ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	byOffset := slices.Clone(tensors)
	slices.SortFunc(byOffset, func(a, b TensorMeta) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	var prev *TensorMeta
	for i := range byOffset {
		t := &byOffset[i]
		end := t.Offset + t.Size
		switch {
		case t.Offset < 0 || t.Size < 0:
			return &ValidationError{
				Kind:    ErrNegativeOffset,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		case end > dataSize:
			return &ValidationError{
				Kind:    ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("ends at %d, data section is %d bytes", end, dataSize),
			}
		case prev != nil && prev.Offset+prev.Size > t.Offset:
			return &ValidationError{
				Kind:    ErrOffsetOverlap,
				Tensor:  prev.Name,
				Tensor2: t.Name,
				Details: fmt.Sprintf("[%d, %d) overlaps [%d, %d)", prev.Offset, prev.Offset+prev.Size, t.Offset, end),
			}
		}
		prev = t
	}
	return nil
}

// ValidateTensorName rejects empty, oversized and path-like names.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Kind: ErrInvalidTensorName, Details: "empty name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Kind:    ErrInvalidTensorName,
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{
			Kind:    ErrInvalidTensorName,
			Tensor:  name,
			Details: "contains '..', a path separator or a null byte",
		}
	}
	return nil
}
