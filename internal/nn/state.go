package nn

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/serialization"
	"github.com/born-ml/born-norm/internal/tensor"
)

// StateDict returns m's parameters and, for stateful modules, its buffers,
// keyed by name. The tensors are shared with the module, not copied.
func StateDict(m Module) map[string]*tensor.RawTensor {
	dict := make(map[string]*tensor.RawTensor)
	for _, p := range stateOf(m) {
		dict[p.Name()] = p.Tensor()
	}
	return dict
}

// LoadStateDict copies matching entries of dict into m's parameters and
// buffers. Every parameter and buffer must be present with the same shape
// and dtype.
func LoadStateDict(m Module, dict map[string]*tensor.RawTensor) error {
	for _, p := range stateOf(m) {
		src, ok := dict[p.Name()]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		dst := p.Tensor()
		if !src.Shape().Equal(dst.Shape()) || src.DType() != dst.DType() {
			return fmt.Errorf("%s: expected %s%v, got %s%v", p.Name(), dst.DType(), dst.Shape(), src.DType(), src.Shape())
		}
		copy(dst.Data(), src.Data())
	}
	return nil
}

// SaveState writes m's state dict to a SafeTensors file.
func SaveState(path string, m Module, metadata map[string]string) error {
	if err := serialization.WriteSafeTensors(path, StateDict(m), metadata); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// LoadState reads a SafeTensors file written by SaveState into m.
func LoadState(path string, m Module) error {
	dict, _, err := serialization.ReadSafeTensors(path)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	return LoadStateDict(m, dict)
}

func stateOf(m Module) []*Parameter {
	params := m.Parameters()
	if s, ok := m.(interface{ Buffers() []*Parameter }); ok {
		params = append(params, s.Buffers()...)
	}
	return params
}
