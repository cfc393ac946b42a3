package nn

import (
	"fmt"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/tensor"
)

// LayerNorm applies Layer Normalization over the trailing NormalizedShape
// dims of the input.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Example:
//
//	ln, err := nn.NewLayerNorm(tensor.Shape{768}, 1e-5, true)
//	out, err := ln.Forward(hidden) // [..., 768] -> [..., 768]
type LayerNorm struct {
	NormalizedShape tensor.Shape
	Eps             float64

	Gamma *Parameter // learnable scale, NormalizedShape; nil without elementwise affine
	Beta  *Parameter // learnable shift, NormalizedShape; nil without elementwise affine

	engine *functional.Engine
}

// NewLayerNorm creates a LayerNorm. Gamma starts at ones, beta at zeros.
func NewLayerNorm(normalizedShape tensor.Shape, eps float64, elementwiseAffine bool, opts ...Option) (*LayerNorm, error) {
	if err := normalizedShape.Validate(); err != nil {
		return nil, fmt.Errorf("LayerNorm: normalized_shape: %w", err)
	}
	m := &LayerNorm{
		NormalizedShape: normalizedShape.Clone(),
		Eps:             eps,
		engine:          buildOptions(opts).engine,
	}
	if elementwiseAffine {
		var err error
		if m.Gamma, err = filled("weight", m.NormalizedShape, 1); err != nil {
			return nil, err
		}
		if m.Beta, err = filled("bias", m.NormalizedShape, 0); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Forward applies layer normalization.
func (m *LayerNorm) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return m.engine.LayerNorm(x, functional.LayerNormOptions{
		NormalizedShape: m.NormalizedShape,
		Weight:          optional(m.Gamma),
		Bias:            optional(m.Beta),
		Eps:             m.Eps,
	})
}

// Parameters returns gamma and beta when present.
func (m *LayerNorm) Parameters() []*Parameter {
	return nonNil(m.Gamma, m.Beta)
}
