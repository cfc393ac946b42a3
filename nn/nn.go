// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides normalization layers with trainable parameters and
// running statistics.
//
// Layers follow a train/eval mode switch: BatchNorm and InstanceNorm use
// batch statistics while training and running statistics in eval mode, and
// Dropout3d is the identity in eval mode.
//
//	bn, err := nn.NewBatchNorm(16, nn.DefaultBatchNormConfig())
//	out, err := bn.Forward(x)
//	bn.Eval()
package nn

import (
	"math/rand"

	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/nn"
	"github.com/born-ml/born-norm/tensor"
)

// Module is a layer with a forward pass and parameters.
type Module = nn.Module

// Stateful is a module with buffers and a train/eval mode.
type Stateful = nn.Stateful

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Option configures a layer.
type Option = nn.Option

// NormConfig configures BatchNorm and InstanceNorm.
type NormConfig = nn.NormConfig

// Layers.
type (
	BatchNorm         = nn.BatchNorm
	InstanceNorm      = nn.InstanceNorm
	GroupNorm         = nn.GroupNorm
	LayerNorm         = nn.LayerNorm
	LocalResponseNorm = nn.LocalResponseNorm
	Dropout3d         = nn.Dropout3d
	MaxUnpool2d       = nn.MaxUnpool2d
)

// WithEngine sets the compute engine a layer runs on.
func WithEngine(e *functional.Engine) Option { return nn.WithEngine(e) }

// WithRand sets the random source for Dropout3d.
func WithRand(r *rand.Rand) Option { return nn.WithRand(r) }

// DefaultBatchNormConfig returns eps 1e-5, momentum 0.1, affine, tracked.
func DefaultBatchNormConfig() NormConfig { return nn.DefaultBatchNormConfig() }

// DefaultInstanceNormConfig returns eps 1e-5, momentum 0.1, untracked.
func DefaultInstanceNormConfig() NormConfig { return nn.DefaultInstanceNormConfig() }

// NewBatchNorm creates a BatchNorm layer over numFeatures channels.
func NewBatchNorm(numFeatures int, cfg NormConfig, opts ...Option) (*BatchNorm, error) {
	return nn.NewBatchNorm(numFeatures, cfg, opts...)
}

// NewInstanceNorm creates an InstanceNorm layer over numFeatures channels.
func NewInstanceNorm(numFeatures int, cfg NormConfig, opts ...Option) (*InstanceNorm, error) {
	return nn.NewInstanceNorm(numFeatures, cfg, opts...)
}

// NewGroupNorm creates a GroupNorm layer.
func NewGroupNorm(numGroups, numChannels int, eps float64, affine bool, opts ...Option) (*GroupNorm, error) {
	return nn.NewGroupNorm(numGroups, numChannels, eps, affine, opts...)
}

// NewLayerNorm creates a LayerNorm layer over the trailing normalizedShape.
func NewLayerNorm(normalizedShape tensor.Shape, eps float64, elementwiseAffine bool, opts ...Option) (*LayerNorm, error) {
	return nn.NewLayerNorm(normalizedShape, eps, elementwiseAffine, opts...)
}

// NewLocalResponseNorm creates a LocalResponseNorm layer.
func NewLocalResponseNorm(size int, alpha, beta, k float64, opts ...Option) (*LocalResponseNorm, error) {
	return nn.NewLocalResponseNorm(size, alpha, beta, k, opts...)
}

// NewDropout3d creates a Dropout3d layer.
func NewDropout3d(p float64, inplace bool, opts ...Option) (*Dropout3d, error) {
	return nn.NewDropout3d(p, inplace, opts...)
}

// NewMaxUnpool2d creates a MaxUnpool2d layer.
func NewMaxUnpool2d(kernelSize, stride, padding []int, opts ...Option) *MaxUnpool2d {
	return nn.NewMaxUnpool2d(kernelSize, stride, padding, opts...)
}

// SaveState writes m's parameters and buffers to a SafeTensors file.
func SaveState(path string, m Module, metadata map[string]string) error {
	return nn.SaveState(path, m, metadata)
}

// LoadState reads m's parameters and buffers from a SafeTensors file.
func LoadState(path string, m Module) error {
	return nn.LoadState(path, m)
}
