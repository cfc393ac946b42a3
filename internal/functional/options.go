package functional

import (
	"math/rand"

	"github.com/born-ml/born-norm/internal/tensor"
)

// Reference framework defaults.
const (
	DefaultEps      = 1e-5
	DefaultMomentum = 0.1
	DefaultLRNAlpha = 1e-4
	DefaultLRNBeta  = 0.75
	DefaultLRNK     = 1.0
	DefaultDropoutP = 0.5
)

// BatchNormOptions configures BatchNorm.
type BatchNormOptions struct {
	RunningMean tensor.OptionalTensor // [C], updated in place when Training
	RunningVar  tensor.OptionalTensor // [C], updated in place when Training
	Weight      tensor.OptionalTensor // [C]
	Bias        tensor.OptionalTensor // [C]
	Training    bool
	Momentum    float64
	Eps         float64
}

// DefaultBatchNormOptions returns training-mode options with default
// momentum and epsilon and no optional tensors.
func DefaultBatchNormOptions() BatchNormOptions {
	return BatchNormOptions{Training: true, Momentum: DefaultMomentum, Eps: DefaultEps}
}

// GroupNormOptions configures GroupNorm.
type GroupNormOptions struct {
	NumGroups int
	Weight    tensor.OptionalTensor // [C]
	Bias      tensor.OptionalTensor // [C]
	Eps       float64
}

// DefaultGroupNormOptions returns options for numGroups groups.
func DefaultGroupNormOptions(numGroups int) GroupNormOptions {
	return GroupNormOptions{NumGroups: numGroups, Eps: DefaultEps}
}

// InstanceNormOptions configures InstanceNorm.
type InstanceNormOptions struct {
	RunningMean   tensor.OptionalTensor // [C]
	RunningVar    tensor.OptionalTensor // [C]
	Weight        tensor.OptionalTensor // [C]
	Bias          tensor.OptionalTensor // [C]
	UseInputStats bool
	Momentum      float64
	Eps           float64
}

// DefaultInstanceNormOptions returns options that normalize with input
// statistics.
func DefaultInstanceNormOptions() InstanceNormOptions {
	return InstanceNormOptions{UseInputStats: true, Momentum: DefaultMomentum, Eps: DefaultEps}
}

// LayerNormOptions configures LayerNorm.
type LayerNormOptions struct {
	NormalizedShape tensor.Shape          // trailing dims to normalize over; may be empty
	Weight          tensor.OptionalTensor // shape == NormalizedShape
	Bias            tensor.OptionalTensor // shape == NormalizedShape
	Eps             float64
}

// DefaultLayerNormOptions returns options normalizing over shape.
func DefaultLayerNormOptions(shape tensor.Shape) LayerNormOptions {
	return LayerNormOptions{NormalizedShape: shape.Clone(), Eps: DefaultEps}
}

// LocalResponseNormOptions configures LocalResponseNorm. All fields are
// required.
type LocalResponseNormOptions struct {
	Size  int
	Alpha float64
	Beta  float64
	K     float64
}

// DefaultLocalResponseNormOptions returns options for a window of size
// channels.
func DefaultLocalResponseNormOptions(size int) LocalResponseNormOptions {
	return LocalResponseNormOptions{Size: size, Alpha: DefaultLRNAlpha, Beta: DefaultLRNBeta, K: DefaultLRNK}
}

// Dropout3dOptions configures Dropout3d.
type Dropout3dOptions struct {
	P        float64
	Training bool
	Inplace  bool
	Rand     *rand.Rand // nil uses the math/rand global source
}

// DefaultDropout3dOptions returns training-mode options with P = 0.5.
func DefaultDropout3dOptions() Dropout3dOptions {
	return Dropout3dOptions{P: DefaultDropoutP, Training: true}
}

// MaxUnpool2dOptions configures MaxUnpool2d. Empty slices select defaults:
// Stride defaults to KernelSize, Padding to zero, OutputSize to the size
// implied by kernel, stride and padding.
type MaxUnpool2dOptions struct {
	KernelSize []int // 1 or 2 entries
	Stride     []int // 0, 1 or 2 entries
	Padding    []int // 0, 1 or 2 entries
	OutputSize []int // 0, 2 or input-rank entries; the last two are used
}
