// Package functional implements stateless normalization kernels over raw
// tensors.
//
// Every kernel takes an input tensor and an options value whose optional
// tensors are tensor.Optional values. Absent options are never replaced with
// zero-filled tensors: a missing weight means "no scale", a missing running
// mean means "nothing to track". Running statistics that are present are
// updated in place, so callers that share them must serialize training calls.
//
// Kernels accept float32 and float64 inputs and compute in float64. Errors are
// prefixed with the kernel name, e.g. "GroupNorm: ...".
//
// Example:
//
//	x, _ := tensor.FromFloat32(data, tensor.Shape{2, 3, 4, 4})
//	y, err := functional.BatchNorm(x, functional.BatchNormOptions{
//	    Training: true,
//	    Momentum: 0.1,
//	    Eps:      1e-5,
//	})
package functional
