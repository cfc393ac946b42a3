// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package shim

import (
	"github.com/born-ml/born-norm/internal/shim"
)

// Registry dispatches operations by name.
type Registry = shim.Registry

// Call is a named operation with role-keyed inputs and attributes.
type Call = shim.Call

// Attribute is a typed operation attribute.
type Attribute = shim.Attribute

// OpHandler runs a Call against a Session.
type OpHandler = shim.OpHandler

// NewRegistry returns a registry with every normalization operation.
func NewRegistry() *Registry {
	return shim.NewRegistry()
}

// ParseAttribute parses a "key=value" attribute.
func ParseAttribute(s string) (Attribute, error) {
	return shim.ParseAttribute(s)
}
