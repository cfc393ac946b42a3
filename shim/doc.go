// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shim is the handle-based call surface for the normalization
// operations.
//
// A Session owns a table of tensors addressed by Handle. Null stands for an
// omitted optional tensor. Every operation reports failure both as a
// returned error and through the session's last-error slot, so callers that
// only see handles can still retrieve the message:
//
//	s := shim.NewSession()
//	defer s.Close()
//
//	x := s.Import(input)
//	out, err := s.BatchNorm(x, shim.Null, shim.Null, shim.Null, shim.Null, true, 0.1, 1e-5)
//	if err != nil {
//	    log.Println(s.LastError())
//	}
//
// Operations can also be dispatched by name through a Registry.
package shim
