// Package shim exposes the normalization kernels through a handle-based
// call surface.
//
// Callers register tensors in a Session and pass Handles to the operations.
// The zero Handle, Null, marks an optional tensor argument as absent. Every
// operation runs inside a boundary that converts kernel errors and panics
// into a *ComputeError, records the message in the session's last-error
// slot and returns Null. On success the result is registered in the session
// and its new Handle is returned; the caller owns it and frees it with
// Release.
package shim
