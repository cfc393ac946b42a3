// Package serialization reads and writes tensors in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes]
//
// The optional "__metadata__" header entry holds string pairs. Files written
// by this package record a SHA-256 of the data section there, which
// SafeTensorsReader.Verify checks.
//
// Example usage:
//
//	err := serialization.WriteSafeTensors("out.safetensors", map[string]*tensor.RawTensor{
//	    "output": y,
//	}, nil)
//
//	r, err := serialization.OpenSafeTensors("in.safetensors")
//	defer r.Close()
//	x, err := r.LoadTensor("input")
package serialization
