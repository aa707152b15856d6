// Package abi provides internal utilities shared by the node codec and the buffer builder.
//
// # Contents
//
//   - coerce.go: Coercion of Go numeric values to the int64 and double node payloads
//   - helpers.go: Overflow-checked arithmetic, alignment and safety limits
//
// This package is internal to the module.
package abi
