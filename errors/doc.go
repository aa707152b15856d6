// Package errors provides structured error types for the mpv marshalling layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the slot path, the Go type and mpv format involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("playlist", "[2]", "filename").
//		GoType("chan int").
//		Format("string").
//		Detail("cannot represent channel as node").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(errors.PhaseAlloc, 48, 8)
//	err := errors.OutOfBounds(errors.PhaseWrite, nil, 3, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
