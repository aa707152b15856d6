// Package cmem is the C heap backend for the marshalling layer.
//
// Heap implements mpv.Memory and mpv.ZeroAllocator with calloc and free, so the
// arrays and node trees built on it can be handed to libmpv as they are.
// Addresses are plain process pointers; Pointer converts one back to an
// unsafe.Pointer at the cgo boundary.
//
// The functions MakeStringArray, SetString, MakeNodeList and SetNodeListElement
// are the raw boundary helpers used when building mpv_command argument arrays
// and mpv_node_list values by hand. They perform no bounds checks: an index
// outside the array corrupts memory exactly as C indexing would. Allocation
// failure is reported as an error.
//
// Only little-endian hosts are supported. 32-bit hosts use the Wasm32 model,
// which does not hold on i386 where int64 aligns to 4 inside structs.
package cmem
