// Package memory provides foreign memory backends and helpers for the marshalling layer.
//
// # Backends
//
//	Arena     Pure-Go contiguous slab with a bump allocator. Addresses start at a
//	          non-zero base so that 0 keeps meaning NULL. Used by tests, tools and any
//	          caller that wants the exact byte image of a structure without cgo.
//	Wrapper   Adapter from a wazero api.Memory (wasm32 linear memory).
//	cmem.Heap The process C heap (subpackage cmem, requires cgo).
//
// # Helpers
//
//	WriteCString / ReadCString   NUL-terminated strings
//	WritePtr / ReadPtr           pointer-sized values for a given data model
//	Zero                         explicit zero fill
//	AllocationList               records allocations so they can be freed together
//
// Arena and Bump are not safe for concurrent allocation. Reads and writes to
// disjoint addresses of an Arena may run concurrently with each other.
package memory
