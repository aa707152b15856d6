// Package mpv provides the marshalling layer between Go and the libmpv client API.
//
// libmpv exchanges data with its clients through two raw array shapes: NULL-terminated
// vectors of C strings (command arguments, node-map keys) and contiguous arrays of
// mpv_node tagged unions (node lists). This module builds those arrays in foreign memory
// with the exact byte layout libmpv expects, and reads them back.
//
// # Architecture Overview
//
//	mpv/                 Root package with Memory and Allocator interfaces, Format and Error codes
//	├── buffer/          Generic fixed-capacity array builder (string handles, node records)
//	├── node/            mpv_node sum type and its encoder/decoder
//	├── layout/          C struct layout of mpv_node, mpv_node_list, mpv_byte_array
//	├── memory/          Arena, bump allocator, wazero adapters, C string helpers
//	│   └── cmem/        C heap backend and raw pointer shims (cgo)
//	├── mpvabi/          Layout verification against <mpv/client.h> (cgo, build tag mpv)
//	├── errors/          Structured error types
//	└── cmd/nodedump/    Inspect encoded nodes from the command line
//
// # Quick Start
//
// Build a node and lower it into C memory:
//
//	heap := cmem.New()
//	list := memory.NewAllocationList()
//	defer list.Release()
//
//	enc := node.NewEncoder(layout.LP64)
//	addr, err := enc.EncodeNew(node.Map{{Key: "name", Value: node.String("loadfile")}}, heap, heap, list)
//	if err != nil {
//	    list.Free(heap)
//	    return err
//	}
//	// pass cmem.Pointer(addr) to mpv_command_node
//
// Build a command vector:
//
//	argv, err := buffer.NewArgv(heap, heap, layout.LP64, list, []string{"loadfile", path})
//	// pass cmem.Pointer(argv.Addr()) to mpv_command
//
// # Ownership
//
// Arrays and nested payloads are allocated through the caller's Allocator and recorded in
// an AllocationList. Nothing is released implicitly: after handing an address to libmpv the
// caller decides, per API, whether to free the list or leave the memory to libmpv.
package mpv
