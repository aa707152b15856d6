// Package buffer builds fixed-capacity arrays in foreign memory.
//
// An Array is allocated once with exactly n zero-filled slots, written by index
// and then handed to C by its base address. The same builder serves every element
// type through a Codec:
//
//	Handle   pointer-sized string handles (char*), see NewStringArray and NewArgv
//	Record   16-byte mpv_node records, see node.NewRecordArray
//
// Ownership of the allocation passes to the caller. An Array keeps no reference
// to its allocator and never frees anything on its own.
//
// # Checked and unchecked writes
//
// Set rejects indexes outside [0, Len()) with a [write] out_of_bounds error.
// Store computes base+i*stride without looking at i, which is what a C caller
// indexing a freshly allocated array does. Memory backends that know their
// bounds (Arena, wazero) still refuse foreign addresses; the C heap does not.
package buffer
