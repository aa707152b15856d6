// Package layout computes the C memory layout of the libmpv client structures.
//
// libmpv passes three structures by address across the client API:
//
//	struct mpv_node        { union { char*; int; int64_t; double; mpv_node_list*; mpv_byte_array*; } u; mpv_format format; }
//	struct mpv_node_list   { int num; mpv_node *values; char **keys; }
//	struct mpv_byte_array  { void *data; size_t size; }
//
// Sizes and offsets depend on the data model of the target. Two models are provided:
//
//	Model    ptr  int  size_t  mpv_node  mpv_node_list  mpv_byte_array
//	──────────────────────────────────────────────────────────────────
//	LP64     8    4    8       16/8      24/8           16/8
//	Wasm32   4    4    4       16/8      12/4           8/4
//
// The rules are the ones a C compiler applies: struct members are placed in
// declaration order at their natural alignment, a union is as large as its largest
// member, and every aggregate is padded to a multiple of its alignment.
//
// # Usage
//
//	set := layout.Of(layout.LP64)
//	set.Node.Size                // 16
//	set.Node.FieldOffs["format"] // 8
package layout
