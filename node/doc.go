// Package node converts between Go values and mpv_node trees in foreign memory.
//
// # Value model
//
// Node is a closed sum type with one variant per format an mpv_node can carry:
//
//	None       MPV_FORMAT_NONE
//	String     MPV_FORMAT_STRING        char*
//	Flag       MPV_FORMAT_FLAG          int, decoded as != 0
//	Int64      MPV_FORMAT_INT64         int64_t
//	Double     MPV_FORMAT_DOUBLE        double
//	Array      MPV_FORMAT_NODE_ARRAY    mpv_node_list*, keys NULL
//	Map        MPV_FORMAT_NODE_MAP      mpv_node_list*, keys in insertion order
//	ByteArray  MPV_FORMAT_BYTE_ARRAY    mpv_byte_array*
//
// # Records
//
// Record holds the exact 16 bytes of one mpv_node: the payload union at offset 0
// and the format at offset 8. The size is the same for 64-bit hosts and wasm32.
// NewRecordArray builds the values array of an mpv_node_list on top of
// buffer.Array.
//
// # Encoding
//
//	enc := node.NewEncoder(layout.LP64)
//	list := memory.NewAllocationList()
//	defer list.FreeAndRelease(alloc)
//	rec, err := enc.Lower(node.Map{{Key: "pause", Value: node.Flag(true)}}, mem, alloc, list)
//
// Every allocation made for nested payloads is recorded in list. On error
// nothing is freed; the caller releases list.
//
// # Decoding
//
// Decoder.Lift and Decoder.Decode read records written by the encoder or by
// libmpv. Strings are copied into Go memory, so the foreign tree can be freed
// right after decoding.
package node
