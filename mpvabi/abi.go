//go:build mpv

package mpvabi

/*
#cgo pkg-config: mpv
#include <mpv/client.h>
*/
import "C"

import (
	stderrors "errors"
	"unsafe"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory/cmem"
	"github.com/wippyai/go-mpv/node"
)

type field struct {
	name      string
	got, want uint64
}

// VerifyLayout compares the layout calculator's results for the native model
// with sizeof and offsetof taken from <mpv/client.h>.
func VerifyLayout() error {
	set := layout.Of(cmem.Native)

	var (
		n  C.mpv_node
		nl C.mpv_node_list
		ba C.mpv_byte_array
	)

	fields := []field{
		{"sizeof(mpv_node)", set.Node.Size, uint64(unsafe.Sizeof(n))},
		{"alignof(mpv_node)", set.Node.Align, uint64(unsafe.Alignof(n))},
		{"offsetof(mpv_node, u)", set.Node.Offset("u"), uint64(unsafe.Offsetof(n.u))},
		{"offsetof(mpv_node, format)", set.Node.Offset("format"), uint64(unsafe.Offsetof(n.format))},
		{"sizeof(mpv_node_list)", set.NodeList.Size, uint64(unsafe.Sizeof(nl))},
		{"alignof(mpv_node_list)", set.NodeList.Align, uint64(unsafe.Alignof(nl))},
		{"offsetof(mpv_node_list, num)", set.NodeList.Offset("num"), uint64(unsafe.Offsetof(nl.num))},
		{"offsetof(mpv_node_list, values)", set.NodeList.Offset("values"), uint64(unsafe.Offsetof(nl.values))},
		{"offsetof(mpv_node_list, keys)", set.NodeList.Offset("keys"), uint64(unsafe.Offsetof(nl.keys))},
		{"sizeof(mpv_byte_array)", set.ByteArray.Size, uint64(unsafe.Sizeof(ba))},
		{"offsetof(mpv_byte_array, data)", set.ByteArray.Offset("data"), uint64(unsafe.Offsetof(ba.data))},
		{"offsetof(mpv_byte_array, size)", set.ByteArray.Offset("size"), uint64(unsafe.Offsetof(ba.size))},
		{"sizeof(char*)", set.Handle.Size, uint64(unsafe.Sizeof((*C.char)(nil)))},
	}

	var errs []error
	for _, f := range fields {
		if f.got != f.want {
			errs = append(errs, errors.LayoutMismatch(f.name, f.got, f.want))
		}
	}
	return stderrors.Join(errs...)
}

// ClientAPIVersion returns MPV_CLIENT_API_VERSION of the linked library.
func ClientAPIVersion() (major, minor uint32) {
	v := uint64(C.mpv_client_api_version())
	return uint32(v >> 16), uint32(v & 0xFFFF)
}

// ErrorString returns libmpv's own description of code.
func ErrorString(code mpv.Error) string {
	return C.GoString(C.mpv_error_string(C.int(code)))
}

// FreeNodeContents releases the payload of an mpv_node that libmpv allocated,
// for example the result of mpv_get_property with MPV_FORMAT_NODE. The node
// itself is not freed.
func FreeNodeContents(addr uint64) {
	if addr == 0 {
		return
	}
	C.mpv_free_node_contents((*C.mpv_node)(cmem.Pointer(addr)))
}

// DecodeOwned copies a libmpv-owned node tree into Go values and then releases
// its contents with mpv_free_node_contents.
func DecodeOwned(addr uint64) (node.Node, error) {
	defer FreeNodeContents(addr)
	return node.NewDecoder(cmem.Native).Decode(addr, cmem.New())
}
