//go:build mpv

package mpvabi

/*
#include <mpv/client.h>
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/go-mpv/memory/cmem"
)

// readNodeList reads num and the int64 payload of values[1] through the C
// definitions. Test files cannot use cgo, so it lives here.
func readNodeList(addr uint64) (int, int64) {
	l := (*C.mpv_node_list)(cmem.Pointer(addr))
	values := unsafe.Slice(l.values, int(l.num))
	if len(values) < 2 {
		return int(l.num), 0
	}
	return int(l.num), *(*int64)(unsafe.Pointer(&values[1].u))
}
