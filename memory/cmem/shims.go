//go:build cgo

package cmem

import (
	"unsafe"

	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/memory"
	"github.com/wippyai/go-mpv/node"
)

var heap = New()

// MakeStringArray allocates a zeroed char*[n] on the C heap.
// n == 0 returns nil without allocating.
func MakeStringArray(n int) (unsafe.Pointer, error) {
	arr, err := buffer.NewStringArray(heap, heap, Native, n)
	if err != nil {
		return nil, err
	}
	return Pointer(arr.Addr()), nil
}

// SetString stores value in arr[i]. i is not checked, and a NULL arr panics
// like any nil dereference.
func SetString(arr unsafe.Pointer, i int, value unsafe.Pointer) {
	unsafe.Slice((*unsafe.Pointer)(arr), i+1)[i] = value
}

// MakeNodeList allocates a zeroed mpv_node[n], every element MPV_FORMAT_NONE.
// n == 0 returns nil without allocating.
func MakeNodeList(n int) (unsafe.Pointer, error) {
	arr, err := node.NewRecordArray(heap, heap, Native, n)
	if err != nil {
		return nil, err
	}
	return Pointer(arr.Addr()), nil
}

// SetNodeListElement copies rec into values[i]. i is not checked, and a NULL
// values panics like any nil dereference.
func SetNodeListElement(values unsafe.Pointer, i int, rec node.Record) {
	unsafe.Slice((*node.Record)(values), i+1)[i] = rec
}

// CString copies s to the C heap. Release it with Free.
func CString(s string) (unsafe.Pointer, error) {
	addr, err := memory.WriteCString(heap, heap, nil, s)
	if err != nil {
		return nil, err
	}
	return Pointer(addr), nil
}

// GoString copies a NUL-terminated C string into Go memory.
func GoString(p unsafe.Pointer) (string, error) {
	return memory.ReadCString(heap, Addr(p), 0)
}

// Free releases memory returned by the functions of this package.
func Free(p unsafe.Pointer) {
	heap.Free(Addr(p), 0, 0)
}
