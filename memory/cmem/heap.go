package cmem

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// mallocAlign is the alignment calloc guarantees on the supported hosts.
const mallocAlign = 16

// Native is the data model of the running process.
var Native = nativeModel()

func nativeModel() layout.Model {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return layout.LP64
	}
	return layout.Wasm32
}

// Heap is the process C heap. The zero value is ready to use and safe for
// concurrent use.
type Heap struct{}

var (
	_ mpv.Memory           = (*Heap)(nil)
	_ mpv.ZeroAllocator    = (*Heap)(nil)
	_ memory.CStringReader = (*Heap)(nil)
)

func New() *Heap {
	return &Heap{}
}

// Pointer converts an address returned by Heap back into a pointer.
func Pointer(addr uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(addr))
}

// Addr converts a C pointer into a Heap address.
func Addr(p unsafe.Pointer) uint64 {
	return uint64(uintptr(p))
}

// Alloc allocates zero-filled memory; calloc never hands out dirty bytes.
func (h *Heap) Alloc(size, align uint64) (uint64, error) {
	return h.AllocZeroed(size, align)
}

func (h *Heap) AllocZeroed(size, align uint64) (uint64, error) {
	if align > mallocAlign {
		return 0, errors.Unsupported(errors.PhaseAlloc, fmt.Sprintf("calloc cannot align to %d", align))
	}
	if uint64(C.size_t(size)) != size {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	// calloc(1, 0) may return NULL, which would read as failure.
	n := max(size, 1)
	p := C.calloc(1, C.size_t(n))
	if p == nil {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	return Addr(p), nil
}

func (h *Heap) Free(addr, size, align uint64) {
	if addr == 0 {
		return
	}
	C.free(Pointer(addr))
}

func (h *Heap) bytes(addr, length uint64) ([]byte, error) {
	if addr == 0 {
		return nil, errors.AddressOutOfBounds(errors.PhaseMemory, addr, length)
	}
	if length == 0 {
		return []byte{}, nil
	}
	return unsafe.Slice((*byte)(Pointer(addr)), length), nil
}

// Read copies length bytes out of the C heap.
func (h *Heap) Read(addr uint64, length uint64) ([]byte, error) {
	b, err := h.bytes(addr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (h *Heap) Write(addr uint64, data []byte) error {
	b, err := h.bytes(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (h *Heap) ReadU8(addr uint64) (uint8, error) {
	b, err := h.bytes(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (h *Heap) ReadU16(addr uint64) (uint16, error) {
	b, err := h.bytes(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (h *Heap) ReadU32(addr uint64) (uint32, error) {
	b, err := h.bytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (h *Heap) ReadU64(addr uint64) (uint64, error) {
	b, err := h.bytes(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (h *Heap) WriteU8(addr uint64, value uint8) error {
	b, err := h.bytes(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (h *Heap) WriteU16(addr uint64, value uint16) error {
	b, err := h.bytes(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (h *Heap) WriteU32(addr uint64, value uint32) error {
	b, err := h.bytes(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (h *Heap) WriteU64(addr uint64, value uint64) error {
	b, err := h.bytes(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

// ReadCString reads a C string with strnlen, never touching bytes past the terminator.
func (h *Heap) ReadCString(addr, limit uint64) (string, error) {
	if addr == 0 {
		return "", errors.NilPointer(errors.PhaseDecode, nil, mpv.FormatString.String())
	}
	p := (*C.char)(Pointer(addr))
	n := uint64(C.strnlen(p, C.size_t(limit)))
	if n == limit {
		return "", errors.Overflow(errors.PhaseDecode, nil, limit, "string limit")
	}
	return C.GoStringN(p, C.int(n)), nil
}
