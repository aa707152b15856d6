package memory

import (
	"context"
	"fmt"
	"math"

	"github.com/tetratelabs/wazero/api"
	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
)

// WrapMemory wraps a wazero api.Memory to implement mpv.Memory.
// Addresses above 4 GiB are out of bounds.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps the guest's malloc and free exports to implement mpv.Allocator.
// free may be nil, in which case Free is a no-op.
func WrapAllocator(ctx context.Context, malloc, free api.Function) *AllocatorWrapper {
	if malloc == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Malloc: malloc, FreeFn: free}
}

// Wrapper adapts wazero api.Memory to the mpv.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

var (
	_ mpv.Memory      = (*Wrapper)(nil)
	_ mpv.MemorySizer = (*Wrapper)(nil)
)

func offset32(addr uint64, length uint64) (uint32, error) {
	if addr > math.MaxUint32 || length > math.MaxUint32 {
		return 0, errors.AddressOutOfBounds(errors.PhaseMemory, addr, length)
	}
	return uint32(addr), nil
}

// Size returns the current linear memory size in bytes.
func (m *Wrapper) Size() uint64 {
	return uint64(m.Mem.Size())
}

// Read reads bytes from memory.
func (m *Wrapper) Read(addr uint64, length uint64) ([]byte, error) {
	off, err := offset32(addr, length)
	if err != nil {
		return nil, err
	}
	data, ok := m.Mem.Read(off, uint32(length))
	if !ok {
		return nil, errors.AddressOutOfBounds(errors.PhaseMemory, addr, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(addr uint64, data []byte) error {
	off, err := offset32(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	if !m.Mem.Write(off, data) {
		return errors.AddressOutOfBounds(errors.PhaseMemory, addr, uint64(len(data)))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(addr uint64) (uint8, error) {
	off, err := offset32(addr, 1)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadByte(off)
	if !ok {
		return 0, errors.AddressOutOfBounds(errors.PhaseMemory, addr, 1)
	}
	return v, nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Wrapper) ReadU16(addr uint64) (uint16, error) {
	off, err := offset32(addr, 2)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint16Le(off)
	if !ok {
		return 0, errors.AddressOutOfBounds(errors.PhaseMemory, addr, 2)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(addr uint64) (uint32, error) {
	off, err := offset32(addr, 4)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint32Le(off)
	if !ok {
		return 0, errors.AddressOutOfBounds(errors.PhaseMemory, addr, 4)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Wrapper) ReadU64(addr uint64) (uint64, error) {
	off, err := offset32(addr, 8)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint64Le(off)
	if !ok {
		return 0, errors.AddressOutOfBounds(errors.PhaseMemory, addr, 8)
	}
	return v, nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(addr uint64, value uint8) error {
	off, err := offset32(addr, 1)
	if err != nil {
		return err
	}
	if !m.Mem.WriteByte(off, value) {
		return errors.AddressOutOfBounds(errors.PhaseMemory, addr, 1)
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Wrapper) WriteU16(addr uint64, value uint16) error {
	off, err := offset32(addr, 2)
	if err != nil {
		return err
	}
	if !m.Mem.WriteUint16Le(off, value) {
		return errors.AddressOutOfBounds(errors.PhaseMemory, addr, 2)
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(addr uint64, value uint32) error {
	off, err := offset32(addr, 4)
	if err != nil {
		return err
	}
	if !m.Mem.WriteUint32Le(off, value) {
		return errors.AddressOutOfBounds(errors.PhaseMemory, addr, 4)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wrapper) WriteU64(addr uint64, value uint64) error {
	off, err := offset32(addr, 8)
	if err != nil {
		return err
	}
	if !m.Mem.WriteUint64Le(off, value) {
		return errors.AddressOutOfBounds(errors.PhaseMemory, addr, 8)
	}
	return nil
}

// AllocatorWrapper adapts a guest's malloc/free exports to mpv.Allocator.
type AllocatorWrapper struct {
	Ctx    context.Context
	Malloc api.Function
	FreeFn api.Function
}

var _ mpv.Allocator = (*AllocatorWrapper)(nil)

// guestMallocAlign is the alignment wasi-libc's malloc guarantees.
const guestMallocAlign = 16

// Alloc allocates memory by calling the guest's malloc.
func (a *AllocatorWrapper) Alloc(size, align uint64) (uint64, error) {
	if align > guestMallocAlign {
		return 0, errors.Unsupported(errors.PhaseAlloc, fmt.Sprintf("guest malloc cannot align to %d", align))
	}
	if size > math.MaxUint32 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	results, err := a.Malloc.Call(a.Ctx, size)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, err, "guest malloc")
	}
	if len(results) == 0 {
		return 0, errors.InvalidData(errors.PhaseAlloc, nil, "guest malloc returned no result")
	}
	ptr := uint64(uint32(results[0]))
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	return ptr, nil
}

// Free releases memory by calling the guest's free.
func (a *AllocatorWrapper) Free(addr, size, align uint64) {
	if a.FreeFn == nil || addr == 0 {
		return
	}
	_, _ = a.FreeFn.Call(a.Ctx, addr)
}
