package buffer

import (
	"fmt"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// Codec stores and loads one element type. Layout().Size is the slot stride.
type Codec[T any] interface {
	Layout() layout.Info
	Store(mem mpv.Memory, addr uint64, v T) error
	Load(mem mpv.Memory, addr uint64) (T, error)
}

// Array is a fixed-capacity, length-tagged run of slots in foreign memory.
type Array[T any] struct {
	mem    mpv.Memory
	codec  Codec[T]
	base   uint64
	n      int
	stride uint64
	align  uint64
}

// Make allocates n zero-filled slots.
// n == 0 yields an empty array with a NULL base and performs no allocation.
func Make[T any](mem mpv.Memory, alloc mpv.Allocator, codec Codec[T], n int) (*Array[T], error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, fmt.Sprintf("negative element count %d", n))
	}

	info := codec.Layout()
	a := &Array[T]{
		mem:    mem,
		codec:  codec,
		n:      n,
		stride: info.Size,
		align:  info.Align,
	}
	if n == 0 {
		return a, nil
	}

	size, ok := abi.SafeMulU64(uint64(n), info.Size)
	if !ok || size > abi.MaxAlloc {
		return nil, errors.New(errors.PhaseAlloc, errors.KindOverflow).
			Value(n).
			Detail("%d elements of %d bytes exceed the allocation limit", n, info.Size).
			Build()
	}

	addr, err := memory.AllocZeroed(mem, alloc, size, info.Align)
	if err != nil {
		return nil, err
	}
	a.base = addr
	return a, nil
}

// View wraps n existing slots at addr without allocating.
func View[T any](mem mpv.Memory, codec Codec[T], addr uint64, n int) *Array[T] {
	info := codec.Layout()
	return &Array[T]{
		mem:    mem,
		codec:  codec,
		base:   addr,
		n:      n,
		stride: info.Size,
		align:  info.Align,
	}
}

// Len returns the slot count fixed at creation.
func (a *Array[T]) Len() int {
	return a.n
}

// Addr returns the base address handed to C. It is 0 for empty arrays.
func (a *Array[T]) Addr() uint64 {
	return a.base
}

// Stride returns the distance in bytes between consecutive slots.
func (a *Array[T]) Stride() uint64 {
	return a.stride
}

// Slot returns the address of slot i. i is not checked.
func (a *Array[T]) Slot(i int) uint64 {
	return a.base + uint64(i)*a.stride
}

// Allocation describes the block backing the array, for freeing it later.
func (a *Array[T]) Allocation() memory.Allocation {
	return memory.Allocation{
		Addr:  a.base,
		Size:  uint64(a.n) * a.stride,
		Align: a.align,
	}
}

// Track records the backing block in list. Empty arrays are not recorded.
func (a *Array[T]) Track(list *memory.AllocationList) {
	if a.base == 0 {
		return
	}
	al := a.Allocation()
	list.Add(al.Addr, al.Size, al.Align)
}

// Set writes v into slot i, failing for i outside [0, Len()).
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= a.n {
		return errors.OutOfBounds(errors.PhaseWrite, nil, i, a.n)
	}
	return a.Store(i, v)
}

// Store writes v into slot i without an index check.
func (a *Array[T]) Store(i int, v T) error {
	return a.codec.Store(a.mem, a.Slot(i), v)
}

// Get reads slot i.
func (a *Array[T]) Get(i int) (T, error) {
	if i < 0 || i >= a.n {
		var zero T
		return zero, errors.OutOfBounds(errors.PhaseRead, nil, i, a.n)
	}
	return a.codec.Load(a.mem, a.Slot(i))
}

// Values reads every slot in order.
func (a *Array[T]) Values() ([]T, error) {
	out := make([]T, a.n)
	for i := range out {
		v, err := a.codec.Load(a.mem, a.Slot(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
