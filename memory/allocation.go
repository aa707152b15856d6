package memory

import (
	"sync"

	mpv "github.com/wippyai/go-mpv"
)

type Allocation struct {
	Addr  uint64
	Size  uint64
	Align uint64
}

// AllocationList records foreign allocations made while building one value,
// so they can be released together on error or after libmpv is done with them.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small lists to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(allocator mpv.Allocator) {
	al.Free(allocator)
	al.Release()
}

func (al *AllocationList) Add(addr, size, align uint64) {
	if al == nil {
		return
	}
	al.allocations = append(al.allocations, Allocation{
		Addr:  addr,
		Size:  size,
		Align: align,
	})
}

// Free releases the allocations in reverse order, which lets bump allocators
// reclaim the space.
func (al *AllocationList) Free(allocator mpv.Allocator) {
	if allocator == nil || al == nil {
		return
	}
	for i := len(al.allocations) - 1; i >= 0; i-- {
		a := al.allocations[i]
		if a.Addr != 0 {
			allocator.Free(a.Addr, a.Size, a.Align)
		}
	}
	al.Reset()
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	if al == nil {
		return 0
	}
	return len(al.allocations)
}

// Bytes returns the total number of bytes recorded.
func (al *AllocationList) Bytes() uint64 {
	if al == nil {
		return 0
	}
	var n uint64
	for _, a := range al.allocations {
		n += a.Size
	}
	return n
}
