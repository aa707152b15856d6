package memory

import (
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
	"go.uber.org/zap"
)

// Bump hands out addresses from the window [start, limit) in increasing order.
// Free reclaims space only for the most recent allocation.
type Bump struct {
	start uint64
	next  uint64
	limit uint64
	live  uint64
}

// NewBump creates an allocator over [start, limit). A zero start is moved to 1
// so that no allocation can be mistaken for NULL.
func NewBump(start, limit uint64) *Bump {
	if start == 0 {
		start = 1
	}
	return &Bump{start: start, next: start, limit: limit}
}

func (b *Bump) Alloc(size, align uint64) (uint64, error) {
	if align == 0 {
		align = 1
	}
	if !abi.IsPowerOfTwo(align) {
		return 0, errors.Unsupported(errors.PhaseAlloc, "alignment must be a power of two")
	}
	if size > abi.MaxAlloc {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}

	addr := abi.AlignTo(b.next, align)
	end, ok := abi.SafeAddU64(addr, size)
	if !ok || addr < b.next || end > b.limit {
		Logger().Debug("bump exhausted",
			zap.Uint64("size", size),
			zap.Uint64("align", align),
			zap.Uint64("next", b.next),
			zap.Uint64("limit", b.limit))
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}

	b.next = end
	b.live += size
	return addr, nil
}

func (b *Bump) Free(addr, size, align uint64) {
	if addr == 0 {
		return
	}
	if addr+size == b.next {
		b.next = addr
	}
	if size > b.live {
		b.live = 0
		return
	}
	b.live -= size
}

// Reset forgets every allocation.
func (b *Bump) Reset() {
	b.next = b.start
	b.live = 0
}

// Used returns the bytes between the window start and the next free address.
func (b *Bump) Used() uint64 {
	return b.next - b.start
}

// Live returns the bytes allocated and not yet freed.
func (b *Bump) Live() uint64 {
	return b.live
}

// Next returns the next candidate address.
func (b *Bump) Next() uint64 {
	return b.next
}
