package mpv

// Memory represents foreign memory addressed by 64-bit addresses.
// Multi-byte values are little-endian.
type Memory interface {
	Read(addr uint64, length uint64) ([]byte, error)
	Write(addr uint64, data []byte) error
	ReadU8(addr uint64) (uint8, error)
	ReadU16(addr uint64) (uint16, error)
	ReadU32(addr uint64) (uint32, error)
	ReadU64(addr uint64) (uint64, error)
	WriteU8(addr uint64, value uint8) error
	WriteU16(addr uint64, value uint16) error
	WriteU32(addr uint64, value uint32) error
	WriteU64(addr uint64, value uint64) error
}

// MemorySizer provides the current size of a memory in bytes.
type MemorySizer interface {
	Size() uint64
}

// Allocator allocates foreign memory. A zero address is never a valid allocation.
type Allocator interface {
	Alloc(size, align uint64) (uint64, error)
	Free(addr, size, align uint64)
}

// ZeroAllocator is implemented by allocators that hand out zero-filled memory,
// the way calloc does. Builders skip their own zero fill for these.
type ZeroAllocator interface {
	Allocator
	AllocZeroed(size, align uint64) (uint64, error)
}
