package memory

import (
	"encoding/binary"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"go.uber.org/zap"
)

// ArenaConfig sizes an Arena.
type ArenaConfig struct {
	// Base is the address of the first byte. Must be non-zero.
	Base uint64
	// InitialSize is the slab size allocated up front.
	InitialSize uint64
	// MaxSize caps growth; allocations beyond it fail.
	MaxSize uint64
}

// DefaultArenaConfig returns a 64 KiB based arena growing up to 64 MiB.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		Base:        0x10000,
		InitialSize: 4 << 10,
		MaxSize:     64 << 20,
	}
}

// Arena is foreign memory backed by one contiguous Go byte slice.
type Arena struct {
	bump *Bump
	data []byte
	base uint64
	max  uint64
}

var (
	_ mpv.Memory        = (*Arena)(nil)
	_ mpv.ZeroAllocator = (*Arena)(nil)
	_ mpv.MemorySizer   = (*Arena)(nil)
)

// NewArena creates an arena. Zero fields of cfg take their defaults.
func NewArena(cfg ArenaConfig) *Arena {
	def := DefaultArenaConfig()
	if cfg.Base == 0 {
		cfg.Base = def.Base
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.InitialSize == 0 {
		cfg.InitialSize = def.InitialSize
	}
	if cfg.InitialSize > cfg.MaxSize {
		cfg.InitialSize = cfg.MaxSize
	}
	return &Arena{
		bump: NewBump(cfg.Base, cfg.Base+cfg.MaxSize),
		data: make([]byte, cfg.InitialSize),
		base: cfg.Base,
		max:  cfg.MaxSize,
	}
}

// Base returns the address of the first arena byte.
func (a *Arena) Base() uint64 {
	return a.base
}

// Size returns the current slab size in bytes.
func (a *Arena) Size() uint64 {
	return uint64(len(a.data))
}

// Used returns the number of bytes handed out since the last Reset.
func (a *Arena) Used() uint64 {
	return a.bump.Used()
}

// Live returns the number of allocated bytes not yet freed.
func (a *Arena) Live() uint64 {
	return a.bump.Live()
}

// Reset releases every allocation at once. Previously returned addresses stay
// readable until they are handed out again.
func (a *Arena) Reset() {
	a.bump.Reset()
}

func (a *Arena) Alloc(size, align uint64) (uint64, error) {
	addr, err := a.bump.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	if err := a.grow(addr - a.base + size); err != nil {
		a.bump.Free(addr, size, align)
		return 0, err
	}
	Logger().Debug("arena alloc",
		zap.Uint64("addr", addr),
		zap.Uint64("size", size),
		zap.Uint64("align", align))
	return addr, nil
}

// AllocZeroed allocates like calloc. Space reclaimed by Free or Reset is cleared again.
func (a *Arena) AllocZeroed(size, align uint64) (uint64, error) {
	addr, err := a.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	off := addr - a.base
	clear(a.data[off : off+size])
	return addr, nil
}

func (a *Arena) Free(addr, size, align uint64) {
	a.bump.Free(addr, size, align)
}

func (a *Arena) grow(need uint64) error {
	if need <= uint64(len(a.data)) {
		return nil
	}
	if need > a.max {
		return errors.AllocationFailed(errors.PhaseAlloc, need-uint64(len(a.data)), 1)
	}
	newLen := uint64(len(a.data)) * 2
	if newLen < need {
		newLen = need
	}
	if newLen > a.max {
		newLen = a.max
	}
	grown := make([]byte, newLen)
	copy(grown, a.data)
	a.data = grown
	return nil
}

// slice returns the arena bytes for [addr, addr+length).
func (a *Arena) slice(addr, length uint64) ([]byte, error) {
	if addr < a.base {
		return nil, errors.AddressOutOfBounds(errors.PhaseMemory, addr, length)
	}
	off := addr - a.base
	end := off + length
	if end < off || end > uint64(len(a.data)) {
		return nil, errors.AddressOutOfBounds(errors.PhaseMemory, addr, length)
	}
	return a.data[off:end:end], nil
}

// Read returns a view of arena memory. It is invalidated by allocations that grow the arena.
func (a *Arena) Read(addr uint64, length uint64) ([]byte, error) {
	return a.slice(addr, length)
}

func (a *Arena) Write(addr uint64, data []byte) error {
	b, err := a.slice(addr, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (a *Arena) ReadU8(addr uint64) (uint8, error) {
	b, err := a.slice(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (a *Arena) ReadU16(addr uint64) (uint16, error) {
	b, err := a.slice(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (a *Arena) ReadU32(addr uint64) (uint32, error) {
	b, err := a.slice(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (a *Arena) ReadU64(addr uint64) (uint64, error) {
	b, err := a.slice(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (a *Arena) WriteU8(addr uint64, value uint8) error {
	b, err := a.slice(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (a *Arena) WriteU16(addr uint64, value uint16) error {
	b, err := a.slice(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (a *Arena) WriteU32(addr uint64, value uint32) error {
	b, err := a.slice(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (a *Arena) WriteU64(addr uint64, value uint64) error {
	b, err := a.slice(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}
