package memory

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/go-mpv/errors"
)

var (
	errAlloc = &errors.Error{Phase: errors.PhaseAlloc, Kind: errors.KindAllocation}
	errOOB   = &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}
)

func TestArena_Defaults(t *testing.T) {
	a := NewArena(ArenaConfig{})
	def := DefaultArenaConfig()
	if a.Base() != def.Base {
		t.Errorf("Base = 0x%x, want 0x%x", a.Base(), def.Base)
	}
	if a.Size() != def.InitialSize {
		t.Errorf("Size = %d, want %d", a.Size(), def.InitialSize)
	}
	if a.Used() != 0 || a.Live() != 0 {
		t.Errorf("fresh arena: Used=%d Live=%d", a.Used(), a.Live())
	}
}

func TestArena_AllocAlignment(t *testing.T) {
	a := NewArena(ArenaConfig{Base: 0x1001, InitialSize: 64, MaxSize: 1024})

	p1, err := a.Alloc(3, 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p1 != 0x1001 {
		t.Errorf("first alloc = 0x%x, want 0x1001", p1)
	}

	p2, err := a.Alloc(8, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if p2%8 != 0 {
		t.Errorf("alloc 0x%x not 8-aligned", p2)
	}
	if p2 < p1+3 {
		t.Errorf("allocations overlap: 0x%x, 0x%x", p1, p2)
	}

	if _, err := a.Alloc(1, 3); err == nil {
		t.Error("expected error for non power of two alignment")
	}
}

func TestArena_ReadWrite(t *testing.T) {
	a := NewArena(ArenaConfig{InitialSize: 64})
	addr, err := a.Alloc(16, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	if err := a.WriteU8(addr, 0xAB); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteU16(addr+2, 0xBEEF); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteU32(addr+4, 0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteU64(addr+8, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}

	if v, _ := a.ReadU8(addr); v != 0xAB {
		t.Errorf("ReadU8 = 0x%x", v)
	}
	if v, _ := a.ReadU16(addr + 2); v != 0xBEEF {
		t.Errorf("ReadU16 = 0x%x", v)
	}
	if v, _ := a.ReadU32(addr + 4); v != 0xDEADBEEF {
		t.Errorf("ReadU32 = 0x%x", v)
	}
	if v, _ := a.ReadU64(addr + 8); v != 0x0102030405060708 {
		t.Errorf("ReadU64 = 0x%x", v)
	}

	raw, err := a.Read(addr+8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if raw[0] != 0x08 || raw[7] != 0x01 {
		t.Errorf("expected little-endian bytes, got %x", raw)
	}
}

func TestArena_OutOfBounds(t *testing.T) {
	a := NewArena(ArenaConfig{Base: 0x1000, InitialSize: 32, MaxSize: 32})

	tests := []struct {
		name string
		fn   func() error
	}{
		{"null", func() error { _, err := a.ReadU8(0); return err }},
		{"below base", func() error { return a.WriteU32(0xFFC, 1) }},
		{"past end", func() error { _, err := a.Read(0x1000+30, 4); return err }},
		{"wrap", func() error { _, err := a.Read(0x1000, ^uint64(0)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !stderrors.Is(err, errOOB) {
				t.Errorf("expected out of bounds, got %v", err)
			}
		})
	}
}

func TestArena_GrowsAndKeepsData(t *testing.T) {
	a := NewArena(ArenaConfig{InitialSize: 16, MaxSize: 1 << 16})
	first, err := a.Alloc(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.WriteU64(first, 42); err != nil {
		t.Fatal(err)
	}

	big, err := a.Alloc(4096, 8)
	if err != nil {
		t.Fatalf("Alloc after growth: %v", err)
	}
	if a.Size() < big-a.Base()+4096 {
		t.Errorf("arena did not grow: size %d", a.Size())
	}
	if v, _ := a.ReadU64(first); v != 42 {
		t.Errorf("data lost after growth: %d", v)
	}
}

func TestArena_Exhaustion(t *testing.T) {
	a := NewArena(ArenaConfig{InitialSize: 64, MaxSize: 64})
	if _, err := a.Alloc(64, 1); err != nil {
		t.Fatalf("Alloc full arena: %v", err)
	}
	_, err := a.Alloc(1, 1)
	if !stderrors.Is(err, errAlloc) {
		t.Fatalf("expected allocation failure, got %v", err)
	}
}

func TestArena_AllocZeroedAfterReuse(t *testing.T) {
	a := NewArena(ArenaConfig{InitialSize: 64})
	addr, _ := a.Alloc(8, 8)
	_ = a.WriteU64(addr, ^uint64(0))
	a.Free(addr, 8, 8)

	again, err := a.AllocZeroed(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if again != addr {
		t.Fatalf("expected reuse of freed tail, got 0x%x want 0x%x", again, addr)
	}
	if v, _ := a.ReadU64(again); v != 0 {
		t.Errorf("AllocZeroed returned dirty memory: 0x%x", v)
	}
}

func TestArena_Reset(t *testing.T) {
	a := NewArena(ArenaConfig{})
	p1, _ := a.Alloc(100, 1)
	_, _ = a.Alloc(100, 1)
	a.Reset()
	if a.Used() != 0 || a.Live() != 0 {
		t.Errorf("after Reset: Used=%d Live=%d", a.Used(), a.Live())
	}
	p2, _ := a.Alloc(1, 1)
	if p2 != p1 {
		t.Errorf("after Reset alloc = 0x%x, want 0x%x", p2, p1)
	}
}
