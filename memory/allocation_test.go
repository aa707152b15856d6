package memory

import "testing"

type recordingAllocator struct {
	freed []uint64
}

func (r *recordingAllocator) Alloc(size, align uint64) (uint64, error) { return 0x100, nil }
func (r *recordingAllocator) Free(addr, size, align uint64)            { r.freed = append(r.freed, addr) }

func TestAllocationList_FreeReverseOrder(t *testing.T) {
	list := NewAllocationList()
	defer list.Release()

	list.Add(0x10, 4, 1)
	list.Add(0, 8, 8) // NULL entries are skipped
	list.Add(0x20, 8, 8)

	if list.Count() != 3 {
		t.Fatalf("Count = %d, want 3", list.Count())
	}
	if list.Bytes() != 20 {
		t.Errorf("Bytes = %d, want 20", list.Bytes())
	}

	rec := &recordingAllocator{}
	list.Free(rec)

	if len(rec.freed) != 2 || rec.freed[0] != 0x20 || rec.freed[1] != 0x10 {
		t.Errorf("freed = %x, want [20 10]", rec.freed)
	}
	if list.Count() != 0 {
		t.Errorf("Count after Free = %d", list.Count())
	}
}

func TestAllocationList_NilSafe(t *testing.T) {
	var list *AllocationList
	list.Add(1, 1, 1)
	list.Free(&recordingAllocator{})
	if list.Count() != 0 || list.Bytes() != 0 {
		t.Error("nil list should report zero")
	}
}

func TestAllocationList_FreeAndReleaseLetsBumpReclaim(t *testing.T) {
	a := NewArena(ArenaConfig{})
	list := NewAllocationList()
	for i := 0; i < 4; i++ {
		addr, err := a.Alloc(16, 8)
		if err != nil {
			t.Fatal(err)
		}
		list.Add(addr, 16, 8)
	}
	list.FreeAndRelease(a)
	if a.Used() != 0 {
		t.Errorf("Used after FreeAndRelease = %d, want 0", a.Used())
	}
}

func TestAllocationList_ReleaseOversized(t *testing.T) {
	list := NewAllocationList()
	for i := 0; i < maxPooledAllocationCapacity+1; i++ {
		list.Add(uint64(i+1), 1, 1)
	}
	list.Release() // must not panic; oversized lists are dropped
}
