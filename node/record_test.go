package node

import (
	"testing"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

var models = []layout.Model{layout.LP64, layout.Wasm32}

func newArena() *memory.Arena {
	return memory.NewArena(memory.ArenaConfig{})
}

func TestRecord_MatchesLayout(t *testing.T) {
	for _, m := range models {
		t.Run(m.Name, func(t *testing.T) {
			info := layout.Of(m).Node
			if info.Size != RecordSize {
				t.Errorf("sizeof(mpv_node) = %d, want %d", info.Size, RecordSize)
			}
			if info.Offset("u") != payloadOffset {
				t.Errorf("offsetof(u) = %d, want %d", info.Offset("u"), payloadOffset)
			}
			if info.Offset("format") != formatOffset {
				t.Errorf("offsetof(format) = %d, want %d", info.Offset("format"), formatOffset)
			}
		})
	}
}

func TestRecord_Bytes(t *testing.T) {
	r := makeRecord(mpv.FormatInt64, 42)
	want := Record{0x2a, 0, 0, 0, 0, 0, 0, 0, 0x04, 0, 0, 0, 0, 0, 0, 0}
	if r != want {
		t.Errorf("record = % x, want % x", r, want)
	}
	if r.Format() != mpv.FormatInt64 || r.Payload() != 42 {
		t.Errorf("Format=%v Payload=%d", r.Format(), r.Payload())
	}

	var zero Record
	if zero.Format() != mpv.FormatNone {
		t.Errorf("zero record format = %v", zero.Format())
	}
}

func TestRecord_PointerWidth(t *testing.T) {
	r := makeRecord(mpv.FormatString, 0xFFFFFFFF_00001234)
	if got := r.pointer(4); got != 0x1234 {
		t.Errorf("pointer(4) = 0x%x, want 0x1234", got)
	}
	if got := r.pointer(8); got != 0xFFFFFFFF_00001234 {
		t.Errorf("pointer(8) = 0x%x", got)
	}
}

func TestNewRecordArray_SlotsAreNone(t *testing.T) {
	for _, m := range models {
		for _, n := range []int{0, 1, 5, 300} {
			a := newArena()
			arr, err := NewRecordArray(a, a, m, n)
			if err != nil {
				t.Fatal(err)
			}
			if arr.Len() != n {
				t.Fatalf("Len = %d, want %d", arr.Len(), n)
			}
			if n == 0 && arr.Addr() != 0 {
				t.Errorf("empty record array has base 0x%x", arr.Addr())
			}
			values, err := arr.Values()
			if err != nil {
				t.Fatal(err)
			}
			for i, r := range values {
				if r != (Record{}) || r.Format() != mpv.FormatNone {
					t.Fatalf("%s/%d: slot %d = % x", m.Name, n, i, r)
				}
			}
		}
	}
}

func TestNewRecordArray_IntegerAndString(t *testing.T) {
	for _, m := range models {
		t.Run(m.Name, func(t *testing.T) {
			a := newArena()
			list := memory.NewAllocationList()
			defer list.FreeAndRelease(a)
			enc := NewEncoder(m)
			dec := NewDecoder(m)

			arr, err := NewRecordArray(a, a, m, 2)
			if err != nil {
				t.Fatal(err)
			}
			arr.Track(list)

			r0, err := enc.Lower(Int64(42), a, a, list)
			if err != nil {
				t.Fatal(err)
			}
			r1, err := enc.Lower(String("x"), a, a, list)
			if err != nil {
				t.Fatal(err)
			}
			if err := arr.Set(0, r0); err != nil {
				t.Fatal(err)
			}
			if err := arr.Set(1, r1); err != nil {
				t.Fatal(err)
			}

			got0, _ := arr.Get(0)
			got1, _ := arr.Get(1)
			if got0 != r0 || got1 != r1 {
				t.Fatalf("records changed: % x / % x", got0, got1)
			}
			if got0.Format() != mpv.FormatInt64 || got0.Payload() != 42 {
				t.Errorf("slot 0: format %v payload %d", got0.Format(), got0.Payload())
			}
			if got1.Format() != mpv.FormatString {
				t.Errorf("slot 1: format %v", got1.Format())
			}

			n0, err := dec.Lift(got0, a)
			if err != nil || n0 != Int64(42) {
				t.Errorf("slot 0 = %#v, %v", n0, err)
			}
			n1, err := dec.Lift(got1, a)
			if err != nil || n1 != String("x") {
				t.Errorf("slot 1 = %#v, %v", n1, err)
			}
		})
	}
}
