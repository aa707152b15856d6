//go:build cgo

package cmem

import (
	stderrors "errors"
	"testing"
	"unsafe"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/memory"
	"github.com/wippyai/go-mpv/node"
)

func TestHeap_AllocReadWrite(t *testing.T) {
	h := New()
	addr, err := h.Alloc(32, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Free(addr, 32, 8)

	raw, _ := h.Read(addr, 32)
	for i, b := range raw {
		if b != 0 {
			t.Fatalf("byte %d = 0x%x, calloc memory must be zero", i, b)
		}
	}

	_ = h.WriteU8(addr, 1)
	_ = h.WriteU16(addr+2, 0x0203)
	_ = h.WriteU32(addr+4, 0x04050607)
	_ = h.WriteU64(addr+8, 0x08090A0B0C0D0E0F)
	_ = h.Write(addr+16, []byte("mpv"))

	if v, _ := h.ReadU8(addr); v != 1 {
		t.Errorf("ReadU8 = %d", v)
	}
	if v, _ := h.ReadU16(addr + 2); v != 0x0203 {
		t.Errorf("ReadU16 = 0x%x", v)
	}
	if v, _ := h.ReadU32(addr + 4); v != 0x04050607 {
		t.Errorf("ReadU32 = 0x%x", v)
	}
	if v, _ := h.ReadU64(addr + 8); v != 0x08090A0B0C0D0E0F {
		t.Errorf("ReadU64 = 0x%x", v)
	}
	if b, _ := h.Read(addr+16, 3); string(b) != "mpv" {
		t.Errorf("Read = %q", b)
	}
}

func TestHeap_Errors(t *testing.T) {
	h := New()
	if _, err := h.ReadU32(0); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}) {
		t.Errorf("NULL read: %v", err)
	}
	if _, err := h.Alloc(8, 64); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAlloc, Kind: errors.KindUnsupported}) {
		t.Errorf("over-aligned: %v", err)
	}
	h.Free(0, 0, 0)
}

func TestHeap_ZeroSizeIsNotNull(t *testing.T) {
	h := New()
	addr, err := h.Alloc(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if addr == 0 {
		t.Error("zero-size allocation returned NULL")
	}
	h.Free(addr, 0, 1)
}

func TestHeap_ReadCString(t *testing.T) {
	p, err := CString("hello")
	if err != nil {
		t.Fatal(err)
	}
	defer Free(p)

	s, err := GoString(p)
	if err != nil || s != "hello" {
		t.Errorf("GoString = %q, %v", s, err)
	}
	if _, err := New().ReadCString(Addr(p), 3); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOverflow}) {
		t.Errorf("limit: %v", err)
	}
	if _, err := GoString(nil); err == nil {
		t.Error("expected error for NULL")
	}
}

func TestMakeStringArray(t *testing.T) {
	arr, err := MakeStringArray(3)
	if err != nil {
		t.Fatal(err)
	}
	defer Free(arr)

	a, _ := CString("a")
	b, _ := CString("b")
	defer Free(a)
	defer Free(b)

	SetString(arr, 0, a)
	SetString(arr, 2, b)

	slots := unsafe.Slice((*unsafe.Pointer)(arr), 3)
	if slots[0] != a || slots[2] != b {
		t.Errorf("slots = %v, want [%p _ %p]", slots, a, b)
	}
	if slots[1] != nil {
		t.Errorf("slot 1 = %p, want NULL", slots[1])
	}

	got := []string{}
	for _, p := range []unsafe.Pointer{slots[0], slots[2]} {
		s, _ := GoString(p)
		got = append(got, s)
	}
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("strings = %q", got)
	}
}

func TestMakeStringArray_Empty(t *testing.T) {
	arr, err := MakeStringArray(0)
	if err != nil || arr != nil {
		t.Errorf("MakeStringArray(0) = %p, %v; want nil, nil", arr, err)
	}
	if _, err := MakeStringArray(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestSetters_NullBasePanics(t *testing.T) {
	tests := []struct {
		name string
		set  func()
	}{
		{"SetString", func() { SetString(nil, 0, nil) }},
		{"SetNodeListElement", func() { SetNodeListElement(nil, 0, node.Record{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("write through a NULL base should panic")
				}
			}()
			tt.set()
		})
	}
}

func TestMakeNodeList(t *testing.T) {
	values, err := MakeNodeList(2)
	if err != nil {
		t.Fatal(err)
	}
	defer Free(values)

	recs := unsafe.Slice((*node.Record)(values), 2)
	for i, r := range recs {
		if r.Format() != mpv.FormatNone {
			t.Fatalf("slot %d format %v before any write", i, r.Format())
		}
	}

	h := New()
	list := memory.NewAllocationList()
	defer list.FreeAndRelease(h)
	enc := node.NewEncoder(Native)

	r0, err := enc.Lower(node.Int64(42), h, h, list)
	if err != nil {
		t.Fatal(err)
	}
	r1, err := enc.Lower(node.String("x"), h, h, list)
	if err != nil {
		t.Fatal(err)
	}
	SetNodeListElement(values, 0, r0)
	SetNodeListElement(values, 1, r1)

	if recs[0] != r0 || recs[1] != r1 {
		t.Fatal("records not copied by value")
	}

	dec := node.NewDecoder(Native)
	n0, err := dec.Lift(recs[0], h)
	if err != nil || n0 != node.Int64(42) {
		t.Errorf("slot 0 = %#v, %v", n0, err)
	}
	n1, err := dec.Lift(recs[1], h)
	if err != nil || n1 != node.String("x") {
		t.Errorf("slot 1 = %#v, %v", n1, err)
	}
}

func TestHeap_Argv(t *testing.T) {
	h := New()
	list := memory.NewAllocationList()
	defer list.FreeAndRelease(h)

	argv, err := buffer.NewArgv(h, h, Native, list, []string{"loadfile", "a.mkv"})
	if err != nil {
		t.Fatal(err)
	}
	slots := unsafe.Slice((*unsafe.Pointer)(Pointer(argv.Addr())), 3)
	if slots[2] != nil {
		t.Error("argv is not NULL terminated")
	}
	got, err := buffer.ReadArgv(h, Native, argv.Addr())
	if err != nil || len(got) != 2 || got[0] != "loadfile" || got[1] != "a.mkv" {
		t.Errorf("ReadArgv = %q, %v", got, err)
	}
}

func TestHeap_NodeTreeRoundTrip(t *testing.T) {
	h := New()
	list := memory.NewAllocationList()
	defer list.FreeAndRelease(h)

	in := node.Map{
		{Key: "filename", Value: node.String("/tmp/a.mkv")},
		{Key: "options", Value: node.Map{{Key: "start", Value: node.Double(12.5)}}},
		{Key: "tracks", Value: node.Array{node.Int64(1), node.Flag(true)}},
		{Key: "thumb", Value: node.ByteArray{1, 2, 3}},
	}
	addr, err := node.NewEncoder(Native).EncodeNew(in, h, h, list)
	if err != nil {
		t.Fatal(err)
	}
	out, err := node.NewDecoder(Native).Decode(addr, h)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := out.(node.Map)
	if !ok || len(m) != 4 {
		t.Fatalf("got %#v", out)
	}
	if got := m.Keys(); got[0] != "filename" || got[3] != "thumb" {
		t.Errorf("keys = %v", got)
	}
}
