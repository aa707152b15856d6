package node

import (
	stderrors "errors"
	"testing"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// writeList builds an mpv_node_list by hand so tests can corrupt single fields.
func writeList(t *testing.T, a *memory.Arena, m layout.Model, num int32, values, keys uint64) uint64 {
	t.Helper()
	info := layout.Of(m).NodeList
	addr, err := a.AllocZeroed(info.Size, info.Align)
	if err != nil {
		t.Fatal(err)
	}
	_ = a.WriteU32(addr+info.Offset("num"), uint32(num))
	_ = memory.WritePtr(a, addr+info.Offset("values"), m.PtrSize, values)
	_ = memory.WritePtr(a, addr+info.Offset("keys"), m.PtrSize, keys)
	return addr
}

func TestDecoder_Errors(t *testing.T) {
	m := layout.LP64
	a := newArena()

	values, _ := NewRecordArray(a, a, m, 1)
	_ = values.Set(0, makeRecord(mpv.FormatInt64, 5))

	tests := []struct {
		name   string
		rec    Record
		limits Limits
		want   *errors.Error
	}{
		{
			name: "unknown format",
			rec:  makeRecord(mpv.Format(42), 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidFormat},
		},
		{
			name: "osd string is not a node format",
			rec:  makeRecord(mpv.FormatOsdString, 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidFormat},
		},
		{
			name: "nested node format",
			rec:  makeRecord(mpv.FormatNode, 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidFormat},
		},
		{
			name: "null string",
			rec:  makeRecord(mpv.FormatString, 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer},
		},
		{
			name: "null list",
			rec:  makeRecord(mpv.FormatNodeArray, 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer},
		},
		{
			name: "null byte array",
			rec:  makeRecord(mpv.FormatByteArray, 0),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer},
		},
		{
			name: "negative num",
			rec:  makeRecord(mpv.FormatNodeArray, writeList(t, a, m, -1, 0, 0)),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData},
		},
		{
			name: "values null with entries",
			rec:  makeRecord(mpv.FormatNodeArray, writeList(t, a, m, 1, 0, 0)),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer},
		},
		{
			name: "map without keys",
			rec:  makeRecord(mpv.FormatNodeMap, writeList(t, a, m, 1, values.Addr(), 0)),
			want: &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer},
		},
		{
			name: "array ignores keys",
			rec:  makeRecord(mpv.FormatNodeArray, writeList(t, a, m, 1, values.Addr(), 0xDEAD)),
			want: nil,
		},
		{
			name: "values outside memory",
			rec:  makeRecord(mpv.FormatNodeArray, writeList(t, a, m, 1, 0x10, 0)),
			want: &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewDecoderWithLimits(m, tt.limits).Lift(tt.rec, a)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if _, ok := n.(Array); !ok {
					t.Errorf("got %#v", n)
				}
				return
			}
			if !stderrors.Is(err, tt.want) {
				t.Errorf("got %v, want %s/%s", err, tt.want.Phase, tt.want.Kind)
			}
		})
	}
}

func TestDecoder_Limits(t *testing.T) {
	m := layout.LP64
	a := newArena()
	enc := NewEncoder(m)

	tests := []struct {
		name   string
		in     Node
		limits Limits
		want   *errors.Error
	}{
		{"depth", nest(3), Limits{MaxDepth: 2}, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindDepth}},
		{"list length", Array{None{}, None{}}, Limits{MaxListLength: 1}, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOverflow}},
		{"string length", String("abcdef"), Limits{MaxStringSize: 3}, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOverflow}},
		{"bytes length", ByteArray("abcdef"), Limits{MaxStringSize: 3}, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOverflow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := enc.Lower(tt.in, a, a, nil)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := NewDecoder(m).Lift(rec, a); err != nil {
				t.Fatalf("default limits: %v", err)
			}
			_, err = NewDecoderWithLimits(m, tt.limits).Lift(rec, a)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("got %v, want %s/%s", err, tt.want.Phase, tt.want.Kind)
			}
		})
	}
}

func TestDecoder_FlagIsNonZero(t *testing.T) {
	d := NewDecoder(layout.LP64)
	for _, raw := range []uint64{1, 2, 0xFFFFFFFF, 0xFFFFFFFF_00000001} {
		n, err := d.Lift(makeRecord(mpv.FormatFlag, raw), nil)
		if err != nil {
			t.Fatal(err)
		}
		if n != Flag(true) {
			t.Errorf("flag payload 0x%x = %v, want true", raw, n)
		}
	}
	// Only the int part of the union counts.
	n, _ := d.Lift(makeRecord(mpv.FormatFlag, 0xFFFFFFFF_00000000), nil)
	if n != Flag(false) {
		t.Errorf("upper union bytes leaked into flag: %v", n)
	}
}

func TestDecoder_DecodeNull(t *testing.T) {
	a := newArena()
	_, err := NewDecoder(layout.LP64).Decode(0, a)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNilPointer}) {
		t.Errorf("got %v", err)
	}
}

func TestDecoder_ErrorPath(t *testing.T) {
	a := newArena()
	m := layout.LP64
	rec, err := NewEncoder(m).Lower(Map{{Key: "outer", Value: Array{Int64(1), String("s")}}}, a, a, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the format of outer[1].
	info := layout.Of(m)
	listAddr := rec.Payload()
	outerValues, _ := memory.ReadPtr(a, listAddr+info.NodeList.Offset("values"), 8)
	innerList, _ := memory.ReadPtr(a, outerValues, 8)
	innerValues, _ := memory.ReadPtr(a, innerList+info.NodeList.Offset("values"), 8)
	_ = a.WriteU32(innerValues+RecordSize+formatOffset, 77)

	_, err = NewDecoder(m).Lift(rec, a)
	var se *errors.Error
	if !stderrors.As(err, &se) {
		t.Fatalf("got %v", err)
	}
	if se.Kind != errors.KindInvalidFormat || len(se.Path) != 2 || se.Path[0] != "outer" || se.Path[1] != "[1]" {
		t.Errorf("got %v (path %q)", err, se.Path)
	}
}
