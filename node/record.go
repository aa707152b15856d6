package node

import (
	"encoding/binary"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/layout"
)

// RecordSize is sizeof(mpv_node) in every supported model.
const RecordSize = 16

const (
	payloadOffset = 0
	formatOffset  = 8
)

// Record is the byte image of one mpv_node. The zero Record is MPV_FORMAT_NONE.
type Record [RecordSize]byte

func makeRecord(f mpv.Format, payload uint64) Record {
	var r Record
	binary.LittleEndian.PutUint64(r[payloadOffset:], payload)
	binary.LittleEndian.PutUint32(r[formatOffset:], uint32(f))
	return r
}

// Format returns the discriminant.
func (r Record) Format() mpv.Format {
	return mpv.Format(int32(binary.LittleEndian.Uint32(r[formatOffset:])))
}

// Payload returns the raw 8 bytes of the union.
func (r Record) Payload() uint64 {
	return binary.LittleEndian.Uint64(r[payloadOffset:])
}

// pointer returns the union read as a pointer of ptrSize bytes.
func (r Record) pointer(ptrSize uint64) uint64 {
	if ptrSize == 4 {
		return uint64(binary.LittleEndian.Uint32(r[payloadOffset:]))
	}
	return r.Payload()
}

// RecordCodec stores Records in buffer.Array slots.
type RecordCodec struct {
	info layout.Info
}

func NewRecordCodec(m layout.Model) RecordCodec {
	return RecordCodec{info: layout.NewCalculator(m).Calculate(layout.KindNode)}
}

func (c RecordCodec) Layout() layout.Info {
	return c.info
}

func (c RecordCodec) Store(mem mpv.Memory, addr uint64, r Record) error {
	return mem.Write(addr, r[:])
}

func (c RecordCodec) Load(mem mpv.Memory, addr uint64) (Record, error) {
	var r Record
	b, err := mem.Read(addr, RecordSize)
	if err != nil {
		return r, err
	}
	if len(b) != RecordSize {
		return r, errors.InvalidData(errors.PhaseRead, nil, "short mpv_node read")
	}
	copy(r[:], b)
	return r, nil
}

// NewRecordArray allocates n zeroed mpv_node slots (each MPV_FORMAT_NONE),
// the values array of an mpv_node_list.
func NewRecordArray(mem mpv.Memory, alloc mpv.Allocator, m layout.Model, n int) (*buffer.Array[Record], error) {
	return buffer.Make[Record](mem, alloc, NewRecordCodec(m), n)
}
