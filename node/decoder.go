package node

import (
	"math"
	"strconv"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// listPrealloc caps the capacity reserved up front for a decoded list, so a
// corrupt num does not translate into a huge Go allocation.
const listPrealloc = 1024

// Decoder lifts mpv_node trees out of foreign memory. It is safe for concurrent use.
type Decoder struct {
	set    layout.Set
	limits Limits
}

func NewDecoder(m layout.Model) *Decoder {
	return NewDecoderWithLimits(m, DefaultLimits())
}

func NewDecoderWithLimits(m layout.Model, l Limits) *Decoder {
	return &Decoder{set: layout.Of(m), limits: l.withDefaults()}
}

// Lift decodes the tree described by r.
func (d *Decoder) Lift(r Record, mem mpv.Memory) (Node, error) {
	return d.lift(r, mem, nil, 0)
}

// Decode reads the mpv_node at addr and decodes it.
func (d *Decoder) Decode(addr uint64, mem mpv.Memory) (Node, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, mpv.FormatNode.String())
	}
	r, err := NewRecordCodec(d.set.Model).Load(mem, addr)
	if err != nil {
		return nil, err
	}
	return d.lift(r, mem, nil, 0)
}

func (d *Decoder) lift(r Record, mem mpv.Memory, path []string, depth int) (Node, error) {
	f := r.Format()
	ptr := d.set.Model.PtrSize

	switch f {
	case mpv.FormatNone:
		return None{}, nil

	case mpv.FormatString:
		s, err := d.liftString(r.pointer(ptr), mem, path, f)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case mpv.FormatFlag:
		return Flag(int32(uint32(r.Payload())) != 0), nil

	case mpv.FormatInt64:
		return Int64(int64(r.Payload())), nil

	case mpv.FormatDouble:
		return Double(math.Float64frombits(r.Payload())), nil

	case mpv.FormatNodeArray, mpv.FormatNodeMap:
		return d.liftList(r.pointer(ptr), f == mpv.FormatNodeMap, mem, path, depth)

	case mpv.FormatByteArray:
		return d.liftBytes(r.pointer(ptr), mem, path)
	}

	return nil, errors.InvalidFormat(errors.PhaseDecode, path, int32(f))
}

func (d *Decoder) liftString(addr uint64, mem mpv.Memory, path []string, f mpv.Format) (string, error) {
	if addr == 0 {
		return "", errors.NilPointer(errors.PhaseDecode, path, f.String())
	}
	s, err := memory.ReadCString(mem, addr, uint64(d.limits.MaxStringSize)+1)
	if err != nil {
		return "", withPath(err, path)
	}
	return s, nil
}

func (d *Decoder) liftList(addr uint64, isMap bool, mem mpv.Memory, path []string, depth int) (Node, error) {
	format := mpv.FormatNodeArray
	if isMap {
		format = mpv.FormatNodeMap
	}
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, path, format.String())
	}
	if depth >= d.limits.MaxDepth {
		return nil, errors.TooDeep(errors.PhaseDecode, path, d.limits.MaxDepth)
	}

	info := d.set.NodeList
	ptr := d.set.Model.PtrSize

	rawNum, err := mem.ReadU32(addr + info.Offset("num"))
	if err != nil {
		return nil, err
	}
	num := int(int32(rawNum))
	if num < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, path, "negative mpv_node_list.num "+strconv.Itoa(num))
	}
	if num > d.limits.MaxListLength {
		return nil, errors.Overflow(errors.PhaseDecode, path, num, "MaxListLength")
	}

	valuesAddr, err := memory.ReadPtr(mem, addr+info.Offset("values"), ptr)
	if err != nil {
		return nil, err
	}
	if num > 0 && valuesAddr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, childPath(path, "values"), format.String())
	}
	values := buffer.View[Record](mem, NewRecordCodec(d.set.Model), valuesAddr, num)

	if !isMap {
		out := make(Array, 0, min(num, listPrealloc))
		for i := 0; i < num; i++ {
			p := childPath(path, "["+strconv.Itoa(i)+"]")
			rec, err := values.Get(i)
			if err != nil {
				return nil, withPath(err, p)
			}
			child, err := d.lift(rec, mem, p, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	}

	keysAddr, err := memory.ReadPtr(mem, addr+info.Offset("keys"), ptr)
	if err != nil {
		return nil, err
	}
	if num > 0 && keysAddr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, childPath(path, "keys"), format.String())
	}
	keys := buffer.View[buffer.Handle](mem, buffer.NewHandleCodec(d.set.Model), keysAddr, num)

	out := make(Map, 0, min(num, listPrealloc))
	for i := 0; i < num; i++ {
		p := childPath(path, "["+strconv.Itoa(i)+"]")
		h, err := keys.Get(i)
		if err != nil {
			return nil, withPath(err, p)
		}
		key, err := d.liftString(uint64(h), mem, p, mpv.FormatString)
		if err != nil {
			return nil, err
		}
		p = childPath(path, key)
		rec, err := values.Get(i)
		if err != nil {
			return nil, withPath(err, p)
		}
		child, err := d.lift(rec, mem, p, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: key, Value: child})
	}
	return out, nil
}

func (d *Decoder) liftBytes(addr uint64, mem mpv.Memory, path []string) (Node, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, path, mpv.FormatByteArray.String())
	}
	info := d.set.ByteArray
	m := d.set.Model

	data, err := memory.ReadPtr(mem, addr+info.Offset("data"), m.PtrSize)
	if err != nil {
		return nil, err
	}
	size, err := memory.ReadUint(mem, addr+info.Offset("size"), m.SizeTSize)
	if err != nil {
		return nil, err
	}
	if size > uint64(d.limits.MaxStringSize) {
		return nil, errors.Overflow(errors.PhaseDecode, path, size, "MaxStringSize")
	}
	if size == 0 {
		return ByteArray{}, nil
	}
	if data == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, childPath(path, "data"), mpv.FormatByteArray.String())
	}

	raw, err := mem.Read(data, size)
	if err != nil {
		return nil, withPath(err, path)
	}
	out := make(ByteArray, size)
	copy(out, raw)
	return out, nil
}
