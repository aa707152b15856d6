package node

import (
	stderrors "errors"
	"math"
	"strconv"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
	"go.uber.org/zap"
)

// Encoder lowers Node trees into foreign memory. It holds no mutable state
// and is safe for concurrent use.
type Encoder struct {
	set    layout.Set
	limits Limits
}

func NewEncoder(m layout.Model) *Encoder {
	return NewEncoderWithLimits(m, DefaultLimits())
}

func NewEncoderWithLimits(m layout.Model, l Limits) *Encoder {
	return &Encoder{set: layout.Of(m), limits: l.withDefaults()}
}

// Model returns the data model the encoder writes.
func (e *Encoder) Model() layout.Model {
	return e.set.Model
}

// Lower builds the payload of n in memory and returns its mpv_node record.
// A nil Node lowers to MPV_FORMAT_NONE.
func (e *Encoder) Lower(n Node, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList) (Record, error) {
	return e.lower(n, mem, alloc, list, nil, 0)
}

// Encode lowers n and writes its record at addr.
func (e *Encoder) Encode(n Node, addr uint64, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList) error {
	rec, err := e.lower(n, mem, alloc, list, nil, 0)
	if err != nil {
		return err
	}
	return mem.Write(addr, rec[:])
}

// EncodeNew allocates an mpv_node, encodes n into it and returns its address.
func (e *Encoder) EncodeNew(n Node, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList) (uint64, error) {
	info := e.set.Node
	addr, err := memory.AllocZeroed(mem, alloc, info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	list.Add(addr, info.Size, info.Align)

	if err := e.Encode(n, addr, mem, alloc, list); err != nil {
		return 0, err
	}
	return addr, nil
}

func (e *Encoder) lower(n Node, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList, path []string, depth int) (Record, error) {
	switch v := n.(type) {
	case nil, None:
		return Record{}, nil

	case String:
		addr, err := e.lowerString(string(v), mem, alloc, list, path)
		if err != nil {
			return Record{}, err
		}
		return makeRecord(mpv.FormatString, addr), nil

	case Flag:
		var b uint64
		if v {
			b = 1
		}
		return makeRecord(mpv.FormatFlag, b), nil

	case Int64:
		return makeRecord(mpv.FormatInt64, uint64(v)), nil

	case Double:
		return makeRecord(mpv.FormatDouble, math.Float64bits(float64(v))), nil

	case Array:
		addr, err := e.lowerList(v, nil, mem, alloc, list, path, depth)
		if err != nil {
			return Record{}, err
		}
		return makeRecord(mpv.FormatNodeArray, addr), nil

	case Map:
		values := make([]Node, len(v))
		keys := make([]string, len(v))
		for i, entry := range v {
			keys[i] = entry.Key
			values[i] = entry.Value
		}
		addr, err := e.lowerList(values, keys, mem, alloc, list, path, depth)
		if err != nil {
			return Record{}, err
		}
		return makeRecord(mpv.FormatNodeMap, addr), nil

	case ByteArray:
		addr, err := e.lowerBytes(v, mem, alloc, list, path)
		if err != nil {
			return Record{}, err
		}
		return makeRecord(mpv.FormatByteArray, addr), nil
	}

	return Record{}, errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(n), "mpv_node")
}

func (e *Encoder) lowerString(s string, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList, path []string) (uint64, error) {
	if len(s) > e.limits.MaxStringSize {
		return 0, errors.Overflow(errors.PhaseEncode, path, len(s), "MaxStringSize")
	}
	addr, err := memory.WriteCString(mem, alloc, list, s)
	if err != nil {
		return 0, withPath(err, path)
	}
	return addr, nil
}

// lowerList writes an mpv_node_list with its values array and, for maps, its
// keys array. keys is nil for arrays.
func (e *Encoder) lowerList(values []Node, keys []string, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList, path []string, depth int) (uint64, error) {
	if depth >= e.limits.MaxDepth {
		return 0, errors.TooDeep(errors.PhaseEncode, path, e.limits.MaxDepth)
	}
	if len(values) > e.limits.MaxListLength {
		return 0, errors.Overflow(errors.PhaseEncode, path, len(values), "mpv_node_list.num")
	}

	info := e.set.NodeList
	listAddr, err := memory.AllocZeroed(mem, alloc, info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	list.Add(listAddr, info.Size, info.Align)

	arr, err := NewRecordArray(mem, alloc, e.set.Model, len(values))
	if err != nil {
		return 0, err
	}
	arr.Track(list)

	for i, child := range values {
		seg := "[" + strconv.Itoa(i) + "]"
		if keys != nil {
			seg = keys[i]
		}
		rec, err := e.lower(child, mem, alloc, list, childPath(path, seg), depth+1)
		if err != nil {
			return 0, err
		}
		if err := arr.Set(i, rec); err != nil {
			return 0, err
		}
	}

	var keysAddr uint64
	if keys != nil {
		karr, err := buffer.NewStringArray(mem, alloc, e.set.Model, len(keys))
		if err != nil {
			return 0, err
		}
		karr.Track(list)
		for i, k := range keys {
			addr, err := e.lowerString(k, mem, alloc, list, childPath(path, k))
			if err != nil {
				return 0, err
			}
			if err := karr.Set(i, buffer.Handle(addr)); err != nil {
				return 0, err
			}
		}
		keysAddr = karr.Addr()
	}

	ptr := e.set.Model.PtrSize
	if err := mem.WriteU32(listAddr+info.Offset("num"), uint32(int32(len(values)))); err != nil {
		return 0, err
	}
	if err := memory.WritePtr(mem, listAddr+info.Offset("values"), ptr, arr.Addr()); err != nil {
		return 0, err
	}
	if err := memory.WritePtr(mem, listAddr+info.Offset("keys"), ptr, keysAddr); err != nil {
		return 0, err
	}

	Logger().Debug("lowered node list",
		zap.Uint64("addr", listAddr),
		zap.Int("num", len(values)),
		zap.Bool("map", keys != nil))
	return listAddr, nil
}

func (e *Encoder) lowerBytes(b []byte, mem mpv.Memory, alloc mpv.Allocator, list *memory.AllocationList, path []string) (uint64, error) {
	if len(b) > e.limits.MaxStringSize {
		return 0, errors.Overflow(errors.PhaseEncode, path, len(b), "MaxStringSize")
	}

	var dataAddr uint64
	if len(b) > 0 {
		addr, err := alloc.Alloc(uint64(len(b)), 1)
		if err != nil {
			return 0, withPath(err, path)
		}
		if addr == 0 {
			return 0, errors.AllocationFailed(errors.PhaseAlloc, uint64(len(b)), 1)
		}
		list.Add(addr, uint64(len(b)), 1)
		if err := mem.Write(addr, b); err != nil {
			return 0, err
		}
		dataAddr = addr
	}

	info := e.set.ByteArray
	baAddr, err := memory.AllocZeroed(mem, alloc, info.Size, info.Align)
	if err != nil {
		return 0, err
	}
	list.Add(baAddr, info.Size, info.Align)

	if err := memory.WritePtr(mem, baAddr+info.Offset("data"), e.set.Model.PtrSize, dataAddr); err != nil {
		return 0, err
	}
	if err := memory.WriteUint(mem, baAddr+info.Offset("size"), e.set.Model.SizeTSize, uint64(len(b))); err != nil {
		return 0, err
	}
	return baAddr, nil
}

// childPath appends seg to a copy of path.
func childPath(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

// withPath fills in the path of structured errors that were raised without one.
func withPath(err error, path []string) error {
	var se *errors.Error
	if len(path) > 0 && stderrors.As(err, &se) && len(se.Path) == 0 {
		cp := *se
		cp.Path = path
		return &cp
	}
	return err
}
