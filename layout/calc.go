package layout

import (
	"github.com/wippyai/go-mpv/internal/abi"
)

// Kind names a C type that appears in the client structures.
type Kind int

const (
	KindInt       Kind = iota // int, mpv_format
	KindInt64                 // int64_t
	KindDouble                // double
	KindPointer               // any data pointer, including char*
	KindSizeT                 // size_t
	KindNode                  // mpv_node
	KindNodeList              // mpv_node_list
	KindByteArray             // mpv_byte_array
)

var kindNames = [...]string{"int", "int64_t", "double", "pointer", "size_t", "mpv_node", "mpv_node_list", "mpv_byte_array"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Model describes the scalar sizes of a C data model.
type Model struct {
	Name        string
	PtrSize     uint64
	IntSize     uint64
	SizeTSize   uint64
	Int64Align  uint64
	DoubleAlign uint64
}

var (
	// LP64 is the data model of 64-bit Linux, macOS and BSD (and, for these structures, Windows).
	LP64 = Model{Name: "lp64", PtrSize: 8, IntSize: 4, SizeTSize: 8, Int64Align: 8, DoubleAlign: 8}

	// Wasm32 is the data model of wasm32 C targets.
	Wasm32 = Model{Name: "wasm32", PtrSize: 4, IntSize: 4, SizeTSize: 4, Int64Align: 8, DoubleAlign: 8}
)

// ModelByName resolves "lp64" or "wasm32".
func ModelByName(name string) (Model, bool) {
	switch name {
	case LP64.Name:
		return LP64, true
	case Wasm32.Name:
		return Wasm32, true
	}
	return Model{}, false
}

// Info is the computed layout of one type.
type Info struct {
	FieldOffs map[string]uint64
	Size      uint64
	Align     uint64
}

// Offset returns the offset of a named member. It panics on unknown names,
// which only happens on programming errors inside this module.
func (i Info) Offset(name string) uint64 {
	off, ok := i.FieldOffs[name]
	if !ok {
		panic("layout: no member " + name)
	}
	return off
}

type member struct {
	name string
	info Info
}

type Calculator struct {
	cache map[Kind]Info
	model Model
}

func NewCalculator(m Model) *Calculator {
	return &Calculator{
		cache: make(map[Kind]Info),
		model: m,
	}
}

func (c *Calculator) Model() Model {
	return c.model
}

func (c *Calculator) Calculate(k Kind) Info {
	if cached, ok := c.cache[k]; ok {
		return cached
	}

	m := c.model
	var info Info

	switch k {
	case KindInt:
		info = Info{Size: m.IntSize, Align: m.IntSize}
	case KindInt64:
		info = Info{Size: 8, Align: m.Int64Align}
	case KindDouble:
		info = Info{Size: 8, Align: m.DoubleAlign}
	case KindPointer:
		info = Info{Size: m.PtrSize, Align: m.PtrSize}
	case KindSizeT:
		info = Info{Size: m.SizeTSize, Align: m.SizeTSize}
	case KindNode:
		u := c.calculateUnion([]Info{
			c.Calculate(KindPointer), // string
			c.Calculate(KindInt),     // flag
			c.Calculate(KindInt64),   // int64
			c.Calculate(KindDouble),  // double_
			c.Calculate(KindPointer), // list
			c.Calculate(KindPointer), // ba
		})
		info = c.calculateStruct([]member{
			{"u", u},
			{"format", c.Calculate(KindInt)},
		})
	case KindNodeList:
		info = c.calculateStruct([]member{
			{"num", c.Calculate(KindInt)},
			{"values", c.Calculate(KindPointer)},
			{"keys", c.Calculate(KindPointer)},
		})
	case KindByteArray:
		info = c.calculateStruct([]member{
			{"data", c.Calculate(KindPointer)},
			{"size", c.Calculate(KindSizeT)},
		})
	default:
		info = Info{Size: 0, Align: 1}
	}

	c.cache[k] = info
	return info
}

func (c *Calculator) calculateStruct(members []member) Info {
	if len(members) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make(map[string]uint64, len(members))
	maxAlign := uint64(1)
	offset := uint64(0)

	for _, f := range members {
		offset = abi.AlignTo(offset, f.info.Align)
		fieldOffs[f.name] = offset

		if f.info.Align > maxAlign {
			maxAlign = f.info.Align
		}

		offset += f.info.Size
	}

	return Info{
		Size:      abi.AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}

func (c *Calculator) calculateUnion(members []Info) Info {
	if len(members) == 0 {
		return Info{Size: 0, Align: 1}
	}

	maxAlign := uint64(1)
	maxSize := uint64(0)
	for _, m := range members {
		if m.Align > maxAlign {
			maxAlign = m.Align
		}
		if m.Size > maxSize {
			maxSize = m.Size
		}
	}

	return Info{
		Size:  abi.AlignTo(maxSize, maxAlign),
		Align: maxAlign,
	}
}
