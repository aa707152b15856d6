package buffer

import (
	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// NewArgv builds the NULL-terminated const char** taken by mpv_command:
// len(args)+1 slots, one C string per argument, the last slot NULL.
// Every allocation, including the array itself, is recorded in list. On error
// the caller frees list; nothing is released here.
func NewArgv(mem mpv.Memory, alloc mpv.Allocator, m layout.Model, list *memory.AllocationList, args []string) (*Array[Handle], error) {
	arr, err := NewStringArray(mem, alloc, m, len(args)+1)
	if err != nil {
		return nil, err
	}
	arr.Track(list)

	for i, s := range args {
		addr, err := memory.WriteCString(mem, alloc, list, s)
		if err != nil {
			return nil, err
		}
		if err := arr.Set(i, Handle(addr)); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// ReadArgv walks a NULL-terminated char** back into strings.
func ReadArgv(mem mpv.Memory, m layout.Model, addr uint64) ([]string, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseDecode, nil, "char**")
	}

	codec := NewHandleCodec(m)
	stride := codec.Layout().Size
	var out []string
	for i := 0; i < abi.MaxListLength; i++ {
		h, err := codec.Load(mem, addr+uint64(i)*stride)
		if err != nil {
			return nil, err
		}
		if h == 0 {
			return out, nil
		}
		s, err := memory.ReadCString(mem, uint64(h), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return nil, errors.Overflow(errors.PhaseDecode, nil, abi.MaxListLength, "argv length")
}
