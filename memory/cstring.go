package memory

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"strings"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
)

const cstringChunk = 64

// CStringReader is implemented by memories that find the terminator themselves
// instead of reading ahead in chunks, such as the C heap where bytes past an
// allocation may be unmapped.
type CStringReader interface {
	ReadCString(addr, limit uint64) (string, error)
}

// WriteCString allocates len(s)+1 bytes, copies s and the terminating NUL,
// and records the allocation in list (which may be nil).
// Strings containing NUL cannot be represented and are rejected.
func WriteCString(mem mpv.Memory, alloc mpv.Allocator, list *AllocationList, s string) (uint64, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, errors.InvalidData(errors.PhaseEncode, nil, "string contains NUL byte")
	}
	size := uint64(len(s)) + 1
	if size > abi.MaxStringSize {
		return 0, errors.Overflow(errors.PhaseEncode, nil, len(s), "MaxStringSize")
	}

	addr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, allocError(err, size, 1)
	}
	if addr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, 1)
	}
	list.Add(addr, size, 1)

	buf := make([]byte, size)
	copy(buf, s)
	if err := mem.Write(addr, buf); err != nil {
		return 0, err
	}
	return addr, nil
}

// ReadCString reads a NUL-terminated string starting at addr, failing when no
// terminator is found within limit bytes.
func ReadCString(mem mpv.Memory, addr uint64, limit uint64) (string, error) {
	if addr == 0 {
		return "", errors.NilPointer(errors.PhaseDecode, nil, mpv.FormatString.String())
	}
	if limit == 0 {
		limit = abi.MaxStringSize
	}
	if r, ok := mem.(CStringReader); ok {
		return r.ReadCString(addr, limit)
	}

	var out []byte
	for off := uint64(0); off < limit; {
		n := min(uint64(cstringChunk), limit-off)
		chunk, err := mem.Read(addr+off, n)
		if err != nil {
			// The chunk may cross the end of memory; fall back to single bytes.
			return readCStringBytes(mem, addr, off, limit, out)
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			out = append(out, chunk[:i]...)
			return string(out), nil
		}
		out = append(out, chunk...)
		off += n
	}
	return "", errors.Overflow(errors.PhaseDecode, nil, limit, "string limit")
}

func readCStringBytes(mem mpv.Memory, addr, off, limit uint64, out []byte) (string, error) {
	for ; off < limit; off++ {
		b, err := mem.ReadU8(addr + off)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(out), nil
		}
		out = append(out, b)
	}
	return "", errors.Overflow(errors.PhaseDecode, nil, limit, "string limit")
}

// WriteUint stores v as a little-endian integer of size 4 or 8.
func WriteUint(mem mpv.Memory, addr, size, v uint64) error {
	switch size {
	case 8:
		return mem.WriteU64(addr, v)
	case 4:
		if v > math.MaxUint32 {
			return errors.Overflow(errors.PhaseEncode, nil, v, "uint32")
		}
		return mem.WriteU32(addr, uint32(v))
	}
	return errors.Unsupported(errors.PhaseMemory, "scalar size must be 4 or 8")
}

// ReadUint loads a little-endian integer of size 4 or 8.
func ReadUint(mem mpv.Memory, addr, size uint64) (uint64, error) {
	switch size {
	case 8:
		return mem.ReadU64(addr)
	case 4:
		v, err := mem.ReadU32(addr)
		return uint64(v), err
	}
	return 0, errors.Unsupported(errors.PhaseMemory, "scalar size must be 4 or 8")
}

// WritePtr stores a pointer of ptrSize bytes.
func WritePtr(mem mpv.Memory, addr, ptrSize, ptr uint64) error {
	return WriteUint(mem, addr, ptrSize, ptr)
}

// ReadPtr loads a pointer of ptrSize bytes.
func ReadPtr(mem mpv.Memory, addr, ptrSize uint64) (uint64, error) {
	return ReadUint(mem, addr, ptrSize)
}

var zeroPage [4096]byte

// Zero clears size bytes at addr.
func Zero(mem mpv.Memory, addr, size uint64) error {
	for size > 0 {
		n := min(size, uint64(len(zeroPage)))
		if err := mem.Write(addr, zeroPage[:n]); err != nil {
			return err
		}
		addr += n
		size -= n
	}
	return nil
}

// AllocZeroed allocates zero-filled memory, using the allocator's own zeroing when it has one.
func AllocZeroed(mem mpv.Memory, alloc mpv.Allocator, size, align uint64) (uint64, error) {
	var (
		addr uint64
		err  error
	)
	za, zeroing := alloc.(mpv.ZeroAllocator)
	if zeroing {
		addr, err = za.AllocZeroed(size, align)
	} else {
		addr, err = alloc.Alloc(size, align)
	}
	if err != nil {
		return 0, allocError(err, size, align)
	}
	if addr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	if !zeroing {
		if err := Zero(mem, addr, size); err != nil {
			alloc.Free(addr, size, align)
			return 0, err
		}
	}
	return addr, nil
}

// allocError keeps structured allocator errors and wraps foreign ones.
func allocError(err error, size, align uint64) error {
	var se *errors.Error
	if stderrors.As(err, &se) && se.Phase == errors.PhaseAlloc {
		return err
	}
	return errors.Wrap(errors.PhaseAlloc, errors.KindAllocation, err,
		fmt.Sprintf("allocate %d bytes (align %d)", size, align))
}
