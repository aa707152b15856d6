package buffer

import (
	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// Handle is the address of a NUL-terminated string owned elsewhere. 0 is NULL.
type Handle uint64

// HandleCodec stores handles as pointers of the model's width.
type HandleCodec struct {
	info layout.Info
}

func NewHandleCodec(m layout.Model) HandleCodec {
	return HandleCodec{info: layout.NewCalculator(m).Calculate(layout.KindPointer)}
}

func (c HandleCodec) Layout() layout.Info {
	return c.info
}

func (c HandleCodec) Store(mem mpv.Memory, addr uint64, h Handle) error {
	return memory.WritePtr(mem, addr, c.info.Size, uint64(h))
}

func (c HandleCodec) Load(mem mpv.Memory, addr uint64) (Handle, error) {
	p, err := memory.ReadPtr(mem, addr, c.info.Size)
	return Handle(p), err
}

// NewStringArray allocates n NULL string handles (a char** of length n).
// The array never owns the strings its slots point to.
func NewStringArray(mem mpv.Memory, alloc mpv.Allocator, m layout.Model, n int) (*Array[Handle], error) {
	return Make[Handle](mem, alloc, NewHandleCodec(m), n)
}
