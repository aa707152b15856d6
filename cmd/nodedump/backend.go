package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	mpv "github.com/wippyai/go-mpv"
	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
)

// scratchWASM is a module exporting 16 pages of memory as "memory".
var scratchWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x10, // memory section: 1 memory, min 16 pages
	0x07, 0x0a, 0x01, // export section: 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // "memory"
	0x02, 0x00, // memory index 0
}

const (
	targetArena = "arena"
	targetWasm  = "wasm"
)

// scratchBase leaves the first KiB of the scratch memory unused.
const scratchBase = 1024

type backend struct {
	mem   mpv.Memory
	alloc mpv.Allocator
	model layout.Model
	name  string
	close func()
}

// newBackend prepares foreign memory for target. guest optionally names a wasm
// module exporting memory, malloc and free; its allocator is then used instead
// of a bump window.
func newBackend(ctx context.Context, target string, model layout.Model, guest string) (*backend, error) {
	switch target {
	case targetArena:
		a := memory.NewArena(memory.DefaultArenaConfig())
		return &backend{mem: a, alloc: a, model: model, name: "arena/" + model.Name, close: func() {}}, nil

	case targetWasm:
		if model != layout.Wasm32 {
			return nil, fmt.Errorf("target wasm requires model %s, got %s", layout.Wasm32.Name, model.Name)
		}
		return newWasmBackend(ctx, guest)
	}
	return nil, fmt.Errorf("unknown target %q", target)
}

func newWasmBackend(ctx context.Context, guest string) (*backend, error) {
	rt := wazero.NewRuntime(ctx)
	closeRT := func() { _ = rt.Close(ctx) }

	if guest == "" {
		mod, err := rt.Instantiate(ctx, scratchWASM)
		if err != nil {
			closeRT()
			return nil, fmt.Errorf("instantiate scratch memory: %w", err)
		}
		mem := memory.WrapMemory(mod.ExportedMemory("memory"))
		return &backend{
			mem:   mem,
			alloc: memory.NewBump(scratchBase, mem.Size()),
			model: layout.Wasm32,
			name:  "wasm/scratch",
			close: closeRT,
		}, nil
	}

	data, err := os.ReadFile(guest)
	if err != nil {
		closeRT()
		return nil, fmt.Errorf("read guest: %w", err)
	}
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	cfg := wazero.NewModuleConfig().WithStartFunctions("_initialize")
	mod, err := rt.InstantiateWithConfig(ctx, data, cfg)
	if err != nil {
		closeRT()
		return nil, fmt.Errorf("instantiate guest: %w", err)
	}

	raw := mod.ExportedMemory("memory")
	malloc := mod.ExportedFunction("malloc")
	if raw == nil || malloc == nil {
		closeRT()
		return nil, fmt.Errorf("guest %s must export memory and malloc", guest)
	}
	return &backend{
		mem:   memory.WrapMemory(raw),
		alloc: memory.WrapAllocator(ctx, malloc, mod.ExportedFunction("free")),
		model: layout.Wasm32,
		name:  "wasm/" + guest,
		close: closeRT,
	}, nil
}
