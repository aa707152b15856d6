package main

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/go-mpv/buffer"
	"github.com/wippyai/go-mpv/memory"
	"github.com/wippyai/go-mpv/node"
)

type report struct {
	backend string
	addr    uint64
	record  node.Record
	allocs  int
	bytes   uint64
	decoded string
}

// encodeNode lowers n into b, decodes it back and describes both steps.
func encodeNode(b *backend, n node.Node) (*report, error) {
	list := memory.NewAllocationList()
	defer list.FreeAndRelease(b.alloc)

	addr, err := node.NewEncoder(b.model).EncodeNew(n, b.mem, b.alloc, list)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	rec, err := node.NewRecordCodec(b.model).Load(b.mem, addr)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	back, err := node.NewDecoder(b.model).Decode(addr, b.mem)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	text, err := renderYAML(back)
	if err != nil {
		return nil, err
	}

	return &report{
		backend: b.name,
		addr:    addr,
		record:  rec,
		allocs:  list.Count(),
		bytes:   list.Bytes(),
		decoded: text,
	}, nil
}

func (r *report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "backend:  %s\n", r.backend)
	fmt.Fprintf(&sb, "mpv_node: 0x%x format=%s\n", r.addr, r.record.Format())
	fmt.Fprintf(&sb, "record:   % x\n", r.record[:])
	fmt.Fprintf(&sb, "payload:  %d allocations, %d bytes\n", r.allocs, r.bytes)
	sb.WriteString("decoded:\n")
	for _, line := range strings.Split(strings.TrimRight(r.decoded, "\n"), "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderYAML(n node.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(n)); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// dumpArgv builds an argument vector in b and prints its slots.
func dumpArgv(b *backend, args []string) (string, error) {
	list := memory.NewAllocationList()
	defer list.FreeAndRelease(b.alloc)

	argv, err := buffer.NewArgv(b.mem, b.alloc, b.model, list, args)
	if err != nil {
		return "", fmt.Errorf("argv: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "backend: %s\n", b.name)
	fmt.Fprintf(&sb, "argv:    0x%x (%d slots, stride %d)\n", argv.Addr(), argv.Len(), argv.Stride())
	slots, err := argv.Values()
	if err != nil {
		return "", err
	}
	for i, h := range slots {
		if h == 0 {
			fmt.Fprintf(&sb, "  [%d] 0x%x NULL\n", i, argv.Slot(i))
			continue
		}
		s, err := memory.ReadCString(b.mem, uint64(h), 0)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  [%d] 0x%x -> 0x%x %q\n", i, argv.Slot(i), uint64(h), s)
	}

	back, err := buffer.ReadArgv(b.mem, b.model, argv.Addr())
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "read back: %q\n", back)
	return sb.String(), nil
}
