package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/go-mpv/layout"
	"github.com/wippyai/go-mpv/memory"
	"github.com/wippyai/go-mpv/node"
)

type options struct {
	in          string
	model       string
	target      string
	guest       string
	argv        string
	interactive bool
	verbose     bool
}

func main() {
	os.Exit(runMain())
}

// runMain returns the exit code, so deferred logger flushes run before exit.
func runMain() int {
	var opts options
	flag.StringVar(&opts.in, "in", "-", "YAML or JSON document to encode (- for stdin)")
	flag.StringVar(&opts.model, "model", "", "Data model: lp64 or wasm32 (default lp64, wasm32 for -target wasm)")
	flag.StringVar(&opts.target, "target", targetArena, "Foreign memory: arena or wasm")
	flag.StringVar(&opts.guest, "guest", "", "Wasm module exporting memory, malloc and free (with -target wasm)")
	flag.StringVar(&opts.argv, "argv", "", "Build a command argument vector instead (comma-separated)")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.verbose, "v", false, "Log allocations")
	flag.Parse()

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
		memory.SetLogger(logger)
		node.SetLogger(logger)
	}

	model, err := resolveModel(opts.model, opts.target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: nodedump [-in file.yaml] [-model lp64|wasm32] [-target arena|wasm [-guest mod.wasm]] [-v]")
		fmt.Fprintln(os.Stderr, "       nodedump -argv loadfile,a.mkv")
		fmt.Fprintln(os.Stderr, "       nodedump -i  (interactive mode)")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.interactive {
		err = runInteractive(opts.target, model, opts.guest)
	} else {
		err = run(opts, model, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func resolveModel(name, target string) (layout.Model, error) {
	if name == "" {
		if target == targetWasm {
			return layout.Wasm32, nil
		}
		return layout.LP64, nil
	}
	m, ok := layout.ModelByName(name)
	if !ok {
		return layout.Model{}, fmt.Errorf("unknown model %q", name)
	}
	return m, nil
}

func run(opts options, model layout.Model, out io.Writer) error {
	ctx := context.Background()

	b, err := newBackend(ctx, opts.target, model, opts.guest)
	if err != nil {
		return err
	}
	defer b.close()

	if opts.argv != "" {
		text, err := dumpArgv(b, strings.Split(opts.argv, ","))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}

	data, err := readInput(opts.in)
	if err != nil {
		return err
	}
	n, err := parseDocument(data)
	if err != nil {
		return err
	}

	r, err := encodeNode(b, n)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, styled(out, r.String()))
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// styled colors the report labels when out is a terminal.
func styled(out io.Writer, text string) string {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return text
	}
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		label, rest, found := strings.Cut(line, ":")
		if !found || strings.HasPrefix(line, " ") {
			sb.WriteString(line)
			continue
		}
		sb.WriteString(labelStyle.Render(label + ":"))
		sb.WriteString(rest)
	}
	return sb.String()
}

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB"))
