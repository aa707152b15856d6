package errors

import (
	"fmt"
	"strings"
)

// Phase is the marshalling step that failed.
type Phase string

const (
	PhaseAlloc  Phase = "alloc"  // buffer allocation
	PhaseWrite  Phase = "write"  // indexed slot writes
	PhaseRead   Phase = "read"   // indexed slot reads
	PhaseEncode Phase = "encode" // Go to foreign memory
	PhaseDecode Phase = "decode" // foreign memory to Go
	PhaseMemory Phase = "memory" // raw memory access
	PhaseLayout Phase = "layout" // ABI layout checks
	PhaseClient Phase = "client" // libmpv return codes
)

// Kind is the failure category. Is compares errors by Phase and Kind.
type Kind string

const (
	KindTypeMismatch  Kind = "type_mismatch"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindInvalidData   Kind = "invalid_data"
	KindInvalidFormat Kind = "invalid_format"
	KindUnsupported   Kind = "unsupported"
	KindAllocation    Kind = "allocation"
	KindOverflow      Kind = "overflow"
	KindNilPointer    Kind = "nil_pointer"
	KindDepth         Kind = "depth"
	KindInvalidInput  Kind = "invalid_input"
	KindLayout        Kind = "layout_mismatch"
	KindClient        Kind = "client"
)

// Error is returned by every package in this module.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Format string
	Detail string
	Path   []string
}

// Error renders "[phase] kind at path: subject - detail (caused by: cause)".
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Phase, e.Kind)

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	subject := e.subject()
	sep := ": "
	if subject != "" {
		b.WriteString(": ")
		b.WriteString(subject)
		sep = " - "
	}
	if e.Detail != "" {
		b.WriteString(sep)
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %s)", e.Cause)
	}
	return b.String()
}

// subject names the Go type and mpv format involved, when known.
func (e *Error) subject() string {
	var parts []string
	if e.GoType != "" {
		parts = append(parts, "Go type "+e.GoType)
	}
	if e.Format != "" {
		parts = append(parts, "format "+e.Format)
	}
	return strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Phase and Kind, ignoring path and detail.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder assembles an Error field by field.
type Builder struct {
	err Error
}

// New starts a Builder for phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the slot path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Format sets the mpv format name
func (b *Builder) Format(f string) *Builder {
	b.err.Format = f
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail formats the message with fmt.Sprintf.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the error. The builder must not be reused.
func (b *Builder) Build() *Error {
	return &b.err
}

// Shorthands for the errors the codecs and memory backends return.

// TypeMismatch reports a Go value that has no mpv format.
func TypeMismatch(phase Phase, path []string, goType, format string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Format: format,
	}
}

// AllocationFailed reports an allocator that returned an error or NULL.
func AllocationFailed(phase Phase, size, align uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidFormat creates an error for an unknown node discriminant
func InvalidFormat(phase Phase, path []string, format int32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidFormat,
		Path:   path,
		Detail: fmt.Sprintf("unknown format %d", format),
		Value:  format,
	}
}

// Unsupported reports a request the backend cannot serve.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds reports a slot index outside [0, length).
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// AddressOutOfBounds creates an out of bounds error for a raw memory range
func AddressOutOfBounds(phase Phase, addr, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("address 0x%x+%d outside memory", addr, length),
		Value:  addr,
	}
}

// NilPointer reports a NULL payload pointer for a format that needs one.
func NilPointer(phase Phase, path []string, format string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Format: format,
		Detail: "nil pointer",
	}
}

// Overflow reports a value or count that does not fit its C type.
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// TooDeep creates a nesting depth error
func TooDeep(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepth,
		Path:   path,
		Detail: fmt.Sprintf("nesting exceeds %d levels", limit),
		Value:  limit,
	}
}

// InvalidData reports malformed bytes in foreign memory.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput reports a bad argument from the caller.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// LayoutMismatch reports a disagreement between computed and native struct layout
func LayoutMismatch(what string, got, want uint64) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindLayout,
		Detail: fmt.Sprintf("%s: computed %d, native %d", what, got, want),
		Value:  got,
	}
}

// Wrap attaches phase and kind to a foreign error.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
