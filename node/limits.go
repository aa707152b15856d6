package node

import "github.com/wippyai/go-mpv/internal/abi"

// Limits bounds the trees the encoder and decoder accept.
type Limits struct {
	// MaxDepth is the deepest allowed nesting of arrays and maps.
	MaxDepth int
	// MaxListLength caps the entries of one array or map. It cannot exceed
	// the range of mpv_node_list.num.
	MaxListLength int
	// MaxStringSize caps strings, map keys and byte arrays.
	MaxStringSize int
}

// DefaultLimits returns the limits used by NewEncoder and NewDecoder.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:      abi.MaxDepth,
		MaxListLength: abi.MaxListLength,
		MaxStringSize: abi.MaxStringSize,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxDepth <= 0 {
		l.MaxDepth = def.MaxDepth
	}
	if l.MaxListLength <= 0 || l.MaxListLength > def.MaxListLength {
		l.MaxListLength = def.MaxListLength
	}
	if l.MaxStringSize <= 0 {
		l.MaxStringSize = def.MaxStringSize
	}
	return l
}
