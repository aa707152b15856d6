package abi

import (
	"math"
	"reflect"
)

func SafeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func AlignTo(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// IsPowerOfTwo reports whether align is a usable alignment.
func IsPowerOfTwo(align uint64) bool {
	return align != 0 && align&(align-1) == 0
}

const (
	MaxStringSize = 1 << 30       // 1 GB max string size
	MaxListLength = math.MaxInt32 // mpv_node_list.num is a C int
	MaxAlloc      = 1 << 32       // 4 GB max single allocation
	MaxDepth      = 128           // nesting limit for node trees
)
