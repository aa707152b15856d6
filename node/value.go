package node

import (
	"slices"
	"strconv"

	"github.com/wippyai/go-mpv/errors"
	"github.com/wippyai/go-mpv/internal/abi"
)

// FromValue converts a plain Go value into a Node.
//
// Accepted inputs are nil, Node, string, bool, every integer and float type,
// []byte, []string, []any, []Node and map[string]any. Integers must fit int64.
// Map keys are sorted, since Go maps carry no order; build a Map directly to
// control key order.
func FromValue(v any) (Node, error) {
	return fromValue(v, nil, 0)
}

func fromValue(v any, path []string, depth int) (Node, error) {
	if depth >= abi.MaxDepth && isContainer(v) {
		return nil, errors.TooDeep(errors.PhaseEncode, path, abi.MaxDepth)
	}

	switch t := v.(type) {
	case nil:
		return None{}, nil
	case Node:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Flag(t), nil
	case float32:
		return Double(t), nil
	case float64:
		return Double(t), nil
	case []byte:
		return ByteArray(t), nil

	case []string:
		out := make(Array, len(t))
		for i, s := range t {
			out[i] = String(s)
		}
		return out, nil

	case []Node:
		return Array(t), nil

	case []any:
		out := make(Array, len(t))
		for i, item := range t {
			n, err := fromValue(item, childPath(path, "["+strconv.Itoa(i)+"]"), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil

	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := make(Map, len(keys))
		for i, k := range keys {
			n, err := fromValue(t[k], childPath(path, k), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = Entry{Key: k, Value: n}
		}
		return out, nil
	}

	if i, ok := abi.CoerceToInt64(v); ok {
		return Int64(i), nil
	}
	if _, ok := abi.CoerceToFloat64(v); ok {
		return nil, errors.Overflow(errors.PhaseEncode, path, v, "int64")
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, path, abi.TypeName(v), "mpv_node")
}

// isContainer reports whether v becomes an Array or Map, the values that count
// against the encoder's depth limit.
func isContainer(v any) bool {
	switch v.(type) {
	case []string, []Node, []any, map[string]any:
		return true
	}
	return false
}

// ToValue converts a Node into plain Go values: nil, string, bool, int64,
// float64, []byte, []any and map[string]any. Map order is lost.
func ToValue(n Node) any {
	switch t := n.(type) {
	case String:
		return string(t)
	case Flag:
		return bool(t)
	case Int64:
		return int64(t)
	case Double:
		return float64(t)
	case ByteArray:
		return []byte(t)
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToValue(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for _, e := range t {
			if _, dup := out[e.Key]; !dup {
				out[e.Key] = ToValue(e.Value)
			}
		}
		return out
	}
	return nil
}
