package node

import (
	mpv "github.com/wippyai/go-mpv"
)

// Node is one mpv_node value. The set of implementations is closed.
type Node interface {
	Format() mpv.Format
	isNode()
}

type (
	None      struct{}
	String    string
	Flag      bool
	Int64     int64
	Double    float64
	Array     []Node
	Map       []Entry
	ByteArray []byte
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Node
}

func (None) Format() mpv.Format      { return mpv.FormatNone }
func (String) Format() mpv.Format    { return mpv.FormatString }
func (Flag) Format() mpv.Format      { return mpv.FormatFlag }
func (Int64) Format() mpv.Format     { return mpv.FormatInt64 }
func (Double) Format() mpv.Format    { return mpv.FormatDouble }
func (Array) Format() mpv.Format     { return mpv.FormatNodeArray }
func (Map) Format() mpv.Format       { return mpv.FormatNodeMap }
func (ByteArray) Format() mpv.Format { return mpv.FormatByteArray }

func (None) isNode()      {}
func (String) isNode()    {}
func (Flag) isNode()      {}
func (Int64) isNode()     {}
func (Double) isNode()    {}
func (Array) isNode()     {}
func (Map) isNode()       {}
func (ByteArray) isNode() {}

// Get returns the value of the first entry with key.
func (m Map) Get(key string) (Node, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}
