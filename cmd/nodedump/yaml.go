package main

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/go-mpv/node"
)

// parseDocument parses YAML or JSON into a Node, keeping mapping order.
func parseDocument(data []byte) (node.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Kind == 0 {
		return node.None{}, nil
	}
	w := yamlWalker{
		maxDepth: node.DefaultLimits().MaxDepth,
		open:     make(map[*yaml.Node]bool),
	}
	return w.fromYAML(&doc, 0)
}

// yamlWalker converts a yaml.Node tree. open holds the sequences and mappings
// on the current path, so an alias back into one of them is a cycle.
type yamlWalker struct {
	maxDepth int
	open     map[*yaml.Node]bool
}

func (w *yamlWalker) fromYAML(n *yaml.Node, depth int) (node.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return node.None{}, nil
		}
		return w.fromYAML(n.Content[0], depth)

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		if w.open[n.Alias] {
			return nil, fmt.Errorf("line %d: recursive alias *%s", n.Line, n.Value)
		}
		return w.fromYAML(n.Alias, depth)

	case yaml.SequenceNode, yaml.MappingNode:
		if depth >= w.maxDepth {
			return nil, fmt.Errorf("line %d: nesting exceeds %d levels", n.Line, w.maxDepth)
		}
		w.open[n] = true
		defer delete(w.open, n)
		if n.Kind == yaml.SequenceNode {
			return w.sequence(n, depth)
		}
		return w.mapping(n, depth)

	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func (w *yamlWalker) sequence(n *yaml.Node, depth int) (node.Node, error) {
	out := make(node.Array, 0, len(n.Content))
	for _, item := range n.Content {
		v, err := w.fromYAML(item, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (w *yamlWalker) mapping(n *yaml.Node, depth int) (node.Node, error) {
	out := make(node.Map, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: map keys must be scalars", k.Line)
		}
		value, err := w.fromYAML(v, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, node.Entry{Key: k.Value, Value: value})
	}
	return out, nil
}

func scalarFromYAML(n *yaml.Node) (node.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return node.None{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return node.Flag(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return node.Int64(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return node.Double(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return node.ByteArray(b), nil
	}
	return node.String(n.Value), nil
}

// toYAML renders a Node as a YAML tree in the Node's own order.
func toYAML(n node.Node) *yaml.Node {
	switch v := n.(type) {
	case node.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case node.Flag:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(v))}
	case node.Int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v), 10)}
	case node.Double:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(float64(v))}
	case node.ByteArray:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v)}
	case node.Array:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			out.Content = append(out.Content, toYAML(item))
		}
		return out
	case node.Map:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				toYAML(e.Value))
		}
		return out
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += ".0"
	}
	return s
}
