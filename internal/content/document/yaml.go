package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxDepth bounds alias expansion and nesting.
const maxDepth = 64

func decodeYAML(raw []byte) (Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return Value{}, malformed(FormatYAML, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, malformed(FormatYAML, err)
		}
		return Value{}, malformed(FormatYAML, errors.New("multiple documents in one file"))
	}
	v, err := fromNode(&doc, 0)
	if err != nil {
		return Value{}, malformed(FormatYAML, err)
	}
	return v, nil
}

func fromNode(n *yaml.Node, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errors.New("document nested too deeply")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		return fromNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return fromScalar(n)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Sequence(items...), nil
	case yaml.MappingNode:
		return fromMapping(n, depth)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func fromMapping(n *yaml.Node, depth int) (Value, error) {
	if len(n.Content)%2 != 0 {
		return Value{}, fmt.Errorf("line %d: odd mapping content", n.Line)
	}
	m := Mapping()
	seen := make(map[string]bool, len(n.Content)/2)
	var merges []Value
	for i := 0; i < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", kn.Line)
		}
		val, err := fromNode(vn, depth+1)
		if err != nil {
			return Value{}, err
		}
		if kn.ShortTag() == "!!merge" {
			merges = append(merges, val)
			continue
		}
		if seen[kn.Value] {
			return Value{}, fmt.Errorf("line %d: duplicate key %q", kn.Line, kn.Value)
		}
		seen[kn.Value] = true
		m.Set(kn.Value, val)
	}
	// Merged keys never override keys written in the mapping itself.
	for _, src := range merges {
		var sources []Value
		switch src.kind {
		case KindMapping:
			sources = []Value{src}
		case KindSequence:
			sources = src.items
		default:
			return Value{}, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
		}
		for _, s := range sources {
			for _, e := range s.Entries() {
				if !seen[e.Key] {
					seen[e.Key] = true
					m.Set(e.Key, e.Value)
				}
			}
		}
	}
	return m, nil
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text.
		return String(n.Value), nil
	}
}

func encodeYAML(v Value) ([]byte, error) {
	n, err := toNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Only double quoting escapes line breaks other than "\n"; block and single
// quoted scalars normalize them away.
func stringStyle(s string) yaml.Style {
	switch {
	case strings.ContainsAny(s, "\r\u0085\u2028\u2029"):
		return yaml.DoubleQuotedStyle
	case strings.Contains(s, "\n"):
		return yaml.LiteralStyle
	default:
		return 0
	}
}

func toNode(v Value) (*yaml.Node, error) {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}, nil
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.i, 10)}, nil
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v.f)}, nil
	case KindString:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
		n.Style = stringStyle(v.s)
		return n, nil
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			c, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.entries {
			c, err := toNode(e.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}, c)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("encode yaml: unknown kind %s", v.kind)
	}
}

// yamlFloat always renders a float that resolves back to !!float.
func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
