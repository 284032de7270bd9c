package params

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping of scalars. The YAML tag picks the variant:
// !!int becomes Int, !!float becomes Double, !!bool becomes Int 0/1 (the way
// host models store yes/no parameters) and everything else a String.
func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: %w: %s", key.Line, ErrDuplicateName, key.Value)
		}
		seen[key.Value] = true

		v, err := scalarValue(val)
		if err != nil {
			return fmt.Errorf("line %d: parameter %q: %w", val.Line, key.Value, err)
		}
		s.Put(key.Value, v)
	}
	return nil
}

// MarshalYAML encodes the set as an ordered mapping.
func (s Set) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range s.params {
		var tag, text string
		switch p.Value.kind {
		case KindString:
			tag, text = "!!str", p.Value.s
		case KindDouble:
			tag, text = "!!float", strconv.FormatFloat(p.Value.f, 'g', -1, 64)
		case KindInt:
			tag, text = "!!int", strconv.FormatInt(p.Value.i, 10)
		default:
			return nil, fmt.Errorf("parameter %q: %w", p.Name, ErrUnknownKind)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text},
		)
	}
	return node, nil
}

func scalarValue(n *yaml.Node) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return Value{}, fmt.Errorf("expected a scalar value")
	}
	switch n.ShortTag() {
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		if b {
			return Int(1), nil
		}
		return Int(0), nil
	case "!!null":
		return String(""), nil
	default:
		return String(n.Value), nil
	}
}
