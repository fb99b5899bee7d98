package document

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses raw YAML into a Node tree. Mapping key order is preserved,
// which is why this walks yaml.Node directly instead of decoding into a map.
// Custom tags (anything starting with a single '!') survive on Node.Tag.
func Decode(raw []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewMapping(), nil
	}
	return fromYAML(root.Content[0])
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.MappingNode:
		n := NewMapping()
		n.Tag = customTag(y.Tag)
		for i := 0; i+1 < len(y.Content); i += 2 {
			keyNode := y.Content[i]
			valNode := y.Content[i+1]
			key := keyNode.Value
			if _, exists := n.Children[key]; exists {
				return nil, fmt.Errorf("duplicate key %q at line %d", key, keyNode.Line)
			}
			child, err := fromYAML(valNode)
			if err != nil {
				return nil, err
			}
			n.Set(key, child)
		}
		return n, nil
	case yaml.SequenceNode:
		n := NewSequence()
		n.Tag = customTag(y.Tag)
		for _, item := range y.Content {
			child, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			n.Append(child)
		}
		return n, nil
	case yaml.ScalarNode:
		n := NewScalar(scalarValue(y))
		n.Tag = customTag(y.Tag)
		return n, nil
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", y.Kind, y.Line)
}

// customTag keeps single-! tags and drops the standard !! resolver tags.
func customTag(tag string) string {
	if strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") {
		return tag
	}
	return ""
}

// scalarValue converts a scalar yaml.Node into a typed Go value. Custom-tagged
// scalars keep their raw string form so schema loading can interpret them.
func scalarValue(y *yaml.Node) any {
	switch y.Tag {
	case "!!int":
		if v, err := strconv.ParseInt(y.Value, 0, 64); err == nil {
			return v
		}
	case "!!float":
		if v, err := strconv.ParseFloat(y.Value, 64); err == nil {
			return v
		}
	case "!!bool":
		if v, err := strconv.ParseBool(y.Value); err == nil {
			return v
		}
	case "!!null":
		return nil
	case "!!str":
		return y.Value
	}
	if customTag(y.Tag) != "" {
		// Tagged scalars may still carry typed payloads (e.g. a default int).
		if v, err := strconv.ParseInt(y.Value, 10, 64); err == nil {
			return v
		}
		if v, err := strconv.ParseFloat(y.Value, 64); err == nil {
			return v
		}
		if y.Value == "" {
			return nil
		}
	}
	return y.Value
}

// Encode renders a Node tree back to YAML. Custom tags are not re-emitted;
// encoded output is the resolved document, not the schema.
func Encode(n *Node) ([]byte, error) {
	y, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(y)
}

func toYAML(n *Node) (*yaml.Node, error) {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	switch n.Kind {
	case KindMapping:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.Keys {
			child, err := toYAML(n.Children[k])
			if err != nil {
				return nil, err
			}
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return y, nil
	case KindSequence:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			child, err := toYAML(item)
			if err != nil {
				return nil, err
			}
			y.Content = append(y.Content, child)
		}
		return y, nil
	case KindScalar:
		y := &yaml.Node{Kind: yaml.ScalarNode}
		switch v := n.Value.(type) {
		case int64:
			y.Tag, y.Value = "!!int", strconv.FormatInt(v, 10)
		case float64:
			y.Tag, y.Value = "!!float", strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			y.Tag, y.Value = "!!bool", strconv.FormatBool(v)
		case string:
			y.Tag, y.Value = "!!str", v
		case nil:
			y.Tag, y.Value = "!!null", "null"
		default:
			return nil, fmt.Errorf("cannot encode scalar value of type %T", n.Value)
		}
		return y, nil
	}
	return nil, fmt.Errorf("cannot encode node of kind %s", n.Kind)
}
