// Package schema loads requirement and template documents. Requirement
// fields arrive as tag-driven YAML (!require.int, !optional.entries,
// !user.defined); the tags map onto a closed set of node kinds rather than
// runtime tag dispatch.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/suderio/arcanum/internal/document"
)

// Kind classifies a requirement node.
type Kind int

const (
	KindInvalid Kind = iota
	// KindGroup is an untagged mapping grouping nested requirements.
	KindGroup
	// KindRequiredScalar is a field that must resolve to a value.
	KindRequiredScalar
	// KindOptionalScalar is a field that may be absent.
	KindOptionalScalar
	// KindRepeatMarker describes entries of a repeated sequence.
	KindRepeatMarker
	// KindUserDefinedSlot admits instance-chosen sibling keys validated
	// structurally against a sub-schema.
	KindUserDefinedSlot
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindRequiredScalar:
		return "required"
	case KindOptionalScalar:
		return "optional"
	case KindRepeatMarker:
		return "entries"
	case KindUserDefinedSlot:
		return "user-defined"
	}
	return "invalid"
}

// Tag prefixes and markers recognized in requirement and template documents.
const (
	tagRequire   = "!require."
	tagOptional  = "!optional."
	tagEntries   = "!optional.entries"
	tagUser      = "!user.defined"
	TagPseudo    = "!pseudo-property"
	metaFallback = "fallback"
	metaRequires = "requires"
	metaPattern  = "pattern"
	metaEntries  = "entries"
)

// Spec is one node of the requirements tree.
type Spec struct {
	Kind Kind
	Type ValueType

	// Fallback substitutes when the field's preferred resolution fails.
	Fallback *document.Node
	// Requires names a sibling component the field depends on.
	Requires string

	// Pattern constrains key names under a user-defined slot.
	Pattern *regexp.Regexp
	// Entry is the sub-schema for repeated or user-defined entries.
	Entry *Spec

	// Keys and Children hold nested requirements for groups, in document
	// order.
	Keys     []string
	Children map[string]*Spec
}

// Child returns the nested spec under key, or nil.
func (s *Spec) Child(key string) *Spec {
	if s == nil {
		return nil
	}
	return s.Children[key]
}

func (s *Spec) addChild(key string, child *Spec) {
	if s.Children == nil {
		s.Children = map[string]*Spec{}
	}
	if _, exists := s.Children[key]; !exists {
		s.Keys = append(s.Keys, key)
	}
	s.Children[key] = child
}

// ParseRequirements converts a decoded requirements document into a Spec
// tree. Unknown tags fail with the tag and its field path.
func ParseRequirements(doc *document.Node) (*Spec, error) {
	return parseNode(doc, nil)
}

func parseNode(node *document.Node, path []string) (*Spec, error) {
	at := document.JoinPath(path)

	switch {
	case node.Tag == "":
		if node.Kind != document.KindMapping {
			return nil, fmt.Errorf("requirement at %q must be a mapping or carry a tag, got %s",
				at, node.Kind)
		}
		spec := &Spec{Kind: KindGroup}
		for _, k := range node.Keys {
			child, err := parseNode(node.Children[k], append(path, k))
			if err != nil {
				return nil, err
			}
			spec.addChild(k, child)
		}
		return spec, nil

	case node.Tag == tagEntries:
		return parseEntries(node, path)

	case node.Tag == tagUser:
		return parseUserDefined(node, path)

	case strings.HasPrefix(node.Tag, tagRequire):
		return parseScalar(node, path, KindRequiredScalar, strings.TrimPrefix(node.Tag, tagRequire))

	case strings.HasPrefix(node.Tag, tagOptional):
		return parseScalar(node, path, KindOptionalScalar, strings.TrimPrefix(node.Tag, tagOptional))
	}

	return nil, fmt.Errorf("unknown requirement tag %q at %q", node.Tag, at)
}

func parseScalar(node *document.Node, path []string, kind Kind, typeName string) (*Spec, error) {
	vt, err := ParseValueType(typeName)
	if err != nil {
		return nil, fmt.Errorf("requirement at %q: %w", document.JoinPath(path), err)
	}
	spec := &Spec{Kind: kind, Type: vt}

	// A tagged scalar is the bare constraint; a tagged mapping carries
	// fallback/requires metadata.
	if node.Kind == document.KindMapping {
		for _, k := range node.Keys {
			meta := node.Children[k]
			switch k {
			case metaFallback:
				spec.Fallback = meta.Copy()
			case metaRequires:
				name, ok := meta.Value.(string)
				if !ok {
					return nil, fmt.Errorf("requirement at %q: requires must name a component",
						document.JoinPath(path))
				}
				spec.Requires = name
			default:
				return nil, fmt.Errorf("requirement at %q: unknown metadata key %q",
					document.JoinPath(path), k)
			}
		}
	}
	return spec, nil
}

func parseEntries(node *document.Node, path []string) (*Spec, error) {
	if node.Kind != document.KindMapping {
		return nil, fmt.Errorf("entries requirement at %q must be a mapping",
			document.JoinPath(path))
	}
	entry := &Spec{Kind: KindGroup}
	for _, k := range node.Keys {
		child, err := parseNode(node.Children[k], append(path, k))
		if err != nil {
			return nil, err
		}
		entry.addChild(k, child)
	}
	return &Spec{Kind: KindRepeatMarker, Entry: entry}, nil
}

func parseUserDefined(node *document.Node, path []string) (*Spec, error) {
	at := document.JoinPath(path)
	if node.Kind != document.KindMapping {
		return nil, fmt.Errorf("user-defined slot at %q must be a mapping", at)
	}
	spec := &Spec{Kind: KindUserDefinedSlot}
	for _, k := range node.Keys {
		child := node.Children[k]
		switch k {
		case metaPattern:
			raw, ok := child.Value.(string)
			if !ok {
				return nil, fmt.Errorf("user-defined slot at %q: pattern must be a string", at)
			}
			re, err := regexp.Compile("^(?:" + raw + ")$")
			if err != nil {
				return nil, fmt.Errorf("user-defined slot at %q: bad pattern: %w", at, err)
			}
			spec.Pattern = re
		case metaEntries:
			entry, err := parseNode(child, append(path, k))
			if err != nil {
				return nil, err
			}
			spec.Entry = entry
		default:
			return nil, fmt.Errorf("user-defined slot at %q: unknown metadata key %q", at, k)
		}
	}
	if spec.Entry == nil {
		return nil, fmt.Errorf("user-defined slot at %q declares no entries sub-schema", at)
	}
	return spec, nil
}

// IsPseudoProperty reports whether a template field is a synthetic aggregate,
// computed over the concrete document's sibling entries rather than supplied
// by the instance.
func IsPseudoProperty(node *document.Node) bool {
	return node != nil && node.Tag == TagPseudo
}
