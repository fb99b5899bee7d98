package document

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the three node shapes a component document may hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindMapping
	KindSequence
	KindScalar
)

// String returns a human-readable name for the kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	}
	return "invalid"
}

// Node is one field in a component document tree. Mappings preserve key
// insertion order via Keys; Children is the lookup index for the same keys.
type Node struct {
	Kind  Kind
	Tag   string // custom YAML tag (e.g. "!require.int"), empty for plain nodes
	Value any    // scalar payload: int64, float64, string, bool or nil

	Keys     []string
	Children map[string]*Node

	Items []*Node
}

// NewMapping creates an empty ordered mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping, Children: map[string]*Node{}}
}

// NewSequence creates an empty sequence node.
func NewSequence() *Node {
	return &Node{Kind: KindSequence}
}

// NewScalar creates a scalar node holding v.
func NewScalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// Get returns the child under key, or nil if absent or not a mapping.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	return n.Children[key]
}

// Set inserts or replaces the child under key, preserving first-insertion order.
func (n *Node) Set(key string, child *Node) {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	if _, exists := n.Children[key]; !exists {
		n.Keys = append(n.Keys, key)
	}
	n.Children[key] = child
}

// Delete removes the child under key, if present.
func (n *Node) Delete(key string) {
	if n == nil || n.Kind != KindMapping {
		return
	}
	if _, exists := n.Children[key]; !exists {
		return
	}
	delete(n.Children, key)
	for i, k := range n.Keys {
		if k == key {
			n.Keys = append(n.Keys[:i], n.Keys[i+1:]...)
			break
		}
	}
}

// Append adds an item to a sequence node.
func (n *Node) Append(item *Node) {
	n.Items = append(n.Items, item)
}

// IsNumber reports whether the node is a numeric scalar.
func (n *Node) IsNumber() bool {
	if n == nil || n.Kind != KindScalar {
		return false
	}
	switch n.Value.(type) {
	case int64, float64:
		return true
	}
	return false
}

// Float returns the numeric scalar value as a float64.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.Kind != KindScalar {
		return 0, false
	}
	switch v := n.Value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// String returns the scalar as its string form; non-scalars report their kind.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindScalar {
		if n.Value == nil {
			return "null"
		}
		return fmt.Sprintf("%v", n.Value)
	}
	return n.Kind.String()
}

// TypeName names the concrete value a node holds, for error messages.
func (n *Node) TypeName() string {
	if n == nil {
		return "absent"
	}
	if n.Kind != KindScalar {
		return n.Kind.String()
	}
	switch n.Value.(type) {
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case bool:
		return "bool"
	case nil:
		return "null"
	}
	return "scalar"
}

// Copy returns a deep copy of the node tree.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value}
	if n.Kind == KindMapping {
		out.Children = make(map[string]*Node, len(n.Children))
		out.Keys = append([]string(nil), n.Keys...)
		for _, k := range n.Keys {
			out.Children[k] = n.Children[k].Copy()
		}
	}
	if n.Kind == KindSequence {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Copy()
		}
	}
	return out
}

// Equal reports deep equality of two node trees, including key order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || n.Tag != other.Tag {
		return false
	}
	switch n.Kind {
	case KindScalar:
		return n.Value == other.Value
	case KindSequence:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(n.Keys) != len(other.Keys) {
			return false
		}
		for i, k := range n.Keys {
			if other.Keys[i] != k {
				return false
			}
			if !n.Children[k].Equal(other.Children[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// Walk visits every node depth-first in document order. The path passed to fn
// is the dotted location of the node; sequence items use their index.
func (n *Node) Walk(fn func(path []string, node *Node)) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func(path []string, node *Node)) {
	if n == nil {
		return
	}
	fn(path, n)
	switch n.Kind {
	case KindMapping:
		for _, k := range n.Keys {
			child := append(append([]string(nil), path...), k)
			n.Children[k].walk(child, fn)
		}
	case KindSequence:
		for i, item := range n.Items {
			child := append(append([]string(nil), path...), fmt.Sprintf("%d", i))
			item.walk(child, fn)
		}
	}
}

// SortedKeys returns the mapping keys in lexical order. Mostly useful for
// stable test output; document order itself lives in Keys.
func (n *Node) SortedKeys() []string {
	keys := append([]string(nil), n.Keys...)
	sort.Strings(keys)
	return keys
}

// JoinPath renders a walk path as a dotted string.
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}
