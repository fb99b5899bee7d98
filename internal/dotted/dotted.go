// Package dotted resolves dotted, wildcard-capable path references against a
// component document tree.
package dotted

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suderio/arcanum/internal/document"
)

// Wildcard is the segment that fans out across every sibling at its level.
const Wildcard = "*"

// Ref is a parsed dotted path. The first segment names the component the
// reference is rooted in.
type Ref []string

// ParseRef splits a dotted string into a Ref, rejecting empty segments.
func ParseRef(s string) (Ref, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path reference")
	}
	segments := strings.Split(s, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("empty segment in path reference %q", s)
		}
	}
	return Ref(segments), nil
}

// String renders the reference in its dotted source form.
func (r Ref) String() string {
	return strings.Join(r, ".")
}

// Component returns the component name the reference is rooted in.
func (r Ref) Component() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// IsLocal reports whether the reference stays inside the named component.
func (r Ref) IsLocal(component string) bool {
	return r.Component() == component
}

// Lookup supplies sibling component documents for cross-component references.
// Implementations answer within the call; absence is not an error here.
type Lookup interface {
	Component(name string) (*document.Node, bool)
}

// UnresolvedComponentReference reports a cross-component reference whose
// target the host could not supply.
type UnresolvedComponentReference struct {
	Component string
	Ref       Ref
}

func (e *UnresolvedComponentReference) Error() string {
	return fmt.Sprintf("unresolved component reference %q: component %q is not available",
		e.Ref, e.Component)
}

// Match is one concrete value a reference expanded to, with the literal
// path that reached it: wildcards are replaced by the key or index they
// matched, so diagnostics can name the exact element.
type Match struct {
	Path Ref
	Node *document.Node
}

// Expand returns the matches for ref under root, in document order. Literal
// segments descend exactly one level; a missing key yields an empty result.
// Wildcards fan out over every sibling key or sequence index, results
// flattened in insertion order with duplicates retained.
func Expand(ref Ref, root *document.Node) []Match {
	if root == nil {
		return nil
	}
	current := []Match{{Node: root}}
	for _, seg := range ref {
		var next []Match
		for _, m := range current {
			next = append(next, descend(m, seg)...)
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// Resolve returns just the values matching ref under root.
func Resolve(ref Ref, root *document.Node) []*document.Node {
	matches := Expand(ref, root)
	if len(matches) == 0 {
		return nil
	}
	out := make([]*document.Node, len(matches))
	for i, m := range matches {
		out[i] = m.Node
	}
	return out
}

func descend(m Match, segment string) []Match {
	node := m.Node
	switch node.Kind {
	case document.KindMapping:
		if segment == Wildcard {
			out := make([]Match, 0, len(node.Keys))
			for _, k := range node.Keys {
				out = append(out, Match{Path: m.Path.extend(k), Node: node.Children[k]})
			}
			return out
		}
		if child := node.Get(segment); child != nil {
			return []Match{{Path: m.Path.extend(segment), Node: child}}
		}
	case document.KindSequence:
		if segment == Wildcard {
			out := make([]Match, 0, len(node.Items))
			for i, item := range node.Items {
				out = append(out, Match{Path: m.Path.extend(strconv.Itoa(i)), Node: item})
			}
			return out
		}
		if idx, err := strconv.Atoi(segment); err == nil && idx >= 0 && idx < len(node.Items) {
			return []Match{{Path: m.Path.extend(segment), Node: node.Items[idx]}}
		}
	}
	return nil
}

func (r Ref) extend(seg string) Ref {
	return append(append(Ref(nil), r...), seg)
}

// ExpandIn expands ref for the component named current, rooted at root.
// References rooted in another component delegate to the host lookup; a
// missing target fails with UnresolvedComponentReference.
func ExpandIn(ref Ref, current string, root *document.Node, host Lookup) ([]Match, error) {
	if ref.IsLocal(current) {
		return Expand(ref, root), nil
	}
	if host != nil {
		if other, ok := host.Component(ref.Component()); ok {
			return Expand(ref, other), nil
		}
	}
	return nil, &UnresolvedComponentReference{Component: ref.Component(), Ref: ref}
}

// ResolveIn is ExpandIn without the element paths.
func ResolveIn(ref Ref, current string, root *document.Node, host Lookup) ([]*document.Node, error) {
	matches, err := ExpandIn(ref, current, root, host)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	out := make([]*document.Node, len(matches))
	for i, m := range matches {
		out[i] = m.Node
	}
	return out, nil
}
