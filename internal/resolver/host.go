package resolver

import (
	"github.com/suderio/arcanum/internal/document"
)

// Set is the host-side collection of sibling components available for
// cross-component references during resolution. Documents are served as
// stored: a sibling field still holding an unevaluated formula reads as its
// raw text, so hosts should add resolved documents when siblings carry
// formulas of their own.
type Set struct {
	order      []string
	components map[string]*document.Node
}

// NewSet creates an empty component set.
func NewSet() *Set {
	return &Set{components: map[string]*document.Node{}}
}

// Add registers a component document under its name, replacing any previous
// entry.
func (s *Set) Add(name string, doc *document.Node) {
	if _, exists := s.components[name]; !exists {
		s.order = append(s.order, name)
	}
	s.components[name] = doc
}

// Component implements dotted.Lookup.
func (s *Set) Component(name string) (*document.Node, bool) {
	if s == nil {
		return nil, false
	}
	doc, ok := s.components[name]
	return doc, ok
}

// Names lists the registered components in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}
