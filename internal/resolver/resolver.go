// Package resolver is the document overlay engine: it merges a concrete
// component instance with its template skeleton, evaluates embedded
// formulas, and checks the result against the requirements schema, producing
// one exhaustive report per document.
package resolver

import (
	"strconv"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/dotted"
	"github.com/suderio/arcanum/internal/registry"
	"github.com/suderio/arcanum/internal/schema"
)

// Options carries the collaborators a resolution needs. Component names the
// document being resolved (its root key); references rooted elsewhere go
// through Host.
type Options struct {
	Component string
	Host      dotted.Lookup
	Registry  *registry.Registry
}

// Resolve produces a resolved component document or a rejection enumerating
// every defect found. It is a pure function of its inputs: the instance,
// template and requirements are never mutated, and identical inputs yield
// identical reports.
func Resolve(instance *document.Node, template *document.Node, reqs *schema.Spec, opts Options) *Report {
	report := &Report{Component: opts.Component}

	working := instance.Copy()
	if working == nil {
		working = document.NewMapping()
	}
	if template != nil {
		materialize(working, template)
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	ev := &evaluation{
		component: opts.Component,
		root:      working,
		host:      opts.Host,
		reg:       reg,
		reqs:      reqs,
		report:    report,
		failed:    map[string]error{},
		handled:   map[string]bool{},
	}
	ev.collect()
	ev.evaluate()

	if reqs != nil {
		ev.check(reqs, nil)
	}
	ev.reportLeftoverFailures()

	report.Resolved = len(report.Issues) == 0
	report.Document = working
	return report
}

// materialize fills fields the instance omits with the template's defaults.
// Instance data always wins: mappings merge recursively, but a concrete
// scalar or sequence is never replaced by a template default. Pseudo-property
// formulas copied here therefore expand against the instance's own entries,
// not the template's placeholders.
func materialize(working, template *document.Node) {
	if working.Kind != document.KindMapping || template.Kind != document.KindMapping {
		return
	}
	for _, key := range template.Keys {
		def := template.Children[key]
		current := working.Get(key)
		if current == nil {
			working.Set(key, stripPseudoTags(def.Copy()))
			continue
		}
		if current.Kind == document.KindMapping && def.Kind == document.KindMapping {
			materialize(current, def)
		}
	}
}

// stripPseudoTags drops template-only tags from copied defaults so the
// working document stays a plain value tree.
func stripPseudoTags(n *document.Node) *document.Node {
	if n == nil {
		return nil
	}
	if n.Tag == schema.TagPseudo {
		n.Tag = ""
	}
	for _, k := range n.Keys {
		stripPseudoTags(n.Children[k])
	}
	for _, item := range n.Items {
		stripPseudoTags(item)
	}
	return n
}

// getPath walks a field path; segments into sequences are numeric indices.
func getPath(root *document.Node, path []string) *document.Node {
	node := root
	for _, seg := range path {
		if node == nil {
			return nil
		}
		switch node.Kind {
		case document.KindMapping:
			node = node.Get(seg)
		case document.KindSequence:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Items) {
				return nil
			}
			node = node.Items[idx]
		default:
			return nil
		}
	}
	return node
}

// setPath replaces (or creates) the value at path, building intermediate
// mappings as needed. Used for formula results and fallback substitution.
func setPath(root *document.Node, path []string, value *document.Node) {
	node := root
	for i, seg := range path {
		last := i == len(path)-1
		switch node.Kind {
		case document.KindMapping:
			if last {
				node.Set(seg, value)
				return
			}
			child := node.Get(seg)
			if child == nil {
				child = document.NewMapping()
				node.Set(seg, child)
			}
			node = child
		case document.KindSequence:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Items) {
				return
			}
			if last {
				node.Items[idx] = value
				return
			}
			node = node.Items[idx]
		default:
			return
		}
	}
}

// deletePath removes the field at path, if present.
func deletePath(root *document.Node, path []string) {
	if len(path) == 0 {
		return
	}
	parent := getPath(root, path[:len(path)-1])
	if parent != nil && parent.Kind == document.KindMapping {
		parent.Delete(path[len(path)-1])
	}
}
