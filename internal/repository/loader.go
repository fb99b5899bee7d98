// Package repository reads rule-system component records from a file tree.
// Each component lives in a system directory as up to three parallel YAML
// documents: the concrete instance, a default template, and a requirements
// schema:
//
//	<system>/<name>.yaml
//	<system>/<name>.template.yaml
//	<system>/<name>.requirements.yaml
//
// A system may also ship a functions.yaml declaring extra reducers.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/resolver"
	"github.com/suderio/arcanum/internal/schema"
)

const (
	extYAML         = ".yaml"
	suffixTemplate  = ".template" + extYAML
	suffixRequire   = ".requirements" + extYAML
	functionsRecord = "functions" + extYAML
)

// Loader reads records by searching an ordered data directory hierarchy;
// the first directory holding the record wins.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a Loader with the given data directory fallback
// hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{dataDirs: dataDirs}
}

// LoadComponent reads and decodes the concrete instance document.
func (l *Loader) LoadComponent(system, name string) (*document.Node, error) {
	return l.loadDocument(filepath.Join(system, name+extYAML))
}

// LoadTemplate reads the template skeleton. A missing template is not an
// error; it returns (nil, nil).
func (l *Loader) LoadTemplate(system, name string) (*document.Node, error) {
	doc, err := l.loadDocument(filepath.Join(system, name+suffixTemplate))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// LoadRequirements reads and parses the requirements schema. A missing
// schema is not an error; it returns (nil, nil).
func (l *Loader) LoadRequirements(system, name string) (*schema.Spec, error) {
	doc, err := l.loadDocument(filepath.Join(system, name+suffixRequire))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	spec, err := schema.ParseRequirements(doc)
	if err != nil {
		return nil, fmt.Errorf("bad requirements for %s/%s: %w", system, name, err)
	}
	return spec, nil
}

// LoadFunctions reads the system's reducer definitions, if any.
func (l *Loader) LoadFunctions(system string) (map[string]string, error) {
	raw, err := l.read(filepath.Join(system, functionsRecord))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var record struct {
		Functions map[string]string `yaml:"functions"`
	}
	if err := yaml.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s functions: %w", system, err)
	}
	return record.Functions, nil
}

// Components lists the component names available in a system, across all
// data directories, sorted and deduplicated. Template, requirements and
// functions records are not components.
func (l *Loader) Components(system string) ([]string, error) {
	seen := map[string]bool{}
	found := false
	for _, dir := range l.dataDirs {
		entries, err := os.ReadDir(filepath.Join(dir, system))
		if err != nil {
			continue
		}
		found = true
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, extYAML) {
				continue
			}
			if name == functionsRecord ||
				strings.HasSuffix(name, suffixTemplate) ||
				strings.HasSuffix(name, suffixRequire) {
				continue
			}
			seen[strings.TrimSuffix(name, extYAML)] = true
		}
	}
	if !found {
		return nil, fmt.Errorf("could not find system %q in any available data directory", system)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadSet loads every component in a system into a resolver.Set for
// cross-component lookup.
func (l *Loader) LoadSet(system string) (*resolver.Set, error) {
	names, err := l.Components(system)
	if err != nil {
		return nil, err
	}
	set := resolver.NewSet()
	for _, name := range names {
		doc, err := l.LoadComponent(system, name)
		if err != nil {
			return nil, err
		}
		set.Add(name, doc)
	}
	return set, nil
}

func (l *Loader) loadDocument(ref string) (*document.Node, error) {
	raw, err := l.read(ref)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
	}
	return doc, nil
}

func (l *Loader) read(ref string) ([]byte, error) {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		raw, err := os.ReadFile(path)
		if err == nil {
			return raw, nil
		}
	}
	return nil, &notFoundError{ref: ref}
}

type notFoundError struct {
	ref string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("could not find or open reference %s in any available data directory", e.ref)
}

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}
