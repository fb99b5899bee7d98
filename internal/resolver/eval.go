package resolver

import (
	"errors"
	"fmt"
	"math"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/dotted"
	"github.com/suderio/arcanum/internal/formula"
	"github.com/suderio/arcanum/internal/registry"
	"github.com/suderio/arcanum/internal/schema"
)

// formulaField is one scalar in the working document that holds a ${...}
// expression awaiting evaluation.
type formulaField struct {
	path []string
	raw  string
	expr *formula.Expression
	done bool
}

// typeMismatch is an operand that resolved to a non-numeric value.
type typeMismatch struct {
	path string
	kind string
}

func (e *typeMismatch) Error() string {
	return fmt.Sprintf("type mismatch at %s: expected a number, got %s", e.path, e.kind)
}

// emptyReference marks a bare reference that matched nothing. Recoverable:
// the requirements pass decides between fallback and RequirementUnmet.
type emptyReference struct {
	ref dotted.Ref
}

func (e *emptyReference) Error() string {
	return fmt.Sprintf("reference %q matched no value", e.ref)
}

type evaluation struct {
	component string
	root      *document.Node
	host      dotted.Lookup
	reg       *registry.Registry
	reqs      *schema.Spec
	report    *Report

	fields []*formulaField
	// failed maps field paths to recoverable resolution failures, in the
	// order recorded (failedOrder keeps rejection reports deterministic).
	failed      map[string]error
	failedOrder []string
	// handled marks fields the requirements pass has already judged.
	handled map[string]bool
}

// collect finds every formula scalar in the working document, in document
// order. Parse failures are attributed to the field and halt only that one
// expression.
func (ev *evaluation) collect() {
	ev.root.Walk(func(path []string, node *document.Node) {
		if node.Kind != document.KindScalar {
			return
		}
		raw, ok := node.Value.(string)
		if !ok || !formula.Contains(raw) {
			return
		}
		expr, err := formula.Parse(raw)
		if err != nil {
			ev.report.add(IssueMalformedExpression, document.JoinPath(path), "%v", err)
			return
		}
		ev.fields = append(ev.fields, &formulaField{path: path, raw: raw, expr: expr})
	})
}

// evaluate runs the two-pass scheme: literals are already in place, so
// formula fields evaluate in dependency order over their local references.
// Fields left after no progress is possible form a cycle.
func (ev *evaluation) evaluate() {
	pending := len(ev.fields)
	for pending > 0 {
		progressed := false
		for _, field := range ev.fields {
			if field.done {
				continue
			}
			if ev.blocked(field) {
				continue
			}
			ev.evalField(field)
			field.done = true
			pending--
			progressed = true
		}
		if !progressed {
			for _, field := range ev.fields {
				if !field.done {
					ev.report.add(IssueFormulaCycle, document.JoinPath(field.path),
						"formula %s participates in a reference cycle", field.raw)
					field.done = true
					pending--
				}
			}
		}
	}
}

// blocked reports whether any local reference of the field can still reach
// an unevaluated formula.
func (ev *evaluation) blocked(field *formulaField) bool {
	for _, p := range field.expr.References() {
		ref := dotted.Ref(p.Segments)
		if !ref.IsLocal(ev.component) {
			continue
		}
		for _, other := range ev.fields {
			if other == field || other.done {
				continue
			}
			if refCovers(ref, other.path) {
				return true
			}
		}
	}
	return false
}

// refCovers reports whether a (possibly wildcard) reference can address the
// given field path or any field beneath it.
func refCovers(ref dotted.Ref, path []string) bool {
	n := len(ref)
	if len(path) < n {
		n = len(path)
	}
	for i := 0; i < n; i++ {
		if ref[i] != dotted.Wildcard && ref[i] != path[i] {
			return false
		}
	}
	return true
}

func (ev *evaluation) evalField(field *formulaField) {
	at := document.JoinPath(field.path)

	// Bare reference: substitute the single matching value, keeping its
	// concrete type.
	if field.expr.Path != nil {
		ref := dotted.Ref(field.expr.Path.Segments)
		values, err := dotted.ResolveIn(ref, ev.component, ev.root, ev.host)
		if err != nil {
			ev.failRecoverable(field.path, err)
			return
		}
		switch len(values) {
		case 0:
			ev.failRecoverable(field.path, &emptyReference{ref: ref})
		case 1:
			setPath(ev.root, field.path, values[0].Copy())
		default:
			ev.report.add(IssueTypeMismatch, at,
				"reference %q matched %d values where one was expected", ref, len(values))
		}
		return
	}

	result, err := ev.evalCall(field.expr.Call)
	if err != nil {
		ev.recordEvalError(field.path, err)
		return
	}
	setPath(ev.root, field.path, numericScalar(result))
}

// evalCall resolves every argument to its numeric values and applies the
// named reducer.
func (ev *evaluation) evalCall(call *formula.Call) (float64, error) {
	var values []float64
	for _, arg := range call.Args {
		vals, err := ev.evalArg(arg)
		if err != nil {
			return 0, err
		}
		values = append(values, vals...)
	}
	return ev.reg.Apply(call.Func, values)
}

func (ev *evaluation) evalArg(arg *formula.Arg) ([]float64, error) {
	switch {
	case arg.Number != nil:
		return []float64{*arg.Number}, nil
	case arg.Path != nil:
		return ev.resolveNumeric(dotted.Ref(arg.Path.Segments))
	case arg.Formula != nil:
		if arg.Formula.Path != nil {
			return ev.resolveNumeric(dotted.Ref(arg.Formula.Path.Segments))
		}
		v, err := ev.evalCall(arg.Formula.Call)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
	return nil, fmt.Errorf("empty argument")
}

// resolveNumeric fans a reference out to its matching values and coerces
// each to a number. An empty match is a valid empty operand set; a
// non-numeric element fails naming the element's concrete path.
func (ev *evaluation) resolveNumeric(ref dotted.Ref) ([]float64, error) {
	matches, err := dotted.ExpandIn(ref, ev.component, ev.root, ev.host)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, ok := m.Node.Float()
		if !ok {
			return nil, &typeMismatch{path: m.Path.String(), kind: m.Node.TypeName()}
		}
		values = append(values, v)
	}
	return values, nil
}

// recordEvalError classifies a call failure: unresolved components stay
// recoverable; everything else is a hard issue.
func (ev *evaluation) recordEvalError(path []string, err error) {
	at := document.JoinPath(path)

	var unresolved *dotted.UnresolvedComponentReference
	if errors.As(err, &unresolved) {
		ev.failRecoverable(path, err)
		return
	}

	var unknown *registry.UnknownFunction
	if errors.As(err, &unknown) {
		ev.report.add(IssueUnknownFunction, at, "%v", err)
		return
	}

	var mismatch *typeMismatch
	if errors.As(err, &mismatch) {
		ev.report.add(IssueTypeMismatch, at, "%v", err)
		return
	}

	ev.report.add(IssueTypeMismatch, at, "%v", err)
}

// failRecoverable records a recoverable resolution failure. A field whose
// requirement declares a fallback takes it immediately, so formulas that
// depend on the field evaluate against the fallback value rather than the
// field's unresolved text.
func (ev *evaluation) failRecoverable(path []string, err error) {
	if spec := ev.specFor(path); spec != nil && spec.Fallback != nil {
		setPath(ev.root, path, spec.Fallback.Copy())
		return
	}
	ev.markFailed(document.JoinPath(path), err)
}

// specFor walks the requirements tree to the spec governing a field path.
// Segments under a repeat marker are sequence indices; segments under a
// user-defined slot are instance-chosen keys. Both descend into the entry
// sub-schema.
func (ev *evaluation) specFor(path []string) *schema.Spec {
	spec := ev.reqs
	for _, seg := range path {
		if spec == nil {
			return nil
		}
		switch spec.Kind {
		case schema.KindGroup:
			spec = spec.Child(seg)
		case schema.KindRepeatMarker, schema.KindUserDefinedSlot:
			spec = spec.Entry
		default:
			return nil
		}
	}
	return spec
}

func (ev *evaluation) markFailed(at string, err error) {
	if _, exists := ev.failed[at]; !exists {
		ev.failedOrder = append(ev.failedOrder, at)
	}
	ev.failed[at] = err
}

func (ev *evaluation) clearFailed(at string) {
	if _, exists := ev.failed[at]; !exists {
		return
	}
	delete(ev.failed, at)
	for i, p := range ev.failedOrder {
		if p == at {
			ev.failedOrder = append(ev.failedOrder[:i], ev.failedOrder[i+1:]...)
			break
		}
	}
}

// reportLeftoverFailures surfaces recoverable failures no requirement spec
// claimed, so nothing is silently swallowed.
func (ev *evaluation) reportLeftoverFailures() {
	for _, at := range ev.failedOrder {
		if ev.handled[at] {
			continue
		}
		err := ev.failed[at]
		var unresolved *dotted.UnresolvedComponentReference
		if errors.As(err, &unresolved) {
			ev.report.add(IssueUnresolvedComponent, at, "%v", err)
			continue
		}
		ev.report.add(IssueRequirementUnmet, at, "%v", err)
	}
}

// numericScalar renders a reducer result as an int when it is integral,
// matching how rule data writes whole numbers.
func numericScalar(v float64) *document.Node {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return document.NewScalar(int64(v))
	}
	return document.NewScalar(v)
}
