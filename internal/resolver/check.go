package resolver

import (
	"fmt"
	"strconv"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/schema"
)

// check walks the requirements tree against the working document. It never
// stops at the first defect: every unmet requirement, type error and shape
// violation lands on the report.
func (ev *evaluation) check(spec *schema.Spec, path []string) {
	switch spec.Kind {
	case schema.KindGroup:
		for _, key := range spec.Keys {
			ev.check(spec.Children[key], append(path, key))
		}
	case schema.KindRequiredScalar:
		ev.checkScalar(spec, path, true)
	case schema.KindOptionalScalar:
		ev.checkScalar(spec, path, false)
	case schema.KindRepeatMarker:
		ev.checkEntries(spec, path)
	case schema.KindUserDefinedSlot:
		ev.checkUserDefined(spec, path)
	}
}

func (ev *evaluation) checkScalar(spec *schema.Spec, path []string, required bool) {
	at := document.JoinPath(path)
	ev.handled[at] = true

	value := getPath(ev.root, path)
	failure := ev.failed[at]

	if value == nil || failure != nil {
		// Preferred resolution failed; a declared fallback recovers the
		// field, otherwise a required field rejects.
		if spec.Fallback != nil {
			setPath(ev.root, path, spec.Fallback.Copy())
			ev.clearFailed(at)
			ev.checkType(spec, path)
			return
		}
		if required {
			ev.report.add(IssueRequirementUnmet, at, "%s", unmetDiagnostic(spec, failure))
			ev.clearFailed(at)
			return
		}
		// Optional field that failed to resolve: drop the unresolved
		// formula rather than leaving it dangling.
		if failure != nil {
			deletePath(ev.root, path)
			ev.clearFailed(at)
		}
		return
	}

	ev.checkType(spec, path)
}

func (ev *evaluation) checkType(spec *schema.Spec, path []string) {
	value := getPath(ev.root, path)
	if value == nil {
		return
	}
	if !spec.Type.Check(value) {
		ev.report.add(IssueTypeMismatch, document.JoinPath(path),
			"expected %s, got %s", spec.Type.Diagnostic(), value.TypeName())
	}
}

func unmetDiagnostic(spec *schema.Spec, failure error) string {
	switch {
	case failure != nil && spec.Requires != "":
		return fmt.Sprintf("required field unresolved (%v) and no fallback declared; depends on component %q",
			failure, spec.Requires)
	case failure != nil:
		return fmt.Sprintf("required field unresolved (%v) and no fallback declared", failure)
	case spec.Requires != "":
		return fmt.Sprintf("required field is missing; depends on component %q", spec.Requires)
	}
	return "required field is missing and no fallback is declared"
}

func (ev *evaluation) checkEntries(spec *schema.Spec, path []string) {
	value := getPath(ev.root, path)
	if value == nil {
		return
	}
	if value.Kind != document.KindSequence {
		ev.report.add(IssueSchemaShapeViolation, document.JoinPath(path),
			"expected a sequence of entries, got %s", value.TypeName())
		return
	}
	for i := range value.Items {
		ev.check(spec.Entry, append(path, strconv.Itoa(i)))
	}
}

// checkUserDefined validates a grouped extension point: instance-chosen keys
// must match the declared naming pattern and each entry must match the
// sub-schema structurally.
func (ev *evaluation) checkUserDefined(spec *schema.Spec, path []string) {
	value := getPath(ev.root, path)
	if value == nil {
		return
	}
	at := document.JoinPath(path)
	if value.Kind != document.KindMapping {
		ev.report.add(IssueSchemaShapeViolation, at,
			"expected a mapping of user-defined entries, got %s", value.TypeName())
		return
	}
	for _, key := range value.Keys {
		if spec.Pattern != nil && !spec.Pattern.MatchString(key) {
			ev.report.add(IssueSchemaShapeViolation, at,
				"entry key %q does not match naming pattern %q", key, spec.Pattern)
			continue
		}
		ev.checkShape(spec.Entry, append(path, key))
	}
}

// checkShape is the structural variant of check used under user-defined
// slots: defects are shape violations, not requirement failures.
func (ev *evaluation) checkShape(spec *schema.Spec, path []string) {
	at := document.JoinPath(path)
	switch spec.Kind {
	case schema.KindGroup:
		node := getPath(ev.root, path)
		if node == nil || node.Kind != document.KindMapping {
			ev.report.add(IssueSchemaShapeViolation, at,
				"expected a mapping, got %s", node.TypeName())
			return
		}
		for _, key := range spec.Keys {
			ev.checkShape(spec.Children[key], append(path, key))
		}
	case schema.KindRequiredScalar, schema.KindOptionalScalar:
		ev.handled[at] = true
		value := getPath(ev.root, path)
		failure := ev.failed[at]
		if value == nil || failure != nil {
			ev.clearFailed(at)
			if spec.Kind == schema.KindRequiredScalar {
				ev.report.add(IssueSchemaShapeViolation, at, "%s", shapeDiagnostic(failure))
			}
			return
		}
		if !spec.Type.Check(value) {
			ev.report.add(IssueSchemaShapeViolation, at,
				"expected %s, got %s", spec.Type.Diagnostic(), value.TypeName())
		}
	case schema.KindRepeatMarker:
		ev.checkEntries(spec, path)
	case schema.KindUserDefinedSlot:
		ev.checkUserDefined(spec, path)
	}
}

func shapeDiagnostic(failure error) string {
	if failure == nil {
		return "entry is missing a required field"
	}
	return fmt.Sprintf("entry field unresolved: %v", failure)
}
