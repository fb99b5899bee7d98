package resolver

import (
	"fmt"

	"github.com/suderio/arcanum/internal/document"
)

// IssueCode identifies the kind of defect a resolution found.
type IssueCode string

const (
	// IssueMalformedExpression is a formula scalar that failed to parse.
	IssueMalformedExpression IssueCode = "malformed-expression"
	// IssueUnknownFunction is a formula naming an unregistered reducer.
	IssueUnknownFunction IssueCode = "unknown-function"
	// IssueTypeMismatch is an operand or field value of the wrong kind.
	IssueTypeMismatch IssueCode = "type-mismatch"
	// IssueUnresolvedComponent is a cross-component reference the host
	// could not supply and no fallback recovered.
	IssueUnresolvedComponent IssueCode = "unresolved-component-reference"
	// IssueRequirementUnmet is a required field with no value and no
	// fallback.
	IssueRequirementUnmet IssueCode = "requirement-unmet"
	// IssueSchemaShapeViolation is a user-defined entry that does not match
	// its declared sub-schema.
	IssueSchemaShapeViolation IssueCode = "schema-shape-violation"
	// IssueFormulaCycle is a formula field caught in a dependency cycle.
	IssueFormulaCycle IssueCode = "formula-cycle"
)

// Issue is one defect, attributed to a field path. Requirement checking is
// exhaustive, so one rejected report carries every issue found in the pass.
type Issue struct {
	Code        IssueCode `json:"code"`
	Path        string    `json:"path"`
	Diagnostics string    `json:"diagnostics,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Diagnostics)
}

// Report is the terminal state of resolving one component document:
// Resolved with the fully evaluated document, or Rejected with the full
// issue list. Document is populated either way so callers can inspect how
// far resolution got.
type Report struct {
	Component string         `json:"component"`
	Resolved  bool           `json:"resolved"`
	Issues    []Issue        `json:"issues,omitempty"`
	Document  *document.Node `json:"-"`
}

func (r *Report) add(code IssueCode, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Code:        code,
		Path:        path,
		Diagnostics: fmt.Sprintf(format, args...),
	})
}

// Summary renders a one-line outcome for CLI output.
func (r *Report) Summary() string {
	if r.Resolved {
		return fmt.Sprintf("%s: resolved", r.Component)
	}
	return fmt.Sprintf("%s: rejected (%d issues)", r.Component, len(r.Issues))
}
