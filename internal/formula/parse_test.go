package formula_test

import (
	"errors"
	"testing"

	"github.com/suderio/arcanum/internal/formula"
)

func TestParseBarePath(t *testing.T) {
	expr, err := formula.Parse("${ability.constitution.score}")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if expr.Path == nil {
		t.Fatalf("Expected a path expression, got %+v", expr)
	}

	want := []string{"ability", "constitution", "score"}
	if len(expr.Path.Segments) != len(want) {
		t.Fatalf("Expected %d segments, got %v", len(want), expr.Path.Segments)
	}
	for i, seg := range want {
		if expr.Path.Segments[i] != seg {
			t.Errorf("Segment %d: expected %s, got %s", i, seg, expr.Path.Segments[i])
		}
	}
}

func TestParseWildcardCall(t *testing.T) {
	expr, err := formula.Parse("${sum(${health.current.*})}")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if expr.Call == nil {
		t.Fatalf("Expected a call expression, got %+v", expr)
	}
	if expr.Call.Func != "sum" {
		t.Errorf("Expected function sum, got %s", expr.Call.Func)
	}
	if len(expr.Call.Args) != 1 {
		t.Fatalf("Expected 1 argument, got %d", len(expr.Call.Args))
	}

	arg := expr.Call.Args[0]
	if arg.Formula == nil || arg.Formula.Path == nil {
		t.Fatalf("Expected a nested path formula argument, got %+v", arg)
	}
	if arg.Formula.Path.String() != "health.current.*" {
		t.Errorf("Unexpected nested path: %s", arg.Formula.Path)
	}
}

func TestParseNestedFormula(t *testing.T) {
	expr, err := formula.Parse("${min(0, ${ability.constitution.score})}")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if expr.Call == nil || expr.Call.Func != "min" {
		t.Fatalf("Expected a min call, got %+v", expr)
	}
	if len(expr.Call.Args) != 2 {
		t.Fatalf("Expected 2 arguments, got %d", len(expr.Call.Args))
	}

	if expr.Call.Args[0].Number == nil || *expr.Call.Args[0].Number != 0 {
		t.Errorf("Expected numeric literal 0, got %+v", expr.Call.Args[0])
	}
	if expr.Call.Args[1].Formula == nil {
		t.Errorf("Expected nested formula argument, got %+v", expr.Call.Args[1])
	}
}

func TestParseHyphenatedKeys(t *testing.T) {
	expr, err := formula.Parse("${sum(${health.maximum.class.*.hit-points})}")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	refs := expr.References()
	if len(refs) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(refs))
	}
	if refs[0].String() != "health.maximum.class.*.hit-points" {
		t.Errorf("Unexpected reference: %s", refs[0])
	}
}

func TestParseRoundTrip(t *testing.T) {
	src := "${min(0, ${ability.constitution.score})}"
	expr, err := formula.Parse(src)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if expr.String() != src {
		t.Errorf("Round trip mismatch: %s", expr.String())
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"${sum(${health.current.*})",   // unmatched brace
		"${sum(}",                      // missing argument
		"${health..current}",           // empty path segment
		"${min(0 1)}",                  // missing comma
		"${}",                          // empty expression
		"${sum(1)} trailing",           // garbage after the expression
	}
	for _, src := range cases {
		_, err := formula.Parse(src)
		if err == nil {
			t.Errorf("Expected parse failure for %q", src)
			continue
		}
		var malformed *formula.MalformedExpression
		if !errors.As(err, &malformed) {
			t.Errorf("Expected MalformedExpression for %q, got %T", src, err)
			continue
		}
		if malformed.Input != src {
			t.Errorf("Error should carry the input, got %q", malformed.Input)
		}
		if malformed.Offset < 0 || malformed.Offset > len(src) {
			t.Errorf("Offset %d out of range for %q", malformed.Offset, src)
		}
	}
}

func TestContains(t *testing.T) {
	if formula.Contains("plain scalar") {
		t.Error("Literal scalar should not register as a formula")
	}
	if !formula.Contains("${sum(${health.current.*})}") {
		t.Error("Formula scalar should be detected")
	}
}
