package formula

import (
	"strconv"
	"strings"
)

var parser = Build()

// Contains reports whether a scalar embeds a formula. Literal scalars pass
// through resolution untouched.
func Contains(s string) bool {
	return strings.Contains(s, "${")
}

// Parse parses a scalar holding a single (possibly nested) ${...} expression.
// Leading and trailing whitespace is tolerated; anything else around the
// expression is a MalformedExpression.
func Parse(s string) (*Expression, error) {
	trimmed := strings.TrimSpace(s)
	shift := strings.Index(s, trimmed)
	if shift < 0 {
		shift = 0
	}

	expr, err := parser.ParseString("", trimmed)
	if err != nil {
		return nil, mapError(s, shift, err)
	}
	return expr, nil
}

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
