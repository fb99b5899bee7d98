package formula

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// MalformedExpression reports a formula that failed to parse. Offset is the
// 0-based character offset of the problem within the original scalar.
type MalformedExpression struct {
	Input  string
	Offset int
	Detail string
}

func (e *MalformedExpression) Error() string {
	return fmt.Sprintf("malformed expression %q at offset %d: %s",
		e.Input, e.Offset, e.Detail)
}

// mapError converts a participle failure into a MalformedExpression carrying
// the offending input and character offset.
func mapError(input string, shift int, err error) error {
	offset := 0
	detail := err.Error()

	var perr participle.Error
	if errors.As(err, &perr) {
		offset = perr.Position().Offset
		detail = perr.Message()
	}

	return &MalformedExpression{
		Input:  input,
		Offset: offset + shift,
		Detail: detail,
	}
}
