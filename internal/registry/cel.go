package registry

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// RegisterCEL compiles rule-system-defined reducers and registers them by
// name. Each definition is a CEL expression over a `values` variable holding
// the resolved numeric sequence, e.g.:
//
//	functions:
//	  half: "size(values) == 0 ? 0.0 : values[0] / 2.0"
//	  total: "values.map(v, v).size() == 0 ? 0.0 : math.greatest(values)"
//
// Definitions load during setup, before the registry freezes.
func RegisterCEL(r *Registry, defs map[string]string) error {
	if len(defs) == 0 {
		return nil
	}

	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		ext.Math(),
		cel.Variable("values", cel.ListType(cel.DoubleType)),
	)
	if err != nil {
		return fmt.Errorf("failed to create CEL environment: %w", err)
	}

	for name, expression := range defs {
		ast, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("function %q failed to compile: %w", name, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return fmt.Errorf("function %q failed to build: %w", name, err)
		}

		reducer := func(values []float64) (float64, error) {
			out, _, err := prg.Eval(map[string]any{"values": values})
			if err != nil {
				return 0, fmt.Errorf("CEL eval error: %w", err)
			}
			switch v := out.Value().(type) {
			case float64:
				return v, nil
			case int64:
				return float64(v), nil
			}
			return 0, fmt.Errorf("function returned non-numeric value %v", out.Value())
		}
		if err := r.Register(name, reducer); err != nil {
			return err
		}
	}
	return nil
}
