// Package registry maps reducer names to functions over ordered numeric
// value sets. The registry is an open extension point: hosts register extra
// reducers during setup, after which the first evaluation freezes it.
package registry

import (
	"fmt"
	"sync/atomic"
)

// Reducer folds an ordered sequence of numeric values into one result.
type Reducer func(values []float64) (float64, error)

// UnknownFunction reports a formula naming a reducer nobody registered.
type UnknownFunction struct {
	Name string
}

func (e *UnknownFunction) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// Registry holds named reducers. Registration is single-threaded and must
// finish before resolution starts; Apply freezes the registry on first use,
// after which it is safe to share across goroutines.
type Registry struct {
	funcs  map[string]Reducer
	frozen atomic.Bool
}

// New creates a registry preloaded with the built-in reducers.
func New() *Registry {
	r := &Registry{funcs: map[string]Reducer{}}
	r.funcs["sum"] = reduceSum
	r.funcs["min"] = reduceMin
	r.funcs["max"] = reduceMax
	r.funcs["average"] = reduceAverage
	return r
}

// Register adds a named reducer. Registering after resolution has started is
// rejected.
func (r *Registry) Register(name string, fn Reducer) error {
	if r.frozen.Load() {
		return fmt.Errorf("cannot register function %q: registry is frozen", name)
	}
	if name == "" {
		return fmt.Errorf("cannot register reducer with empty name")
	}
	if fn == nil {
		return fmt.Errorf("cannot register nil reducer %q", name)
	}
	r.funcs[name] = fn
	return nil
}

// Freeze marks the registration phase over. Apply calls it implicitly.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Apply runs the named reducer over values. The first call freezes the
// registry.
func (r *Registry) Apply(name string, values []float64) (float64, error) {
	r.Freeze()
	fn, ok := r.funcs[name]
	if !ok {
		return 0, &UnknownFunction{Name: name}
	}
	return fn(values)
}

// Known reports whether a reducer is registered under name.
func (r *Registry) Known(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

func reduceSum(values []float64) (float64, error) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total, nil
}

func reduceMin(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("min requires at least one value")
	}
	lowest := values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest, nil
}

func reduceMax(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("max requires at least one value")
	}
	highest := values[0]
	for _, v := range values[1:] {
		if v > highest {
			highest = v
		}
	}
	return highest, nil
}

func reduceAverage(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values)), nil
}
