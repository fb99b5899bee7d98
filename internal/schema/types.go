package schema

import (
	"fmt"
	"strings"

	"github.com/suderio/arcanum/internal/document"
)

// ValueType is the closed set of type constraints a requirement may declare.
type ValueType int

const (
	TypeAny ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeListInt
	TypeListFloat
	TypeListString
)

// ParseValueType maps a tag suffix ("int", "list.int", ...) to a ValueType.
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case "any":
		return TypeAny, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "str", "string":
		return TypeString, nil
	case "bool":
		return TypeBool, nil
	case "list.int":
		return TypeListInt, nil
	case "list.float":
		return TypeListFloat, nil
	case "list.str", "list.string":
		return TypeListString, nil
	}
	return TypeAny, fmt.Errorf("unknown type constraint %q", name)
}

// String renders the constraint the way the requirement tags spell it.
func (t ValueType) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "str"
	case TypeBool:
		return "bool"
	case TypeListInt:
		return "list.int"
	case TypeListFloat:
		return "list.float"
	case TypeListString:
		return "list.str"
	}
	return "invalid"
}

// Check reports whether node satisfies the constraint.
func (t ValueType) Check(node *document.Node) bool {
	if node == nil {
		return false
	}
	switch t {
	case TypeAny:
		return true
	case TypeInt:
		_, ok := node.Value.(int64)
		return node.Kind == document.KindScalar && ok
	case TypeFloat:
		if node.Kind != document.KindScalar {
			return false
		}
		switch node.Value.(type) {
		case float64, int64:
			return true
		}
		return false
	case TypeString:
		_, ok := node.Value.(string)
		return node.Kind == document.KindScalar && ok
	case TypeBool:
		_, ok := node.Value.(bool)
		return node.Kind == document.KindScalar && ok
	case TypeListInt, TypeListFloat, TypeListString:
		if node.Kind != document.KindSequence {
			return false
		}
		elem := t.elemType()
		for _, item := range node.Items {
			if !elem.Check(item) {
				return false
			}
		}
		return true
	}
	return false
}

func (t ValueType) elemType() ValueType {
	switch t {
	case TypeListInt:
		return TypeInt
	case TypeListFloat:
		return TypeFloat
	case TypeListString:
		return TypeString
	}
	return TypeAny
}

// list tag suffixes use dots; the human-facing constraint in diagnostics uses
// a space ("list int") to match how rule authors write it.
func (t ValueType) Diagnostic() string {
	return strings.ReplaceAll(t.String(), ".", " ")
}
