package vals

import (
	"fmt"
)

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the kind of the value: "nil", "integer", "float", "bool",
// "string", "array", or the result of the Kind method for types satisfying the
// Kinder interface. For other types, it returns the Go type name of the
// argument preceded by "!!".
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int64:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case List:
		return "array"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// TypeName is like Kind, but returns the name of the user-defined type for
// structs, class instances and enum variants, and "Result" for Result values.
func TypeName(v any) string {
	switch v := v.(type) {
	case Struct:
		return v.Name
	case *Instance:
		return v.Class
	case EnumVariant:
		return v.Enum
	case Object:
		if _, _, ok := ResultOf(v); ok {
			return "Result"
		}
	}
	return Kind(v)
}
