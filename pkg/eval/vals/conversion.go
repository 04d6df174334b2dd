package vals

import (
	"fmt"
	"math"
)

// Conversion from values to native Go types, used by builtins to check their
// arguments.

type wrongType struct {
	wantKind string
	gotKind  string
}

func (err wrongType) Error() string {
	return fmt.Sprintf("wrong type: need %s, got %s", err.wantKind, err.gotKind)
}

// WrongType returns an error for a value that is not of the wanted kind.
func WrongType(wantKind string, v any) error {
	return wrongType{wantKind, Kind(v)}
}

// AsInt converts an integer value, or a float with no fractional part, to
// int64.
func AsInt(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	}
	return 0, WrongType("integer", v)
}

// AsFloat converts a numeric value to float64.
func AsFloat(v any) (float64, error) {
	switch v := v.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, WrongType("number", v)
}

// AsString checks that v is a string.
func AsString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", WrongType("string", v)
}

// AsBool checks that v is a bool.
func AsBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, WrongType("bool", v)
}

// AsList checks that v is a list.
func AsList(v any) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return nil, WrongType("array", v)
}

// Truthy returns the truth value of v: nil and false are false, everything
// else is true.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}
