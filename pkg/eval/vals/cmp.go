package vals

import (
	"math"
)

// Ordering relationship between two values.
type Ordering uint8

// Possible Ordering values.
const (
	CmpLess Ordering = iota
	CmpEqual
	CmpMore
	CmpUncomparable
)

// Cmp compares two values and returns the ordering relationship between them.
// Integers and floats compare numerically with each other; strings, atoms
// and booleans compare among themselves; lists and tuples compare
// lexicographically. Cmp(a, b) returns CmpEqual iff Equal(a, b) is true, a and
// b are numerically equal numbers, or both are NaNs.
func Cmp(a, b any) Ordering {
	switch a := a.(type) {
	case nil:
		if b == nil {
			return CmpEqual
		}
	case bool:
		if b, ok := b.(bool); ok {
			switch {
			case a == b:
				return CmpEqual
			case !a:
				return CmpLess
			default:
				return CmpMore
			}
		}
	case int64:
		switch b := b.(type) {
		case int64:
			return compareBuiltin(a, b)
		case float64:
			return compareFloat(float64(a), b)
		}
	case float64:
		switch b := b.(type) {
		case int64:
			return compareFloat(a, float64(b))
		case float64:
			return compareFloat(a, b)
		}
	case string:
		if b, ok := b.(string); ok {
			return compareBuiltin(a, b)
		}
	case Atom:
		if b, ok := b.(Atom); ok {
			return compareBuiltin(a, b)
		}
	case List:
		if b, ok := b.(List); ok {
			return compareSlices(ListToSlice(a), ListToSlice(b))
		}
	case Tuple:
		if b, ok := b.(Tuple); ok {
			return compareSlices(a, b)
		}
	case EnumVariant:
		if b, ok := b.(EnumVariant); ok && a.Enum == b.Enum && a.Variant == b.Variant {
			return compareSlices(a.Data, b.Data)
		}
	}
	if Equal(a, b) {
		return CmpEqual
	}
	return CmpUncomparable
}

func compareSlices(a, b []any) Ordering {
	for i := 0; i < len(a) && i < len(b); i++ {
		if o := Cmp(a[i], b[i]); o != CmpEqual {
			return o
		}
	}
	return compareBuiltin(len(a), len(b))
}

type builtinOrdered interface{ ~int | ~int64 | ~float64 | ~string }

func compareBuiltin[T builtinOrdered](a, b T) Ordering {
	if a < b {
		return CmpLess
	} else if a > b {
		return CmpMore
	}
	return CmpEqual
}

func compareFloat(a, b float64) Ordering {
	// For the sake of ordering, NaN's are considered equal to each
	// other and smaller than all numbers
	switch {
	case math.IsNaN(a):
		if math.IsNaN(b) {
			return CmpEqual
		}
		return CmpLess
	case math.IsNaN(b):
		return CmpMore
	default:
		return compareBuiltin(a, b)
	}
}
