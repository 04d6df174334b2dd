package vals

import (
	"reflect"
)

// Equaler wraps the Equal method.
type Equaler interface {
	// Equal compares the receiver to another value. Two equal values must have
	// the same hash code.
	Equal(other any) bool
}

// Equal returns whether two values are structurally equal. Numbers of
// different types are never equal; the interpreter promotes them before
// comparing. Class instances are equal only to themselves. For types not
// known to Equal and not satisfying the Equaler interface, it uses
// reflect.DeepEqual.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case nil:
		return y == nil
	case bool:
		return x == y
	case int64:
		return x == y
	case float64:
		return x == y
	case string:
		return x == y
	case Atom:
		return x == y
	case Range:
		return x == y
	case List:
		if y, ok := y.(List); ok {
			return equalList(x, y)
		}
		return false
	case Tuple:
		if y, ok := y.(Tuple); ok {
			return equalSlice(x, y)
		}
		return false
	case Object:
		switch y := y.(type) {
		case Object:
			return equalMap(x.mp(), y.mp())
		case *ObjectMut:
			return equalMap(x.mp(), y.Snapshot().mp())
		}
		return false
	case *ObjectMut:
		return Equal(x.Snapshot(), y)
	case Set:
		if y, ok := y.(Set); ok {
			return equalMap(x.mp(), y.mp())
		}
		return false
	case Struct:
		if y, ok := y.(Struct); ok {
			return x.Name == y.Name && equalMap(x.mp(), y.mp())
		}
		return false
	case *Instance:
		return x == y
	case EnumVariant:
		if y, ok := y.(EnumVariant); ok {
			return x.Enum == y.Enum && x.Variant == y.Variant && equalSlice(x.Data, y.Data)
		}
		return false
	case DataFrame:
		if y, ok := y.(DataFrame); ok {
			return equalDataFrame(x, y)
		}
		return false
	case Equaler:
		return x.Equal(y)
	default:
		return reflect.DeepEqual(x, y)
	}
}

func equalList(x, y List) bool {
	if x.Len() != y.Len() {
		return false
	}
	ix := x.Iterator()
	iy := y.Iterator()
	for ix.HasElem() && iy.HasElem() {
		if !Equal(ix.Elem(), iy.Elem()) {
			return false
		}
		ix.Next()
		iy.Next()
	}
	return true
}

func equalSlice(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

func equalMap(x, y Map) bool {
	if x.Len() != y.Len() {
		return false
	}
	for it := x.Iterator(); it.HasElem(); it.Next() {
		k, vx := it.Elem()
		vy, ok := y.Index(k)
		if !ok || !Equal(vx, vy) {
			return false
		}
	}
	return true
}

func equalDataFrame(x, y DataFrame) bool {
	if len(x.Columns) != len(y.Columns) {
		return false
	}
	for i, c := range x.Columns {
		if c.Name != y.Columns[i].Name || !equalList(c.Values, y.Columns[i].Values) {
			return false
		}
	}
	return true
}
