package vals

// Iterator wraps the Iterate method.
type Iterator interface {
	// Iterate calls the passed function with each value within the receiver.
	// The iteration is aborted if the function returns false.
	Iterate(func(v any) bool)
}

type cannotIterate struct{ kind string }

func (err cannotIterate) Error() string { return "cannot iterate " + err.kind }

// CanIterate returns whether the value can be iterated. If CanIterate(v) is
// true, calling Iterate(v, f) will not result in an error.
func CanIterate(v any) bool {
	switch v.(type) {
	case Iterator, string, List, Tuple, Object, *ObjectMut, DataFrame:
		return true
	}
	return false
}

// Iterate iterates the supplied value, and calls the supplied function in each
// of its elements. The function can return false to break the iteration.
// Strings yield their characters as strings, objects yield (key, value)
// tuples in key order and dataframes yield their rows as objects. For values
// that cannot be iterated, it doesn't do anything and returns an error.
func Iterate(v any, f func(any) bool) error {
	switch v := v.(type) {
	case string:
		for _, r := range v {
			if !f(string(r)) {
				break
			}
		}
	case List:
		for it := v.Iterator(); it.HasElem(); it.Next() {
			if !f(it.Elem()) {
				break
			}
		}
	case Tuple:
		for _, e := range v {
			if !f(e) {
				break
			}
		}
	case Object:
		iterateObject(v, f)
	case *ObjectMut:
		iterateObject(v.Snapshot(), f)
	case DataFrame:
		for i := 0; i < v.Rows(); i++ {
			if !f(v.Row(i)) {
				break
			}
		}
	case Iterator:
		v.Iterate(f)
	default:
		return cannotIterate{Kind(v)}
	}
	return nil
}

func iterateObject(o Object, f func(any) bool) {
	o.IteratePairs(func(k string, v any) bool { return f(Tuple{k, v}) })
}

// Collect collects all elements of an iterable value into a slice.
func Collect(it any) ([]any, error) {
	var vs []any
	if n := Len(it); n >= 0 && n < 1<<16 {
		vs = make([]any, 0, n)
	}
	err := Iterate(it, func(v any) bool {
		vs = append(vs, v)
		return true
	})
	return vs, err
}
