package vals

// Concatter wraps the Concat method.
type Concatter interface {
	// Concat concatenates the receiver with another value.
	Concat(v any) (any, error)
}

type cannotConcat struct {
	lhsKind string
	rhsKind string
}

func (err cannotConcat) Error() string {
	return "cannot concatenate " + err.lhsKind + " and " + err.rhsKind
}

// Concat concatenates two values: strings with strings, lists with lists and
// tuples with tuples. Types satisfying the Concatter interface are also
// supported. For other combinations it returns an error.
func Concat(lhs, rhs any) (any, error) {
	switch lhs := lhs.(type) {
	case string:
		if rhs, ok := rhs.(string); ok {
			return lhs + rhs, nil
		}
	case List:
		if rhs, ok := rhs.(List); ok {
			for it := rhs.Iterator(); it.HasElem(); it.Next() {
				lhs = lhs.Cons(it.Elem())
			}
			return lhs, nil
		}
	case Tuple:
		if rhs, ok := rhs.(Tuple); ok {
			t := make(Tuple, 0, len(lhs)+len(rhs))
			return append(append(t, lhs...), rhs...), nil
		}
	case Concatter:
		return lhs.Concat(rhs)
	}
	return nil, cannotConcat{Kind(lhs), Kind(rhs)}
}
