package vals

import (
	"errors"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
)

// Assocer wraps the Assoc method.
type Assocer interface {
	// Assoc returns a slightly modified version of the receiver with key k
	// associated with value v.
	Assoc(k, v any) (any, error)
}

var (
	errStringIsImmutable = errors.New("cannot assign to a character of a string")
	errFieldMustBeString = errors.New("field name must be string")
)

type cannotAssoc struct{ kind string }

func (err cannotAssoc) Error() string { return "cannot assign into " + err.kind }

// Assoc takes a container, a key and value, and returns a modified version of
// the container, in which the key associated with the value. Lists, tuples,
// objects and structs are persistent and Assoc returns a new value; an
// ObjectMut or class instance is updated in place and returned. For other
// types, it returns an error.
func Assoc(a, k, v any) (any, error) {
	switch a := a.(type) {
	case string:
		return nil, errStringIsImmutable
	case List:
		i, err := convertElemIndex(k, a.Len())
		if err != nil {
			return nil, err
		}
		return a.Assoc(i, v), nil
	case Tuple:
		i, err := convertElemIndex(k, len(a))
		if err != nil {
			return nil, err
		}
		return a.With(i, v), nil
	case Object:
		name, ok := k.(string)
		if !ok {
			return nil, errFieldMustBeString
		}
		return a.Set(name, v), nil
	case *ObjectMut:
		name, ok := k.(string)
		if !ok {
			return nil, errFieldMustBeString
		}
		a.Set(name, v)
		return a, nil
	case Struct:
		name, ok := k.(string)
		if !ok {
			return nil, errFieldMustBeString
		}
		if _, exists := a.Get(name); !exists {
			return nil, errs.NoSuchField{Kind: "struct " + a.Name, Field: name}
		}
		return a.With(name, v), nil
	case *Instance:
		name, ok := k.(string)
		if !ok {
			return nil, errFieldMustBeString
		}
		a.Set(name, v)
		return a, nil
	case Assocer:
		return a.Assoc(k, v)
	}
	return nil, cannotAssoc{Kind(a)}
}
