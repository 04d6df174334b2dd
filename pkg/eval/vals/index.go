package vals

import (
	"unicode/utf8"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
)

// Indexer wraps the Index method.
type Indexer interface {
	// Index retrieves the value corresponding to the specified key in the
	// container. It returns the value (if any), and whether it actually exists.
	Index(k any) (v any, ok bool)
}

// ErrIndexer wraps the Index method.
type ErrIndexer interface {
	// Index retrieves one value from the receiver at the specified index.
	Index(k any) (any, error)
}

type cannotIndex struct{ kind string }

func (err cannotIndex) Error() string { return "cannot index " + err.kind }

type noSuchKeyError struct {
	key any
}

// NoSuchKey returns an error indicating that a key is not found in a map-like
// value.
func NoSuchKey(k any) error {
	return noSuchKeyError{k}
}

func (err noSuchKeyError) Error() string {
	return "no such key: " + ReprPlain(err.key)
}

// Key returns the key that was not found.
func (err noSuchKeyError) Key() any { return err.key }

// Index indexes a value with the given key. Strings, lists, tuples and ranges
// take integer indices, with negative indices counting from the end; strings
// and lists also take ranges, producing slices. Objects, structs, class
// instances and dataframes take string keys. Types satisfying ErrIndexer or
// Indexer are also supported. For other types, it returns a nil value and a
// non-nil error.
func Index(a, k any) (any, error) {
	switch a := a.(type) {
	case string:
		return indexString(a, k)
	case List:
		return indexList(a, k)
	case Tuple:
		i, err := convertElemIndex(k, len(a))
		if err != nil {
			return nil, err
		}
		return a[i], nil
	case Range:
		i, err := convertElemIndex(k, a.Len())
		if err != nil {
			return nil, err
		}
		return a.Start + int64(i), nil
	case Object:
		return indexByField(a.Get, k)
	case *ObjectMut:
		return indexByField(a.Get, k)
	case Struct:
		return indexByField(a.Get, k)
	case *Instance:
		return indexByField(a.Get, k)
	case DataFrame:
		if i, ok := k.(int64); ok {
			i, err := convertElemIndex(i, a.Rows())
			if err != nil {
				return nil, err
			}
			return a.Row(i), nil
		}
		return indexByField(func(name string) (any, bool) {
			col, ok := a.Column(name)
			return col, ok
		}, k)
	case ErrIndexer:
		return a.Index(k)
	case Indexer:
		v, ok := a.Index(k)
		if !ok {
			return nil, NoSuchKey(k)
		}
		return v, nil
	default:
		return nil, cannotIndex{Kind(a)}
	}
}

func indexByField(get func(string) (any, bool), k any) (any, error) {
	name, ok := k.(string)
	if !ok {
		return nil, NoSuchKey(k)
	}
	v, ok := get(name)
	if !ok {
		return nil, NoSuchKey(k)
	}
	return v, nil
}

func indexString(s string, k any) (any, error) {
	if !utf8.ValidString(s) {
		return nil, errs.BadValue{What: "indexed string", Valid: "valid UTF-8", Actual: "invalid bytes"}
	}
	runes := []rune(s)
	index, err := ConvertListIndex(k, len(runes))
	if err != nil {
		return nil, err
	}
	if index.Slice {
		return string(runes[index.Lower:index.Upper]), nil
	}
	return string(runes[index.Lower]), nil
}
