package vals

import (
	"github.com/xiaq/persistent/hashmap"
	"github.com/xiaq/persistent/vector"
)

// List is the type of arrays. Lists are persistent: "mutating" operations
// return a new List sharing structure with the old one.
type List = vector.Vector

// EmptyList is an empty list.
var EmptyList = vector.Empty

// MakeList creates a new List from values.
func MakeList(vs ...any) List {
	vec := vector.Empty
	for _, v := range vs {
		vec = vec.Cons(v)
	}
	return vec
}

// ListToSlice copies the elements of a List to a new slice.
func ListToSlice(l List) []any {
	vs := make([]any, 0, l.Len())
	for it := l.Iterator(); it.HasElem(); it.Next() {
		vs = append(vs, it.Elem())
	}
	return vs
}

// Map is the persistent map underlying Object, Set and the fields of Struct.
type Map = hashmap.Map

// EmptyMap is an empty map using Equal and Hash on its keys.
var EmptyMap Map

// Equal and Hash reach EmptyMap through Struct, so EmptyMap cannot be
// initialized in its declaration.
func init() { EmptyMap = hashmap.New(Equal, Hash) }
