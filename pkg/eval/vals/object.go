package vals

import (
	"sort"
	"sync"
)

// Object is an immutable map from string keys to values. The zero value is an
// empty Object. Updating an Object returns a new Object; the old one is
// unchanged.
type Object struct{ m Map }

// NewObject creates an Object from alternating keys and values. It panics if
// the number of arguments is odd or a key is not a string.
func NewObject(kv ...any) Object {
	if len(kv)%2 == 1 {
		panic("odd number of arguments to NewObject")
	}
	o := Object{}
	for i := 0; i < len(kv); i += 2 {
		o = o.Set(kv[i].(string), kv[i+1])
	}
	return o
}

func (o Object) mp() Map {
	if o.m == nil {
		return EmptyMap
	}
	return o.m
}

func (o Object) Kind() string { return "object" }

// Len returns the number of fields.
func (o Object) Len() int { return o.mp().Len() }

// Get returns the value of a field and whether it exists.
func (o Object) Get(k string) (any, bool) { return o.mp().Index(k) }

// Set returns a new Object with the field k set to v.
func (o Object) Set(k string, v any) Object { return Object{o.mp().Assoc(k, v)} }

// Delete returns a new Object without the field k.
func (o Object) Delete(k string) Object { return Object{o.mp().Dissoc(k)} }

// Has reports whether the field k exists.
func (o Object) Has(k string) bool {
	_, ok := o.Get(k)
	return ok
}

// Keys returns the field names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for it := o.mp().Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)
	return keys
}

// IteratePairs calls f with each key-value pair in key order, stopping when f
// returns false.
func (o Object) IteratePairs(f func(k string, v any) bool) {
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		if !f(k, v) {
			return
		}
	}
}

// ObjectMut is a mutable object whose state is shared by all holders. It is
// the only container that aliases mutable state; all accesses are serialized
// by a mutex.
type ObjectMut struct {
	mu  sync.Mutex
	obj Object
}

// NewObjectMut creates an ObjectMut with the fields of o.
func NewObjectMut(o Object) *ObjectMut { return &ObjectMut{obj: o} }

func (m *ObjectMut) Kind() string { return "object" }

func (m *ObjectMut) Len() int { return m.Snapshot().Len() }

func (m *ObjectMut) Get(k string) (any, bool) { return m.Snapshot().Get(k) }

// Set sets the field k to v in place.
func (m *ObjectMut) Set(k string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obj = m.obj.Set(k, v)
}

// Delete removes the field k in place.
func (m *ObjectMut) Delete(k string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obj = m.obj.Delete(k)
}

// Snapshot returns the current fields as an immutable Object.
func (m *ObjectMut) Snapshot() Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.obj
}

// Result values are objects of the form {type: "Ok", data: [v]} or
// {type: "Err", data: [e]}.

// MakeOk returns the Result value Ok(v).
func MakeOk(v any) Object { return NewObject("type", "Ok", "data", MakeList(v)) }

// MakeErr returns the Result value Err(e).
func MakeErr(e any) Object { return NewObject("type", "Err", "data", MakeList(e)) }

// ResultOf reports whether v is a Result value, and if so whether it is Ok and
// its payload.
func ResultOf(v any) (isOk bool, payload any, ok bool) {
	o, isObj := v.(Object)
	if !isObj || o.Len() != 2 {
		return false, nil, false
	}
	tag, _ := o.Get("type")
	data, _ := o.Get("data")
	l, isList := data.(List)
	if !isList || l.Len() != 1 || (tag != "Ok" && tag != "Err") {
		return false, nil, false
	}
	payload, _ = l.Index(0)
	return tag == "Ok", payload, true
}
