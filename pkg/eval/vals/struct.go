package vals

import (
	"sort"
	"sync"
)

// Struct is an instance of a struct type. Structs have value semantics:
// updating a field returns a new Struct.
type Struct struct {
	Name string
	// Declared field names in order. Shared between instances of the same
	// type and never modified.
	Names  []string
	fields Map
	// Values of the declared fields, indexed like Names. Unset fields hold
	// absent.
	slots []any
}

type absent struct{}

// NewStruct creates a Struct. The fields argument maps field names to values.
func NewStruct(name string, names []string, fields map[string]any) Struct {
	m := EmptyMap
	for k, v := range fields {
		m = m.Assoc(k, v)
	}
	slots := make([]any, len(names))
	for i, n := range names {
		if v, ok := fields[n]; ok {
			slots[i] = v
		} else {
			slots[i] = absent{}
		}
	}
	return Struct{name, names, m, slots}
}

func (s Struct) Kind() string { return "struct" }

func (s Struct) mp() Map {
	if s.fields == nil {
		return EmptyMap
	}
	return s.fields
}

// Get returns the value of a field and whether it exists.
func (s Struct) Get(k string) (any, bool) { return s.mp().Index(k) }

// Slot returns the value of the i-th declared field.
func (s Struct) Slot(i int) (any, bool) {
	if i < 0 || i >= len(s.slots) {
		return nil, false
	}
	v := s.slots[i]
	if _, unset := v.(absent); unset {
		return nil, false
	}
	return v, true
}

// With returns a copy of s with the field k set to v.
func (s Struct) With(k string, v any) Struct {
	slots := s.slots
	if i := slotIndex(s.Names, k); i >= 0 && i < len(slots) {
		slots = append([]any(nil), slots...)
		slots[i] = v
	}
	return Struct{s.Name, s.Names, s.mp().Assoc(k, v), slots}
}

func slotIndex(names []string, k string) int {
	for i, n := range names {
		if n == k {
			return i
		}
	}
	return -1
}

// Len returns the number of fields.
func (s Struct) Len() int { return s.mp().Len() }

// FieldNames returns the declared field names followed by any other fields in
// sorted order.
func (s Struct) FieldNames() []string {
	return fieldOrder(s.Names, func(f func(string)) {
		for it := s.mp().Iterator(); it.HasElem(); it.Next() {
			k, _ := it.Elem()
			f(k.(string))
		}
	})
}

// Instance is an instance of a class. Instances have reference semantics:
// every holder sees field updates, which are guarded by a read-write lock.
type Instance struct {
	Class string
	Names []string
	mu    sync.RWMutex
	// Set once by the interpreter after construction; identifies the class
	// definition the methods are looked up on.
	Def    any
	fields map[string]any
	// Values of the declared fields, indexed like Names.
	slots []any
}

// NewInstance creates an Instance with the given initial fields.
func NewInstance(class string, names []string, def any, fields map[string]any) *Instance {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	slots := make([]any, len(names))
	for i, n := range names {
		if v, ok := fields[n]; ok {
			slots[i] = v
		} else {
			slots[i] = absent{}
		}
	}
	return &Instance{Class: class, Names: names, Def: def, fields: copied, slots: slots}
}

func (c *Instance) Kind() string { return "class" }

func (c *Instance) Get(k string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.fields[k]
	return v, ok
}

// Set sets the field k to v in place.
func (c *Instance) Set(k string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields[k] = v
	if i := slotIndex(c.Names, k); i >= 0 && i < len(c.slots) {
		c.slots[i] = v
	}
}

// Slot returns the value of the i-th declared field.
func (c *Instance) Slot(i int) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.slots) {
		return nil, false
	}
	v := c.slots[i]
	if _, unset := v.(absent); unset {
		return nil, false
	}
	return v, true
}

func (c *Instance) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fields)
}

// FieldNames returns the declared field names followed by any other fields in
// sorted order.
func (c *Instance) FieldNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fieldOrder(c.Names, func(f func(string)) {
		for k := range c.fields {
			f(k)
		}
	})
}

func fieldOrder(declared []string, each func(func(string))) []string {
	seen := make(map[string]bool)
	var extra []string
	each(func(k string) { seen[k] = true })
	names := make([]string, 0, len(seen))
	for _, name := range declared {
		if seen[name] {
			names = append(names, name)
			delete(seen, name)
		}
	}
	for k := range seen {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(names, extra...)
}
