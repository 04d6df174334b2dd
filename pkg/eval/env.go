package eval

import "sort"

// Env is one scope of the environment: a mapping from names to bindings,
// with a link to the enclosing scope. Lookup walks parent links.
//
// Closures capture the Env they are created in, so a binding is observed by
// every closure created after it in the same scope chain; later lets of the
// same name create a new scope and do not affect earlier captures.
type Env struct {
	parent *Env
	vars   map[string]*binding
}

type binding struct {
	value   any
	mutable bool
}

// NewEnv creates an empty scope inside parent, which may be nil.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent}
}

// Parent returns the enclosing scope.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name in this scope, shadowing any outer binding and replacing
// a binding of the same name in this scope.
func (e *Env) Define(name string, v any, mutable bool) {
	if e.vars == nil {
		e.vars = make(map[string]*binding)
	}
	e.vars[name] = &binding{v, mutable}
}

func (e *Env) lookup(name string) *binding {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b
		}
	}
	return nil
}

// Get returns the value bound to name in this scope or an enclosing one.
func (e *Env) Get(name string) (any, bool) {
	if b := e.lookup(name); b != nil {
		return b.value, true
	}
	return nil, false
}

// Names returns the names visible from this scope, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	for s := e; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of scopes from this one to the outermost one.
func (e *Env) Depth() int {
	n := 0
	for s := e; s != nil; s = s.parent {
		n++
	}
	return n
}
