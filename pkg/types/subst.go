package types

import "fmt"

// Subst is a substitution from type variables to types, kept as a
// union-find forest. Each class of unified variables has one root; the root
// may be bound to a non-variable type.
type Subst struct {
	parent []int
	rank   []int
	// Non-nil when the class of a root is bound to a constructor type.
	bound []Type
	// Set on roots of classes that may only be bound to Int or Float, like
	// the type of an unsuffixed integer literal.
	numeric []bool
}

// NewSubst returns an empty substitution.
func NewSubst() *Subst { return &Subst{} }

// Fresh returns a new variable.
func (s *Subst) Fresh() Var {
	id := len(s.parent)
	s.parent = append(s.parent, id)
	s.rank = append(s.rank, 0)
	s.bound = append(s.bound, nil)
	s.numeric = append(s.numeric, false)
	return Var{id}
}

// FreshNumeric returns a new variable constrained to Int or Float.
func (s *Subst) FreshNumeric() Var {
	v := s.Fresh()
	s.numeric[v.ID] = true
	return v
}

func (s *Subst) find(id int) int {
	root := id
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[id] != root {
		next := s.parent[id]
		s.parent[id] = root
		id = next
	}
	return root
}

func (s *Subst) known(v Var) bool { return v.ID >= 0 && v.ID < len(s.parent) }

// Resolve follows variables until it reaches a constructor type or an
// unbound variable, which is returned as the root of its class.
func (s *Subst) Resolve(t Type) Type {
	for {
		v, ok := t.(Var)
		if !ok || !s.known(v) {
			return t
		}
		root := s.find(v.ID)
		if s.bound[root] == nil {
			return Var{root}
		}
		t = s.bound[root]
	}
}

// Apply replaces every bound variable in t, recursively.
func (s *Subst) Apply(t Type) Type {
	return mapType(t, func(t Type) (Type, bool) {
		v, ok := t.(Var)
		if !ok {
			return nil, false
		}
		r := s.Resolve(v)
		if _, ok := r.(Var); ok {
			return r, true
		}
		return s.Apply(r), true
	})
}

// shown applies the substitution to t and replaces numeric variables with
// Int, without binding them.
func (s *Subst) shown(t Type) Type {
	return mapType(s.Apply(t), func(t Type) (Type, bool) {
		if v, ok := t.(Var); ok && s.IsNumeric(v) {
			return Int, true
		}
		return nil, false
	})
}

// IsNumeric reports whether t resolves to an unbound variable restricted to
// numbers.
func (s *Subst) IsNumeric(t Type) bool {
	v, ok := s.Resolve(t).(Var)
	return ok && s.known(v) && s.numeric[s.find(v.ID)]
}

// MarkNumeric restricts an unbound variable to numbers. It does nothing for
// other types.
func (s *Subst) MarkNumeric(t Type) {
	if v, ok := s.Resolve(t).(Var); ok && s.known(v) {
		s.numeric[s.find(v.ID)] = true
	}
}

// Error kinds produced by unification.
const (
	TypeMismatch  = "TypeMismatch"
	OccursCheck   = "OccursCheck"
	ArityMismatch = "ArityMismatch"
)

// UnifyError is returned when two types cannot be unified.
type UnifyError struct {
	Kind        string
	Left, Right Type
}

func (e *UnifyError) Error() string {
	switch e.Kind {
	case OccursCheck:
		return fmt.Sprintf("infinite type: %s occurs in %s", e.Left, e.Right)
	case ArityMismatch:
		return fmt.Sprintf("arity mismatch: %s vs %s", e.Left, e.Right)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// Unify makes a and b equal by binding variables. On failure the
// substitution may have been partially extended, and the returned
// *UnifyError shows both sides with the substitution applied and unbound
// numeric variables shown as Int, the type they default to.
//
// References are transparent: &T unifies with T.
func (s *Subst) Unify(a, b Type) error {
	if err := s.unify(a, b); err != nil {
		err.Left = s.shown(err.Left)
		err.Right = s.shown(err.Right)
		return err
	}
	return nil
}

func (s *Subst) unify(a, b Type) *UnifyError {
	a, b = s.Resolve(a), s.Resolve(b)
	va, aVar := a.(Var)
	vb, bVar := b.(Var)
	switch {
	case aVar && bVar:
		if va.ID != vb.ID {
			s.union(va.ID, vb.ID)
		}
		return nil
	case aVar:
		return s.bind(va, b)
	case bVar:
		return s.bind(vb, a)
	}

	if ra, ok := a.(Reference); ok {
		if rb, ok := b.(Reference); ok {
			return s.unify(ra.Elem, rb.Elem)
		}
		return s.unify(ra.Elem, b)
	}
	if rb, ok := b.(Reference); ok {
		return s.unify(a, rb.Elem)
	}

	mismatch := &UnifyError{TypeMismatch, a, b}
	switch a := a.(type) {
	case Prim:
		if b, ok := b.(Prim); ok && a.Kind == b.Kind {
			return nil
		}
	case List:
		if b, ok := b.(List); ok {
			return s.unify(a.Elem, b.Elem)
		}
	case Optional:
		if b, ok := b.(Optional); ok {
			return s.unify(a.Elem, b.Elem)
		}
	case Result:
		if b, ok := b.(Result); ok {
			if err := s.unify(a.Ok, b.Ok); err != nil {
				return err
			}
			return s.unify(a.Err, b.Err)
		}
	case Tuple:
		if b, ok := b.(Tuple); ok {
			if len(a.Elems) != len(b.Elems) {
				return &UnifyError{ArityMismatch, a, b}
			}
			return s.unifyAll(a.Elems, b.Elems)
		}
	case Function:
		if b, ok := b.(Function); ok {
			if len(a.Params) != len(b.Params) {
				return &UnifyError{ArityMismatch, a, b}
			}
			if err := s.unifyAll(a.Params, b.Params); err != nil {
				return err
			}
			return s.unify(a.Ret, b.Ret)
		}
	case Named:
		if b, ok := b.(Named); ok && a.Name == b.Name {
			if len(a.Args) == 0 || len(b.Args) == 0 {
				// A bare name like Set unifies with any instance of it.
				return nil
			}
			if len(a.Args) != len(b.Args) {
				return &UnifyError{ArityMismatch, a, b}
			}
			return s.unifyAll(a.Args, b.Args)
		}
	}
	return mismatch
}

func (s *Subst) unifyAll(as, bs []Type) *UnifyError {
	for i := range as {
		if err := s.unify(as[i], bs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subst) union(a, b int) {
	a, b = s.find(a), s.find(b)
	if a == b {
		return
	}
	if s.rank[a] < s.rank[b] {
		a, b = b, a
	}
	s.parent[b] = a
	if s.rank[a] == s.rank[b] {
		s.rank[a]++
	}
	s.numeric[a] = s.numeric[a] || s.numeric[b]
}

func (s *Subst) bind(v Var, t Type) *UnifyError {
	if !s.known(v) {
		return &UnifyError{TypeMismatch, v, t}
	}
	root := s.find(v.ID)
	if s.occurs(root, t) {
		return &UnifyError{OccursCheck, Var{root}, t}
	}
	if s.numeric[root] {
		if p, ok := t.(Prim); !ok || (p.Kind != IntKind && p.Kind != FloatKind) {
			return &UnifyError{TypeMismatch, Var{root}, t}
		}
	}
	s.bound[root] = t
	return nil
}

func (s *Subst) occurs(root int, t Type) bool {
	found := false
	walk(s.Apply(t), func(t Type) {
		if v, ok := t.(Var); ok && s.known(v) && s.find(v.ID) == root {
			found = true
		}
	})
	return found
}

// DefaultNumeric binds every numeric variable left unbound in t to Int.
func (s *Subst) DefaultNumeric(t Type) {
	walk(s.Apply(t), func(t Type) {
		if v, ok := t.(Var); ok && s.IsNumeric(v) {
			s.bound[s.find(v.ID)] = Int
		}
	})
}
