// Package types implements Hindley-Milner type inference for Ruchy programs.
//
// Inference follows Algorithm W: every expression gets a monotype, possibly
// containing type variables, and constraints between them are solved on the
// fly by a unifier backed by a union-find substitution. Let-bound values are
// generalized into type schemes and instantiated afresh at every use.
//
// Inference never stops at the first error. A failed unification records a
// *diag.Error and the offending site is given a fresh variable, so that later
// errors are still found. All the errors of a pass are returned together as a
// diag.MultiError.
package types

import (
	"sort"
	"strconv"
	"strings"
)

// Type is a monotype.
type Type interface {
	String() string
	isType()
}

// PrimKind is the kind of a primitive type.
type PrimKind int

const (
	IntKind PrimKind = iota
	FloatKind
	StringKind
	BoolKind
	CharKind
	UnitKind
)

var primNames = [...]string{
	IntKind: "Int", FloatKind: "Float", StringKind: "String",
	BoolKind: "Bool", CharKind: "Char", UnitKind: "()",
}

// Prim is a primitive type.
type Prim struct{ Kind PrimKind }

// The primitive types.
var (
	Int    = Prim{IntKind}
	Float  = Prim{FloatKind}
	String = Prim{StringKind}
	Bool   = Prim{BoolKind}
	Char   = Prim{CharKind}
	Unit   = Prim{UnitKind}
)

// Var is a type variable. Variables are identified by globally fresh
// integers handed out by a Subst.
type Var struct{ ID int }

type List struct{ Elem Type }

type Tuple struct{ Elems []Type }

type Function struct {
	Params []Type
	Ret    Type
}

// Named is a user-defined or library type like Point, Object or
// Set<Int>.
type Named struct {
	Name string
	Args []Type
}

type Optional struct{ Elem Type }

type Result struct{ Ok, Err Type }

type Reference struct {
	Elem    Type
	Mutable bool
}

func (Prim) isType()      {}
func (Var) isType()       {}
func (List) isType()      {}
func (Tuple) isType()     {}
func (Function) isType()  {}
func (Named) isType()     {}
func (Optional) isType()  {}
func (Result) isType()    {}
func (Reference) isType() {}

func (p Prim) String() string { return primNames[p.Kind] }

func (v Var) String() string { return "t" + strconv.Itoa(v.ID) }

func (l List) String() string { return "List<" + l.Elem.String() + ">" }

func (t Tuple) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + join(t.Elems) + ")"
}

func (f Function) String() string {
	return "fn(" + join(f.Params) + ") -> " + f.Ret.String()
}

func (n Named) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	return n.Name + "<" + join(n.Args) + ">"
}

func (o Optional) String() string { return "Option<" + o.Elem.String() + ">" }

func (r Result) String() string {
	return "Result<" + r.Ok.String() + ", " + r.Err.String() + ">"
}

func (r Reference) String() string {
	if r.Mutable {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}

func join(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Scheme is a type with universally quantified variables.
type Scheme struct {
	Vars []int
	Type Type
}

// Mono returns a scheme without quantified variables.
func Mono(t Type) *Scheme { return &Scheme{Type: t} }

// String shows the scheme with its variables renamed to a, b, c, ... in
// order of appearance.
func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	names := make(map[int]Type, len(s.Vars))
	quantified := make(map[int]bool, len(s.Vars))
	for _, v := range s.Vars {
		quantified[v] = true
	}
	var order []int
	walk(s.Type, func(t Type) {
		if v, ok := t.(Var); ok && quantified[v.ID] {
			if _, seen := names[v.ID]; !seen {
				names[v.ID] = Named{Name: letterName(len(order))}
				order = append(order, v.ID)
			}
		}
	})
	letters := make([]string, len(order))
	for i := range order {
		letters[i] = letterName(i)
	}
	return "forall " + strings.Join(letters, " ") + ". " + substitute(s.Type, names).String()
}

func letterName(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return "a" + strconv.Itoa(i)
}

// walk calls f for t and every type nested in it.
func walk(t Type, f func(Type)) {
	f(t)
	switch t := t.(type) {
	case List:
		walk(t.Elem, f)
	case Tuple:
		for _, e := range t.Elems {
			walk(e, f)
		}
	case Function:
		for _, p := range t.Params {
			walk(p, f)
		}
		walk(t.Ret, f)
	case Named:
		for _, a := range t.Args {
			walk(a, f)
		}
	case Optional:
		walk(t.Elem, f)
	case Result:
		walk(t.Ok, f)
		walk(t.Err, f)
	case Reference:
		walk(t.Elem, f)
	}
}

// substitute replaces variables according to m. It does not consult any
// Subst.
func substitute(t Type, m map[int]Type) Type {
	return mapType(t, func(t Type) (Type, bool) {
		if v, ok := t.(Var); ok {
			if r, ok := m[v.ID]; ok {
				return r, true
			}
		}
		return nil, false
	})
}

// mapType rebuilds t bottom-up. At each node f may return a replacement;
// children of a replaced node are not visited.
func mapType(t Type, f func(Type) (Type, bool)) Type {
	if r, ok := f(t); ok {
		return r
	}
	switch t := t.(type) {
	case List:
		return List{mapType(t.Elem, f)}
	case Tuple:
		return Tuple{mapTypes(t.Elems, f)}
	case Function:
		return Function{mapTypes(t.Params, f), mapType(t.Ret, f)}
	case Named:
		if len(t.Args) == 0 {
			return t
		}
		return Named{t.Name, mapTypes(t.Args, f)}
	case Optional:
		return Optional{mapType(t.Elem, f)}
	case Result:
		return Result{mapType(t.Ok, f), mapType(t.Err, f)}
	case Reference:
		return Reference{mapType(t.Elem, f), t.Mutable}
	}
	return t
}

func mapTypes(ts []Type, f func(Type) (Type, bool)) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = mapType(t, f)
	}
	return out
}

// FreeVars returns the IDs of the variables occurring in t, sorted.
func FreeVars(t Type) []int {
	set := map[int]bool{}
	walk(t, func(t Type) {
		if v, ok := t.(Var); ok {
			set[v.ID] = true
		}
	})
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsConcrete reports whether t contains no type variables.
func IsConcrete(t Type) bool { return len(FreeVars(t)) == 0 }

// Constructor returns the name of the outermost type constructor of t, which
// keys the method table: "Int", "List", "Option", a user type name, and so
// on. It returns "" for variables.
func Constructor(t Type) string {
	switch t := t.(type) {
	case Prim:
		return t.String()
	case List:
		return "List"
	case Tuple:
		return "Tuple"
	case Function:
		return "Function"
	case Named:
		return t.Name
	case Optional:
		return "Option"
	case Result:
		return "Result"
	case Reference:
		return Constructor(t.Elem)
	}
	return ""
}
