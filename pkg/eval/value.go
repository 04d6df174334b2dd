package eval

import (
	"strconv"
	"sync"
	"unsafe"

	"github.com/xiaq/persistent/hash"

	"github.com/paiml/ruchy-sub012/pkg/eval/actor"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Closure is a function value: a lambda or a declared function together with
// the scope it was created in.
type Closure struct {
	Name   string
	Params []parse.Param
	Body   *parse.Expr
	Env    *Env
	Async  bool
	// Set for methods; receivers are bound to self.
	Self parse.SelfKind
	// Type the method was declared on, for static methods and Self.
	Owner string
	src   parse.Source
}

func (c *Closure) Kind() string { return "fn" }

// Equal compares by address.
func (c *Closure) Equal(rhs any) bool { return c == rhs }

// Hash returns the hash of the address.
func (c *Closure) Hash() uint32 { return hash.Pointer(unsafe.Pointer(c)) }

func (c *Closure) Repr(int) string {
	if c.Name == "" {
		return "<closure>"
	}
	return "<fn " + c.Name + ">"
}

// arity returns the number of parameters that need arguments, not counting
// the receiver, and the total number of parameters.
func (c *Closure) arity() (required, total int) {
	for _, p := range c.params() {
		if p.Default == nil {
			required++
		}
		total++
	}
	return required, total
}

// params returns the parameters after the receiver.
func (c *Closure) params() []parse.Param {
	if len(c.Params) > 0 && c.Params[0].Self != parse.NotSelf {
		return c.Params[1:]
	}
	return c.Params
}

// Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   func(fm *Frame, args []any) (any, error)
}

func (b *Builtin) Kind() string { return "fn" }

func (b *Builtin) Equal(rhs any) bool { return b == rhs }

func (b *Builtin) Hash() uint32 { return hash.Pointer(unsafe.Pointer(b)) }

func (b *Builtin) Repr(int) string { return "<builtin " + b.Name + ">" }

// BoundMethod is a method looked up on a value without being called, like
// p.area.
type BoundMethod struct {
	Recv   any
	Method *Closure
}

func (m BoundMethod) Kind() string { return "fn" }

func (m BoundMethod) Repr(int) string { return "<method " + m.Method.Name + ">" }

// Type definitions. They are bound to the name of the type.

// StructDef is a struct or tuple struct declaration.
type StructDef struct {
	Name   string
	Fields []parse.StructField
	Names  []string
	// Number of fields of a tuple struct; -1 for structs with named fields.
	TupleArity int
	Derives    []string
	env        *Env
}

func (d *StructDef) Kind() string    { return "type" }
func (d *StructDef) Repr(int) string { return "<struct " + d.Name + ">" }

// ClassDef is a class declaration.
type ClassDef struct {
	Name         string
	Super        *ClassDef
	Traits       []string
	Fields       []parse.StructField
	Names        []string
	Constructors map[string]*parse.Constructor
	Methods      map[string]*Closure
	Constants    map[string]any
	env          *Env
	src          parse.Source
}

func (d *ClassDef) Kind() string    { return "type" }
func (d *ClassDef) Repr(int) string { return "<class " + d.Name + ">" }

// method looks a method up in the class and its superclasses.
func (d *ClassDef) method(name string) (*Closure, bool) {
	for c := d; c != nil; c = c.Super {
		if m, ok := c.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// IsA reports whether the class is name or inherits from it.
func (d *ClassDef) IsA(name string) bool {
	for c := d; c != nil; c = c.Super {
		if c.Name == name {
			return true
		}
		for _, t := range c.Traits {
			if t == name {
				return true
			}
		}
	}
	return false
}

// EnumDef is an enum declaration.
type EnumDef struct {
	Name     string
	Variants []parse.EnumVariant
}

func (d *EnumDef) Kind() string    { return "type" }
func (d *EnumDef) Repr(int) string { return "<enum " + d.Name + ">" }

func (d *EnumDef) variant(name string) (int, *parse.EnumVariant) {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return i, &d.Variants[i]
		}
	}
	return -1, nil
}

// Discriminant returns the integer value of a variant: its explicit
// discriminant, or one more than the previous variant's.
func (d *EnumDef) Discriminant(variant string) (int64, bool) {
	next := int64(0)
	for _, v := range d.Variants {
		if v.Discriminant != nil {
			next = *v.Discriminant
		}
		if v.Name == variant {
			return next, true
		}
		next++
	}
	return 0, false
}

// VariantCtor constructs a tuple variant, like Shape::Circle.
type VariantCtor struct {
	Enum    string
	Variant string
	Arity   int
}

func (c VariantCtor) Kind() string    { return "fn" }
func (c VariantCtor) Repr(int) string { return "<variant " + c.Enum + "::" + c.Variant + ">" }

// TraitDef is a trait declaration. Methods with bodies are default methods.
type TraitDef struct {
	Name    string
	Methods []*parse.Function
	env     *Env
	src     parse.Source
}

func (d *TraitDef) Kind() string    { return "type" }
func (d *TraitDef) Repr(int) string { return "<trait " + d.Name + ">" }

// ActorDef is an actor declaration.
type ActorDef struct {
	Decl *parse.Actor
	env  *Env
	src  parse.Source
	// Holds the actor's methods; the state of each actor is an instance of it.
	class *ClassDef
}

func (d *ActorDef) Kind() string    { return "type" }
func (d *ActorDef) Repr(int) string { return "<actor " + d.Decl.Name + ">" }

// SupervisorDef is a supervisor declaration.
type SupervisorDef struct {
	Decl *parse.Supervisor
	env  *Env
	src  parse.Source
}

func (d *SupervisorDef) Kind() string    { return "type" }
func (d *SupervisorDef) Repr(int) string { return "<supervisor " + d.Decl.Name + ">" }

// Future is the lazy result of an async function, lambda or block. Awaiting
// it runs the computation once; later awaits return the cached result.
type Future struct {
	once  sync.Once
	run   func() (any, error)
	value any
	err   error
}

func newFuture(run func() (any, error)) *Future { return &Future{run: run} }

// Await forces the future.
func (f *Future) Await() (any, error) {
	f.once.Do(func() {
		f.value, f.err = f.run()
		f.run = nil
	})
	return f.value, f.err
}

func (f *Future) Kind() string       { return "future" }
func (f *Future) Repr(int) string    { return "<future>" }
func (f *Future) Equal(rhs any) bool { return f == rhs }
func (f *Future) Hash() uint32       { return hash.Pointer(unsafe.Pointer(f)) }

// ActorHandle refers to a spawned actor.
type ActorHandle struct {
	ID   actor.ID
	Type string
}

func (h ActorHandle) Kind() string { return "actor" }

func (h ActorHandle) Repr(int) string {
	return "<actor " + h.Type + "#" + strconv.FormatUint(uint64(h.ID), 10) + ">"
}

// SupervisorHandle refers to a running supervisor.
type SupervisorHandle struct {
	Sup *actor.Supervisor
}

func (h SupervisorHandle) Kind() string    { return "supervisor" }
func (h SupervisorHandle) Repr(int) string { return "<supervisor " + h.Sup.Name + ">" }

var (
	_ vals.Reprer = (*Closure)(nil)
	_ vals.Reprer = ActorHandle{}
)
