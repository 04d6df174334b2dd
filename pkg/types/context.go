package types

import (
	"errors"
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

var logger = logutil.GetLogger("[types] ")

// Error kinds, in addition to those of unification.
const (
	UndefinedVariable = "UndefinedVariable"
	UnknownMethod     = "UnknownMethod"
	UnknownField      = "UnknownField"
	RecursionLimit    = "RecursionLimit"
	// Alternatives of an or-pattern bind different names.
	OrPatternBinders = "OrPatternBinders"
)

// DefaultRecursionLimit is the default for Context.RecursionLimit.
const DefaultRecursionLimit = 512

// Context holds the state of inference over one or more top-level inputs.
// Bindings made at the top level persist between calls to Infer, so a REPL
// can feed it one line at a time.
type Context struct {
	// Inference of expressions nested deeper than this fails with a
	// RecursionLimit error.
	RecursionLimit int

	subst *Subst
	scope *scope
	src   parse.Source
	depth int

	errs     []*diag.Error
	warnings []*diag.Error
	exprs    map[*parse.Expr]Type
	deferred []deferredCall

	types *typeTable
	// Number of parameters without defaults, for functions that have some.
	required map[string]int
	actors   map[string]bool
	// Enclosing function return types and loop result types, innermost last.
	returns []Type
	loops   []Type
	// Type parameters in scope, by name.
	tparams []map[string]Type
	self    []Type
}

// deferredCall is a method call on a receiver whose type was not known yet.
type deferredCall struct {
	expr *parse.Expr
	recv Type
	name string
	args []Type
	ret  Type
}

// scope maps names to schemes and links to the enclosing scope.
type scope struct {
	names  map[string]*Scheme
	parent *scope
}

func (s *scope) lookup(name string) (*Scheme, bool) {
	for ; s != nil; s = s.parent {
		if sc, ok := s.names[name]; ok {
			return sc, true
		}
	}
	return nil, false
}

// NewContext creates a Context with the builtin functions in scope.
func NewContext() *Context {
	c := &Context{
		RecursionLimit: DefaultRecursionLimit,
		subst:          NewSubst(),
		src:            parse.Source{Name: "[input]"},
		exprs:          map[*parse.Expr]Type{},
		types:          newTypeTable(),
		required:       map[string]int{},
		actors:         map[string]bool{},
	}
	c.scope = &scope{names: map[string]*Scheme{}}
	return c
}

// SetSource sets the source that later expressions are parsed from, used to
// build error contexts.
func (c *Context) SetSource(src parse.Source) { c.src = src }

// Infer infers the type of e, which is usually the root of a parsed
// program. Top-level let bindings without a body stay in scope for later
// calls. It returns the inferred type with the substitution applied and a
// diag.MultiError of all the type errors found.
func (c *Context) Infer(e *parse.Expr) (t Type, err error) {
	c.errs = nil
	c.depth = 0
	top := c.scope
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(recursionBailout); !ok {
				panic(r)
			}
			c.scope = top
			c.returns, c.loops, c.tparams, c.self = nil, nil, nil, nil
			t = c.subst.Fresh()
		}
		c.resolveDeferred()
		c.subst.DefaultNumeric(t)
		t = c.subst.Apply(t)
		err = diag.PackErrors(c.errs)
		if err != nil {
			logger.Printf("%s: %d type errors", c.src.Name, len(c.errs))
		}
	}()
	if b, ok := e.Kind.(*parse.Block); ok {
		// The program block shares the top-level scope.
		return c.record(e, c.inferSeq(b.Exprs)), nil
	}
	return c.infer(e), nil
}

// Apply applies the current substitution to t.
func (c *Context) Apply(t Type) Type { return c.subst.Apply(t) }

// Unify unifies two types under the current substitution. The error, if
// any, is a *UnifyError.
func (c *Context) Unify(a, b Type) error { return c.subst.Unify(a, b) }

// Fresh returns a new type variable.
func (c *Context) Fresh() Var { return c.subst.Fresh() }

// TypeOf returns the inferred type of an expression visited by Infer, with
// the current substitution applied.
func (c *Context) TypeOf(e *parse.Expr) (Type, bool) {
	t, ok := c.exprs[e]
	if !ok {
		return nil, false
	}
	return c.subst.Apply(t), true
}

// DefaultNumerics binds the numeric variables left in the types of all
// visited expressions to Int, as Infer does for the result type.
func (c *Context) DefaultNumerics() {
	for _, t := range c.exprs {
		c.subst.DefaultNumeric(t)
	}
}

// Lookup returns the scheme of a top-level binding.
func (c *Context) Lookup(name string) (*Scheme, bool) {
	sc, ok := c.scope.lookup(name)
	if !ok {
		return nil, false
	}
	return &Scheme{sc.Vars, c.subst.Apply(sc.Type)}, true
}

// Names returns the names bound at the top level.
func (c *Context) Names() []string {
	root := c.scope
	for root.parent != nil {
		root = root.parent
	}
	names := make([]string, 0, len(root.names))
	for name := range root.names {
		names = append(names, name)
	}
	return names
}

// Warnings returns the warnings collected so far, such as calls of methods
// missing from the method table.
func (c *Context) Warnings() []*diag.Error { return c.warnings }

// Bind binds a name at the top level to a monotype.
func (c *Context) Bind(name string, t Type) { c.scope.names[name] = Mono(t) }

// Errors returned by Infer are a diag.MultiError; KindOf returns the kind of
// the first one, or "" if err does not come from inference.
func KindOf(err error) string {
	if errs := diag.UnpackErrors(err); len(errs) > 0 {
		return errs[0].Type
	}
	var ue *UnifyError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}

type recursionBailout struct{}

func (c *Context) push() { c.scope = &scope{map[string]*Scheme{}, c.scope} }

func (c *Context) pop() { c.scope = c.scope.parent }

func (c *Context) bindMono(name string, t Type) { c.scope.names[name] = Mono(t) }

func (c *Context) fresh() Type { return c.subst.Fresh() }

func (c *Context) context(r diag.Ranger) diag.Context {
	if r == nil {
		return diag.Context{Name: c.src.Name, Source: c.src.Code}
	}
	return *diag.NewContext(c.src.Name, c.src.Code, r)
}

func (c *Context) errorf(r diag.Ranger, kind, format string, args ...any) *diag.Error {
	err := &diag.Error{Type: kind, Message: fmt.Sprintf(format, args...), Context: c.context(r)}
	c.errs = append(c.errs, err)
	return err
}

func (c *Context) warnf(r diag.Ranger, kind, format string, args ...any) {
	c.warnings = append(c.warnings, &diag.Error{
		Type: kind, Message: fmt.Sprintf(format, args...), Context: c.context(r)})
}

// unify unifies a and b and reports a failure at r. It returns the type the
// site should take: a when unification succeeded, a fresh variable
// otherwise.
func (c *Context) unify(r diag.Ranger, a, b Type) Type {
	err := c.subst.Unify(a, b)
	if err == nil {
		return a
	}
	ue := err.(*UnifyError)
	kind := ue.Kind
	c.errorf(r, kind, "%s", ue.Error())
	return c.fresh()
}

// unifyRelated is like unify, with the span of the other side attached to
// the error.
func (c *Context) unifyRelated(r, other diag.Ranger, what string, a, b Type) Type {
	n := len(c.errs)
	t := c.unify(r, a, b)
	if len(c.errs) > n && other != nil {
		err := c.errs[len(c.errs)-1]
		err.Related = append(err.Related, diag.Related{Message: what, Context: c.context(other)})
	}
	return t
}

func (c *Context) record(e *parse.Expr, t Type) Type {
	c.exprs[e] = t
	return t
}

// generalize quantifies the variables of t that are not free in the scope.
func (c *Context) generalize(t Type) *Scheme {
	t = c.subst.Apply(t)
	inScope := map[int]bool{}
	for s := c.scope; s != nil; s = s.parent {
		for _, sc := range s.names {
			quantified := map[int]bool{}
			for _, v := range sc.Vars {
				quantified[v] = true
			}
			for _, v := range FreeVars(c.subst.Apply(sc.Type)) {
				if !quantified[v] {
					inScope[v] = true
				}
			}
		}
	}
	for _, m := range c.tparams {
		for _, tp := range m {
			for _, v := range FreeVars(c.subst.Apply(tp)) {
				inScope[v] = true
			}
		}
	}
	var vars []int
	for _, v := range FreeVars(t) {
		if !inScope[v] && !c.subst.IsNumeric(Var{v}) {
			vars = append(vars, v)
		}
	}
	return &Scheme{vars, t}
}

// instantiate replaces the quantified variables of sc with fresh ones.
func (c *Context) instantiate(sc *Scheme) Type {
	if len(sc.Vars) == 0 {
		return sc.Type
	}
	m := make(map[int]Type, len(sc.Vars))
	for _, v := range sc.Vars {
		m[v] = c.fresh()
	}
	return substitute(c.subst.Apply(sc.Type), m)
}

// resolveDeferred retries method calls whose receivers were unknown when
// they were visited.
func (c *Context) resolveDeferred() {
	pending := c.deferred
	c.deferred = nil
	for _, d := range pending {
		if _, ok := c.subst.Resolve(d.recv).(Var); ok {
			continue
		}
		t := c.methodType(d.expr, d.recv, d.name, d.args)
		if err := c.subst.Unify(d.ret, t); err != nil {
			c.errorf(d.expr, TypeMismatch, "%s", err.Error())
		}
	}
}
