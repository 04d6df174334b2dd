// Package transpile lowers Ruchy syntax trees to Rust token streams.
//
// The transpiler runs the type inferencer over its input first and uses the
// inferred types where the Rust output needs a type the source leaves out,
// such as untyped parameters and return types. Lowering stops at the first
// construct that has no sound Rust equivalent; no partial output is returned
// in that case.
package transpile

import (
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/logutil"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var logger = logutil.GetLogger("[transpile] ")

// Error kinds.
const (
	UnsupportedConstruct = "UnsupportedConstruct"
	UnknownMacro         = "UnknownMacro"
	InvalidAttribute     = "InvalidAttribute"
)

// Transpiler lowers syntax trees to Rust. A Transpiler can be reused; every
// call of Transpile or TranspileProgram starts afresh.
type Transpiler struct {
	src   parse.Source
	ts    *TokenStream
	types *types.Context

	// Declarations of the input, collected before lowering.
	structs     map[string]*parse.StructDecl
	tuples      map[string]bool
	classes     map[string]*parse.Class
	actors      map[string]*parse.Actor
	functions   map[string]bool
	implMethods map[string]map[string]bool

	// Variables bound to spawned actors, by actor name.
	actorVars map[string]string
	// Name used for self; constructors build the value in a local.
	selfName string
	// Enum that bare message names in handler patterns belong to.
	msgEnum string
	// Whether declarations get pub, inside export.
	forcePub bool
}

type bailout struct{ err *diag.Error }

// New creates a Transpiler.
func New() *Transpiler {
	return &Transpiler{src: parse.Source{Name: "[input]"}}
}

// SetSource sets the source that later trees are parsed from, used to build
// error contexts.
func (t *Transpiler) SetSource(src parse.Source) { t.src = src }

func (t *Transpiler) reset(root *parse.Expr) {
	t.ts = &TokenStream{}
	t.structs = map[string]*parse.StructDecl{}
	t.tuples = map[string]bool{}
	t.classes = map[string]*parse.Class{}
	t.actors = map[string]*parse.Actor{}
	t.functions = map[string]bool{}
	t.implMethods = map[string]map[string]bool{}
	t.actorVars = map[string]string{}
	t.selfName = "self"
	t.msgEnum = ""
	t.forcePub = false
	t.collect(root)

	t.types = types.NewContext()
	t.types.SetSource(t.src)
	if _, err := t.types.Infer(root); err != nil {
		// Lowering still works without types; it falls back to defaults.
		logger.Printf("%s: type errors before transpiling: %v", t.src.Name, err)
	}
	t.types.DefaultNumerics()
}

// Transpile lowers one expression or declaration. A program block is lowered
// as its sequence of items, with the last expression as the value.
func (t *Transpiler) Transpile(e *parse.Expr) (ts *TokenStream, err error) {
	t.reset(e)
	defer t.recoverBailout(&ts, &err)
	if b, ok := e.Kind.(*parse.Block); ok {
		t.stmts(flatten(b.Exprs), true)
	} else if isDecl(e) {
		t.decl(e)
	} else {
		t.expr(e, precLowest)
	}
	return t.ts, nil
}

// TranspileProgram lowers a whole program. Declarations stay at item level
// and the other top-level statements are wrapped into fn main().
func (t *Transpiler) TranspileProgram(root *parse.Expr) (ts *TokenStream, err error) {
	t.reset(root)
	defer t.recoverBailout(&ts, &err)
	items := []*parse.Expr{root}
	if b, ok := root.Kind.(*parse.Block); ok {
		items = flatten(b.Exprs)
	}
	var decls, stmts []*parse.Expr
	for _, item := range items {
		if isDecl(item) {
			decls = append(decls, item)
		} else {
			stmts = append(stmts, item)
		}
	}
	for _, d := range decls {
		t.decl(d)
	}
	if t.functions["main"] {
		if len(stmts) == 0 || (len(stmts) == 1 && isMainCall(stmts[0])) {
			return t.ts, nil
		}
		t.fail(stmts[0], UnsupportedConstruct, "top-level statements alongside fn main")
	}
	t.ts.words("fn", "main")
	t.ts.punct("(", ")", "{")
	t.stmts(stmts, false)
	t.ts.punct("}")
	return t.ts, nil
}

func (t *Transpiler) recoverBailout(ts **TokenStream, err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	logger.Printf("%s: %s", t.src.Name, b.err.Message)
	*ts = nil
	*err = b.err
}

func (t *Transpiler) fail(r diag.Ranger, kind, format string, args ...any) {
	panic(bailout{&diag.Error{
		Type:    kind,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(t.src.Name, t.src.Code, r),
	}})
}

func isMainCall(e *parse.Expr) bool {
	c, ok := e.Kind.(*parse.Call)
	if !ok || len(c.Args) > 0 {
		return false
	}
	id, ok := c.Func.Kind.(*parse.Ident)
	return ok && id.Name == "main"
}

// flatten expands lets whose bodies hold the rest of their block, so that a
// block lowers to a flat list of Rust statements.
func flatten(items []*parse.Expr) []*parse.Expr {
	var out []*parse.Expr
	for _, item := range items {
		out = append(out, item)
		var body *parse.Expr
		switch n := item.Kind.(type) {
		case *parse.Let:
			body = n.Body
		case *parse.LetPattern:
			body = n.Body
		}
		if body == nil {
			continue
		}
		if b, ok := body.Kind.(*parse.Block); ok {
			out = append(out, flatten(b.Exprs)...)
		} else {
			out = append(out, body)
		}
	}
	return out
}

func isDecl(e *parse.Expr) bool {
	switch e.Kind.(type) {
	case *parse.Function, *parse.StructDecl, *parse.TupleStruct, *parse.Class,
		*parse.Enum, *parse.Trait, *parse.Impl, *parse.Import, *parse.Export,
		*parse.Actor, *parse.Supervisor:
		return true
	}
	return false
}

// collect records the declarations of the input, wherever they are.
func (t *Transpiler) collect(root *parse.Expr) {
	methods := map[*parse.Expr]bool{}
	addMethods := func(typeName string, ms []*parse.Expr) {
		for _, m := range ms {
			methods[m] = true
			if f, ok := m.Kind.(*parse.Function); ok && typeName != "" {
				if t.implMethods[typeName] == nil {
					t.implMethods[typeName] = map[string]bool{}
				}
				t.implMethods[typeName][f.Name] = true
			}
		}
	}
	parse.Walk(root, func(e *parse.Expr) bool {
		switch n := e.Kind.(type) {
		case *parse.Function:
			if !methods[e] {
				t.functions[n.Name] = true
			}
		case *parse.StructDecl:
			t.structs[n.Name] = n
		case *parse.TupleStruct:
			t.tuples[n.Name] = true
		case *parse.Class:
			t.classes[n.Name] = n
			addMethods(n.Name, n.Methods)
		case *parse.Actor:
			t.actors[n.Name] = n
			addMethods(n.Name, n.Methods)
		case *parse.Trait:
			addMethods("", n.Methods)
		case *parse.Impl:
			addMethods(n.ForType, n.Methods)
		}
		return true
	})
}

// typeOf returns the inferred type of e, if any.
func (t *Transpiler) typeOf(e *parse.Expr) types.Type {
	if ty, ok := t.types.TypeOf(e); ok {
		return ty
	}
	return nil
}
