package transpile

import (
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

var derivable = map[string]bool{
	"Debug": true, "Clone": true, "Copy": true, "PartialEq": true, "Eq": true,
	"PartialOrd": true, "Ord": true, "Hash": true, "Default": true,
}

var passAttributes = map[string]bool{
	"test": true, "inline": true, "allow": true, "warn": true, "deny": true,
	"cfg": true, "must_use": true, "deprecated": true, "doc": true,
}

// attributes lowers the attributes of an item.
func (t *Transpiler) attributes(e *parse.Expr) {
	ts := t.ts
	for i := range e.Attributes {
		a := &e.Attributes[i]
		switch {
		case a.Name == "derive":
			for _, d := range a.Args {
				if !derivable[d] {
					t.fail(a, InvalidAttribute, "cannot derive %s", d)
				}
			}
		case passAttributes[a.Name]:
		default:
			t.fail(a, InvalidAttribute, "unknown attribute %s", a.Name)
		}
		ts.punct("#", "[")
		ts.word(a.Name)
		if len(a.Args) > 0 {
			ts.punct("(")
			for j, arg := range a.Args {
				if j > 0 {
					ts.punct(",")
				}
				if strings.HasPrefix(arg, `"`) {
					ts.lit(arg)
				} else {
					ts.word(arg)
				}
			}
			ts.punct(")")
		}
		ts.punct("]")
	}
}

func (t *Transpiler) pub(declared bool) {
	if declared || t.forcePub {
		t.ts.word("pub")
	}
}

// decl lowers an item.
func (t *Transpiler) decl(e *parse.Expr) {
	ts := t.ts
	switch n := e.Kind.(type) {
	case *parse.Function:
		t.function(e, n, fnContext{})
	case *parse.StructDecl:
		t.attributes(e)
		t.pub(n.Pub)
		ts.word("struct")
		ts.word(n.Name)
		t.typeParams(n.TypeParams)
		t.fields(n.Fields)
		t.defaultImpl(n.Name, n.TypeParams, n.Fields)
	case *parse.TupleStruct:
		t.attributes(e)
		t.pub(n.Pub)
		ts.word("struct")
		ts.word(n.Name)
		t.typeParams(n.TypeParams)
		ts.punct("(")
		for i, f := range n.Fields {
			if i > 0 {
				ts.punct(",")
			}
			t.pub(n.Pub)
			t.typeExpr(f, false)
		}
		ts.punct(")", ";")
	case *parse.Class:
		t.class(e, n)
	case *parse.Enum:
		t.enum(e, n)
	case *parse.Trait:
		t.attributes(e)
		t.pub(n.Pub)
		ts.word("trait")
		ts.word(n.Name)
		t.typeParams(n.TypeParams)
		ts.punct("{")
		for _, m := range n.Methods {
			if f, ok := m.Kind.(*parse.Function); ok {
				t.function(m, f, fnContext{inTrait: true})
			}
		}
		ts.punct("}")
	case *parse.Impl:
		t.attributes(e)
		ts.word("impl")
		t.typeParams(n.TypeParams)
		if n.Trait != "" {
			ts.word(n.Trait)
			ts.word("for")
		}
		ts.word(n.ForType)
		t.typeArgs(n.TypeParams)
		ts.punct("{")
		for _, m := range n.Methods {
			if f, ok := m.Kind.(*parse.Function); ok {
				t.function(m, f, fnContext{inTrait: n.Trait != ""})
			}
		}
		ts.punct("}")
	case *parse.Import:
		ts.word("use")
		t.qualifiedName(n.Path)
		switch {
		case len(n.Items) > 0:
			ts.punct("::", "{")
			for i, item := range n.Items {
				if i > 0 {
					ts.punct(",")
				}
				ts.word(item)
			}
			ts.punct("}")
		case n.Alias != "":
			ts.word("as")
			ts.word(n.Alias)
		}
		ts.punct(";")
	case *parse.Export:
		if n.Decl == nil {
			t.fail(e, UnsupportedConstruct, "export of names %s", strings.Join(n.Names, ", "))
		}
		saved := t.forcePub
		t.forcePub = true
		t.decl(n.Decl)
		t.forcePub = saved
	case *parse.Actor:
		t.actor(e, n)
	default:
		t.fail(e, UnsupportedConstruct, "%s cannot be transpiled", constructName(e))
	}
}

func (t *Transpiler) fields(fields []parse.StructField) {
	ts := t.ts
	ts.punct("{")
	for i, f := range fields {
		if i > 0 {
			ts.punct(",")
		}
		t.pub(f.Pub)
		ts.word(f.Name)
		ts.punct(":")
		t.fieldType(f)
	}
	ts.punct("}")
}

// fieldType lowers the declared type of a field, or the type of its default
// value when it has none.
func (t *Transpiler) fieldType(f parse.StructField) {
	switch {
	case f.Type != nil:
		t.typeExpr(f.Type, false)
	case f.Default != nil && concrete(t.typeOf(f.Default), false):
		t.monoType(t.typeOf(f.Default))
	default:
		t.ts.word("i64")
	}
}

// defaultImpl writes impl Default for structs that declare field defaults.
func (t *Transpiler) defaultImpl(name string, tps []parse.TypeParam, fields []parse.StructField) {
	hasDefault := false
	for _, f := range fields {
		if f.Default != nil {
			hasDefault = true
		}
	}
	if !hasDefault {
		return
	}
	ts := t.ts
	ts.word("impl")
	t.typeParams(tps)
	ts.word("Default")
	ts.word("for")
	ts.word(name)
	t.typeArgs(tps)
	ts.punct("{")
	ts.words("fn", "default")
	ts.punct("(", ")", "->")
	ts.word("Self")
	ts.punct("{")
	t.initFields(fields)
	ts.punct("}", "}")
}

// initFields writes Self { f: default, ... } for the given fields.
func (t *Transpiler) initFields(fields []parse.StructField) {
	ts := t.ts
	ts.word("Self")
	ts.punct("{")
	for i, f := range fields {
		if i > 0 {
			ts.punct(",")
		}
		ts.word(f.Name)
		ts.punct(":")
		t.fieldValue(f)
	}
	ts.punct("}")
}

func (t *Transpiler) fieldValue(f parse.StructField) {
	if f.Default == nil {
		t.ts.path("Default", "default")
		t.ts.punct("(", ")")
		return
	}
	if lit, ok := f.Default.Kind.(*parse.StringLit); ok {
		t.ts.path("String", "from")
		t.ts.punct("(")
		t.ts.lit(quoteString(lit.Value))
		t.ts.punct(")")
		return
	}
	t.expr(f.Default, precLowest)
}

func (t *Transpiler) enum(e *parse.Expr, n *parse.Enum) {
	ts := t.ts
	t.attributes(e)
	t.pub(n.Pub)
	ts.word("enum")
	ts.word(n.Name)
	t.typeParams(n.TypeParams)
	ts.punct("{")
	for i, v := range n.Variants {
		if i > 0 {
			ts.punct(",")
		}
		ts.word(v.Name)
		switch v.Kind {
		case parse.TupleVariant:
			ts.punct("(")
			for j, f := range v.Fields {
				if j > 0 {
					ts.punct(",")
				}
				t.typeExpr(f, false)
			}
			ts.punct(")")
		case parse.StructVariant:
			saved := t.forcePub
			t.forcePub = false
			t.fields(v.StructFields)
			t.forcePub = saved
		}
		if v.Discriminant != nil {
			ts.punct("=")
			d := *v.Discriminant
			if d < 0 {
				ts.prefix("-")
				d = -d
			}
			ts.lit(strconv.FormatInt(d, 10))
		}
	}
	ts.punct("}")
}

func (t *Transpiler) class(e *parse.Expr, n *parse.Class) {
	if n.Superclass != "" {
		t.fail(e, UnsupportedConstruct, "class %s extends %s", n.Name, n.Superclass)
	}
	if len(n.Traits) > 0 {
		t.fail(e, UnsupportedConstruct, "class %s implements traits", n.Name)
	}
	ts := t.ts
	t.attributes(e)
	t.pub(n.Pub)
	ts.word("struct")
	ts.word(n.Name)
	t.typeParams(n.TypeParams)
	t.fields(n.Fields)

	ts.word("impl")
	t.typeParams(n.TypeParams)
	ts.word(n.Name)
	t.typeArgs(n.TypeParams)
	ts.punct("{")
	for _, c := range n.Constants {
		ts.words("pub", "const", c.Name)
		ts.punct(":")
		switch {
		case c.Type != nil:
			t.typeExpr(c.Type, false)
		case isStringLit(c.Value):
			ts.prefix("&")
			ts.push(Lifetime, "'static")
			ts.word("str")
		case concrete(t.typeOf(c.Value), false):
			t.monoType(t.typeOf(c.Value))
		default:
			ts.word("i64")
		}
		ts.punct("=")
		t.expr(c.Value, precLowest)
		ts.punct(";")
	}
	for _, c := range n.Constructors {
		t.constructor(n, c)
	}
	for _, m := range n.Methods {
		if f, ok := m.Kind.(*parse.Function); ok {
			t.function(m, f, fnContext{owner: n.Name})
		}
	}
	ts.punct("}")
}

// constructor lowers a class constructor to an associated function that
// builds the instance in a local and returns it.
func (t *Transpiler) constructor(cl *parse.Class, c *parse.Constructor) {
	ts := t.ts
	name := c.Name
	if name == "" {
		name = "new"
	}
	ts.words("pub", "fn", name)
	t.params(nil, c.Params, nil)
	ts.punct("->")
	ts.word("Self")
	ts.punct("{")
	ts.words("let", "mut", "__self")
	ts.punct("=")
	t.initFields(cl.Fields)
	ts.punct(";")
	saved := t.selfName
	t.selfName = "__self"
	if c.Body != nil {
		items := []*parse.Expr{c.Body}
		if b, ok := c.Body.Kind.(*parse.Block); ok {
			items = b.Exprs
		}
		t.stmts(flatten(items), false)
	}
	t.selfName = saved
	ts.word("__self")
	ts.punct("}")
}

type fnContext struct {
	// The class or actor the function is a method of.
	owner string
	// Whether the function is declared in a trait or a trait impl, where
	// methods take no visibility.
	inTrait bool
	// Whether a method declared without self gets &mut self.
	implicitSelf bool
}

func (t *Transpiler) function(e *parse.Expr, f *parse.Function, ctx fnContext) {
	ts := t.ts
	t.attributes(e)
	if !ctx.inTrait {
		t.pub(f.Pub || ctx.owner != "")
	}
	if f.Async {
		ts.word("async")
	}
	ts.words("fn", f.Name)
	t.typeParams(f.TypeParams)
	var inferred *types.Function
	if ft, ok := t.typeOf(e).(types.Function); ok {
		inferred = &ft
	}
	var selfParams []string
	if ctx.implicitSelf && !f.IsMethod() {
		selfParams = []string{"&", "mut", "self"}
	}
	t.params(selfParams, f.Params, inferred)
	if f.Name != "main" {
		t.returnType(f, inferred)
	}
	if f.Body == nil {
		ts.punct(";")
		return
	}
	t.block(f.Body)
}

func (t *Transpiler) params(selfParam []string, params []parse.Param, inferred *types.Function) {
	ts := t.ts
	ts.punct("(")
	first := true
	if selfParam != nil {
		ts.prefix(selfParam[0])
		ts.words(selfParam[1:]...)
		first = false
	}
	offset := 0
	if inferred != nil && len(inferred.Params) == len(params)+1 {
		// Actor hooks are typed with an implicit self.
		offset = 1
	}
	for i := range params {
		p := &params[i]
		if !first {
			ts.punct(",")
		}
		first = false
		switch p.Self {
		case parse.SelfValue:
			ts.word("self")
			continue
		case parse.SelfRef:
			ts.prefix("&")
			ts.word("self")
			continue
		case parse.SelfMutRef:
			ts.prefix("&")
			ts.words("mut", "self")
			continue
		}
		t.pattern(p.Pattern)
		ts.punct(":")
		switch {
		case p.Type != nil:
			t.typeExpr(p.Type, true)
		case inferred != nil && i+offset < len(inferred.Params) && concrete(inferred.Params[i+offset], true):
			t.monoType(inferred.Params[i+offset])
		default:
			ts.word("i64")
		}
	}
	ts.punct(")")
}
