package types

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (c *Context) infer(e *parse.Expr) Type {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.RecursionLimit {
		c.errorf(e, RecursionLimit, "expression nested more than %d levels deep", c.RecursionLimit)
		panic(recursionBailout{})
	}
	return c.record(e, c.inferNode(e))
}

func (c *Context) inferAll(es []*parse.Expr) []Type {
	ts := make([]Type, len(es))
	for i, e := range es {
		ts[i] = c.infer(e)
	}
	return ts
}

func (c *Context) inferNode(e *parse.Expr) Type {
	switch n := e.Kind.(type) {
	case *parse.IntLit:
		return intLitType(c, n.Suffix)
	case *parse.FloatLit:
		return Float
	case *parse.StringLit:
		return String
	case *parse.BoolLit:
		return Bool
	case *parse.CharLit:
		return Char
	case *parse.UnitLit:
		return Unit
	case *parse.NullLit, *parse.None:
		return Optional{c.fresh()}
	case *parse.AtomLit:
		return Named{Name: "Atom"}
	case *parse.Ident:
		return c.inferIdent(e, n.Name)
	case *parse.QualifiedName:
		return c.inferPath(e, n.Path)
	case *parse.FieldAccess:
		return c.inferField(e, n)
	case *parse.IndexAccess:
		return c.inferIndex(e, n)
	case *parse.Slice:
		obj := c.infer(n.Object)
		for _, bound := range []*parse.Expr{n.Start, n.End} {
			if bound != nil {
				c.unify(bound, c.infer(bound), Int)
			}
		}
		return obj
	case *parse.Binary:
		return c.inferBinary(e, n)
	case *parse.Unary:
		return c.inferUnary(e, n)
	case *parse.Assign:
		target := c.infer(n.Target)
		c.assignable(n.Value, target, c.infer(n.Value))
		return Unit
	case *parse.CompoundAssign:
		target := c.infer(n.Target)
		value := c.infer(n.Value)
		c.assignable(e, target, c.binaryOp(e, n.Op, n.Target, n.Value, target, value))
		return Unit
	case *parse.IncDec:
		t := c.infer(n.Target)
		c.numeric(n.Target, t)
		return t
	case *parse.TypeCast:
		c.infer(n.Expr)
		return c.typeFromAnnot(n.Type, nil)
	case *parse.Block:
		c.push()
		defer c.pop()
		return c.inferSeq(n.Exprs)
	case *parse.Call:
		return c.inferCall(e, n.Func, n.Args, nil)
	case *parse.MethodCall:
		return c.inferMethodCall(e, n, nil)
	case *parse.Macro:
		return c.inferMacro(e, n)
	case *parse.Lambda:
		return c.inferLambda(n.Params, n.Body, false)
	case *parse.AsyncLambda:
		return c.inferLambda(n.Params, n.Body, true)
	case *parse.ObjectLiteral:
		for _, f := range n.Fields {
			c.infer(f.Value)
		}
		return Named{Name: "Object"}
	case *parse.StructLiteral:
		return c.inferStructLiteral(e, n)
	case *parse.Tuple:
		return Tuple{c.inferAll(n.Elems)}
	case *parse.List:
		return List{c.unifyElems(n.Elems)}
	case *parse.Set:
		return Named{"Set", []Type{c.unifyElems(n.Elems)}}
	case *parse.ArrayInit:
		elem := c.infer(n.Value)
		c.unify(n.Size, c.infer(n.Size), Int)
		return List{elem}
	case *parse.Range:
		for _, bound := range []*parse.Expr{n.Start, n.End} {
			if bound != nil {
				c.unify(bound, c.infer(bound), Int)
			}
		}
		return List{Int}
	case *parse.ListComprehension:
		return List{c.inferComprehension(n.CompClause, n.Element)}
	case *parse.SetComprehension:
		return Named{"Set", []Type{c.inferComprehension(n.CompClause, n.Element)}}
	case *parse.DictComprehension:
		c.push()
		c.inferClause(n.CompClause)
		c.infer(n.Key)
		c.infer(n.Value)
		c.pop()
		return Named{Name: "Object"}
	case *parse.StringInterpolation:
		for _, p := range n.Parts {
			if p.Expr != nil {
				c.infer(p.Expr)
			}
		}
		return String
	case *parse.Ok:
		return Result{c.infer(n.Value), c.fresh()}
	case *parse.Err:
		return Result{c.fresh(), c.infer(n.Value)}
	case *parse.Some:
		return Optional{c.infer(n.Value)}
	case *parse.Try:
		return c.inferTry(e, n)
	case *parse.Throw:
		c.infer(n.Expr)
		return c.fresh()
	case *parse.DataFrame:
		for _, col := range n.Columns {
			c.unifyElems(col.Values)
		}
		return Named{Name: "DataFrame"}
	case *parse.DataFrameOp:
		recv := c.infer(n.Source)
		return c.methodType(e, recv, n.Op, c.inferAll(n.Args))
	case *parse.Spawn:
		c.infer(n.Actor)
		return Named{Name: "ActorHandle"}
	case *parse.Send:
		c.infer(n.Target)
		c.infer(n.Message)
		if n.Timeout != nil {
			c.unify(n.Timeout, c.infer(n.Timeout), Int)
		}
		if n.Kind == parse.Fire {
			return Unit
		}
		return c.fresh()
	case *parse.Await:
		t := c.infer(n.Expr)
		if f, ok := c.subst.Resolve(t).(Named); ok && f.Name == "Future" && len(f.Args) == 1 {
			return f.Args[0]
		}
		return t
	case *parse.AsyncBlock:
		return Named{"Future", []Type{c.infer(n.Body)}}
	}
	if t, ok := c.inferControl(e); ok {
		return t
	}
	if t, ok := c.inferDecl(e); ok {
		return t
	}
	logger.Printf("no inference rule for %T", e.Kind)
	return c.fresh()
}

// intLitType gives unsuffixed integer literals a numeric variable, so that
// they can also be used as floats.
func intLitType(c *Context, suffix string) Type {
	switch {
	case suffix == "":
		return c.subst.FreshNumeric()
	case strings.HasPrefix(suffix, "f"):
		return Float
	}
	return Int
}

// inferSeq infers a sequence of expressions in the current scope and
// returns the type of the last one.
func (c *Context) inferSeq(es []*parse.Expr) Type {
	var t Type = Unit
	for _, e := range es {
		t = c.infer(e)
	}
	return t
}

// unifyElems infers a list of expressions that must share one type.
func (c *Context) unifyElems(es []*parse.Expr) Type {
	var elem Type = c.fresh()
	for _, e := range es {
		elem = c.unifyNumeric(e, elem, c.infer(e))
	}
	return elem
}

func (c *Context) inferIdent(e *parse.Expr, name string) Type {
	if sc, ok := c.scope.lookup(name); ok {
		return c.instantiate(sc)
	}
	if name == "self" && len(c.self) > 0 {
		return c.self[len(c.self)-1]
	}
	if d, ok := c.types.defs[name]; ok {
		t, _ := c.instance(d)
		return t
	}
	if enum, ok := c.types.variants[name]; ok {
		return c.variantType(e, enum, name)
	}
	if _, ok := builtins[name]; ok {
		// Referenced without being called, like map(abs).
		return c.fresh()
	}
	if isUpper(name) {
		// An undeclared unit message, like Stop.
		return Named{Name: name}
	}
	c.errorf(e, UndefinedVariable, "undefined variable: %s", name)
	return c.fresh()
}

// inferPath types Enum::Variant, Type::function and library paths.
func (c *Context) inferPath(e *parse.Expr, path []string) Type {
	if len(path) < 2 {
		return c.inferIdent(e, strings.Join(path, "::"))
	}
	owner, member := path[len(path)-2], path[len(path)-1]
	d, ok := c.types.defs[owner]
	if !ok {
		return c.fresh()
	}
	if d.enum {
		if _, ok := d.variant[member]; ok {
			return c.variantType(e, owner, member)
		}
	}
	if sc, ok := c.types.method(owner, member); ok {
		return c.instantiate(sc)
	}
	if member == "new" {
		// Constructors without a declared new function accept the fields
		// in order, or any arguments for classes.
		return c.fresh()
	}
	c.errorf(e, UnknownMethod, "%s has no function %s", owner, member)
	return c.fresh()
}

// variantType returns the type of an enum variant used as a value: the enum
// type for unit variants, a constructor function for tuple variants.
func (c *Context) variantType(e *parse.Expr, enum, variant string) Type {
	d := c.types.defs[enum]
	t, params := c.instance(d)
	v := d.variant[variant]
	if v == nil || v.Kind != parse.TupleVariant {
		return t
	}
	ps := make([]Type, len(v.Fields))
	for i, f := range v.Fields {
		ps[i] = c.typeFromAnnot(f, params)
	}
	return Function{ps, t}
}

func (c *Context) inferField(e *parse.Expr, n *parse.FieldAccess) Type {
	obj := c.subst.Resolve(c.infer(n.Object))
	if r, ok := obj.(Reference); ok {
		obj = c.subst.Resolve(r.Elem)
	}
	switch t := obj.(type) {
	case Tuple:
		if i, err := strconv.Atoi(n.Field); err == nil {
			if i >= 0 && i < len(t.Elems) {
				return t.Elems[i]
			}
			c.errorf(e, UnknownField, "tuple %s has no field %d", c.subst.Apply(t), i)
			return c.fresh()
		}
	case Named:
		d, ok := c.types.defs[t.Name]
		if !ok || d.enum {
			return c.fresh()
		}
		owner, f, ok := c.types.field(d, n.Field)
		if !ok {
			if _, isMethod := c.types.method(t.Name, n.Field); isMethod {
				return c.fresh()
			}
			c.errorf(e, UnknownField, "%s has no field %s", t.Name, n.Field)
			return c.fresh()
		}
		_, params := c.instanceOf(owner, t)
		return c.typeFromAnnot(f, params)
	case Var:
		return c.fresh()
	}
	c.errorf(e, UnknownField, "%s has no field %s", c.subst.Apply(obj), n.Field)
	return c.fresh()
}

func (c *Context) inferIndex(e *parse.Expr, n *parse.IndexAccess) Type {
	obj := c.subst.Resolve(c.infer(n.Object))
	idx := c.infer(n.Index)
	if r, ok := obj.(Reference); ok {
		obj = c.subst.Resolve(r.Elem)
	}
	switch t := obj.(type) {
	case List:
		c.unify(n.Index, idx, Int)
		return t.Elem
	case Prim:
		if t.Kind == StringKind {
			c.unify(n.Index, idx, Int)
			return String
		}
	case Tuple:
		if lit, ok := n.Index.Kind.(*parse.IntLit); ok && lit.Value >= 0 && int(lit.Value) < len(t.Elems) {
			return t.Elems[lit.Value]
		}
		return c.fresh()
	case Named, Var:
		return c.fresh()
	}
	c.errorf(e, TypeMismatch, "cannot index %s", c.subst.Apply(obj))
	return c.fresh()
}

func (c *Context) inferBinary(e *parse.Expr, n *parse.Binary) Type {
	switch n.Op {
	case parse.OpAnd, parse.OpOr:
		c.unify(n.Left, c.infer(n.Left), Bool)
		c.unify(n.Right, c.infer(n.Right), Bool)
		return Bool
	case parse.OpPipe:
		return c.inferPipe(e, n)
	case parse.OpNullCoalesce:
		l := c.infer(n.Left)
		r := c.infer(n.Right)
		switch lt := c.subst.Resolve(l).(type) {
		case Optional:
			return c.unifyNumeric(n.Right, lt.Elem, r)
		case Var:
			inner := c.fresh()
			c.unify(n.Left, l, Optional{inner})
			return c.unifyNumeric(n.Right, inner, r)
		}
		return c.unifyNumeric(n.Right, l, r)
	}
	l := c.infer(n.Left)
	r := c.infer(n.Right)
	return c.binaryOp(e, n.Op, n.Left, n.Right, l, r)
}

// inferPipe types x |> f like the call f(x), and x |> f(a) like f(x, a).
func (c *Context) inferPipe(e *parse.Expr, n *parse.Binary) Type {
	l := c.infer(n.Left)
	switch r := n.Right.Kind.(type) {
	case *parse.Call:
		return c.record(n.Right, c.inferCall(n.Right, r.Func, r.Args, []Type{l}))
	case *parse.MethodCall:
		return c.record(n.Right, c.inferMethodCall(n.Right, r, []Type{l}))
	}
	f := c.infer(n.Right)
	ret := c.fresh()
	c.unify(e, f, Function{[]Type{l}, ret})
	return ret
}

func (c *Context) binaryOp(e *parse.Expr, op parse.BinaryOp, le, re *parse.Expr, l, r Type) Type {
	switch {
	case op.IsComparison():
		if !c.bothNumeric(l, r) {
			c.unifyRelated(re, le, "left operand", r, l)
		}
		return Bool
	case op.IsBitwise():
		if isPrim(c.subst.Resolve(l), BoolKind) {
			c.unify(re, r, Bool)
			return Bool
		}
		c.unify(le, l, Int)
		c.unify(re, r, Int)
		return Int
	}
	switch lt := c.subst.Resolve(l).(type) {
	case Prim:
		if lt.Kind == StringKind {
			switch op {
			case parse.OpAdd:
				if !isPrim(c.subst.Resolve(r), CharKind) {
					c.unifyRelated(re, le, "left operand", r, String)
				}
				return String
			case parse.OpMul:
				c.unify(re, r, Int)
				return String
			}
		}
	case List:
		switch op {
		case parse.OpAdd:
			c.unifyRelated(re, le, "left operand", r, l)
			return l
		case parse.OpMul:
			c.unify(re, r, Int)
			return l
		}
	}
	okL := c.numeric(le, l)
	okR := c.numeric(re, r)
	if !okL || !okR {
		return c.fresh()
	}
	if isPrim(c.subst.Resolve(l), FloatKind) || isPrim(c.subst.Resolve(r), FloatKind) {
		return Float
	}
	return c.unify(e, l, r)
}

func (c *Context) inferUnary(e *parse.Expr, n *parse.Unary) Type {
	t := c.infer(n.Operand)
	switch n.Op {
	case parse.OpNeg:
		c.numeric(n.Operand, t)
		return t
	case parse.OpNot:
		if isPrim(c.subst.Resolve(t), IntKind) {
			return Int
		}
		return c.unify(n.Operand, t, Bool)
	case parse.OpBitNot:
		return c.unify(n.Operand, t, Int)
	case parse.OpRef, parse.OpRefMut:
		return Reference{t, n.Op == parse.OpRefMut}
	case parse.OpDeref:
		if r, ok := c.subst.Resolve(t).(Reference); ok {
			return r.Elem
		}
	}
	return t
}

// numeric requires t to be a number, and restricts it to numbers when it
// is still a variable.
func (c *Context) numeric(at *parse.Expr, t Type) bool {
	switch r := c.subst.Resolve(t).(type) {
	case Var:
		c.subst.MarkNumeric(r)
		return true
	case Prim:
		if r.Kind == IntKind || r.Kind == FloatKind {
			return true
		}
	case Reference:
		return c.numeric(at, r.Elem)
	}
	c.errorf(at, TypeMismatch, "expected a number, got %s", c.subst.Apply(t))
	return false
}

// bothNumeric reports whether a and b are numbers or numeric variables,
// which may be mixed without unifying them.
func (c *Context) bothNumeric(a, b Type) bool {
	isNum := func(t Type) bool {
		r := c.subst.Resolve(t)
		return isPrim(r, IntKind) || isPrim(r, FloatKind) || c.subst.IsNumeric(r)
	}
	return isNum(a) && isNum(b)
}

// unifyNumeric unifies like unify, except that an Int and a Float meet at
// Float.
func (c *Context) unifyNumeric(at *parse.Expr, a, b Type) Type {
	ra, rb := c.subst.Resolve(a), c.subst.Resolve(b)
	if (isPrim(ra, IntKind) && isPrim(rb, FloatKind)) || (isPrim(ra, FloatKind) && isPrim(rb, IntKind)) {
		return Float
	}
	return c.unify(at, a, b)
}

// assignable checks an assignment of a value to a target. Numbers convert
// implicitly.
func (c *Context) assignable(at *parse.Expr, target, value Type) {
	if c.bothNumeric(target, value) {
		if c.subst.IsNumeric(target) || c.subst.IsNumeric(value) {
			c.unify(at, target, value)
		}
		return
	}
	c.unify(at, value, target)
}

func isPrim(t Type, k PrimKind) bool {
	p, ok := t.(Prim)
	return ok && p.Kind == k
}

func isUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func (c *Context) inferTry(e *parse.Expr, n *parse.Try) Type {
	t := c.infer(n.Expr)
	switch r := c.subst.Resolve(t).(type) {
	case Result:
		return r.Ok
	case Optional:
		return r.Elem
	case Var:
		return c.fresh()
	}
	c.errorf(e, TypeMismatch, "the ? operator needs an Option or Result, got %s", c.subst.Apply(t))
	return c.fresh()
}

func (c *Context) inferCall(e, callee *parse.Expr, argExprs []*parse.Expr, leading []Type) Type {
	args := append(leading, c.inferAll(argExprs)...)
	if id, ok := callee.Kind.(*parse.Ident); ok {
		if _, bound := c.scope.lookup(id.Name); !bound {
			if sig, ok := builtins[id.Name]; ok {
				c.record(callee, c.fresh())
				return sig(c, e, args)
			}
			if d, ok := c.types.defs[id.Name]; ok && !d.enum {
				c.record(callee, c.fresh())
				return c.construct(e, d, args)
			}
		}
	}
	if qn, ok := callee.Kind.(*parse.QualifiedName); ok {
		full := strings.Join(qn.Path, "::")
		if sig, ok := builtins[full]; ok {
			c.record(callee, c.fresh())
			return sig(c, e, args)
		}
		if len(qn.Path) == 2 {
			if d, ok := c.types.defs[qn.Path[0]]; ok && !d.enum {
				if _, declared := c.types.method(d.name, qn.Path[1]); !declared && qn.Path[1] == "new" {
					c.record(callee, c.fresh())
					return c.construct(e, d, args)
				}
			}
		}
	}
	f := c.infer(callee)
	switch ft := c.subst.Resolve(f).(type) {
	case Function:
		c.unifyCallArgs(e, callee, ft, args)
		return ft.Ret
	case Var:
		ret := c.fresh()
		c.unify(e, f, Function{args, ret})
		return ret
	case Named:
		// An undeclared message constructor like Add(1).
		if isUpper(ft.Name) {
			return ft
		}
	}
	c.errorf(callee, TypeMismatch, "%s is not a function", c.subst.Apply(f))
	return c.fresh()
}

// unifyCallArgs checks the arguments of a call of a known function type.
// Calls of a named function may omit parameters that have defaults.
func (c *Context) unifyCallArgs(e, callee *parse.Expr, ft Function, args []Type) {
	params := ft.Params
	if id, ok := callee.Kind.(*parse.Ident); ok {
		if required, ok := c.required[id.Name]; ok && len(args) >= required && len(args) < len(params) {
			params = params[:len(args)]
		}
	}
	what := "function"
	if id, ok := callee.Kind.(*parse.Ident); ok {
		what = id.Name
	}
	c.unifyArgs(e, what, params, args)
}

// construct types a call of a struct or class name used as a constructor.
func (c *Context) construct(e *parse.Expr, d *typeDef, args []Type) Type {
	t, params := c.instance(d)
	if sc, ok := d.methods["new"]; ok && d.static["new"] {
		ft, ok := c.subst.Resolve(c.instantiate(sc)).(Function)
		if ok {
			c.unifyArgs(e, d.name+"::new", ft.Params, args)
			c.unify(e, ft.Ret, t)
		}
		return t
	}
	if len(d.order) > 0 && len(args) == len(d.order) {
		for i, name := range d.order {
			c.unify(e, args[i], c.typeFromAnnot(d.fields[name], params))
		}
	}
	return t
}

func (c *Context) inferMethodCall(e *parse.Expr, n *parse.MethodCall, leading []Type) Type {
	recv := c.infer(n.Receiver)
	args := append(leading, c.inferAll(n.Args)...)
	if _, ok := c.subst.Resolve(recv).(Var); ok {
		if sig, ok := anyMethods[n.Method]; ok {
			return sig(&methodCall{c, e, recv, args})
		}
		ret := c.fresh()
		c.deferred = append(c.deferred, deferredCall{e, recv, n.Method, args, ret})
		return ret
	}
	return c.methodType(e, recv, n.Method, args)
}

func (c *Context) inferMacro(e *parse.Expr, n *parse.Macro) Type {
	switch n.Name {
	case "vec":
		if len(n.Args) == 1 {
			if _, ok := n.Args[0].Kind.(*parse.ArrayInit); ok {
				return c.infer(n.Args[0])
			}
		}
		return List{c.unifyElems(n.Args)}
	case "dbg":
		ts := c.inferAll(n.Args)
		switch len(ts) {
		case 0:
			return Unit
		case 1:
			return ts[0]
		}
		return Tuple{ts}
	}
	c.inferAll(n.Args)
	switch n.Name {
	case "println", "print", "eprintln", "eprint", "assert", "assert_eq", "assert_ne":
		return Unit
	case "format", "stringify":
		return String
	case "panic", "todo", "unimplemented", "unreachable":
		return c.fresh()
	}
	c.warnf(e, UnknownMethod, "unknown macro %s!", n.Name)
	return c.fresh()
}

func (c *Context) inferStructLiteral(e *parse.Expr, n *parse.StructLiteral) Type {
	name := n.Name
	var fields map[string]*parse.TypeExpr
	var t Type
	var params map[string]Type
	if i := strings.LastIndex(name, "::"); i >= 0 {
		enum, variant := name[:i], name[i+2:]
		d, ok := c.types.defs[enum]
		if !ok || d.variant[variant] == nil {
			c.inferFieldInits(n)
			return Named{Name: enum}
		}
		t, params = c.instance(d)
		fields = map[string]*parse.TypeExpr{}
		for _, f := range d.variant[variant].StructFields {
			fields[f.Name] = f.Type
		}
	} else {
		d, ok := c.types.defs[name]
		if !ok {
			c.errorf(e, UndefinedVariable, "undefined struct: %s", name)
			c.inferFieldInits(n)
			return c.fresh()
		}
		t, params = c.instance(d)
		fields = c.types.allFields(d)
	}
	for _, f := range n.Fields {
		v := c.infer(f.Value)
		ft, ok := fields[f.Name]
		if !ok {
			c.errorf(f.Value, UnknownField, "%s has no field %s", name, f.Name)
			continue
		}
		c.assignable(f.Value, c.typeFromAnnot(ft, params), v)
	}
	if n.Base != nil {
		c.unify(n.Base, c.infer(n.Base), t)
	}
	return t
}

func (c *Context) inferFieldInits(n *parse.StructLiteral) {
	for _, f := range n.Fields {
		c.infer(f.Value)
	}
	if n.Base != nil {
		c.infer(n.Base)
	}
}

// inferComprehension infers "elem for pat in iter if cond" in a new scope
// and returns the element type.
func (c *Context) inferComprehension(cl parse.CompClause, elem *parse.Expr) Type {
	c.push()
	defer c.pop()
	c.inferClause(cl)
	return c.infer(elem)
}

func (c *Context) inferClause(cl parse.CompClause) {
	iter := c.infer(cl.Iter)
	c.bindPattern(cl.Pattern, c.elemOf(cl.Iter, iter), false)
	if cl.Cond != nil {
		c.unify(cl.Cond, c.infer(cl.Cond), Bool)
	}
}

// elemOf returns the type of the values produced by iterating over a value
// of type t.
func (c *Context) elemOf(at *parse.Expr, t Type) Type {
	switch r := c.subst.Resolve(t).(type) {
	case List:
		return r.Elem
	case Prim:
		if r.Kind == StringKind {
			return Char
		}
	case Named:
		switch r.Name {
		case "Set":
			if len(r.Args) == 1 {
				return r.Args[0]
			}
		case "Object":
			return Tuple{[]Type{String, c.fresh()}}
		case "DataFrame":
			return Named{Name: "Object"}
		}
		return c.fresh()
	case Tuple:
		return c.fresh()
	case Reference:
		return c.elemOf(at, r.Elem)
	case Var:
		elem := c.fresh()
		c.unify(at, t, List{elem})
		return elem
	}
	c.errorf(at, TypeMismatch, "cannot iterate over %s", c.subst.Apply(t))
	return c.fresh()
}
