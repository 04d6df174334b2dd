package eval

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/paiml/ruchy-sub012/pkg/eval/pattern"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// eval evaluates an expression in the current scope.
func (fm *Frame) eval(e *parse.Expr) (any, error) {
	switch n := e.Kind.(type) {
	case *parse.IntLit:
		return n.Value, nil
	case *parse.FloatLit:
		return n.Value, nil
	case *parse.StringLit:
		return n.Value, nil
	case *parse.BoolLit:
		return n.Value, nil
	case *parse.CharLit:
		return string(n.Value), nil
	case *parse.UnitLit, *parse.NullLit:
		return nil, nil
	case *parse.AtomLit:
		return vals.Atom(n.Name), nil
	case *parse.Ident:
		return fm.evalIdent(e, n.Name)
	case *parse.QualifiedName:
		return fm.evalPath(e, n.Path)
	case *parse.FieldAccess:
		obj, err := fm.eval(n.Object)
		if err != nil {
			return nil, err
		}
		return fm.getField(e, obj, n.Field)
	case *parse.IndexAccess:
		return fm.evalIndex(e, n)
	case *parse.Slice:
		return fm.evalSlice(e, n)
	case *parse.Binary:
		return fm.evalBinary(e, n)
	case *parse.Unary:
		return fm.evalUnary(e, n)
	case *parse.Assign:
		return fm.evalAssign(e, n)
	case *parse.CompoundAssign:
		return fm.evalCompoundAssign(e, n)
	case *parse.IncDec:
		return fm.evalIncDec(e, n)
	case *parse.TypeCast:
		return fm.evalCast(e, n)
	case *parse.If:
		return fm.evalIf(n)
	case *parse.IfLet:
		return fm.evalIfLet(n)
	case *parse.Match:
		return fm.evalMatch(e, n)
	case *parse.While:
		return fm.evalWhile(n)
	case *parse.WhileLet:
		return fm.evalWhileLet(n)
	case *parse.Loop:
		return fm.evalLoop(n)
	case *parse.For:
		return fm.evalFor(e, n)
	case *parse.Break:
		v, err := fm.evalOptional(n.Value)
		if err != nil {
			return nil, err
		}
		return nil, &flowError{Break, n.Label, v, e.Ranging}
	case *parse.Continue:
		return nil, &flowError{Continue, n.Label, nil, e.Ranging}
	case *parse.Return:
		v, err := fm.evalOptional(n.Value)
		if err != nil {
			return nil, err
		}
		return nil, &flowError{Return, "", v, e.Ranging}
	case *parse.Let:
		return fm.evalLet(e, n)
	case *parse.LetPattern:
		return fm.evalLetPattern(e, n)
	case *parse.Block:
		defer fm.enter()()
		return fm.evalSeq(n.Exprs)
	case *parse.Lambda:
		return &Closure{Params: n.Params, Body: n.Body, Env: fm.env, src: fm.src}, nil
	case *parse.AsyncLambda:
		return &Closure{Params: n.Params, Body: n.Body, Env: fm.env, Async: true, src: fm.src}, nil
	case *parse.Function:
		return fm.evalFunction(n)
	case *parse.Call:
		return fm.evalCall(e, n)
	case *parse.MethodCall:
		return fm.evalMethodCall(e, n)
	case *parse.Macro:
		return fm.evalMacro(e, n)
	case *parse.StructDecl:
		return fm.evalStructDecl(n)
	case *parse.TupleStruct:
		return fm.evalTupleStruct(n)
	case *parse.Class:
		return fm.evalClass(e, n)
	case *parse.Enum:
		return fm.evalEnum(n)
	case *parse.Trait:
		return fm.evalTrait(n)
	case *parse.Impl:
		return fm.evalImpl(e, n)
	case *parse.Import:
		return fm.evalImport(e, n)
	case *parse.Export:
		if n.Decl != nil {
			return fm.eval(n.Decl)
		}
		return nil, nil
	case *parse.Actor:
		fm.env.Define(n.Name, fm.actorDef(n), false)
		return nil, nil
	case *parse.Supervisor:
		fm.env.Define(n.Name, &SupervisorDef{n, fm.env, fm.src}, false)
		return nil, nil
	case *parse.StructLiteral:
		return fm.evalStructLiteral(e, n)
	case *parse.ObjectLiteral:
		return fm.evalObjectLiteral(n)
	case *parse.Tuple:
		elems, err := fm.evalExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return vals.Tuple(elems), nil
	case *parse.List:
		elems, err := fm.evalExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return vals.MakeList(elems...), nil
	case *parse.Set:
		elems, err := fm.evalExprs(n.Elems)
		if err != nil {
			return nil, err
		}
		return vals.MakeSet(elems...), nil
	case *parse.ArrayInit:
		return fm.evalArrayInit(e, n)
	case *parse.Range:
		return fm.evalRange(e, n)
	case *parse.ListComprehension:
		var out []any
		err := fm.comprehend(n.CompClause, func() error {
			v, err := fm.eval(n.Element)
			out = append(out, v)
			return err
		})
		return vals.MakeList(out...), err
	case *parse.SetComprehension:
		set := vals.MakeSet()
		err := fm.comprehend(n.CompClause, func() error {
			v, err := fm.eval(n.Element)
			set = set.Add(v)
			return err
		})
		return set, err
	case *parse.DictComprehension:
		obj := vals.Object{}
		err := fm.comprehend(n.CompClause, func() error {
			k, err := fm.eval(n.Key)
			if err != nil {
				return err
			}
			v, err := fm.eval(n.Value)
			obj = obj.Set(vals.ToString(k), v)
			return err
		})
		return obj, err
	case *parse.StringInterpolation:
		return fm.evalInterpolation(n)
	case *parse.Spawn:
		return fm.evalSpawn(e, n)
	case *parse.Send:
		return fm.evalSend(e, n)
	case *parse.Await:
		v, err := fm.eval(n.Expr)
		if err != nil {
			return nil, err
		}
		return fm.await(v)
	case *parse.AsyncBlock:
		return fm.makeFuture(n.Body), nil
	case *parse.Receive:
		return fm.evalReceive(e, n)
	case *parse.Ok:
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		return vals.MakeOk(v), nil
	case *parse.Err:
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		return vals.MakeErr(v), nil
	case *parse.Some:
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		return vals.MakeSome(v), nil
	case *parse.None:
		return vals.None, nil
	case *parse.Try:
		return fm.evalTry(e, n)
	case *parse.Throw:
		v, err := fm.eval(n.Expr)
		if err != nil {
			return nil, err
		}
		exc := fm.errorf(e, Thrown, "%s", vals.ToString(v))
		exc.Value = v
		return nil, exc
	case *parse.TryCatch:
		return fm.evalTryCatch(n)
	case *parse.DataFrame:
		return fm.evalDataFrame(e, n)
	case *parse.DataFrameOp:
		src, err := fm.eval(n.Source)
		if err != nil {
			return nil, err
		}
		args, err := fm.evalExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return fm.callBuiltinMethod(e, src, n.Op, args, nil)
	}
	return nil, fm.errorf(e, TypeError, "cannot evaluate %T", e.Kind)
}

// evalSeq evaluates expressions in order in the current scope, and returns
// the value of the last one.
func (fm *Frame) evalSeq(exprs []*parse.Expr) (any, error) {
	var v any
	for _, e := range exprs {
		var err error
		v, err = fm.eval(e)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// evalBody evaluates the body of a let in the scope the let created.
func (fm *Frame) evalBody(body *parse.Expr) (any, error) {
	if block, ok := body.Kind.(*parse.Block); ok {
		return fm.evalSeq(block.Exprs)
	}
	return fm.eval(body)
}

func (fm *Frame) evalOptional(e *parse.Expr) (any, error) {
	if e == nil {
		return nil, nil
	}
	return fm.eval(e)
}

func (fm *Frame) evalExprs(es []*parse.Expr) ([]any, error) {
	vs := make([]any, len(es))
	for i, e := range es {
		v, err := fm.eval(e)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func isUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func (fm *Frame) evalIdent(e *parse.Expr, name string) (any, error) {
	if v, ok := fm.lookup(name); ok {
		return v, nil
	}
	if isUpper(name) {
		// A bare capitalized name that is not bound is a unit message, like
		// Stop in "actor <- Stop".
		return vals.EnumVariant{Variant: name}, nil
	}
	return nil, fm.errorf(e, UndefinedVariable, "undefined variable: %s", name)
}

// evalPath evaluates a path like Color::Red, Point::new or HashMap::new.
func (fm *Frame) evalPath(e *parse.Expr, path []string) (any, error) {
	full := strings.Join(path, "::")
	if v, ok := fm.ip.builtins[full]; ok {
		return v, nil
	}
	owner, member := path[len(path)-2], path[len(path)-1]
	def, ok := fm.lookup(owner)
	if !ok {
		if len(path) == 2 && isUpper(member) {
			return vals.EnumVariant{Enum: owner, Variant: member}, nil
		}
		return nil, fm.errorf(e, UndefinedVariable, "undefined: %s", full)
	}
	switch def := def.(type) {
	case *EnumDef:
		_, v := def.variant(member)
		if v == nil {
			if m, ok := fm.ip.methods[def.Name][member]; ok {
				return m, nil
			}
			return nil, fm.errorf(e, UnknownField, "enum %s has no variant %s", def.Name, member)
		}
		switch v.Kind {
		case parse.TupleVariant:
			return VariantCtor{def.Name, member, len(v.Fields)}, nil
		case parse.StructVariant:
			return nil, fm.errorf(e, TypeError, "struct variant %s must be constructed with fields", full)
		}
		return vals.EnumVariant{Enum: def.Name, Variant: member}, nil
	case *ClassDef:
		if c, ok := def.Constants[member]; ok {
			return c, nil
		}
		if m, ok := def.method(member); ok {
			return m, nil
		}
		if member == "new" || def.Constructors[member] != nil {
			return &Builtin{def.Name + "::" + member, func(fm *Frame, args []any) (any, error) {
				return fm.construct(e, def, member, args)
			}}, nil
		}
		return nil, fm.errorf(e, UnknownMethod, "class %s has no member %s", def.Name, member)
	case *StructDef:
		if m, ok := fm.ip.methods[def.Name][member]; ok {
			return m, nil
		}
		if member == "new" {
			return &Builtin{def.Name + "::new", func(fm *Frame, args []any) (any, error) {
				return fm.constructStruct(e, def, args)
			}}, nil
		}
		return nil, fm.errorf(e, UnknownMethod, "%s has no function %s", def.Name, member)
	case *TraitDef:
		if m, ok := fm.ip.methods[def.Name][member]; ok {
			return m, nil
		}
		return nil, fm.errorf(e, UnknownMethod, "%s has no function %s", def.Name, member)
	}
	return nil, fm.errorf(e, TypeError, "%s is not a type", owner)
}

// fieldShape describes the values whose field accesses go through the inline
// cache: the shape identifies the layout, names lists the fields by slot and
// slot reads a field by its position.
func fieldShape(v any) (shape string, names []string, slot func(int) (any, bool)) {
	switch v := v.(type) {
	case vals.Struct:
		return "struct:" + v.Name, v.Names, v.Slot
	case *vals.Instance:
		return "class:" + v.Class, v.Names, v.Slot
	case vals.EnumVariant:
		if v.FieldNames != nil {
			return "variant:" + v.Enum + "::" + v.Variant, v.FieldNames, v.Slot
		}
	case vals.DataFrame:
		return "dataframe", v.ColumnNames(), func(i int) (any, bool) {
			col, ok := v.ColumnAt(i)
			return col, ok
		}
	}
	return "", nil, nil
}

// getField implements o.f.
func (fm *Frame) getField(e *parse.Expr, obj any, field string) (any, error) {
	if fm.ip.opts.InlineCache {
		if shape, names, slotOf := fieldShape(obj); slotOf != nil {
			cache := fm.ip.caches.Site(fm.ip.siteOf(e))
			if slot, hit := cache.Lookup(shape, field); hit && slot < len(names) && names[slot] == field {
				if v, ok := slotOf(slot); ok {
					return v, nil
				}
			}
			for slot, name := range names {
				if name == field {
					if v, ok := slotOf(slot); ok {
						cache.Insert(shape, field, slot)
						return v, nil
					}
					break
				}
			}
		}
	}
	switch o := obj.(type) {
	case vals.Object:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
	case *vals.ObjectMut:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
	case vals.Struct:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
	case *vals.Instance:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
		if def, ok := o.Def.(*ClassDef); ok {
			if m, ok := def.method(field); ok {
				return BoundMethod{o, m}, nil
			}
		}
	case vals.EnumVariant:
		if v, ok := o.Field(field); ok {
			return v, nil
		}
		if i, err := strconv.Atoi(field); err == nil && i >= 0 && i < len(o.Data) && o.FieldNames == nil {
			return o.Data[i], nil
		}
	case vals.Tuple:
		if i, err := strconv.Atoi(field); err == nil {
			if i >= 0 && i < len(o) {
				return o[i], nil
			}
			return nil, fm.errorf(e, IndexOutOfRange, "tuple index %d out of range for tuple of length %d", i, len(o))
		}
	case vals.DataFrame:
		if col, ok := o.Column(field); ok {
			return col, nil
		}
	case *Exception:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
	case *ClassDef:
		if v, ok := o.Constants[field]; ok {
			return v, nil
		}
	}
	if m, ok := fm.userMethod(obj, field); ok {
		return BoundMethod{obj, m}, nil
	}
	return nil, fm.errorf(e, UnknownField, "%s has no field %s", vals.TypeName(obj), field)
}

func (fm *Frame) evalIndex(e *parse.Expr, n *parse.IndexAccess) (any, error) {
	obj, err := fm.eval(n.Object)
	if err != nil {
		return nil, err
	}
	idx, err := fm.eval(n.Index)
	if err != nil {
		return nil, err
	}
	return fm.index(e, obj, idx)
}

func (fm *Frame) index(e *parse.Expr, obj, idx any) (any, error) {
	switch o := obj.(type) {
	case vals.Object, *vals.ObjectMut:
		v, err := vals.Index(o, idx)
		if err != nil {
			return nil, fm.errorf(e, UnknownField, "no key %s in object", vals.ReprPlain(idx))
		}
		return v, nil
	}
	if f, ok := idx.(float64); ok {
		return nil, fm.errorf(e, TypeError, "index must be an integer, got float %v", f)
	}
	v, err := vals.Index(obj, idx)
	if err != nil {
		return nil, fm.wrap(e, err)
	}
	return v, nil
}

func (fm *Frame) evalSlice(e *parse.Expr, n *parse.Slice) (any, error) {
	obj, err := fm.eval(n.Object)
	if err != nil {
		return nil, err
	}
	bound := func(b *parse.Expr) (*int64, error) {
		if b == nil {
			return nil, nil
		}
		v, err := fm.eval(b)
		if err != nil {
			return nil, err
		}
		i, ok := v.(int64)
		if !ok {
			return nil, fm.errorf(b, TypeError, "slice bound must be an integer, got %s", vals.Kind(v))
		}
		return &i, nil
	}
	lower, err := bound(n.Start)
	if err != nil {
		return nil, err
	}
	upper, err := bound(n.End)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case string:
		runes := []rune(o)
		i, j, err := vals.ConvertSlice(lower, upper, n.Inclusive, len(runes))
		if err != nil {
			return nil, fm.wrap(e, err)
		}
		return string(runes[i:j]), nil
	case vals.List:
		i, j, err := vals.ConvertSlice(lower, upper, n.Inclusive, o.Len())
		if err != nil {
			return nil, fm.wrap(e, err)
		}
		return o.SubVector(i, j), nil
	case vals.Tuple:
		i, j, err := vals.ConvertSlice(lower, upper, n.Inclusive, len(o))
		if err != nil {
			return nil, fm.wrap(e, err)
		}
		return append(vals.Tuple(nil), o[i:j]...), nil
	case vals.DataFrame:
		i, j, err := vals.ConvertSlice(lower, upper, n.Inclusive, o.Rows())
		if err != nil {
			return nil, fm.wrap(e, err)
		}
		return o.Slice(i, j), nil
	}
	return nil, fm.errorf(e, TypeError, "cannot slice %s", vals.Kind(obj))
}

func (fm *Frame) evalObjectLiteral(n *parse.ObjectLiteral) (any, error) {
	obj := vals.Object{}
	for _, f := range n.Fields {
		v, err := fm.eval(f.Value)
		if err != nil {
			return nil, err
		}
		if !f.Spread {
			obj = obj.Set(f.Key, v)
			continue
		}
		switch src := v.(type) {
		case vals.Object:
			src.IteratePairs(func(k string, v any) bool { obj = obj.Set(k, v); return true })
		case *vals.ObjectMut:
			src.Snapshot().IteratePairs(func(k string, v any) bool { obj = obj.Set(k, v); return true })
		case vals.Struct:
			for _, k := range src.FieldNames() {
				fv, _ := src.Get(k)
				obj = obj.Set(k, fv)
			}
		default:
			return nil, fm.errorf(f.Value, TypeError, "cannot spread %s into an object", vals.Kind(v))
		}
	}
	return obj, nil
}

// maxArrayInit limits [value; size] to keep a typo from exhausting memory.
const maxArrayInit = 1 << 24

func (fm *Frame) evalArrayInit(e *parse.Expr, n *parse.ArrayInit) (any, error) {
	v, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	sizeV, err := fm.eval(n.Size)
	if err != nil {
		return nil, err
	}
	size, ok := sizeV.(int64)
	if !ok || size < 0 || size > maxArrayInit {
		return nil, fm.errorf(n.Size, TypeError, "array size must be an integer from 0 to %d, got %s", maxArrayInit, vals.ReprPlain(sizeV))
	}
	l := vals.EmptyList
	for i := int64(0); i < size; i++ {
		l = l.Cons(v)
	}
	return l, nil
}

func (fm *Frame) evalRange(e *parse.Expr, n *parse.Range) (any, error) {
	r := vals.Range{Inclusive: n.Inclusive}
	if n.Start != nil {
		v, err := fm.eval(n.Start)
		if err != nil {
			return nil, err
		}
		start, ok := v.(int64)
		if !ok {
			return nil, fm.errorf(n.Start, TypeError, "range bound must be an integer, got %s", vals.Kind(v))
		}
		r.Start = start
	}
	if n.End == nil {
		r.Unbounded = true
		r.End = math.MaxInt64
		return r, nil
	}
	v, err := fm.eval(n.End)
	if err != nil {
		return nil, err
	}
	end, ok := v.(int64)
	if !ok {
		return nil, fm.errorf(n.End, TypeError, "range bound must be an integer, got %s", vals.Kind(v))
	}
	r.End = end
	return r, nil
}

// comprehend runs body once for every element of the clause's iterable that
// matches its pattern and passes its condition, with the pattern's bindings
// in scope.
func (fm *Frame) comprehend(c parse.CompClause, body func() error) error {
	it, err := fm.eval(c.Iter)
	if err != nil {
		return err
	}
	return fm.iterate(c.Iter, it, func(elem any) error {
		bs, ok := pattern.Match(c.Pattern, elem)
		if !ok {
			return nil
		}
		defer fm.enter()()
		fm.define(bs, false)
		if c.Cond != nil {
			cond, err := fm.eval(c.Cond)
			if err != nil {
				return err
			}
			if !vals.Truthy(cond) {
				return nil
			}
		}
		return body()
	})
}

// iterate calls f for each element of v, stopping at the first error.
func (fm *Frame) iterate(r *parse.Expr, v any, f func(any) error) error {
	if !vals.CanIterate(v) {
		return fm.errorf(r, TypeError, "cannot iterate over %s", vals.Kind(v))
	}
	var ferr error
	err := vals.Iterate(v, func(elem any) bool {
		ferr = f(elem)
		return ferr == nil
	})
	if ferr != nil {
		return ferr
	}
	return fm.wrap(r, err)
}

// define installs pattern bindings in the current scope.
func (fm *Frame) define(bs pattern.Bindings, mutable bool) {
	for _, b := range bs {
		fm.env.Define(b.Name, b.Value, mutable || b.Mutable)
		if fm.ip.opts.Feedback {
			fm.ip.recorder.RecordVariable(b.Name, vals.TypeName(b.Value))
		}
	}
}

func (fm *Frame) evalInterpolation(n *parse.StringInterpolation) (any, error) {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		v, err := fm.eval(part.Expr)
		if err != nil {
			return nil, err
		}
		if part.Format == "" {
			sb.WriteString(vals.ToString(v))
			continue
		}
		s, err := formatSpec(v, part.Format)
		if err != nil {
			return nil, fm.errorf(part.Expr, TypeError, "%v", err)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (fm *Frame) evalCast(e *parse.Expr, n *parse.TypeCast) (any, error) {
	v, err := fm.eval(n.Expr)
	if err != nil {
		return nil, err
	}
	target := n.Type.String()
	switch target {
	case "i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize", "int":
		switch v := v.(type) {
		case int64:
			return v, nil
		case float64:
			if math.IsNaN(v) {
				return int64(0), nil
			}
			return int64(v), nil
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			if r := []rune(v); len(r) == 1 {
				return int64(r[0]), nil
			}
		case vals.EnumVariant:
			if def, ok := fm.lookup(v.Enum); ok {
				if def, ok := def.(*EnumDef); ok {
					if d, ok := def.Discriminant(v.Variant); ok {
						return d, nil
					}
				}
			}
		}
	case "f32", "f64", "float":
		if f, err := vals.AsFloat(v); err == nil {
			return f, nil
		}
	case "char":
		if i, ok := v.(int64); ok && i >= 0 && i <= unicode.MaxRune {
			return string(rune(i)), nil
		}
	case "String", "&str", "str":
		return vals.ToString(v), nil
	case "bool":
		if b, ok := v.(bool); ok {
			return b, nil
		}
	default:
		return v, nil
	}
	return nil, fm.errorf(e, TypeError, "cannot cast %s to %s", vals.Kind(v), target)
}

func (fm *Frame) evalDataFrame(e *parse.Expr, n *parse.DataFrame) (any, error) {
	cols := make([]vals.Column, len(n.Columns))
	for i, c := range n.Columns {
		values, err := fm.evalExprs(c.Values)
		if err != nil {
			return nil, err
		}
		cols[i] = vals.Column{Name: c.Name, Values: vals.MakeList(values...)}
	}
	df, err := vals.NewDataFrame(cols)
	if err != nil {
		return nil, fm.errorf(e, TypeError, "%v", err)
	}
	return df, nil
}
