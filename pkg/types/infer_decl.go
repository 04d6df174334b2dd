package types

import (
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (c *Context) inferDecl(e *parse.Expr) (Type, bool) {
	switch n := e.Kind.(type) {
	case *parse.Function:
		return c.inferFunction(e, n, true), true
	case *parse.StructDecl:
		d := c.types.define(n.Name, n.TypeParams)
		c.defineFields(d, n.Fields)
		return Unit, true
	case *parse.TupleStruct:
		d := c.types.define(n.Name, n.TypeParams)
		d.fields = map[string]*parse.TypeExpr{}
		d.order = nil
		for i, f := range n.Fields {
			name := strconv.Itoa(i)
			d.fields[name] = f
			d.order = append(d.order, name)
		}
		return Unit, true
	case *parse.Enum:
		d := c.types.define(n.Name, n.TypeParams)
		d.enum = true
		d.variant = map[string]*parse.EnumVariant{}
		for i := range n.Variants {
			v := &n.Variants[i]
			d.variant[v.Name] = v
			c.types.variants[v.Name] = n.Name
		}
		return Unit, true
	case *parse.Class:
		c.inferClass(n)
		return Unit, true
	case *parse.Impl:
		d, ok := c.types.defs[n.ForType]
		if !ok {
			d = c.types.define(n.ForType, nil)
		}
		c.inferMethods(d, n.Methods, nil)
		return Unit, true
	case *parse.Trait, *parse.Import:
		return Unit, true
	case *parse.Export:
		if n.Decl != nil {
			c.infer(n.Decl)
		}
		return Unit, true
	case *parse.Actor:
		d := c.types.define(n.Name, nil)
		c.actors[n.Name] = true
		c.defineFields(d, n.State)
		selfT := Named{Name: n.Name}
		for _, f := range n.State {
			if f.Default != nil {
				c.assignable(f.Default, c.typeFromAnnot(f.Type, nil), c.infer(f.Default))
			}
		}
		c.inferMethods(d, n.Methods, nil)
		c.self = append(c.self, selfT)
		c.inferArms(n.Handlers, c.fresh())
		c.self = c.self[:len(c.self)-1]
		return Unit, true
	case *parse.Supervisor:
		for _, child := range n.Children {
			c.inferAll(child.Args)
		}
		return Unit, true
	}
	return nil, false
}

func (c *Context) defineFields(d *typeDef, fields []parse.StructField) {
	d.fields = map[string]*parse.TypeExpr{}
	d.order = nil
	for _, f := range fields {
		d.fields[f.Name] = f.Type
		d.order = append(d.order, f.Name)
	}
}

// inferFunction types a function declaration. The name is bound to a fresh
// variable while the body is checked, so that recursive calls unify with
// the function's own type; the final type is generalized.
func (c *Context) inferFunction(e *parse.Expr, n *parse.Function, bind bool) Type {
	c.pushTypeParams(n.TypeParams)
	rec := c.fresh()
	if bind {
		c.bindMono(n.Name, rec)
	}
	c.push()
	ps := c.bindParams(n.Params)
	var ret Type
	switch {
	case n.ReturnType != nil:
		ret = c.typeFromAnnot(n.ReturnType, nil)
	case n.Body == nil:
		ret = Unit
	default:
		ret = c.fresh()
	}
	if n.Body != nil {
		c.returns = append(c.returns, ret)
		body := c.infer(n.Body)
		c.returns = c.returns[:len(c.returns)-1]
		if !c.bothNumeric(body, ret) || c.subst.IsNumeric(body) || c.subst.IsNumeric(ret) {
			c.unifyRelated(n.Body, e, "the function declared here", body, ret)
		}
	}
	c.pop()
	if n.Async {
		ret = Named{"Future", []Type{ret}}
	}
	ft := Type(Function{ps, ret})
	c.unify(e, rec, ft)
	c.popTypeParams()

	required := 0
	for _, p := range n.Params {
		if p.Default == nil {
			required++
		}
	}
	if bind {
		delete(c.scope.names, n.Name)
		c.scope.names[n.Name] = c.generalize(ft)
		if required < len(n.Params) {
			c.required[n.Name] = required
		} else {
			delete(c.required, n.Name)
		}
	}
	return ft
}

// bindParams binds the parameters of a function or lambda in the current
// scope and returns their types. A self parameter takes the type of the
// enclosing impl, class or actor.
func (c *Context) bindParams(params []parse.Param) []Type {
	ts := make([]Type, len(params))
	for i := range params {
		p := &params[i]
		if p.Self != parse.NotSelf {
			var t Type = c.fresh()
			if len(c.self) > 0 {
				t = c.self[len(c.self)-1]
			}
			if p.Self != parse.SelfValue {
				t = Reference{t, p.Self == parse.SelfMutRef}
			}
			c.bindMono("self", t)
			ts[i] = t
			continue
		}
		t := c.typeFromAnnot(p.Type, nil)
		if p.Default != nil {
			c.unifyNumeric(p.Default, t, c.infer(p.Default))
		}
		c.bindPattern(p.Pattern, t, false)
		ts[i] = t
	}
	return ts
}

func (c *Context) inferLambda(params []parse.Param, body *parse.Expr, async bool) Type {
	c.push()
	defer c.pop()
	ps := c.bindParams(params)
	ret := c.fresh()
	c.returns = append(c.returns, ret)
	c.unifyNumeric(body, c.infer(body), ret)
	c.returns = c.returns[:len(c.returns)-1]
	if async {
		return Function{ps, Named{"Future", []Type{ret}}}
	}
	return Function{ps, ret}
}

// inferMethods types the methods of an impl block, class or actor and
// records them in d. Every method is entered with a provisional type first,
// so that methods can call each other in any order. Methods without a self
// parameter are static, except in actors, whose hooks see the state as self
// implicitly.
func (c *Context) inferMethods(d *typeDef, methods []*parse.Expr, extra func()) {
	selfT, params := c.instance(d)
	c.tparams = append(c.tparams, params)
	c.self = append(c.self, selfT)

	type pending struct {
		e *parse.Expr
		f *parse.Function
	}
	var fns []pending
	for _, m := range methods {
		f, ok := m.Kind.(*parse.Function)
		if !ok {
			continue
		}
		fns = append(fns, pending{m, f})
		d.methods[f.Name] = Mono(c.fresh())
		d.static[f.Name] = !f.IsMethod() && !c.actors[d.name]
	}
	if extra != nil {
		extra()
	}
	types := make([]Type, len(fns))
	for i, p := range fns {
		t := c.inferFunction(p.e, p.f, false)
		c.record(p.e, t)
		c.unify(p.e, d.methods[p.f.Name].Type, t)
		if !p.f.IsMethod() && !d.static[p.f.Name] {
			// Implicit self for actor hooks.
			ft := t.(Function)
			t = Function{append([]Type{selfT}, ft.Params...), ft.Ret}
		}
		types[i] = t
	}

	c.self = c.self[:len(c.self)-1]
	c.tparams = c.tparams[:len(c.tparams)-1]
	for i, p := range fns {
		d.methods[p.f.Name] = c.generalize(types[i])
	}
}

func (c *Context) inferClass(n *parse.Class) {
	d := c.types.define(n.Name, n.TypeParams)
	d.super = n.Superclass
	c.defineFields(d, n.Fields)
	for _, f := range n.Fields {
		if f.Default != nil {
			c.assignable(f.Default, c.typeFromAnnot(f.Type, nil), c.infer(f.Default))
		}
	}
	for _, k := range n.Constants {
		t := c.infer(k.Value)
		if k.Type != nil {
			t = c.unifyNumeric(k.Value, c.typeFromAnnot(k.Type, nil), t)
		}
		c.subst.DefaultNumeric(t)
		d.methods[k.Name] = Mono(t)
		d.static[k.Name] = true
	}
	c.inferMethods(d, n.Methods, func() {
		selfT := c.self[len(c.self)-1]
		for _, ctor := range n.Constructors {
			name := ctor.Name
			if name == "" {
				name = "new"
			}
			c.push()
			ps := c.bindParams(ctor.Params)
			c.bindMono("self", Reference{selfT, true})
			if ctor.Body != nil {
				c.infer(ctor.Body)
			}
			c.pop()
			d.methods[name] = Mono(Function{ps, selfT})
			d.static[name] = true
		}
	})
	for _, ctor := range n.Constructors {
		name := ctor.Name
		if name == "" {
			name = "new"
		}
		d.methods[name] = c.generalize(d.methods[name].Type)
	}
}
