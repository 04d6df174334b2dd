package types

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (c *Context) inferControl(e *parse.Expr) (Type, bool) {
	switch n := e.Kind.(type) {
	case *parse.If:
		c.unify(n.Cond, c.infer(n.Cond), Bool)
		then := c.infer(n.Then)
		if n.Else == nil {
			return Unit, true
		}
		return c.unifyRelated(n.Else, n.Then, "the other branch", c.infer(n.Else), then), true
	case *parse.IfLet:
		value := c.infer(n.Value)
		c.push()
		c.bindPattern(n.Pattern, value, false)
		then := c.infer(n.Then)
		c.pop()
		if n.Else == nil {
			return Unit, true
		}
		return c.unifyRelated(n.Else, n.Then, "the other branch", c.infer(n.Else), then), true
	case *parse.Match:
		scrutinee := c.infer(n.Scrutinee)
		return c.inferArms(n.Arms, scrutinee), true
	case *parse.Receive:
		return c.inferArms(n.Arms, c.fresh()), true
	case *parse.While:
		c.unify(n.Cond, c.infer(n.Cond), Bool)
		c.inLoop(Unit, n.Body)
		return Unit, true
	case *parse.WhileLet:
		value := c.infer(n.Value)
		c.push()
		c.bindPattern(n.Pattern, value, false)
		c.inLoop(Unit, n.Body)
		c.pop()
		return Unit, true
	case *parse.Loop:
		result := c.fresh()
		c.inLoop(result, n.Body)
		return result, true
	case *parse.For:
		iter := c.infer(n.Iter)
		c.push()
		c.bindPattern(n.Pattern, c.elemOf(n.Iter, iter), false)
		c.inLoop(Unit, n.Body)
		c.pop()
		return Unit, true
	case *parse.Break:
		if n.Value != nil {
			v := c.infer(n.Value)
			if len(c.loops) > 0 {
				c.unify(n.Value, v, c.loops[len(c.loops)-1])
			}
		}
		return c.fresh(), true
	case *parse.Continue:
		return c.fresh(), true
	case *parse.Return:
		var v Type = Unit
		if n.Value != nil {
			v = c.infer(n.Value)
		}
		if len(c.returns) > 0 {
			c.unifyNumeric(e, v, c.returns[len(c.returns)-1])
		}
		return c.fresh(), true
	case *parse.Let:
		return c.inferLet(e, n), true
	case *parse.LetPattern:
		value := c.infer(n.Value)
		if n.Type != nil {
			c.unify(n.Value, value, c.typeFromAnnot(n.Type, nil))
		}
		if n.Else != nil {
			c.infer(n.Else)
		}
		c.subst.DefaultNumeric(value)
		if n.Body == nil {
			c.bindPattern(n.Pattern, value, n.Mutable)
			return Unit, true
		}
		c.push()
		defer c.pop()
		c.bindPattern(n.Pattern, value, n.Mutable)
		return c.infer(n.Body), true
	case *parse.TryCatch:
		body := c.infer(n.Body)
		for _, cl := range n.Catches {
			c.push()
			if cl.Pattern != nil {
				c.bindPattern(cl.Pattern, c.fresh(), false)
			}
			c.unifyRelated(cl.Body, n.Body, "the try body", c.infer(cl.Body), body)
			c.pop()
		}
		if n.Finally != nil {
			c.infer(n.Finally)
		}
		return body, true
	}
	return nil, false
}

func (c *Context) inLoop(result Type, body *parse.Expr) {
	c.loops = append(c.loops, result)
	c.infer(body)
	c.loops = c.loops[:len(c.loops)-1]
}

// inferArms infers the arms of a match or receive. Patterns unify with the
// scrutinee, guards with Bool and bodies with each other.
func (c *Context) inferArms(arms []parse.MatchArm, scrutinee Type) Type {
	var result Type = c.fresh()
	var first *parse.Expr
	for _, arm := range arms {
		c.push()
		c.bindPattern(arm.Pattern, scrutinee, false)
		if arm.Guard != nil {
			c.unify(arm.Guard, c.infer(arm.Guard), Bool)
		}
		body := c.infer(arm.Body)
		if first == nil {
			c.unify(arm.Body, body, result)
			first = arm.Body
		} else {
			c.unifyRelated(arm.Body, first, "the first arm", body, result)
		}
		c.pop()
	}
	return result
}

// inferLet types let bindings. Syntactic functions are generalized; other
// values are monomorphic, with unresolved numeric literals defaulted to Int.
func (c *Context) inferLet(e *parse.Expr, n *parse.Let) Type {
	value := c.infer(n.Value)
	if n.Type != nil {
		value = c.unifyNumeric(n.Value, c.typeFromAnnot(n.Type, nil), value)
	}
	if n.Else != nil {
		c.infer(n.Else)
		switch r := c.subst.Resolve(value).(type) {
		case Optional:
			value = r.Elem
		case Result:
			value = r.Ok
		}
	}
	c.subst.DefaultNumeric(value)
	sc := Mono(value)
	if !n.Mutable && isSyntacticValue(n.Value) {
		sc = c.generalize(value)
	}
	if n.Body == nil {
		c.scope.names[n.Name] = sc
		return Unit
	}
	c.push()
	defer c.pop()
	c.scope.names[n.Name] = sc
	return c.infer(n.Body)
}

// isSyntacticValue reports whether e is a value whose type can be
// generalized without losing soundness under mutation.
func isSyntacticValue(e *parse.Expr) bool {
	switch e.Kind.(type) {
	case *parse.Lambda, *parse.Function, *parse.Ident, *parse.QualifiedName,
		*parse.IntLit, *parse.FloatLit, *parse.StringLit, *parse.BoolLit,
		*parse.CharLit, *parse.UnitLit, *parse.None, *parse.NullLit:
		return true
	}
	return false
}
