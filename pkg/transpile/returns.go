package transpile

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

type retKind int

const (
	// Use the inferred type.
	retInferred retKind = iota
	retStaticStr
	retString
	retVec
	retMap
)

// returnType writes the return type of a function. Declared types win;
// otherwise the type is derived from the shape of the value the body ends
// with, and then from inference. Unit return types are left out.
func (t *Transpiler) returnType(f *parse.Function, inferred *types.Function) {
	ts := t.ts
	if f.ReturnType != nil {
		if !isUnitType(f.ReturnType) {
			ts.punct("->")
			t.typeExpr(f.ReturnType, false)
		}
		return
	}
	if f.Body == nil {
		return
	}
	var ret types.Type
	if inferred != nil {
		ret = inferred.Ret
		if fut, ok := ret.(types.Named); ok && fut.Name == "Future" && len(fut.Args) == 1 {
			ret = fut.Args[0]
		}
	}
	lets := map[string]*parse.Let{}
	parse.Walk(f.Body, func(e *parse.Expr) bool {
		if l, ok := e.Kind.(*parse.Let); ok {
			lets[l.Name] = l
		}
		return true
	})
	tail := tailOf(f.Body)
	switch t.classifyTail(tail, f.Params, lets) {
	case retStaticStr:
		ts.punct("->")
		ts.prefix("&")
		ts.push(Lifetime, "'static")
		ts.word("str")
	case retString:
		ts.punct("->")
		ts.word("String")
	case retVec:
		ts.punct("->")
		ts.word("Vec")
		ts.push(GenericOpen, "<")
		if l, ok := ret.(types.List); ok && concrete(l.Elem, false) {
			t.monoType(l.Elem)
		} else {
			ts.word("i64")
		}
		ts.push(GenericClose, ">")
	case retMap:
		ts.punct("->")
		ts.path("std", "collections", "BTreeMap")
		ts.push(GenericOpen, "<")
		ts.word("String")
		ts.punct(",")
		if v := t.objectValueType(tail); v != nil {
			t.monoType(v)
		} else {
			ts.word("i64")
		}
		ts.push(GenericClose, ">")
	default:
		if tail != nil {
			if p := paramNamed(tail, f.Params); p != nil && p.Type != nil {
				ts.punct("->")
				t.typeExpr(p.Type, false)
				return
			}
		}
		switch {
		case ret == nil || ret == types.Unit:
		case concrete(ret, false):
			ts.punct("->")
			t.monoType(ret)
		default:
			if _, ok := ret.(types.Var); ok {
				ts.punct("->")
				ts.word("i64")
			}
		}
	}
}

// tailOf returns the expression a block evaluates to.
func tailOf(e *parse.Expr) *parse.Expr {
	if e == nil {
		return nil
	}
	switch n := e.Kind.(type) {
	case *parse.Block:
		items := flatten(n.Exprs)
		if len(items) == 0 {
			return nil
		}
		return tailOf(items[len(items)-1])
	case *parse.Let, *parse.LetPattern:
		return nil
	case *parse.Return:
		return tailOf(n.Value)
	}
	return e
}

func (t *Transpiler) classifyTail(e *parse.Expr, params []parse.Param, lets map[string]*parse.Let) retKind {
	if e == nil {
		return retInferred
	}
	switch n := e.Kind.(type) {
	case *parse.StringLit:
		return retStaticStr
	case *parse.StringInterpolation:
		return retString
	case *parse.Macro:
		switch n.Name {
		case "format":
			return retString
		case "vec":
			return retVec
		}
	case *parse.List, *parse.ListComprehension:
		return retVec
	case *parse.ObjectLiteral:
		return retMap
	case *parse.Binary:
		if n.Op == parse.OpAdd && t.isString(e) {
			return retString
		}
	case *parse.Call:
		if q, ok := n.Func.Kind.(*parse.QualifiedName); ok && len(q.Path) == 2 {
			switch q.Path[0] + "::" + q.Path[1] {
			case "String::new", "String::from":
				return retString
			case "Vec::new":
				return retVec
			}
		}
	case *parse.Ident:
		if paramNamed(e, params) != nil {
			return retInferred
		}
		if l := lets[n.Name]; l != nil && l.Value != nil {
			delete(lets, n.Name)
			if _, ok := l.Value.Kind.(*parse.StringLit); ok {
				if l.Mutable {
					return retString
				}
				return retStaticStr
			}
			if l.Mutable {
				return retInferred
			}
			return t.classifyTail(l.Value, params, lets)
		}
	case *parse.If:
		then := t.classifyTail(tailOf(n.Then), params, lets)
		if n.Else != nil && then == t.classifyTail(tailOf(n.Else), params, lets) {
			return then
		}
	}
	return retInferred
}

func paramNamed(e *parse.Expr, params []parse.Param) *parse.Param {
	id, ok := e.Kind.(*parse.Ident)
	if !ok {
		return nil
	}
	for i := range params {
		if params[i].Self == parse.NotSelf && params[i].Name() == id.Name {
			return &params[i]
		}
	}
	return nil
}

// objectValueType returns the concrete type shared by the values of an
// object literal.
func (t *Transpiler) objectValueType(e *parse.Expr) types.Type {
	obj, ok := e.Kind.(*parse.ObjectLiteral)
	if !ok || len(obj.Fields) == 0 {
		return nil
	}
	v := t.typeOf(obj.Fields[0].Value)
	if !concrete(v, false) {
		return nil
	}
	return v
}

func isStringLit(e *parse.Expr) bool {
	_, ok := e.Kind.(*parse.StringLit)
	return ok
}
