package parse

import "github.com/paiml/ruchy-sub012/pkg/diag"

// Expr is a node of the syntax tree. Everything in a program is an
// expression; the variant is in Kind.
//
// Expr values are created by the parser and never mutated afterwards. A tree
// returned by the parser has no shared sub-expressions.
type Expr struct {
	Kind Node
	diag.Ranging
	Attributes []Attribute
	// Comments immediately before the expression.
	Comments []Comment
	// A comment on the same line after the expression.
	Trailing *Comment
}

// Node is implemented by all the variants of Expr.
type Node interface {
	node()
}

// Attribute is an attribute like #[derive(Debug, Clone)] or #[test].
type Attribute struct {
	Name string
	Args []string
	diag.Ranging
}

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Tree is the result of parsing a Source.
type Tree struct {
	Root   *Expr
	Source Source
}

// Walk calls f for e and then, if f returns true, for all sub-expressions of
// e in source order.
func Walk(e *Expr, f func(*Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, f)
	}
}

// Children returns the direct sub-expressions of e, in source order. Default
// values in patterns and declarations are included.
func Children(e *Expr) []*Expr {
	var cs []*Expr
	add := func(es ...*Expr) {
		for _, e := range es {
			if e != nil {
				cs = append(cs, e)
			}
		}
	}
	addParams := func(ps []Param) {
		for _, p := range ps {
			add(p.Default)
		}
	}
	addArms := func(arms []MatchArm) {
		for _, a := range arms {
			add(a.Guard, a.Body)
		}
	}
	addFns := func(fns []*Expr) { add(fns...) }
	switch n := e.Kind.(type) {
	case *FieldAccess:
		add(n.Object)
	case *IndexAccess:
		add(n.Object, n.Index)
	case *Slice:
		add(n.Object, n.Start, n.End)
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Operand)
	case *Assign:
		add(n.Target, n.Value)
	case *CompoundAssign:
		add(n.Target, n.Value)
	case *IncDec:
		add(n.Target)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *IfLet:
		add(n.Value, n.Then, n.Else)
	case *Match:
		add(n.Scrutinee)
		addArms(n.Arms)
	case *While:
		add(n.Cond, n.Body)
	case *WhileLet:
		add(n.Value, n.Body)
	case *Loop:
		add(n.Body)
	case *For:
		add(n.Iter, n.Body)
	case *Break:
		add(n.Value)
	case *Return:
		add(n.Value)
	case *Let:
		add(n.Value, n.Else, n.Body)
	case *LetPattern:
		add(n.Value, n.Else, n.Body)
	case *Block:
		add(n.Exprs...)
	case *Lambda:
		addParams(n.Params)
		add(n.Body)
	case *AsyncLambda:
		addParams(n.Params)
		add(n.Body)
	case *Function:
		addParams(n.Params)
		add(n.Body)
	case *Call:
		add(n.Func)
		add(n.Args...)
	case *MethodCall:
		add(n.Receiver)
		add(n.Args...)
	case *Macro:
		add(n.Args...)
	case *StructDecl:
		for _, f := range n.Fields {
			add(f.Default)
		}
	case *Class:
		for _, f := range n.Fields {
			add(f.Default)
		}
		for _, c := range n.Constants {
			add(c.Value)
		}
		for _, c := range n.Constructors {
			addParams(c.Params)
			add(c.Body)
		}
		addFns(n.Methods)
	case *Trait:
		addFns(n.Methods)
	case *Impl:
		addFns(n.Methods)
	case *Export:
		add(n.Decl)
	case *Actor:
		for _, f := range n.State {
			add(f.Default)
		}
		addFns(n.Methods)
		addArms(n.Handlers)
	case *Supervisor:
		for _, c := range n.Children {
			add(c.Args...)
		}
	case *StructLiteral:
		for _, f := range n.Fields {
			add(f.Value)
		}
		add(n.Base)
	case *ObjectLiteral:
		for _, f := range n.Fields {
			add(f.Value)
		}
	case *Tuple:
		add(n.Elems...)
	case *List:
		add(n.Elems...)
	case *Set:
		add(n.Elems...)
	case *ArrayInit:
		add(n.Value, n.Size)
	case *Range:
		add(n.Start, n.End)
	case *ListComprehension:
		add(n.Iter, n.Cond, n.Element)
	case *SetComprehension:
		add(n.Iter, n.Cond, n.Element)
	case *DictComprehension:
		add(n.Iter, n.Cond, n.Key, n.Value)
	case *StringInterpolation:
		for _, p := range n.Parts {
			add(p.Expr)
		}
	case *Spawn:
		add(n.Actor)
	case *Send:
		add(n.Target, n.Message, n.Timeout)
	case *Await:
		add(n.Expr)
	case *AsyncBlock:
		add(n.Body)
	case *Receive:
		addArms(n.Arms)
	case *Ok:
		add(n.Value)
	case *Err:
		add(n.Value)
	case *Some:
		add(n.Value)
	case *Try:
		add(n.Expr)
	case *Throw:
		add(n.Expr)
	case *TryCatch:
		add(n.Body)
		for _, c := range n.Catches {
			add(c.Body)
		}
		add(n.Finally)
	case *DataFrame:
		for _, c := range n.Columns {
			add(c.Values...)
		}
	case *DataFrameOp:
		add(n.Source)
		add(n.Args...)
	case *TypeCast:
		add(n.Expr)
	}
	return cs
}
