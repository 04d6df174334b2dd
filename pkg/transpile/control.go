package transpile

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

// stmts lowers a flat list of block items. When tail is true the last item is
// left without a semicolon and becomes the value of the block.
func (t *Transpiler) stmts(items []*parse.Expr, tail bool) {
	for i, item := range items {
		t.stmt(item, tail && i == len(items)-1)
	}
}

func (t *Transpiler) stmt(e *parse.Expr, last bool) {
	switch n := e.Kind.(type) {
	case *parse.Let:
		t.let(e, n)
		return
	case *parse.LetPattern:
		t.letPattern(e, n)
		return
	case *parse.IncDec:
		if !last {
			t.statementIncDec(n)
			t.ts.punct(";")
			return
		}
	}
	if isDecl(e) {
		t.decl(e)
		return
	}
	t.expr(e, precLowest)
	if last {
		return
	}
	switch e.Kind.(type) {
	case *parse.While, *parse.WhileLet, *parse.For:
	default:
		t.ts.punct(";")
	}
}

// block lowers e as a braced block. Expressions that are not blocks are
// wrapped.
func (t *Transpiler) block(e *parse.Expr) {
	t.ts.punct("{")
	if b, ok := e.Kind.(*parse.Block); ok {
		t.stmts(flatten(b.Exprs), true)
	} else {
		t.stmts(flatten([]*parse.Expr{e}), true)
	}
	t.ts.punct("}")
}

// unitBlock lowers e as a block whose value is discarded, such as a loop body.
func (t *Transpiler) unitBlock(e *parse.Expr) {
	t.ts.punct("{")
	items := []*parse.Expr{e}
	if b, ok := e.Kind.(*parse.Block); ok {
		items = b.Exprs
	}
	t.stmts(flatten(items), false)
	t.ts.punct("}")
}

func (t *Transpiler) let(e *parse.Expr, n *parse.Let) {
	ts := t.ts
	if sp, ok := n.Value.Kind.(*parse.Spawn); ok {
		if name := actorName(sp.Actor); name != "" {
			t.actorVars[n.Name] = name
		}
	}
	if n.Else != nil {
		ts.word("let")
		if t.isResult(n.Value) {
			ts.word("Ok")
		} else {
			ts.word("Some")
		}
		ts.punct("(")
		if n.Mutable {
			ts.word("mut")
		}
		ts.word(n.Name)
		ts.punct(")", "=")
		t.expr(n.Value, precLowest)
		ts.word("else")
		t.block(n.Else)
		ts.punct(";")
		return
	}
	ts.word("let")
	_, spawned := n.Value.Kind.(*parse.Spawn)
	if n.Mutable || spawned || mutatesCaptures(n.Value) {
		ts.word("mut")
	}
	ts.word(n.Name)
	if n.Type != nil {
		ts.punct(":")
		t.typeExpr(n.Type, false)
	}
	ts.punct("=")
	if lit, ok := n.Value.Kind.(*parse.StringLit); ok && n.Mutable {
		ts.path("String", "from")
		ts.punct("(")
		ts.lit(quoteString(lit.Value))
		ts.punct(")")
	} else {
		t.expr(n.Value, precLowest)
	}
	ts.punct(";")
}

func (t *Transpiler) letPattern(e *parse.Expr, n *parse.LetPattern) {
	ts := t.ts
	ts.word("let")
	t.bindingPattern(n.Pattern, n.Mutable)
	if n.Type != nil {
		ts.punct(":")
		t.typeExpr(n.Type, false)
	}
	ts.punct("=")
	t.expr(n.Value, precLowest)
	if n.Else != nil {
		ts.word("else")
		t.block(n.Else)
	}
	ts.punct(";")
}

func (t *Transpiler) isResult(e *parse.Expr) bool {
	_, ok := t.typeOf(e).(types.Result)
	return ok
}

// control lowers control-flow expressions. It reports false for other kinds.
func (t *Transpiler) control(e *parse.Expr) bool {
	ts := t.ts
	switch n := e.Kind.(type) {
	case *parse.If:
		ts.word("if")
		t.expr(n.Cond, precLowest)
		t.block(n.Then)
		t.elseBranch(n.Else)
	case *parse.IfLet:
		ts.words("if", "let")
		t.pattern(n.Pattern)
		ts.punct("=")
		t.expr(n.Value, precLowest)
		t.block(n.Then)
		t.elseBranch(n.Else)
	case *parse.Match:
		t.match(n)
	case *parse.While:
		t.label(n.Label)
		ts.word("while")
		t.expr(n.Cond, precLowest)
		t.unitBlock(n.Body)
	case *parse.WhileLet:
		t.label(n.Label)
		ts.words("while", "let")
		t.pattern(n.Pattern)
		ts.punct("=")
		t.expr(n.Value, precLowest)
		t.unitBlock(n.Body)
	case *parse.Loop:
		t.label(n.Label)
		ts.word("loop")
		t.unitBlock(n.Body)
	case *parse.For:
		t.label(n.Label)
		ts.word("for")
		if n.Var != "" {
			ts.word(n.Var)
		} else {
			t.pattern(n.Pattern)
		}
		ts.word("in")
		t.iterable(n.Iter, false)
		t.unitBlock(n.Body)
	case *parse.Break:
		ts.word("break")
		if n.Label != "" {
			ts.push(Lifetime, "'"+n.Label)
		}
		if n.Value != nil {
			t.expr(n.Value, precLowest)
		}
	case *parse.Continue:
		ts.word("continue")
		if n.Label != "" {
			ts.push(Lifetime, "'"+n.Label)
		}
	case *parse.Return:
		ts.word("return")
		if n.Value != nil {
			t.expr(n.Value, precLowest)
		}
	default:
		return false
	}
	return true
}

func (t *Transpiler) label(name string) {
	if name != "" {
		t.ts.push(Lifetime, "'"+name)
		t.ts.punct(":")
	}
}

func (t *Transpiler) elseBranch(e *parse.Expr) {
	if e == nil {
		return
	}
	t.ts.word("else")
	switch e.Kind.(type) {
	case *parse.If, *parse.IfLet:
		t.control(e)
	default:
		t.block(e)
	}
}

func (t *Transpiler) match(n *parse.Match) {
	ts := t.ts
	ts.word("match")
	if hasListPattern(n.Arms) {
		t.expr(n.Scrutinee, precPostfix)
		ts.punct(".")
		ts.word("as_slice")
		ts.punct("(", ")")
	} else {
		t.expr(n.Scrutinee, precLowest)
	}
	ts.punct("{")
	for _, arm := range n.Arms {
		t.pattern(arm.Pattern)
		if arm.Guard != nil {
			ts.word("if")
			t.expr(arm.Guard, precLowest)
		}
		ts.punct("=>")
		t.expr(arm.Body, precLowest)
		ts.punct(",")
	}
	ts.punct("}")
}

func hasListPattern(arms []parse.MatchArm) bool {
	for _, arm := range arms {
		if _, ok := arm.Pattern.(*parse.ListPattern); ok {
			return true
		}
	}
	return false
}
