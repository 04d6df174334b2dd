package parse

import (
	"github.com/paiml/ruchy-sub012/pkg/diag"
)

// Binding powers, lowest first.
const (
	precLowest = iota
	precAssign
	precSend
	precPipe
	precRange
	precCoalesce
	precOr
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precPower
	precCast
	precUnary
	precPostfix
)

type infixOp struct {
	prec       int
	rightAssoc bool
	binary     BinaryOp
}

var infixOps = map[string]infixOp{
	"|>": {precPipe, false, OpPipe},
	"??": {precCoalesce, false, OpNullCoalesce},
	"||": {precOr, false, OpOr},
	"&&": {precAnd, false, OpAnd},
	"==": {precCompare, false, OpEq},
	"!=": {precCompare, false, OpNe},
	"<":  {precCompare, false, OpLt},
	"<=": {precCompare, false, OpLe},
	">":  {precCompare, false, OpGt},
	">=": {precCompare, false, OpGe},
	"|":  {precBitOr, false, OpBitOr},
	"^":  {precBitXor, false, OpBitXor},
	"&":  {precBitAnd, false, OpBitAnd},
	"<<": {precShift, false, OpShl},
	">>": {precShift, false, OpShr},
	"+":  {precAdditive, false, OpAdd},
	"-":  {precAdditive, false, OpSub},
	"*":  {precMultiplicative, false, OpMul},
	"/":  {precMultiplicative, false, OpDiv},
	"%":  {precMultiplicative, false, OpMod},
	"**": {precPower, true, OpPow},
}

var compoundOps = map[string]BinaryOp{
	"+=": OpAdd, "-=": OpSub, "*=": OpMul, "/=": OpDiv, "%=": OpMod,
	"&=": OpBitAnd, "|=": OpBitOr, "^=": OpBitXor, "<<=": OpShl, ">>=": OpShr,
}

func isCompound(text string) bool {
	_, ok := compoundOps[text]
	return ok
}

func (p *Parser) parseExpr() *Expr { return p.parseExprPrec(precLowest) }

// parseExprNoStruct parses an expression in which a brace cannot start a
// struct literal, like the condition of an if.
func (p *Parser) parseExprNoStruct() *Expr {
	saved := p.noStructLit
	p.noStructLit = true
	defer func() { p.noStructLit = saved }()
	return p.parseExpr()
}

// parseExprPrec parses an expression whose operators all bind tighter than
// or as tight as min.
func (p *Parser) parseExprPrec(min int) *Expr {
	left := p.parsePrefix()
	for {
		tok := p.tok()
		if tok.Kind != Punct && !tok.IsKeyword("as") {
			return left
		}
		// An operator on a new line starts a new expression, except for
		// the ones that continue a chain.
		if tok.NewlineBefore && !tok.IsPunct(".") && !tok.IsPunct("|>") {
			return left
		}
		switch text := tok.Text; {
		case text == "." || text == "(" || text == "[" || text == "?" || text == "++" || text == "--":
			if min > precPostfix {
				return left
			}
			left = p.parsePostfix(left)
		case text == "as":
			if min > precCast {
				return left
			}
			p.next()
			typ := p.parseType()
			left = &Expr{Kind: &TypeCast{left, typ}, Ranging: diag.Ranging{From: left.From, To: typ.To}}
		case text == "=":
			if min > precAssign {
				return left
			}
			p.checkAssignTarget(left)
			p.next()
			value := p.parseExprPrec(precAssign)
			left = p.mixed(&Assign{left, value}, left, value)
		case isCompound(text):
			if min > precAssign {
				return left
			}
			p.checkAssignTarget(left)
			p.next()
			value := p.parseExprPrec(precAssign)
			left = p.mixed(&CompoundAssign{compoundOps[text], left, value}, left, value)
		case text == "<-" || text == "<?":
			if min > precSend {
				return left
			}
			p.next()
			msg := p.parseExprPrec(precSend + 1)
			kind := Fire
			if text == "<?" {
				kind = CallMsg
			}
			left = p.mixed(&Send{Target: left, Message: msg, Kind: kind}, left, msg)
		case text == ".." || text == "..=":
			if min > precRange {
				return left
			}
			p.next()
			var end *Expr
			if p.canStartExpr() {
				end = p.parseExprPrec(precRange + 1)
			}
			left = &Expr{Kind: &Range{left, end, text == "..="}, Ranging: diag.Ranging{From: left.From, To: p.prevEnd()}}
		default:
			op, ok := infixOps[text]
			if !ok || op.prec < min {
				return left
			}
			p.next()
			next := op.prec + 1
			if op.rightAssoc {
				next = op.prec
			}
			right := p.parseExprPrec(next)
			left = p.mixed(&Binary{op.binary, left, right}, left, right)
		}
	}
}

func (p *Parser) mixed(n Node, from, to diag.Ranger) *Expr {
	return &Expr{Kind: n, Ranging: diag.MixedRanging(from, to)}
}

func (p *Parser) checkAssignTarget(e *Expr) {
	switch n := e.Kind.(type) {
	case *Ident, *FieldAccess, *IndexAccess:
		return
	case *Unary:
		if n.Op == OpDeref {
			return
		}
	}
	p.fail(e, ExpectedConstruct, "invalid assignment target")
}

// canStartExpr reports whether the current token can begin an operand on the
// same line.
func (p *Parser) canStartExpr() bool {
	tok := p.tok()
	if tok.NewlineBefore {
		return false
	}
	switch tok.Kind {
	case EOF:
		return false
	case Punct:
		switch tok.Text {
		case ";", ",", ")", "]", "}", "=>", "=", ":", "?":
			return false
		}
		if p.noStructLit && tok.Text == "{" {
			return false
		}
	case Keyword:
		switch tok.Text {
		case "else", "in", "as", "catch", "finally":
			return false
		}
	}
	return true
}

func (p *Parser) parsePrefix() *Expr {
	tok := p.tok()
	from := tok.From
	if tok.Kind == Punct {
		var op UnaryOp
		switch tok.Text {
		case "-":
			op = OpNeg
		case "!":
			op = OpNot
		case "~":
			op = OpBitNot
		case "*":
			op = OpDeref
		case "&":
			op = OpRef
		case "&&":
			// && as two reference prefixes.
			p.next()
			inner := p.parseExprPrec(precUnary)
			ref := &Expr{Kind: &Unary{OpRef, inner}, Ranging: diag.Ranging{From: from + 1, To: inner.To}}
			return p.newExpr(from, &Unary{OpRef, ref})
		case "++", "--":
			p.next()
			target := p.parseExprPrec(precUnary)
			p.checkAssignTarget(target)
			return p.newExpr(from, &IncDec{Target: target, Decrement: tok.Text == "--"})
		case "..", "..=":
			p.next()
			var end *Expr
			if p.canStartExpr() {
				end = p.parseExprPrec(precRange + 1)
			}
			return p.newExpr(from, &Range{nil, end, tok.Text == "..="})
		default:
			return p.parsePrimary()
		}
		p.next()
		if op == OpRef && p.acceptKeyword("mut") {
			op = OpRefMut
		}
		operand := p.parseExprPrec(precUnary)
		return p.newExpr(from, &Unary{op, operand})
	}
	return p.parsePrimary()
}

// dataFrameOps are the methods that turn a call on a dataframe into a
// DataFrameOp.
var dataFrameOps = map[string]bool{
	"select": true, "filter": true, "group_by": true, "groupby": true,
	"sort_by": true, "agg": true, "join": true, "head": true, "tail": true,
	"limit": true, "with_column": true, "drop": true, "rename": true,
}

func (p *Parser) parsePostfix(left *Expr) *Expr {
	tok := p.next()
	switch tok.Text {
	case ".":
		return p.parseDot(left)
	case "(":
		args := p.parseArgs(")")
		return p.newExpr(left.From, &Call{left, args})
	case "[":
		return p.parseIndex(left)
	case "?":
		return p.newExpr(left.From, &Try{left})
	default:
		p.checkAssignTarget(left)
		return p.newExpr(left.From, &IncDec{Target: left, Decrement: tok.Text == "--", Postfix: true})
	}
}

func (p *Parser) parseDot(left *Expr) *Expr {
	tok := p.next()
	var name string
	switch tok.Kind {
	case IdentToken, Keyword:
		name = tok.Text
	case Int:
		return p.newExpr(left.From, &FieldAccess{left, tok.Text})
	case Float:
		// t.0.1 is lexed as t . 0.1 when written without spaces.
		if parts := splitTupleFloat(tok.Text); parts != nil {
			inner := &Expr{Kind: &FieldAccess{left, parts[0]}, Ranging: diag.Ranging{From: left.From, To: tok.From + len(parts[0])}}
			return p.newExpr(left.From, &FieldAccess{inner, parts[1]})
		}
		p.fail(tok, ExpectedConstruct, "expected field name, found %s", tok)
	default:
		p.fail(tok, ExpectedConstruct, "expected field or method name, found %s", tok)
	}
	if name == "await" {
		return p.newExpr(left.From, &Await{left})
	}
	var typeArgs []*TypeExpr
	if p.atPunct("::") && p.peek(1).IsPunct("<") {
		p.next()
		p.next()
		typeArgs = p.parseTypeArgs()
	}
	if p.atPunct("(") && !p.tok().NewlineBefore {
		p.next()
		args := p.parseArgs(")")
		if isDataFrame(left) && dataFrameOps[name] {
			return p.newExpr(left.From, &DataFrameOp{left, name, args})
		}
		return p.newExpr(left.From, &MethodCall{left, name, typeArgs, args})
	}
	return p.newExpr(left.From, &FieldAccess{left, name})
}

func isDataFrame(e *Expr) bool {
	switch e.Kind.(type) {
	case *DataFrame, *DataFrameOp:
		return true
	}
	return false
}

func splitTupleFloat(s string) []string {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			a, b := s[:i], s[i+1:]
			if a == "" || b == "" || !allDigits(a) || !allDigits(b) {
				return nil
			}
			return []string{a, b}
		}
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// parseIndex parses the part of an index or slice expression after "[".
func (p *Parser) parseIndex(left *Expr) *Expr {
	var start *Expr
	if !p.atPunct("..") && !p.atPunct("..=") {
		start = p.parseExprPrec(precCoalesce)
	}
	if p.atPunct("..") || p.atPunct("..=") {
		inclusive := p.next().Text == "..="
		var end *Expr
		if !p.atPunct("]") {
			end = p.parseExprPrec(precCoalesce)
		}
		p.expectPunct("]")
		return p.newExpr(left.From, &Slice{left, start, end, inclusive})
	}
	p.expectPunct("]")
	return p.newExpr(left.From, &IndexAccess{left, start})
}

// parseArgs parses comma-separated expressions up to and including closer.
// A trailing comma is allowed.
func (p *Parser) parseArgs(closer string) []*Expr {
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	var args []*Expr
	for !p.atPunct(closer) {
		args = append(args, p.parseExpr())
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(closer)
	return args
}
