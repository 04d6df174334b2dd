package parse

import (
	"strconv"
	"strings"
)

// Print returns source code for e. Parsing the result gives a tree that is
// equal to e except for ranges and comments.
func Print(e *Expr) string {
	var pr printer
	pr.expr(e, precLowest)
	return pr.sb.String()
}

// PrintProgram prints the root block of a program as a sequence of
// top-level items.
func PrintProgram(root *Expr) string {
	var pr printer
	if b, ok := root.Kind.(*Block); ok {
		pr.items(b.Exprs)
	} else {
		pr.expr(root, precLowest)
	}
	pr.sb.WriteString("\n")
	return pr.sb.String()
}

// PrintPattern returns source code for a pattern.
func PrintPattern(p Pattern) string {
	var pr printer
	pr.pattern(p)
	return pr.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (pr *printer) w(ss ...string) {
	for _, s := range ss {
		pr.sb.WriteString(s)
	}
}

func (pr *printer) newline() {
	pr.sb.WriteByte('\n')
	pr.sb.WriteString(strings.Repeat("    ", pr.indent))
}

// items prints a sequence of block items, one per line. Lets whose body is a
// block are flattened, since the parser nests the rest of a block into the
// let before it.
func (pr *printer) items(es []*Expr) {
	first := true
	var item func(e *Expr)
	item = func(e *Expr) {
		if !first {
			pr.newline()
		}
		first = false
		for _, c := range e.Comments {
			pr.w(c.Text)
			pr.newline()
		}
		for _, a := range e.Attributes {
			pr.attribute(a)
			pr.newline()
		}
		var body *Expr
		switch n := e.Kind.(type) {
		case *Let:
			pr.letHead(n.Name, nil, n.Mutable, n.Type, n.Value, n.Else)
			body = n.Body
		case *LetPattern:
			pr.letHead("", n.Pattern, n.Mutable, n.Type, n.Value, n.Else)
			body = n.Body
		default:
			pr.expr(e, precLowest)
		}
		if e.Trailing != nil {
			pr.w(" ", e.Trailing.Text)
		}
		if body != nil {
			if b, ok := body.Kind.(*Block); ok {
				for _, e := range b.Exprs {
					item(e)
				}
			} else {
				pr.w(" in ")
				pr.expr(body, precLowest)
			}
		}
	}
	for _, e := range es {
		item(e)
	}
}

func (pr *printer) attribute(a Attribute) {
	pr.w("#[", a.Name)
	if len(a.Args) > 0 {
		pr.w("(", strings.Join(a.Args, ", "), ")")
	}
	pr.w("]")
}

func (pr *printer) block(e *Expr) {
	b, ok := e.Kind.(*Block)
	if !ok {
		pr.w("{ ")
		pr.expr(e, precLowest)
		pr.w(" }")
		return
	}
	if len(b.Exprs) == 0 {
		pr.w("{}")
		return
	}
	pr.w("{")
	pr.indent++
	pr.newline()
	pr.items(b.Exprs)
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) letHead(name string, pat Pattern, mutable bool, typ *TypeExpr, value, els *Expr) {
	pr.w("let ")
	if mutable {
		pr.w("mut ")
	}
	if pat != nil {
		pr.pattern(pat)
	} else {
		pr.w(name)
	}
	if typ != nil {
		pr.w(": ", typ.String())
	}
	pr.w(" = ")
	pr.expr(value, precLowest)
	if els != nil {
		pr.w(" else ")
		pr.block(els)
	}
}

// precOf returns the binding power of the operator at the top of e. Forms
// that extend as far right as possible, like lambdas, have precLowest.
// Self-delimiting forms have precPostfix+1.
func precOf(e *Expr) int {
	switch n := e.Kind.(type) {
	case *Assign, *CompoundAssign:
		return precAssign
	case *Send:
		return precSend
	case *Binary:
		return infixOps[n.Op.String()].prec
	case *Range:
		return precRange
	case *TypeCast:
		return precCast
	case *Unary, *Await, *Spawn:
		return precUnary
	case *IncDec:
		if n.Postfix {
			return precPostfix
		}
		return precUnary
	case *Call, *MethodCall, *FieldAccess, *IndexAccess, *Slice, *Try, *DataFrameOp:
		return precPostfix
	case *Lambda, *AsyncLambda, *Return, *Break, *Throw, *Let, *LetPattern:
		return precLowest
	}
	return precPostfix + 1
}

// operand prints e, in parentheses if it binds looser than min.
func (pr *printer) expr(e *Expr, min int) {
	if precOf(e) < min {
		pr.w("(")
		pr.exprNoParen(e)
		pr.w(")")
		return
	}
	pr.exprNoParen(e)
}

// header prints the condition of if, while, for or match, where a struct
// literal must be parenthesized.
func (pr *printer) header(e *Expr) {
	hasStruct := false
	Walk(e, func(e *Expr) bool {
		if _, ok := e.Kind.(*StructLiteral); ok {
			hasStruct = true
		}
		return !hasStruct
	})
	if hasStruct {
		pr.w("(")
		pr.expr(e, precLowest)
		pr.w(")")
		return
	}
	pr.expr(e, precLowest)
}

func (pr *printer) exprs(es []*Expr) {
	for i, e := range es {
		if i > 0 {
			pr.w(", ")
		}
		pr.expr(e, precLowest)
	}
}

func (pr *printer) exprNoParen(e *Expr) {
	switch n := e.Kind.(type) {
	case *IntLit:
		if n.Raw != "" {
			pr.w(n.Raw, n.Suffix)
		} else {
			pr.w(strconv.FormatInt(n.Value, 10), n.Suffix)
		}
	case *FloatLit:
		if n.Raw != "" {
			pr.w(n.Raw, n.Suffix)
		} else {
			s := strconv.FormatFloat(n.Value, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eEn") {
				s += ".0"
			}
			pr.w(s, n.Suffix)
		}
	case *StringLit:
		pr.w(Quote(n.Value))
	case *BoolLit:
		pr.w(strconv.FormatBool(n.Value))
	case *CharLit:
		pr.w(QuoteChar(n.Value))
	case *UnitLit:
		pr.w("()")
	case *NullLit:
		pr.w("null")
	case *AtomLit:
		pr.w(":", n.Name)
	case *Ident:
		pr.w(n.Name)
	case *QualifiedName:
		pr.w(strings.Join(n.Path, "::"))
	case *FieldAccess:
		pr.expr(n.Object, precPostfix)
		pr.w(".", n.Field)
	case *IndexAccess:
		pr.expr(n.Object, precPostfix)
		pr.w("[")
		pr.expr(n.Index, precCoalesce)
		pr.w("]")
	case *Slice:
		pr.expr(n.Object, precPostfix)
		pr.w("[")
		if n.Start != nil {
			pr.expr(n.Start, precCoalesce)
		}
		pr.w(rangeOp(n.Inclusive))
		if n.End != nil {
			pr.expr(n.End, precCoalesce)
		}
		pr.w("]")
	case *Binary:
		op := infixOps[n.Op.String()]
		left, right := op.prec, op.prec+1
		if op.rightAssoc {
			left, right = op.prec+1, op.prec
		}
		pr.expr(n.Left, left)
		pr.w(" ", n.Op.String(), " ")
		pr.expr(n.Right, right)
	case *Unary:
		sub := printer{indent: pr.indent}
		sub.expr(n.Operand, precUnary)
		operand := sub.sb.String()
		pr.w(n.Op.String())
		if n.Op == OpNeg && strings.HasPrefix(operand, "-") || n.Op == OpRef && strings.HasPrefix(operand, "&") {
			pr.w(" ")
		}
		pr.w(operand)
	case *Assign:
		pr.expr(n.Target, precAssign+1)
		pr.w(" = ")
		pr.expr(n.Value, precAssign)
	case *CompoundAssign:
		pr.expr(n.Target, precAssign+1)
		pr.w(" ", n.Op.String(), "= ")
		pr.expr(n.Value, precAssign)
	case *IncDec:
		op := "++"
		if n.Decrement {
			op = "--"
		}
		if n.Postfix {
			pr.expr(n.Target, precPostfix)
			pr.w(op)
		} else {
			pr.w(op)
			pr.expr(n.Target, precUnary)
		}
	case *TypeCast:
		pr.expr(n.Expr, precCast)
		pr.w(" as ", n.Type.String())
	case *If:
		pr.w("if ")
		pr.header(n.Cond)
		pr.w(" ")
		pr.block(n.Then)
		pr.elseBranch(n.Else)
	case *IfLet:
		pr.w("if let ")
		pr.pattern(n.Pattern)
		pr.w(" = ")
		pr.header(n.Value)
		pr.w(" ")
		pr.block(n.Then)
		pr.elseBranch(n.Else)
	case *Match:
		pr.w("match ")
		pr.header(n.Scrutinee)
		pr.w(" ")
		pr.arms(n.Arms)
	case *While:
		pr.label(n.Label)
		pr.w("while ")
		pr.header(n.Cond)
		pr.w(" ")
		pr.block(n.Body)
	case *WhileLet:
		pr.label(n.Label)
		pr.w("while let ")
		pr.pattern(n.Pattern)
		pr.w(" = ")
		pr.header(n.Value)
		pr.w(" ")
		pr.block(n.Body)
	case *Loop:
		pr.label(n.Label)
		pr.w("loop ")
		pr.block(n.Body)
	case *For:
		pr.label(n.Label)
		pr.w("for ")
		pr.pattern(n.Pattern)
		pr.w(" in ")
		pr.header(n.Iter)
		pr.w(" ")
		pr.block(n.Body)
	case *Break:
		pr.w("break")
		if n.Label != "" {
			pr.w(" '", n.Label)
		}
		if n.Value != nil {
			pr.w(" ")
			pr.expr(n.Value, precLowest)
		}
	case *Continue:
		pr.w("continue")
		if n.Label != "" {
			pr.w(" '", n.Label)
		}
	case *Return:
		pr.w("return")
		if n.Value != nil {
			pr.w(" ")
			pr.expr(n.Value, precLowest)
		}
	case *Let:
		pr.letHead(n.Name, nil, n.Mutable, n.Type, n.Value, n.Else)
		if n.Body != nil {
			pr.w(" in ")
			pr.expr(n.Body, precLowest)
		}
	case *LetPattern:
		pr.letHead("", n.Pattern, n.Mutable, n.Type, n.Value, n.Else)
		if n.Body != nil {
			pr.w(" in ")
			pr.expr(n.Body, precLowest)
		}
	case *Block:
		pr.block(e)
	case *Lambda:
		pr.params(n.Params, "|", "|")
		pr.w(" ")
		pr.expr(n.Body, precLowest)
	case *AsyncLambda:
		pr.w("async ")
		pr.params(n.Params, "|", "|")
		pr.w(" ")
		pr.expr(n.Body, precLowest)
	case *Function:
		pr.function(n)
	case *Call:
		pr.expr(n.Func, precPostfix)
		pr.w("(")
		pr.exprs(n.Args)
		pr.w(")")
	case *MethodCall:
		pr.expr(n.Receiver, precPostfix)
		pr.w(".", n.Method)
		if len(n.TypeArgs) > 0 {
			pr.w("::<", joinTypes(n.TypeArgs), ">")
		}
		pr.w("(")
		pr.exprs(n.Args)
		pr.w(")")
	case *Macro:
		closer := map[byte]string{'(': ")", '[': "]", '{': "}"}[n.Delim]
		pr.w(n.Name, "!", string(n.Delim))
		if init, ok := singleArrayInit(n); ok {
			pr.expr(init.Value, precLowest)
			pr.w("; ")
			pr.expr(init.Size, precLowest)
		} else {
			pr.exprs(n.Args)
		}
		pr.w(closer)
	case *StructDecl:
		pr.structDecl(n)
	case *TupleStruct:
		if n.Pub {
			pr.w("pub ")
		}
		pr.w("struct ", n.Name, typeParams(n.TypeParams), "(", joinTypes(n.Fields), ")")
	case *Class:
		pr.class(n)
	case *Enum:
		pr.enum(n)
	case *Trait:
		if n.Pub {
			pr.w("pub ")
		}
		pr.w("trait ", n.Name, typeParams(n.TypeParams), " ")
		pr.methods(n.Methods)
	case *Impl:
		pr.w("impl", typeParams(n.TypeParams), " ")
		if n.Trait != "" {
			pr.w(n.Trait, " for ")
		}
		pr.w(n.ForType, " ")
		pr.methods(n.Methods)
	case *Import:
		pr.w("import ", strings.Join(n.Path, "::"))
		switch {
		case len(n.Items) == 1 && n.Items[0] == "*":
			pr.w("::*")
		case len(n.Items) > 0:
			pr.w("::{", strings.Join(n.Items, ", "), "}")
		}
		if n.Alias != "" {
			pr.w(" as ", n.Alias)
		}
	case *Export:
		pr.w("export ")
		if n.Decl != nil {
			pr.expr(n.Decl, precLowest)
		} else {
			pr.w("{ ", strings.Join(n.Names, ", "), " }")
		}
	case *Actor:
		pr.actor(n)
	case *Supervisor:
		pr.supervisor(n)
	case *StructLiteral:
		pr.w(n.Name, " { ")
		for i, f := range n.Fields {
			if i > 0 {
				pr.w(", ")
			}
			pr.w(f.Name, ": ")
			pr.expr(f.Value, precLowest)
		}
		if n.Base != nil {
			if len(n.Fields) > 0 {
				pr.w(", ")
			}
			pr.w("..")
			pr.expr(n.Base, precLowest)
		}
		pr.w(" }")
	case *ObjectLiteral:
		pr.w("{")
		for i, f := range n.Fields {
			if i > 0 {
				pr.w(", ")
			}
			if f.Spread {
				pr.w("...")
			} else {
				pr.w(objectKey(f.Key), ": ")
			}
			pr.expr(f.Value, precLowest)
		}
		pr.w("}")
	case *Tuple:
		pr.w("(")
		pr.exprs(n.Elems)
		if len(n.Elems) == 1 {
			pr.w(",")
		}
		pr.w(")")
	case *List:
		pr.w("[")
		pr.exprs(n.Elems)
		pr.w("]")
	case *Set:
		pr.w("{")
		pr.exprs(n.Elems)
		if len(n.Elems) == 1 {
			pr.w(",")
		}
		pr.w("}")
	case *ArrayInit:
		pr.w("[")
		pr.expr(n.Value, precLowest)
		pr.w("; ")
		pr.expr(n.Size, precLowest)
		pr.w("]")
	case *Range:
		if n.Start != nil {
			pr.expr(n.Start, precRange+1)
		}
		pr.w(rangeOp(n.Inclusive))
		if n.End != nil {
			pr.expr(n.End, precRange+1)
		}
	case *ListComprehension:
		pr.w("[")
		pr.expr(n.Element, precLowest)
		pr.compClause(n.CompClause)
		pr.w("]")
	case *SetComprehension:
		pr.w("{")
		pr.expr(n.Element, precLowest)
		pr.compClause(n.CompClause)
		pr.w("}")
	case *DictComprehension:
		pr.w("{")
		pr.expr(n.Key, precLowest)
		pr.w(": ")
		pr.expr(n.Value, precLowest)
		pr.compClause(n.CompClause)
		pr.w("}")
	case *StringInterpolation:
		pr.w(`f"`)
		for _, part := range n.Parts {
			if part.Expr == nil {
				writeEscaped(&pr.sb, part.Text, true)
				continue
			}
			pr.w("{", Print(part.Expr))
			if part.Format != "" {
				pr.w(":", part.Format)
			}
			pr.w("}")
		}
		pr.w(`"`)
	case *Spawn:
		pr.w("spawn ")
		pr.expr(n.Actor, precUnary)
	case *Send:
		if n.Timeout != nil {
			pr.w("call ")
			pr.expr(n.Target, precSend+1)
			pr.w(" <- ")
			pr.expr(n.Message, precSend+1)
			pr.w(" timeout ")
			pr.expr(n.Timeout, precSend+1)
			return
		}
		pr.expr(n.Target, precSend)
		if n.Kind == CallMsg {
			pr.w(" <? ")
		} else {
			pr.w(" <- ")
		}
		pr.expr(n.Message, precSend+1)
	case *Await:
		pr.w("await ")
		pr.expr(n.Expr, precUnary)
	case *AsyncBlock:
		pr.w("async ")
		pr.block(n.Body)
	case *Receive:
		pr.w("receive ")
		pr.arms(n.Arms)
	case *Ok:
		pr.w("Ok(")
		pr.expr(n.Value, precLowest)
		pr.w(")")
	case *Err:
		pr.w("Err(")
		pr.expr(n.Value, precLowest)
		pr.w(")")
	case *Some:
		pr.w("Some(")
		pr.expr(n.Value, precLowest)
		pr.w(")")
	case *None:
		pr.w("None")
	case *Try:
		pr.expr(n.Expr, precPostfix)
		pr.w("?")
	case *Throw:
		pr.w("throw ")
		pr.expr(n.Expr, precLowest)
	case *TryCatch:
		pr.w("try ")
		pr.block(n.Body)
		for _, c := range n.Catches {
			pr.w(" catch ")
			if c.Pattern != nil {
				pr.w("(")
				pr.pattern(c.Pattern)
				if c.TypeFilter != "" {
					pr.w(": ", c.TypeFilter)
				}
				pr.w(") ")
			}
			pr.block(c.Body)
		}
		if n.Finally != nil {
			pr.w(" finally ")
			pr.block(n.Finally)
		}
	case *DataFrame:
		pr.w("df![")
		for i, col := range n.Columns {
			if i > 0 {
				pr.w(", ")
			}
			if IsIdent(col.Name) {
				pr.w(col.Name)
			} else {
				pr.w(Quote(col.Name))
			}
			pr.w(" => [")
			pr.exprs(col.Values)
			pr.w("]")
		}
		pr.w("]")
	case *DataFrameOp:
		pr.expr(n.Source, precPostfix)
		pr.w(".", n.Op, "(")
		pr.exprs(n.Args)
		pr.w(")")
	default:
		pr.w("/* unknown */")
	}
}

func singleArrayInit(m *Macro) (*ArrayInit, bool) {
	if m.Name != "vec" || len(m.Args) != 1 {
		return nil, false
	}
	init, ok := m.Args[0].Kind.(*ArrayInit)
	return init, ok
}

func rangeOp(inclusive bool) string {
	if inclusive {
		return "..="
	}
	return ".."
}

func objectKey(k string) string {
	if IsIdent(k) || IsKeyword(k) {
		return k
	}
	return Quote(k)
}

func (pr *printer) label(l string) {
	if l != "" {
		pr.w("'", l, ": ")
	}
}

func (pr *printer) elseBranch(e *Expr) {
	if e == nil {
		return
	}
	pr.w(" else ")
	if _, ok := e.Kind.(*Block); ok {
		pr.block(e)
	} else {
		pr.expr(e, precLowest)
	}
}

func (pr *printer) arms(arms []MatchArm) {
	pr.w("{")
	pr.indent++
	for _, arm := range arms {
		pr.newline()
		pr.pattern(arm.Pattern)
		if arm.Guard != nil {
			pr.w(" if ")
			pr.expr(arm.Guard, precLowest)
		}
		pr.w(" => ")
		pr.expr(arm.Body, precLowest)
		pr.w(",")
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) compClause(c CompClause) {
	pr.w(" for ")
	pr.pattern(c.Pattern)
	pr.w(" in ")
	pr.header(c.Iter)
	if c.Cond != nil {
		pr.w(" if ")
		pr.header(c.Cond)
	}
}

func (pr *printer) params(ps []Param, open, closer string) {
	if open == "|" && len(ps) == 0 {
		pr.w("||")
		return
	}
	pr.w(open)
	for i, p := range ps {
		if i > 0 {
			pr.w(", ")
		}
		switch p.Self {
		case SelfRef:
			pr.w("&self")
		case SelfMutRef:
			pr.w("&mut self")
		case SelfValue:
			pr.w("self")
		default:
			pr.pattern(p.Pattern)
		}
		if p.Type != nil {
			pr.w(": ", p.Type.String())
		}
		if p.Default != nil {
			pr.w(" = ")
			pr.expr(p.Default, precAssign+1)
		}
	}
	pr.w(closer)
}

func typeParams(tps []TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		parts[i] = tp.Name
		if len(tp.Bounds) > 0 {
			parts[i] += ": " + strings.Join(tp.Bounds, " + ")
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (pr *printer) function(fn *Function) {
	if fn.Pub {
		pr.w("pub ")
	}
	if fn.Async {
		pr.w("async ")
	}
	pr.w("fun ", fn.Name, typeParams(fn.TypeParams))
	pr.params(fn.Params, "(", ")")
	if fn.ReturnType != nil {
		pr.w(" -> ", fn.ReturnType.String())
	}
	if fn.Body != nil {
		pr.w(" ")
		pr.block(fn.Body)
	}
}

func (pr *printer) methods(ms []*Expr) {
	pr.w("{")
	pr.indent++
	for _, m := range ms {
		pr.newline()
		pr.expr(m, precLowest)
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) field(f StructField) {
	if f.Pub {
		pr.w("pub ")
	}
	if f.Mutable {
		pr.w("mut ")
	}
	pr.w(f.Name, ": ", f.Type.String())
	if f.Default != nil {
		pr.w(" = ")
		pr.expr(f.Default, precLowest)
	}
}

func (pr *printer) fields(fs []StructField) {
	for _, f := range fs {
		pr.newline()
		pr.field(f)
		pr.w(",")
	}
}

func (pr *printer) structDecl(n *StructDecl) {
	if n.Pub {
		pr.w("pub ")
	}
	pr.w("struct ", n.Name, typeParams(n.TypeParams), " {")
	pr.indent++
	pr.fields(n.Fields)
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) class(n *Class) {
	if n.Pub {
		pr.w("pub ")
	}
	if n.Sealed {
		pr.w("sealed ")
	}
	if n.Abstract {
		pr.w("abstract ")
	}
	pr.w("class ", n.Name, typeParams(n.TypeParams))
	if n.Superclass != "" {
		pr.w(" : ", n.Superclass)
		for _, t := range n.Traits {
			pr.w(" + ", t)
		}
	}
	pr.w(" {")
	pr.indent++
	pr.fields(n.Fields)
	for _, c := range n.Constants {
		pr.newline()
		pr.w("const ", c.Name)
		if c.Type != nil {
			pr.w(": ", c.Type.String())
		}
		pr.w(" = ")
		pr.expr(c.Value, precLowest)
	}
	for _, c := range n.Constructors {
		pr.newline()
		pr.w("new")
		if c.Name != "" {
			pr.w(" ", c.Name)
		}
		pr.params(c.Params, "(", ")")
		pr.w(" ")
		pr.block(c.Body)
	}
	for _, m := range n.Methods {
		pr.newline()
		pr.expr(m, precLowest)
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) enum(n *Enum) {
	if n.Pub {
		pr.w("pub ")
	}
	pr.w("enum ", n.Name, typeParams(n.TypeParams), " {")
	pr.indent++
	for _, v := range n.Variants {
		pr.newline()
		pr.w(v.Name)
		switch v.Kind {
		case TupleVariant:
			pr.w("(", joinTypes(v.Fields), ")")
		case StructVariant:
			pr.w(" {")
			pr.indent++
			pr.fields(v.StructFields)
			pr.indent--
			pr.newline()
			pr.w("}")
		}
		if v.Discriminant != nil {
			pr.w(" = ", strconv.FormatInt(*v.Discriminant, 10))
		}
		pr.w(",")
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) actor(n *Actor) {
	pr.w("actor ", n.Name, " {")
	pr.indent++
	pr.fields(n.State)
	for _, m := range n.Methods {
		pr.newline()
		pr.expr(m, precLowest)
	}
	if len(n.Handlers) > 0 {
		pr.newline()
		pr.w("receive ")
		pr.arms(n.Handlers)
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) supervisor(n *Supervisor) {
	pr.w("supervisor ", n.Name, " {")
	pr.indent++
	pr.newline()
	pr.w("strategy: ", n.Strategy)
	pr.newline()
	pr.w("max_restarts: ", strconv.FormatInt(n.MaxRestarts, 10))
	pr.newline()
	pr.w("max_seconds: ", strconv.FormatInt(n.MaxSeconds, 10))
	for _, c := range n.Children {
		pr.newline()
		pr.w("child ", c.ID, ": ", c.Actor)
		if c.Args != nil {
			pr.w("(")
			pr.exprs(c.Args)
			pr.w(")")
		}
		pr.w(" restart: ", c.Restart, " shutdown: ", c.Shutdown)
	}
	pr.indent--
	pr.newline()
	pr.w("}")
}

func (pr *printer) pattern(p Pattern) {
	switch p := p.(type) {
	case *WildcardPattern:
		pr.w("_")
	case *IdentPattern:
		pr.w(p.Name)
	case *LiteralPattern:
		pr.expr(p.Value, precLowest)
	case *TuplePattern:
		pr.w("(")
		pr.patterns(p.Elems)
		if len(p.Elems) == 1 {
			pr.w(",")
		}
		pr.w(")")
	case *ListPattern:
		pr.w("[")
		pr.patterns(p.Elems)
		pr.w("]")
	case *StructPattern:
		if p.Name != "" {
			pr.w(p.Name, " ")
		}
		pr.w("{")
		for i, f := range p.Fields {
			if i > 0 {
				pr.w(", ")
			}
			pr.fieldPattern(f)
		}
		if p.HasRest {
			if len(p.Fields) > 0 {
				pr.w(", ")
			}
			pr.w("..")
		}
		pr.w("}")
	case *OrPattern:
		for i, alt := range p.Alts {
			if i > 0 {
				pr.w(" | ")
			}
			pr.pattern(alt)
		}
	case *RangePattern:
		pr.expr(p.Start, precLowest)
		pr.w(rangeOp(p.Inclusive))
		pr.expr(p.End, precLowest)
	case *RestPattern:
		pr.w("..")
	case *RestNamedPattern:
		pr.w("..", p.Name)
	case *SomePattern:
		pr.w("Some(")
		pr.pattern(p.Inner)
		pr.w(")")
	case *NonePattern:
		pr.w("None")
	case *OkPattern:
		pr.w("Ok(")
		pr.pattern(p.Inner)
		pr.w(")")
	case *ErrPattern:
		pr.w("Err(")
		pr.pattern(p.Inner)
		pr.w(")")
	case *TupleVariantPattern:
		pr.w(strings.Join(p.Path, "::"), "(")
		pr.patterns(p.Elems)
		pr.w(")")
	case *AtPattern:
		pr.w(p.Name, " @ ")
		pr.pattern(p.Inner)
	case *WithDefaultPattern:
		pr.pattern(p.Inner)
		pr.w(" = ")
		pr.expr(p.Default, precAssign+1)
	case *MutPattern:
		pr.w("mut ")
		pr.pattern(p.Inner)
	case *QualifiedNamePattern:
		pr.w(strings.Join(p.Path, "::"))
	}
}

func (pr *printer) fieldPattern(f FieldPattern) {
	if f.Pattern == nil {
		pr.w(f.Name)
		return
	}
	if d, ok := f.Pattern.(*WithDefaultPattern); ok {
		if id, ok := d.Inner.(*IdentPattern); ok && id.Name == f.Name {
			pr.w(f.Name, " = ")
			pr.expr(d.Default, precAssign+1)
			return
		}
		pr.w(f.Name, ": ")
		pr.pattern(d.Inner)
		pr.w(" = ")
		pr.expr(d.Default, precAssign+1)
		return
	}
	pr.w(f.Name, ": ")
	pr.pattern(f.Pattern)
}

func (pr *printer) patterns(ps []Pattern) {
	for i, p := range ps {
		if i > 0 {
			pr.w(", ")
		}
		pr.pattern(p)
	}
}
