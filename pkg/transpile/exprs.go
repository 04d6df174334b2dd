package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

// Rust operator precedence, loosest first.
const (
	precLowest = iota
	precAssign
	precRange
	precOr
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precCast
	precUnary
	precPostfix
	precPrimary
)

var binaryPrec = map[parse.BinaryOp]int{
	parse.OpOr: precOr, parse.OpAnd: precAnd,
	parse.OpEq: precCompare, parse.OpNe: precCompare, parse.OpLt: precCompare,
	parse.OpLe: precCompare, parse.OpGt: precCompare, parse.OpGe: precCompare,
	parse.OpBitOr: precBitOr, parse.OpBitXor: precBitXor, parse.OpBitAnd: precBitAnd,
	parse.OpShl: precShift, parse.OpShr: precShift,
	parse.OpAdd: precAdd, parse.OpSub: precAdd,
	parse.OpMul: precMul, parse.OpDiv: precMul, parse.OpMod: precMul,
}

// prec returns the precedence of the Rust expression e lowers to.
func (t *Transpiler) prec(e *parse.Expr) int {
	switch n := e.Kind.(type) {
	case *parse.Binary:
		switch n.Op {
		case parse.OpPow, parse.OpPipe:
			return precPostfix
		case parse.OpNullCoalesce:
			return precPrimary
		case parse.OpAdd, parse.OpMul:
			if t.isString(e) || t.isList(e) {
				return precPostfix
			}
		}
		return binaryPrec[n.Op]
	case *parse.Unary:
		return precUnary
	case *parse.TypeCast:
		return precCast
	case *parse.Range:
		return precRange
	case *parse.Assign, *parse.CompoundAssign:
		return precAssign
	case *parse.Lambda, *parse.AsyncLambda, *parse.Return, *parse.Break:
		return precLowest
	case *parse.IntLit:
		if n.Value < 0 {
			return precUnary
		}
	case *parse.FloatLit:
		if n.Value < 0 {
			return precUnary
		}
	}
	return precPrimary
}

// expr lowers e, parenthesized if it binds looser than min.
func (t *Transpiler) expr(e *parse.Expr, min int) {
	if t.prec(e) < min {
		t.ts.punct("(")
		t.exprNode(e)
		t.ts.punct(")")
		return
	}
	t.exprNode(e)
}

func (t *Transpiler) exprs(es []*parse.Expr) {
	for i, e := range es {
		if i > 0 {
			t.ts.punct(",")
		}
		t.expr(e, precLowest)
	}
}

func (t *Transpiler) exprNode(e *parse.Expr) {
	ts := t.ts
	switch n := e.Kind.(type) {
	case *parse.IntLit:
		ts.lit(intText(n))
	case *parse.FloatLit:
		ts.lit(floatText(n))
	case *parse.StringLit:
		ts.lit(quoteString(n.Value))
	case *parse.CharLit:
		ts.lit(quoteChar(n.Value))
	case *parse.BoolLit:
		ts.word(strconv.FormatBool(n.Value))
	case *parse.UnitLit:
		ts.punct("(", ")")
	case *parse.NullLit, *parse.None:
		ts.word("None")
	case *parse.Ident:
		if n.Name == "self" {
			ts.word(t.selfName)
		} else {
			ts.word(n.Name)
		}
	case *parse.QualifiedName:
		t.qualifiedName(n.Path)
	case *parse.FieldAccess:
		t.fieldAccess(n)
	case *parse.IndexAccess:
		t.expr(n.Object, precPostfix)
		ts.punct("[")
		t.index(n.Index)
		ts.punct("]")
	case *parse.Slice:
		ts.prefix("&")
		t.expr(n.Object, precPostfix)
		ts.punct("[")
		if n.Start != nil {
			t.index(n.Start)
		}
		if n.Inclusive {
			ts.punct("..=")
		} else {
			ts.punct("..")
		}
		if n.End != nil {
			t.index(n.End)
		}
		ts.punct("]")
	case *parse.Binary:
		t.binary(e, n)
	case *parse.Unary:
		switch n.Op {
		case parse.OpNeg:
			ts.prefix("-")
		case parse.OpNot, parse.OpBitNot:
			ts.prefix("!")
		case parse.OpRef:
			ts.prefix("&")
		case parse.OpRefMut:
			ts.prefix("&")
			ts.word("mut")
		case parse.OpDeref:
			ts.prefix("*")
		}
		t.expr(n.Operand, precUnary)
	case *parse.Assign:
		t.expr(n.Target, precAssign+1)
		ts.punct("=")
		t.expr(n.Value, precAssign)
	case *parse.CompoundAssign:
		t.compoundAssign(e, n)
	case *parse.IncDec:
		t.incDec(n)
	case *parse.TypeCast:
		t.expr(n.Expr, precCast)
		ts.word("as")
		t.typeExpr(n.Type, false)
	case *parse.Block:
		t.block(e)
	case *parse.Call:
		t.call(e, n.Func, n.Args, nil)
	case *parse.MethodCall:
		t.methodCall(n, nil)
	case *parse.Macro:
		t.macro(e, n)
	case *parse.Lambda:
		t.lambda(n.Params, n.Body, false)
	case *parse.AsyncLambda:
		t.lambda(n.Params, n.Body, true)
	case *parse.StructLiteral:
		t.structLiteral(n, nil)
	case *parse.ObjectLiteral:
		t.objectLiteral(e, n)
	case *parse.Tuple:
		ts.punct("(")
		t.exprs(n.Elems)
		if len(n.Elems) == 1 {
			ts.punct(",")
		}
		ts.punct(")")
	case *parse.List:
		ts.word("vec")
		ts.punct("!", "[")
		t.exprs(n.Elems)
		ts.punct("]")
	case *parse.Set:
		ts.path("std", "collections", "HashSet")
		if len(n.Elems) == 0 {
			ts.punct("::")
			ts.word("new")
			ts.punct("(", ")")
			return
		}
		ts.punct("::")
		ts.word("from")
		ts.punct("(", "[")
		t.exprs(n.Elems)
		ts.punct("]", ")")
	case *parse.ArrayInit:
		ts.word("vec")
		ts.punct("!", "[")
		t.expr(n.Value, precLowest)
		ts.punct(";")
		t.index(n.Size)
		ts.punct("]")
	case *parse.Range:
		if n.Start != nil {
			t.expr(n.Start, precRange+1)
		}
		if n.Inclusive {
			ts.punct("..=")
		} else {
			ts.punct("..")
		}
		if n.End != nil {
			t.expr(n.End, precRange+1)
		}
	case *parse.ListComprehension:
		t.comprehension(n.CompClause, func() { t.expr(n.Element, precLowest) }, "Vec")
	case *parse.SetComprehension:
		t.comprehension(n.CompClause, func() { t.expr(n.Element, precLowest) }, "HashSet")
	case *parse.DictComprehension:
		t.comprehension(n.CompClause, func() {
			ts.punct("(")
			t.expr(n.Key, precLowest)
			ts.punct(",")
			t.expr(n.Value, precLowest)
			ts.punct(")")
		}, "HashMap")
	case *parse.StringInterpolation:
		t.interpolation(n)
	case *parse.Ok:
		t.wrapped("Ok", n.Value)
	case *parse.Err:
		t.wrapped("Err", n.Value)
	case *parse.Some:
		t.wrapped("Some", n.Value)
	case *parse.Try:
		t.expr(n.Expr, precPostfix)
		ts.punct("?")
	case *parse.Throw:
		ts.word("panic")
		ts.punct("!", "(")
		ts.lit(`"{:?}"`)
		ts.punct(",")
		t.expr(n.Expr, precLowest)
		ts.punct(")")
	case *parse.Await:
		t.expr(n.Expr, precPostfix)
		ts.punct(".")
		ts.word("await")
	case *parse.AsyncBlock:
		ts.word("async")
		t.block(n.Body)
	case *parse.Spawn:
		t.spawn(e, n)
	case *parse.Send:
		t.send(e, n)
	default:
		if t.control(e) {
			return
		}
		if isDecl(e) {
			t.decl(e)
			return
		}
		t.fail(e, UnsupportedConstruct, "%s cannot be transpiled", constructName(e))
	}
}

// constructName names the kind of node for error messages.
func constructName(e *parse.Expr) string {
	switch e.Kind.(type) {
	case *parse.AtomLit:
		return "atom literal"
	case *parse.Receive:
		return "receive expression"
	case *parse.Supervisor:
		return "supervisor"
	case *parse.TryCatch:
		return "try/catch"
	case *parse.DataFrame, *parse.DataFrameOp:
		return "dataframe"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", e.Kind), "*parse.")
}

func intText(n *parse.IntLit) string {
	raw := n.Raw
	if raw == "" {
		raw = strconv.FormatInt(n.Value, 10)
	}
	switch n.Suffix {
	case "":
		return raw
	case "int", "integer":
		return raw + "i64"
	}
	return raw + n.Suffix
}

func floatText(n *parse.FloatLit) string {
	raw := n.Raw
	if raw == "" {
		raw = strconv.FormatFloat(n.Value, 'g', -1, 64)
	}
	if !strings.ContainsAny(raw, ".eE") {
		raw += ".0"
	}
	switch n.Suffix {
	case "", "float":
		return raw
	}
	return raw + n.Suffix
}

// quoteString quotes s as a Rust string literal.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		default:
			writeEscaped(&sb, r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func quoteChar(r rune) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	if r == '\'' {
		sb.WriteString(`\'`)
	} else {
		writeEscaped(&sb, r)
	}
	sb.WriteByte('\'')
	return sb.String()
}

func writeEscaped(sb *strings.Builder, r rune) {
	switch r {
	case '\\':
		sb.WriteString(`\\`)
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\t':
		sb.WriteString(`\t`)
	case 0:
		sb.WriteString(`\0`)
	default:
		if r < 0x20 || r == 0x7f {
			sb.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
		} else {
			sb.WriteRune(r)
		}
	}
}

func (t *Transpiler) qualifiedName(path []string) {
	if len(path) > 1 && collectionTypes[path[0]] {
		t.ts.path("std", "collections")
		t.ts.punct("::")
	}
	t.ts.path(path...)
}

func (t *Transpiler) wrapped(ctor string, v *parse.Expr) {
	t.ts.word(ctor)
	t.ts.punct("(")
	t.expr(v, precLowest)
	t.ts.punct(")")
}

// index lowers an index or bound; values that are not literals are cast to
// usize.
func (t *Transpiler) index(e *parse.Expr) {
	if lit, ok := e.Kind.(*parse.IntLit); ok && lit.Value >= 0 {
		t.ts.lit(strconv.FormatInt(lit.Value, 10))
		return
	}
	if isPrimType(t.typeOf(e), types.StringKind) {
		t.expr(e, precLowest)
		return
	}
	t.expr(e, precCast)
	t.ts.word("as")
	t.ts.word("usize")
}

func (t *Transpiler) fieldAccess(n *parse.FieldAccess) {
	if named, ok := t.typeOf(n.Object).(types.Named); ok && named.Name == "Object" {
		t.expr(n.Object, precPostfix)
		t.ts.punct("[")
		t.ts.lit(quoteString(n.Field))
		t.ts.punct("]")
		return
	}
	t.expr(n.Object, precPostfix)
	t.ts.punct(".")
	if _, err := strconv.Atoi(n.Field); err == nil {
		t.ts.lit(n.Field)
	} else {
		t.ts.word(n.Field)
	}
}

func (t *Transpiler) isString(e *parse.Expr) bool {
	return isPrimType(t.typeOf(e), types.StringKind)
}

func (t *Transpiler) isFloat(e *parse.Expr) bool {
	return isPrimType(t.typeOf(e), types.FloatKind)
}

func (t *Transpiler) isList(e *parse.Expr) bool {
	_, ok := t.typeOf(e).(types.List)
	return ok
}

func isPrimType(ty types.Type, k types.PrimKind) bool {
	p, ok := ty.(types.Prim)
	return ok && p.Kind == k
}

func (t *Transpiler) binary(e *parse.Expr, n *parse.Binary) {
	ts := t.ts
	switch n.Op {
	case parse.OpPow:
		t.powReceiver(n.Left)
		ts.punct(".")
		if t.isFloat(e) {
			ts.word("powf")
			ts.punct("(")
			t.expr(n.Right, precLowest)
		} else {
			ts.word("pow")
			ts.punct("(")
			t.expr(n.Right, precCast)
			ts.words("as", "u32")
		}
		ts.punct(")")
		return
	case parse.OpPipe:
		t.pipe(n)
		return
	case parse.OpNullCoalesce:
		ts.word("match")
		t.expr(n.Left, precLowest)
		ts.punct("{")
		ts.word("Some")
		ts.punct("(")
		ts.word("__v")
		ts.punct(")", "=>")
		ts.word("__v")
		ts.punct(",")
		ts.word("None")
		ts.punct("=>")
		t.expr(n.Right, precLowest)
		ts.punct(",", "}")
		return
	case parse.OpAdd:
		if t.isString(e) {
			ts.word("format")
			ts.punct("!", "(")
			ts.lit(`"{}{}"`)
			ts.punct(",")
			t.expr(n.Left, precLowest)
			ts.punct(",")
			t.expr(n.Right, precLowest)
			ts.punct(")")
			return
		}
		if t.isList(e) {
			ts.punct("[")
			t.expr(n.Left, precLowest)
			ts.punct(",")
			t.expr(n.Right, precLowest)
			ts.punct("]", ".")
			ts.word("concat")
			ts.punct("(", ")")
			return
		}
	case parse.OpMul:
		if t.isString(e) || t.isList(e) {
			t.expr(n.Left, precPostfix)
			ts.punct(".")
			ts.word("repeat")
			ts.punct("(")
			t.index(n.Right)
			ts.punct(")")
			return
		}
	}
	p := binaryPrec[n.Op]
	right := p + 1
	left := p
	if p == precCompare {
		left = p + 1
	}
	t.expr(n.Left, left)
	ts.punct(n.Op.String())
	t.expr(n.Right, right)
}

// powReceiver lowers the base of **, giving unsuffixed literals a type so
// that the method call resolves.
func (t *Transpiler) powReceiver(e *parse.Expr) {
	switch n := e.Kind.(type) {
	case *parse.IntLit:
		if n.Suffix == "" && n.Value >= 0 {
			t.ts.lit(intText(n) + "i64")
			return
		}
	case *parse.FloatLit:
		if n.Suffix == "" && n.Value >= 0 {
			t.ts.lit(floatText(n) + "f64")
			return
		}
	}
	t.expr(e, precPostfix)
}

// pipe lowers x |> f to f(x) and x |> f(a) to f(x, a).
func (t *Transpiler) pipe(n *parse.Binary) {
	switch r := n.Right.Kind.(type) {
	case *parse.Call:
		t.call(n.Right, r.Func, r.Args, n.Left)
	case *parse.MethodCall:
		t.methodCall(r, n.Left)
	case *parse.Ident, *parse.QualifiedName:
		t.call(n.Right, n.Right, nil, n.Left)
	default:
		t.expr(n.Right, precPrimary)
		t.ts.punct("(")
		t.expr(n.Left, precLowest)
		t.ts.punct(")")
	}
}

func (t *Transpiler) compoundAssign(e *parse.Expr, n *parse.CompoundAssign) {
	ts := t.ts
	switch n.Op {
	case parse.OpPow:
		t.expr(n.Target, precAssign+1)
		ts.punct("=")
		t.expr(n.Target, precPostfix)
		ts.punct(".")
		if t.isFloat(n.Target) {
			ts.word("powf")
			ts.punct("(")
			t.expr(n.Value, precLowest)
		} else {
			ts.word("pow")
			ts.punct("(")
			t.expr(n.Value, precCast)
			ts.words("as", "u32")
		}
		ts.punct(")")
		return
	case parse.OpNullCoalesce, parse.OpPipe:
		t.fail(e, UnsupportedConstruct, "compound assignment with %s", n.Op)
	}
	t.expr(n.Target, precAssign+1)
	ts.punct(n.Op.String() + "=")
	if n.Op == parse.OpAdd && t.isString(n.Target) {
		if _, lit := n.Value.Kind.(*parse.StringLit); !lit {
			ts.prefix("&")
			t.expr(n.Value, precUnary)
			return
		}
	}
	t.expr(n.Value, precAssign)
}

// incDec lowers ++ and -- to a block that updates the target and yields
// the new or, for postfix forms, the old value.
func (t *Transpiler) incDec(n *parse.IncDec) {
	ts := t.ts
	op := "+="
	if n.Decrement {
		op = "-="
	}
	ts.punct("{")
	if n.Postfix {
		ts.words("let", "__old")
		ts.punct("=")
		t.expr(n.Target, precLowest)
		ts.punct(";")
	}
	t.expr(n.Target, precAssign+1)
	ts.punct(op)
	ts.lit("1")
	ts.punct(";")
	if n.Postfix {
		ts.word("__old")
	} else {
		t.expr(n.Target, precLowest)
	}
	ts.punct("}")
}

// statementIncDec lowers ++ and -- in statement position.
func (t *Transpiler) statementIncDec(n *parse.IncDec) {
	t.expr(n.Target, precAssign+1)
	if n.Decrement {
		t.ts.punct("-=")
	} else {
		t.ts.punct("+=")
	}
	t.ts.lit("1")
}

func (t *Transpiler) lambda(params []parse.Param, body *parse.Expr, async bool) {
	ts := t.ts
	ts.push(ClosureBar, "|")
	for i := range params {
		if i > 0 {
			ts.punct(",")
		}
		p := &params[i]
		t.pattern(p.Pattern)
		if p.Type != nil {
			ts.punct(":")
			t.typeExpr(p.Type, false)
		}
	}
	ts.push(ClosureBar, "|")
	if async {
		ts.words("async", "move")
		t.block(body)
		return
	}
	t.expr(body, precLowest)
}

// mutatesCaptures reports whether a lambda assigns to variables that are not
// its own parameters; such closures must be bound mutably.
func mutatesCaptures(e *parse.Expr) bool {
	var params []parse.Param
	var body *parse.Expr
	switch n := e.Kind.(type) {
	case *parse.Lambda:
		params, body = n.Params, n.Body
	case *parse.AsyncLambda:
		params, body = n.Params, n.Body
	default:
		return false
	}
	own := map[string]bool{}
	for i := range params {
		own[params[i].Name()] = true
	}
	found := false
	parse.Walk(body, func(e *parse.Expr) bool {
		var target *parse.Expr
		switch n := e.Kind.(type) {
		case *parse.Assign:
			target = n.Target
		case *parse.CompoundAssign:
			target = n.Target
		case *parse.IncDec:
			target = n.Target
		case *parse.MethodCall:
			switch n.Method {
			case "push", "pop", "insert", "remove", "clear", "sort", "reverse":
				target = n.Receiver
			}
		}
		if target != nil {
			if name := rootName(target); name != "" && !own[name] {
				found = true
			}
		}
		return !found
	})
	return found
}

// rootName returns the variable at the root of an lvalue like a.b[0].
func rootName(e *parse.Expr) string {
	for {
		switch n := e.Kind.(type) {
		case *parse.Ident:
			return n.Name
		case *parse.FieldAccess:
			e = n.Object
		case *parse.IndexAccess:
			e = n.Object
		default:
			return ""
		}
	}
}

func (t *Transpiler) structLiteral(n *parse.StructLiteral, base func()) {
	ts := t.ts
	t.qualifiedName(strings.Split(n.Name, "::"))
	ts.punct("{")
	for i, f := range n.Fields {
		if i > 0 {
			ts.punct(",")
		}
		ts.word(f.Name)
		ts.punct(":")
		t.owned(f.Value)
	}
	switch {
	case n.Base != nil:
		if len(n.Fields) > 0 {
			ts.punct(",")
		}
		ts.punct("..")
		t.expr(n.Base, precLowest)
	case base != nil:
		if len(n.Fields) > 0 {
			ts.punct(",")
		}
		ts.punct("..")
		base()
	}
	ts.punct("}")
}

// objectLiteral lowers an object literal to an ordered map.
func (t *Transpiler) objectLiteral(e *parse.Expr, n *parse.ObjectLiteral) {
	ts := t.ts
	ts.path("std", "collections", "BTreeMap")
	ts.punct("::")
	if len(n.Fields) == 0 {
		ts.word("new")
		ts.punct("(", ")")
		return
	}
	ts.word("from")
	ts.punct("(", "[")
	for i, f := range n.Fields {
		if f.Spread {
			t.fail(f.Value, UnsupportedConstruct, "object spread")
		}
		if i > 0 {
			ts.punct(",")
		}
		ts.punct("(")
		ts.lit(quoteString(f.Key))
		ts.punct(".")
		ts.word("to_string")
		ts.punct("(", ")", ",")
		t.expr(f.Value, precLowest)
		ts.punct(")")
	}
	ts.punct("]", ")")
}

// comprehension lowers [elem for pat in iter if cond] to an iterator chain.
func (t *Transpiler) comprehension(cl parse.CompClause, elem func(), collection string) {
	ts := t.ts
	t.iterable(cl.Iter, true)
	ts.punct(".")
	ts.word("into_iter")
	ts.punct("(", ")", ".")
	if cl.Cond != nil {
		ts.word("filter_map")
	} else {
		ts.word("map")
	}
	ts.punct("(")
	ts.push(ClosureBar, "|")
	t.pattern(cl.Pattern)
	ts.push(ClosureBar, "|")
	if cl.Cond != nil {
		ts.word("if")
		t.expr(cl.Cond, precLowest)
		ts.punct("{")
		ts.word("Some")
		ts.punct("(")
		elem()
		ts.punct(")", "}")
		ts.word("else")
		ts.punct("{")
		ts.word("None")
		ts.punct("}")
	} else {
		elem()
	}
	ts.punct(")", ".")
	ts.word("collect")
	ts.punct("::")
	ts.push(GenericOpen, "<")
	if collection != "Vec" {
		ts.path("std", "collections")
		ts.punct("::")
	}
	ts.word(collection)
	ts.push(GenericOpen, "<")
	ts.word("_")
	if collection == "HashMap" {
		ts.punct(",")
		ts.word("_")
	}
	ts.push(GenericClose, ">")
	ts.push(GenericClose, ">")
	ts.punct("(", ")")
}

// iterable lowers the subject of a for loop or comprehension. Strings
// iterate over their chars; named lists are cloned so that they stay usable
// after the loop. With postfix set, e is followed by a method call.
func (t *Transpiler) iterable(e *parse.Expr, postfix bool) {
	_, named := e.Kind.(*parse.Ident)
	switch {
	case t.isString(e):
		t.expr(e, precPostfix)
		t.ts.punct(".")
		t.ts.word("chars")
		t.ts.punct("(", ")")
	case named && t.isList(e):
		t.expr(e, precPostfix)
		t.ts.punct(".")
		t.ts.word("clone")
		t.ts.punct("(", ")")
	case postfix:
		t.expr(e, precPostfix)
	default:
		t.expr(e, precLowest)
	}
}

// interpolation lowers an f-string to format!.
func (t *Transpiler) interpolation(n *parse.StringInterpolation) {
	ts := t.ts
	var format strings.Builder
	var args []*parse.Expr
	for _, p := range n.Parts {
		if p.Expr == nil {
			format.WriteString(escapeBraces(p.Text))
			continue
		}
		if p.Format != "" {
			format.WriteString("{:" + p.Format + "}")
		} else {
			format.WriteString("{}")
		}
		args = append(args, p.Expr)
	}
	ts.word("format")
	ts.punct("!", "(")
	ts.lit(quoteString(format.String()))
	for _, a := range args {
		ts.punct(",")
		t.expr(a, precLowest)
	}
	ts.punct(")")
}

func escapeBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}

// owned lowers e where an owned value is stored, turning string literals
// into Strings.
func (t *Transpiler) owned(e *parse.Expr) {
	if lit, ok := e.Kind.(*parse.StringLit); ok {
		t.ts.lit(quoteString(lit.Value))
		t.ts.punct(".")
		t.ts.word("to_string")
		t.ts.punct("(", ")")
		return
	}
	t.expr(e, precLowest)
}
