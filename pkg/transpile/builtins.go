package transpile

import (
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/types"
)

// Macros passed through to Rust as they are.
var knownMacros = map[string]bool{
	"println": true, "print": true, "eprintln": true, "eprint": true,
	"format": true, "vec": true, "assert": true, "assert_eq": true,
	"assert_ne": true, "panic": true, "todo": true, "unimplemented": true,
	"unreachable": true, "dbg": true, "matches": true, "write": true,
	"writeln": true, "debug_assert": true, "stringify": true,
}

var printMacros = map[string]bool{
	"println": true, "print": true, "eprintln": true, "eprint": true, "format": true,
	"panic": true,
}

var macroClose = map[byte]string{'(': ")", '[': "]", '{': "}"}

func (t *Transpiler) macro(e *parse.Expr, n *parse.Macro) {
	if !knownMacros[n.Name] {
		t.fail(e, UnknownMacro, "unknown macro %s!", n.Name)
	}
	ts := t.ts
	open := n.Delim
	if open == 0 {
		open = '('
	}
	ts.word(n.Name)
	ts.punct("!", string(open))
	if printMacros[n.Name] && len(n.Args) > 0 {
		if _, ok := n.Args[0].Kind.(*parse.StringLit); !ok {
			t.formatArgs(n.Args, "", " ")
			ts.punct(macroClose[open])
			return
		}
	}
	t.exprs(n.Args)
	ts.punct(macroClose[open])
}

// formatArgs writes a format string that prints args, joined by sep, followed
// by the args themselves.
func (t *Transpiler) formatArgs(args []*parse.Expr, prefix, sep string) {
	specs := make([]string, len(args))
	for i, a := range args {
		specs[i] = t.formatSpec(a)
	}
	t.ts.lit(quoteString(prefix + strings.Join(specs, sep)))
	for _, a := range args {
		t.ts.punct(",")
		t.expr(a, precLowest)
	}
}

// formatSpec picks Display for primitives and Debug for everything else.
func (t *Transpiler) formatSpec(e *parse.Expr) string {
	switch e.Kind.(type) {
	case *parse.StringLit, *parse.IntLit, *parse.FloatLit, *parse.BoolLit,
		*parse.CharLit, *parse.StringInterpolation:
		return "{}"
	}
	if p, ok := t.typeOf(e).(types.Prim); ok && p.Kind != types.UnitKind {
		return "{}"
	}
	return "{:?}"
}

func (t *Transpiler) call(e, fn *parse.Expr, args []*parse.Expr, leading *parse.Expr) {
	if leading != nil {
		args = append([]*parse.Expr{leading}, args...)
	}
	ts := t.ts
	switch f := fn.Kind.(type) {
	case *parse.Ident:
		name := f.Name
		switch {
		case t.functions[name]:
		case t.structs[name] != nil:
			t.positionalStruct(e, t.structs[name], args)
			return
		case t.classes[name] != nil:
			ts.path(name, "new")
			t.args(args)
			return
		case t.builtinCall(e, name, args):
			return
		}
	case *parse.QualifiedName:
		if len(f.Path) == 2 && f.Path[1] == "new" {
			if sd := t.structs[f.Path[0]]; sd != nil && !t.implMethods[sd.Name]["new"] {
				t.positionalStruct(e, sd, args)
				return
			}
		}
	}
	t.expr(fn, precPostfix)
	t.args(args)
}

func (t *Transpiler) args(args []*parse.Expr) {
	t.ts.punct("(")
	t.exprs(args)
	t.ts.punct(")")
}

// positionalStruct lowers a call of a struct name to a struct literal with
// the arguments assigned to the fields in declaration order.
func (t *Transpiler) positionalStruct(e *parse.Expr, sd *parse.StructDecl, args []*parse.Expr) {
	if len(args) != len(sd.Fields) {
		t.fail(e, UnsupportedConstruct, "%s has %d fields, called with %d arguments",
			sd.Name, len(sd.Fields), len(args))
	}
	ts := t.ts
	ts.word(sd.Name)
	ts.punct("{")
	for i, f := range sd.Fields {
		if i > 0 {
			ts.punct(",")
		}
		ts.word(f.Name)
		ts.punct(":")
		t.owned(args[i])
	}
	ts.punct("}")
}

// builtinCall lowers calls of builtin functions. It reports false for names
// that are not builtins.
func (t *Transpiler) builtinCall(e *parse.Expr, name string, args []*parse.Expr) bool {
	ts := t.ts
	arity := func(n int) {
		if len(args) != n {
			t.fail(e, UnsupportedConstruct, "%s takes %d arguments, got %d", name, n, len(args))
		}
	}
	method := func(m string) {
		arity(1)
		t.expr(args[0], precPostfix)
		ts.punct(".")
		ts.word(m)
		ts.punct("(", ")")
	}
	switch name {
	case "print", "println", "eprint", "eprintln":
		ts.word(name)
		ts.punct("!", "(")
		if len(args) > 0 {
			t.formatArgs(args, "", " ")
		}
		ts.punct(")")
	case "format":
		ts.word("format")
		ts.punct("!", "(")
		t.exprs(args)
		ts.punct(")")
	case "len":
		arity(1)
		ts.punct("(")
		t.expr(args[0], precPostfix)
		ts.punct(".")
		ts.word("len")
		ts.punct("(", ")")
		ts.words("as", "i64")
		ts.punct(")")
	case "str":
		method("to_string")
	case "int", "float":
		arity(1)
		target := "i64"
		if name == "float" {
			target = "f64"
		}
		if t.isString(args[0]) {
			t.parseCall(args[0], target)
			return true
		}
		ts.punct("(")
		t.expr(args[0], precCast)
		ts.words("as", target)
		ts.punct(")")
	case "parse_int":
		arity(1)
		t.parseCall(args[0], "i64")
	case "parse_float":
		arity(1)
		t.parseCall(args[0], "f64")
	case "sqrt":
		arity(1)
		t.asFloat(args[0])
		ts.punct(".")
		ts.word("sqrt")
		ts.punct("(", ")")
	case "abs":
		method("abs")
	case "floor", "ceil", "round":
		arity(1)
		t.asFloat(args[0])
		ts.punct(".")
		ts.word(name)
		ts.punct("(", ")")
	case "pow":
		arity(2)
		bin := &parse.Binary{Op: parse.OpPow, Left: args[0], Right: args[1]}
		t.binary(e, bin)
	case "min", "max":
		t.minMax(e, name, args)
	case "sum":
		arity(1)
		elem := "i64"
		if l, ok := t.typeOf(args[0]).(types.List); ok && isPrimType(l.Elem, types.FloatKind) {
			elem = "f64"
		}
		t.expr(args[0], precPostfix)
		ts.punct(".")
		ts.word("iter")
		ts.punct("(", ")", ".")
		ts.word("sum")
		ts.punct("::")
		ts.push(GenericOpen, "<")
		ts.word(elem)
		ts.push(GenericClose, ">")
		ts.punct("(", ")")
	case "range":
		if len(args) < 1 || len(args) > 3 {
			t.fail(e, UnsupportedConstruct, "range takes 1 to 3 arguments, got %d", len(args))
		}
		ts.punct("(")
		if len(args) == 1 {
			ts.lit("0")
			ts.punct("..")
			t.expr(args[0], precRange+1)
		} else {
			t.expr(args[0], precRange+1)
			ts.punct("..")
			t.expr(args[1], precRange+1)
		}
		ts.punct(")")
		if len(args) == 3 {
			ts.punct(".")
			ts.word("step_by")
			ts.punct("(")
			t.index(args[2])
			ts.punct(")")
		}
	case "assert", "assert_eq":
		ts.word(name)
		ts.punct("!", "(")
		t.exprs(args)
		ts.punct(")")
	case "sleep":
		arity(1)
		ts.path("std", "thread", "sleep")
		ts.punct("(")
		ts.path("std", "time", "Duration", "from_millis")
		ts.punct("(")
		t.expr(args[0], precCast)
		ts.words("as", "u64")
		ts.punct(")", ")")
	default:
		return false
	}
	return true
}

func (t *Transpiler) parseCall(arg *parse.Expr, target string) {
	ts := t.ts
	t.expr(arg, precPostfix)
	ts.punct(".")
	ts.word("trim")
	ts.punct("(", ")", ".")
	ts.word("parse")
	ts.punct("::")
	ts.push(GenericOpen, "<")
	ts.word(target)
	ts.push(GenericClose, ">")
	ts.punct("(", ")", ".")
	ts.word("unwrap")
	ts.punct("(", ")")
}

// asFloat lowers e as an f64 receiver.
func (t *Transpiler) asFloat(e *parse.Expr) {
	if t.isFloat(e) {
		t.powReceiver(e)
		return
	}
	t.ts.punct("(")
	t.expr(e, precCast)
	t.ts.words("as", "f64")
	t.ts.punct(")")
}

func (t *Transpiler) minMax(e *parse.Expr, name string, args []*parse.Expr) {
	ts := t.ts
	switch len(args) {
	case 1:
		t.expr(args[0], precPostfix)
		ts.punct(".")
		ts.word("iter")
		ts.punct("(", ")", ".")
		ts.word("copied")
		ts.punct("(", ")", ".")
		ts.word(name)
		ts.punct("(", ")", ".")
		ts.word("unwrap")
		ts.punct("(", ")")
	case 2:
		t.powReceiver(args[0])
		ts.punct(".")
		ts.word(name)
		ts.punct("(")
		t.expr(args[1], precLowest)
		ts.punct(")")
	default:
		t.fail(e, UnsupportedConstruct, "%s takes 1 or 2 arguments, got %d", name, len(args))
	}
}

var methodNames = map[string]string{
	"to_upper": "to_uppercase", "to_lower": "to_lowercase", "upper": "to_uppercase",
	"lower": "to_lowercase", "length": "len", "append": "push",
}

func (t *Transpiler) methodCall(n *parse.MethodCall, leading *parse.Expr) {
	ts := t.ts
	args := n.Args
	if leading != nil {
		args = append([]*parse.Expr{leading}, args...)
	}
	if target, ok := t.actorTarget(n.Receiver); ok && !t.implMethods[target][n.Method] && (n.Method == "send" || n.Method == "ask") {
		t.sendMessage(n.Receiver, target, args)
		return
	}
	name := n.Method
	if mapped, ok := methodNames[name]; ok {
		name = mapped
	}
	switch name {
	case "len":
		if len(args) == 0 {
			ts.punct("(")
			t.expr(n.Receiver, precPostfix)
			ts.punct(".")
			ts.word("len")
			ts.punct("(", ")")
			ts.words("as", "i64")
			ts.punct(")")
			return
		}
	case "trim":
		if len(args) == 0 && t.isString(n.Receiver) {
			t.expr(n.Receiver, precPostfix)
			ts.punct(".")
			ts.word("trim")
			ts.punct("(", ")", ".")
			ts.word("to_string")
			ts.punct("(", ")")
			return
		}
	case "split":
		if t.isString(n.Receiver) {
			t.expr(n.Receiver, precPostfix)
			ts.punct(".")
			ts.word("split")
			t.args(args)
			ts.punct(".")
			ts.word("map")
			ts.punct("(")
			ts.push(ClosureBar, "|")
			ts.word("s")
			ts.push(ClosureBar, "|")
			ts.word("s")
			ts.punct(".")
			ts.word("to_string")
			ts.punct("(", ")", ")", ".")
			ts.word("collect")
			ts.punct("::")
			ts.push(GenericOpen, "<")
			ts.word("Vec")
			ts.push(GenericOpen, "<")
			ts.word("String")
			ts.push(GenericClose, ">")
			ts.push(GenericClose, ">")
			ts.punct("(", ")")
			return
		}
	}
	t.expr(n.Receiver, precPostfix)
	ts.punct(".")
	ts.word(name)
	if len(n.TypeArgs) > 0 {
		ts.punct("::")
		ts.push(GenericOpen, "<")
		for i, ta := range n.TypeArgs {
			if i > 0 {
				ts.punct(",")
			}
			t.typeExpr(ta, false)
		}
		ts.push(GenericClose, ">")
	}
	t.args(args)
}
