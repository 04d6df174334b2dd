package eval

import (
	"fmt"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (fm *Frame) evalMacro(e *parse.Expr, n *parse.Macro) (any, error) {
	switch n.Name {
	case "stringify":
		parts := make([]string, len(n.Args))
		for i, arg := range n.Args {
			parts[i] = parse.Print(arg)
		}
		return strings.Join(parts, ", "), nil
	case "dbg":
		return fm.evalDbg(e, n.Args)
	}

	args, err := fm.evalExprs(n.Args)
	if err != nil {
		return nil, err
	}
	switch n.Name {
	case "println", "print", "eprintln", "eprint":
		s, err := fm.macroFormat(e, args)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(n.Name, "ln") {
			s += "\n"
		}
		w := fm.ip.opts.Stdout
		if strings.HasPrefix(n.Name, "e") {
			w = fm.ip.opts.Stderr
		}
		_, err = w.Write([]byte(s))
		return nil, fm.wrap(e, err)
	case "format":
		return fm.macroFormat(e, args)
	case "vec":
		if len(n.Args) == 1 {
			if _, ok := n.Args[0].Kind.(*parse.ArrayInit); ok {
				return args[0], nil
			}
		}
		return vals.MakeList(args...), nil
	case "assert":
		if len(args) == 0 {
			return nil, fm.errorf(e, TypeError, "assert! needs a condition")
		}
		if vals.Truthy(args[0]) {
			return nil, nil
		}
		msg := "assertion failed: " + parse.Print(n.Args[0])
		if len(args) > 1 {
			custom, err := fm.macroFormat(e, args[1:])
			if err != nil {
				return nil, err
			}
			msg = custom
		}
		return nil, fm.errorf(e, AssertionFailure, "%s", msg)
	case "assert_eq", "assert_ne":
		if len(args) < 2 {
			return nil, fm.errorf(e, TypeError, "%s! needs two values", n.Name)
		}
		want := n.Name == "assert_eq"
		if valuesEqual(args[0], args[1]) == want {
			return nil, nil
		}
		op := "=="
		if !want {
			op = "!="
		}
		msg := fmt.Sprintf("assertion failed: left %s right\n  left: %s\n right: %s",
			op, vals.ReprPlain(args[0]), vals.ReprPlain(args[1]))
		if len(args) > 2 {
			custom, err := fm.macroFormat(e, args[2:])
			if err != nil {
				return nil, err
			}
			msg += "\n" + custom
		}
		return nil, fm.errorf(e, AssertionFailure, "%s", msg)
	case "panic", "todo", "unimplemented", "unreachable":
		msg := map[string]string{
			"panic":         "explicit panic",
			"todo":          "not yet implemented",
			"unimplemented": "not implemented",
			"unreachable":   "internal error: entered unreachable code",
		}[n.Name]
		if len(args) > 0 {
			custom, err := fm.macroFormat(e, args)
			if err != nil {
				return nil, err
			}
			if n.Name == "panic" {
				msg = custom
			} else {
				msg += ": " + custom
			}
		}
		exc := fm.errorf(e, Thrown, "%s", msg)
		exc.Value = msg
		return nil, exc
	}
	return nil, fm.errorf(e, UndefinedVariable, "unknown macro %s!", n.Name)
}

// macroFormat expands the format string that is the first argument of a
// formatting macro. A non-string first argument is shown as is.
func (fm *Frame) macroFormat(e *parse.Expr, args []any) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	tmpl, ok := args[0].(string)
	if !ok {
		return printArgs(fm, args)
	}
	s, err := fm.formatString(tmpl, args[1:])
	if err != nil {
		return "", fm.errorf(e, TypeError, "%v", err)
	}
	return s, nil
}

// evalDbg writes each argument with its source to stderr and returns the
// value, or a tuple of the values when there are several.
func (fm *Frame) evalDbg(e *parse.Expr, argExprs []*parse.Expr) (any, error) {
	values, err := fm.evalExprs(argExprs)
	if err != nil {
		return nil, err
	}
	line := diag.PositionOf(fm.src.Code, e.From).Line
	for i, v := range values {
		fmt.Fprintf(fm.ip.opts.Stderr, "[%s:%d] %s = %s\n",
			fm.src.Name, line, parse.Print(argExprs[i]), vals.Repr(v, 0))
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	}
	return vals.Tuple(values), nil
}
