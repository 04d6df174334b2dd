package types

import (
	"sort"

	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// builtinSig types a call of a builtin function. The builtins are not in
// scope as ordinary bindings because several of them are variadic or
// overloaded.
type builtinSig func(c *Context, at *parse.Expr, args []Type) Type

func fixed(ret Type, params ...Type) builtinSig {
	return func(c *Context, at *parse.Expr, args []Type) Type {
		c.unifyArgs(at, "builtin", params, args)
		return ret
	}
}

func variadic(ret Type) builtinSig {
	return func(*Context, *parse.Expr, []Type) Type { return ret }
}

// numericUnary takes one number and returns a number of the same type.
func numericUnary(c *Context, at *parse.Expr, args []Type) Type {
	if len(args) != 1 {
		c.errorf(at, ArityMismatch, "expected 1 argument, got %d", len(args))
		return c.fresh()
	}
	c.subst.MarkNumeric(args[0])
	return args[0]
}

// extremumOf types min and max: either several numbers or one list.
func extremumOf(c *Context, at *parse.Expr, args []Type) Type {
	if len(args) == 1 {
		elem := c.fresh()
		c.unify(at, args[0], List{elem})
		return elem
	}
	t := c.subst.FreshNumeric()
	for _, a := range args {
		c.unify(at, a, t)
	}
	return t
}

var builtins map[string]builtinSig

// Builtins returns the names of the builtin functions in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	builtins = map[string]builtinSig{
		"print":       variadic(Unit),
		"println":     variadic(Unit),
		"eprint":      variadic(Unit),
		"eprintln":    variadic(Unit),
		"format":      variadic(String),
		"len":         func(c *Context, at *parse.Expr, args []Type) Type { return Int },
		"type_of":     variadic(String),
		"str":         variadic(String),
		"int":         variadic(Int),
		"float":       variadic(Float),
		"parse_int":   fixed(Int, String),
		"parse_float": fixed(Float, String),
		"abs":         numericUnary,
		"sqrt":        fixed(Float, Float),
		"pow": func(c *Context, at *parse.Expr, args []Type) Type {
			if len(args) != 2 {
				c.errorf(at, ArityMismatch, "pow takes 2 arguments, got %d", len(args))
				return c.fresh()
			}
			c.subst.MarkNumeric(args[1])
			return numericUnary(c, at, args[:1])
		},
		"floor": fixed(Float, Float),
		"ceil":  fixed(Float, Float),
		"round": fixed(Float, Float),
		"min":   extremumOf,
		"max":   extremumOf,
		"sum": func(c *Context, at *parse.Expr, args []Type) Type {
			if len(args) == 1 {
				elem := c.subst.FreshNumeric()
				c.unify(at, args[0], List{elem})
				return elem
			}
			return extremumOf(c, at, args)
		},
		"range": func(c *Context, at *parse.Expr, args []Type) Type {
			for _, a := range args {
				c.unify(at, a, Int)
			}
			return List{Int}
		},
		"assert":    variadic(Unit),
		"assert_eq": variadic(Unit),
		"sleep":     fixed(Unit, Int),

		"HashMap::new":  fixed(Named{Name: "Object"}),
		"Object::new":   fixed(Named{Name: "Object"}),
		"BTreeMap::new": fixed(Named{Name: "Object"}),
		"HashSet::new": func(c *Context, at *parse.Expr, args []Type) Type {
			return Named{"Set", []Type{c.fresh()}}
		},
		"Vec::new": func(c *Context, at *parse.Expr, args []Type) Type {
			return List{c.fresh()}
		},
		"String::new":  fixed(String),
		"String::from": variadic(String),
	}
}
