package types

import (
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// methodCall is the input to a method signature: a method called on a
// receiver of a known constructor.
type methodCall struct {
	c    *Context
	at   *parse.Expr
	recv Type
	args []Type
}

type methodSig func(m *methodCall) Type

// arg returns the i-th argument type, or a fresh variable when the call has
// fewer arguments.
func (m *methodCall) arg(i int) Type {
	if i < len(m.args) {
		return m.args[i]
	}
	return m.c.fresh()
}

func (m *methodCall) unifyArg(i int, t Type) {
	if i < len(m.args) {
		m.c.unify(m.at, m.args[i], t)
	}
}

// elem returns the element type of a List, Set or Option receiver, or Char
// for strings.
func (m *methodCall) elem() Type {
	switch r := m.c.subst.Resolve(m.recv).(type) {
	case List:
		return r.Elem
	case Optional:
		return r.Elem
	case Named:
		if len(r.Args) > 0 {
			return r.Args[0]
		}
	case Prim:
		if r.Kind == StringKind {
			return Char
		}
	}
	return m.c.fresh()
}

// fn constrains the i-th argument to be a function of n parameters and
// returns fresh variables for its parameters and result.
func (m *methodCall) fn(i, n int) ([]Type, Type) {
	ps := make([]Type, n)
	for k := range ps {
		ps[k] = m.c.fresh()
	}
	ret := m.c.fresh()
	m.unifyArg(i, Function{ps, ret})
	return ps, ret
}

// mapper constrains the first argument to be a one-parameter function taking
// the element type and returns its result type.
func (m *methodCall) mapper() Type {
	ps, ret := m.fn(0, 1)
	m.c.unify(m.at, ps[0], m.elem())
	return ret
}

// predicate constrains the first argument to be a predicate on elements.
func (m *methodCall) predicate() {
	m.c.unify(m.at, m.mapper(), Bool)
}

func returns(t Type) methodSig { return func(*methodCall) Type { return t } }

func sameAsReceiver(m *methodCall) Type { return m.recv }

func elemType(m *methodCall) Type { return m.elem() }

func optionalElem(m *methodCall) Type { return Optional{m.elem()} }

func listOfElem(m *methodCall) Type { return List{m.elem()} }

// methodTable maps a constructor name and method name to a signature.
var methodTable = map[string]map[string]methodSig{}

func addMethodSigs(ctors []string, sigs map[string]methodSig) {
	for _, ctor := range ctors {
		if methodTable[ctor] == nil {
			methodTable[ctor] = map[string]methodSig{}
		}
		for name, sig := range sigs {
			methodTable[ctor][name] = sig
		}
	}
}

// Methods available on every value.
var anyMethods = map[string]methodSig{
	"to_string": returns(String),
	"clone":     sameAsReceiver,
	"type_of":   returns(String),
	"eq":        returns(Bool),
	"ne":        returns(Bool),
	"cmp":       returns(Int),
	"iter":      sameAsReceiver,
}

func init() {
	addMethodSigs([]string{"List", "Set"}, map[string]methodSig{
		"len":      returns(Int),
		"is_empty": returns(Bool),
		"contains": returns(Bool),
		"first":    optionalElem,
		"last":     optionalElem,
		"get":      optionalElem,
		"pop":      optionalElem,
		"min":      optionalElem,
		"max":      optionalElem,
		"index_of": returns(Optional{Int}),
		"position": func(m *methodCall) Type {
			m.predicate()
			return Optional{Int}
		},
		"map": func(m *methodCall) Type { return List{m.mapper()} },
		"filter": func(m *methodCall) Type {
			m.predicate()
			return List{m.elem()}
		},
		"filter_map": func(m *methodCall) Type {
			inner := m.c.fresh()
			m.c.unify(m.at, m.mapper(), Optional{inner})
			return List{inner}
		},
		"flat_map": func(m *methodCall) Type {
			inner := m.c.fresh()
			m.c.unify(m.at, m.mapper(), List{inner})
			return List{inner}
		},
		"for_each": func(m *methodCall) Type {
			m.mapper()
			return Unit
		},
		"fold": func(m *methodCall) Type {
			acc := m.arg(0)
			ps, ret := m.fn(1, 2)
			m.c.unify(m.at, ps[0], acc)
			m.c.unify(m.at, ps[1], m.elem())
			m.c.unify(m.at, ret, acc)
			return acc
		},
		"reduce": func(m *methodCall) Type {
			ps, ret := m.fn(0, 2)
			m.c.unify(m.at, ps[0], m.elem())
			m.c.unify(m.at, ps[1], m.elem())
			m.c.unify(m.at, ret, m.elem())
			return Optional{m.elem()}
		},
		"any": func(m *methodCall) Type {
			m.predicate()
			return Bool
		},
		"all": func(m *methodCall) Type {
			m.predicate()
			return Bool
		},
		"find": func(m *methodCall) Type {
			m.predicate()
			return Optional{m.elem()}
		},
		"count":   returns(Int),
		"sum":     elemType,
		"product": elemType,
		"take":    listOfElem,
		"skip":    listOfElem,
		"rev":     listOfElem,
		"sorted":  listOfElem,
		"unique":  listOfElem,
		"collect": sameAsReceiver,
		"to_vec":  listOfElem,
		"to_set":  func(m *methodCall) Type { return Named{"Set", []Type{m.elem()}} },
		"slice":   listOfElem,
		"enumerate": func(m *methodCall) Type {
			return List{Tuple{[]Type{Int, m.elem()}}}
		},
		"zip": func(m *methodCall) Type {
			other := m.c.fresh()
			m.unifyArg(0, List{other})
			return List{Tuple{[]Type{m.elem(), other}}}
		},
		"join": returns(String),
		"flatten": func(m *methodCall) Type {
			inner := m.c.fresh()
			m.c.unify(m.at, m.elem(), List{inner})
			return List{inner}
		},
		"chunks":  func(m *methodCall) Type { return List{List{m.elem()}} },
		"windows": func(m *methodCall) Type { return List{List{m.elem()}} },
		"push": func(m *methodCall) Type {
			m.unifyArg(0, m.elem())
			return Unit
		},
		"insert": func(m *methodCall) Type {
			if len(m.args) > 1 {
				m.unifyArg(1, m.elem())
			} else {
				m.unifyArg(0, m.elem())
			}
			return Unit
		},
		"remove":   elemType,
		"clear":    returns(Unit),
		"reverse":  returns(Unit),
		"sort":     returns(Unit),
		"sort_by":  returns(Unit),
		"extend":   returns(Unit),
		"truncate": returns(Unit),
		"retain": func(m *methodCall) Type {
			m.predicate()
			return Unit
		},
		"swap":         returns(Unit),
		"union":        sameAsReceiver,
		"intersection": sameAsReceiver,
		"difference":   sameAsReceiver,
		"is_subset":    returns(Bool),
	})

	addMethodSigs([]string{"String"}, map[string]methodSig{
		"len":              returns(Int),
		"is_empty":         returns(Bool),
		"to_upper":         returns(String),
		"to_uppercase":     returns(String),
		"to_lower":         returns(String),
		"to_lowercase":     returns(String),
		"trim":             returns(String),
		"trim_start":       returns(String),
		"trim_end":         returns(String),
		"contains":         returns(Bool),
		"starts_with":      returns(Bool),
		"ends_with":        returns(Bool),
		"replace":          returns(String),
		"repeat":           returns(String),
		"split":            returns(List{String}),
		"split_whitespace": returns(List{String}),
		"lines":            returns(List{String}),
		"chars":            returns(List{Char}),
		"bytes":            returns(List{Int}),
		"find":             returns(Optional{Int}),
		"char_at":          returns(Optional{Char}),
		"substring":        returns(String),
		"reverse":          returns(String),
		"capitalize":       returns(String),
		"is_numeric":       returns(Bool),
		"is_alphabetic":    returns(Bool),
		"is_digit":         returns(Bool),
		"is_whitespace":    returns(Bool),
		"parse":            func(m *methodCall) Type { return m.c.fresh() },
		"to_int":           returns(Int),
		"to_float":         returns(Float),
		"pad_start":        returns(String),
		"pad_end":          returns(String),
		"format":           returns(String),
		"push_str":         returns(Unit),
		"push":             returns(Unit),
		"clear":            returns(Unit),
	})

	addMethodSigs([]string{"Char"}, map[string]methodSig{
		"is_numeric":    returns(Bool),
		"is_alphabetic": returns(Bool),
		"is_digit":      returns(Bool),
		"is_whitespace": returns(Bool),
		"to_upper":      returns(Char),
		"to_lower":      returns(Char),
		"to_uppercase":  returns(Char),
		"to_lowercase":  returns(Char),
	})

	numeric := map[string]methodSig{
		"abs":         sameAsReceiver,
		"pow":         sameAsReceiver,
		"min":         sameAsReceiver,
		"max":         sameAsReceiver,
		"clamp":       sameAsReceiver,
		"sqrt":        returns(Float),
		"to_float":    returns(Float),
		"to_int":      returns(Int),
		"is_positive": returns(Bool),
		"is_negative": returns(Bool),
	}
	addMethodSigs([]string{"Int", "Float"}, numeric)
	addMethodSigs([]string{"Int"}, map[string]methodSig{
		"signum":       returns(Int),
		"is_even":      returns(Bool),
		"is_odd":       returns(Bool),
		"checked_add":  returns(Optional{Int}),
		"checked_sub":  returns(Optional{Int}),
		"checked_mul":  returns(Optional{Int}),
		"checked_div":  returns(Optional{Int}),
		"wrapping_add": returns(Int),
		"wrapping_sub": returns(Int),
		"wrapping_mul": returns(Int),
	})
	float := map[string]methodSig{"is_nan": returns(Bool), "is_finite": returns(Bool)}
	for _, name := range []string{"floor", "ceil", "round", "trunc", "fract", "sin", "cos", "tan",
		"ln", "log10", "log2", "exp", "powf", "powi", "signum"} {
		float[name] = returns(Float)
	}
	addMethodSigs([]string{"Float"}, float)

	addMethodSigs([]string{"Option"}, map[string]methodSig{
		"is_some":           returns(Bool),
		"is_none":           returns(Bool),
		"unwrap":            elemType,
		"expect":            elemType,
		"unwrap_or_default": elemType,
		"unwrap_or": func(m *methodCall) Type {
			m.unifyArg(0, m.elem())
			return m.elem()
		},
		"unwrap_or_else": func(m *methodCall) Type {
			_, ret := m.fn(0, 0)
			m.c.unify(m.at, ret, m.elem())
			return m.elem()
		},
		"map": func(m *methodCall) Type { return Optional{m.mapper()} },
		"and_then": func(m *methodCall) Type {
			inner := m.c.fresh()
			m.c.unify(m.at, m.mapper(), Optional{inner})
			return Optional{inner}
		},
		"filter": func(m *methodCall) Type {
			m.predicate()
			return m.recv
		},
		"or":    sameAsReceiver,
		"ok_or": func(m *methodCall) Type { return Result{m.elem(), m.arg(0)} },
	})

	okErr := func(m *methodCall) (Type, Type) {
		if r, ok := m.c.subst.Resolve(m.recv).(Result); ok {
			return r.Ok, r.Err
		}
		return m.c.fresh(), m.c.fresh()
	}
	addMethodSigs([]string{"Result"}, map[string]methodSig{
		"is_ok":  returns(Bool),
		"is_err": returns(Bool),
		"unwrap": func(m *methodCall) Type { ok, _ := okErr(m); return ok },
		"expect": func(m *methodCall) Type { ok, _ := okErr(m); return ok },
		"unwrap_err": func(m *methodCall) Type {
			_, err := okErr(m)
			return err
		},
		"unwrap_or": func(m *methodCall) Type {
			ok, _ := okErr(m)
			m.unifyArg(0, ok)
			return ok
		},
		"unwrap_or_else": func(m *methodCall) Type {
			ok, err := okErr(m)
			ps, ret := m.fn(0, 1)
			m.c.unify(m.at, ps[0], err)
			m.c.unify(m.at, ret, ok)
			return ok
		},
		"map": func(m *methodCall) Type {
			ok, err := okErr(m)
			ps, ret := m.fn(0, 1)
			m.c.unify(m.at, ps[0], ok)
			return Result{ret, err}
		},
		"map_err": func(m *methodCall) Type {
			ok, err := okErr(m)
			ps, ret := m.fn(0, 1)
			m.c.unify(m.at, ps[0], err)
			return Result{ok, ret}
		},
		"and_then": func(m *methodCall) Type {
			ok, err := okErr(m)
			ps, ret := m.fn(0, 1)
			m.c.unify(m.at, ps[0], ok)
			inner := m.c.fresh()
			m.c.unify(m.at, ret, Result{inner, err})
			return Result{inner, err}
		},
		"ok":  func(m *methodCall) Type { ok, _ := okErr(m); return Optional{ok} },
		"err": func(m *methodCall) Type { _, err := okErr(m); return Optional{err} },
	})

	addMethodSigs([]string{"Object"}, map[string]methodSig{
		"len":          returns(Int),
		"is_empty":     returns(Bool),
		"get":          func(m *methodCall) Type { return Optional{m.c.fresh()} },
		"get_or":       func(m *methodCall) Type { return m.arg(1) },
		"contains_key": returns(Bool),
		"keys":         returns(List{String}),
		"values":       func(m *methodCall) Type { return List{m.c.fresh()} },
		"items":        func(m *methodCall) Type { return List{Tuple{[]Type{String, m.c.fresh()}}} },
		"entries":      func(m *methodCall) Type { return List{Tuple{[]Type{String, m.c.fresh()}}} },
		"map":          sameAsReceiver,
		"filter":       sameAsReceiver,
		"for_each":     returns(Unit),
		"insert":       returns(Unit),
		"remove":       func(m *methodCall) Type { return Optional{m.c.fresh()} },
		"clear":        returns(Unit),
	})

	addMethodSigs([]string{"Tuple"}, map[string]methodSig{
		"len": returns(Int),
	})

	frame := Named{Name: "DataFrame"}
	addMethodSigs([]string{"DataFrame"}, map[string]methodSig{
		"columns":     returns(List{String}),
		"rows":        returns(Int),
		"height":      returns(Int),
		"width":       returns(Int),
		"column":      func(m *methodCall) Type { return List{m.c.fresh()} },
		"row":         returns(Named{Name: "Object"}),
		"select":      returns(frame),
		"drop":        returns(frame),
		"rename":      returns(frame),
		"filter":      returns(frame),
		"head":        returns(frame),
		"limit":       returns(frame),
		"tail":        returns(frame),
		"slice":       returns(frame),
		"with_column": returns(frame),
		"sort_by":     returns(frame),
		"group_by":    returns(Named{Name: "Object"}),
		"groupby":     returns(Named{Name: "Object"}),
		"agg":         func(m *methodCall) Type { return m.c.fresh() },
		"sum":         func(m *methodCall) Type { return m.c.fresh() },
		"mean":        returns(Float),
		"join":        returns(frame),
	})

	addMethodSigs([]string{"ActorHandle"}, map[string]methodSig{
		"id":       returns(Int),
		"send":     returns(Unit),
		"ask":      func(m *methodCall) Type { return m.c.fresh() },
		"call":     func(m *methodCall) Type { return m.c.fresh() },
		"is_alive": returns(Bool),
		"pending":  returns(Int),
		"restarts": returns(Int),
		"stop":     returns(Unit),
	})

	addMethodSigs([]string{"Supervisor"}, map[string]methodSig{
		"name":       returns(String),
		"child":      returns(Optional{Named{Name: "ActorHandle"}}),
		"children":   returns(List{String}),
		"restarts":   returns(Int),
		"is_stopped": returns(Bool),
		"stop":       returns(Unit),
	})

	addMethodSigs([]string{"Future"}, map[string]methodSig{
		"await": elemType,
	})
}

// methodType resolves a method call on a receiver whose constructor is
// known: user-defined methods first, then the builtin table, then the
// methods common to all values. Unknown methods give a warning and a fresh
// variable.
func (c *Context) methodType(at *parse.Expr, recv Type, name string, args []Type) Type {
	recv = c.subst.Resolve(recv)
	if r, ok := recv.(Reference); ok {
		recv = c.subst.Resolve(r.Elem)
	}
	ctor := Constructor(recv)
	if sc, ok := c.types.method(ctor, name); ok {
		return c.callUserMethod(at, recv, ctor, name, sc, args)
	}
	m := &methodCall{c, at, recv, args}
	if sig, ok := methodTable[ctor][name]; ok {
		return sig(m)
	}
	if sig, ok := anyMethods[name]; ok {
		return sig(m)
	}
	c.warnf(at, UnknownMethod, "no method %s on %s", name, c.subst.Apply(recv))
	return c.fresh()
}

// callUserMethod applies a method from an impl block or class. Instance
// methods take the receiver as their first parameter.
func (c *Context) callUserMethod(at *parse.Expr, recv Type, ctor, name string, sc *Scheme, args []Type) Type {
	ft, ok := c.subst.Resolve(c.instantiate(sc)).(Function)
	if !ok {
		return c.fresh()
	}
	params := ft.Params
	if !c.types.defs[ctor].isStatic(name) && len(params) > 0 {
		c.unify(at, params[0], recv)
		params = params[1:]
	}
	c.unifyArgs(at, name, params, args)
	return ft.Ret
}

func (d *typeDef) isStatic(name string) bool {
	return d != nil && d.static[name]
}

// unifyArgs unifies the arguments of a call with the parameters, reporting
// an ArityMismatch when the counts differ.
func (c *Context) unifyArgs(at *parse.Expr, what string, params, args []Type) {
	if len(params) != len(args) {
		c.errorf(at, ArityMismatch, "%s takes %d arguments, got %d", what, len(params), len(args))
	}
	for i := 0; i < len(params) && i < len(args); i++ {
		c.unify(at, args[i], params[i])
	}
}
