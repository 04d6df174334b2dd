package eval

import (
	"errors"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// Builtin methods are Go functions whose first parameter after the optional
// *Frame is the receiver. They are kept in one table indexed by the method
// kind of the receiver and the method name; inline caches store positions in
// the table.
//
// A mutator returns the updated receiver followed by the result of the call.
// The updated receiver is written back to the place the receiver was read
// from.
type method struct {
	name    string
	fn      *goFn
	mutates bool
}

var (
	methodTable []method
	methodIndex = map[string]map[string]int{}
)

// Methods of this kind apply to all values.
const anyKind = "any"

func addMethods(kinds string, fns map[string]any) { registerMethods(kinds, fns, false) }

func addMutators(kinds string, fns map[string]any) { registerMethods(kinds, fns, true) }

// registerMethods registers fns for each of the space-separated kinds.
func registerMethods(kinds string, fns map[string]any, mutates bool) {
	for _, kind := range strings.Fields(kinds) {
		idx := methodIndex[kind]
		if idx == nil {
			idx = make(map[string]int)
			methodIndex[kind] = idx
		}
		for name, impl := range fns {
			idx[name] = len(methodTable)
			methodTable = append(methodTable, method{name, newGoFn(kind+"."+name, impl), mutates})
		}
	}
}

// methodKind returns the kind builtin methods of v are registered under.
func methodKind(v any) string {
	switch v := v.(type) {
	case vals.EnumVariant:
		if v.Enum == "Option" {
			return "option"
		}
		return "enum"
	case vals.Object:
		if _, _, ok := vals.ResultOf(v); ok {
			return "result"
		}
	case *vals.Instance:
		return "class"
	}
	return vals.Kind(v)
}

func findMethod(kind, name string) (int, bool) {
	if i, ok := methodIndex[kind][name]; ok {
		return i, true
	}
	i, ok := methodIndex[anyKind][name]
	return i, ok
}

// lookupMethod finds a builtin method through the inline cache of the call
// site.
func (fm *Frame) lookupMethod(e *parse.Expr, kind, name string) (int, bool) {
	if !fm.ip.opts.InlineCache || e == nil {
		return findMethod(kind, name)
	}
	cache := fm.ip.caches.Site(fm.ip.siteOf(e))
	if slot, hit := cache.Lookup(kind, name); hit && slot < len(methodTable) && methodTable[slot].name == name {
		return slot, true
	}
	i, ok := findMethod(kind, name)
	if ok {
		cache.Insert(kind, name, i)
	}
	return i, ok
}

// callBuiltinMethod calls a builtin method on recv, which was evaluated from
// recvExpr.
func (fm *Frame) callBuiltinMethod(e *parse.Expr, recv any, name string, args []any, recvExpr *parse.Expr) (any, error) {
	i, ok := fm.lookupMethod(e, methodKind(recv), name)
	if !ok {
		return nil, fm.errorf(e, UnknownMethod, "%s has no method %s", vals.TypeName(recv), name)
	}
	m := methodTable[i]

	saved := fm.site
	fm.site = e
	defer func() { fm.site = saved }()

	outs, err := m.fn.call(fm, append([]any{recv}, args...))
	if err != nil {
		return nil, fm.wrap(e, withoutReceiver(err))
	}
	if m.mutates {
		if err := fm.writeBack(recvExpr, recv, outs[0]); err != nil {
			return nil, err
		}
		outs = outs[1:]
	}
	if len(outs) == 0 {
		return nil, nil
	}
	return outs[0], nil
}

// withoutReceiver adjusts arity errors to not count the receiver.
func withoutReceiver(err error) error {
	var arity errs.ArityMismatch
	if !errors.As(err, &arity) {
		return err
	}
	arity.ValidLow--
	if arity.ValidHigh > 0 {
		arity.ValidHigh--
	}
	arity.Actual--
	return arity
}

// callFn calls a function value passed to a builtin.
func (fm *Frame) callFn(f any, args ...any) (any, error) {
	return fm.callValue(f, args)
}

// predicate calls f and reports whether the result is truthy.
func (fm *Frame) predicate(f any, args ...any) (bool, error) {
	v, err := fm.callValue(f, args)
	if err != nil {
		return false, err
	}
	return vals.Truthy(v), nil
}

func init() {
	addMethods(anyKind, map[string]any{
		"to_string": func(v any) string { return vals.ToString(v) },
		"clone":     func(v any) any { return v },
		"type_of":   func(v any) string { return vals.TypeName(v) },
		"eq":        func(a, b any) bool { return valuesEqual(a, b) },
		"ne":        func(a, b any) bool { return !valuesEqual(a, b) },
		"cmp": func(a, b any) (int64, error) {
			switch vals.Cmp(a, b) {
			case vals.CmpLess:
				return -1, nil
			case vals.CmpEqual:
				return 0, nil
			case vals.CmpMore:
				return 1, nil
			}
			return 0, vals.WrongType(vals.Kind(a), b)
		},
		"len": length,
		"iter": func(v any) (any, error) {
			if !vals.CanIterate(v) {
				return nil, vals.WrongType("iterable", v)
			}
			return v, nil
		},
	})
}
