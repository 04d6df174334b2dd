package eval

import (
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (fm *Frame) evalCall(e *parse.Expr, n *parse.Call) (any, error) {
	f, err := fm.eval(n.Func)
	if err != nil {
		return nil, err
	}
	args, err := fm.evalExprs(n.Args)
	if err != nil {
		return nil, err
	}
	return fm.call(e, f, args)
}

// callValue calls f from inside a builtin, at the builtin's call site.
func (fm *Frame) callValue(f any, args []any) (any, error) {
	return fm.call(fm.site, f, args)
}

// call calls a callable value.
func (fm *Frame) call(e *parse.Expr, f any, args []any) (any, error) {
	var v any
	var err error
	switch f := f.(type) {
	case *Closure:
		v, _, err = fm.callClosure(e, f, nil, false, args)
	case BoundMethod:
		v, _, err = fm.callClosure(e, f.Method, f.Recv, true, args)
	case *Builtin:
		saved := fm.site
		fm.site = e
		v, err = f.Fn(fm, args)
		fm.site = saved
		err = fm.wrap(e, err)
	case VariantCtor:
		if len(args) != f.Arity {
			return nil, fm.errorf(e, TypeError, "%s::%s takes %d arguments, got %d", f.Enum, f.Variant, f.Arity, len(args))
		}
		return vals.EnumVariant{Enum: f.Enum, Variant: f.Variant, Data: args}, nil
	case vals.EnumVariant:
		if f.Data != nil {
			break
		}
		// Constructors of undeclared messages, like Increment(5).
		return vals.EnumVariant{Enum: f.Enum, Variant: f.Variant, Data: args}, nil
	case *StructDef:
		return fm.constructStruct(e, f, args)
	case *ClassDef:
		return fm.construct(e, f, "new", args)
	case *ActorDef:
		return fm.spawnActor(e, f, args)
	default:
		return nil, fm.errorf(e, TypeError, "%s is not callable", vals.TypeName(f))
	}
	if err == nil && fm.ip.opts.Feedback {
		fm.recordCall(e, f, args, v)
	}
	return v, err
}

func (fm *Frame) recordCall(e *parse.Expr, f any, args []any, ret any) {
	name := calleeName(f)
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = vals.TypeName(a)
	}
	fm.ip.recorder.RecordCall(fm.ip.siteOf(e), name, types, vals.TypeName(ret))
}

func calleeName(f any) string {
	switch f := f.(type) {
	case *Closure:
		if f.Name == "" {
			return "<closure>"
		}
		return f.Name
	case BoundMethod:
		return f.Method.Name
	case *Builtin:
		return f.Name
	}
	return vals.ReprPlain(f)
}

// callClosure calls a closure. When hasRecv is true, recv is bound to self;
// otherwise a method takes its receiver from the first argument. It returns
// the final value of self along with the result, so that methods taking
// &mut self can update value-typed receivers.
func (fm *Frame) callClosure(e *parse.Expr, c *Closure, recv any, hasRecv bool, args []any) (any, any, error) {
	if fm.depth >= fm.ip.opts.MaxCallDepth {
		return nil, nil, fm.errorf(e, StackOverflow, "maximum call depth %d exceeded", fm.ip.opts.MaxCallDepth)
	}
	if err := fm.checkInterrupt(e); err != nil {
		return nil, nil, err
	}
	isMethod := len(c.Params) > 0 && c.Params[0].Self != parse.NotSelf
	if isMethod && !hasRecv {
		if len(args) == 0 {
			return nil, nil, fm.errorf(e, TypeError, "method %s called without a receiver", c.Name)
		}
		recv, args = args[0], args[1:]
	}
	params := c.params()
	required, total := c.arity()
	if len(args) < required || len(args) > total {
		want := strconv.Itoa(required)
		if total != required {
			want += " to " + strconv.Itoa(total)
		}
		name := c.Name
		if name == "" {
			name = "closure"
		}
		return nil, nil, fm.errorf(e, TypeError, "%s takes %s arguments, got %d", name, want, len(args))
	}

	env := NewEnv(c.Env)
	callee := fm.fork(env, c.src, e)
	if isMethod {
		self := c.Params[0]
		_, isMut := self.Pattern.(*parse.MutPattern)
		env.Define("self", recv, self.Self == parse.SelfMutRef || isMut)
	}
	for i, p := range params {
		var arg any
		if i < len(args) {
			arg = args[i]
		} else {
			var err error
			arg, err = callee.eval(p.Default)
			if err != nil {
				return nil, nil, err
			}
		}
		arg = coerceAnnotated(p.Type, arg)
		bs, ok, err := callee.match(p.Pattern, arg)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fm.errorf(e, MatchFailure, "argument %d of %s does not match its pattern", i+1, calleeName(c))
		}
		callee.define(bs, false)
	}

	run := func() (any, error) {
		v, err := callee.eval(c.Body)
		if flow, ok := err.(*flowError); ok {
			if flow.flow == Return {
				return flow.value, nil
			}
			return nil, callee.errorf(flow.from, TypeError, "%s outside of a loop", flow.flow)
		}
		return v, err
	}
	if c.Async {
		return newFuture(run), recv, nil
	}
	v, err := run()
	if err != nil {
		return nil, nil, err
	}
	if isMethod {
		recv, _ = env.Get("self")
	}
	return v, recv, nil
}

func (fm *Frame) evalMethodCall(e *parse.Expr, n *parse.MethodCall) (any, error) {
	recv, err := fm.eval(n.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := fm.evalExprs(n.Args)
	if err != nil {
		return nil, err
	}
	return fm.callMethod(e, n.Receiver, recv, n.Method, args)
}

// callMethod calls recv.name(args...). User methods are tried first, then
// fields holding functions, then the builtin methods of the receiver's kind.
// recvExpr, when an assignable place, receives the updated receiver of
// mutating methods.
func (fm *Frame) callMethod(e, recvExpr *parse.Expr, recv any, name string, args []any) (any, error) {
	if m, ok := fm.userMethod(recv, name); ok {
		v, self, err := fm.callClosure(e, m, recv, true, args)
		if err != nil {
			return nil, err
		}
		if m.Self == parse.SelfMutRef || len(m.Params) > 0 && m.Params[0].Self == parse.SelfMutRef {
			if err := fm.writeBack(recvExpr, recv, self); err != nil {
				return nil, err
			}
		}
		if fm.ip.opts.Feedback {
			fm.recordCall(e, m, args, v)
		}
		return v, nil
	}
	if f, ok := callableField(recv, name); ok {
		return fm.call(e, f, args)
	}
	return fm.callBuiltinMethod(e, recv, name, args, recvExpr)
}

// userMethod looks up a method declared by the user for the type of recv.
func (fm *Frame) userMethod(recv any, name string) (*Closure, bool) {
	if inst, ok := recv.(*vals.Instance); ok {
		if def, ok := inst.Def.(*ClassDef); ok {
			for c := def; c != nil; c = c.Super {
				if m, ok := c.Methods[name]; ok {
					return m, true
				}
				if m, ok := fm.ip.methods[c.Name][name]; ok {
					return m, true
				}
			}
		}
	}
	m, ok := fm.ip.methods[vals.TypeName(recv)][name]
	return m, ok
}

func callableField(recv any, name string) (any, bool) {
	var v any
	var ok bool
	switch r := recv.(type) {
	case vals.Object:
		v, ok = r.Get(name)
	case *vals.ObjectMut:
		v, ok = r.Get(name)
	case vals.Struct:
		v, ok = r.Get(name)
	case *vals.Instance:
		v, ok = r.Get(name)
	}
	if !ok {
		return nil, false
	}
	switch v.(type) {
	case *Closure, *Builtin, BoundMethod:
		return v, true
	}
	return nil, false
}

// writeBack stores the updated value of a value-typed receiver into the place
// it was read from. Receivers with reference semantics are updated in place
// and need nothing; receivers that are not places are temporaries.
func (fm *Frame) writeBack(place *parse.Expr, old, updated any) error {
	switch old.(type) {
	case *vals.Instance, *vals.ObjectMut:
		return nil
	}
	if place == nil || !isPlace(place) {
		return nil
	}
	return fm.assignTo(place, updated)
}

// isPlace reports whether e can be assigned to.
func isPlace(e *parse.Expr) bool {
	switch n := e.Kind.(type) {
	case *parse.Ident:
		return true
	case *parse.FieldAccess:
		return isPlace(n.Object)
	case *parse.IndexAccess:
		return isPlace(n.Object)
	case *parse.Unary:
		return (n.Op == parse.OpDeref || n.Op == parse.OpRefMut) && isPlace(n.Operand)
	}
	return false
}
