package eval

import (
	"strconv"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (fm *Frame) evalAssign(e *parse.Expr, n *parse.Assign) (any, error) {
	v, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	return nil, fm.assignTo(n.Target, v)
}

func (fm *Frame) evalCompoundAssign(e *parse.Expr, n *parse.CompoundAssign) (any, error) {
	cur, err := fm.eval(n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	v, err := fm.binaryOp(e, n.Op, cur, rhs)
	if err != nil {
		return nil, err
	}
	if fm.ip.opts.Feedback {
		fm.ip.recorder.RecordBinaryOp(fm.ip.siteOf(e), n.Op.String(), vals.TypeName(cur), vals.TypeName(rhs), vals.TypeName(v))
	}
	return nil, fm.assignTo(n.Target, v)
}

func (fm *Frame) evalIncDec(e *parse.Expr, n *parse.IncDec) (any, error) {
	cur, err := fm.eval(n.Target)
	if err != nil {
		return nil, err
	}
	delta := int64(1)
	if n.Decrement {
		delta = -1
	}
	var v any
	switch cur := cur.(type) {
	case int64:
		v, err = fm.intOp(e, parse.OpAdd, cur, delta)
		if err != nil {
			return nil, err
		}
	case float64:
		v = cur + float64(delta)
	default:
		return nil, fm.errorf(e, TypeError, "cannot increment or decrement %s", vals.TypeName(cur))
	}
	if err := fm.assignTo(n.Target, v); err != nil {
		return nil, err
	}
	if n.Postfix {
		return cur, nil
	}
	return v, nil
}

// assignTo stores v into the place denoted by target. Updates of value-typed
// containers are copied back up to the variable at the root of the place,
// which must be mutable; instances and mutable objects are updated in place.
func (fm *Frame) assignTo(target *parse.Expr, v any) error {
	switch n := target.Kind.(type) {
	case *parse.Ident:
		return fm.setVar(target, n.Name, v)
	case *parse.FieldAccess:
		obj, err := fm.eval(n.Object)
		if err != nil {
			return err
		}
		updated, inPlace, err := fm.setField(target, obj, n.Field, v)
		if err != nil || inPlace {
			return err
		}
		return fm.assignTo(n.Object, updated)
	case *parse.IndexAccess:
		obj, err := fm.eval(n.Object)
		if err != nil {
			return err
		}
		idx, err := fm.eval(n.Index)
		if err != nil {
			return err
		}
		switch o := obj.(type) {
		case *vals.ObjectMut:
			o.Set(vals.ToString(idx), v)
			return nil
		case *vals.Instance:
			o.Set(vals.ToString(idx), v)
			return nil
		case vals.Object:
			return fm.assignTo(n.Object, o.Set(vals.ToString(idx), v))
		}
		updated, err := vals.Assoc(obj, idx, v)
		if err != nil {
			return fm.wrap(target, err)
		}
		return fm.assignTo(n.Object, updated)
	case *parse.Tuple:
		t, ok := v.(vals.Tuple)
		if !ok || len(t) != len(n.Elems) {
			return fm.errorf(target, PatternBindArityMismatch, "cannot assign %s to a tuple of %d elements", vals.ReprPlain(v), len(n.Elems))
		}
		for i, elem := range n.Elems {
			if err := fm.assignTo(elem, t[i]); err != nil {
				return err
			}
		}
		return nil
	case *parse.Unary:
		if n.Op == parse.OpDeref || n.Op == parse.OpRefMut {
			return fm.assignTo(n.Operand, v)
		}
	}
	return fm.errorf(target, TypeError, "invalid assignment target")
}

func (fm *Frame) setVar(r *parse.Expr, name string, v any) error {
	b := fm.env.lookup(name)
	if b == nil {
		b = fm.ip.top.lookup(name)
	}
	if b == nil {
		return fm.errorf(r, UndefinedVariable, "undefined variable: %s", name)
	}
	if !b.mutable {
		return fm.errorf(r, MutabilityViolation, "cannot assign twice to immutable variable %s", name)
	}
	b.value = v
	if fm.ip.opts.Feedback {
		fm.ip.recorder.RecordVariable(name, vals.TypeName(v))
	}
	return nil
}

// setField sets a field of obj. It returns the updated container and whether
// the update happened in place.
func (fm *Frame) setField(r *parse.Expr, obj any, field string, v any) (any, bool, error) {
	switch o := obj.(type) {
	case *vals.Instance:
		if _, ok := o.Get(field); !ok {
			return nil, false, fm.errorf(r, UnknownField, "class %s has no field %s", o.Class, field)
		}
		o.Set(field, v)
		return o, true, nil
	case *vals.ObjectMut:
		o.Set(field, v)
		return o, true, nil
	case vals.Object:
		return o.Set(field, v), false, nil
	case vals.Struct:
		if _, ok := o.Get(field); !ok {
			return nil, false, fm.errorf(r, UnknownField, "struct %s has no field %s", o.Name, field)
		}
		return o.With(field, v), false, nil
	case vals.Tuple:
		i, err := strconv.Atoi(field)
		if err != nil || i < 0 || i >= len(o) {
			return nil, false, fm.errorf(r, IndexOutOfRange, "tuple has no element %s", field)
		}
		return o.With(i, v), false, nil
	case vals.EnumVariant:
		for i, name := range o.FieldNames {
			if name == field {
				data := append([]any(nil), o.Data...)
				data[i] = v
				o.Data = data
				return o, false, nil
			}
		}
	}
	return nil, false, fm.errorf(r, UnknownField, "%s has no field %s", vals.TypeName(obj), field)
}
