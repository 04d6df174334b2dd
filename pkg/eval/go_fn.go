package eval

import (
	"fmt"
	"reflect"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// goFn wraps a Go function into a builtin using reflection.
//
// Parameters are passed following these rules:
//
//  1. If the first parameter of the function has type *Frame, it gets the
//     frame of the caller.
//
//  2. Other parameters are converted with scanArg: parameters of type any
//     take values as is; int64, int, float64, string, bool and vals.List
//     parameters take values of the matching kind, with integers accepted for
//     floats; other parameter types take values assignable to them.
//
//  3. A variadic last parameter takes the remaining arguments.
//
// If the last return value has type error and is not nil, it is the error of
// the call. Other return values are converted with fromGo; a function with
// no other return value returns unit.
type goFn struct {
	name string
	impl reflect.Value

	frame       bool
	normalArgs  []reflect.Type
	variadicArg reflect.Type
	numOut      int
}

var (
	frameType = reflect.TypeOf((*Frame)(nil))
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	anyType   = reflect.TypeOf((*any)(nil)).Elem()
	listType  = reflect.TypeOf((*vals.List)(nil)).Elem()
)

func newGoFn(name string, impl any) *goFn {
	implType := reflect.TypeOf(impl)
	if implType.Kind() != reflect.Func {
		panic("newGoFn: " + name + " is not a function")
	}
	b := &goFn{name: name, impl: reflect.ValueOf(impl)}
	i := 0
	if i < implType.NumIn() && implType.In(i) == frameType {
		b.frame = true
		i++
	}
	for ; i < implType.NumIn(); i++ {
		paramType := implType.In(i)
		if i == implType.NumIn()-1 && implType.IsVariadic() {
			b.variadicArg = paramType.Elem()
			break
		}
		b.normalArgs = append(b.normalArgs, paramType)
	}
	b.numOut = implType.NumOut()
	if b.numOut > 0 && implType.Out(b.numOut-1) == errorType {
		b.numOut--
	}
	return b
}

// builtin returns a Builtin that calls the function with a single result.
func (b *goFn) builtin() *Builtin {
	return &Builtin{b.name, func(fm *Frame, args []any) (any, error) {
		outs, err := b.call(fm, args)
		if err != nil || len(outs) == 0 {
			return nil, err
		}
		return outs[0], nil
	}}
}

// call calls the function and returns its results other than the error.
func (b *goFn) call(fm *Frame, args []any) ([]any, error) {
	if b.variadicArg != nil {
		if len(args) < len(b.normalArgs) {
			return nil, errs.ArityMismatch{What: "arguments of " + b.name,
				ValidLow: len(b.normalArgs), ValidHigh: -1, Actual: len(args)}
		}
	} else if len(args) != len(b.normalArgs) {
		return nil, errs.ArityMismatch{What: "arguments of " + b.name,
			ValidLow: len(b.normalArgs), ValidHigh: len(b.normalArgs), Actual: len(args)}
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if b.frame {
		in = append(in, reflect.ValueOf(fm))
	}
	for i, arg := range args {
		typ := b.variadicArg
		if i < len(b.normalArgs) {
			typ = b.normalArgs[i]
		}
		v, err := scanArg(arg, typ)
		if err != nil {
			return nil, fmt.Errorf("wrong type of argument %d of %s: %w", i+1, b.name, err)
		}
		in = append(in, v)
	}

	outs := b.impl.Call(in)
	if len(outs) > b.numOut {
		if err := outs[len(outs)-1].Interface(); err != nil {
			return nil, err.(error)
		}
		outs = outs[:b.numOut]
	}
	results := make([]any, len(outs))
	for i, out := range outs {
		results[i] = fromGo(out.Interface())
	}
	return results, nil
}

// scanArg converts a value to the Go type of a parameter.
func scanArg(arg any, typ reflect.Type) (reflect.Value, error) {
	var v any
	var err error
	switch typ {
	case anyType:
		return reflect.ValueOf(&arg).Elem(), nil
	case reflect.TypeOf(int64(0)):
		v, err = vals.AsInt(arg)
	case reflect.TypeOf(0):
		var i int64
		i, err = vals.AsInt(arg)
		v = int(i)
	case reflect.TypeOf(0.0):
		v, err = vals.AsFloat(arg)
	case reflect.TypeOf(""):
		v, err = vals.AsString(arg)
	case reflect.TypeOf(false):
		v, err = vals.AsBool(arg)
	default:
		if arg == nil || !reflect.TypeOf(arg).AssignableTo(typ) {
			return reflect.Value{}, vals.WrongType(kindOfType(typ), arg)
		}
		v = arg
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(v), nil
}

// kindOfType names the kind of values of a Go type, for error messages.
func kindOfType(typ reflect.Type) string {
	switch {
	case typ == listType:
		return "array"
	case typ.Kind() == reflect.Interface:
		return "value"
	}
	return vals.Kind(reflect.Zero(typ).Interface())
}

// fromGo converts a result of a Go function to a value.
func fromGo(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case rune:
		return string(v)
	case []any:
		return vals.MakeList(v...)
	case []string:
		l := vals.EmptyList
		for _, s := range v {
			l = l.Cons(s)
		}
		return l
	}
	return v
}
