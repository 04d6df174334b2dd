package eval

import (
	"fmt"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// panicf raises a Thrown exception carrying the message, like a failed
// unwrap.
func (fm *Frame) panicf(format string, args ...any) *Exception {
	msg := fmt.Sprintf(format, args...)
	exc := fm.errorf(nil, Thrown, "%s", msg)
	exc.Value = msg
	return exc
}

func init() {
	addMethods("option", map[string]any{
		"is_some": func(o vals.EnumVariant) bool { return o.Variant == "Some" },
		"is_none": func(o vals.EnumVariant) bool { return o.Variant == "None" },
		"unwrap": func(fm *Frame, o vals.EnumVariant) (any, error) {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return v, nil
			}
			return nil, fm.panicf("called unwrap on a None value")
		},
		"expect": func(fm *Frame, o vals.EnumVariant, msg string) (any, error) {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return v, nil
			}
			return nil, fm.panicf("%s", msg)
		},
		"unwrap_or": func(o vals.EnumVariant, def any) any {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return v
			}
			return def
		},
		"unwrap_or_else": func(fm *Frame, o vals.EnumVariant, f any) (any, error) {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return v, nil
			}
			return fm.callFn(f)
		},
		"unwrap_or_default": func(o vals.EnumVariant) any {
			isSome, v, _ := vals.OptionOf(o)
			if isSome {
				return v
			}
			return nil
		},
		"map": func(fm *Frame, o vals.EnumVariant, f any) (any, error) {
			isSome, v, _ := vals.OptionOf(o)
			if !isSome {
				return o, nil
			}
			w, err := fm.callFn(f, v)
			if err != nil {
				return nil, err
			}
			return vals.MakeSome(w), nil
		},
		"and_then": func(fm *Frame, o vals.EnumVariant, f any) (any, error) {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return fm.callFn(f, v)
			}
			return o, nil
		},
		"filter": func(fm *Frame, o vals.EnumVariant, f any) (any, error) {
			isSome, v, _ := vals.OptionOf(o)
			if !isSome {
				return o, nil
			}
			keep, err := fm.predicate(f, v)
			if err != nil || !keep {
				return vals.None, err
			}
			return o, nil
		},
		"or": func(o vals.EnumVariant, other any) any {
			if o.Variant == "Some" {
				return o
			}
			return other
		},
		"ok_or": func(o vals.EnumVariant, e any) any {
			if isSome, v, _ := vals.OptionOf(o); isSome {
				return vals.MakeOk(v)
			}
			return vals.MakeErr(e)
		},
	})

	addMethods("result", map[string]any{
		"is_ok": func(r vals.Object) bool {
			isOk, _, _ := vals.ResultOf(r)
			return isOk
		},
		"is_err": func(r vals.Object) bool {
			isOk, _, _ := vals.ResultOf(r)
			return !isOk
		},
		"unwrap": func(fm *Frame, r vals.Object) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if isOk {
				return v, nil
			}
			return nil, fm.panicf("called unwrap on an Err value: %s", vals.ReprPlain(v))
		},
		"expect": func(fm *Frame, r vals.Object, msg string) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if isOk {
				return v, nil
			}
			return nil, fm.panicf("%s: %s", msg, vals.ReprPlain(v))
		},
		"unwrap_err": func(fm *Frame, r vals.Object) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if !isOk {
				return v, nil
			}
			return nil, fm.panicf("called unwrap_err on an Ok value: %s", vals.ReprPlain(v))
		},
		"unwrap_or": func(r vals.Object, def any) any {
			if isOk, v, _ := vals.ResultOf(r); isOk {
				return v
			}
			return def
		},
		"unwrap_or_else": func(fm *Frame, r vals.Object, f any) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if isOk {
				return v, nil
			}
			return fm.callFn(f, v)
		},
		"map": func(fm *Frame, r vals.Object, f any) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if !isOk {
				return r, nil
			}
			w, err := fm.callFn(f, v)
			if err != nil {
				return nil, err
			}
			return vals.MakeOk(w), nil
		},
		"map_err": func(fm *Frame, r vals.Object, f any) (any, error) {
			isOk, v, _ := vals.ResultOf(r)
			if isOk {
				return r, nil
			}
			w, err := fm.callFn(f, v)
			if err != nil {
				return nil, err
			}
			return vals.MakeErr(w), nil
		},
		"and_then": func(fm *Frame, r vals.Object, f any) (any, error) {
			if isOk, v, _ := vals.ResultOf(r); isOk {
				return fm.callFn(f, v)
			}
			return r, nil
		},
		"ok": func(r vals.Object) any {
			if isOk, v, _ := vals.ResultOf(r); isOk {
				return vals.MakeSome(v)
			}
			return vals.None
		},
		"err": func(r vals.Object) any {
			if isOk, v, _ := vals.ResultOf(r); !isOk {
				return vals.MakeSome(v)
			}
			return vals.None
		},
	})
}
