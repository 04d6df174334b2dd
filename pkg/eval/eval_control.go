package eval

import (
	"errors"

	"github.com/paiml/ruchy-sub012/pkg/eval/pattern"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

// match matches p against v, evaluating field defaults in the current scope.
func (fm *Frame) match(p parse.Pattern, v any) (pattern.Bindings, bool, error) {
	return pattern.Matcher{Default: fm.eval}.Match(p, v)
}

func (fm *Frame) evalIf(n *parse.If) (any, error) {
	cond, err := fm.eval(n.Cond)
	if err != nil {
		return nil, err
	}
	if vals.Truthy(cond) {
		return fm.eval(n.Then)
	}
	return fm.evalOptional(n.Else)
}

func (fm *Frame) evalIfLet(n *parse.IfLet) (any, error) {
	v, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	bs, ok, err := fm.match(n.Pattern, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return fm.evalOptional(n.Else)
	}
	defer fm.enter()()
	fm.define(bs, false)
	return fm.eval(n.Then)
}

func (fm *Frame) evalMatch(e *parse.Expr, n *parse.Match) (any, error) {
	v, err := fm.eval(n.Scrutinee)
	if err != nil {
		return nil, err
	}
	body, ok, err := fm.matchArms(n.Arms, v)
	if err != nil || !ok {
		if err == nil {
			err = fm.errorf(e, MatchFailure, "no match arm matched %s value %s", vals.TypeName(v), vals.ReprPlain(v))
		}
		return nil, err
	}
	return body()
}

// matchArms finds the first arm whose pattern matches v and whose guard
// holds. It returns a function that evaluates the arm's body with the arm's
// bindings in scope.
func (fm *Frame) matchArms(arms []parse.MatchArm, v any) (func() (any, error), bool, error) {
	for i := range arms {
		arm := &arms[i]
		bs, ok, err := fm.match(arm.Pattern, v)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		restore := fm.enter()
		fm.define(bs, false)
		if arm.Guard != nil {
			g, err := fm.eval(arm.Guard)
			if err != nil {
				restore()
				return nil, false, err
			}
			if !vals.Truthy(g) {
				restore()
				continue
			}
		}
		return func() (any, error) {
			defer restore()
			return fm.eval(arm.Body)
		}, true, nil
	}
	return nil, false, nil
}

// loopControl interprets an error from a loop body. It reports stop when a
// break targets this loop, with the value of the break; a continue targeting
// this loop yields a nil error. Other errors are returned.
func loopControl(err error, label string) (stop bool, v any, rerr error) {
	f, ok := err.(*flowError)
	if !ok || f.flow == Return || f.label != "" && f.label != label {
		return false, nil, err
	}
	if f.flow == Break {
		return true, f.value, nil
	}
	return false, nil, nil
}

func (fm *Frame) evalWhile(n *parse.While) (any, error) {
	for {
		if err := fm.checkInterrupt(n.Body); err != nil {
			return nil, err
		}
		cond, err := fm.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if !vals.Truthy(cond) {
			return nil, nil
		}
		if _, err := fm.eval(n.Body); err != nil {
			stop, v, err := loopControl(err, n.Label)
			if err != nil || stop {
				return v, err
			}
		}
	}
}

func (fm *Frame) evalWhileLet(n *parse.WhileLet) (any, error) {
	for {
		if err := fm.checkInterrupt(n.Body); err != nil {
			return nil, err
		}
		v, err := fm.eval(n.Value)
		if err != nil {
			return nil, err
		}
		bs, ok, err := fm.match(n.Pattern, v)
		if err != nil || !ok {
			return nil, err
		}
		restore := fm.enter()
		fm.define(bs, false)
		_, err = fm.eval(n.Body)
		restore()
		if err != nil {
			stop, v, err := loopControl(err, n.Label)
			if err != nil || stop {
				return v, err
			}
		}
	}
}

func (fm *Frame) evalLoop(n *parse.Loop) (any, error) {
	for {
		if err := fm.checkInterrupt(n.Body); err != nil {
			return nil, err
		}
		if _, err := fm.eval(n.Body); err != nil {
			stop, v, err := loopControl(err, n.Label)
			if err != nil || stop {
				return v, err
			}
		}
	}
}

var errStopIteration = errors.New("stop iteration")

func (fm *Frame) evalFor(e *parse.Expr, n *parse.For) (any, error) {
	it, err := fm.eval(n.Iter)
	if err != nil {
		return nil, err
	}
	var result any
	err = fm.iterate(n.Iter, it, func(elem any) error {
		if err := fm.checkInterrupt(n.Body); err != nil {
			return err
		}
		bs, ok, err := fm.match(n.Pattern, elem)
		if err != nil {
			return err
		}
		if !ok {
			return fm.errorf(e, MatchFailure, "for loop pattern does not match %s value %s", vals.TypeName(elem), vals.ReprPlain(elem))
		}
		defer fm.enter()()
		fm.define(bs, false)
		if _, err := fm.eval(n.Body); err != nil {
			stop, v, err := loopControl(err, n.Label)
			if err != nil {
				return err
			}
			if stop {
				result = v
				return errStopIteration
			}
		}
		return nil
	})
	if err == errStopIteration {
		err = nil
	}
	return result, err
}

// coerceAnnotated converts an integer bound with a float annotation to a
// float, as in let x: f64 = 1.
func coerceAnnotated(t *parse.TypeExpr, v any) any {
	if t == nil || t.Kind != parse.NamedType {
		return v
	}
	if i, ok := v.(int64); ok && (t.Name == "f64" || t.Name == "f32") {
		return float64(i)
	}
	return v
}

// letElse unwraps the value of a let-else: Some and Ok payloads are bound,
// None and Err run the else block, which must not complete normally.
func (fm *Frame) letElse(e, elseBlock *parse.Expr, v any) (any, error) {
	if isSome, payload, ok := vals.OptionOf(v); ok {
		if isSome {
			return payload, nil
		}
	} else if isOk, payload, ok := vals.ResultOf(v); ok {
		if isOk {
			return payload, nil
		}
	} else {
		return v, nil
	}
	return nil, fm.diverge(e, elseBlock)
}

func (fm *Frame) diverge(e, elseBlock *parse.Expr) error {
	if _, err := fm.eval(elseBlock); err != nil {
		return err
	}
	return fm.errorf(e, TypeError, "else block of let must diverge")
}

// bindLet installs bindings for a let. When the let has a body, the bindings
// go into a new scope that is current while the body runs; at the top level
// that scope becomes the new top-level scope.
func (fm *Frame) bindLet(bs pattern.Bindings, mutable bool, body *parse.Expr, v any) (any, error) {
	if body == nil {
		fm.define(bs, mutable)
		return v, nil
	}
	saved := fm.env
	fm.env = NewEnv(saved)
	if saved == fm.ip.top {
		fm.ip.top = fm.env
	}
	defer func() { fm.env = saved }()
	fm.define(bs, mutable)
	return fm.evalBody(body)
}

func (fm *Frame) evalLet(e *parse.Expr, n *parse.Let) (any, error) {
	v, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	if n.Else != nil {
		v, err = fm.letElse(e, n.Else, v)
		if err != nil {
			return nil, err
		}
	}
	v = coerceAnnotated(n.Type, v)
	if c, ok := v.(*Closure); ok && c.Name == "" {
		c.Name = n.Name
	}
	return fm.bindLet(pattern.Bindings{{Name: n.Name, Value: v}}, n.Mutable, n.Body, v)
}

func (fm *Frame) evalLetPattern(e *parse.Expr, n *parse.LetPattern) (any, error) {
	v, err := fm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	bs, ok, err := fm.match(n.Pattern, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		if n.Else != nil {
			return nil, fm.diverge(e, n.Else)
		}
		if arityMismatch(n.Pattern, v) {
			return nil, fm.errorf(e, PatternBindArityMismatch, "pattern expects %s elements, value has %d", patternArity(n.Pattern), vals.Len(v))
		}
		return nil, fm.errorf(e, MatchFailure, "pattern does not match %s value %s", vals.TypeName(v), vals.ReprPlain(v))
	}
	return fm.bindLet(bs, n.Mutable, n.Body, v)
}

func seqPattern(p parse.Pattern) (elems []parse.Pattern, isSeq bool) {
	switch p := p.(type) {
	case *parse.TuplePattern:
		return p.Elems, true
	case *parse.ListPattern:
		return p.Elems, true
	case *parse.MutPattern:
		return seqPattern(p.Inner)
	}
	return nil, false
}

func countFixed(elems []parse.Pattern) (fixed int, rest bool) {
	for _, p := range elems {
		switch p.(type) {
		case *parse.RestPattern, *parse.RestNamedPattern:
			rest = true
		default:
			fixed++
		}
	}
	return fixed, rest
}

// arityMismatch reports whether a tuple or list pattern failed because of the
// number of elements.
func arityMismatch(p parse.Pattern, v any) bool {
	elems, ok := seqPattern(p)
	if !ok {
		return false
	}
	var n int
	switch v := v.(type) {
	case vals.Tuple:
		n = len(v)
	case vals.List:
		n = v.Len()
	default:
		return false
	}
	fixed, rest := countFixed(elems)
	if rest {
		return n < fixed
	}
	return n != fixed
}

func patternArity(p parse.Pattern) string {
	elems, _ := seqPattern(p)
	fixed, rest := countFixed(elems)
	if rest {
		return "at least " + vals.ToString(int64(fixed))
	}
	return vals.ToString(int64(fixed))
}

// evalTry implements the postfix ? operator: Some and Ok are unwrapped, None
// and Err are returned from the enclosing function.
func (fm *Frame) evalTry(e *parse.Expr, n *parse.Try) (any, error) {
	v, err := fm.eval(n.Expr)
	if err != nil {
		return nil, err
	}
	if isSome, payload, ok := vals.OptionOf(v); ok {
		if isSome {
			return payload, nil
		}
		return nil, &flowError{Return, "", v, e.Ranging}
	}
	if isOk, payload, ok := vals.ResultOf(v); ok {
		if isOk {
			return payload, nil
		}
		return nil, &flowError{Return, "", v, e.Ranging}
	}
	return nil, fm.errorf(e, TypeError, "the ? operator needs an Option or Result, got %s", vals.TypeName(v))
}

func (fm *Frame) evalTryCatch(n *parse.TryCatch) (any, error) {
	v, err := fm.eval(n.Body)
	var exc *Exception
	if err != nil && errors.As(err, &exc) {
		for _, c := range n.Catches {
			if c.TypeFilter != "" && c.TypeFilter != string(exc.Type) && c.TypeFilter != vals.TypeName(exc.CatchValue()) {
				continue
			}
			var bs pattern.Bindings
			if c.Pattern != nil {
				var ok bool
				var merr error
				bs, ok, merr = fm.match(c.Pattern, exc.CatchValue())
				if merr != nil {
					v, err = nil, merr
					break
				}
				if !ok {
					continue
				}
			}
			restore := fm.enter()
			fm.define(bs, false)
			v, err = fm.eval(c.Body)
			restore()
			break
		}
	}
	if n.Finally != nil {
		if _, ferr := fm.eval(n.Finally); ferr != nil {
			return nil, ferr
		}
	}
	return v, err
}
