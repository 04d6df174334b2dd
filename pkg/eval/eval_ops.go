package eval

import (
	"math"
	"strings"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
)

func (fm *Frame) evalBinary(e *parse.Expr, n *parse.Binary) (any, error) {
	switch n.Op {
	case parse.OpAnd, parse.OpOr:
		l, err := fm.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if vals.Truthy(l) == (n.Op == parse.OpOr) {
			return n.Op == parse.OpOr, nil
		}
		r, err := fm.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return vals.Truthy(r), nil
	case parse.OpNullCoalesce:
		l, err := fm.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if isSome, v, ok := vals.OptionOf(l); ok {
			if isSome {
				return v, nil
			}
		} else if isOk, _, ok := vals.ResultOf(l); ok {
			if isOk {
				return l, nil
			}
		} else if l != nil {
			return l, nil
		}
		return fm.eval(n.Right)
	case parse.OpPipe:
		return fm.evalPipe(e, n)
	}
	l, err := fm.eval(n.Left)
	if err != nil {
		return nil, err
	}
	r, err := fm.eval(n.Right)
	if err != nil {
		return nil, err
	}
	v, err := fm.binaryOp(e, n.Op, l, r)
	if err == nil && fm.ip.opts.Feedback {
		fm.ip.recorder.RecordBinaryOp(fm.ip.siteOf(e), n.Op.String(), vals.TypeName(l), vals.TypeName(r), vals.TypeName(v))
	}
	return v, err
}

// evalPipe implements x |> f. When the right side is a call, x becomes its
// first argument; otherwise the right side is called with x alone.
func (fm *Frame) evalPipe(e *parse.Expr, n *parse.Binary) (any, error) {
	l, err := fm.eval(n.Left)
	if err != nil {
		return nil, err
	}
	switch r := n.Right.Kind.(type) {
	case *parse.Call:
		f, err := fm.eval(r.Func)
		if err != nil {
			return nil, err
		}
		args, err := fm.evalExprs(r.Args)
		if err != nil {
			return nil, err
		}
		return fm.call(n.Right, f, append([]any{l}, args...))
	case *parse.MethodCall:
		recv, err := fm.eval(r.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := fm.evalExprs(r.Args)
		if err != nil {
			return nil, err
		}
		return fm.callMethod(n.Right, r.Receiver, recv, r.Method, append([]any{l}, args...))
	}
	f, err := fm.eval(n.Right)
	if err != nil {
		return nil, err
	}
	return fm.call(e, f, []any{l})
}

// binaryOp applies a strict binary operator.
func (fm *Frame) binaryOp(e *parse.Expr, op parse.BinaryOp, l, r any) (any, error) {
	switch op {
	case parse.OpEq:
		return valuesEqual(l, r), nil
	case parse.OpNe:
		return !valuesEqual(l, r), nil
	case parse.OpLt, parse.OpLe, parse.OpGt, parse.OpGe:
		o := vals.Cmp(l, r)
		if o == vals.CmpUncomparable {
			return nil, fm.errorf(e, TypeError, "cannot compare %s and %s", vals.TypeName(l), vals.TypeName(r))
		}
		switch op {
		case parse.OpLt:
			return o == vals.CmpLess, nil
		case parse.OpLe:
			return o != vals.CmpMore, nil
		case parse.OpGt:
			return o == vals.CmpMore, nil
		default:
			return o != vals.CmpLess, nil
		}
	}

	switch l := l.(type) {
	case int64:
		switch r := r.(type) {
		case int64:
			return fm.intOp(e, op, l, r)
		case float64:
			if op.IsArithmetic() {
				return floatOp(op, float64(l), r), nil
			}
		}
	case float64:
		switch r := r.(type) {
		case float64:
			if op.IsArithmetic() {
				return floatOp(op, l, r), nil
			}
		case int64:
			if op.IsArithmetic() {
				return floatOp(op, l, float64(r)), nil
			}
		}
	case bool:
		if r, ok := r.(bool); ok {
			switch op {
			case parse.OpBitAnd:
				return l && r, nil
			case parse.OpBitOr:
				return l || r, nil
			case parse.OpBitXor:
				return l != r, nil
			}
		}
	case string:
		switch op {
		case parse.OpAdd:
			if r, ok := r.(string); ok {
				return l + r, nil
			}
		case parse.OpMul:
			if n, ok := r.(int64); ok {
				if n < 0 {
					return nil, fm.errorf(e, TypeError, "cannot repeat a string a negative number of times")
				}
				return strings.Repeat(l, int(n)), nil
			}
		}
	case vals.List:
		switch op {
		case parse.OpAdd:
			if _, ok := r.(vals.List); ok {
				v, err := vals.Concat(l, r)
				return v, fm.wrap(e, err)
			}
		case parse.OpMul:
			if n, ok := r.(int64); ok && n >= 0 {
				out := vals.EmptyList
				for i := int64(0); i < n; i++ {
					for it := l.Iterator(); it.HasElem(); it.Next() {
						out = out.Cons(it.Elem())
					}
				}
				return out, nil
			}
		}
	case vals.Tuple:
		if _, ok := r.(vals.Tuple); ok && op == parse.OpAdd {
			v, err := vals.Concat(l, r)
			return v, fm.wrap(e, err)
		}
	case vals.Set:
		if r, ok := r.(vals.Set); ok {
			switch op {
			case parse.OpBitOr:
				for _, v := range r.Elems() {
					l = l.Add(v)
				}
				return l, nil
			case parse.OpBitAnd:
				out := vals.MakeSet()
				for _, v := range l.Elems() {
					if r.Has(v) {
						out = out.Add(v)
					}
				}
				return out, nil
			case parse.OpSub:
				for _, v := range r.Elems() {
					l = l.Remove(v)
				}
				return l, nil
			}
		}
	}
	return nil, fm.errorf(e, TypeError, "unsupported operand types for %s: %s and %s", op, vals.TypeName(l), vals.TypeName(r))
}

// valuesEqual is == on values. Integers and floats compare numerically.
func valuesEqual(l, r any) bool {
	switch l := l.(type) {
	case int64:
		if r, ok := r.(float64); ok {
			return float64(l) == r
		}
	case float64:
		if r, ok := r.(int64); ok {
			return l == float64(r)
		}
	}
	return vals.Equal(l, r)
}

func (fm *Frame) intOp(e *parse.Expr, op parse.BinaryOp, a, b int64) (any, error) {
	checked := fm.ip.opts.Overflow == OverflowChecked
	overflow := func() (any, error) {
		return nil, fm.errorf(e, Overflow, "integer overflow in %d %s %d", a, op, b)
	}
	switch op {
	case parse.OpAdd:
		c := a + b
		if checked && (c > a) != (b > 0) {
			return overflow()
		}
		return c, nil
	case parse.OpSub:
		c := a - b
		if checked && (c < a) != (b > 0) {
			return overflow()
		}
		return c, nil
	case parse.OpMul:
		c := a * b
		if checked && a != 0 && (c/a != b || a == -1 && b == math.MinInt64) {
			return overflow()
		}
		return c, nil
	case parse.OpDiv, parse.OpMod:
		if b == 0 {
			return nil, fm.errorf(e, DivisionByZero, "division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			if checked {
				return overflow()
			}
			if op == parse.OpDiv {
				return a, nil
			}
			return int64(0), nil
		}
		if op == parse.OpDiv {
			return a / b, nil
		}
		return a % b, nil
	case parse.OpPow:
		if b < 0 {
			return math.Pow(float64(a), float64(b)), nil
		}
		result := int64(1)
		base := a
		for exp := b; exp > 0; exp >>= 1 {
			if exp&1 == 1 {
				next := result * base
				if checked && base != 0 && next/base != result {
					return overflow()
				}
				result = next
			}
			if exp > 1 {
				sq := base * base
				if checked && base != 0 && sq/base != base {
					return overflow()
				}
				base = sq
			}
		}
		return result, nil
	case parse.OpBitAnd:
		return a & b, nil
	case parse.OpBitOr:
		return a | b, nil
	case parse.OpBitXor:
		return a ^ b, nil
	case parse.OpShl, parse.OpShr:
		if b < 0 || b > 63 {
			if checked {
				return overflow()
			}
			b &= 63
		}
		if op == parse.OpShl {
			return a << uint(b), nil
		}
		return a >> uint(b), nil
	}
	return nil, fm.errorf(e, TypeError, "unsupported operand types for %s: integer and integer", op)
}

func floatOp(op parse.BinaryOp, a, b float64) float64 {
	switch op {
	case parse.OpAdd:
		return a + b
	case parse.OpSub:
		return a - b
	case parse.OpMul:
		return a * b
	case parse.OpDiv:
		return a / b
	case parse.OpMod:
		return math.Mod(a, b)
	default:
		return math.Pow(a, b)
	}
}

func (fm *Frame) evalUnary(e *parse.Expr, n *parse.Unary) (any, error) {
	v, err := fm.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case parse.OpNeg:
		switch v := v.(type) {
		case int64:
			if v == math.MinInt64 && fm.ip.opts.Overflow == OverflowChecked {
				return nil, fm.errorf(e, Overflow, "integer overflow in -(%d)", v)
			}
			return -v, nil
		case float64:
			return -v, nil
		}
	case parse.OpNot:
		switch v := v.(type) {
		case bool:
			return !v, nil
		case int64:
			return ^v, nil
		}
		return !vals.Truthy(v), nil
	case parse.OpBitNot:
		if i, ok := v.(int64); ok {
			return ^i, nil
		}
	case parse.OpRef, parse.OpRefMut, parse.OpDeref:
		// References are transparent.
		return v, nil
	}
	return nil, fm.errorf(e, TypeError, "unsupported operand type for %s: %s", n.Op, vals.TypeName(v))
}
