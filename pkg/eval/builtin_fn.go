package eval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/eval/errs"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// Builtin functions and constants, keyed by the name or path they are looked
// up by.
var builtinFns = map[string]any{}

// builtinValues are builtin constants.
var builtinValues = map[string]any{
	"i64::MAX":             int64(math.MaxInt64),
	"i64::MIN":             int64(math.MinInt64),
	"i32::MAX":             int64(math.MaxInt32),
	"i32::MIN":             int64(math.MinInt32),
	"u8::MAX":              int64(math.MaxUint8),
	"f64::MAX":             math.MaxFloat64,
	"f64::MIN":             -math.MaxFloat64,
	"f64::INFINITY":        math.Inf(1),
	"f64::NEG_INFINITY":    math.Inf(-1),
	"f64::NAN":             math.NaN(),
	"f64::EPSILON":         0x1p-52,
	"std::f64::consts::PI": math.Pi,
	"std::f64::consts::E":  math.E,
	"f64::consts::PI":      math.Pi,
	"f64::consts::E":       math.E,
}

func addBuiltinFns(fns map[string]any) {
	for name, impl := range fns {
		builtinFns[name] = impl
	}
}

func makeBuiltins() map[string]any {
	m := make(map[string]any, len(builtinFns)+len(builtinValues))
	for name, impl := range builtinFns {
		m[name] = newGoFn(name, impl).builtin()
	}
	for name, v := range builtinValues {
		m[name] = v
	}
	return m
}

func init() {
	addBuiltinFns(map[string]any{
		// Output
		"print":    printFn,
		"println":  printlnFn,
		"eprint":   eprintFn,
		"eprintln": eprintlnFn,
		"format":   format,

		// Introspection and conversion
		"len":         length,
		"type_of":     typeOf,
		"str":         str,
		"int":         toInt,
		"float":       toFloat,
		"parse_int":   parseInt,
		"parse_float": parseFloat,

		// Numbers
		"abs":   abs,
		"sqrt":  math.Sqrt,
		"pow":   pow,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"min":   minFn,
		"max":   maxFn,
		"sum":   sum,
		"range": rangeFn,

		// Assertions
		"assert":    assert,
		"assert_eq": assertEq,

		"sleep": sleep,

		// Constructors of mutable collections
		"HashMap::new":  newMap,
		"Object::new":   newMap,
		"BTreeMap::new": newMap,
		"HashSet::new":  func() vals.Set { return vals.MakeSet() },
		"Vec::new":      func() vals.List { return vals.EmptyList },
		"String::new":   func() string { return "" },
		"String::from":  func(v any) string { return vals.ToString(v) },
		"Some":          vals.MakeSome,
		"Ok":            vals.MakeOk,
		"Err":           vals.MakeErr,
	})
}

// printArgs renders the arguments of the print functions. A first argument
// with placeholders is a format string; otherwise arguments are joined with
// spaces.
func printArgs(fm *Frame, args []any) (string, error) {
	if len(args) > 0 {
		if s, ok := args[0].(string); ok && len(args) > 1 && strings.Contains(s, "{") {
			return fm.formatString(s, args[1:])
		}
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = vals.ToString(a)
	}
	return strings.Join(parts, " "), nil
}

func printTo(fm *Frame, stderr bool, newline bool, args []any) error {
	s, err := printArgs(fm, args)
	if err != nil {
		return err
	}
	if newline {
		s += "\n"
	}
	w := fm.ip.opts.Stdout
	if stderr {
		w = fm.ip.opts.Stderr
	}
	_, err = w.Write([]byte(s))
	return err
}

func printFn(fm *Frame, args ...any) error    { return printTo(fm, false, false, args) }
func printlnFn(fm *Frame, args ...any) error  { return printTo(fm, false, true, args) }
func eprintFn(fm *Frame, args ...any) error   { return printTo(fm, true, false, args) }
func eprintlnFn(fm *Frame, args ...any) error { return printTo(fm, true, true, args) }

func format(fm *Frame, tmpl string, args ...any) (string, error) {
	return fm.formatString(tmpl, args)
}

func length(v any) (int, error) {
	n := vals.Len(v)
	if n < 0 {
		return 0, fmt.Errorf("%s has no length", vals.TypeName(v))
	}
	return n, nil
}

func typeOf(v any) string { return vals.TypeName(v) }

func str(v any) string { return vals.ToString(v) }

func toInt(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errs.BadValue{What: "argument", Valid: "finite number", Actual: vals.ToString(v)}
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt(v)
	}
	return 0, vals.WrongType("number or string", v)
}

func toFloat(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return parseFloat(s)
	}
	return vals.AsFloat(v)
}

func parseInt(s string) (int64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errs.BadValue{What: "argument", Valid: "integer", Actual: strconv.Quote(s)}
	}
	return i, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errs.BadValue{What: "argument", Valid: "number", Actual: strconv.Quote(s)}
	}
	return f, nil
}

func abs(v any) (any, error) {
	switch v := v.(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, vals.WrongType("number", v)
}

func pow(base, exp any) (any, error) {
	b, bInt := base.(int64)
	e, eInt := exp.(int64)
	if bInt && eInt && e >= 0 {
		result := int64(1)
		for i := int64(0); i < e; i++ {
			result *= b
		}
		return result, nil
	}
	bf, err := vals.AsFloat(base)
	if err != nil {
		return nil, err
	}
	ef, err := vals.AsFloat(exp)
	if err != nil {
		return nil, err
	}
	return math.Pow(bf, ef), nil
}

// numbersOf returns the arguments of min, max and sum: a single iterable
// argument stands for its elements.
func numbersOf(args []any) ([]any, error) {
	if len(args) == 1 && vals.CanIterate(args[0]) {
		if _, isString := args[0].(string); !isString {
			return vals.Collect(args[0])
		}
	}
	return args, nil
}

func extremum(args []any, want vals.Ordering) (any, error) {
	nums, err := numbersOf(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		if len(args) == 1 {
			// An empty collection.
			return vals.None, nil
		}
		return nil, errs.ArityMismatch{What: "values", ValidLow: 1, ValidHigh: -1, Actual: 0}
	}
	best := nums[0]
	for _, n := range nums[1:] {
		switch vals.Cmp(n, best) {
		case want:
			best = n
		case vals.CmpUncomparable:
			return nil, fmt.Errorf("cannot compare %s and %s", vals.TypeName(n), vals.TypeName(best))
		}
	}
	return best, nil
}

func minFn(args ...any) (any, error) { return extremum(args, vals.CmpLess) }
func maxFn(args ...any) (any, error) { return extremum(args, vals.CmpMore) }

func sum(args ...any) (any, error) {
	nums, err := numbersOf(args)
	if err != nil {
		return nil, err
	}
	var isum int64
	var fsum float64
	isFloat := false
	for _, n := range nums {
		switch n := n.(type) {
		case int64:
			isum += n
		case float64:
			fsum += n
			isFloat = true
		default:
			return nil, vals.WrongType("number", n)
		}
	}
	if isFloat {
		return fsum + float64(isum), nil
	}
	return isum, nil
}

// rangeFn returns the range [start, end), or the list of its elements
// stepping by step.
func rangeFn(start, end int64, step ...int64) (any, error) {
	if len(step) == 0 {
		return vals.Range{Start: start, End: end}, nil
	}
	if len(step) > 1 {
		return nil, errs.ArityMismatch{What: "arguments of range", ValidLow: 2, ValidHigh: 3, Actual: 2 + len(step)}
	}
	s := step[0]
	if s == 0 {
		return nil, errs.BadValue{What: "step", Valid: "non-zero", Actual: "0"}
	}
	l := vals.EmptyList
	for i := start; s > 0 && i < end || s < 0 && i > end; i += s {
		l = l.Cons(i)
	}
	return l, nil
}

func assert(fm *Frame, cond any, msg ...any) error {
	if vals.Truthy(cond) {
		return nil
	}
	text := "assertion failed"
	if len(msg) > 0 {
		text += ": " + vals.ToString(msg[0])
	}
	return fm.errorf(nil, AssertionFailure, "%s", text)
}

func assertEq(fm *Frame, a, b any, msg ...any) error {
	if valuesEqual(a, b) {
		return nil
	}
	text := fmt.Sprintf("assertion failed: left == right\n  left: %s\n right: %s", vals.ReprPlain(a), vals.ReprPlain(b))
	if len(msg) > 0 {
		text += "\n" + vals.ToString(msg[0])
	}
	return fm.errorf(nil, AssertionFailure, "%s", text)
}

var errNegativeSleep = errors.New("sleep duration must not be negative")

// sleep pauses for ms milliseconds, letting actors run meanwhile.
func sleep(fm *Frame, ms int64) error {
	if ms < 0 {
		return errNegativeSleep
	}
	fm.ip.blocking(func() { time.Sleep(time.Duration(ms) * time.Millisecond) })
	return nil
}

func newMap() *vals.ObjectMut { return vals.NewObjectMut(vals.Object{}) }
