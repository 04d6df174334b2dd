package eval

import (
	"math"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func init() {
	addMethods("integer float", map[string]any{
		"abs": abs,
		"pow": pow,
		"min": func(a, b any) (any, error) { return extremum([]any{a, b}, vals.CmpLess) },
		"max": func(a, b any) (any, error) { return extremum([]any{a, b}, vals.CmpMore) },
		"clamp": func(v, lo, hi any) (any, error) {
			v, err := extremum([]any{v, lo}, vals.CmpMore)
			if err != nil {
				return nil, err
			}
			return extremum([]any{v, hi}, vals.CmpLess)
		},
		"sqrt":     func(f float64) float64 { return math.Sqrt(f) },
		"to_float": func(f float64) float64 { return f },
		"to_int":   toInt,
		"is_positive": func(v any) bool {
			f, _ := vals.AsFloat(v)
			return f > 0
		},
		"is_negative": func(v any) bool {
			f, _ := vals.AsFloat(v)
			return f < 0
		},
	})

	addMethods("integer", map[string]any{
		"signum": func(i int64) int64 {
			switch {
			case i > 0:
				return 1
			case i < 0:
				return -1
			}
			return 0
		},
		"is_even": func(i int64) bool { return i%2 == 0 },
		"is_odd":  func(i int64) bool { return i%2 != 0 },
		"checked_add": func(a, b int64) any {
			c := a + b
			if (c > a) != (b > 0) {
				return vals.None
			}
			return vals.MakeSome(c)
		},
		"checked_sub": func(a, b int64) any {
			c := a - b
			if (c < a) != (b > 0) {
				return vals.None
			}
			return vals.MakeSome(c)
		},
		"checked_mul": func(a, b int64) any {
			c := a * b
			if a != 0 && (c/a != b || a == -1 && b == math.MinInt64) {
				return vals.None
			}
			return vals.MakeSome(c)
		},
		"checked_div": func(a, b int64) any {
			if b == 0 || a == math.MinInt64 && b == -1 {
				return vals.None
			}
			return vals.MakeSome(a / b)
		},
		"wrapping_add": func(a, b int64) int64 { return a + b },
		"wrapping_sub": func(a, b int64) int64 { return a - b },
		"wrapping_mul": func(a, b int64) int64 { return a * b },
	})

	addMethods("float", map[string]any{
		"floor":     math.Floor,
		"ceil":      math.Ceil,
		"round":     math.Round,
		"trunc":     math.Trunc,
		"fract":     func(f float64) float64 { return f - math.Trunc(f) },
		"sin":       math.Sin,
		"cos":       math.Cos,
		"tan":       math.Tan,
		"ln":        math.Log,
		"log10":     math.Log10,
		"log2":      math.Log2,
		"exp":       math.Exp,
		"powf":      math.Pow,
		"powi":      func(f float64, n int64) float64 { return math.Pow(f, float64(n)) },
		"is_nan":    math.IsNaN,
		"is_finite": func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) },
		"signum": func(f float64) float64 {
			switch {
			case math.IsNaN(f):
				return f
			case math.Signbit(f):
				return -1
			}
			return 1
		},
	})
}
