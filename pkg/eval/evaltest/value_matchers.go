package evaltest

import (
	"fmt"
	"math"
	"regexp"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

// ValueMatcher is a value that can be passed to [Case.Evals] and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(any) bool }

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }

func (anything) String() string { return "anything" }

// AnyInteger matches any integer.
var AnyInteger ValueMatcher = anyInteger{}

type anyInteger struct{}

func (anyInteger) matchValue(x any) bool {
	_, ok := x.(int64)
	return ok
}

func (anyInteger) String() string { return "any integer" }

// ApproximatelyThreshold defines the threshold for matching float64 values when
// using [Approximately].
const ApproximatelyThreshold = 1e-12

// Approximately matches a float64 within the threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{f} }

type approximately struct{ value float64 }

func (a approximately) matchValue(value any) bool {
	if value, ok := value.(float64); ok {
		return matchFloat64(a.value, value, ApproximatelyThreshold)
	}
	return false
}

func (a approximately) String() string { return fmt.Sprintf("approximately %v", a.value) }

func matchFloat64(a, b, threshold float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) &&
		math.Signbit(a) == math.Signbit(b) {
		return true
	}
	return math.Abs(a-b) <= threshold
}

// StringMatching matches any string matching a regexp pattern. If the pattern
// is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value any) bool {
	if value, ok := value.(string); ok {
		return s.pattern.MatchString(value)
	}
	return false
}

func (s stringMatching) String() string { return "string matching " + s.pattern.String() }

// ObjectContaining matches any object that contains all the key-value pairs
// in the given object. The values in the argument itself can also be
// [ValueMatcher]s.
func ObjectContaining(o vals.Object) ValueMatcher { return objectContaining{o} }

// ObjectContainingPairs is a shorthand for ObjectContaining on an object
// built from alternating keys and values.
func ObjectContainingPairs(a ...any) ValueMatcher {
	o := vals.Object{}
	for i := 0; i+1 < len(a); i += 2 {
		o = o.Set(a[i].(string), a[i+1])
	}
	return ObjectContaining(o)
}

type objectContaining struct{ o vals.Object }

func (m objectContaining) matchValue(value any) bool {
	var got vals.Object
	switch v := value.(type) {
	case vals.Object:
		got = v
	case *vals.ObjectMut:
		got = v.Snapshot()
	default:
		return false
	}
	ok := true
	m.o.IteratePairs(func(k string, want any) bool {
		gotValue, has := got.Get(k)
		ok = has && match(gotValue, want)
		return ok
	})
	return ok
}

func (m objectContaining) String() string { return vals.ReprPlain(m.o) }

// ListOf matches a list whose elements match the given values, which may be
// [ValueMatcher]s. Go ints stand for integers.
func ListOf(elems ...any) ValueMatcher { return listOf(elems) }

type listOf []any

func (l listOf) matchValue(value any) bool {
	got, ok := value.(vals.List)
	if !ok || got.Len() != len(l) {
		return false
	}
	for i, want := range l {
		v, _ := got.Index(i)
		if !match(v, want) {
			return false
		}
	}
	return true
}

func (l listOf) String() string { return fmt.Sprint("list of ", []any(l)) }
