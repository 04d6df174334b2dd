package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func collectRepr(v any) (string, error) {
	vs, err := Collect(v)
	return ReprPlain(Tuple(vs)), err
}

func TestCollect(t *testing.T) {
	tt.Test(t, tt.Fn("collectRepr", collectRepr), tt.Table{
		tt.Args("héllo").Rets(`("h", "é", "l", "l", "o")`, nil),
		tt.Args(MakeList(int64(1), int64(2))).Rets("(1, 2)", nil),
		tt.Args(Tuple{"a", true}).Rets(`("a", true)`, nil),
		tt.Args(Range{Start: 1, End: 4}).Rets("(1, 2, 3)", nil),
		tt.Args(Range{Start: 1, End: 3, Inclusive: true}).Rets("(1, 2, 3)", nil),
		tt.Args(Range{Start: 3, End: 1}).Rets("()", nil),
		tt.Args(MakeSet("b", "a")).Rets(`("a", "b")`, nil),
		tt.Args(NewObject("y", int64(2), "x", int64(1))).Rets(`(("x", 1), ("y", 2))`, nil),
		tt.Args(DataFrame{[]Column{{"a", MakeList(int64(1), int64(2))}}}).Rets("({a: 1}, {a: 2})", nil),
		tt.Args(int64(1)).Rets("()", cannotIterate{"integer"}),
	})
}

func TestIterate_Break(t *testing.T) {
	var got []any
	Iterate(Range{Start: 0, Unbounded: true}, func(v any) bool {
		got = append(got, v)
		return len(got) < 3
	})
	if !Equal(Tuple(got), Tuple{int64(0), int64(1), int64(2)}) {
		t.Errorf("got %v", got)
	}
}

func TestCanIterate(t *testing.T) {
	tt.Test(t, tt.Fn("CanIterate", CanIterate), tt.Table{
		tt.Args("").Rets(true),
		tt.Args(EmptyList).Rets(true),
		tt.Args(Range{}).Rets(true),
		tt.Args(NewObjectMut(NewObject())).Rets(true),
		tt.Args(int64(0)).Rets(false),
		tt.Args(nil).Rets(false),
	})
}
