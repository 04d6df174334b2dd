package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func concatRepr(a, b any) (string, error) {
	v, err := Concat(a, b)
	return ReprPlain(v), err
}

func TestConcat(t *testing.T) {
	tt.Test(t, tt.Fn("concatRepr", concatRepr), tt.Table{
		tt.Args("foo", "bar").Rets(`"foobar"`, nil),
		tt.Args(MakeList(int64(1)), MakeList(int64(2), int64(3))).Rets("[1, 2, 3]", nil),
		tt.Args(Tuple{int64(1)}, Tuple{"a"}).Rets(`(1, "a")`, nil),
		tt.Args("foo", int64(1)).Rets("nil", cannotConcat{"string", "integer"}),
		tt.Args(int64(1), int64(2)).Rets("nil", cannotConcat{"integer", "integer"}),
	})
}
