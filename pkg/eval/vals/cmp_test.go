package vals

import (
	"math"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func TestCmp(t *testing.T) {
	tt.Test(t, tt.Fn("Cmp", Cmp), tt.Table{
		tt.Args(int64(1), int64(2)).Rets(CmpLess),
		tt.Args(int64(2), 1.5).Rets(CmpMore),
		tt.Args(2.0, int64(2)).Rets(CmpEqual),
		tt.Args(math.NaN(), 1.0).Rets(CmpLess),
		tt.Args(math.NaN(), math.NaN()).Rets(CmpEqual),
		tt.Args("a", "b").Rets(CmpLess),
		tt.Args(false, true).Rets(CmpLess),
		tt.Args(Atom("b"), Atom("a")).Rets(CmpMore),
		tt.Args(MakeList(int64(1), int64(2)), MakeList(int64(1), int64(3))).Rets(CmpLess),
		tt.Args(MakeList(int64(1)), MakeList(int64(1), int64(0))).Rets(CmpLess),
		tt.Args(Tuple{"a", int64(2)}, Tuple{"a", int64(1)}).Rets(CmpMore),
		tt.Args(MakeSome(int64(1)), MakeSome(int64(2))).Rets(CmpLess),
		tt.Args(nil, nil).Rets(CmpEqual),
		tt.Args(NewObject("a", int64(1)), NewObject("a", int64(1))).Rets(CmpEqual),
		tt.Args(int64(1), "1").Rets(CmpUncomparable),
		tt.Args(MakeList(int64(1)), MakeList("a")).Rets(CmpUncomparable),
	})
}
