package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func TestAsInt(t *testing.T) {
	tt.Test(t, tt.Fn("AsInt", AsInt), tt.Table{
		tt.Args(int64(3)).Rets(int64(3), nil),
		tt.Args(4.0).Rets(int64(4), nil),
		tt.Args(4.5).Rets(int64(0), wrongType{"integer", "float"}),
		tt.Args("4").Rets(int64(0), wrongType{"integer", "string"}),
	})
}

func TestAsFloat(t *testing.T) {
	tt.Test(t, tt.Fn("AsFloat", AsFloat), tt.Table{
		tt.Args(int64(3)).Rets(3.0, nil),
		tt.Args(0.25).Rets(0.25, nil),
		tt.Args(nil).Rets(0.0, wrongType{"number", "nil"}),
	})
}

func TestTruthy(t *testing.T) {
	TestValue(t, nil).Truthy(false)
	TestValue(t, false).Truthy(false)
	TestValue(t, true).Truthy(true)
	TestValue(t, int64(0)).Truthy(true)
	TestValue(t, "").Truthy(true)
}

func TestLen(t *testing.T) {
	TestValue(t, "héllo").Len(5)
	TestValue(t, MakeList(int64(1), int64(2))).Len(2)
	TestValue(t, Range{Start: 0, End: 10}).Len(10)
	TestValue(t, Range{Start: 0, End: 10, Inclusive: true}).Len(11)
	TestValue(t, Range{Start: 5, End: 1}).Len(0)
	TestValue(t, NewObject("a", nil)).Len(1)
	TestValue(t, int64(1)).Len(-1)
}
