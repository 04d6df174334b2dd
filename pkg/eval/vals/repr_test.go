package vals

import (
	"math"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func repr(a any) string { return ReprPlain(a) }

func TestReprPlain(t *testing.T) {
	tt.Test(t, tt.Fn("repr", repr), tt.Table{
		tt.Args(nil).Rets("nil"),
		tt.Args(false).Rets("false"),
		tt.Args(int64(-12)).Rets("-12"),
		tt.Args(3.0).Rets("3.0"),
		tt.Args(3.14).Rets("3.14"),
		tt.Args(math.Inf(-1)).Rets("-inf"),
		tt.Args(math.NaN()).Rets("NaN"),
		tt.Args("a\"b\n").Rets(`"a\"b\n"`),
		tt.Args(Atom("ok")).Rets(":ok"),
		tt.Args(EmptyList).Rets("[]"),
		tt.Args(MakeList(int64(1), "two", MakeList())).Rets(`[1, "two", []]`),
		tt.Args(Tuple{}).Rets("()"),
		tt.Args(Tuple{int64(1)}).Rets("(1,)"),
		tt.Args(Tuple{int64(1), 2.5}).Rets("(1, 2.5)"),
		tt.Args(Range{Start: 1, End: 5}).Rets("1..5"),
		tt.Args(Range{Start: 1, End: 5, Inclusive: true}).Rets("1..=5"),
		tt.Args(Range{Start: 3, Unbounded: true}).Rets("3.."),
		tt.Args(NewObject()).Rets("{}"),
		tt.Args(NewObject("b", int64(2), "a", int64(1), "x y", nil)).Rets(`{a: 1, b: 2, "x y": nil}`),
		tt.Args(NewObjectMut(NewObject("k", "v"))).Rets(`{k: "v"}`),
		tt.Args(MakeSet(int64(3), int64(1), int64(2))).Rets("{1, 2, 3}"),
		tt.Args(MakeOk(int64(1))).Rets("Ok(1)"),
		tt.Args(MakeErr("bad")).Rets(`Err("bad")`),
		tt.Args(MakeSome(int64(1))).Rets("Some(1)"),
		tt.Args(None).Rets("None"),
		tt.Args(EnumVariant{Enum: "Color", Variant: "Red"}).Rets("Color::Red"),
		tt.Args(EnumVariant{Variant: "Ping", Data: []any{int64(1)}}).Rets("Ping(1)"),
		tt.Args(EnumVariant{Enum: "Shape", Variant: "Circle", Data: []any{1.5}}).Rets("Shape::Circle(1.5)"),
		tt.Args(EnumVariant{Enum: "Shape", Variant: "Rect", Data: []any{int64(1), int64(2)},
			FieldNames: []string{"w", "h"}}).Rets("Shape::Rect { w: 1, h: 2 }"),
		tt.Args(NewStruct("Point", []string{"y", "x"},
			map[string]any{"x": int64(1), "y": int64(2)})).Rets("Point { y: 2, x: 1 }"),
		tt.Args(NewStruct("Unit", nil, nil)).Rets("Unit"),
		tt.Args(NewInstance("Counter", []string{"count"}, nil,
			map[string]any{"count": int64(0), "extra": true})).Rets("Counter { count: 0, extra: true }"),
		tt.Args(DataFrame{[]Column{{"a", MakeList(int64(1), int64(2))}, {"b c", MakeList("x", "y")}}}).
			Rets(`df![a => [1, 2], "b c" => ["x", "y"]]`),
		tt.Args(xtype(1)).Rets("<unknown 1>"),
	})
}

func TestRepr_Pretty(t *testing.T) {
	got := Repr(NewObject("a", MakeList(int64(1), int64(2)), "b", NewObject()), 0)
	want := "{\n    a: [\n        1,\n        2,\n    ],\n    b: {},\n}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestToString(t *testing.T) {
	tt.Test(t, tt.Fn("ToString", ToString), tt.Table{
		tt.Args("plain").Rets("plain"),
		tt.Args(int64(7)).Rets("7"),
		tt.Args(0.5).Rets("0.5"),
		tt.Args(1e21).Rets("1e+21"),
		tt.Args(0.000001).Rets("1e-06"),
		tt.Args(MakeList("a")).Rets(`["a"]`),
	})
}
