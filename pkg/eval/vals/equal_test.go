package vals

import (
	"math"
	"testing"
)

func TestEqual(t *testing.T) {
	TestValue(t, int64(1)).Equal(int64(1)).NotEqual(1.0, "1", nil)
	TestValue(t, math.NaN()).NotEqual(math.NaN())
	TestValue(t, nil).Equal(nil).NotEqual(false)
	TestValue(t, "a").Equal("a").NotEqual(Atom("a"))
	TestValue(t, MakeList(int64(1), "x")).
		Equal(MakeList(int64(1), "x")).
		NotEqual(MakeList(int64(1)), Tuple{int64(1), "x"})
	TestValue(t, Tuple{int64(1), MakeList()}).Equal(Tuple{int64(1), EmptyList})
	TestValue(t, NewObject("a", int64(1), "b", int64(2))).
		Equal(NewObject("b", int64(2), "a", int64(1)),
			NewObjectMut(NewObject("a", int64(1), "b", int64(2)))).
		NotEqual(NewObject("a", int64(1)))
	TestValue(t, MakeSet(int64(1), int64(2))).Equal(MakeSet(int64(2), int64(1), int64(1)))
	TestValue(t, NewStruct("P", []string{"x"}, map[string]any{"x": int64(1)})).
		Equal(NewStruct("P", nil, map[string]any{"x": int64(1)})).
		NotEqual(NewStruct("Q", nil, map[string]any{"x": int64(1)}))
	TestValue(t, MakeSome(MakeList(int64(1)))).
		Equal(MakeSome(MakeList(int64(1)))).
		NotEqual(None, MakeSome(int64(1)))
	TestValue(t, EnumVariant{Enum: "Color", Variant: "Red"}).
		Equal(EnumVariant{Enum: "Color", Variant: "Red"}).
		NotEqual(EnumVariant{Enum: "Shade", Variant: "Red"})
	TestValue(t, Range{Start: 1, End: 3}).NotEqual(Range{Start: 1, End: 3, Inclusive: true})

	inst := NewInstance("C", nil, nil, map[string]any{"n": int64(1)})
	TestValue(t, inst).Equal(inst).NotEqual(NewInstance("C", nil, nil, map[string]any{"n": int64(1)}))
}

func TestEqualImpliesSameHash(t *testing.T) {
	pairs := [][2]any{
		{int64(42), int64(42)},
		{"abc", "abc"},
		{MakeList(int64(1), "a"), MakeList(int64(1), "a")},
		{NewObject("a", int64(1), "b", true), NewObject("b", true, "a", int64(1))},
		{NewObject("a", int64(1)), NewObjectMut(NewObject("a", int64(1)))},
		{MakeSet("x", "y"), MakeSet("y", "x")},
		{MakeOk(int64(1)), MakeOk(int64(1))},
		{Tuple{int64(1), 2.5}, Tuple{int64(1), 2.5}},
		{EnumVariant{Enum: "E", Variant: "V", Data: []any{int64(1)}},
			EnumVariant{Enum: "E", Variant: "V", Data: []any{int64(1)}}},
	}
	for _, p := range pairs {
		if !Equal(p[0], p[1]) {
			t.Errorf("Equal(%s, %s) = false", ReprPlain(p[0]), ReprPlain(p[1]))
		}
		if Hash(p[0]) != Hash(p[1]) {
			t.Errorf("Hash(%s) != Hash(%s)", ReprPlain(p[0]), ReprPlain(p[1]))
		}
	}
}
