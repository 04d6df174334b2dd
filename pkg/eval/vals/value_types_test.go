package vals

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func TestObject(t *testing.T) {
	o := NewObject("b", int64(2), "a", int64(1))
	if got := o.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Keys() = %v", got)
	}
	o2 := o.Delete("a")
	if o.Has("a") != true || o2.Has("a") != false {
		t.Errorf("Delete modified the original or did not delete")
	}
	var zero Object
	if zero.Len() != 0 || zero.Set("k", nil).Len() != 1 {
		t.Errorf("zero Object is not usable")
	}
}

func TestObjectMut_SharesState(t *testing.T) {
	m := NewObjectMut(NewObject("n", int64(0)))
	alias := m
	alias.Set("n", int64(1))
	TestValue(t, m).Index("n", int64(1))
	snap := m.Snapshot()
	m.Delete("n")
	TestValue(t, snap).Index("n", int64(1))
	TestValue(t, m).Len(0)
}

func TestResultOf(t *testing.T) {
	check := func(v any) (bool, any, bool) { return ResultOf(v) }
	tt.Test(t, tt.Fn("ResultOf", check), tt.Table{
		tt.Args(MakeOk(int64(1))).Rets(true, int64(1), true),
		tt.Args(MakeErr("e")).Rets(false, "e", true),
		tt.Args(NewObject("type", "Ok", "data", MakeList())).Rets(false, nil, false),
		tt.Args(NewObject("type", "Other", "data", MakeList(int64(1)))).Rets(false, nil, false),
		tt.Args(int64(1)).Rets(false, nil, false),
	})
}

func TestOptionOf(t *testing.T) {
	tt.Test(t, tt.Fn("OptionOf", OptionOf), tt.Table{
		tt.Args(MakeSome("x")).Rets(true, "x", true),
		tt.Args(None).Rets(false, nil, true),
		tt.Args(EnumVariant{Enum: "Other", Variant: "Some", Data: []any{int64(1)}}).Rets(false, nil, false),
		tt.Args(nil).Rets(false, nil, false),
	})
}

func TestStruct_With(t *testing.T) {
	p := NewStruct("P", []string{"x", "y"}, map[string]any{"x": int64(1), "y": int64(2)})
	q := p.With("x", int64(10))
	TestValue(t, p).Index("x", int64(1))
	TestValue(t, q).Index("x", int64(10)).Repr("P { x: 10, y: 2 }")
}

func TestRange(t *testing.T) {
	r := Range{Start: -2, End: 2}
	if !r.Contains(-2) || !r.Contains(1) || r.Contains(2) {
		t.Errorf("Contains is wrong for %s", ReprPlain(r))
	}
	if last, ok := (Range{Start: 1, End: 1}).Last(); ok {
		t.Errorf("empty range has last element %d", last)
	}
	if n := (Range{Start: 0, Unbounded: true}).Len(); n <= 0 {
		t.Errorf("unbounded range has length %d", n)
	}
}

func TestDataFrame(t *testing.T) {
	df, err := NewDataFrame([]Column{
		{"name", MakeList("a", "b", "c")},
		{"score", MakeList(int64(1), int64(5), int64(3))},
	})
	if err != nil {
		t.Fatal(err)
	}
	TestValue(t, df).Len(3)

	sel, err := df.Select("score")
	if err != nil {
		t.Fatal(err)
	}
	TestValue(t, sel).Repr("df![score => [1, 5, 3]]")

	kept := df.KeepRows(func(i int) bool {
		v, _ := df.Columns[1].Values.Index(i)
		return v.(int64) > 2
	})
	TestValue(t, kept).Repr(`df![name => ["b", "c"], score => [5, 3]]`)
	TestValue(t, df.Slice(0, 1)).Repr(`df![name => ["a"], score => [1]]`)

	with, err := df.WithColumn("name", MakeList("x", "y", "z"))
	if err != nil {
		t.Fatal(err)
	}
	TestValue(t, with).Repr(`df![name => ["x", "y", "z"], score => [1, 5, 3]]`)

	if _, err := df.WithColumn("bad", MakeList(int64(1))); err == nil {
		t.Errorf("WithColumn with wrong length succeeded")
	}
	if _, err := NewDataFrame([]Column{{"a", MakeList(int64(1))}, {"b", EmptyList}}); err == nil {
		t.Errorf("NewDataFrame with ragged columns succeeded")
	}
	if _, err := df.Select("missing"); err == nil {
		t.Errorf("Select of missing column succeeded")
	}
}

func TestEmptyMap(t *testing.T) {
	if EmptyMap == nil {
		t.Fatal("EmptyMap is nil")
	}
	k := NewStruct("P", []string{"x"}, map[string]any{"x": int64(1)})
	m := EmptyMap.Assoc(k, "found")
	if v, ok := m.Index(NewStruct("P", []string{"x"}, map[string]any{"x": int64(1)})); !ok || v != "found" {
		t.Errorf("struct key not found: %v, %v", v, ok)
	}
}

func TestStruct_Slot(t *testing.T) {
	p := NewStruct("P", []string{"x", "y"}, map[string]any{"x": int64(1)})
	tt.Test(t, tt.Fn("Slot", p.Slot), tt.Table{
		tt.Args(0).Rets(int64(1), true),
		// Declared but unset.
		tt.Args(1).Rets(nil, false),
		tt.Args(2).Rets(nil, false),
		tt.Args(-1).Rets(nil, false),
	})

	q := p.With("y", int64(2)).With("z", int64(3))
	if v, ok := q.Slot(1); !ok || v != int64(2) {
		t.Errorf("With did not update the slot: %v, %v", v, ok)
	}
	if _, ok := p.Slot(1); ok {
		t.Errorf("With modified the original")
	}
	if v, ok := q.Get("z"); !ok || v != int64(3) {
		t.Errorf("undeclared field lost: %v, %v", v, ok)
	}
}

func TestInstance_Slot(t *testing.T) {
	c := NewInstance("C", []string{"n"}, nil, map[string]any{"n": int64(0)})
	c.Set("n", int64(5))
	if v, ok := c.Slot(0); !ok || v != int64(5) {
		t.Errorf("Set did not update the slot: %v, %v", v, ok)
	}
	if _, ok := c.Slot(1); ok {
		t.Errorf("slot past the declared fields exists")
	}
}

func TestEnumVariant_Slot(t *testing.T) {
	v := EnumVariant{Enum: "Shape", Variant: "Rect", Data: []any{int64(2), int64(3)},
		FieldNames: []string{"w", "h"}}
	if got, ok := v.Slot(1); !ok || got != int64(3) {
		t.Errorf("got %v, %v", got, ok)
	}
	tuple := EnumVariant{Enum: "Option", Variant: "Some", Data: []any{int64(1)}}
	if _, ok := tuple.Slot(0); ok {
		t.Errorf("tuple variant has named slots")
	}
}
