package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

func mustPattern(t *testing.T, code string) parse.Pattern {
	t.Helper()
	e, err := parse.ParseExpr("match x { " + code + " => 0 }")
	if err != nil {
		t.Fatalf("parse %q: %v", code, err)
	}
	return e.Kind.(*parse.Match).Arms[0].Pattern
}

// matchFmt matches and formats the bindings as "a=1 mut b=2".
func matchFmt(t *testing.T) func(string, any) (string, bool) {
	return func(code string, v any) (string, bool) {
		bs, ok := Match(mustPattern(t, code), v)
		return formatBindings(bs), ok
	}
}

func formatBindings(bs Bindings) string {
	var sb strings.Builder
	for i, b := range bs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if b.Mutable {
			sb.WriteString("mut ")
		}
		sb.WriteString(b.Name + "=" + vals.ReprPlain(b.Value))
	}
	return sb.String()
}

var (
	point  = vals.NewStruct("Point", []string{"x", "y"}, map[string]any{"x": int64(1), "y": int64(2)})
	circle = vals.EnumVariant{Enum: "Shape", Variant: "Circle", Data: []any{5.0}}
	red    = vals.EnumVariant{Enum: "Color", Variant: "Red"}
	move   = vals.EnumVariant{Enum: "Msg", Variant: "Move",
		Data: []any{int64(3), int64(4)}, FieldNames: []string{"x", "y"}}
	ping = vals.EnumVariant{Variant: "Ping", Data: []any{int64(1)}}
)

func TestMatch(t *testing.T) {
	tt.Test(t, tt.Fn("Match", matchFmt(t)), tt.Table{
		// Irrefutable patterns.
		tt.Args("_", int64(1)).Rets("", true),
		tt.Args("n", "s").Rets(`n="s"`, true),
		tt.Args("mut n", int64(1)).Rets("mut n=1", true),

		// Literals are compared with their type.
		tt.Args("1", int64(1)).Rets("", true),
		tt.Args("1", 1.0).Rets("", false),
		tt.Args("-1", int64(-1)).Rets("", true),
		tt.Args("1.5", 1.5).Rets("", true),
		tt.Args("0.3", 0.1+0.2).Rets("", true),
		tt.Args("0.3", 0.31).Rets("", false),
		tt.Args(`"hi"`, "hi").Rets("", true),
		tt.Args("'a'", "a").Rets("", true),
		tt.Args("true", false).Rets("", false),
		tt.Args("()", nil).Rets("", true),
		tt.Args("nil", nil).Rets("", true),
		tt.Args(":ok", vals.Atom("ok")).Rets("", true),

		// Ranges.
		tt.Args("1..=5", int64(5)).Rets("", true),
		tt.Args("1..5", int64(5)).Rets("", false),
		tt.Args("'a'..='z'", "q").Rets("", true),
		tt.Args("'a'..='z'", "Q").Rets("", false),
		tt.Args("1..=5", "a").Rets("", false),

		// Tuples and lists.
		tt.Args("(a, b)", vals.Tuple{int64(1), int64(2)}).Rets("a=1 b=2", true),
		tt.Args("(a, b)", vals.Tuple{int64(1)}).Rets("", false),
		tt.Args("[a, b]", vals.MakeList(int64(1), int64(2))).Rets("a=1 b=2", true),
		tt.Args("[first, ..rest]", vals.MakeList(int64(1), int64(2), int64(3))).
			Rets("first=1 rest=[2, 3]", true),
		tt.Args("[first, .., last]", vals.MakeList(int64(1), int64(2), int64(3))).
			Rets("first=1 last=3", true),
		tt.Args("[a, .., b]", vals.MakeList(int64(1))).Rets("", false),
		tt.Args("(a, ..rest)", vals.Tuple{int64(1), int64(2), int64(3)}).
			Rets("a=1 rest=(2, 3)", true),
		tt.Args("[]", vals.EmptyList).Rets("", true),
		tt.Args("[a]", "a").Rets("", false),

		// Structs and objects.
		tt.Args("Point { x, y }", point).Rets("x=1 y=2", true),
		tt.Args("Point { x: 1, y }", point).Rets("y=2", true),
		tt.Args("Point { x: 0, y }", point).Rets("", false),
		tt.Args("Other { x }", point).Rets("", false),
		tt.Args("{ x }", point).Rets("x=1", true),
		tt.Args("{ a, b }", vals.NewObject("a", int64(1), "b", "s")).Rets(`a=1 b="s"`, true),
		tt.Args("{ a, c }", vals.NewObject("a", int64(1))).Rets("", false),
		tt.Args("Msg::Move { x, y }", move).Rets("x=3 y=4", true),

		// Enum variants and constructors.
		tt.Args("Shape::Circle(r)", circle).Rets("r=5.0", true),
		tt.Args("Circle(r)", circle).Rets("r=5.0", true),
		tt.Args("Other::Circle(r)", circle).Rets("", false),
		tt.Args("Color::Red", red).Rets("", true),
		tt.Args("Red", red).Rets("", true),
		tt.Args("Color::Blue", red).Rets("", false),
		tt.Args("Ping(n)", ping).Rets("n=1", true),
		tt.Args("Pong(n)", ping).Rets("", false),

		// Option and Result.
		tt.Args("Some(x)", vals.MakeSome(int64(1))).Rets("x=1", true),
		tt.Args("Some(x)", vals.None).Rets("", false),
		tt.Args("None", vals.None).Rets("", true),
		tt.Args("Ok(v)", vals.MakeOk("yes")).Rets(`v="yes"`, true),
		tt.Args("Err(e)", vals.MakeOk("yes")).Rets("", false),
		tt.Args("Err(e)", vals.MakeErr("no")).Rets(`e="no"`, true),

		// Combinators.
		tt.Args("1 | 2 | 3", int64(2)).Rets("", true),
		tt.Args("(1, a) | (a, 1)", vals.Tuple{int64(2), int64(1)}).Rets("a=2", true),
		tt.Args("n @ 1..=9", int64(4)).Rets("n=4", true),
		tt.Args("n @ 1..=9", int64(10)).Rets("", false),
		tt.Args("mut (a, b)", vals.Tuple{int64(1), int64(2)}).Rets("mut a=1 mut b=2", true),
		tt.Args("Some((a, mut b))", vals.MakeSome(vals.Tuple{int64(1), int64(2)})).
			Rets("a=1 mut b=2", true),
	})
}

func TestMatch_FieldDefault(t *testing.T) {
	p := mustPattern(t, "{ a, b = 10 }")
	obj := vals.NewObject("a", int64(1))

	// Without a default evaluator a missing field fails the match.
	if _, ok, _ := (Matcher{}).Match(p, obj); ok {
		t.Errorf("want no match without Default")
	}

	m := Matcher{Default: func(e *parse.Expr) (any, error) {
		v, _ := LiteralValue(e)
		return v, nil
	}}
	bs, ok, err := m.Match(p, obj)
	if got := formatBindings(bs); !ok || err != nil || got != "a=1 b=10" {
		t.Errorf("got %q, %v, %v; want a=1 b=10", got, ok, err)
	}

	// A present field ignores the default.
	bs, _, _ = m.Match(p, vals.NewObject("a", int64(1), "b", int64(2)))
	if got := formatBindings(bs); got != "a=1 b=2" {
		t.Errorf("got %q, want a=1 b=2", got)
	}

	errDefault := errors.New("boom")
	failing := Matcher{Default: func(*parse.Expr) (any, error) { return nil, errDefault }}
	if _, ok, err := failing.Match(p, obj); ok || err != errDefault {
		t.Errorf("got %v, %v; want no match and the default's error", ok, err)
	}
}

func TestMatch_BindingsAgreeWithBinders(t *testing.T) {
	tests := []struct {
		code string
		v    any
	}{
		{"(a, mut b)", vals.Tuple{int64(1), int64(2)}},
		{"[x, ..xs]", vals.MakeList(int64(1), int64(2))},
		{"whole @ Some(inner)", vals.MakeSome(int64(1))},
		{"Point { x, y: py }", point},
		{"Msg::Move { x, y }", move},
	}
	for _, test := range tests {
		p := mustPattern(t, test.code)
		bs, ok := Match(p, test.v)
		if !ok {
			t.Errorf("%s: no match", test.code)
			continue
		}
		binders := parse.Binders(p)
		if len(binders) != len(bs) {
			t.Errorf("%s: bound %d names, Binders reports %d", test.code, len(bs), len(binders))
			continue
		}
		for i, b := range binders {
			if bs[i].Name != b.Name || bs[i].Mutable != b.Mutable {
				t.Errorf("%s: binding %d is %+v, Binders reports %+v", test.code, i, bs[i], b)
			}
		}
	}
}

func TestBindingsLookup(t *testing.T) {
	bs := Bindings{{Name: "a", Value: int64(1)}}
	if v, ok := bs.Lookup("a"); !ok || v != int64(1) {
		t.Errorf("Lookup(a) = %v, %v", v, ok)
	}
	if _, ok := bs.Lookup("b"); ok {
		t.Errorf("Lookup(b) found a binding")
	}
}
