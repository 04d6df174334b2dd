package types

import (
	"strings"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/parse"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

var Args = tt.Args

// inferCode infers the type of a program and returns it as a string, or
// "error: <Kind>" for the first type error.
func inferCode(code string) string {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		return "parse error: " + err.Error()
	}
	c := NewContext()
	c.SetSource(tree.Source)
	t, err := c.Infer(tree.Root)
	if err != nil {
		return "error: " + KindOf(err)
	}
	return t.String()
}

func TestInfer(t *testing.T) {
	tt.Test(t, tt.Fn("inferCode", inferCode), tt.Table{
		// Literals and arithmetic
		Args("1 + 2").Rets("Int"),
		Args("1 + 2.0").Rets("Float"),
		Args("2.5 * 4").Rets("Float"),
		Args(`"a" + "b"`).Rets("String"),
		Args(`"ab" * 3`).Rets("String"),
		Args("1 < 2 && true").Rets("Bool"),
		Args("(1, \"x\")").Rets("(Int, String)"),
		Args("[1, 2, 3]").Rets("List<Int>"),
		Args("[1, 2.5]").Rets("List<Float>"),
		Args("Some(1)").Rets("Option<Int>"),
		Args("0..10").Rets("List<Int>"),
		Args(`f"x = {1}"`).Rets("String"),
		// Let-polymorphism
		Args("let id = |x| x\nid(1)\nid(\"a\")").Rets("String"),
		Args("let id = |x| x\n(id(1), id(true))").Rets("(Int, Bool)"),
		Args("let f = |x| x + 1\nf(2)").Rets("Int"),
		// Functions
		Args("fn add(a: i32, b: i32) -> i32 { a + b }\nadd(1, 2)").Rets("Int"),
		Args("fn fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }\nfact(5)").Rets("Int"),
		Args("fn g(a: i32, b: i32 = 2) -> i32 { a + b }\ng(1)").Rets("Int"),
		Args("fn f(a: i32) -> i32 { a }\nf(1, 2)").Rets("error: ArityMismatch"),
		Args("fn f(a: i32) -> i32 { a }\nf(\"s\")").Rets("error: TypeMismatch"),
		// Control flow
		Args("if true { 1 } else { 2 }").Rets("Int"),
		Args("if true { 1 } else { \"a\" }").Rets("error: TypeMismatch"),
		Args("if 1 { 2 } else { 3 }").Rets("error: TypeMismatch"),
		Args("let mut s = 0\nfor i in 0..3 { s += i }\ns").Rets("Int"),
		Args("let mut s = \"\"\nfor c in \"ab\" { s = s + c }\ns").Rets("String"),
		// Names
		Args("x + 1").Rets("error: UndefinedVariable"),
		// Methods
		Args("[1, 2].len()").Rets("Int"),
		Args(`"ab".chars()`).Rets("List<Char>"),
		Args("[1].pop()").Rets("Option<Int>"),
		Args("[1, 2].map(|x| x * 2)").Rets("List<Int>"),
		Args("[1, 2].filter(|x| x > 1)").Rets("List<Int>"),
		Args(`"a,b".split(",")`).Rets("List<String>"),
		// Structs, enums and patterns
		Args("struct P { x: i32 }\nlet p = P { x: 1 }\np.x").Rets("Int"),
		Args("struct P { x: i32 }\nlet p = P { x: 1 }\np.y").Rets("error: UnknownField"),
		Args("struct P { x: i32 }\nP { y: 1 }").Rets("error: UnknownField"),
		Args("struct Pair(i32, i32)\nlet p = Pair(1, 2)\np.0 + p.1").Rets("Int"),
		Args("struct P { x: i32, y: i32 }\nimpl P { fun sum(&self) -> i32 { self.x + self.y } }\n" +
			"let p = P { x: 3, y: 4 }\np.sum()").Rets("Int"),
		Args("enum Shape { Circle(f64), Square(f64) }\nlet s = Shape::Square(2.0)\n" +
			"match s { Shape::Circle(r) => r, Shape::Square(w) => w * w }").Rets("Float"),
		Args("match Some(1) { Some(n) => n + 1, None => 0 }").Rets("Int"),
		Args("match [1, 2] { [first, ..rest] => rest, _ => [] }").Rets("List<Int>"),
		Args("let (a, b) = (1, \"x\")\nb").Rets("String"),
		Args("match Ok(1) { Ok(x) | Err(x) => x }").Rets("Int"),
		Args("match (1, 2) { (0, n) | (n, 0) | (_, n) => n }").Rets("Int"),
		Args("let r = Err(1)\nmatch r { Ok(x) | Err(_) => x }").Rets("error: OrPatternBinders"),
		Args("match Some(1) { None | Some(y) => 0 }").Rets("error: OrPatternBinders"),
		Args("match Ok(1) { Ok(x) | Err(y) => 0 }").Rets("error: OrPatternBinders"),
	})
}

func TestInfer_Generalizes(t *testing.T) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "let id = |x| x"})
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext()
	if _, err := c.Infer(tree.Root); err != nil {
		t.Fatal(err)
	}
	sc, ok := c.Lookup("id")
	if !ok {
		t.Fatal("id not bound")
	}
	if got := sc.String(); got != "forall a. fn(a) -> a" {
		t.Errorf("id has type %s", got)
	}
}

func TestInfer_KeepsTopLevelBindings(t *testing.T) {
	c := NewContext()
	for _, code := range []string{"fn twice(x: i64) -> i64 { x * 2 }", "let y = twice(3)"} {
		tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Infer(tree.Root); err != nil {
			t.Fatalf("%s: %v", code, err)
		}
	}
	sc, ok := c.Lookup("y")
	if !ok || sc.String() != "Int" {
		t.Errorf("y: %v, %v", sc, ok)
	}
	sc, ok = c.Lookup("twice")
	if !ok || sc.String() != "fn(Int) -> Int" {
		t.Errorf("twice: %v, %v", sc, ok)
	}
}

func TestInfer_RecursionLimit(t *testing.T) {
	c := NewContext()
	c.RecursionLimit = 5
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "1 + (2 + (3 + (4 + (5 + 6))))"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Infer(tree.Root)
	if KindOf(err) != RecursionLimit {
		t.Fatalf("got %v, want a RecursionLimit error", err)
	}
	tree, err = parse.Parse(parse.Source{Name: "[test]", Code: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if typ, err := c.Infer(tree.Root); err != nil || typ.String() != "Int" {
		t.Errorf("after bailout: %v, %v", typ, err)
	}
}

func TestInfer_UnknownMethodWarns(t *testing.T) {
	c := NewContext()
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "[1].frobnicate()"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Infer(tree.Root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws := c.Warnings()
	if len(ws) != 1 || ws[0].Type != UnknownMethod {
		t.Errorf("warnings: %v", ws)
	}
}

func TestInfer_ErrorsPointAtSource(t *testing.T) {
	code := "let a = 1\nif true { a } else { \"no\" }"
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext()
	c.SetSource(tree.Source)
	_, err = c.Infer(tree.Root)
	if err == nil {
		t.Fatal("no error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "[test]") || !strings.Contains(msg, "cannot unify") {
		t.Errorf("error message %q", msg)
	}
}

func TestInfer_RecordsExpressionTypes(t *testing.T) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "1.5"})
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext()
	if _, err := c.Infer(tree.Root); err != nil {
		t.Fatal(err)
	}
	if typ, ok := c.TypeOf(tree.Root); !ok || typ != Float {
		t.Errorf("TypeOf(root) -> %v, %v", typ, ok)
	}
}

func TestInfer_OrPatternNamesMissingBinders(t *testing.T) {
	code := "match (1, 2) { (a, b) | (a, _) => a }"
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext()
	c.SetSource(tree.Source)
	_, err = c.Infer(tree.Root)
	if KindOf(err) != OrPatternBinders {
		t.Fatalf("got %v, want an OrPatternBinders error", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "does not bind b") {
		t.Errorf("error message %q does not name the missing binder", msg)
	}
}

func TestInfer_MismatchShowsDefaultedNumerics(t *testing.T) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: `if true { 1 } else { "a" }`})
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext()
	c.SetSource(tree.Source)
	_, err = c.Infer(tree.Root)
	if err == nil {
		t.Fatal("no error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "cannot unify Int with String") {
		t.Errorf("error message %q does not show the defaulted type", msg)
	}
}
