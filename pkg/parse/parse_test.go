package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/tt"
)

// reprint parses code and prints it back in canonical form.
func reprint(code string) string {
	tree, err := Parse(Source{Name: "[test]", Code: code})
	if err != nil {
		return "error: " + err.Error()
	}
	return strings.TrimSuffix(PrintProgram(tree.Root), "\n")
}

func TestParse_Canonical(t *testing.T) {
	tt.Test(t, tt.Fn("reprint", reprint), tt.Table{
		// Precedence and associativity
		Args("1 + 2 * 3").Rets("1 + 2 * 3"),
		Args("(1 + 2) * 3").Rets("(1 + 2) * 3"),
		Args("a - (b - c)").Rets("a - (b - c)"),
		Args("(a - b) - c").Rets("a - b - c"),
		Args("2 ** 3 ** 2").Rets("2 ** 3 ** 2"),
		Args("(2 ** 3) ** 2").Rets("(2 ** 3) ** 2"),
		Args("x = y = 1").Rets("x = y = 1"),
		Args("x += 2 * y").Rets("x += 2 * y"),
		Args("-x.abs()").Rets("-x.abs()"),
		Args("(-x).abs()").Rets("(-x).abs()"),
		Args("- -1").Rets("- -1"),
		Args("!a && b || c").Rets("!a && b || c"),
		Args("a |> f |> g").Rets("a |> f |> g"),
		Args("x ?? y || z").Rets("x ?? y || z"),
		Args("(x ?? y) || z").Rets("(x ?? y) || z"),
		Args("a as i64 + 1").Rets("a as i64 + 1"),
		Args("1 << 2 + 3 & 4").Rets("1 << 2 + 3 & 4"),
		// Postfix
		Args("xs[1..]").Rets("xs[1..]"),
		Args("xs[..=2]").Rets("xs[..=2]"),
		Args("xs[-1]").Rets("xs[-1]"),
		Args("t.0.1").Rets("t.0.1"),
		Args("obj.method::<i32>(1, 2)").Rets("obj.method::<i32>(1, 2)"),
		Args("f(x)?.y").Rets("f(x)?.y"),
		Args("x++ + --y").Rets("x++ + --y"),
		Args("fut.await").Rets("await fut"),
		Args("Vec::<i32>::new()").Rets("Vec::new()"),
		// Literals
		Args("0xff_ff").Rets("0xffff"),
		Args("2.5e3f32").Rets("2.5e3f32"),
		Args(`'x'`).Rets(`'x'`),
		Args(":ok").Rets(":ok"),
		Args("()").Rets("()"),
		Args("(1,)").Rets("(1,)"),
		Args("(1, 2)").Rets("(1, 2)"),
		Args("[1, 2,]").Rets("[1, 2]"),
		Args("[0; 3]").Rets("[0; 3]"),
		Args("{}").Rets("{}"),
		Args(`{a: 1, "b c": 2, ...rest}`).Rets(`{a: 1, "b c": 2, ...rest}`),
		Args("{1, 2}").Rets("{1, 2}"),
		Args("{x,}").Rets("{x,}"),
		Args("Point { x: 1, y }").Rets("Point { x: 1, y: y }"),
		Args("Point { x: 1, ..p }").Rets("Point { x: 1, ..p }"),
		Args(`f"a{b:>4}c{{}}"`).Rets(`f"a{b:>4}c{{}}"`),
		Args("Some(1) ?? None").Rets("Some(1) ?? None"),
		Args("Ok(())").Rets("Ok(())"),
		// Comprehensions
		Args("[x * 2 for x in xs if x > 1]").Rets("[x * 2 for x in xs if x > 1]"),
		Args("{x for x in xs}").Rets("{x for x in xs}"),
		Args("{k: v for (k, v) in pairs}").Rets("{k: v for (k, v) in pairs}"),
		// Macros and dataframes
		Args(`println!("{}", x)`).Rets(`println!("{}", x)`),
		Args("vec![0; 3]").Rets("vec![0; 3]"),
		Args(`df![a => [1, 2], "b" => [3, 4]]`).Rets("df![a => [1, 2], b => [3, 4]]"),
		Args(`df![a => [1]].select("a")`).Rets(`df![a => [1]].select("a")`),
		// Lambdas
		Args("|x, y| x + y").Rets("|x, y| x + y"),
		Args("|| 1").Rets("|| 1"),
		Args("async |x| await f(x)").Rets("async |x| await f(x)"),
		Args("(|x| x)(1)").Rets("(|x| x)(1)"),
		// Actors
		Args("send c <- Inc").Rets("c <- Inc"),
		Args("c <? Get").Rets("c <? Get"),
		Args("call c <- Get timeout 100").Rets("call c <- Get timeout 100"),
		Args("spawn Counter { n: 0 }").Rets("spawn Counter { n: 0 }"),
		// Statements
		Args("let x = 1\nx + 1").Rets("let x = 1\nx + 1"),
		Args("let x = 1; x").Rets("let x = 1\nx"),
		Args("a; b;").Rets("a\nb\n()"),
		Args("let mut x: i32 = 0").Rets("let mut x: i32 = 0"),
		Args("let (a, mut b) = t").Rets("let (a, mut b) = t"),
		Args("let Some(x) = o else { return 0 }").Rets("let Some(x) = o else {\n    return 0\n}"),
		Args("let x = 1 in x * 2").Rets("let x = 1 in x * 2"),
		Args("const N = 10").Rets("let N = 10"),
		Args("a\n.b()").Rets("a.b()"),
		Args("a\n- b").Rets("a\n-b"),
		Args("a\n|> f").Rets("a |> f"),
		Args("f\n(1)").Rets("f\n1"),
		// Control flow
		Args("if a { 1 } else if b { 2 } else { 3 }").Rets(
			"if a {\n    1\n} else if b {\n    2\n} else {\n    3\n}"),
		Args("if x == (P { a: 1 }) { 1 }").Rets("if (x == P { a: 1 }) {\n    1\n}"),
		Args("if let Some(x) = o { x }").Rets("if let Some(x) = o {\n    x\n}"),
		Args("match x { Some(n) if n > 0 => n, _ => 0 }").Rets(
			"match x {\n    Some(n) if n > 0 => n,\n    _ => 0,\n}"),
		Args("'outer: for i in 0..3 { break 'outer }").Rets(
			"'outer: for i in 0..3 {\n    break 'outer\n}"),
		Args("while i < 10 { i += 1 }").Rets("while i < 10 {\n    i += 1\n}"),
		Args("loop { break 5 }").Rets("loop {\n    break 5\n}"),
		Args("for (k, v) in m { continue }").Rets("for (k, v) in m {\n    continue\n}"),
		Args("try { f()? } catch (e: TypeError) { 0 } finally { done() }").Rets(
			"try {\n    f()?\n} catch (e: TypeError) {\n    0\n} finally {\n    done()\n}"),
		Args("try { throw \"x\" } catch e { e }").Rets(
			"try {\n    throw \"x\"\n} catch (e) {\n    e\n}"),
		// Declarations
		Args("fun add<T: Num>(a: T, b: T = 1) -> T { a + b }").Rets(
			"fun add<T: Num>(a: T, b: T = 1) -> T {\n    a + b\n}"),
		Args("pub async fn f() {}").Rets("pub async fun f() {}"),
		Args("struct P(i32, String)").Rets("struct P(i32, String)"),
		Args("fun f(xs: Vec<Vec<i32>>) -> Option<i32> { None }").Rets(
			"fun f(xs: Vec<Vec<i32>>) -> Option<i32> {\n    None\n}"),
		Args("fun f(g: fn(i32) -> bool, t: (i32, &str), a: [u8; 4], o: i32?) {}").Rets(
			"fun f(g: fn(i32) -> bool, t: (i32, &str), a: [u8; 4], o: i32?) {}"),
		Args("use std::collections::{HashMap, HashSet}").Rets(
			"import std::collections::{HashMap, HashSet}"),
		Args("import math as m").Rets("import math as m"),
		Args("export { a, b }").Rets("export { a, b }"),
		Args("#[derive(Debug)]\nstruct A { x: i32 }").Rets(
			"#[derive(Debug)]\nstruct A {\n    x: i32,\n}"),
	})
}

func TestParse_Patterns(t *testing.T) {
	code := "match v { [first, ..rest] => 1, Point { x, y: 0, z = 5, .. } => 2, " +
		"1..=5 | -3 => 3, Color::Red | Red => 4, n @ Some(_) => 5, " +
		"Shape::Circle(r) => 6, (a, _) => 7, Ok(x) | Err(x) => 8, \"s\" => 9, None => 10 }"
	want := "match v {\n" +
		"    [first, ..rest] => 1,\n" +
		"    Point {x, y: 0, z = 5, ..} => 2,\n" +
		"    1..=5 | -3 => 3,\n" +
		"    Color::Red | Red => 4,\n" +
		"    n @ Some(_) => 5,\n" +
		"    Shape::Circle(r) => 6,\n" +
		"    (a, _) => 7,\n" +
		"    Ok(x) | Err(x) => 8,\n" +
		"    \"s\" => 9,\n" +
		"    None => 10,\n" +
		"}"
	if got := reprint(code); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParse_Structure(t *testing.T) {
	root, err := New("let [a, ..rest, z] = xs; (a, rest, z)").Parse()
	if err != nil {
		t.Fatal(err)
	}
	block := root.Kind.(*Block)
	if len(block.Exprs) != 1 {
		t.Fatalf("got %d top-level items, want 1", len(block.Exprs))
	}
	let, ok := block.Exprs[0].Kind.(*LetPattern)
	if !ok {
		t.Fatalf("got %T, want *LetPattern", block.Exprs[0].Kind)
	}
	wantBinders := []Binding{{"a", false}, {"rest", false}, {"z", false}}
	if diff := cmp.Diff(wantBinders, Binders(let.Pattern)); diff != "" {
		t.Errorf("binders (-want +got):\n%s", diff)
	}
	body := let.Body.Kind.(*Block)
	if _, ok := body.Exprs[0].Kind.(*Tuple); !ok {
		t.Errorf("body is %T, want *Tuple", body.Exprs[0].Kind)
	}
}

func TestParse_Ranges(t *testing.T) {
	code := "foo(1 + 2)"
	root, err := New(code).Parse()
	if err != nil {
		t.Fatal(err)
	}
	Walk(root, func(e *Expr) bool {
		if e.From > e.To || e.To > len(code) {
			t.Errorf("invalid range %v for %T", e.Ranging, e.Kind)
		}
		return true
	})
	call := root.Kind.(*Block).Exprs[0]
	arg := call.Kind.(*Call).Args[0]
	if code[arg.From:arg.To] != "1 + 2" {
		t.Errorf("argument covers %q, want %q", code[arg.From:arg.To], "1 + 2")
	}
}

func TestParse_ClassAndActor(t *testing.T) {
	code := `
sealed class Counter : Base + Show {
    pub count: i32 = 0
    const MAX: i32 = 10
    new(start: i32) { self.count = start }
    new named(name: String) { self.count = 0 }
    static fun zero() -> Counter { Counter::new(0) }
    fun inc(&mut self) { self.count += 1 }
}
actor Pinger {
    count: i32 = 0
    fun on_start() { print("up") }
    receive {
        Ping(n) => self.count += n,
        Stop => ()
    }
}
supervisor Root {
    strategy: OneForAll
    max_restarts: 5
    child p: Pinger(1) restart: Transient shutdown: Brutal
    child q: Pinger
}`
	root, err := New(code).Parse()
	if err != nil {
		t.Fatal(err)
	}
	items := root.Kind.(*Block).Exprs
	class := items[0].Kind.(*Class)
	if !class.Sealed || class.Superclass != "Base" || !cmp.Equal(class.Traits, []string{"Show"}) {
		t.Errorf("got class header %+v", class)
	}
	if len(class.Fields) != 1 || len(class.Constants) != 1 || len(class.Constructors) != 2 || len(class.Methods) != 2 {
		t.Errorf("got %d fields, %d constants, %d constructors, %d methods",
			len(class.Fields), len(class.Constants), len(class.Constructors), len(class.Methods))
	}
	if class.Constructors[1].Name != "named" {
		t.Errorf("second constructor named %q, want named", class.Constructors[1].Name)
	}
	if class.Methods[0].Kind.(*Function).IsMethod() || !class.Methods[1].Kind.(*Function).IsMethod() {
		t.Errorf("IsMethod wrong for static and instance methods")
	}

	actor := items[1].Kind.(*Actor)
	if len(actor.State) != 1 || len(actor.Methods) != 1 || len(actor.Handlers) != 2 {
		t.Errorf("got actor %+v", actor)
	}

	sup := items[2].Kind.(*Supervisor)
	want := &Supervisor{
		Name: "Root", Strategy: "OneForAll", MaxRestarts: 5, MaxSeconds: 5,
		Children: []ChildSpec{
			{ID: "p", Actor: "Pinger", Restart: "Transient", Shutdown: "Brutal"},
			{ID: "q", Actor: "Pinger", Restart: "Permanent", Shutdown: "5000"},
		},
	}
	opts := cmp.Options{
		cmpopts.IgnoreTypes(diag.Ranging{}),
		cmpopts.IgnoreFields(ChildSpec{}, "Args"),
	}
	if diff := cmp.Diff(want, sup, opts); diff != "" {
		t.Errorf("supervisor (-want +got):\n%s", diff)
	}
}

func TestParse_Derive(t *testing.T) {
	root, err := New("#[derive(Debug, Clone)]\nenum E { A, B(i32), C { x: i32 }, D = 4 }").Parse()
	if err != nil {
		t.Fatal(err)
	}
	e := root.Kind.(*Block).Exprs[0]
	enum := e.Kind.(*Enum)
	if diff := cmp.Diff([]string{"Debug", "Clone"}, enum.Derives); diff != "" {
		t.Errorf("derives (-want +got):\n%s", diff)
	}
	kinds := []VariantKind{UnitVariant, TupleVariant, StructVariant, UnitVariant}
	for i, v := range enum.Variants {
		if v.Kind != kinds[i] {
			t.Errorf("variant %s has kind %v, want %v", v.Name, v.Kind, kinds[i])
		}
	}
	if d := enum.Variants[3].Discriminant; d == nil || *d != 4 {
		t.Errorf("discriminant of D is %v, want 4", d)
	}
	if len(e.Attributes) != 1 || e.Attributes[0].Name != "derive" {
		t.Errorf("got attributes %v", e.Attributes)
	}
}

func errorKinds(code string) []string {
	_, err := New(code).Parse()
	var kinds []string
	for _, e := range diag.UnpackErrors(err) {
		kinds = append(kinds, e.Type)
	}
	return kinds
}

func TestParse_Errors(t *testing.T) {
	tt.Test(t, tt.Fn("errorKinds", errorKinds), tt.Table{
		Args("1 + 2").Rets([]string(nil)),
		Args("let = 5").Rets([]string{ExpectedConstruct}),
		Args("(1 + 2").Rets([]string{UnbalancedDelimiter}),
		Args("foo(1, 2").Rets([]string{UnbalancedDelimiter}),
		Args(")").Rets([]string{UnbalancedDelimiter}),
		Args("x $ 1").Rets([]string{IllegalCharacter, UnexpectedToken}),
		Args(`"abc`).Rets([]string{UnterminatedString}),
		Args("let = 1\nlet = 2\n3").Rets([]string{ExpectedConstruct, ExpectedConstruct}),
		Args("a b").Rets([]string{UnexpectedToken}),
		Args("x = = 1").Rets([]string{UnexpectedToken}),
		Args("1 = 2").Rets([]string{ExpectedConstruct}),
	})
}

func TestParse_Recovery(t *testing.T) {
	code := "let a = ;\nlet b = 2\nfun f() { 1 + }\nb"
	root, err := New(code).Parse()
	errs := diag.UnpackErrors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	if got := PrintProgram(root); !strings.Contains(got, "let b = 2\n") || !strings.Contains(got, "fun f() {}") {
		t.Errorf("recovered program is:\n%s", got)
	}
	if errs[0].Context.Describe() != "[input]:1:9" {
		t.Errorf("first error at %s, want [input]:1:9", errs[0].Context.Describe())
	}
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Kind.(*Binary); !ok {
		t.Errorf("got %T, want *Binary", e.Kind)
	}
	_, err = ParseExpr("1 2")
	if err == nil {
		t.Errorf("ParseExpr(\"1 2\") returned no error")
	}
}
