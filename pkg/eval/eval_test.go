package eval_test

import (
	"math"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	. "github.com/paiml/ruchy-sub012/pkg/eval/evaltest"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func TestScenarios(t *testing.T) {
	Test(t,
		That("(1 + 2) * (3 - 4) / 5 + 6 % 7").Evals(6),
		That("let [a, ..rest, z] = [1,2,3,4,5]; (a, rest, z)").
			Evals(vals.Tuple{1, vals.MakeList(int64(2), int64(3), int64(4)), 5}),
		That("let x = 10; let f = |y| x + y; let x = 99; f(5)").Evals(15),
		That(`match 4 { 1 | 2 => "a", n if n > 3 => "b", _ => "c" }`).Evals("b"),
		That(`let pi = 3.14159; f"pi ≈ {pi:.2}"`).Evals("pi ≈ 3.14"),
		That("let x = None; x ?? 42").Evals(42),
	)
}

func TestArithmetic(t *testing.T) {
	Test(t,
		That("7 / 2").Evals(3),
		That("-7 / 2").Evals(-3),
		That("7 % -3").Evals(1),
		That("2 ** 10").Evals(1024),
		That("1 + 2.5").Evals(3.5),
		That("1.0 / 0.0").Evals(math.Inf(1)),
		That("-1.0 / 0.0").Evals(math.Inf(-1)),
		That("0.0 / 0.0").Evals(math.NaN()),
		That("1 / 0").Throws(eval.DivisionByZero),
		That("1 % 0").Throws(eval.DivisionByZero),
		That("6 & 3").Evals(2),
		That("6 | 3").Evals(7),
		That("6 ^ 3").Evals(5),
		That("1 << 4").Evals(16),
		That(`"ab" + "cd"`).Evals("abcd"),
		That(`"ab" * 3`).Evals("ababab"),
		That("[1, 2] + [3]").Evals(ListOf(1, 2, 3)),
		That(`1 + "a"`).Throws(eval.TypeError, "unsupported operand types"),
		That(`1 < "a"`).Throws(eval.TypeError, "cannot compare"),
	)
}

func TestOverflow(t *testing.T) {
	Test(t,
		That("i64::MAX + 1").Evals(int64(math.MinInt64)),
		That("-i64::MIN").Evals(int64(math.MinInt64)),
		That("i64::MAX + 1").
			WithOptions(eval.Options{Overflow: eval.OverflowChecked}).
			Throws(eval.Overflow),
		That("i64::MAX * 2").
			WithOptions(eval.Options{Overflow: eval.OverflowChecked}).
			Throws(eval.Overflow),
		That("(i64::MAX).checked_add(1)").Evals(vals.None),
		That("(1).checked_add(1)").Evals(vals.MakeSome(int64(2))),
	)
}

func TestComparisonAndLogic(t *testing.T) {
	Test(t,
		That("1 == 1.0").Evals(true),
		That("[1, 2] == [1, 2]").Evals(true),
		That(`"a" < "b"`).Evals(true),
		That("(1, 2) != (1, 3)").Evals(true),
		That("true && false || true").Evals(true),
		That("!true").Evals(false),
		// Short-circuiting
		That(`fun side() { throw "evaluated" }; false && side()`).Evals(false),
		That(`fun side() { throw "evaluated" }; true || side()`).Evals(true),
		That(`fun side() { throw "evaluated" }; true && side()`).
			ThrowsError(ThrownValue("evaluated")),
	)
}

func TestIndexAndSlice(t *testing.T) {
	Test(t,
		That(`"hello"[-1]`).Evals("o"),
		That("[1, 2, 3][-1]").Evals(3),
		That("[1, 2, 3][0]").Evals(1),
		That("[1, 2, 3][3]").Throws(eval.IndexOutOfRange),
		That("[1, 2, 3][-4]").Throws(eval.IndexOutOfRange),
		That("[][0]").Throws(eval.IndexOutOfRange),
		That("[1, 2, 3, 4][1..3]").Evals(ListOf(2, 3)),
		That("[1, 2, 3, 4][..2]").Evals(ListOf(1, 2)),
		That("[1, 2, 3, 4][2..]").Evals(ListOf(3, 4)),
		That("[1, 2, 3, 4][1..=2]").Evals(ListOf(2, 3)),
		That(`"hello"[1..3]`).Evals("el"),
		That("(1, 2).1").Evals(2),
		That(`let o = {a: 1, b: 2}; o.b`).Evals(2),
		That(`let o = {a: 1}; o["a"]`).Evals(1),
		That(`let o = {a: 1}; o["b"]`).Throws(eval.UnknownField),
	)
}

func TestBindings(t *testing.T) {
	Test(t,
		That("let x = 1; x = 2").Throws(eval.MutabilityViolation),
		That("let mut x = 1; x = 2; x").Evals(2),
		That("let mut x = 1; x += 4; x").Evals(5),
		That("let mut xs = [1, 2]; xs[0] = 9; xs").Evals(ListOf(9, 2)),
		That("y").Throws(eval.UndefinedVariable, "y"),
		That("let (a, b) = (1, 2); a + b").Evals(3),
		That("let (a, b) = (1, 2, 3)").Throws(eval.PatternBindArityMismatch),
		That("let x = 1 in x * 2").Evals(2),
		That("fun f(o) { let Some(v) = o else { return 7 }; v }; f(None)").Evals(7),
		That("fun f(o) { let Some(v) = o else { return 7 }; v }; f(Some(1))").Evals(1),
	)
}

func TestControlFlow(t *testing.T) {
	Test(t,
		That("if 1 > 2 { 1 } else { 2 }").Evals(2),
		That("if false { 1 }").Evals(nil),
		That("if let Some(x) = Some(3) { x } else { 0 }").Evals(3),
		That("let mut s = 0; for i in 0..5 { s += i }; s").Evals(10),
		That("let mut s = 0; for i in 1..=5 { s += i }; s").Evals(15),
		That("let mut s = 0; for x in [1, 2, 3] { if x == 2 { continue }; s += x }; s").Evals(4),
		That("let mut i = 0; while i < 10 { i += 1 }; i").Evals(10),
		That("loop { break 5 }").Evals(5),
		That("let mut n = 0; 'outer: for i in 0..3 { for j in 0..3 { if j == 1 { continue 'outer }; n += 1 } }; n").Evals(3),
		That("let mut o = Some(3); let mut n = 0; while let Some(k) = o { n += k; o = if k > 1 { Some(k - 1) } else { None } }; n").Evals(6),
		That("match 7 { 1..=5 => 1, _ => 2 }").Evals(2),
		That("match 3 { 1 => 1 }").Throws(eval.MatchFailure),
		That("match (1, 2) { (a, b) => a + b }").Evals(3),
		That("match [1, 2, 3] { [first, ..rest] => rest }").Evals(ListOf(2, 3)),
		That("match Some(5) { n @ Some(_) => n, None => None }").Evals(vals.MakeSome(int64(5))),
	)
}

func TestFunctions(t *testing.T) {
	Test(t,
		That("fun add(a, b) { a + b }; add(1, 2)").Evals(3),
		That("fun fact(n) { if n <= 1 { 1 } else { n * fact(n - 1) } }; fact(10)").Evals(3628800),
		That("fun f(a, b = 10) { a + b }; f(1)").Evals(11),
		That("fun f(x) { return x * 2; x }; f(4)").Evals(8),
		That("fun f(a) { a }; f(1, 2)").Throws(eval.TypeError),
		That("let add = |a, b| a + b; add(2, 3)").Evals(5),
		That("(|x| x * x)(7)").Evals(49),
		That("fun twice(f, x) { f(f(x)) }; twice(|x| x + 3, 1)").Evals(7),
		That("5 |> |x| x + 1").Evals(6),
		That("fun inc(x) { x + 1 }; 1 |> inc |> inc").Evals(3),
		That("fun make() { let mut n = 0; || { n += 1; n } }; let c = make(); c(); c()").Evals(2),
		That("fun f(n) { f(n + 1) }; f(0)").
			WithOptions(eval.Options{MaxCallDepth: 50}).
			Throws(eval.StackOverflow),
	)
}

func TestErrors(t *testing.T) {
	Test(t,
		That(`try { throw "boom" } catch e { e }`).Evals("boom"),
		That(`throw "boom"`).ThrowsError(ThrownValue("boom")),
		That("try { 1 / 0 } catch (e: DivisionByZero) { -1 }").Evals(-1),
		That(`try { 1 / 0 } catch e { e.kind }`).Evals("DivisionByZero"),
		That("let mut n = 0; try { 1 } finally { n = 5 }; n").Evals(5),
		That("fun f() { let v = Err(3)?; Ok(v) }; f()").Evals(vals.MakeErr(int64(3))),
		That("fun f() { let v = Ok(3)?; Ok(v + 1) }; f()").Evals(vals.MakeOk(int64(4))),
		That("fun f() { let v = None?; Some(v) }; f()").Evals(vals.None),
		That("1 +").DoesNotParse(),
	)
}

func TestDataTypes(t *testing.T) {
	Test(t,
		That("struct Point { x: i32, y: i32 }\nlet p = Point { x: 1, y: 2 }\np.x + p.y").Evals(3),
		That("struct P { x: i32 }\nP { y: 1 }").Throws(eval.UnknownField),
		That("struct P { x: i32 }\nlet p = P { x: 1 }\np.z").Throws(eval.UnknownField),
		That("struct P { x: i32, y: i32 }\nimpl P { fun sum(&self) -> i32 { self.x + self.y } }\nlet p = P { x: 3, y: 4 }\np.sum()").Evals(7),
		That("struct Pair(i32, i32)\nlet p = Pair(1, 2)\np.0 + p.1").Evals(3),
		That("enum Color { Red, Green }\nmatch Color::Green { Color::Red => 1, Color::Green => 2 }").Evals(2),
		That("enum Shape { Circle(f64), Square(f64) }\nlet s = Shape::Square(2.0)\nmatch s { Shape::Circle(r) => r, Shape::Square(w) => w * w }").Evals(4.0),
		That("class Counter {\n    count: i32 = 0\n    fun inc(&mut self) { self.count += 1 }\n}\nlet c = Counter::new()\nc.inc()\nc.inc()\nc.count").Evals(2),
		That("class Acc {\n    total: i32\n    new(start) { self.total = start }\n}\nAcc::new(5).total").Evals(5),
		That("let s = {1, 2, 2, 3}; s.len()").Evals(3),
		That("[x * 2 for x in [1, 2, 3] if x > 1]").Evals(ListOf(4, 6)),
		That("let s = {x % 2 for x in [1, 2, 3]}; s.len()").Evals(2),
		That(`let o = {a: 1, ...{b: 2}}; o`).Evals(ObjectContainingPairs("a", 1, "b", 2)),
		That("[0; 3]").Evals(ListOf(0, 0, 0)),
	)
}

func TestInterpolation(t *testing.T) {
	Test(t,
		That(`let n = 5; f"n = {n}"`).Evals("n = 5"),
		That(`let n = 5; f"{n:>4}|"`).Evals("   5|"),
		That(`let n = 5; f"{n:<4}|"`).Evals("5   |"),
		That(`let n = 5; f"{n:03}"`).Evals("005"),
		That(`let n = 255; f"{n:x}"`).Evals("ff"),
		That(`let n = 255; f"{n:#x}"`).Evals("0xff"),
		That(`let s = "hi"; f"{s:?}"`).Evals(`"hi"`),
		That(`f"{{}}"`).Evals("{}"),
		That(`let xs = [1, 2]; f"{xs}"`).Evals("[1, 2]"),
	)
}

func TestInterpreterAPI(t *testing.T) {
	ip := eval.New()
	defer ip.Close()
	ip.SetGlobalBinding("answer", int64(42))
	v, err := ip.EvalString("answer + 1")
	if err != nil || v != int64(43) {
		t.Errorf("got %v, %v, want 43, nil", v, err)
	}
	if _, ok := ip.GlobalBindings()["answer"]; !ok {
		t.Errorf("global binding answer missing")
	}

	ip.PushScope()
	if _, err := ip.EvalString("let inner = 1"); err != nil {
		t.Fatal(err)
	}
	if !ip.PopScope() {
		t.Errorf("PopScope returned false with a scope pushed")
	}
	if _, err := ip.EvalString("inner"); eval.KindOf(err) != eval.UndefinedVariable {
		t.Errorf("got error %v after PopScope, want UndefinedVariable", err)
	}

	if _, err := ip.EvalString("let user = 1"); err != nil {
		t.Fatal(err)
	}
	ip.ClearUserVariables()
	if _, err := ip.EvalString("user"); eval.KindOf(err) != eval.UndefinedVariable {
		t.Errorf("got error %v after ClearUserVariables, want UndefinedVariable", err)
	}
	if v, err := ip.EvalString("len([1, 2])"); err != nil || v != int64(2) {
		t.Errorf("builtins lost after ClearUserVariables: %v, %v", v, err)
	}
}

func TestDeterminism(t *testing.T) {
	code := "let xs = [3, 1, 2]; xs.sorted().map(|x| x * x).fold(0, |a, b| a + b)"
	var first any
	for i := 0; i < 3; i++ {
		ip := eval.New()
		v, err := ip.EvalString(code)
		ip.Close()
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = v
		} else if !vals.Equal(v, first) {
			t.Errorf("run %d got %v, first run got %v", i, v, first)
		}
	}
	if first != int64(14) {
		t.Errorf("got %v, want 14", first)
	}
}
