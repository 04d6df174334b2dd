package eval_test

import (
	"math"
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	. "github.com/paiml/ruchy-sub012/pkg/eval/evaltest"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func TestBuiltins_Output(t *testing.T) {
	Test(t,
		That(`print("a", 1)`).Prints("a 1"),
		That(`println("x")`).Prints("x\n"),
		That(`println("{} + {} = {}", 1, 2, 3)`).Prints("1 + 2 = 3\n"),
		That(`println()`).Prints("\n"),
		That(`eprintln("oops")`).PrintsStderrWith("oops\n"),
		That(`format("{:>3}", 7)`).Evals("  7"),
	)
}

func TestBuiltins_Conversion(t *testing.T) {
	Test(t,
		That("len([1, 2, 3])").Evals(3),
		That(`len("héllo")`).Evals(5),
		That("len(5)").Throws(eval.TypeError),
		That("type_of(1)").Evals("integer"),
		That("type_of(1.5)").Evals("float"),
		That(`type_of("s")`).Evals("string"),
		That("type_of(Ok(1))").Evals("Result"),
		That("str(12)").Evals("12"),
		That("int(3.9)").Evals(3),
		That(`int("42")`).Evals(42),
		That("float(2)").Evals(2.0),
		That(`parse_int("17")`).Evals(17),
		That(`parse_int("x")`).Throws(eval.TypeError),
		That(`parse_float("2.5")`).Evals(2.5),
	)
}

func TestBuiltins_Numbers(t *testing.T) {
	Test(t,
		That("abs(-3)").Evals(3),
		That("abs(-2.5)").Evals(2.5),
		That("sqrt(16.0)").Evals(4.0),
		That("pow(2, 8)").Evals(256),
		That("floor(2.7)").Evals(2.0),
		That("ceil(2.1)").Evals(3.0),
		That("round(2.5)").Evals(3.0),
		That("min(3, 1, 2)").Evals(1),
		That("max([4, 9, 2])").Evals(9),
		That("min([])").Evals(vals.None),
		That("sum([1, 2, 3])").Evals(6),
		That("sum([1, 2.5])").Evals(3.5),
		That("range(0, 3)").Evals(vals.Range{Start: 0, End: 3}),
		That("range(0, 10, 4)").Evals(ListOf(0, 4, 8)),
		That("std::f64::consts::PI").Evals(math.Pi),
		That("i32::MAX").Evals(math.MaxInt32),
		That("f64::EPSILON").Evals(0x1p-52),
	)
}

func TestBuiltins_Assertions(t *testing.T) {
	Test(t,
		That("assert(1 < 2)").Evals(nil),
		That("assert(1 > 2)").Throws(eval.AssertionFailure),
		That("assert_eq(1 + 1, 2)").Evals(nil),
		That("assert_eq(1, 2)").Throws(eval.AssertionFailure),
	)
}

func TestBuiltins_Constructors(t *testing.T) {
	Test(t,
		That("let mut m = HashMap::new(); m.insert(\"a\", 1); m.get(\"a\")").
			Evals(vals.MakeSome(int64(1))),
		That("let mut s = HashSet::new(); s.insert(1); s.insert(1); s.len()").Evals(1),
		That("let mut v = Vec::new(); v.push(1); v.push(2); v").Evals(ListOf(1, 2)),
		That(`String::from("x") + "y"`).Evals("xy"),
		That("Some(1)").Evals(vals.MakeSome(int64(1))),
		That("Err(2)").Evals(vals.MakeErr(int64(2))),
	)
}
