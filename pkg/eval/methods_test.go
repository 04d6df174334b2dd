package eval_test

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	. "github.com/paiml/ruchy-sub012/pkg/eval/evaltest"
	"github.com/paiml/ruchy-sub012/pkg/eval/vals"
)

func TestMethods_Sequence(t *testing.T) {
	Test(t,
		That("[1, 2, 3].len()").Evals(3),
		That("[].is_empty()").Evals(true),
		That("[1, 2, 3].first()").Evals(vals.MakeSome(int64(1))),
		That("[].last()").Evals(vals.None),
		That("[1, 2, 3].get(5)").Evals(vals.None),
		That("[1, 2, 3].contains(2)").Evals(true),
		That("(1..10).contains(10)").Evals(false),
		That("(1..=10).contains(10)").Evals(true),
		That("[5, 6, 7].index_of(7)").Evals(vals.MakeSome(int64(2))),
		That("[1, 2, 3].map(|x| x * 10)").Evals(ListOf(10, 20, 30)),
		That("[1, 2, 3, 4].filter(|x| x % 2 == 0)").Evals(ListOf(2, 4)),
		That("[1, 2, 3].filter_map(|x| if x > 1 { Some(x) } else { None })").Evals(ListOf(2, 3)),
		That("[1, 2].flat_map(|x| [x, x])").Evals(ListOf(1, 1, 2, 2)),
		That("[1, 2, 3].fold(0, |acc, x| acc + x)").Evals(6),
		That("[1, 2, 3].reduce(|a, b| a * b)").Evals(vals.MakeSome(int64(6))),
		That("[].reduce(|a, b| a * b)").Evals(vals.None),
		That("[1, 2, 3].any(|x| x > 2)").Evals(true),
		That("[1, 2, 3].all(|x| x > 2)").Evals(false),
		That("[1, 2, 3].find(|x| x > 1)").Evals(vals.MakeSome(int64(2))),
		That("[1, 2, 3].count(|x| x != 2)").Evals(2),
		That("[1, 2, 3, 4].sum()").Evals(10),
		That("[1, 2, 3, 4].product()").Evals(24),
		That("[3, 1, 2].min()").Evals(vals.MakeSome(int64(1))),
		That("[].max()").Evals(vals.None),
		That("(1..).take(3)").Evals(ListOf(1, 2, 3)),
		That("[1, 2, 3].skip(1)").Evals(ListOf(2, 3)),
		That(`["a", "b"].enumerate()`).Evals(ListOf(vals.Tuple{0, "a"}, vals.Tuple{1, "b"})),
		That(`[1, 2, 3].zip(["a", "b"])`).Evals(ListOf(vals.Tuple{1, "a"}, vals.Tuple{2, "b"})),
		That("[1, 2, 3].rev()").Evals(ListOf(3, 2, 1)),
		That("[3, 1, 2].sorted()").Evals(ListOf(1, 2, 3)),
		That(`[1, 2, 3].join("-")`).Evals("1-2-3"),
		That("[[1, 2], [3]].flatten()").Evals(ListOf(1, 2, 3)),
		That("[1, 2, 3].chunks(2)").Evals(ListOf(ListOf(1, 2), ListOf(3))),
		That("[1, 2, 3].windows(2)").Evals(ListOf(ListOf(1, 2), ListOf(2, 3))),
		That("[1, 2, 1, 3].unique()").Evals(ListOf(1, 2, 3)),
		That("(0..3).collect()").Evals(ListOf(0, 1, 2)),
		That("(0..).collect()").Throws(eval.TypeError),
		That("[1, 2].frobnicate()").Throws(eval.UnknownMethod, "frobnicate"),
	)
}

func TestMethods_ArrayMutators(t *testing.T) {
	Test(t,
		That("let mut xs = [1]; xs.push(2); xs").Evals(ListOf(1, 2)),
		That("let mut xs = [1, 2]; xs.pop()").Evals(vals.MakeSome(int64(2))),
		That("let mut xs = [1, 2]; xs.pop(); xs").Evals(ListOf(1)),
		That("let mut xs = [1, 3]; xs.insert(1, 2); xs").Evals(ListOf(1, 2, 3)),
		That("let mut xs = [1, 2, 3]; xs.remove(0)").Evals(1),
		That("let mut xs = [1]; xs.remove(5)").Throws(eval.IndexOutOfRange),
		That("let mut xs = [3, 1, 2]; xs.sort(); xs").Evals(ListOf(1, 2, 3)),
		That(`let mut xs = ["ccc", "a", "bb"]; xs.sort_by(|s| s.len()); xs`).Evals(ListOf("a", "bb", "ccc")),
		That("let mut xs = [1, 2, 3, 4]; xs.retain(|x| x > 2); xs").Evals(ListOf(3, 4)),
		That("let mut xs = [1]; xs.extend([2, 3]); xs").Evals(ListOf(1, 2, 3)),
		That("let mut xs = [1, 2, 3]; xs.truncate(1); xs").Evals(ListOf(1)),
		That("let mut xs = [1, 2]; xs.clear(); xs").Evals(ListOf()),
	)
}

func TestMethods_String(t *testing.T) {
	Test(t,
		That(`"héllo".len()`).Evals(5),
		That(`"abc".to_upper()`).Evals("ABC"),
		That(`"  x ".trim()`).Evals("x"),
		That(`"hello".contains("ell")`).Evals(true),
		That(`"hello".starts_with("he")`).Evals(true),
		That(`"a,b,c".split(",")`).Evals(ListOf("a", "b", "c")),
		That(`"a b  c".split_whitespace()`).Evals(ListOf("a", "b", "c")),
		That(`"ab".chars()`).Evals(ListOf("a", "b")),
		That(`"x\ny\n".lines()`).Evals(ListOf("x", "y")),
		That(`"hello".find("l")`).Evals(vals.MakeSome(int64(2))),
		That(`"hello".find("z")`).Evals(vals.None),
		That(`"abc".reverse()`).Evals("cba"),
		That(`"hello".replace("l", "L")`).Evals("heLLo"),
		That(`"ab".repeat(2)`).Evals("abab"),
		That(`"hello".substring(1, 3)`).Evals("el"),
		That(`"word".capitalize()`).Evals("Word"),
		That(`"42".parse()`).Evals(vals.MakeOk(int64(42))),
		That(`"4.5".parse()`).Evals(vals.MakeOk(4.5)),
		That(`"x".parse().is_err()`).Evals(true),
		That(`"7".pad_start(3, "0")`).Evals("007"),
		That(`let mut s = "a"; s.push_str("bc"); s`).Evals("abc"),
	)
}

func TestMethods_Object(t *testing.T) {
	Test(t,
		That(`let o = {a: 1, b: 2}; o.keys()`).Evals(ListOf("a", "b")),
		That(`let o = {a: 1}; o.get("a")`).Evals(vals.MakeSome(int64(1))),
		That(`let o = {a: 1}; o.get("b")`).Evals(vals.None),
		That(`let o = {a: 1}; o.get_or("b", 0)`).Evals(0),
		That(`let o = {a: 1}; o.contains_key("a")`).Evals(true),
		That(`let o = {a: 1}; o.items()`).Evals(ListOf(vals.Tuple{"a", 1})),
		That(`let mut o = {a: 1}; o.insert("b", 2); o.len()`).Evals(2),
		That(`let mut o = {a: 1}; o.insert("a", 5)`).Evals(vals.MakeSome(int64(1))),
		That(`let mut o = {a: 1}; o.remove("a"); o.is_empty()`).Evals(true),
		That(`let mut m = HashMap::new(); m.insert("k", 1); m.insert("k", 2); m.get("k")`).
			Evals(vals.MakeSome(int64(2))),
	)
}

func TestMethods_Number(t *testing.T) {
	Test(t,
		That("(-4).abs()").Evals(4),
		That("(3).pow(2)").Evals(9),
		That("(5).min(2)").Evals(2),
		That("(15).clamp(0, 10)").Evals(10),
		That("(4).is_even()").Evals(true),
		That("(7).signum()").Evals(1),
		That("(2.7).floor()").Evals(2.0),
		That("(2.5).round()").Evals(3.0),
		That("(9.0).sqrt()").Evals(3.0),
		That("(0.0 / 0.0).is_nan()").Evals(true),
		That("(10).checked_div(0)").Evals(vals.None),
		That("(2).to_float()").Evals(2.0),
	)
}

func TestMethods_OptionResult(t *testing.T) {
	Test(t,
		That("Some(1).is_some()").Evals(true),
		That("None.is_none()").Evals(true),
		That("Some(3).unwrap()").Evals(3),
		That("None.unwrap()").Throws(eval.Thrown, "None"),
		That(`None.expect("need value")`).ThrowsError(ThrownValue("need value")),
		That("None.unwrap_or(5)").Evals(5),
		That("None.unwrap_or_else(|| 6)").Evals(6),
		That("Some(2).map(|x| x + 1)").Evals(vals.MakeSome(int64(3))),
		That("Some(2).and_then(|x| None)").Evals(vals.None),
		That("Some(2).filter(|x| x > 5)").Evals(vals.None),
		That(`None.ok_or("missing")`).Evals(vals.MakeErr("missing")),
		That("Ok(1).is_ok()").Evals(true),
		That("Err(1).unwrap_or(0)").Evals(0),
		That(`Err("bad").unwrap()`).Throws(eval.Thrown, "bad"),
		That("Ok(2).map(|x| x * 2)").Evals(vals.MakeOk(int64(4))),
		That(`Err(1).map_err(|e| e + 1)`).Evals(vals.MakeErr(int64(2))),
		That("Err(3).unwrap_err()").Evals(3),
		That("Ok(3).ok()").Evals(vals.MakeSome(int64(3))),
		That("Err(3).ok()").Evals(vals.None),
	)
}

func TestMethods_Any(t *testing.T) {
	Test(t,
		That("(5).to_string()").Evals("5"),
		That("[1, 2].to_string()").Evals("[1, 2]"),
		That(`"s".type_of()`).Evals("string"),
		That("[1, 2].clone()").Evals(ListOf(1, 2)),
	)
}
