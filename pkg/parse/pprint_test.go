package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/paiml/ruchy-sub012/pkg/diag"
	"github.com/paiml/ruchy-sub012/pkg/testutil"
)

var roundTripPrograms = []string{
	testutil.Dedent(`
		let xs = [1, 2, 3]
		let total = xs.map(|x| x * 2).sum()
		fun fact(n: i64) -> i64 { if n <= 1 { 1 } else { n * fact(n - 1) } }
		fact(total)`),
	testutil.Dedent(`
		// A point.
		struct Point { x: f64, y: f64 = 0.0 }
		#[derive(Debug, Clone)]
		enum Shape { Circle(f64), Rect { w: f64, h: f64 }, Empty = 3 }
		trait Area { fun area(&self) -> f64 }
		impl Area for Point { fun area(&self) -> f64 { 0.0 } }
		let result = match shape {
		    Shape::Circle(r) => 3.14 * r * r,
		    Shape::Rect { w, h } => w * h,
		    _ => 0.0
		}`),
	testutil.Dedent(`
		class Counter : Base + Show {
		    count: i32 = 0
		    new(start: i32) { self.count = start }
		    fun inc(&mut self) { self.count += 1 }
		}
		actor Pinger {
		    count: i32 = 0
		    receive { Ping(n) => self.count += n, Stop => () }
		}
		supervisor Root {
		    strategy: OneForAll
		    child p: Pinger(1) restart: Transient shutdown: Brutal
		}
		let p = spawn Pinger { count: 0 }
		p <- Ping(1)
		let n = call p <- Get timeout 50`),
	testutil.Dedent(`
		try { risky()? } catch (e: TypeError) { log(e) } finally { done() }
		while let Some(x) = stack.pop() { print(x) } // drain
		let f = async |x| await fetch(x)
		let msg = f"total: {total:.2} items, {{braces}}"
		'outer: for (i, row) in rows.enumerate() {
		    for x in row { if x < 0 { continue 'outer } }
		    break 'outer
		}
		let [first, ..rest] = xs else { return None }
		let grid = [[0; 3]; 3]
		let squares = {x: x * x for x in 1..=5}
		df![name => ["a", "b"], score => [1, 2]].filter(|r| r.score > 1)`),
	testutil.Dedent(`
		x = y = -(a - b) ** 2
		z = (x ?? 0) |> double |> str
		w = !(a && b) || c as bool
		v = t.0.1 + xs[1..=2][0] + m["k"]
		u = {1, 2, 3}
		import std::io::{read, write}
		export fun helper() { () }`),
}

func TestRoundTrip(t *testing.T) {
	opts := cmp.Options{
		cmpopts.IgnoreTypes(diag.Ranging{}, []Comment(nil), (*Comment)(nil)),
		cmpopts.EquateEmpty(),
	}
	for _, code := range roundTripPrograms {
		tree1, err := Parse(Source{Name: "a", Code: code})
		if err != nil {
			t.Errorf("parse %q: %v", code, err)
			continue
		}
		printed := PrintProgram(tree1.Root)
		tree2, err := Parse(Source{Name: "b", Code: printed})
		if err != nil {
			t.Errorf("parse printed form:\n%s\nerror: %v", printed, err)
			continue
		}
		if diff := cmp.Diff(tree1.Root, tree2.Root, opts); diff != "" {
			t.Errorf("round trip of:\n%s\nprinted:\n%s\ndiff (-original +reparsed):\n%s", code, printed, diff)
		}
	}
}

func TestPrintPattern(t *testing.T) {
	e, err := ParseExpr("match v { Some((a, mut b)) | None => 1 }")
	if err != nil {
		t.Fatal(err)
	}
	got := PrintPattern(e.Kind.(*Match).Arms[0].Pattern)
	if want := "Some((a, mut b)) | None"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
